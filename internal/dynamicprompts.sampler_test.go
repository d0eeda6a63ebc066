package internal

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubWildcards is a map-backed provider for sampler tests
type stubWildcards map[string][]string

func (m stubWildcards) Values(name string) ([]string, error) {
	values, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("no collection named %s", name)
	}
	return values, nil
}

func seededRng(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func mustParse(t *testing.T, source string) *SequenceNode {
	t.Helper()
	root, err := NewParser(DefaultConfig(), nil).Parse(source)
	require.NoError(t, err)
	return root
}

func collectAll(t *testing.T, source string, wildcards WildcardProvider) []string {
	t.Helper()
	enum, err := NewEnumeration(DefaultConfig(), wildcards, seededRng(1), nil, mustParse(t, source))
	require.NoError(t, err)

	var outputs []string
	for {
		value, ok, err := enum.Next()
		require.NoError(t, err)
		if !ok {
			return outputs
		}
		outputs = append(outputs, value)
	}
}

func TestRandomSampler_LiteralRoundTrip(t *testing.T) {
	sampler := NewRandomSampler(DefaultConfig(), nil, seededRng(1), nil)
	out, err := sampler.Sample(mustParse(t, "plain text, no syntax"))
	require.NoError(t, err)
	assert.Equal(t, "plain text, no syntax", out)
}

func TestRandomSampler_VariantStaysInOptionSet(t *testing.T) {
	sampler := NewRandomSampler(DefaultConfig(), nil, seededRng(42), nil)
	root := mustParse(t, "a{b|c}d")

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		out, err := sampler.Sample(root)
		require.NoError(t, err)
		assert.Contains(t, []string{"abd", "acd"}, out)
		seen[out] = true
	}
	assert.Len(t, seen, 2)
}

func TestRandomSampler_WeightsSkewSelection(t *testing.T) {
	sampler := NewRandomSampler(DefaultConfig(), nil, seededRng(7), nil)
	root := mustParse(t, "{9::a|1::b}")

	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		out, err := sampler.Sample(root)
		require.NoError(t, err)
		counts[out]++
	}
	// Expected 9000 draws of "a"; the window is several standard
	// deviations wide for a fixed seed
	assert.Greater(t, counts["a"], 8800)
	assert.Less(t, counts["a"], 9200)
}

func TestRandomSampler_MultiDrawWithoutReplacement(t *testing.T) {
	sampler := NewRandomSampler(DefaultConfig(), nil, seededRng(3), nil)
	root := mustParse(t, "{2$$a|b|c}")

	for i := 0; i < 30; i++ {
		out, err := sampler.Sample(root)
		require.NoError(t, err)
		parts := strings.Split(out, DefaultSeparator)
		require.Len(t, parts, 2)
		assert.NotEqual(t, parts[0], parts[1])
	}
}

func TestRandomSampler_RangeDrawCounts(t *testing.T) {
	sampler := NewRandomSampler(DefaultConfig(), nil, seededRng(5), nil)
	root := mustParse(t, "{1-3$$x|y|z}")

	seenCounts := map[int]bool{}
	for i := 0; i < 100; i++ {
		out, err := sampler.Sample(root)
		require.NoError(t, err)
		n := len(strings.Split(out, DefaultSeparator))
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 3)
		seenCounts[n] = true
	}
	assert.Len(t, seenCounts, 3)
}

func TestRandomSampler_WildcardExpansion(t *testing.T) {
	wildcards := stubWildcards{"colors": {"red", "blue"}}
	sampler := NewRandomSampler(DefaultConfig(), wildcards, seededRng(11), nil)
	root := mustParse(t, "a __colors__ car")

	for i := 0; i < 20; i++ {
		out, err := sampler.Sample(root)
		require.NoError(t, err)
		assert.Contains(t, []string{"a red car", "a blue car"}, out)
	}
}

func TestRandomSampler_WildcardValuesMayNest(t *testing.T) {
	wildcards := stubWildcards{"animal": {"{cat|dog}", "bird"}}
	sampler := NewRandomSampler(DefaultConfig(), wildcards, seededRng(13), nil)
	root := mustParse(t, "__animal__")

	for i := 0; i < 20; i++ {
		out, err := sampler.Sample(root)
		require.NoError(t, err)
		assert.Contains(t, []string{"cat", "dog", "bird"}, out)
	}
}

func TestRandomSampler_UnknownWildcardFailsItem(t *testing.T) {
	sampler := NewRandomSampler(DefaultConfig(), stubWildcards{}, seededRng(1), nil)
	_, err := sampler.Sample(mustParse(t, "__nope__"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestRandomSampler_SelfReferencingWildcardStops(t *testing.T) {
	wildcards := stubWildcards{"loop": {"__loop__"}}
	sampler := NewRandomSampler(DefaultConfig(), wildcards, seededRng(1), nil)

	_, err := sampler.Sample(mustParse(t, "__loop__"))
	require.Error(t, err)

	var depthErr *DepthExceededError
	require.True(t, errors.As(err, &depthErr))
	assert.Equal(t, "loop", depthErr.Name)
}

func TestRandomSampler_Variables(t *testing.T) {
	sampler := NewRandomSampler(DefaultConfig(), nil, seededRng(1), nil)

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"assignment emits and binds", "${x=A}${x}", "AA"},
		{"immediate binds silently", "${x=!A}-${x}", "-A"},
		{"preserve keeps existing", "${x=!A}${x?=B}${x}", "A"},
		{"preserve binds when unbound", "${x?=B}${x}", "B"},
		{"default on unbound", "${x:fallback}", "fallback"},
		{"default ignored when bound", "${x=!A}${x:fallback}", "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := sampler.Sample(mustParse(t, tt.source))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRandomSampler_UnboundVariableFails(t *testing.T) {
	sampler := NewRandomSampler(DefaultConfig(), nil, seededRng(1), nil)
	_, err := sampler.Sample(mustParse(t, "${nope}"))
	require.Error(t, err)

	var unbound *UnboundVariableError
	require.True(t, errors.As(err, &unbound))
	assert.Equal(t, "nope", unbound.Name)
}

func TestRandomSampler_BindingsResetPerItem(t *testing.T) {
	sampler := NewRandomSampler(DefaultConfig(), nil, seededRng(1), nil)
	root := mustParse(t, "${x?=A}${x}")

	for i := 0; i < 3; i++ {
		out, err := sampler.Sample(root)
		require.NoError(t, err)
		assert.Equal(t, "A", out)
	}
}

func TestRandomSampler_VariableNamedWildcardPath(t *testing.T) {
	wildcards := stubWildcards{
		"dark/colors":  {"black"},
		"light/colors": {"white"},
	}
	sampler := NewRandomSampler(DefaultConfig(), wildcards, seededRng(1), nil)

	out, err := sampler.Sample(mustParse(t, "${theme=!dark}__${theme}/colors__"))
	require.NoError(t, err)
	assert.Equal(t, "black", out)
}

func TestRandomSampler_WildcardScopeIsolation(t *testing.T) {
	// Variables bound inside a wildcard value do not leak out
	wildcards := stubWildcards{"inner": {"${x=!hidden}ok"}}
	sampler := NewRandomSampler(DefaultConfig(), wildcards, seededRng(1), nil)

	_, err := sampler.Sample(mustParse(t, "__inner__ ${x}"))
	require.Error(t, err)

	var unbound *UnboundVariableError
	require.True(t, errors.As(err, &unbound))
}

func TestRandomSampler_FiniteCursorCycles(t *testing.T) {
	sampler := NewRandomSampler(DefaultConfig(), nil, seededRng(1), nil)
	root := mustParse(t, "{@a|b}")

	var outputs []string
	for i := 0; i < 4; i++ {
		out, err := sampler.Sample(root)
		require.NoError(t, err)
		outputs = append(outputs, out)
	}
	assert.Equal(t, []string{"a", "b", "a", "b"}, outputs)
}

func TestEnumeration_BasicVariant(t *testing.T) {
	assert.Equal(t, []string{"abd", "acd"}, collectAll(t, "a{b|c}d", nil))
}

func TestEnumeration_RightmostVariesFastest(t *testing.T) {
	outputs := collectAll(t, "{a|b}{1|2}", nil)
	assert.Equal(t, []string{"a1", "a2", "b1", "b2"}, outputs)
}

func TestEnumeration_MultiDrawCombinations(t *testing.T) {
	outputs := collectAll(t, "{2$$x|y|z}", nil)
	assert.Equal(t, []string{"x,y", "x,z", "y,z"}, outputs)
}

func TestEnumeration_RangeDrawsAscending(t *testing.T) {
	outputs := collectAll(t, "{1-2$$a|b}", nil)
	assert.Equal(t, []string{"a", "b", "a,b"}, outputs)
}

func TestEnumeration_ZeroDrawIsEmptyExpansion(t *testing.T) {
	outputs := collectAll(t, "{0-1$$a}", nil)
	assert.Equal(t, []string{"", "a"}, outputs)
}

func TestEnumeration_WeightsIgnored(t *testing.T) {
	outputs := collectAll(t, "{9::a|1::b}", nil)
	assert.Equal(t, []string{"a", "b"}, outputs)
}

func TestEnumeration_DuplicateOptionTextsCollapse(t *testing.T) {
	outputs := collectAll(t, "{a|a}", nil)
	assert.Equal(t, []string{"a"}, outputs)
}

func TestEnumeration_MultiDrawSkipsShrunkenCombinations(t *testing.T) {
	outputs := collectAll(t, "{2$$a|a|b}", nil)
	assert.Equal(t, []string{"a,b"}, outputs)
}

func TestEnumeration_DuplicateWildcardExpansionsCollapse(t *testing.T) {
	wildcards := stubWildcards{"pet": {"cat", "dog"}}
	outputs := collectAll(t, "{__pet__|cat}", wildcards)
	assert.Equal(t, []string{"cat", "dog"}, outputs)
}

func TestEnumeration_EmptyTemplate(t *testing.T) {
	assert.Equal(t, []string{""}, collectAll(t, "", nil))
}

func TestEnumeration_VariableScoping(t *testing.T) {
	outputs := collectAll(t, "{${x=A}|${x=B}}${x}", nil)
	assert.Equal(t, []string{"AA", "BB"}, outputs)
}

func TestEnumeration_AssignmentRebindsPerPath(t *testing.T) {
	outputs := collectAll(t, "{1|2}${x={a|b}}:${x}", nil)
	assert.Equal(t, []string{"1a:a", "1b:b", "2a:a", "2b:b"}, outputs)
}

func TestEnumeration_WildcardChainsInOrder(t *testing.T) {
	wildcards := stubWildcards{"colors": {"red", "blue"}}
	outputs := collectAll(t, "__colors__ car", wildcards)
	assert.Equal(t, []string{"red car", "blue car"}, outputs)
}

func TestEnumeration_WildcardValuesExpandFully(t *testing.T) {
	wildcards := stubWildcards{"animal": {"{cat|dog}", "bird"}}
	outputs := collectAll(t, "__animal__", wildcards)
	assert.Equal(t, []string{"cat", "dog", "bird"}, outputs)
}

func TestEnumeration_UnknownWildcardFailsUpFront(t *testing.T) {
	_, err := NewEnumeration(DefaultConfig(), stubWildcards{}, seededRng(1), nil, mustParse(t, "__nope__"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestEnumeration_LimitGuard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CombinatorialLimit = 4

	_, err := NewEnumeration(cfg, nil, seededRng(1), nil, mustParse(t, "{a|b}{c|d}{e|f}"))
	require.Error(t, err)

	var limitErr *LimitExceededError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, uint64(4), limitErr.Limit)
}

func TestEnumeration_AtLimitSucceeds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CombinatorialLimit = 4

	enum, err := NewEnumeration(cfg, nil, seededRng(1), nil, mustParse(t, "{a|b}{c|d}"))
	require.NoError(t, err)

	count := 0
	for {
		_, ok, err := enum.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 4, count)
}

func TestEnumeration_Idempotent(t *testing.T) {
	wildcards := stubWildcards{"animal": {"{cat|dog}", "bird"}}
	first := collectAll(t, "__animal__ {a|b}", wildcards)
	second := collectAll(t, "__animal__ {a|b}", wildcards)
	assert.Equal(t, first, second)
	assert.Len(t, first, 6)
}

func TestEnumeration_RandomTaggedNodeDrawsOncePerPath(t *testing.T) {
	enum, err := NewEnumeration(DefaultConfig(), nil, seededRng(1), nil, mustParse(t, "{~x|y}{a|b}"))
	require.NoError(t, err)

	count := 0
	for {
		value, ok, err := enum.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		require.Len(t, value, 2)
		assert.Contains(t, []string{"x", "y"}, string(value[0]))
		count++
	}
	assert.Equal(t, 2, count)
}

func TestCycler_CoversSpaceEachPass(t *testing.T) {
	cycler, err := NewCycler(DefaultConfig(), nil, seededRng(9), nil, mustParse(t, "{a|b|c}"))
	require.NoError(t, err)
	assert.Equal(t, 3, cycler.Size())

	for pass := 0; pass < 3; pass++ {
		seen := map[string]bool{}
		for i := 0; i < 3; i++ {
			seen[cycler.Next()] = true
		}
		assert.Len(t, seen, 3)
	}
}

func TestCycler_LimitGuardApplies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CombinatorialLimit = 2

	_, err := NewCycler(cfg, nil, seededRng(1), nil, mustParse(t, "{a|b|c}"))
	require.Error(t, err)

	var limitErr *LimitExceededError
	require.True(t, errors.As(err, &limitErr))
}

func TestSpaceSize_Saturates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CombinatorialLimit = 10
	s := newSession(cfg, nil, seededRng(1), nil)

	size, err := s.spaceSize(mustParse(t, "{a|b}{c|d}{e|f}{g|h}"))
	require.NoError(t, err)
	assert.Equal(t, uint64(11), size)
}
