package dynamicprompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWildcards_AddAndGet(t *testing.T) {
	wildcards := NewMemoryWildcards()
	wildcards.Add("colors", "red", "blue")
	wildcards.Add("colors", "green")

	values, ok := wildcards.Get("colors")

	require.True(t, ok)
	assert.Equal(t, []string{"red", "blue", "green"}, values)
}

func TestMemoryWildcards_GetUnknown(t *testing.T) {
	wildcards := NewMemoryWildcards()

	_, ok := wildcards.Get("missing")

	assert.False(t, ok)
}

func TestMemoryWildcards_GetReturnsCopy(t *testing.T) {
	wildcards := NewMemoryWildcards()
	wildcards.Add("colors", "red", "blue")

	values, _ := wildcards.Get("colors")
	values[0] = "mutated"

	fresh, _ := wildcards.Get("colors")
	assert.Equal(t, []string{"red", "blue"}, fresh)
}

func TestMemoryWildcards_Set(t *testing.T) {
	wildcards := NewMemoryWildcards()
	wildcards.Add("colors", "red")
	wildcards.Set("colors", []string{"cyan"})

	values, ok := wildcards.Get("colors")

	require.True(t, ok)
	assert.Equal(t, []string{"cyan"}, values)
}

func TestMemoryWildcards_Remove(t *testing.T) {
	wildcards := NewMemoryWildcards()
	wildcards.Add("colors", "red")
	wildcards.Remove("colors")

	_, ok := wildcards.Get("colors")

	assert.False(t, ok)
}

func TestMemoryWildcards_NamesSorted(t *testing.T) {
	wildcards := NewMemoryWildcards()
	wildcards.Add("zebra", "z")
	wildcards.Add("apple", "a")
	wildcards.Add("mango", "m")

	assert.Equal(t, []string{"apple", "mango", "zebra"}, wildcards.Names())
}

func TestWildcardResolver_Direct(t *testing.T) {
	wildcards := NewMemoryWildcards()
	wildcards.Add("colors", "red", "blue")
	resolver := newWildcardResolver([]WildcardSource{wildcards}, nil)

	values, err := resolver.Values("colors")

	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue"}, values)
}

func TestWildcardResolver_SourceOrder(t *testing.T) {
	first := NewMemoryWildcards()
	first.Add("colors", "red")
	second := NewMemoryWildcards()
	second.Add("colors", "blue")
	resolver := newWildcardResolver([]WildcardSource{first, second}, nil)

	values, err := resolver.Values("colors")

	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue"}, values)
}

func TestWildcardResolver_Glob(t *testing.T) {
	wildcards := NewMemoryWildcards()
	wildcards.Add("animals/cats", "tabby")
	wildcards.Add("animals/dogs", "husky")
	wildcards.Add("plants/trees", "oak")
	resolver := newWildcardResolver([]WildcardSource{wildcards}, nil)

	values, err := resolver.Values("animals/*")

	require.NoError(t, err)
	assert.Equal(t, []string{"tabby", "husky"}, values)
}

func TestWildcardResolver_GlobNoSeparatorCrossing(t *testing.T) {
	wildcards := NewMemoryWildcards()
	wildcards.Add("animals/cats", "tabby")
	wildcards.Add("animals/wild/lions", "mane")
	resolver := newWildcardResolver([]WildcardSource{wildcards}, nil)

	// path.Match "*" does not cross "/" boundaries
	values, err := resolver.Values("animals/*")

	require.NoError(t, err)
	assert.Equal(t, []string{"tabby"}, values)
}

func TestWildcardResolver_Dedupe(t *testing.T) {
	first := NewMemoryWildcards()
	first.Add("colors", "red", "blue")
	second := NewMemoryWildcards()
	second.Add("colors", "blue", "green")
	resolver := newWildcardResolver([]WildcardSource{first, second}, nil)

	values, err := resolver.Values("colors")

	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue", "green"}, values)
}

func TestWildcardResolver_Unknown(t *testing.T) {
	resolver := newWildcardResolver(nil, nil)

	_, err := resolver.Values("missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnknownWildcard)
}

func TestWildcardResolver_CachesLookups(t *testing.T) {
	wildcards := NewMemoryWildcards()
	wildcards.Add("colors", "red")
	resolver := newWildcardResolver([]WildcardSource{wildcards}, nil)

	first, err := resolver.Values("colors")
	require.NoError(t, err)

	// Source changes are invisible for the resolver's lifetime
	wildcards.Add("colors", "blue")
	second, err := resolver.Values("colors")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
