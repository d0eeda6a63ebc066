package internal

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RandomSampler draws independent prompts from a template. Each call
// to Sample starts from empty bindings; cursors for finite-tagged
// nodes persist across calls so they cycle their space in order.
type RandomSampler struct {
	s *session
}

// NewRandomSampler creates a random sampler. A nil rng is seeded from
// the clock; pass a seeded rand.Rand for reproducible output.
func NewRandomSampler(cfg *Config, wildcards WildcardProvider, rng *rand.Rand, logger *zap.Logger) *RandomSampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	sampler := &RandomSampler{s: newSession(cfg, wildcards, rng, logger)}
	sampler.s.logger.Debug(LogMsgSamplerCreated, zap.String(LogFieldMethod, SamplingNameRandom))
	return sampler
}

// Sample produces one prompt from the template
func (r *RandomSampler) Sample(root Node) (string, error) {
	r.s.bindings.Reset()
	r.s.logger.Debug(LogMsgSampleStart)
	value, err := r.s.sampleString(root)
	if err != nil {
		return "", err
	}
	r.s.logger.Debug(LogMsgSampleEnd, zap.Int(LogFieldSource, len(value)))
	return value, nil
}

// sampleString renders a node to text using the session rng
func (s *session) sampleString(n Node) (string, error) {
	var sb strings.Builder
	if err := s.sampleNode(n, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (s *session) sampleNode(n Node, sb *strings.Builder) error {
	switch node := n.(type) {
	case *LiteralNode:
		sb.WriteString(node.Text)
		return nil

	case *SequenceNode:
		for _, child := range node.Children {
			if err := s.sampleNode(child, sb); err != nil {
				return err
			}
		}
		return nil

	case *VariantNode:
		if isFinite(node.Method) {
			return s.sampleFromCursor(node, sb)
		}
		return s.sampleVariant(node, sb)

	case *WildcardNode:
		if isFinite(node.Method) {
			return s.sampleFromCursor(node, sb)
		}
		return s.sampleWildcard(node, sb)

	case *AssignNode:
		if node.Preserve && s.bindings.Has(node.Name) {
			return nil
		}
		value, err := s.sampleString(node.Value)
		if err != nil {
			return err
		}
		s.bindings.Set(node.Name, value)
		if node.Emits() {
			sb.WriteString(value)
		}
		return nil

	case *RefNode:
		if value, ok := s.bindings.Lookup(node.Name); ok {
			sb.WriteString(value)
			return nil
		}
		if node.Default != nil {
			return s.sampleNode(node.Default, sb)
		}
		return &UnboundVariableError{Name: node.Name, Pos: node.Pos()}

	default:
		return nil
	}
}

// isFinite reports a per-node override that pins the node to its
// enumerated space inside a random run
func isFinite(m SamplingMethod) bool {
	return m == SamplingCombinatorial || m == SamplingCyclical
}

// sampleFromCursor emits the next value of a finite-tagged node
func (s *session) sampleFromCursor(n Node, sb *strings.Builder) error {
	cur, err := s.finiteCursor(n)
	if err != nil {
		return err
	}
	sb.WriteString(cur.next())
	return nil
}

// sampleVariant draws k weighted options without replacement and
// joins them in draw order
func (s *session) sampleVariant(node *VariantNode, sb *strings.Builder) error {
	k := node.MinCount
	if node.MaxCount > node.MinCount {
		k += s.rng.Intn(node.MaxCount - node.MinCount + 1)
	}
	if k <= 0 {
		return nil
	}

	chosen := s.drawWeighted(node.Options, k)
	for i, idx := range chosen {
		if i > 0 {
			sb.WriteString(node.Separator)
		}
		if err := s.sampleNode(node.Options[idx].Value, sb); err != nil {
			return err
		}
	}
	return nil
}

// drawWeighted picks k distinct option indices with probability
// proportional to their weights
func (s *session) drawWeighted(options []VariantOption, k int) []int {
	taken := make([]bool, len(options))
	remaining := 0.0
	for _, opt := range options {
		remaining += opt.Weight
	}

	chosen := make([]int, 0, k)
	for draw := 0; draw < k && draw < len(options); draw++ {
		idx := s.pickOne(options, taken, remaining)
		taken[idx] = true
		remaining -= options[idx].Weight
		chosen = append(chosen, idx)
	}
	return chosen
}

func (s *session) pickOne(options []VariantOption, taken []bool, remaining float64) int {
	if remaining > 0 {
		target := s.rng.Float64() * remaining
		for i, opt := range options {
			if taken[i] {
				continue
			}
			if target < opt.Weight {
				return i
			}
			target -= opt.Weight
		}
	}
	// All remaining weight is zero, fall back to the first free option
	for i := range options {
		if !taken[i] {
			return i
		}
	}
	return 0
}

// sampleWildcard picks one collection value uniformly and expands it
// in a fresh variable scope
func (s *session) sampleWildcard(node *WildcardNode, sb *strings.Builder) error {
	name, err := s.wildcardName(node)
	if err != nil {
		return err
	}
	if err := s.enterWildcard(name); err != nil {
		return err
	}
	defer s.leaveWildcard()

	values, err := s.wildcards.Values(name)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("%s: %s", ErrMsgEmptyCollection, name)
	}
	s.logger.Debug(LogMsgWildcardExpanded,
		zap.String(LogFieldWildcard, name),
		zap.Int(LogFieldValues, len(values)))

	parsed, err := s.parseValue(values[s.rng.Intn(len(values))])
	if err != nil {
		return err
	}

	s.bindings.Push()
	defer s.bindings.Pop()
	return s.sampleNode(parsed, sb)
}
