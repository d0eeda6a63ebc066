package internal

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"
)

// WildcardProvider supplies expansion candidates for wildcard names.
// Implementations own glob matching and caching; errors pass through
// the samplers untouched.
type WildcardProvider interface {
	Values(name string) ([]string, error)
}

// UnboundVariableError reports a variable read before any assignment
type UnboundVariableError struct {
	Name string
	Pos  Position
}

// Error returns the formatted message
func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("%s: %s at %s", ErrMsgUnboundVariable, e.Name, e.Pos)
}

// LimitExceededError reports a combinatorial space larger than the
// configured ceiling. Size saturates at Limit+1 during measurement.
type LimitExceededError struct {
	Size  uint64
	Limit uint64
}

// Error returns the formatted message
func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s: at least %d expansions, limit %d", ErrMsgSpaceTooLarge, e.Size, e.Limit)
}

// DepthExceededError reports runaway wildcard expansion, usually a
// collection that references itself
type DepthExceededError struct {
	Name  string
	Depth int
}

// Error returns the formatted message
func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("%s: %s at depth %d", ErrMsgWildcardTooDeep, e.Name, e.Depth)
}

// session holds the shared state of one generation pass: variable
// bindings, the wildcard parse cache, and cursors for finite-tagged
// nodes sampled under a random run.
type session struct {
	cfg       *Config
	wildcards WildcardProvider
	rng       *rand.Rand
	logger    *zap.Logger
	bindings  *Bindings
	parser    *Parser
	parsed    map[string]*SequenceNode
	cursors   map[Node]*cycleCursor
	wdepth    int
}

func newSession(cfg *Config, wildcards WildcardProvider, rng *rand.Rand, logger *zap.Logger) *session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &session{
		cfg:       cfg,
		wildcards: wildcards,
		rng:       rng,
		logger:    logger,
		bindings:  NewBindings(),
		parser:    NewParser(cfg, logger),
		parsed:    make(map[string]*SequenceNode),
		cursors:   make(map[Node]*cycleCursor),
	}
}

// parseValue parses a wildcard candidate value, caching by source text
func (s *session) parseValue(src string) (*SequenceNode, error) {
	if node, ok := s.parsed[src]; ok {
		return node, nil
	}
	node, err := s.parser.Parse(src)
	if err != nil {
		return nil, err
	}
	s.parsed[src] = node
	return node, nil
}

// wildcardName assembles a collection name from the node's parts,
// resolving variable references against the current bindings
func (s *session) wildcardName(n *WildcardNode) (string, error) {
	name := make([]byte, 0, 16)
	for _, part := range n.Parts {
		switch p := part.(type) {
		case *LiteralNode:
			name = append(name, p.Text...)
		case *RefNode:
			value, ok := s.bindings.Lookup(p.Name)
			if !ok {
				return "", &UnboundVariableError{Name: p.Name, Pos: p.Pos()}
			}
			name = append(name, value...)
		}
	}
	return string(name), nil
}

// enterWildcard tracks expansion depth to catch self-referencing
// collections
func (s *session) enterWildcard(name string) error {
	if s.cfg.MaxDepth > 0 && s.wdepth >= s.cfg.MaxDepth {
		return &DepthExceededError{Name: name, Depth: s.wdepth}
	}
	s.wdepth++
	return nil
}

func (s *session) leaveWildcard() {
	if s.wdepth > 0 {
		s.wdepth--
	}
}

// cycleCursor walks a materialized expansion space in order, wrapping
// on exhaustion. Used for finite-tagged nodes inside random runs.
type cycleCursor struct {
	outputs []string
	pos     int
}

func (c *cycleCursor) next() string {
	value := c.outputs[c.pos]
	c.pos = (c.pos + 1) % len(c.outputs)
	return value
}

// finiteCursor returns the cursor for a finite-tagged node, building
// and caching its full expansion on first use
func (s *session) finiteCursor(n Node) (*cycleCursor, error) {
	if cur, ok := s.cursors[n]; ok {
		return cur, nil
	}
	outputs, err := enumerateAll(s.cfg, s.wildcards, s.rng, s.logger, n)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		outputs = []string{""}
	}
	cur := &cycleCursor{outputs: outputs}
	s.cursors[n] = cur
	s.logger.Debug(LogMsgCursorAdvanced, zap.Int(LogFieldValues, len(outputs)))
	return cur, nil
}

// saturating arithmetic for space sizing, capped just above the limit
// so oversize spaces are detectable without overflow

func satAdd(a, b, ceiling uint64) uint64 {
	if a > ceiling-1 || b > ceiling-1 || a+b > ceiling {
		return ceiling
	}
	return a + b
}

func satMul(a, b, ceiling uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > ceiling/b {
		return ceiling
	}
	return a * b
}

// spaceSize measures the expansion space of a node, saturating at
// limit+1. Wildcards with binding-dependent names contribute one, the
// guard is best effort for those.
func (s *session) spaceSize(n Node) (uint64, error) {
	ceiling := s.cfg.CombinatorialLimit + 1
	return s.sizeNode(n, ceiling)
}

func (s *session) sizeNode(n Node, ceiling uint64) (uint64, error) {
	switch node := n.(type) {
	case *LiteralNode:
		return 1, nil

	case *SequenceNode:
		size := uint64(1)
		for _, child := range node.Children {
			childSize, err := s.sizeNode(child, ceiling)
			if err != nil {
				return 0, err
			}
			size = satMul(size, childSize, ceiling)
			if size >= ceiling {
				return ceiling, nil
			}
		}
		return size, nil

	case *VariantNode:
		if node.Method == SamplingRandom {
			// One fresh sample per enumeration path
			return 1, nil
		}
		sizes := make([]uint64, len(node.Options))
		for i, opt := range node.Options {
			optSize, err := s.sizeNode(opt.Value, ceiling)
			if err != nil {
				return 0, err
			}
			sizes[i] = optSize
		}
		total := uint64(0)
		for k := node.MinCount; k <= node.MaxCount; k++ {
			if k == 0 {
				total = satAdd(total, 1, ceiling)
				continue
			}
			total = satAdd(total, chooseSum(sizes, 0, k, ceiling), ceiling)
			if total >= ceiling {
				return ceiling, nil
			}
		}
		return total, nil

	case *WildcardNode:
		if node.Method == SamplingRandom {
			return 1, nil
		}
		name, ok := node.StaticName()
		if !ok {
			return 1, nil
		}
		if err := s.enterWildcard(name); err != nil {
			return 0, err
		}
		defer s.leaveWildcard()
		values, err := s.wildcards.Values(name)
		if err != nil {
			return 0, err
		}
		total := uint64(0)
		for _, value := range values {
			parsed, err := s.parseValue(value)
			if err != nil {
				return 0, err
			}
			valueSize, err := s.sizeNode(parsed, ceiling)
			if err != nil {
				return 0, err
			}
			total = satAdd(total, valueSize, ceiling)
			if total >= ceiling {
				return ceiling, nil
			}
		}
		return total, nil

	case *AssignNode:
		return s.sizeNode(node.Value, ceiling)

	case *RefNode:
		if node.Default == nil {
			return 1, nil
		}
		defSize, err := s.sizeNode(node.Default, ceiling)
		if err != nil {
			return 0, err
		}
		if defSize < 1 {
			defSize = 1
		}
		return defSize, nil

	default:
		return 1, nil
	}
}

// chooseSum sums the product sizes of every k-combination of options
// taken from index start onward, saturating at ceiling
func chooseSum(sizes []uint64, start, k int, ceiling uint64) uint64 {
	if k == 0 {
		return 1
	}
	total := uint64(0)
	for i := start; i <= len(sizes)-k; i++ {
		rest := chooseSum(sizes, i+1, k-1, ceiling)
		total = satAdd(total, satMul(sizes[i], rest, ceiling), ceiling)
		if total >= ceiling {
			return ceiling
		}
	}
	return total
}
