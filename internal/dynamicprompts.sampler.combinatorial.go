package internal

import (
	"math/rand"
	"strings"

	"go.uber.org/zap"
)

// iterator is a restartable cursor over the expansion space of one
// AST node. next returns ok=false when the space is exhausted; reset
// rewinds so the space can be replayed, re-executing any variable
// assignments it contains.
type iterator interface {
	next() (string, bool, error)
	reset() error
}

// Enumeration lazily walks the full expansion space of a template in
// product order: the rightmost sequence position varies fastest, and
// variant groups emit draw counts ascending with index combinations
// in lexicographic order. Weights are ignored.
type Enumeration struct {
	s  *session
	it iterator
}

// NewEnumeration sizes the expansion space against the configured
// limit and prepares a lazy walk over it. The rng serves nodes tagged
// for random sampling, which contribute one fresh draw per path.
func NewEnumeration(cfg *Config, wildcards WildcardProvider, rng *rand.Rand, logger *zap.Logger, root Node) (*Enumeration, error) {
	s := newSession(cfg, wildcards, rng, logger)
	s.logger.Debug(LogMsgEnumerateStart)

	size, err := s.spaceSize(root)
	if err != nil {
		return nil, err
	}
	if size > s.cfg.CombinatorialLimit {
		return nil, &LimitExceededError{Size: size, Limit: s.cfg.CombinatorialLimit}
	}
	s.logger.Debug(LogMsgSpaceSized,
		zap.Uint64(LogFieldSize, size),
		zap.Uint64(LogFieldLimit, s.cfg.CombinatorialLimit))

	it, err := s.build(root)
	if err != nil {
		return nil, err
	}
	return &Enumeration{s: s, it: it}, nil
}

// Next returns the next expansion, ok=false on exhaustion
func (e *Enumeration) Next() (string, bool, error) {
	return e.it.next()
}

// enumerateAll drains a full enumeration into memory. The size guard
// in NewEnumeration bounds the result.
func enumerateAll(cfg *Config, wildcards WildcardProvider, rng *rand.Rand, logger *zap.Logger, root Node) ([]string, error) {
	enum, err := NewEnumeration(cfg, wildcards, rng, logger, root)
	if err != nil {
		return nil, err
	}
	var outputs []string
	for {
		value, ok, err := enum.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			enum.s.logger.Debug(LogMsgEnumerateEnd, zap.Int(LogFieldValues, len(outputs)))
			return outputs, nil
		}
		outputs = append(outputs, value)
	}
}

// build constructs the iterator tree for a node
func (s *session) build(n Node) (iterator, error) {
	switch node := n.(type) {
	case *LiteralNode:
		return &literalIter{text: node.Text}, nil

	case *SequenceNode:
		subs := make([]iterator, len(node.Children))
		for i, child := range node.Children {
			sub, err := s.build(child)
			if err != nil {
				return nil, err
			}
			subs[i] = sub
		}
		return &seqIter{subs: subs}, nil

	case *VariantNode:
		if node.Method == SamplingRandom {
			return &randomLeafIter{s: s, node: node}, nil
		}
		opts := make([]iterator, len(node.Options))
		for i, opt := range node.Options {
			sub, err := s.build(opt.Value)
			if err != nil {
				return nil, err
			}
			opts[i] = sub
		}
		return &variantIter{s: s, node: node, opts: opts}, nil

	case *WildcardNode:
		if node.Method == SamplingRandom {
			return &randomLeafIter{s: s, node: node}, nil
		}
		return &wildcardIter{s: s, node: node}, nil

	case *AssignNode:
		val, err := s.build(node.Value)
		if err != nil {
			return nil, err
		}
		return &assignIter{s: s, node: node, val: val}, nil

	case *RefNode:
		return &refIter{s: s, node: node}, nil

	default:
		return &literalIter{done: true}, nil
	}
}

// literalIter yields its text exactly once
type literalIter struct {
	text string
	done bool
}

func (it *literalIter) next() (string, bool, error) {
	if it.done {
		return "", false, nil
	}
	it.done = true
	return it.text, true, nil
}

func (it *literalIter) reset() error {
	it.done = false
	return nil
}

// seqIter walks the product of its children like an odometer: the
// rightmost child advances first, and children to the right of an
// advanced position are reset and re-pulled so their assignments
// rebind for the new path.
type seqIter struct {
	subs    []iterator
	sep     string
	cur     []string
	started bool
	done    bool
}

func (it *seqIter) next() (string, bool, error) {
	if it.done {
		return "", false, nil
	}
	if !it.started {
		it.started = true
		it.cur = make([]string, len(it.subs))
		for i, sub := range it.subs {
			value, ok, err := sub.next()
			if err != nil {
				return "", false, err
			}
			if !ok {
				it.done = true
				return "", false, nil
			}
			it.cur[i] = value
		}
		return it.join(), true, nil
	}

	for i := len(it.subs) - 1; i >= 0; i-- {
		value, ok, err := it.subs[i].next()
		if err != nil {
			return "", false, err
		}
		if !ok {
			continue
		}
		it.cur[i] = value
		for j := i + 1; j < len(it.subs); j++ {
			if err := it.subs[j].reset(); err != nil {
				return "", false, err
			}
			value, ok, err := it.subs[j].next()
			if err != nil {
				return "", false, err
			}
			if !ok {
				it.done = true
				return "", false, nil
			}
			it.cur[j] = value
		}
		return it.join(), true, nil
	}

	it.done = true
	return "", false, nil
}

func (it *seqIter) join() string {
	switch len(it.cur) {
	case 0:
		return ""
	case 1:
		return it.cur[0]
	}
	size := len(it.sep) * (len(it.cur) - 1)
	for _, part := range it.cur {
		size += len(part)
	}
	out := make([]byte, 0, size)
	for i, part := range it.cur {
		if i > 0 {
			out = append(out, it.sep...)
		}
		out = append(out, part...)
	}
	return string(out)
}

func (it *seqIter) reset() error {
	it.started = false
	it.done = false
	for _, sub := range it.subs {
		if err := sub.reset(); err != nil {
			return err
		}
	}
	return nil
}

// variantIter enumerates draw counts from MinCount to MaxCount; for
// each count it walks distinct option-index combinations in
// lexicographic order, and for each combination the product of the
// chosen option spaces. Expanded members are deduplicated per draw: a
// combination whose distinct members fall below the draw count is
// skipped, and each joined output is emitted at most once per variant.
type variantIter struct {
	s       *session
	node    *VariantNode
	opts    []iterator
	k       int
	combo   []int
	prod    *seqIter
	seen    map[string]struct{}
	started bool
	done    bool
}

func (it *variantIter) next() (string, bool, error) {
	if it.done {
		return "", false, nil
	}
	if !it.started {
		it.started = true
		it.seen = make(map[string]struct{})
		it.k = it.node.MinCount
		if err := it.enterK(); err != nil {
			return "", false, err
		}
	}

	for {
		if it.k > it.node.MaxCount {
			it.done = true
			return "", false, nil
		}
		if it.k == 0 {
			// A zero-count draw is a single empty expansion
			it.k++
			if err := it.enterK(); err != nil {
				return "", false, err
			}
			return "", true, nil
		}
		_, ok, err := it.prod.next()
		if err != nil {
			return "", false, err
		}
		if ok {
			members := dedupeValues(it.prod.cur)
			if len(members) != it.k {
				continue
			}
			joined := strings.Join(members, it.node.Separator)
			if _, dup := it.seen[joined]; dup {
				continue
			}
			it.seen[joined] = struct{}{}
			return joined, true, nil
		}
		if it.nextCombo() {
			if err := it.buildProd(); err != nil {
				return "", false, err
			}
			continue
		}
		it.k++
		if err := it.enterK(); err != nil {
			return "", false, err
		}
	}
}

func (it *variantIter) enterK() error {
	if it.k == 0 || it.k > it.node.MaxCount {
		it.combo = nil
		it.prod = nil
		return nil
	}
	it.combo = make([]int, it.k)
	for i := range it.combo {
		it.combo[i] = i
	}
	return it.buildProd()
}

func (it *variantIter) buildProd() error {
	subs := make([]iterator, len(it.combo))
	for i, idx := range it.combo {
		if err := it.opts[idx].reset(); err != nil {
			return err
		}
		subs[i] = it.opts[idx]
	}
	it.prod = &seqIter{subs: subs, sep: it.node.Separator}
	return nil
}

// nextCombo advances to the next k-combination of option indices
func (it *variantIter) nextCombo() bool {
	n := len(it.opts)
	k := len(it.combo)
	i := k - 1
	for i >= 0 && it.combo[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	it.combo[i]++
	for j := i + 1; j < k; j++ {
		it.combo[j] = it.combo[j-1] + 1
	}
	return true
}

func (it *variantIter) reset() error {
	it.started = false
	it.done = false
	it.combo = nil
	it.prod = nil
	it.seen = nil
	return nil
}

// dedupeValues drops repeated values, preserving first occurrence
func dedupeValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// wildcardIter chains the expansions of every collection value in
// order. Each value expands inside its own binding scope. The name is
// resolved lazily so variable parts see the bindings of the current
// path.
type wildcardIter struct {
	s       *session
	node    *WildcardNode
	cands   []iterator
	idx     int
	started bool
	inCand  bool
	entered bool
	done    bool
}

func (it *wildcardIter) next() (string, bool, error) {
	if it.done {
		return "", false, nil
	}
	if !it.started {
		it.started = true
		if err := it.open(); err != nil {
			it.finish()
			return "", false, err
		}
	}

	for it.idx < len(it.cands) {
		if !it.inCand {
			it.s.bindings.Push()
			it.inCand = true
			if err := it.cands[it.idx].reset(); err != nil {
				it.finish()
				return "", false, err
			}
		}
		value, ok, err := it.cands[it.idx].next()
		if err != nil {
			it.finish()
			return "", false, err
		}
		if ok {
			return value, true, nil
		}
		it.s.bindings.Pop()
		it.inCand = false
		it.idx++
	}

	it.finish()
	it.done = true
	return "", false, nil
}

func (it *wildcardIter) open() error {
	name, err := it.s.wildcardName(it.node)
	if err != nil {
		return err
	}
	if err := it.s.enterWildcard(name); err != nil {
		return err
	}
	it.entered = true

	values, err := it.s.wildcards.Values(name)
	if err != nil {
		return err
	}
	it.s.logger.Debug(LogMsgWildcardExpanded,
		zap.String(LogFieldWildcard, name),
		zap.Int(LogFieldValues, len(values)))

	it.cands = make([]iterator, 0, len(values))
	for _, value := range values {
		parsed, err := it.s.parseValue(value)
		if err != nil {
			return err
		}
		sub, err := it.s.build(parsed)
		if err != nil {
			return err
		}
		it.cands = append(it.cands, sub)
	}
	it.idx = 0
	return nil
}

func (it *wildcardIter) finish() {
	if it.inCand {
		it.s.bindings.Pop()
		it.inCand = false
	}
	if it.entered {
		it.s.leaveWildcard()
		it.entered = false
	}
}

func (it *wildcardIter) reset() error {
	it.finish()
	it.started = false
	it.done = false
	it.cands = nil
	it.idx = 0
	return nil
}

// assignIter enumerates its value, rebinding the variable on every
// draw. When a preserved assignment finds its name already bound it
// contributes a single empty expansion without touching the binding.
type assignIter struct {
	s       *session
	node    *AssignNode
	val     iterator
	started bool
	done    bool
}

func (it *assignIter) next() (string, bool, error) {
	if it.done {
		return "", false, nil
	}
	if !it.started {
		it.started = true
		if it.node.Preserve && it.s.bindings.Has(it.node.Name) {
			it.done = true
			return "", true, nil
		}
	}

	value, ok, err := it.val.next()
	if err != nil {
		return "", false, err
	}
	if !ok {
		it.done = true
		return "", false, nil
	}
	it.s.bindings.Set(it.node.Name, value)
	if it.node.Emits() {
		return value, true, nil
	}
	return "", true, nil
}

func (it *assignIter) reset() error {
	it.started = false
	it.done = false
	return it.val.reset()
}

// refIter resolves at pull time so assignments earlier in the current
// path are visible. A bound name is a single expansion; an unbound
// name enumerates its default, or fails.
type refIter struct {
	s     *session
	node  *RefNode
	def   iterator
	value string
	mode  int
	done  bool
}

// refIter modes
const (
	refModeUnset = iota
	refModeBound
	refModeDefault
)

func (it *refIter) next() (string, bool, error) {
	if it.mode == refModeUnset {
		if value, ok := it.s.bindings.Lookup(it.node.Name); ok {
			it.mode = refModeBound
			it.value = value
		} else if it.node.Default != nil {
			if it.def == nil {
				sub, err := it.s.build(it.node.Default)
				if err != nil {
					return "", false, err
				}
				it.def = sub
			}
			it.mode = refModeDefault
		} else {
			return "", false, &UnboundVariableError{Name: it.node.Name, Pos: it.node.Pos()}
		}
	}

	if it.mode == refModeBound {
		if it.done {
			return "", false, nil
		}
		it.done = true
		return it.value, true, nil
	}
	return it.def.next()
}

func (it *refIter) reset() error {
	it.mode = refModeUnset
	it.done = false
	if it.def != nil {
		return it.def.reset()
	}
	return nil
}

// randomLeafIter serves nodes tagged for random sampling inside a
// finite run: one fresh draw per enumeration path, re-drawn on reset.
type randomLeafIter struct {
	s    *session
	node Node
	done bool
}

func (it *randomLeafIter) next() (string, bool, error) {
	if it.done {
		return "", false, nil
	}
	it.done = true

	value, err := it.s.sampleString(it.node)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (it *randomLeafIter) reset() error {
	it.done = false
	return nil
}
