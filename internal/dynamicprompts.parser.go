package internal

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ParseErrorKind classifies parse failures for the public error layer
type ParseErrorKind int

// Parse error kinds
const (
	ParseErrSyntax ParseErrorKind = iota
	ParseErrDepth
	ParseErrBounds
)

// ParseError is a parse failure with source position context.
// The public package wraps it into its error taxonomy.
type ParseError struct {
	Kind     ParseErrorKind
	Msg      string
	Pos      Position
	Expected string // What the parser was looking for, may be empty
	Found    string // What it saw instead, may be empty
	Depth    int    // Nesting depth for ParseErrDepth
}

// Error returns the formatted parse error message
func (e *ParseError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s at %s: expected %s, found %q", e.Msg, e.Pos, e.Expected, e.Found)
	}
	return fmt.Sprintf("%s at %s", e.Msg, e.Pos)
}

// Config controls grammar markers and limits for parsing and sampling
type Config struct {
	VariantOpen        byte
	VariantClose       byte
	VariantSep         byte
	EscapeChar         byte
	WildcardWrap       string
	Separator          string // Joining separator for multi-draw variants
	MaxDepth           int
	CombinatorialLimit uint64
}

// DefaultConfig returns the default grammar configuration
func DefaultConfig() *Config {
	return &Config{
		VariantOpen:        DefaultVariantOpen,
		VariantClose:       DefaultVariantClose,
		VariantSep:         DefaultVariantSep,
		EscapeChar:         DefaultEscapeChar,
		WildcardWrap:       DefaultWildcardWrap,
		Separator:          DefaultSeparator,
		MaxDepth:           DefaultMaxDepth,
		CombinatorialLimit: DefaultCombinatorialLimit,
	}
}

// Parser turns template source into an AST in a single left-to-right scan
type Parser struct {
	cfg    *Config
	logger *zap.Logger

	src  string
	pos  int
	line int
	col  int
}

// NewParser creates a parser for the given grammar configuration.
// A nil logger disables logging.
func NewParser(cfg *Config, logger *zap.Logger) *Parser {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Parser{cfg: cfg, logger: logger}
	p.logger.Debug(LogMsgParserCreated, zap.Int(LogFieldDepth, cfg.MaxDepth))
	return p
}

// Parse parses a complete template source into a sequence node
func (p *Parser) Parse(source string) (*SequenceNode, error) {
	p.src = source
	p.pos = 0
	p.line = 1
	p.col = 1

	p.logger.Debug(LogMsgParseStart, zap.Int(LogFieldSource, len(source)))

	root, err := p.parseSequence(0, "")
	if err != nil {
		return nil, err
	}

	p.logger.Debug(LogMsgParseEnd, zap.Int(LogFieldNodes, len(root.Children)))
	return root, nil
}

// scanState is a saved scanner position for backtracking
type scanState struct {
	pos  int
	line int
	col  int
}

func (p *Parser) save() scanState {
	return scanState{pos: p.pos, line: p.line, col: p.col}
}

func (p *Parser) restore(st scanState) {
	p.pos = st.pos
	p.line = st.line
	p.col = st.col
}

func (p *Parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *Parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *Parser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *Parser) advance() byte {
	ch := p.src[p.pos]
	p.pos++
	if ch == CharNewline {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return ch
}

func (p *Parser) advanceN(n int) {
	for i := 0; i < n; i++ {
		p.advance()
	}
}

func (p *Parser) position() Position {
	return Position{Offset: p.pos, Line: p.line, Column: p.col}
}

// parseSequence parses nodes until EOF or one of the stop bytes.
// Stop bytes are not consumed.
func (p *Parser) parseSequence(depth int, stops string) (*SequenceNode, error) {
	startPos := p.position()
	var children []Node
	var lit strings.Builder
	litPos := startPos

	flush := func() {
		if lit.Len() > 0 {
			children = append(children, NewLiteralNode(lit.String(), litPos))
			lit.Reset()
		}
	}

	for !p.eof() {
		ch := p.peek()
		if strings.IndexByte(stops, ch) >= 0 {
			break
		}

		switch {
		case ch == p.cfg.EscapeChar:
			escPos := p.position()
			p.advance()
			if p.eof() {
				return nil, &ParseError{Kind: ParseErrSyntax, Msg: ErrMsgDanglingEscape, Pos: escPos}
			}
			if lit.Len() == 0 {
				litPos = escPos
			}
			lit.WriteByte(p.advance())

		case ch == p.cfg.VariantOpen:
			flush()
			node, err := p.parseVariant(depth + 1)
			if err != nil {
				return nil, err
			}
			children = append(children, node)
			litPos = p.position()

		case p.hasPrefix(StrVariableOpen):
			flush()
			node, err := p.parseVariable(depth + 1)
			if err != nil {
				return nil, err
			}
			children = append(children, node)
			litPos = p.position()

		case p.hasPrefix(p.cfg.WildcardWrap):
			node, ok, err := p.parseWildcard(depth + 1)
			if err != nil {
				return nil, err
			}
			if ok {
				flush()
				// flush reset the literal start, recompute after the wildcard
				children = append(children, node)
				litPos = p.position()
				continue
			}
			// Not a well-formed wildcard, the wrap is literal text
			if lit.Len() == 0 {
				litPos = p.position()
			}
			lit.WriteString(p.cfg.WildcardWrap)
			p.advanceN(len(p.cfg.WildcardWrap))

		default:
			if lit.Len() == 0 {
				litPos = p.position()
			}
			lit.WriteByte(p.advance())
		}
	}

	flush()
	return NewSequenceNode(children, startPos), nil
}

// checkDepth enforces the nesting ceiling for each bracketed construct
func (p *Parser) checkDepth(depth int, pos Position) error {
	if p.cfg.MaxDepth > 0 && depth > p.cfg.MaxDepth {
		return &ParseError{Kind: ParseErrDepth, Msg: ErrMsgDepthExceeded, Pos: pos, Depth: depth}
	}
	return nil
}

// parseMethod consumes an optional sampling override symbol
func (p *Parser) parseMethod() SamplingMethod {
	switch p.peek() {
	case CharMethodRandom:
		p.advance()
		return SamplingRandom
	case CharMethodCombin:
		p.advance()
		return SamplingCombinatorial
	case CharMethodCycle:
		p.advance()
		return SamplingCyclical
	default:
		return SamplingDefault
	}
}

// parseVariant parses a variant group after its opening marker
func (p *Parser) parseVariant(depth int) (*VariantNode, error) {
	openPos := p.position()
	if err := p.checkDepth(depth, openPos); err != nil {
		return nil, err
	}
	p.advance() // opening marker

	method := p.parseMethod()

	minCount, maxCount, openMax, haveBounds, err := p.parseBounds()
	if err != nil {
		return nil, err
	}
	if !haveBounds {
		minCount, maxCount = 1, 1
	}

	separator := p.cfg.Separator
	if haveBounds {
		if sep, ok := p.parseBoundsSeparator(); ok {
			separator = sep
		}
	}

	stops := string([]byte{p.cfg.VariantSep, p.cfg.VariantClose})
	var options []VariantOption
	for {
		weight := p.parseWeight()
		value, err := p.parseSequence(depth, stops)
		if err != nil {
			return nil, err
		}
		options = append(options, VariantOption{Weight: weight, Value: value})

		if p.eof() {
			return nil, &ParseError{
				Kind:     ParseErrSyntax,
				Msg:      ErrMsgUnclosedVariant,
				Pos:      openPos,
				Expected: ExpectedVariantClose,
				Found:    "EOF",
			}
		}
		if p.peek() == p.cfg.VariantSep {
			p.advance()
			continue
		}
		p.advance() // closing marker
		break
	}

	if openMax {
		maxCount = len(options)
	}
	// Draws are without replacement, explicit bounds cannot exceed the
	// option count
	if maxCount > len(options) || minCount > len(options) {
		return nil, &ParseError{Kind: ParseErrBounds, Msg: ErrMsgBoundsTooLarge, Pos: openPos}
	}
	if minCount > maxCount {
		return nil, &ParseError{Kind: ParseErrBounds, Msg: ErrMsgBoundsReversed, Pos: openPos}
	}

	return NewVariantNode(options, minCount, maxCount, separator, method, openPos), nil
}

// parseBounds consumes an optional "min-max$$" prefix. openMax reports
// an omitted upper bound, resolved to the option count by the caller.
func (p *Parser) parseBounds() (minCount, maxCount int, openMax, ok bool, err error) {
	st := p.save()
	boundsPos := p.position()

	minStr := p.scanDigits()
	sawRange := false
	maxStr := ""
	if p.peek() == CharRangeSep {
		p.advance()
		sawRange = true
		maxStr = p.scanDigits()
	}
	if (minStr == "" && !sawRange) || !p.hasPrefix(StrBoundsSep) {
		p.restore(st)
		return 0, 0, false, false, nil
	}
	p.advanceN(LenBoundsSep)

	minCount = 1
	if minStr != "" {
		minCount, err = strconv.Atoi(minStr)
		if err != nil {
			return 0, 0, false, false, &ParseError{Kind: ParseErrBounds, Msg: ErrMsgBoundsNotNumeric, Pos: boundsPos, Found: minStr}
		}
	}

	if !sawRange {
		return minCount, minCount, false, true, nil
	}
	if maxStr == "" {
		return minCount, 0, true, true, nil
	}
	maxCount, err = strconv.Atoi(maxStr)
	if err != nil {
		return 0, 0, false, false, &ParseError{Kind: ParseErrBounds, Msg: ErrMsgBoundsNotNumeric, Pos: boundsPos, Found: maxStr}
	}
	return minCount, maxCount, false, true, nil
}

// parseBoundsSeparator consumes an optional "sep$$" following the bounds
func (p *Parser) parseBoundsSeparator() (string, bool) {
	st := p.save()
	var sep strings.Builder
	for !p.eof() {
		if p.hasPrefix(StrBoundsSep) {
			p.advanceN(LenBoundsSep)
			return sep.String(), true
		}
		ch := p.peek()
		if ch == p.cfg.VariantSep || ch == p.cfg.VariantClose || ch == p.cfg.VariantOpen || ch == p.cfg.EscapeChar {
			break
		}
		sep.WriteByte(p.advance())
	}
	p.restore(st)
	return "", false
}

// parseWeight consumes an optional "N::" option weight prefix
func (p *Parser) parseWeight() float64 {
	st := p.save()
	var num strings.Builder
	for !p.eof() {
		ch := p.peek()
		if !isDigit(ch) && ch != CharDot {
			break
		}
		num.WriteByte(p.advance())
	}
	if num.Len() == 0 || !p.hasPrefix(StrWeightSep) {
		p.restore(st)
		return DefaultOptionWeight
	}
	weight, err := strconv.ParseFloat(num.String(), 64)
	if err != nil || weight < 0 {
		p.restore(st)
		return DefaultOptionWeight
	}
	p.advanceN(LenWeightSep)
	return weight
}

// parseWildcard attempts to parse a wrapped wildcard reference.
// An unterminated wrap is not an error, the caller emits it as text.
func (p *Parser) parseWildcard(depth int) (*WildcardNode, bool, error) {
	st := p.save()
	openPos := p.position()
	if err := p.checkDepth(depth, openPos); err != nil {
		return nil, false, err
	}
	p.advanceN(len(p.cfg.WildcardWrap))

	method := p.parseMethod()

	var parts []Node
	var lit strings.Builder
	litPos := p.position()

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, NewLiteralNode(lit.String(), litPos))
			lit.Reset()
		}
	}

	for {
		if p.eof() {
			p.restore(st)
			return nil, false, nil
		}
		if p.hasPrefix(p.cfg.WildcardWrap) {
			p.advanceN(len(p.cfg.WildcardWrap))
			break
		}
		if p.hasPrefix(StrVariableOpen) {
			refPos := p.position()
			p.advanceN(LenVariableOpen)
			name := p.scanName()
			if name == "" || p.peek() != p.cfg.VariantClose {
				p.restore(st)
				return nil, false, nil
			}
			p.advance() // closing brace
			flush()
			parts = append(parts, NewRefNode(name, nil, refPos))
			litPos = p.position()
			continue
		}
		ch := p.peek()
		if ch == p.cfg.VariantOpen || ch == p.cfg.VariantClose || ch == p.cfg.VariantSep || ch == CharNewline {
			p.restore(st)
			return nil, false, nil
		}
		if lit.Len() == 0 {
			litPos = p.position()
		}
		lit.WriteByte(p.advance())
	}

	flush()
	if len(parts) == 0 {
		p.restore(st)
		return nil, false, nil
	}
	return NewWildcardNode(parts, method, openPos), true, nil
}

// parseVariable parses "${...}" variable expressions
func (p *Parser) parseVariable(depth int) (Node, error) {
	openPos := p.position()
	if err := p.checkDepth(depth, openPos); err != nil {
		return nil, err
	}
	p.advanceN(LenVariableOpen)

	name := p.scanName()
	if name == "" {
		return nil, &ParseError{
			Kind:     ParseErrSyntax,
			Msg:      ErrMsgEmptyVariableName,
			Pos:      openPos,
			Expected: ExpectedVariableName,
			Found:    p.foundDesc(),
		}
	}

	if p.eof() {
		return nil, &ParseError{Kind: ParseErrSyntax, Msg: ErrMsgUnclosedVariable, Pos: openPos, Expected: ExpectedVariableClose, Found: "EOF"}
	}

	closeStops := string([]byte{p.cfg.VariantClose})
	switch p.peek() {
	case p.cfg.VariantClose:
		p.advance()
		return NewRefNode(name, nil, openPos), nil

	case CharDefaultSep:
		p.advance()
		def, err := p.parseSequence(depth, closeStops)
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(openPos); err != nil {
			return nil, err
		}
		return NewRefNode(name, def, openPos), nil

	case CharPreserve:
		p.advance()
		if p.peek() != CharAssign {
			return nil, &ParseError{
				Kind:     ParseErrSyntax,
				Msg:      ErrMsgBadVariableChar,
				Pos:      p.position(),
				Expected: ExpectedAssignValue,
				Found:    p.foundDesc(),
			}
		}
		p.advance()
		value, err := p.parseSequence(depth, closeStops)
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(openPos); err != nil {
			return nil, err
		}
		return NewAssignNode(name, value, false, true, openPos), nil

	case CharAssign:
		p.advance()
		immediate := false
		if p.peek() == CharImmediate {
			p.advance()
			immediate = true
		}
		value, err := p.parseSequence(depth, closeStops)
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(openPos); err != nil {
			return nil, err
		}
		return NewAssignNode(name, value, immediate, false, openPos), nil

	default:
		return nil, &ParseError{
			Kind:     ParseErrSyntax,
			Msg:      ErrMsgBadVariableChar,
			Pos:      p.position(),
			Expected: ExpectedVariableClose,
			Found:    p.foundDesc(),
		}
	}
}

// expectClose consumes the closing brace of a variable expression
func (p *Parser) expectClose(openPos Position) error {
	if p.eof() {
		return &ParseError{Kind: ParseErrSyntax, Msg: ErrMsgUnclosedVariable, Pos: openPos, Expected: ExpectedVariableClose, Found: "EOF"}
	}
	p.advance()
	return nil
}

// foundDesc describes the current input byte for error messages
func (p *Parser) foundDesc() string {
	if p.eof() {
		return "EOF"
	}
	return string(p.peek())
}

func (p *Parser) scanDigits() string {
	var sb strings.Builder
	for !p.eof() && isDigit(p.peek()) {
		sb.WriteByte(p.advance())
	}
	return sb.String()
}

func (p *Parser) scanName() string {
	var sb strings.Builder
	for !p.eof() && isNameChar(p.peek()) {
		sb.WriteByte(p.advance())
	}
	return sb.String()
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isNameChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' ||
		ch >= 'A' && ch <= 'Z' ||
		isDigit(ch) ||
		ch == CharUnderscore
}
