package internal

import (
	"fmt"
	"strings"
)

// Position represents a location in the template source
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Node is the interface all AST nodes implement
type Node interface {
	// Type returns the node type identifier
	Type() NodeType
	// Pos returns the source position of this node
	Pos() Position
	// String returns a human-readable representation
	String() string
}

// SequenceNode is an ordered run of child nodes whose outputs concatenate
type SequenceNode struct {
	pos      Position
	Children []Node
}

// Type returns NodeTypeSequence
func (n *SequenceNode) Type() NodeType {
	return NodeTypeSequence
}

// Pos returns the source position
func (n *SequenceNode) Pos() Position {
	return n.pos
}

// String returns a string representation of the sequence
func (n *SequenceNode) String() string {
	var sb strings.Builder
	sb.WriteString("SequenceNode{\n")
	for i, child := range n.Children {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, child.String()))
	}
	sb.WriteString("}")
	return sb.String()
}

// NewSequenceNode creates a new sequence node
func NewSequenceNode(children []Node, pos Position) *SequenceNode {
	return &SequenceNode{
		pos:      pos,
		Children: children,
	}
}

// LiteralNode represents literal text content
type LiteralNode struct {
	pos  Position
	Text string
}

// Type returns NodeTypeLiteral
func (n *LiteralNode) Type() NodeType {
	return NodeTypeLiteral
}

// Pos returns the source position
func (n *LiteralNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *LiteralNode) String() string {
	text := n.Text
	if len(text) > MaxStringDisplayLength {
		text = text[:TruncatedStringLength] + TruncationSuffix
	}
	return fmt.Sprintf("LiteralNode{%q @ %s}", text, n.pos)
}

// NewLiteralNode creates a new literal node
func NewLiteralNode(text string, pos Position) *LiteralNode {
	return &LiteralNode{
		pos:  pos,
		Text: text,
	}
}

// VariantOption is a single selectable option inside a variant group
type VariantOption struct {
	Weight float64 // Relative selection weight, 1.0 when unspecified
	Value  Node
}

// VariantNode represents a variant group with selection bounds.
// MinCount and MaxCount bound how many distinct options are drawn
// per expansion; drawn options are joined with Separator.
type VariantNode struct {
	pos       Position
	Options   []VariantOption
	MinCount  int
	MaxCount  int
	Separator string
	Method    SamplingMethod // Per-node override, SamplingDefault inherits the run
}

// Type returns NodeTypeVariant
func (n *VariantNode) Type() NodeType {
	return NodeTypeVariant
}

// Pos returns the source position
func (n *VariantNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *VariantNode) String() string {
	return fmt.Sprintf("VariantNode{options=%d, bounds=%d-%d, sep=%q, method=%s @ %s}",
		len(n.Options), n.MinCount, n.MaxCount, n.Separator, n.Method, n.pos)
}

// Weighted reports whether any option carries a non-default weight
func (n *VariantNode) Weighted() bool {
	for _, opt := range n.Options {
		if opt.Weight != DefaultOptionWeight {
			return true
		}
	}
	return false
}

// NewVariantNode creates a new variant group node
func NewVariantNode(options []VariantOption, minCount, maxCount int, separator string, method SamplingMethod, pos Position) *VariantNode {
	return &VariantNode{
		pos:       pos,
		Options:   options,
		MinCount:  minCount,
		MaxCount:  maxCount,
		Separator: separator,
		Method:    method,
	}
}

// WildcardNode references an external value collection by name.
// The name is assembled from Parts at generation time; parts are
// restricted to literals and variable references by the parser.
type WildcardNode struct {
	pos    Position
	Parts  []Node
	Method SamplingMethod
}

// Type returns NodeTypeWildcard
func (n *WildcardNode) Type() NodeType {
	return NodeTypeWildcard
}

// Pos returns the source position
func (n *WildcardNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *WildcardNode) String() string {
	return fmt.Sprintf("WildcardNode{parts=%d, method=%s @ %s}", len(n.Parts), n.Method, n.pos)
}

// StaticName returns the collection name if all parts are literal,
// ok=false when the name depends on variable bindings.
func (n *WildcardNode) StaticName() (string, bool) {
	var sb strings.Builder
	for _, part := range n.Parts {
		lit, ok := part.(*LiteralNode)
		if !ok {
			return "", false
		}
		sb.WriteString(lit.Text)
	}
	return sb.String(), true
}

// NewWildcardNode creates a new wildcard reference node
func NewWildcardNode(parts []Node, method SamplingMethod, pos Position) *WildcardNode {
	return &WildcardNode{
		pos:    pos,
		Parts:  parts,
		Method: method,
	}
}

// AssignNode binds a variable to the expansion of its value node.
// A plain assignment emits the bound text in place; immediate and
// conditional assignments bind silently.
type AssignNode struct {
	pos       Position
	Name      string
	Value     Node
	Immediate bool // ${x=!v} binds without emitting
	Preserve  bool // ${x?=v} binds only when the name is unbound
}

// Type returns NodeTypeAssign
func (n *AssignNode) Type() NodeType {
	return NodeTypeAssign
}

// Pos returns the source position
func (n *AssignNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *AssignNode) String() string {
	return fmt.Sprintf("AssignNode{name=%s, immediate=%t, preserve=%t @ %s}",
		n.Name, n.Immediate, n.Preserve, n.pos)
}

// Emits reports whether the assignment contributes its value to output
func (n *AssignNode) Emits() bool {
	return !n.Immediate && !n.Preserve
}

// NewAssignNode creates a new variable assignment node
func NewAssignNode(name string, value Node, immediate, preserve bool, pos Position) *AssignNode {
	return &AssignNode{
		pos:       pos,
		Name:      name,
		Value:     value,
		Immediate: immediate,
		Preserve:  preserve,
	}
}

// RefNode reads a previously bound variable, with an optional default
// expansion used when the name is unbound.
type RefNode struct {
	pos     Position
	Name    string
	Default Node // nil when no default was given
}

// Type returns NodeTypeRef
func (n *RefNode) Type() NodeType {
	return NodeTypeRef
}

// Pos returns the source position
func (n *RefNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *RefNode) String() string {
	return fmt.Sprintf("RefNode{name=%s, hasDefault=%t @ %s}", n.Name, n.Default != nil, n.pos)
}

// NewRefNode creates a new variable reference node
func NewRefNode(name string, def Node, pos Position) *RefNode {
	return &RefNode{
		pos:     pos,
		Name:    name,
		Default: def,
	}
}
