package internal

// NodeType identifies AST node types
type NodeType int

// Node type constants
const (
	NodeTypeSequence NodeType = iota
	NodeTypeLiteral
	NodeTypeVariant
	NodeTypeWildcard
	NodeTypeAssign
	NodeTypeRef
)

// Node type string names for debugging
const (
	NodeTypeNameSequence = "SEQUENCE"
	NodeTypeNameLiteral  = "LITERAL"
	NodeTypeNameVariant  = "VARIANT"
	NodeTypeNameWildcard = "WILDCARD"
	NodeTypeNameAssign   = "ASSIGN"
	NodeTypeNameRef      = "REF"
)

// String returns the string representation of the node type
func (n NodeType) String() string {
	switch n {
	case NodeTypeSequence:
		return NodeTypeNameSequence
	case NodeTypeLiteral:
		return NodeTypeNameLiteral
	case NodeTypeVariant:
		return NodeTypeNameVariant
	case NodeTypeWildcard:
		return NodeTypeNameWildcard
	case NodeTypeAssign:
		return NodeTypeNameAssign
	case NodeTypeRef:
		return NodeTypeNameRef
	default:
		return NodeTypeNameSequence
	}
}

// SamplingMethod selects the generation strategy for a node or a run
type SamplingMethod int

// Sampling method constants
const (
	// SamplingDefault inherits the method of the enclosing run
	SamplingDefault SamplingMethod = iota
	SamplingRandom
	SamplingCombinatorial
	SamplingCyclical
)

// Sampling method string names
const (
	SamplingNameDefault       = "default"
	SamplingNameRandom        = "random"
	SamplingNameCombinatorial = "combinatorial"
	SamplingNameCyclical      = "cyclical"
)

// String returns the string representation of the sampling method
func (m SamplingMethod) String() string {
	switch m {
	case SamplingRandom:
		return SamplingNameRandom
	case SamplingCombinatorial:
		return SamplingNameCombinatorial
	case SamplingCyclical:
		return SamplingNameCyclical
	default:
		return SamplingNameDefault
	}
}

// Character constants for the template grammar
const (
	CharVariantOpen   = '{'
	CharVariantClose  = '}'
	CharVariantSep    = '|'
	CharEscape        = '\\'
	CharVariableOpen  = '$'
	CharBraceOpen     = '{'
	CharDefaultSep    = ':'
	CharAssign        = '='
	CharImmediate     = '!'
	CharPreserve      = '?'
	CharRangeSep      = '-'
	CharMethodRandom  = '~'
	CharMethodCombin  = '!'
	CharMethodCycle   = '@'
	CharWeightSep     = ':'
	CharNewline       = '\n'
	CharUnderscore    = '_'
	CharGlob          = '*'
	CharPathSep       = '/'
	CharDot           = '.'
	CharSpace         = ' '
	CharCarriageRet   = '\r'
)

// String constants for multi-character grammar markers
const (
	StrWildcardWrap = "__"
	StrVariableOpen = "${"
	StrBoundsSep    = "$$"
	StrWeightSep    = "::"
)

// Marker lengths
const (
	LenWildcardWrap = 2 // __
	LenVariableOpen = 2 // ${
	LenBoundsSep    = 2 // $$
	LenWeightSep    = 2 // ::
)

// Default grammar and sampling parameters
const (
	DefaultVariantOpen        = byte('{')
	DefaultVariantClose       = byte('}')
	DefaultVariantSep         = byte('|')
	DefaultEscapeChar         = byte('\\')
	DefaultWildcardWrap       = "__"
	DefaultSeparator          = ","
	DefaultMaxDepth           = 32
	DefaultCombinatorialLimit = 100000
	DefaultOptionWeight       = 1.0
)

// Log message constants
const (
	LogMsgParserCreated    = "parser created"
	LogMsgParseStart       = "starting parse"
	LogMsgParseEnd         = "parse complete"
	LogMsgSamplerCreated   = "sampler created"
	LogMsgSampleStart      = "sampling item"
	LogMsgSampleEnd        = "item sampled"
	LogMsgEnumerateStart   = "starting enumeration"
	LogMsgEnumerateEnd     = "enumeration complete"
	LogMsgSpaceSized       = "expansion space sized"
	LogMsgWildcardExpanded = "wildcard expanded"
	LogMsgCursorAdvanced   = "finite cursor advanced"
)

// Log field names
const (
	LogFieldSource    = "source_length"
	LogFieldNodes     = "node_count"
	LogFieldDepth     = "depth"
	LogFieldLine      = "line"
	LogFieldColumn    = "column"
	LogFieldWildcard  = "wildcard"
	LogFieldValues    = "value_count"
	LogFieldSize      = "space_size"
	LogFieldLimit     = "limit"
	LogFieldMethod    = "method"
	LogFieldVariable  = "variable"
)

// Error message constants for the parser
const (
	ErrMsgUnexpectedEOF      = "unexpected end of input"
	ErrMsgUnclosedVariant    = "unclosed variant group"
	ErrMsgUnclosedVariable   = "unclosed variable expression"
	ErrMsgUnclosedWildcard   = "unclosed wildcard reference"
	ErrMsgEmptyVariableName  = "variable name cannot be empty"
	ErrMsgBadVariableChar    = "invalid character in variable expression"
	ErrMsgDepthExceeded      = "maximum nesting depth exceeded"
	ErrMsgBoundsReversed     = "variant lower bound exceeds upper bound"
	ErrMsgBoundsNotNumeric   = "variant bound is not a number"
	ErrMsgBoundsTooLarge     = "variant bound exceeds option count"
	ErrMsgDanglingEscape     = "escape character at end of input"
)

// Error message constants for sampling
const (
	ErrMsgUnboundVariable  = "variable referenced before assignment"
	ErrMsgSpaceTooLarge    = "combinatorial space exceeds configured limit"
	ErrMsgWildcardTooDeep  = "wildcard expansion exceeds maximum depth"
	ErrMsgEmptyCollection  = "wildcard collection has no values"
)

// Expected-token descriptions used in parse errors
const (
	ExpectedVariantClose  = "'}'"
	ExpectedVariableClose = "'}'"
	ExpectedWildcardWrap  = "closing wildcard wrap"
	ExpectedAssignValue   = "assignment value"
	ExpectedVariableName  = "variable name"
	ExpectedBound         = "numeric bound"
)

// Limits for String() display truncation
const (
	MaxStringDisplayLength = 40
	TruncatedStringLength  = 37
	TruncationSuffix       = "..."
)
