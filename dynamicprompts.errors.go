package dynamicprompts

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"

	"github.com/ITCups/dynamicprompts/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Parse errors
	ErrMsgParseFailed    = "template parsing failed"
	ErrMsgInvalidSyntax  = "invalid template syntax"
	ErrMsgNestingTooDeep = "template nesting exceeds maximum depth"
	ErrMsgInvalidBounds  = "invalid variant selection bounds"

	// Generation errors
	ErrMsgGenerateFailed     = "prompt generation failed"
	ErrMsgUnknownWildcard    = "no wildcard collection matches name"
	ErrMsgUnboundVariable    = "variable referenced before assignment"
	ErrMsgCombinatorialLimit = "combinatorial space exceeds configured limit"
	ErrMsgWildcardTooDeep    = "wildcard expansion exceeds maximum depth"
	ErrMsgStreamExhausted    = "stream is exhausted"

	// Configuration errors
	ErrMsgInvalidDelimiter = "delimiter must be a single character"
	ErrMsgInvalidWrap      = "wildcard wrap cannot be empty"
	ErrMsgInvalidMaxDepth  = "maximum depth must be positive"
	ErrMsgInvalidLimit     = "combinatorial limit must be positive"
	ErrMsgInvalidCount     = "prompt count must be positive"
	ErrMsgUnknownStrategy  = "unknown generation strategy"

	// Wildcard source errors
	ErrMsgWildcardRootMissing = "wildcard root directory not found"
	ErrMsgWildcardLoadFailed  = "wildcard collection load failed"
	ErrMsgWatcherFailed       = "wildcard watcher failed"
	ErrMsgSourceClosed        = "wildcard source is closed"
)

// Error code constants for categorization
const (
	ErrCodeParse    = "DYNPROMPTS_PARSE"
	ErrCodeGenerate = "DYNPROMPTS_GENERATE"
	ErrCodeConfig   = "DYNPROMPTS_CONFIG"
	ErrCodeWildcard = "DYNPROMPTS_WILDCARD"
	ErrCodeStream   = "DYNPROMPTS_STREAM"
)

// NewSyntaxError creates a syntax error with position context
func NewSyntaxError(msg string, pos internal.Position, expected, found string) error {
	err := cuserr.NewValidationError(ErrCodeParse, msg).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
	if expected != "" {
		err = err.WithMetadata(MetaKeyExpected, expected)
	}
	if found != "" {
		err = err.WithMetadata(MetaKeyActual, found)
	}
	return err
}

// NewNestingDepthError creates an error for templates nested past the limit
func NewNestingDepthError(depth, maxDepth int, pos internal.Position) error {
	return cuserr.NewValidationError(ErrCodeParse, ErrMsgNestingTooDeep).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyDepth, strconv.Itoa(depth)).
		WithMetadata(MetaKeyMaxDepth, strconv.Itoa(maxDepth))
}

// NewInvalidBoundsError creates an error for unusable variant bounds
func NewInvalidBoundsError(msg string, pos internal.Position) error {
	return cuserr.NewValidationError(ErrCodeParse, msg).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column))
}

// NewUnknownWildcardError creates an error for a wildcard name with no values
func NewUnknownWildcardError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyWildcard, ErrMsgUnknownWildcard).
		WithMetadata(MetaKeyName, name)
}

// NewUnboundVariableError creates an error for a read of an unbound variable
func NewUnboundVariableError(name string) error {
	return cuserr.NewValidationError(ErrCodeGenerate, ErrMsgUnboundVariable).
		WithMetadata(MetaKeyVariable, name)
}

// NewCombinatorialLimitError creates an error for an oversized expansion space
func NewCombinatorialLimitError(size, limit uint64) error {
	return cuserr.NewValidationError(ErrCodeGenerate, ErrMsgCombinatorialLimit).
		WithMetadata(MetaKeySize, strconv.FormatUint(size, 10)).
		WithMetadata(MetaKeyLimit, strconv.FormatUint(limit, 10))
}

// NewWildcardDepthError creates an error for runaway wildcard expansion
func NewWildcardDepthError(name string, depth int) error {
	return cuserr.NewValidationError(ErrCodeGenerate, ErrMsgWildcardTooDeep).
		WithMetadata(MetaKeyWildcard, name).
		WithMetadata(MetaKeyDepth, strconv.Itoa(depth))
}

// NewStreamExhaustedError creates an error for pulling past the end of a stream
func NewStreamExhaustedError() error {
	return cuserr.NewValidationError(ErrCodeStream, ErrMsgStreamExhausted)
}

// NewInvalidConfigError creates a configuration validation error
func NewInvalidConfigError(msg, value string) error {
	return cuserr.NewValidationError(ErrCodeConfig, msg).
		WithMetadata(MetaKeyValue, value)
}

// NewUnknownStrategyError creates an error for an unrecognized strategy name
func NewUnknownStrategyError(name string) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgUnknownStrategy).
		WithMetadata(MetaKeyStrategy, name)
}

// NewWildcardSourceError wraps a filesystem or watcher failure
func NewWildcardSourceError(msg string, cause error) error {
	if cause == nil {
		return cuserr.NewValidationError(ErrCodeWildcard, msg)
	}
	return cuserr.WrapStdError(cause, ErrCodeWildcard, msg)
}

// NewWildcardRootError creates an error for an unusable wildcard root
func NewWildcardRootError(root string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeWildcard, ErrMsgWildcardRootMissing)
	} else {
		err = cuserr.NewValidationError(ErrCodeWildcard, ErrMsgWildcardRootMissing)
	}
	return err.WithMetadata(MetaKeyPath, root)
}

// translateError lifts internal errors into the public taxonomy.
// Errors already carrying a code pass through untouched.
func (e *Engine) translateError(err error) error {
	if err == nil {
		return nil
	}

	var custom *cuserr.CustomError
	if errors.As(err, &custom) {
		return err
	}

	var parseErr *internal.ParseError
	if errors.As(err, &parseErr) {
		switch parseErr.Kind {
		case internal.ParseErrDepth:
			return NewNestingDepthError(parseErr.Depth, e.config.maxDepth, parseErr.Pos)
		case internal.ParseErrBounds:
			return NewInvalidBoundsError(parseErr.Msg, parseErr.Pos)
		default:
			return NewSyntaxError(parseErr.Msg, parseErr.Pos, parseErr.Expected, parseErr.Found)
		}
	}

	var unbound *internal.UnboundVariableError
	if errors.As(err, &unbound) {
		return NewUnboundVariableError(unbound.Name)
	}

	var limit *internal.LimitExceededError
	if errors.As(err, &limit) {
		return NewCombinatorialLimitError(limit.Size, limit.Limit)
	}

	var depth *internal.DepthExceededError
	if errors.As(err, &depth) {
		return NewWildcardDepthError(depth.Name, depth.Depth)
	}

	return cuserr.WrapStdError(err, ErrCodeGenerate, ErrMsgGenerateFailed)
}
