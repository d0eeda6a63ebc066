package dynamicprompts

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	variantOpen        string
	variantClose       string
	variantSep         string
	escapeChar         string
	wildcardWrap       string
	joinSeparator      string
	maxDepth           int
	combinatorialLimit uint64
	sources            []WildcardSource
	logger             *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		variantOpen:        DefaultVariantOpen,
		variantClose:       DefaultVariantClose,
		variantSep:         DefaultVariantSeparator,
		escapeChar:         DefaultEscapeChar,
		wildcardWrap:       DefaultWildcardWrap,
		joinSeparator:      DefaultJoinSeparator,
		maxDepth:           DefaultMaxDepth,
		combinatorialLimit: DefaultCombinatorialLimit,
		logger:             nil,
	}
}

// WithVariantDelimiters sets the markers that open and close a
// variant group.
// Default: "{" and "}"
func WithVariantDelimiters(open, close string) Option {
	return func(c *engineConfig) {
		if open != "" {
			c.variantOpen = open
		}
		if close != "" {
			c.variantClose = close
		}
	}
}

// WithVariantSeparator sets the marker that separates variant options.
// Default: "|"
func WithVariantSeparator(sep string) Option {
	return func(c *engineConfig) {
		if sep != "" {
			c.variantSep = sep
		}
	}
}

// WithEscapeChar sets the character that escapes the following
// marker character into literal text.
// Default: "\\"
func WithEscapeChar(escape string) Option {
	return func(c *engineConfig) {
		if escape != "" {
			c.escapeChar = escape
		}
	}
}

// WithWildcardWrap sets the marker that wraps wildcard references.
// Default: "__"
func WithWildcardWrap(wrap string) Option {
	return func(c *engineConfig) {
		if wrap != "" {
			c.wildcardWrap = wrap
		}
	}
}

// WithJoinSeparator sets the default separator placed between
// multiple draws of a variant group.
// Default: ","
func WithJoinSeparator(sep string) Option {
	return func(c *engineConfig) {
		c.joinSeparator = sep
	}
}

// WithMaxDepth sets the maximum nesting depth for templates and
// wildcard expansion.
// Default: 32
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxDepth = depth
	}
}

// WithCombinatorialLimit sets the ceiling on the expansion space of
// combinatorial and cyclical generation.
// Default: 100000
func WithCombinatorialLimit(limit uint64) Option {
	return func(c *engineConfig) {
		c.combinatorialLimit = limit
	}
}

// WithWildcards registers wildcard sources with the engine. May be
// given multiple times; sources are consulted in registration order.
func WithWildcards(sources ...WildcardSource) Option {
	return func(c *engineConfig) {
		c.sources = append(c.sources, sources...)
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
