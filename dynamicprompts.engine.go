package dynamicprompts

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/ITCups/dynamicprompts/internal"
)

// Engine parses templates and generates prompts from them. An Engine
// is immutable after creation and safe for concurrent use; all
// per-generation state lives in the streams it produces.
type Engine struct {
	config      *engineConfig
	internalCfg *internal.Config
	logger      *zap.Logger
}

// New creates a new Engine with the given options
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := &Engine{
		config: config,
		internalCfg: &internal.Config{
			VariantOpen:        config.variantOpen[0],
			VariantClose:       config.variantClose[0],
			VariantSep:         config.variantSep[0],
			EscapeChar:         config.escapeChar[0],
			WildcardWrap:       config.wildcardWrap,
			Separator:          config.joinSeparator,
			MaxDepth:           config.maxDepth,
			CombinatorialLimit: config.combinatorialLimit,
		},
		logger: logger,
	}

	logger.Debug(LogMsgEngineCreated,
		zap.Int(LogFieldCollections, len(config.sources)))
	return engine, nil
}

// MustNew creates a new Engine and panics on configuration errors
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// validateConfig checks the engine configuration for usable values
func validateConfig(config *engineConfig) error {
	for _, marker := range []string{config.variantOpen, config.variantClose, config.variantSep, config.escapeChar} {
		if len(marker) != 1 {
			return NewInvalidConfigError(ErrMsgInvalidDelimiter, marker)
		}
	}
	if config.wildcardWrap == "" {
		return NewInvalidConfigError(ErrMsgInvalidWrap, config.wildcardWrap)
	}
	if config.maxDepth <= 0 {
		return NewInvalidConfigError(ErrMsgInvalidMaxDepth, "")
	}
	if config.combinatorialLimit == 0 {
		return NewInvalidConfigError(ErrMsgInvalidLimit, "")
	}
	return nil
}

// Parse parses template source into a reusable Template. The
// returned template is immutable and safe for concurrent streams.
func (e *Engine) Parse(source string) (*Template, error) {
	parser := internal.NewParser(e.internalCfg, e.logger)
	root, err := parser.Parse(source)
	if err != nil {
		return nil, e.translateError(err)
	}

	e.logger.Debug(LogMsgTemplateParsed, zap.Int(LogFieldSource, len(source)))
	return &Template{engine: e, source: source, root: root}, nil
}

// newResolver creates the wildcard lookup for one generation pass.
// The resolver caches lookups for the life of the stream, so source
// reloads become visible to subsequently opened streams.
func (e *Engine) newResolver() internal.WildcardProvider {
	return newWildcardResolver(e.config.sources, e.logger)
}

// GenerateOption adjusts a single Generate call.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	strategy Strategy
	seed     int64
	seeded   bool
}

// WithStrategy selects the generation strategy.
// Default: StrategyRandom
func WithStrategy(strategy Strategy) GenerateOption {
	return func(c *generateConfig) {
		c.strategy = strategy
	}
}

// WithSeed fixes the random seed for reproducible output.
// Default: seeded from the clock
func WithSeed(seed int64) GenerateOption {
	return func(c *generateConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// Generate parses the source and produces count prompts with the
// chosen strategy. For StrategyCombinatorial a count of zero or less
// yields every expansion.
func (e *Engine) Generate(source string, count int, opts ...GenerateOption) ([]string, error) {
	cfg := &generateConfig{strategy: StrategyRandom}
	for _, opt := range opts {
		opt(cfg)
	}

	if count <= 0 && cfg.strategy != StrategyCombinatorial {
		return nil, NewInvalidConfigError(ErrMsgInvalidCount, "")
	}

	tmpl, err := e.Parse(source)
	if err != nil {
		return nil, err
	}

	var rng *rand.Rand
	if cfg.seeded {
		rng = rand.New(rand.NewSource(cfg.seed))
	}

	e.logger.Debug(LogMsgGenerateStart,
		zap.String(LogFieldStrategy, cfg.strategy.String()),
		zap.Int(LogFieldCount, count))

	var stream *Stream
	switch cfg.strategy {
	case StrategyCombinatorial:
		stream = tmpl.Combinatorial(rng)
	case StrategyCyclical:
		stream = tmpl.Cyclical(rng)
	default:
		stream = tmpl.Random(rng)
	}

	var prompts []string
	if cfg.strategy == StrategyCombinatorial && count <= 0 {
		prompts, err = stream.All()
	} else {
		prompts, err = stream.Take(count)
	}
	if err != nil {
		return nil, err
	}

	e.logger.Debug(LogMsgGenerateEnd, zap.Int(LogFieldCount, len(prompts)))
	return prompts, nil
}
