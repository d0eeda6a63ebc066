package dynamicprompts

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/ITCups/dynamicprompts/internal"
)

// Template is a parsed, immutable template. Each stream constructor
// creates independent generation state, so one template may feed any
// number of concurrent streams.
type Template struct {
	engine *Engine
	source string
	root   *internal.SequenceNode
}

// Source returns the original template text
func (t *Template) Source() string {
	return t.source
}

// Random opens an endless stream of independent samples. A nil rng is
// seeded from the clock; pass a seeded rand.Rand for reproducible
// output. Item errors (unknown wildcard, unbound variable) fail only
// that item, the stream stays usable.
func (t *Template) Random(rng *rand.Rand) *Stream {
	sampler := internal.NewRandomSampler(t.engine.internalCfg, t.engine.newResolver(), rng, t.engine.logger)
	t.engine.logger.Debug(LogMsgStreamOpened, zap.String(LogFieldStrategy, StrategyNameRandom))

	return newStream(func() (string, bool, error) {
		value, err := sampler.Sample(t.root)
		if err != nil {
			return "", true, t.engine.translateError(err)
		}
		return value, true, nil
	})
}

// Combinatorial opens a finite stream over every expansion of the
// template, in product order with the rightmost position varying
// fastest. The rng only serves nodes tagged for random sampling.
// Errors terminate the stream.
func (t *Template) Combinatorial(rng *rand.Rand) *Stream {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	enum, err := internal.NewEnumeration(t.engine.internalCfg, t.engine.newResolver(), rng, t.engine.logger, t.root)
	if err != nil {
		return failedStream(t.engine.translateError(err))
	}
	t.engine.logger.Debug(LogMsgStreamOpened, zap.String(LogFieldStrategy, StrategyNameCombinatorial))

	return newStream(func() (string, bool, error) {
		value, ok, err := enum.Next()
		if err != nil {
			return "", false, t.engine.translateError(err)
		}
		return value, ok, nil
	})
}

// Cyclical opens an endless stream that samples the combinatorial
// space without replacement, reshuffling once each pass is exhausted.
// The space is materialized up front under the combinatorial limit.
func (t *Template) Cyclical(rng *rand.Rand) *Stream {
	cycler, err := internal.NewCycler(t.engine.internalCfg, t.engine.newResolver(), rng, t.engine.logger, t.root)
	if err != nil {
		return failedStream(t.engine.translateError(err))
	}
	t.engine.logger.Debug(LogMsgStreamOpened, zap.String(LogFieldStrategy, StrategyNameCyclical))

	return newStream(func() (string, bool, error) {
		return cycler.Next(), true, nil
	})
}
