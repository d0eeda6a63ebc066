package internal

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Cycler samples the combinatorial space of a template without
// replacement: the full space is materialized up front, shuffled, and
// emitted once per pass. On exhaustion it reshuffles and continues,
// so Next never runs dry.
type Cycler struct {
	rng     *rand.Rand
	outputs []string
	order   []int
	pos     int
}

// NewCycler enumerates the template's expansion space and prepares
// the first shuffled pass. The combinatorial size guard applies, a
// space over the limit fails here.
func NewCycler(cfg *Config, wildcards WildcardProvider, rng *rand.Rand, logger *zap.Logger, root Node) (*Cycler, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgSamplerCreated, zap.String(LogFieldMethod, SamplingNameCyclical))

	outputs, err := enumerateAll(cfg, wildcards, rng, logger, root)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		outputs = []string{""}
	}

	c := &Cycler{rng: rng, outputs: outputs}
	c.reshuffle()
	return c, nil
}

// Size returns the number of distinct expansions in one pass
func (c *Cycler) Size() int {
	return len(c.outputs)
}

// Next returns the next prompt of the current pass
func (c *Cycler) Next() string {
	value := c.outputs[c.order[c.pos]]
	c.pos++
	if c.pos >= len(c.order) {
		c.reshuffle()
	}
	return value
}

func (c *Cycler) reshuffle() {
	c.order = c.rng.Perm(len(c.outputs))
	c.pos = 0
}
