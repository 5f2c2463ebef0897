package wordfreq

import (
	"context"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// combiningEmitter performs local partial aggregation in front of a
// mapper's shuffle emitter: unit counts for the same word are summed in
// memory and flushed downstream as one (word, partial_sum) pair on close.
// Summation is additive and order-independent, so running zero, one, or
// many combiner passes over any grouping of the pairs leaves the final
// reduced totals unchanged.
type combiningEmitter struct {
	counts map[string]int
	dest   Emitter
}

func newCombiningEmitter(dest Emitter) *combiningEmitter {
	return &combiningEmitter{
		counts: make(map[string]int),
		dest:   dest,
	}
}

// Emit folds a (word, count) pair into the local partial sums.
func (c *combiningEmitter) Emit(ctx context.Context, key, value string) error {
	count, err := strconv.Atoi(value)
	if err != nil {
		log.Warnf("Dropping non-numeric count %q for word %q: %v", value, key, err)
		return nil
	}
	c.counts[key] += count
	return nil
}

// close flushes one partial sum per distinct word to the wrapped emitter,
// then closes it.
func (c *combiningEmitter) close() error {
	ctx := context.Background()
	for key, count := range c.counts {
		if err := c.dest.Emit(ctx, key, strconv.Itoa(count)); err != nil {
			return err
		}
	}
	return c.dest.close()
}

func (c *combiningEmitter) bytesWritten() int64 {
	return c.dest.bytesWritten()
}
