package wordfreq

import "context"

// Reducer defines the interface for the reduce phase. Reduce is invoked
// once per distinct key with an iterator over all values emitted for that
// key, across every map task and combiner pass.
type Reducer interface {
	Reduce(ctx context.Context, key string, values ValueIterator, emitter Emitter)
}

// ValueIterator iterates over the values for one reduce key.
type ValueIterator struct {
	iter chan string
}

func newValueIterator(iter chan string) ValueIterator {
	return ValueIterator{iter: iter}
}

// Iter returns the channel of values for the key being reduced.
func (v *ValueIterator) Iter() <-chan string {
	return v.iter
}
