package wordfreq

import "context"

// Mapper defines the interface for the map phase. Map is invoked once per
// input line with the line's byte offset as key and its text as value, and
// may emit any number of key-value pairs. Map must be side-effect-free so
// a failed partition can be re-run from its original input.
type Mapper interface {
	Map(ctx context.Context, key, value string, emitter Emitter)
}
