package wordfreq

import (
	"context"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// WordCount is the word-frequency job: the mapper filters and tokenizes one
// record per input line, the reducer sums all counts for a word. The same
// Reduce also serves as the combiner, since summation is associative.
type WordCount struct{}

// Map emits (token, "1") for every counted word of one input line. Header
// lines, malformed records, and records on or after the cutoff date emit
// nothing. Comment tokens are always counted; title tokens only when the
// record's reply flag is non-empty.
func (w WordCount) Map(ctx context.Context, key, value string, emitter Emitter) {
	if isHeaderLine(value) {
		return
	}

	record, err := ParseRecord(value)
	if err != nil {
		log.Debugf("Skipping record: %v", err)
		return
	}
	if !record.BeforeCutoff() {
		return
	}

	for _, token := range Tokenize(record.Comment) {
		if err := emitter.Emit(ctx, token, "1"); err != nil {
			log.Error(err)
			return
		}
	}
	if !record.IncludeTitle() {
		return
	}
	for _, token := range Tokenize(record.Title) {
		if err := emitter.Emit(ctx, token, "1"); err != nil {
			log.Error(err)
			return
		}
	}
}

// Reduce sums every contribution for a word into one total. Contributions
// may be unit counts or combiner partials, in any order and grouping; the
// total is the same either way.
func (w WordCount) Reduce(ctx context.Context, key string, values ValueIterator, emitter Emitter) {
	sum := 0
	for value := range values.Iter() {
		count, err := strconv.Atoi(value)
		if err != nil {
			log.Warnf("Dropping non-numeric count %q for word %q: %v", value, key, err)
			continue
		}
		sum += count
	}
	if err := emitter.Emit(ctx, key, strconv.Itoa(sum)); err != nil {
		log.Error(err)
	}
}
