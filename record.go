package wordfreq

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// dateLayout is the dd-MM-yyyy format used by the corpus' date field.
const dateLayout = "02-01-2006"

// recordFieldCount is the minimum number of tab-separated fields a line
// must have to be a valid record.
const recordFieldCount = 4

// cutoffDate is the inclusion boundary: only records dated strictly before
// 18 October 2019 contribute tokens.
var cutoffDate = time.Date(2019, time.October, 18, 0, 0, 0, 0, time.UTC)

// ErrMalformedRecord reports an input line that cannot be parsed as a
// record. Malformed records are skipped, never fatal.
var ErrMalformedRecord = errors.New("malformed record")

// Record is one parsed input row: a post or a reply with its date.
// An empty ReplyFlag marks a reply, whose title field is not meaningful.
type Record struct {
	Title     string
	ReplyFlag string
	Date      time.Time
	Comment   string
}

// isHeaderLine reports whether a raw line looks like corpus header
// metadata. The check runs on the raw line, before any field parsing.
func isHeaderLine(line string) bool {
	return strings.Contains(line, "post_theme") && strings.Contains(line, "date")
}

// ParseRecord parses one tab-separated input line into a Record. Lines with
// fewer than four fields, or whose date field does not match dd-MM-yyyy
// exactly, yield an error wrapping ErrMalformedRecord.
func ParseRecord(line string) (Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < recordFieldCount {
		return Record{}, fmt.Errorf("%w: expected at least %d fields, got %d",
			ErrMalformedRecord, recordFieldCount, len(fields))
	}

	date, err := time.Parse(dateLayout, fields[2])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad date %q: %v", ErrMalformedRecord, fields[2], err)
	}

	return Record{
		Title:     fields[0],
		ReplyFlag: fields[1],
		Date:      date,
		Comment:   fields[3],
	}, nil
}

// BeforeCutoff reports whether the record is dated strictly before the
// cutoff and therefore contributes tokens.
func (r Record) BeforeCutoff() bool {
	return r.Date.Before(cutoffDate)
}

// IncludeTitle reports whether the title field should be tokenized. A
// non-empty reply flag marks a top-level post with a real title; replies
// carry a copied title that must not be counted.
func (r Record) IncludeTitle() bool {
	return r.ReplyFlag != ""
}
