package wordfreq

import (
	"bufio"
	"sync/atomic"

	"github.com/cc5212/Proyecto-PMD/internal/pkg/wordfs"
)

// inputSplit is one mapper's contiguous byte range of an input file.
// A split whose StartOffset is nonzero begins mid-line: its mapper skips
// the first partial line, and the preceding split reads one line past its
// EndOffset, so every line is processed exactly once.
type inputSplit struct {
	Filename    string
	StartOffset int64
	EndOffset   int64
}

// Size returns the number of bytes covered by the split.
func (i inputSplit) Size() int64 {
	return i.EndOffset - i.StartOffset
}

// splitInputFile cuts a file into splits of at most maxSplitSize bytes.
func splitInputFile(fInfo wordfs.FileInfo, maxSplitSize int64) []inputSplit {
	splits := make([]inputSplit, 0)

	start := int64(0)
	for start < fInfo.Size {
		end := start + maxSplitSize
		if end > fInfo.Size {
			end = fInfo.Size
		}
		splits = append(splits, inputSplit{
			Filename:    fInfo.Name,
			StartOffset: start,
			EndOffset:   end,
		})
		start = end
	}

	return splits
}

// countingSplitFunc wraps a bufio.SplitFunc to count the bytes it
// consumes, so a mapper can tell when it has read past its split.
func countingSplitFunc(split bufio.SplitFunc, counter *int64) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		advance, token, err = split(data, atEOF)
		atomic.AddInt64(counter, int64(advance))
		return advance, token, err
	}
}
