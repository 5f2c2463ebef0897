package wordfreq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cc5212/Proyecto-PMD/internal/pkg/wordfs"
)

func TestSplitInputFile(t *testing.T) {
	fInfo := wordfs.FileInfo{Name: "input.tsv", Size: 250}

	splits := splitInputFile(fInfo, 100)
	assert.Equal(t, []inputSplit{
		{Filename: "input.tsv", StartOffset: 0, EndOffset: 100},
		{Filename: "input.tsv", StartOffset: 100, EndOffset: 200},
		{Filename: "input.tsv", StartOffset: 200, EndOffset: 250},
	}, splits)

	var total int64
	for _, split := range splits {
		total += split.Size()
	}
	assert.Equal(t, fInfo.Size, total)
}

func TestSplitInputFileSmallerThanSplitSize(t *testing.T) {
	fInfo := wordfs.FileInfo{Name: "input.tsv", Size: 10}

	splits := splitInputFile(fInfo, 100)
	assert.Equal(t, []inputSplit{
		{Filename: "input.tsv", StartOffset: 0, EndOffset: 10},
	}, splits)
}

func TestPackSplits(t *testing.T) {
	splits := []inputSplit{
		{Filename: "a", StartOffset: 0, EndOffset: 60},
		{Filename: "a", StartOffset: 60, EndOffset: 120},
		{Filename: "b", StartOffset: 0, EndOffset: 50},
	}

	bins := packSplits(splits, 100)
	assert.Len(t, bins, 3)

	bins = packSplits(splits, 120)
	assert.Len(t, bins, 2)
	assert.Len(t, bins[0], 2)
	assert.Len(t, bins[1], 1)

	bins = packSplits(splits, 1000)
	assert.Len(t, bins, 1)
	assert.Len(t, bins[0], 3)
}
