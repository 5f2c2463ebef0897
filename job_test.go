package wordfreq

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cc5212/Proyecto-PMD/internal/pkg/wordfs"
)

var testCorpus = strings.Join([]string{
	"Hello World\tx\t01-01-2019\tfoo bar",
	"Ignored Title\t\t01-01-2019\treply text",
	"Late Post\tx\t01-01-2020\tfoo",
	"post_theme header date line\tx\t01-01-2019\tfoo",
}, "\n") + "\n"

var testCorpusCounts = map[string]int{
	"hello": 1,
	"world": 1,
	"foo":   1,
	"bar":   1,
	"reply": 1,
	"text":  1,
}

func parseOutput(t *testing.T, data []byte) map[string]int {
	t.Helper()

	counts := make(map[string]int)
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		require.Len(t, fields, 2, "output line %q", line)
		count, err := strconv.Atoi(fields[1])
		require.NoError(t, err)
		counts[fields[0]] += count
	}
	return counts
}

func runCountJob(t *testing.T, corpus string, options ...Option) map[string]int {
	t.Helper()

	dir := t.TempDir()
	input := filepath.Join(dir, "input.tsv")
	require.NoError(t, os.WriteFile(input, []byte(corpus), 0600))
	outDir := filepath.Join(dir, "out")

	job := NewJob(WordCount{}, WordCount{})
	options = append([]Option{
		WithInputs(input),
		WithWorkingLocation(outDir),
	}, options...)
	driver := NewDriver(job, options...)
	require.NoError(t, driver.run(context.Background()))

	outputs, err := filepath.Glob(filepath.Join(outDir, "output-part-*"))
	require.NoError(t, err)
	require.NotEmpty(t, outputs)

	counts := make(map[string]int)
	for _, output := range outputs {
		data, err := os.ReadFile(output)
		require.NoError(t, err)
		for word, count := range parseOutput(t, data) {
			counts[word] += count
		}
	}
	return counts
}

func TestJobEndToEnd(t *testing.T) {
	counts := runCountJob(t, testCorpus)
	assert.Equal(t, testCorpusCounts, counts)
}

func TestJobEndToEndWithoutCombiner(t *testing.T) {
	counts := runCountJob(t, testCorpus, WithCombine(false))
	assert.Equal(t, testCorpusCounts, counts)
}

// The final mapping must not depend on how the input is partitioned. A
// split size larger than the longest line but smaller than the file forces
// several map tasks with mid-line split boundaries.
func TestJobEndToEndManySplits(t *testing.T) {
	counts := runCountJob(t, testCorpus,
		WithSplitSize(64),
		WithMapBinSize(64),
		WithMaxConcurrency(2),
	)
	assert.Equal(t, testCorpusCounts, counts)
}

// Totals must not depend on the partitioning at all, including split sizes
// smaller than a single line: a split contained inside one line owns no
// lines, and the straddled line is counted only by the split it starts in.
func TestJobSplitSizeInvariance(t *testing.T) {
	var lines []string
	want := make(map[string]int)
	for i := 0; i < 50; i++ {
		word := fmt.Sprintf("w%03d", i%8)
		lines = append(lines, fmt.Sprintf("Shared Title\tx\t01-01-2019\t%s common", word))
		want[word]++
		want["common"]++
		want["shared"]++
		want["title"]++
	}
	corpus := strings.Join(lines, "\n") + "\n"

	// 17 is shorter than every line; 64 straddles lines; 1MB is one split.
	for _, splitSize := range []int64{17, 64, 1 << 20} {
		t.Run(fmt.Sprintf("split-%d", splitSize), func(t *testing.T) {
			counts := runCountJob(t, corpus,
				WithSplitSize(splitSize),
				WithMapBinSize(splitSize),
				WithMaxConcurrency(4),
			)
			assert.Equal(t, want, counts)
		})
		t.Run(fmt.Sprintf("split-%d-no-combine", splitSize), func(t *testing.T) {
			counts := runCountJob(t, corpus,
				WithSplitSize(splitSize),
				WithMapBinSize(splitSize),
				WithCombine(false),
			)
			assert.Equal(t, want, counts)
		})
	}
}

func TestJobLongLine(t *testing.T) {
	comment := strings.TrimSpace(strings.Repeat("lorem ", 20000))
	corpus := "Big Post\tx\t01-01-2019\t" + comment + "\n"

	counts := runCountJob(t, corpus)
	assert.Equal(t, map[string]int{
		"big":   1,
		"post":  1,
		"lorem": 20000,
	}, counts)
}

func TestJobMalformedRecordsAreSkipped(t *testing.T) {
	corpus := strings.Join([]string{
		"Good Post\tx\t01-01-2019\tcounted words",
		"too\tfew",
		"Bad Date\tx\t99-99-9999\tuncounted",
		"Another\tx\t02-01-2019\tcounted again",
	}, "\n") + "\n"

	counts := runCountJob(t, corpus)
	assert.Equal(t, map[string]int{
		"good":    1,
		"post":    1,
		"counted": 2,
		"words":   1,
		"another": 1,
		"again":   1,
	}, counts)
}

func TestJobInMemoryFilesystem(t *testing.T) {
	fs := wordfs.NewInMemoryFileSystem()
	require.NoError(t, fs.WriteFile("in/input.tsv", []byte(testCorpus)))

	job := NewJob(WordCount{}, WordCount{})
	job.config = newConfig()
	job.fileSystem = fs
	job.outputPath = "out"

	ctx := context.Background()
	splits := job.inputSplits([]string{"in/*"}, job.config.SplitSize)
	require.NotEmpty(t, splits)
	require.NoError(t, job.runMapper(ctx, 0, splits))

	for binID := uint(0); binID < job.intermediateBins; binID++ {
		require.NoError(t, job.runReducer(ctx, binID))
	}

	data, err := fs.ReadFile("out/output-part-0", 0)
	require.NoError(t, err)
	assert.Equal(t, testCorpusCounts, parseOutput(t, data))
}
