package wordfreq

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/cc5212/Proyecto-PMD/internal/pkg/wordfs"
)

// maxConcurrentKeyReducers bounds the per-key reducer goroutines spawned
// inside one reduce task.
const maxConcurrentKeyReducers = 10

// maxRecordLength caps the scanner's line buffer. A line longer than this
// fails its map task.
const maxRecordLength = 4 * 1024 * 1024

// Job is the logical container for a word-count MapReduce job
type Job struct {
	Map           Mapper
	Reduce        Reducer
	PartitionFunc PartitionFunc

	fileSystem       wordfs.FileSystem
	config           *config
	intermediateBins uint
	outputPath       string

	bytesRead    int64
	bytesWritten int64
}

// Logic for running a single map task
func (j *Job) runMapper(ctx context.Context, mapperID uint, splits []inputSplit) error {
	binEmitter := newMapperEmitter(j.intermediateBins, mapperID, j.outputPath, j.fileSystem)
	if j.PartitionFunc != nil {
		binEmitter.partitionFunc = j.PartitionFunc
	}

	// The combiner flushes partial sums into the bin emitter on close.
	var emitter Emitter = &binEmitter
	if j.config.Combine {
		emitter = newCombiningEmitter(&binEmitter)
	}

	for _, split := range splits {
		if err := j.runMapperSplit(ctx, split, emitter); err != nil {
			return err
		}
	}

	if err := emitter.close(); err != nil {
		return err
	}
	atomic.AddInt64(&j.bytesWritten, emitter.bytesWritten())

	return nil
}

// runMapperSplit runs the mapper on a single inputSplit
func (j *Job) runMapperSplit(ctx context.Context, split inputSplit, emitter Emitter) error {
	input, err := j.fileSystem.ReadFile(split.Filename, split.StartOffset)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(bytes.NewReader(input))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxRecordLength)
	var bytesRead int64
	splitter := countingSplitFunc(bufio.ScanLines, &bytesRead)
	scanner.Split(splitter)

	// If the split starts mid-file its first line belongs to the previous
	// split, which reads one line past its own end.
	if split.StartOffset != 0 {
		scanner.Scan()
	}

	for {
		// A line belongs to this split if it starts at or before the
		// split's end; reading one line past the end pairs with the next
		// split skipping its leading partial line. A split contained
		// entirely within one line owns no lines at all.
		lineStart := bytesRead
		if split.Size() > 0 && lineStart > split.Size() {
			break
		}
		if !scanner.Scan() {
			break
		}
		j.Map.Map(ctx, fmt.Sprintf("%d", split.StartOffset+lineStart), scanner.Text(), emitter)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	atomic.AddInt64(&j.bytesRead, bytesRead)

	return nil
}

// Logic for running a single reduce task
func (j *Job) runReducer(ctx context.Context, binID uint) error {
	// Determine the intermediate data files this reducer is responsible for
	path := j.fileSystem.Join(j.outputPath, fmt.Sprintf("map-bin%d-*", binID))
	files, err := j.fileSystem.ListFiles(path)
	if err != nil {
		return err
	}

	path = j.fileSystem.Join(j.outputPath, fmt.Sprintf("output-part-%d", binID))
	buffer := new(bytes.Buffer)

	// Group contributions by word. Every map task has finished before any
	// reducer starts, so this sees the complete set for each word.
	data := make(map[string][]string)
	var bytesRead int64

	for _, file := range files {
		fileContent, err := j.fileSystem.ReadFile(file.Name, 0)
		if err != nil {
			return err
		}
		bytesRead += int64(len(fileContent))

		decoder := json.NewDecoder(bytes.NewReader(fileContent))
		for decoder.More() {
			var kv keyValue
			if err := decoder.Decode(&kv); err != nil {
				return err
			}
			data[kv.Key] = append(data[kv.Key], kv.Value)
		}

		if j.config.Cleanup {
			if err := j.fileSystem.Delete(file.Name); err != nil {
				log.Error(err)
			}
		}
	}

	var waitGroup sync.WaitGroup
	sem := semaphore.NewWeighted(maxConcurrentKeyReducers)

	emitter := newReducerEmitter(buffer)
	for key, values := range data {
		if err := sem.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("failed to run reducer: failed to acquire semaphore: %s", err)
		}
		waitGroup.Add(1)
		go func(key string, values []string) {
			defer sem.Release(1)

			keyChan := make(chan string)
			keyIter := newValueIterator(keyChan)

			go func() {
				defer waitGroup.Done()
				j.Reduce.Reduce(ctx, key, keyIter, emitter)
			}()

			for _, value := range values {
				// Pass current value to the appropriate key channel
				keyChan <- value
			}
			close(keyChan)
		}(key, values)
	}

	waitGroup.Wait()

	atomic.AddInt64(&j.bytesWritten, emitter.bytesWritten())
	atomic.AddInt64(&j.bytesRead, bytesRead)

	return j.fileSystem.WriteFile(path, buffer.Bytes())
}

// inputSplits calculates all input files' inputSplits.
// inputSplits also determines and saves the number of intermediate bins that will be used during the shuffle.
func (j *Job) inputSplits(inputs []string, maxSplitSize int64) []inputSplit {
	fileInfos := make([]wordfs.FileInfo, 0)
	for _, inputPath := range inputs {
		fileList, err := j.fileSystem.ListFiles(inputPath)
		if err != nil {
			log.Warn(err)
			continue
		}
		fileInfos = append(fileInfos, fileList...)
	}

	splits := make([]inputSplit, 0)
	var totalSize int64
	for _, fInfo := range fileInfos {
		totalSize += fInfo.Size
		splits = append(splits, splitInputFile(fInfo, maxSplitSize)...)
	}
	if len(splits) > 0 {
		log.Debugf("Average split size: %s bytes", humanize.Bytes(uint64(totalSize)/uint64(len(splits))))
	}

	j.intermediateBins = uint(float64(totalSize/j.config.ReduceBinSize) * 1.25)
	if j.intermediateBins == 0 {
		j.intermediateBins = 1
	}

	return splits
}

// NewJob creates a new job from a Mapper and Reducer.
func NewJob(mapper Mapper, reducer Reducer) *Job {
	return &Job{
		Map:    mapper,
		Reduce: reducer,
		config: &config{},
	}
}
