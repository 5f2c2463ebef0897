package wordfreq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/cc5212/Proyecto-PMD/internal/pkg/wordfs"
)

// keyValue is the framing of one intermediate pair, JSON-encoded one per
// line in the shuffle bin files.
type keyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Emitter enables mappers and reducers to yield key-value pairs.
type Emitter interface {
	Emit(ctx context.Context, key, value string) error
	close() error
	bytesWritten() int64
}

// PartitionFunc maps a key to one of numBins shuffle bins. All
// contributions for a key must land in the same bin.
type PartitionFunc func(key string, numBins uint) uint

// hashPartition is the default PartitionFunc.
func hashPartition(key string, numBins uint) uint {
	h := fnv.New64()
	h.Write([]byte(key))
	return uint(h.Sum64() % uint64(numBins))
}

// reducerEmitter is a threadsafe emitter writing final output pairs.
type reducerEmitter struct {
	writer       io.Writer
	mut          *sync.Mutex
	writtenBytes int64
}

// newReducerEmitter initializes and returns a new reducerEmitter
func newReducerEmitter(writer io.Writer) *reducerEmitter {
	return &reducerEmitter{
		writer: writer,
		mut:    &sync.Mutex{},
	}
}

// Emit yields a key-value pair to the output sink.
func (e *reducerEmitter) Emit(ctx context.Context, key, value string) error {
	e.mut.Lock()
	defer e.mut.Unlock()

	n, err := e.writer.Write([]byte(fmt.Sprintf("%s\t%s\n", key, value)))
	e.writtenBytes += int64(n)
	return err
}

// close terminates the reducerEmitter. close must not be called more than once
func (e *reducerEmitter) close() error {
	return nil
}

func (e *reducerEmitter) bytesWritten() int64 {
	return e.writtenBytes
}

// mapperEmitter is an emitter that partitions keys written to it.
// Keys are hashed into one of numBins intermediate shuffle bins; each bin
// is buffered in memory and persisted as one file per (bin, mapper) when
// the emitter is closed.
type mapperEmitter struct {
	numBins       uint                   // number of intermediate shuffle bins
	buffers       map[uint]*bytes.Buffer // maps a partition number to its bin buffer
	fs            wordfs.FileSystem      // filesystem the bin files are written to
	mapperID      uint                   // numeric identifier of the mapper using this emitter
	outDir        string                 // folder to save map output to
	partitionFunc PartitionFunc          // PartitionFunc partitioning map output keys into bins
	writtenBytes  int64                  // counter for number of bytes written from emitted key/val pairs
}

// newMapperEmitter initializes a new mapperEmitter
func newMapperEmitter(numBins uint, mapperID uint, outDir string, fs wordfs.FileSystem) mapperEmitter {
	return mapperEmitter{
		numBins:       numBins,
		buffers:       make(map[uint]*bytes.Buffer, numBins),
		fs:            fs,
		mapperID:      mapperID,
		outDir:        outDir,
		partitionFunc: hashPartition,
	}
}

// Emit yields a key-value pair into the key's shuffle bin.
func (me *mapperEmitter) Emit(ctx context.Context, key, value string) error {
	bin := me.partitionFunc(key, me.numBins)

	buffer, exists := me.buffers[bin]
	if !exists {
		buffer = new(bytes.Buffer)
		me.buffers[bin] = buffer
	}

	kv := keyValue{
		Key:   key,
		Value: value,
	}

	data, err := json.Marshal(kv)
	if err != nil {
		log.Error(err)
		return err
	}

	data = append(data, '\n')
	n, err := buffer.Write(data)
	me.writtenBytes += int64(n)
	return err
}

// close persists the bin buffers. Must not be called more than once.
func (me *mapperEmitter) close() error {
	for bin, buffer := range me.buffers {
		path := me.fs.Join(me.outDir, fmt.Sprintf("map-bin%d-%d.out", bin, me.mapperID))
		if err := me.fs.WriteFile(path, buffer.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func (me *mapperEmitter) bytesWritten() int64 {
	return me.writtenBytes
}
