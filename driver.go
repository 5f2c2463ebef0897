package wordfreq

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/semaphore"
	pb "gopkg.in/cheggaaa/pb.v1"

	"github.com/cc5212/Proyecto-PMD/internal/pkg/wordfs"
)

// Driver controls the execution of a MapReduce Job
type Driver struct {
	jobs     []*Job
	config   *config
	executor executor
}

// NewDriver creates a new Driver with the provided job and optional
// configuration
func NewDriver(job *Job, options ...Option) *Driver {
	d := &Driver{
		jobs:     []*Job{job},
		executor: localExecutor{},
	}

	c := newConfig()
	for _, f := range options {
		f(c)
	}

	if c.SplitSize > c.MapBinSize {
		log.Warn("Configured split size is larger than map bin size")
		c.SplitSize = c.MapBinSize
	}

	d.config = c
	log.Debugf("Loaded config: %#v", c)

	return d
}

// packSplits groups input splits into bins of at most mapBinSize bytes.
// Each bin becomes one map task.
func packSplits(splits []inputSplit, mapBinSize int64) [][]inputSplit {
	bins := make([][]inputSplit, 0)

	currentBin := make([]inputSplit, 0)
	var binSize int64
	for _, split := range splits {
		if binSize+split.Size() > mapBinSize && len(currentBin) > 0 {
			bins = append(bins, currentBin)
			currentBin = make([]inputSplit, 0)
			binSize = 0
		}
		currentBin = append(currentBin, split)
		binSize += split.Size()
	}
	if len(currentBin) > 0 {
		bins = append(bins, currentBin)
	}

	return bins
}

func (d *Driver) runMapPhase(ctx context.Context, job *Job, jobNumber int) error {
	splits := job.inputSplits(d.config.Inputs, d.config.SplitSize)
	if len(splits) == 0 {
		log.Warnf("No input files found for inputs: %v", d.config.Inputs)
		return nil
	}
	bins := packSplits(splits, d.config.MapBinSize)
	log.Debugf("Divided input into %d map task(s)", len(bins))

	bar := pb.New(len(bins)).Prefix("Map").Start()
	defer bar.Finish()

	sem := semaphore.NewWeighted(int64(d.config.MaxConcurrency))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for binID, bin := range bins {
		if err := sem.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("failed to run map phase: %s", err)
		}
		wg.Add(1)
		go func(binID uint, bin []inputSplit) {
			defer wg.Done()
			defer sem.Release(1)
			defer bar.Increment()

			if err := d.executor.RunMapper(ctx, job, jobNumber, binID, bin); err != nil {
				errOnce.Do(func() {
					firstErr = fmt.Errorf("map task %d: %w", binID, err)
				})
			}
		}(uint(binID), bin)
	}
	wg.Wait()

	return firstErr
}

func (d *Driver) runReducePhase(ctx context.Context, job *Job, jobNumber int) error {
	bar := pb.New(int(job.intermediateBins)).Prefix("Reduce").Start()
	defer bar.Finish()

	for binID := uint(0); binID < job.intermediateBins; binID++ {
		if err := d.executor.RunReducer(ctx, job, jobNumber, binID); err != nil {
			return fmt.Errorf("reduce task %d: %w", binID, err)
		}
		bar.Increment()
	}

	return nil
}

// run executes the Driver's jobs end to end.
func (d *Driver) run(ctx context.Context) error {
	fs, err := wordfs.InferFilesystem(d.config.WorkingLocation)
	if err != nil {
		return err
	}

	for idx, job := range d.jobs {
		// Previous jobs' output becomes the next job's input
		if idx > 0 {
			d.config.Inputs = []string{fs.Join(d.config.WorkingLocation, "output-part-*")}
		}

		job.config = d.config
		job.fileSystem = fs
		job.outputPath = d.config.WorkingLocation

		if err := d.runMapPhase(ctx, job, idx); err != nil {
			return err
		}
		if err := d.runReducePhase(ctx, job, idx); err != nil {
			return err
		}

		log.Infof("Job %d: %s read, %s written", idx,
			humanize.Bytes(uint64(job.bytesRead)), humanize.Bytes(uint64(job.bytesWritten)))
	}

	return nil
}

var driverFlags = pflag.NewFlagSet("driver", pflag.ExitOnError)

var (
	verbose        = driverFlags.BoolP("verbose", "v", false, "Output verbose logs")
	noCombine      = driverFlags.Bool("no-combine", false, "Disable local partial aggregation in the map phase")
	splitSize      = driverFlags.Int64("split-size", 0, "Maximum byte size of a mapper's input split")
	mapBinSize     = driverFlags.Int64("map-bin-size", 0, "Maximum bytes of input per map task")
	maxConcurrency = driverFlags.Int("max-concurrency", 0, "Maximum number of concurrent map tasks")
)

func (d *Driver) usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input> <output>\n", filepath.Base(os.Args[0]))
	driverFlags.PrintDefaults()
}

// Main parses the command-line surface and runs the Driver's jobs. Exactly
// two positional arguments are required: the input location and the output
// location. Anything else prints usage and exits with status 2 before any
// processing starts.
func (d *Driver) Main(ctx context.Context) {
	if err := driverFlags.Parse(os.Args[1:]); err != nil {
		d.usage()
		os.Exit(2)
	}

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	args := driverFlags.Args()
	if len(args) != 2 {
		d.usage()
		os.Exit(2)
	}
	d.config.Inputs = append(d.config.Inputs, args[0])
	d.config.WorkingLocation = args[1]

	if *noCombine {
		d.config.Combine = false
	}
	if *splitSize > 0 {
		d.config.SplitSize = *splitSize
	}
	if *mapBinSize > 0 {
		d.config.MapBinSize = *mapBinSize
	}
	if *maxConcurrency > 0 {
		d.config.MaxConcurrency = *maxConcurrency
	}

	if err := d.run(ctx); err != nil {
		log.Fatal(err)
	}
}
