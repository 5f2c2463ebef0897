package wordfreq

import (
	"runtime"

	"github.com/spf13/viper"
)

func init() {
	viper.SetEnvPrefix("wordfreq")
	viper.AutomaticEnv()

	viper.SetDefault("splitSize", 100*1024*1024)
	viper.SetDefault("mapBinSize", 512*1024*1024)
	viper.SetDefault("reduceBinSize", 512*1024*1024)
	viper.SetDefault("maxConcurrency", runtime.NumCPU())
	viper.SetDefault("workingLocation", ".")
	viper.SetDefault("combine", true)
	viper.SetDefault("cleanup", true)
	viper.SetDefault("verbose", false)
}

type config struct {
	Inputs          []string
	SplitSize       int64
	MapBinSize      int64
	ReduceBinSize   int64
	MaxConcurrency  int
	WorkingLocation string
	Combine         bool
	Cleanup         bool
}

func newConfig() *config {
	return &config{
		Inputs:          []string{},
		SplitSize:       viper.GetInt64("splitSize"),
		MapBinSize:      viper.GetInt64("mapBinSize"),
		ReduceBinSize:   viper.GetInt64("reduceBinSize"),
		MaxConcurrency:  viper.GetInt("maxConcurrency"),
		WorkingLocation: viper.GetString("workingLocation"),
		Combine:         viper.GetBool("combine"),
		Cleanup:         viper.GetBool("cleanup"),
	}
}

// Option allows configuration of a Driver
type Option func(*config)

// WithSplitSize sets the maximum byte size of a mapper's input split.
func WithSplitSize(s int64) Option {
	return func(c *config) {
		c.SplitSize = s
	}
}

// WithMapBinSize sets the maximum byte size of input assigned to one map
// task.
func WithMapBinSize(s int64) Option {
	return func(c *config) {
		c.MapBinSize = s
	}
}

// WithReduceBinSize sets the target byte size of an intermediate shuffle
// bin, which determines the number of reduce tasks.
func WithReduceBinSize(s int64) Option {
	return func(c *config) {
		c.ReduceBinSize = s
	}
}

// WithWorkingLocation sets the location for intermediate and output data.
func WithWorkingLocation(location string) Option {
	return func(c *config) {
		c.WorkingLocation = location
	}
}

// WithInputs specifies job inputs (i.e. input files/directories)
func WithInputs(inputs ...string) Option {
	return func(c *config) {
		c.Inputs = append(c.Inputs, inputs...)
	}
}

// WithCombine toggles local partial aggregation in the map phase. The
// final totals are the same either way; combining only reduces shuffle
// volume.
func WithCombine(enabled bool) Option {
	return func(c *config) {
		c.Combine = enabled
	}
}

// WithMaxConcurrency bounds the number of map tasks run in parallel.
func WithMaxConcurrency(n int) Option {
	return func(c *config) {
		c.MaxConcurrency = n
	}
}
