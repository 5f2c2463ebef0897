package main

import (
	"context"

	wordfreq "github.com/cc5212/Proyecto-PMD"
)

func main() {
	job := wordfreq.NewJob(wordfreq.WordCount{}, wordfreq.WordCount{})

	driver := wordfreq.NewDriver(job)
	driver.Main(context.Background())
}
