package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"indexbench/pkg/config"
	"indexbench/pkg/datagen"
	"indexbench/pkg/logging"
)

func main() {
	dist := flag.String("dist", "random", "Distribution: random, binomial, poisson, exponential, lognormal")
	size := flag.Int("size", 500000, "Number of records to generate")
	numPages := flag.Int("num_pages", 100, "Records per location")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
	out := flag.String("out", "data", "Directory to save the dataset in")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	logger, err := logging.New(config.LogConfig{Level: level, Development: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	d, err := datagen.ParseDistribution(*dist)
	if err != nil {
		logger.Fatal("bad distribution", zap.Error(err))
	}

	start := time.Now()
	ds, err := datagen.Generate(d, *size, *numPages, *seed)
	if err != nil {
		logger.Fatal("generate dataset", zap.Error(err))
	}

	path := filepath.Join(*out, ds.Name+".dat")
	if err := ds.Save(path); err != nil {
		logger.Fatal("save dataset", zap.String("path", path), zap.Error(err))
	}
	logger.Info("dataset generated",
		zap.String("distribution", ds.Name),
		zap.Int("records", ds.Len()),
		zap.Uint64("seed", *seed),
		zap.String("path", path),
		zap.Duration("elapsed", time.Since(start)),
	)
}
