package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"indexbench/pkg/bench"
	"indexbench/pkg/common"
	"indexbench/pkg/config"
	"indexbench/pkg/core"
	"indexbench/pkg/datagen"
	"indexbench/pkg/logging"
	"indexbench/pkg/monitor"
	"indexbench/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config")
	mods := flag.String("mods", "", "Comma-separated index kinds (overrides config)")
	normalize := flag.Bool("normalize", false, "Also print per-group z-scored metrics")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *mods != "" {
		cfg.Bench.Indexes = strings.Split(*mods, ",")
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *normalize, logger); err != nil {
		logger.Fatal("benchmark failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, normalize bool, logger *zap.Logger) error {
	store, err := storage.OpenResultStore(cfg.Bench.ResultsDB, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	runner := bench.NewRunner(bench.Options{
		Folds:   cfg.Bench.Folds,
		Queries: cfg.Bench.Queries,
		Seed:    cfg.Dataset.Seed,
		Index:   core.Options{Degree: cfg.Bench.Degree, RMIFanout: cfg.Bench.RMIFanout},
		AfterBuild: func(ds *datagen.Dataset, idx core.Index) error {
			return saveModel(cfg.Bench.ModelDir, ds, idx, logger)
		},
	}, monitor.NewMetrics(), logger)

	var all []common.Result
	for _, name := range cfg.Dataset.Distributions {
		ds, err := loadOrGenerate(cfg, name, logger)
		if err != nil {
			return err
		}

		results, err := runner.Run(ctx, ds, cfg.Bench.Indexes)
		if err != nil {
			return err
		}
		if err := store.SaveResults(results); err != nil {
			return err
		}
		all = append(all, results...)
	}

	if err := bench.WriteTable(os.Stdout, all); err != nil {
		return err
	}
	if normalize {
		fmt.Println()
		for _, n := range bench.Normalize(all) {
			fmt.Printf("%-12s %-4s fold=%d predict=%+.3f mse=%+.3f mae=%+.3f space=%+.3f\n",
				n.Dataset, n.Kind, n.Fold, n.PredictTime, n.MSE, n.MAE, n.Space)
		}
	}
	return nil
}

// loadOrGenerate reads <path>/<dist>.dat, generating and saving it first
// when it does not exist yet.
func loadOrGenerate(cfg *config.Config, name string, logger *zap.Logger) (*datagen.Dataset, error) {
	dist, err := datagen.ParseDistribution(name)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(cfg.Dataset.Path, string(dist)+".dat")
	ds, generated, err := datagen.LoadOrGenerate(path, dist, cfg.Dataset.Size, cfg.Dataset.NumPages, cfg.Dataset.Seed)
	if err != nil {
		return nil, err
	}
	msg := "dataset loaded"
	if generated {
		msg = "dataset generated"
	}
	logger.Info(msg, zap.String("path", path), zap.Int("records", ds.Len()))
	return ds, nil
}

// saveModel stores a learned index the runner just built under
// dir/<dataset>-<kind>.model, logging its residuals over the dataset.
func saveModel(dir string, ds *datagen.Dataset, idx core.Index, logger *zap.Logger) error {
	li, ok := idx.(*core.LearnedIndex)
	if dir == "" || !ok {
		return nil
	}

	path := filepath.Join(dir, ds.Name+"-"+li.Kind()+".model")
	if err := li.Save(path); err != nil {
		return err
	}
	diag := li.Diagnostics(ds.Records())
	logger.Info("model saved",
		zap.String("path", path),
		zap.Int("min_err", li.MinErr),
		zap.Int("max_err", li.MaxErr),
		zap.Float64("mean_abs_err", core.MeanAbsError(diag)),
		zap.Int("sampled", len(diag)),
	)
	return nil
}
