// Package bench times index construction and lookups over generated
// datasets and scores each index's location predictions.
package bench

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"indexbench/pkg/common"
	"indexbench/pkg/core"
	"indexbench/pkg/datagen"
	"indexbench/pkg/logging"
	"indexbench/pkg/monitor"
)

type Options struct {
	Folds   int
	Queries int
	Seed    uint64
	Index   core.Options

	// AfterBuild, when set, receives each index right after it is built and
	// before its folds run. An error stops the run.
	AfterBuild func(ds *datagen.Dataset, idx core.Index) error
}

type Runner struct {
	opts    Options
	metrics *monitor.Metrics
	logger  *zap.Logger
}

func NewRunner(opts Options, metrics *monitor.Metrics, logger *zap.Logger) *Runner {
	if opts.Folds <= 0 {
		opts.Folds = 5
	}
	if opts.Queries <= 0 {
		opts.Queries = 10000
	}
	if metrics == nil {
		metrics = monitor.NewMetrics()
	}
	return &Runner{opts: opts, metrics: metrics, logger: logging.OrNop(logger)}
}

// Build constructs idx over records and reports how long it took.
func Build(idx core.Index, records []common.Record) (time.Duration, error) {
	start := time.Now()
	if err := idx.Build(records); err != nil {
		return 0, errors.Wrapf(err, "build %s", idx.Kind())
	}
	return time.Since(start), nil
}

// Run builds every requested kind over ds and measures it over the
// configured folds. It stops between folds once ctx is done.
func (r *Runner) Run(ctx context.Context, ds *datagen.Dataset, kinds []string) ([]common.Result, error) {
	if ds.Len() == 0 {
		return nil, errors.Errorf("bench: dataset %s is empty", ds.Name)
	}
	records := ds.Records()

	var results []common.Result
	for _, kind := range kinds {
		idx, err := core.New(kind, r.opts.Index)
		if err != nil {
			return results, err
		}

		trainTime, err := Build(idx, records)
		if err != nil {
			return results, err
		}
		r.metrics.ObserveBuild(ds.Name, kind, trainTime)
		r.logger.Info("index built",
			zap.String("dataset", ds.Name),
			zap.String("kind", kind),
			zap.Duration("train_time", trainTime),
			zap.Int("space_bytes", idx.SizeBytes()),
		)
		if r.opts.AfterBuild != nil {
			if err := r.opts.AfterBuild(ds, idx); err != nil {
				return results, errors.Wrapf(err, "after build %s", kind)
			}
		}

		for fold := 1; fold <= r.opts.Folds; fold++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			res := r.runFold(ds.Name, idx, records, fold)
			res.TrainTime = trainTime
			results = append(results, res)
			r.logger.Debug("benchmark fold done",
				zap.String("dataset", ds.Name),
				zap.String("kind", kind),
				zap.Int("fold", fold),
				zap.Float64("predict_ns", res.PredictTime),
				zap.Float64("mae", res.MAE),
			)
		}
	}
	return results, nil
}

func (r *Runner) runFold(dataset string, idx core.Index, records []common.Record, fold int) common.Result {
	rng := rand.New(rand.NewPCG(r.opts.Seed, uint64(fold)))
	observer := r.metrics.PredictObserver(dataset, idx.Kind())

	var total time.Duration
	var sqErr, absErr float64
	for q := 0; q < r.opts.Queries; q++ {
		rec := records[rng.IntN(len(records))]

		start := time.Now()
		loc, ok := idx.Predict(rec.Key)
		elapsed := time.Since(start)

		total += elapsed
		observer.Observe(elapsed.Seconds())

		if !ok {
			loc = 0
		}
		d := float64(rec.Location - loc)
		sqErr += d * d
		absErr += math.Abs(d)
	}

	n := float64(r.opts.Queries)
	return common.Result{
		Dataset:     dataset,
		Kind:        idx.Kind(),
		Fold:        fold,
		PredictTime: float64(total.Nanoseconds()) / n,
		MSE:         sqErr / n,
		MAE:         absErr / n,
		Space:       idx.SizeBytes(),
	}
}
