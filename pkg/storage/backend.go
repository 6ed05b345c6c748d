package storage

import (
	"database/sql"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"indexbench/pkg/common"
	"indexbench/pkg/logging"
)

// ResultStore persists benchmark results in a SQLite database.
type ResultStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

func OpenResultStore(path string, logger *zap.Logger) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", path)
	}

	query := `
	CREATE TABLE IF NOT EXISTS results (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		dataset      TEXT    NOT NULL,
		kind         TEXT    NOT NULL,
		fold         INTEGER NOT NULL,
		train_ns     INTEGER NOT NULL,
		predict_ns   REAL    NOT NULL,
		mse          REAL    NOT NULL,
		mae          REAL    NOT NULL,
		space_bytes  INTEGER NOT NULL,
		recorded_at  INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS results_dataset ON results (dataset, kind, fold);`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init results table")
	}

	logger = logging.OrNop(logger)
	_, err = db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
	`)
	if err != nil {
		logger.Warn("failed to set sqlite pragmas", zap.Error(err))
	}

	return &ResultStore{db: db, logger: logger}, nil
}

// SaveResults writes all results in one transaction.
func (s *ResultStore) SaveResults(results []common.Result) error {
	if len(results) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}

	stmt, err := tx.Prepare(`INSERT INTO results
		(dataset, kind, fold, train_ns, predict_ns, mse, mae, space_bytes, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	now := time.Now().UnixNano()
	for _, r := range results {
		_, err := stmt.Exec(r.Dataset, r.Kind, r.Fold, int64(r.TrainTime), r.PredictTime, r.MSE, r.MAE, r.Space, now)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert %s/%s fold %d", r.Dataset, r.Kind, r.Fold)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	s.logger.Debug("results saved", zap.Int("count", len(results)))
	return nil
}

// LoadResults returns the stored results for dataset, or every result when
// dataset is empty, ordered by dataset, kind and fold.
func (s *ResultStore) LoadResults(dataset string) ([]common.Result, error) {
	query := `SELECT dataset, kind, fold, train_ns, predict_ns, mse, mae, space_bytes
		FROM results WHERE (? = '' OR dataset = ?) ORDER BY dataset, kind, fold, id`
	rows, err := s.db.Query(query, dataset, dataset)
	if err != nil {
		return nil, errors.Wrap(err, "query results")
	}
	defer rows.Close()

	var results []common.Result
	for rows.Next() {
		var r common.Result
		var trainNS int64
		if err := rows.Scan(&r.Dataset, &r.Kind, &r.Fold, &trainNS, &r.PredictTime, &r.MSE, &r.MAE, &r.Space); err != nil {
			return nil, errors.Wrap(err, "scan result")
		}
		r.TrainTime = time.Duration(trainNS)
		results = append(results, r)
	}
	return results, errors.Wrap(rows.Err(), "iterate results")
}

func (s *ResultStore) Truncate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM results")
	return errors.Wrap(err, "truncate results")
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}
