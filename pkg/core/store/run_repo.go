package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"neobio_balance/pkg/core/balance"
	"neobio_balance/pkg/core/defaults"
)

// ErrRunNotFound is returned when no run matches the requested id.
var ErrRunNotFound = errors.New("run not found")

// Run is one saved evaluation: the inputs, where their defaults came from, and the result.
type Run struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Source    defaults.Source `json:"source"`
	Warning   string          `json:"warning,omitempty"`
	Inputs    balance.Inputs  `json:"inputs"`
	Result    balance.Result  `json:"result"`
}

// NewRun stamps a computed result with a fresh id and timestamp.
func NewRun(in balance.Inputs, res balance.Result, source defaults.Source, warning error) *Run {
	run := &Run{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Inputs:    in,
		Result:    res,
	}
	if warning != nil {
		run.Warning = warning.Error()
	}
	return run
}

// RunRepo stores run history.
// Supports DB (Primary) + File System (Fallback/Local).
type RunRepo struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewRunRepo creates a run repository.
// If pool is nil, it falls back to a file-based store in dir
// (defaults to .cache/balance/runs when dir is empty).
func NewRunRepo(pool *pgxpool.Pool, dir string) *RunRepo {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "balance", "runs")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check RunRepo dir: %v\n", err)
		}
	}
	return &RunRepo{pool: pool, fileDir: dir}
}

// Schema:
// CREATE TABLE IF NOT EXISTS balance_runs (
//   id UUID PRIMARY KEY,
//   created_at TIMESTAMPTZ NOT NULL,
//   source TEXT NOT NULL,
//   run_json JSONB NOT NULL
// );
const createRunsTable = `
	CREATE TABLE IF NOT EXISTS balance_runs (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		source TEXT NOT NULL,
		run_json JSONB NOT NULL
	)
`

// EnsureSchema creates the runs table when a database is configured.
func (r *RunRepo) EnsureSchema(ctx context.Context) error {
	if r.pool == nil {
		return nil
	}
	if _, err := r.pool.Exec(ctx, createRunsTable); err != nil {
		return fmt.Errorf("failed to create balance_runs: %w", err)
	}
	return nil
}

// Save persists a run.
func (r *RunRepo) Save(ctx context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run has no id")
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	// 1. Save to DB
	if r.pool != nil {
		query := `
			INSERT INTO balance_runs (id, created_at, source, run_json)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id)
			DO UPDATE SET
				source = EXCLUDED.source,
				run_json = EXCLUDED.run_json
		`
		if _, err := r.pool.Exec(ctx, query, run.ID, run.CreatedAt, string(run.Source), data); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		return nil
	}

	// 2. Save to File
	if err := os.WriteFile(r.runPath(run.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to save run file: %w", err)
	}
	return nil
}

// Get loads a run by id.
func (r *RunRepo) Get(ctx context.Context, id string) (*Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrRunNotFound
	}

	if r.pool != nil {
		var data []byte
		err := r.pool.QueryRow(ctx, `SELECT run_json FROM balance_runs WHERE id = $1`, id).Scan(&data)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrRunNotFound
			}
			return nil, fmt.Errorf("failed to load run: %w", err)
		}
		return decodeRun(data)
	}

	data, err := os.ReadFile(r.runPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}
	return decodeRun(data)
}

// List returns up to limit runs, newest first. A non-positive limit means no limit.
func (r *RunRepo) List(ctx context.Context, limit int) ([]*Run, error) {
	if r.pool != nil {
		query := `SELECT run_json FROM balance_runs ORDER BY created_at DESC`
		args := []interface{}{}
		if limit > 0 {
			query += ` LIMIT $1`
			args = append(args, limit)
		}
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to list runs: %w", err)
		}
		defer rows.Close()

		var runs []*Run
		for rows.Next() {
			var data []byte
			if err := rows.Scan(&data); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			run, err := decodeRun(data)
			if err != nil {
				return nil, err
			}
			runs = append(runs, run)
		}
		return runs, rows.Err()
	}

	entries, err := os.ReadDir(r.fileDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read run dir: %w", err)
	}
	var runs []*Run
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.fileDir, e.Name()))
		if err != nil {
			continue
		}
		run, err := decodeRun(data)
		if err != nil {
			fmt.Printf("[STORE] Skipping unreadable run %s: %v\n", e.Name(), err)
			continue
		}
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (r *RunRepo) runPath(id string) string {
	return filepath.Join(r.fileDir, id+".json")
}

func decodeRun(data []byte) (*Run, error) {
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}
