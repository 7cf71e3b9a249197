package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRunNotFound is returned by Get when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 50

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded simulation. Config and Result hold the JSON documents
// exactly as they were saved.
type Run struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Source    string          `json:"source"`
	Config    json.RawMessage `json:"config,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// RunStore reads and writes the runs table.
type RunStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewRunStore wraps an opened and migrated database.
func NewRunStore(db *sql.DB, logger *zap.Logger) *RunStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunStore{db: db, logger: logger, now: time.Now}
}

// Save records a configuration and its result under a new ID. source names
// the caller, e.g. "cli" or "api".
func (s *RunStore) Save(ctx context.Context, source string, config, result any) (Run, error) {
	configJSON, err := json.Marshal(config)
	if err != nil {
		return Run{}, fmt.Errorf("encode run configuration: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return Run{}, fmt.Errorf("encode run result: %w", err)
	}

	run := Run{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Source:    source,
		Config:    configJSON,
		Result:    resultJSON,
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source, config_json, result_json) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(timeLayout), run.Source, string(configJSON), string(resultJSON),
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	s.logger.Debug("recorded run",
		zap.String("op", "store.Save"),
		zap.String("id", run.ID),
		zap.String("source", source),
	)
	return run, nil
}

// List returns the most recent runs first, without their documents.
func (s *RunStore) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			run       Run
			createdAt string
		)
		if err := rows.Scan(&run.ID, &createdAt, &run.Source); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", createdAt, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its configuration and result documents.
func (s *RunStore) Get(ctx context.Context, id string) (Run, error) {
	var run Run
	var createdAt, configJSON, resultJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, source, config_json, result_json FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &createdAt, &run.Source, &configJSON, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("query run: %w", err)
	}

	if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Run{}, fmt.Errorf("parse run timestamp %q: %w", createdAt, err)
	}
	run.Config = json.RawMessage(configJSON)
	run.Result = json.RawMessage(resultJSON)
	return run, nil
}
