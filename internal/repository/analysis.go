package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
)

// Analysis is one persisted extraction outcome. Valuations and Q&A are never stored.
type Analysis struct {
	ID          uuid.UUID
	Filename    string
	ContentHash string
	Status      string
	RecordJSON  []byte
	RawResponse string
	Model       string
	ElapsedMS   int64
	CreatedAt   time.Time
}

type AnalysisRepository interface {
	Create(ctx context.Context, a Analysis) (*Analysis, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error)
	ListRecent(ctx context.Context, limit int) ([]*Analysis, error)
	FindByContentHash(ctx context.Context, hash string) (*Analysis, error)
}

type analysisRepo struct {
	db  *DB
	log *slog.Logger
}

func NewAnalysisRepository(db *DB, log *slog.Logger) AnalysisRepository {
	if log == nil {
		log = slog.Default()
	}
	return &analysisRepo{db: db, log: log}
}

const analysisColumns = `id, filename, content_hash, status, record_json, raw_response, model, elapsed_ms, created_at`

func (r *analysisRepo) Create(ctx context.Context, a Analysis) (*Analysis, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if len(a.RecordJSON) == 0 {
		a.RecordJSON = []byte("{}")
	}

	q := r.db.rebind(`INSERT INTO analyses (` + analysisColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.SQL.ExecContext(ctx, q,
		a.ID.String(), a.Filename, a.ContentHash, a.Status, string(a.RecordJSON),
		a.RawResponse, a.Model, a.ElapsedMS, a.CreatedAt,
	)
	if err != nil {
		r.log.Error("analysis create failed", "file", a.Filename, "err", err)
		return nil, fmt.Errorf("%w: create analysis: %v", common.ErrDatabase, err)
	}
	r.log.Info("analysis created", "analysis_id", a.ID, "file", a.Filename, "status", a.Status)
	return &a, nil
}

func (r *analysisRepo) GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	q := r.db.rebind(`SELECT ` + analysisColumns + ` FROM analyses WHERE id = ?`)
	a, err := scanAnalysis(r.db.SQL.QueryRowContext(ctx, q, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: analysis %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get analysis: %v", common.ErrDatabase, err)
	}
	return a, nil
}

func (r *analysisRepo) FindByContentHash(ctx context.Context, hash string) (*Analysis, error) {
	q := r.db.rebind(`SELECT ` + analysisColumns + ` FROM analyses WHERE content_hash = ? ORDER BY created_at DESC LIMIT 1`)
	a, err := scanAnalysis(r.db.SQL.QueryRowContext(ctx, q, hash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: analysis with hash %s", common.ErrNotFound, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find analysis: %v", common.ErrDatabase, err)
	}
	return a, nil
}

// ListRecent returns the newest analyses first. limit <= 0 means 20.
func (r *analysisRepo) ListRecent(ctx context.Context, limit int) ([]*Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	q := r.db.rebind(`SELECT ` + analysisColumns + ` FROM analyses ORDER BY created_at DESC LIMIT ?`)
	rows, err := r.db.SQL.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list analyses: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan analysis: %v", common.ErrDatabase, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list analyses: %v", common.ErrDatabase, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s rowScanner) (*Analysis, error) {
	var (
		a      Analysis
		id     string
		record string
	)
	if err := s.Scan(&id, &a.Filename, &a.ContentHash, &a.Status, &record, &a.RawResponse, &a.Model, &a.ElapsedMS, &a.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}
	a.ID = parsed
	a.RecordJSON = []byte(record)
	return &a, nil
}
