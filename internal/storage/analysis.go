package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Analysis is one persisted analysis run: the serialized report plus
// its headline verdict for listing without deserialization.
type Analysis struct {
	ID            uuid.UUID
	DocumentID    uuid.UUID
	Kind          string
	OverallStatus string
	Report        json.RawMessage
	CreatedAt     time.Time
}

// AnalysisRepository defines analysis persistence operations.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *Analysis) error
	GetAll(ctx context.Context) ([]*Analysis, error)
	GetByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*Analysis, error)
	ClearAll(ctx context.Context) error
}

// PostgresAnalysisRepository implements AnalysisRepository using
// PostgreSQL.
type PostgresAnalysisRepository struct {
	db *sql.DB
}

// NewPostgresAnalysisRepository creates a new PostgresAnalysisRepository.
func NewPostgresAnalysisRepository(db *sql.DB) *PostgresAnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

// Create inserts a new analysis run.
func (r *PostgresAnalysisRepository) Create(ctx context.Context, analysis *Analysis) error {
	if analysis.ID == uuid.Nil {
		analysis.ID = uuid.New()
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO analyses (id, document_id, kind, overall_status, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		analysis.ID,
		analysis.DocumentID,
		analysis.Kind,
		analysis.OverallStatus,
		analysis.Report,
		analysis.CreatedAt,
	)

	return err
}

// GetAll retrieves all analysis runs, most recent first.
func (r *PostgresAnalysisRepository) GetAll(ctx context.Context) ([]*Analysis, error) {
	query := `
		SELECT id, document_id, kind, overall_status, report, created_at
		FROM analyses
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

// GetByDocumentID retrieves all analysis runs for one document.
func (r *PostgresAnalysisRepository) GetByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*Analysis, error) {
	query := `
		SELECT id, document_id, kind, overall_status, report, created_at
		FROM analyses
		WHERE document_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

func scanAnalyses(rows *sql.Rows) ([]*Analysis, error) {
	var analyses []*Analysis
	for rows.Next() {
		analysis := &Analysis{}
		err := rows.Scan(
			&analysis.ID,
			&analysis.DocumentID,
			&analysis.Kind,
			&analysis.OverallStatus,
			&analysis.Report,
			&analysis.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return analyses, nil
}

// ClearAll removes every analysis run.
func (r *PostgresAnalysisRepository) ClearAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM analyses`)
	return err
}
