// Package storage is the persistence collaborator: PostgreSQL record
// stores for uploaded documents and finished analysis runs. The core
// treats these as plain record stores; no transactional guarantees are
// assumed.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Document is a persisted uploaded document.
type Document struct {
	ID          uuid.UUID
	Filename    string
	Content     string
	ContentHash string
	ArenaIndex  int
	CreatedAt   time.Time
}

// DocumentRepository defines document persistence operations.
type DocumentRepository interface {
	Create(ctx context.Context, document *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	GetAll(ctx context.Context) ([]*Document, error)
	ClearAll(ctx context.Context) error
}

// PostgresDocumentRepository implements DocumentRepository using
// PostgreSQL.
type PostgresDocumentRepository struct {
	db *sql.DB
}

// NewPostgresDocumentRepository creates a new PostgresDocumentRepository.
func NewPostgresDocumentRepository(db *sql.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

// Create inserts a new document into the database.
func (r *PostgresDocumentRepository) Create(ctx context.Context, document *Document) error {
	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}
	if document.CreatedAt.IsZero() {
		document.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO documents (id, filename, content, content_hash, arena_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		document.ID,
		document.Filename,
		document.Content,
		document.ContentHash,
		document.ArenaIndex,
		document.CreatedAt,
	)

	return err
}

// GetByID retrieves a document by its ID. Returns nil when no row
// matches.
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	query := `
		SELECT id, filename, content, content_hash, arena_index, created_at
		FROM documents
		WHERE id = $1
	`

	document := &Document{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&document.ID,
		&document.Filename,
		&document.Content,
		&document.ContentHash,
		&document.ArenaIndex,
		&document.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return document, nil
}

// GetAll retrieves all documents in upload order.
func (r *PostgresDocumentRepository) GetAll(ctx context.Context) ([]*Document, error) {
	query := `
		SELECT id, filename, content, content_hash, arena_index, created_at
		FROM documents
		ORDER BY arena_index ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*Document
	for rows.Next() {
		document := &Document{}
		err := rows.Scan(
			&document.ID,
			&document.Filename,
			&document.Content,
			&document.ContentHash,
			&document.ArenaIndex,
			&document.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return documents, nil
}

// ClearAll removes every document. Part of the explicit data-wipe
// path.
func (r *PostgresDocumentRepository) ClearAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents`)
	return err
}
