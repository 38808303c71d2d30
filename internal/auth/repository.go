package auth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new practitioner into the database.
func (r *PostgresRepository) Create(ctx context.Context, p *Practitioner) error {
	p.ID = uuid.New().String()

	query := `
		INSERT INTO practitioners (id, email, name, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		p.ID,
		p.Email,
		p.Name,
		p.Role,
		p.PasswordHash,
		p.CreatedAt,
		p.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create practitioner: %w", err)
	}

	return nil
}

// GetByID retrieves a practitioner by ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Practitioner, error) {
	query := `
		SELECT id, email, name, role, password_hash, created_at, updated_at
		FROM practitioners
		WHERE id = $1
	`

	p := &Practitioner{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.Role,
		&p.PasswordHash,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPractitionerNotFound
		}
		return nil, fmt.Errorf("failed to get practitioner by ID: %w", err)
	}

	return p, nil
}

// GetByEmail retrieves a practitioner by email address.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Practitioner, error) {
	query := `
		SELECT id, email, name, role, password_hash, created_at, updated_at
		FROM practitioners
		WHERE email = $1
	`

	p := &Practitioner{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.Role,
		&p.PasswordHash,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPractitionerNotFound
		}
		return nil, fmt.Errorf("failed to get practitioner by email: %w", err)
	}

	return p, nil
}
