package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	p := &Practitioner{
		Email:        "counsel@example.com",
		Name:         "A. Counsel",
		Role:         "practitioner",
		PasswordHash: "hashed_password",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	mock.ExpectExec("INSERT INTO practitioners").
		WithArgs(sqlmock.AnyArg(), p.Email, p.Name, p.Role, p.PasswordHash, p.CreatedAt, p.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), p)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if p.ID == "" {
		t.Error("expected practitioner ID to be generated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	id := "123e4567-e89b-12d3-a456-426614174000"
	email := "counsel@example.com"

	rows := sqlmock.NewRows([]string{"id", "email", "name", "role", "password_hash", "created_at", "updated_at"}).
		AddRow(id, email, "A. Counsel", "practitioner", "hashed_password", time.Now(), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM practitioners WHERE email").
		WithArgs(email).
		WillReturnRows(rows)

	p, err := repo.GetByEmail(context.Background(), email)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if p == nil {
		t.Fatal("expected practitioner to be returned")
	}
	if p.ID != id {
		t.Errorf("expected ID %s, got %s", id, p.ID)
	}
	if p.Role != "practitioner" {
		t.Errorf("expected role practitioner, got %s", p.Role)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	email := "nonexistent@example.com"

	mock.ExpectQuery("SELECT (.+) FROM practitioners WHERE email").
		WithArgs(email).
		WillReturnError(sql.ErrNoRows)

	p, err := repo.GetByEmail(context.Background(), email)
	if err != ErrPractitionerNotFound {
		t.Errorf("expected ErrPractitionerNotFound, got %v", err)
	}

	if p != nil {
		t.Error("expected nil practitioner")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM practitioners WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	p, err := repo.GetByID(context.Background(), "missing")
	if err != ErrPractitionerNotFound {
		t.Errorf("expected ErrPractitionerNotFound, got %v", err)
	}
	if p != nil {
		t.Error("expected nil practitioner")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
