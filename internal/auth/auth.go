// Package auth implements practitioner accounts for the analyzer:
// bcrypt-hashed credentials, JWT session tokens, and the middleware
// guarding the analysis API.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPractitionerExists   = errors.New("practitioner already exists")
	ErrInvalidToken         = errors.New("invalid token")
	ErrPractitionerNotFound = errors.New("practitioner not found")
)

// Practitioner represents an account holder.
type Practitioner struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims represents the JWT claims
type Claims struct {
	PractitionerID string `json:"practitioner_id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

// Repository defines the interface for practitioner persistence
type Repository interface {
	Create(ctx context.Context, p *Practitioner) error
	GetByID(ctx context.Context, id string) (*Practitioner, error)
	GetByEmail(ctx context.Context, email string) (*Practitioner, error)
}

// Service defines the authentication service interface
type Service interface {
	Register(ctx context.Context, email, name, password string) (*Practitioner, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Config holds authentication configuration
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		SecretKey:     "change-me-in-production",
		TokenDuration: 24 * time.Hour,
	}
}

// JWTService implements the Service interface
type JWTService struct {
	config Config
	repo   Repository
}

// NewJWTService creates a new JWT-based authentication service
func NewJWTService(config Config, repo Repository) *JWTService {
	return &JWTService{
		config: config,
		repo:   repo,
	}
}

// Register creates a new practitioner with a hashed password. New
// accounts default to the "practitioner" role.
func (s *JWTService) Register(ctx context.Context, email, name, password string) (*Practitioner, error) {
	existing, _ := s.repo.GetByEmail(ctx, email)
	if existing != nil {
		return nil, ErrPractitionerExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Practitioner{
		Email:        email,
		Name:         name,
		Role:         "practitioner",
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Login authenticates a practitioner and returns a JWT token
func (s *JWTService) Login(ctx context.Context, email, password string) (string, error) {
	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.generateToken(p)
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.SecretKey), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *JWTService) generateToken(p *Practitioner) (string, error) {
	claims := &Claims{
		PractitionerID: p.ID,
		Email:          p.Email,
		Role:           p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}
