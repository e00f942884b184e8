// ABOUTME: SQLite-backed user store for the stub API server
// ABOUTME: Hashes passwords with bcrypt and assigns uuid user IDs

package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PasswordHashCost is the bcrypt cost for new users; tests lower it
var PasswordHashCost = bcrypt.DefaultCost

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	phone_number  TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS uploads (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	field      TEXT NOT NULL,
	filename   TEXT NOT NULL,
	size       INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
`

// Store persists users and upload records
type Store struct {
	db *sql.DB
}

// OpenStore opens the sqlite database at dsn and creates the schema
func OpenStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// In-memory databases live only as long as their connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser stores a new user with a hashed password
func (s *Store) CreateUser(ctx context.Context, p models.SignupProfile) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), PasswordHashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(p.Name),
		Email:       strings.ToLower(strings.TrimSpace(p.Email)),
		PhoneNumber: p.PhoneNumber,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, phone_number, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PhoneNumber, string(hash), user.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}
	return user, nil
}

// Authenticate finds the user by email or phone and checks the password.
// Unknown users and wrong passwords both return ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, id models.Identifier, password string) (models.User, error) {
	var column string
	value := strings.TrimSpace(id.Value)
	switch id.Kind {
	case models.LoginEmail:
		column = "email"
		value = strings.ToLower(value)
	case models.LoginPhone:
		column = "phone_number"
	default:
		return models.User{}, ErrInvalidCredentials
	}

	user, hash, err := s.findBy(ctx, column, value)
	if errors.Is(err, ErrUserNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UserByID retrieves a user by ID
func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	user, _, err := s.findBy(ctx, "id", id)
	return user, err
}

// RecordUpload stores metadata for one received file
func (s *Store) RecordUpload(ctx context.Context, userID, field, filename string, size int64) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (id, user_id, field, filename, size, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, field, filename, size, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// CountUploads returns how many files a user has uploaded
func (s *Store) CountUploads(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM uploads WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// findBy is only called with fixed column names
func (s *Store) findBy(ctx context.Context, column, value string) (models.User, string, error) {
	query := `SELECT id, name, email, phone_number, password_hash, created_at FROM users WHERE ` + column + ` = ?`

	var (
		user    models.User
		hash    string
		created string
	)
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID, &user.Name, &user.Email, &user.PhoneNumber, &hash, &created,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, "", ErrUserNotFound
		}
		return models.User{}, "", err
	}

	if user.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return models.User{}, "", fmt.Errorf("corrupt created_at for user %s: %w", user.ID, err)
	}
	return user, hash, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
