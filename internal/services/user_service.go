package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/alunodb/roster-be/internal/models"
)

// UserServiceProvider defines the interface for user account services.
type UserServiceProvider interface {
	Authenticate(username, password string) (models.User, error)
	GetUserByID(id int64) (models.User, error)
	CreateAccount(username, password string, isAdmin bool) (models.User, error)
}

// UserService provides credential checks and account creation over the
// usuarios table.
type UserService struct {
	db *sqlx.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sqlx.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by primary key. A NotFound result
// against a live session means the session is stale, not that the request
// failed.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	err := s.db.Get(&user, "SELECT id, username, password_hash, is_admin FROM usuarios WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// Authenticate verifies a username/password pair against the stored bcrypt
// hash. Unknown usernames and wrong passwords fail identically.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	var user models.User
	err := s.db.Get(&user, "SELECT id, username, password_hash, is_admin FROM usuarios WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to look up user %q: %w", username, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

// CreateAccount hashes the password and inserts a new user. A username
// uniqueness conflict surfaces as ErrUsernameTaken.
func (s *UserService) CreateAccount(username, password string, isAdmin bool) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: username e senha são obrigatórios", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec(
		"INSERT INTO usuarios (username, password_hash, is_admin) VALUES (?, ?, ?)",
		username, string(hashed), isAdmin,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return models.User{}, fmt.Errorf("user %q: %w", username, ErrUsernameTaken)
		}
		return models.User{}, fmt.Errorf("failed to create user %q: %w", username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to read new user id: %w", err)
	}

	return models.User{ID: id, Username: username, IsAdmin: isAdmin}, nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist.
// Idempotent across restarts.
func (s *UserService) EnsureAdmin(username, password string) error {
	_, err := s.CreateAccount(username, password, true)
	if errors.Is(err, ErrUsernameTaken) {
		log.Debug().Str("username", username).Msg("admin account already exists")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("created bootstrap admin account")
	return nil
}
