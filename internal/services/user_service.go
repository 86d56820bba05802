package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/eventhub-be/internal/auth"
	"github.com/isdelr/eventhub-be/internal/database"
	"github.com/isdelr/eventhub-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(name, email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUsers() ([]models.User, error)
	GetUserByID(id int64) (models.User, error)
	UpdateUser(id int64, upd UserUpdate) (models.User, error)
	DeleteUser(id int64) error
}

// UserUpdate carries the optional fields of a partial user update. A nil
// pointer leaves the stored value untouched.
type UserUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// CreateUser registers a new user, hashing their password before storage.
// The returned record never carries the hash. The email pre-check is a fast
// path only; the UNIQUE constraint on users.email is the real guarantee.
func (s *UserService) CreateUser(name, email, password string) (models.User, error) {
	if name == "" || email == "" || password == "" {
		return models.User{}, NewValidationError("all fields are required: name, email and password")
	}

	var existing int64
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ?", email).Scan(&existing)
	if err == nil {
		return models.User{}, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec("INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)", name, email, hash)
	if err != nil {
		if errors.Is(database.MapError(err), database.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

// Authenticate verifies a user's credentials and returns the account with
// the password hash stripped.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUsers returns all users, unfiltered.
func (s *UserService) GetUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, name, email, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// GetUserByID retrieves a single user by their ID. Returns
// database.ErrNotFound when no record matches.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		return models.User{}, database.MapError(err)
	}
	return user, nil
}

// UpdateUser applies a partial update. An email change is re-checked for
// uniqueness against every other user.
func (s *UserService) UpdateUser(id int64, upd UserUpdate) (models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		var otherID int64
		err := s.db.QueryRow("SELECT id FROM users WHERE email = ? AND id != ?", *upd.Email, id).Scan(&otherID)
		if err == nil {
			return models.User{}, ErrEmailTaken
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return models.User{}, err
		}
		user.Email = *upd.Email
	}

	_, err = s.db.Exec("UPDATE users SET name = ?, email = ? WHERE id = ?", user.Name, user.Email, id)
	if err != nil {
		if errors.Is(database.MapError(err), database.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes a user. The schema cascades deletion to every event the
// user owns.
func (s *UserService) DeleteUser(id int64) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user with ID %d not found", id)
	}
	return nil
}
