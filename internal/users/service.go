package users

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	InsertUser(ctx context.Context, user User) error
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// Service handles account management.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create registers an account. The plaintext password is hashed with
// bcrypt and discarded.
func (s *Service) Create(ctx context.Context, user User, password string) (User, error) {
	taken, err := s.repo.UsernameExists(ctx, user.Username)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, ErrDuplicateUsername
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	user.ID = uuid.NewString()
	user.PasswordHash = string(hash)
	if user.Role == "" {
		user.Role = "Store User"
	}
	user.IsActive = true
	user.CreatedAt = time.Now().UTC()
	if err := s.repo.InsertUser(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// Authenticate checks a username and password pair.
func (s *Service) Authenticate(ctx context.Context, user User, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return fmt.Errorf("users: invalid credentials: %w", err)
	}
	return nil
}
