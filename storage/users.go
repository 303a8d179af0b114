package storage

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/utils"
)

// ErrUserNotFound covers both unknown accounts and bad passwords so the
// login response cannot be used to probe for valid user IDs.
var ErrUserNotFound = errors.New("user not found or wrong password")

// UserStore holds the fixed dashboard accounts. Passwords come from the
// environment at startup and are kept only as bcrypt hashes.
type UserStore struct {
	users map[string]models.User
}

// NewUserStore seeds the three dashboard accounts. Accounts whose password
// variable is unset are not created, except admin which falls back to the
// factory default so a fresh install is reachable.
func NewUserStore() *UserStore {
	s := &UserStore{users: make(map[string]models.User)}

	adminPw := os.Getenv("ADMIN_PASSWORD")
	if adminPw == "" {
		adminPw = "1234"
		log.Println("ADMIN_PASSWORD not set, using factory default")
	}
	s.seed("admin", "관리자", models.RoleAdmin, adminPw)
	if pw := os.Getenv("WORKER_PASSWORD"); pw != "" {
		s.seed("worker", "작업자", models.RoleWorker, pw)
	}
	if pw := os.Getenv("VIEWER_PASSWORD"); pw != "" {
		s.seed("viewer", "조회자", models.RoleViewer, pw)
	}
	return s
}

func (s *UserStore) seed(id, name, role, password string) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password for %s: %v", id, err)
	}
	s.users[id] = models.User{
		ID:        id,
		Name:      name,
		Password:  hash,
		Role:      role,
		CreatedAt: time.Now(),
	}
}

// GetUser returns the account for id.
func (s *UserStore) GetUser(id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

// Authenticate verifies id/password and returns the account on success.
func (s *UserStore) Authenticate(id, password string) (models.User, error) {
	user, ok := s.users[id]
	if !ok || !utils.ValidatePassword(user.Password, password) {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}
