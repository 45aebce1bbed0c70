// Package store holds the two record stores of the service: the credential
// store (users, passwords, point balances) and the report store (waste
// reports and their images).  Both keep their records in memory and write
// them through a repository after every mutation.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/MollahHamza/TRASHCANPRO/internal/logger"
	"github.com/MollahHamza/TRASHCANPRO/internal/model"
	"github.com/MollahHamza/TRASHCANPRO/internal/repository"
	"github.com/MollahHamza/TRASHCANPRO/internal/utils"
)

var (
	// ErrUserExists indicates a user with that username already exists.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidUsername indicates the username is empty or malformed.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrInvalidRole indicates a role outside admin/standard.
	ErrInvalidRole = errors.New("invalid role")
)

// Seed accounts written on first start.
var seedAccounts = []struct {
	username, password, role string
}{
	{"admin", "1234", model.RoleAdmin},
	{"user", "user", model.RoleStandard},
}

// CredentialStore owns the username → user mapping.
type CredentialStore struct {
	mu    sync.Mutex
	repo  repository.UserRepository
	users map[string]model.User

	// BcryptCost selects the hash used by Provision; 0 keeps the SHA-256
	// hex digest of the users file format.
	BcryptCost int
}

// NewCredentialStore loads the users from repo.  When repo has never been
// written, the two seed accounts are created and persisted.
func NewCredentialStore(ctx context.Context, repo repository.UserRepository) (*CredentialStore, error) {
	users, err := repo.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		users = make(map[string]model.User, len(seedAccounts))
		for _, s := range seedAccounts {
			users[s.username] = model.User{
				Username:       s.username,
				PasswordDigest: utils.Digest(s.password),
				Role:           s.role,
			}
		}
		if err := repo.Save(ctx, users); err != nil {
			return nil, fmt.Errorf("seeding users: %w", err)
		}
		logger.Infof("credentials: seeded %d default accounts", len(users))
	default:
		return nil, fmt.Errorf("loading users: %w", err)
	}
	if users == nil {
		users = make(map[string]model.User)
	}
	return &CredentialStore{repo: repo, users: users}, nil
}

// Verify checks password against the stored digest of username.  On
// success it returns the session context for the caller.
func (s *CredentialStore) Verify(username, password string) (model.Session, bool) {
	s.mu.Lock()
	u, ok := s.users[username]
	s.mu.Unlock()

	if !ok || !utils.VerifyPassword(u.PasswordDigest, password) {
		return model.Session{}, false
	}
	role := u.Role
	if role == "" {
		role = model.RoleStandard
	}
	return model.Session{Username: username, Role: role}, true
}

// Exists reports whether username has an account.
func (s *CredentialStore) Exists(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[username]
	return ok
}

// PointsOf returns the balance of username, 0 for unknown users.
func (s *CredentialStore) PointsOf(username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[username].Points
}

// AwardPoints adds amount to the balance of username and persists the
// store.  Unknown users are ignored.
func (s *CredentialStore) AwardPoints(ctx context.Context, username string, amount int) error {
	return s.update(ctx, username, func(u *model.User) {
		u.Points += amount
	})
}

// DeductPoints subtracts amount from the balance of username, never going
// below zero, and persists the store.  Unknown users are ignored.
func (s *CredentialStore) DeductPoints(ctx context.Context, username string, amount int) error {
	return s.update(ctx, username, func(u *model.User) {
		u.Points = max(0, u.Points-amount)
	})
}

func (s *CredentialStore) update(ctx context.Context, username string, fn func(*model.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil
	}
	fn(&u)
	s.users[username] = u
	if err := s.repo.Save(ctx, s.users); err != nil {
		return fmt.Errorf("saving users: %w", err)
	}
	return nil
}

// Provision adds a new account with zero points.
func (s *CredentialStore) Provision(ctx context.Context, username, password, role string) error {
	username = strings.TrimSpace(username)
	if username == "" || strings.ContainsAny(username, " \t\n/\\") {
		return ErrInvalidUsername
	}
	if !model.ValidRole(role) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	digest, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return fmt.Errorf("%w: %s", ErrUserExists, username)
	}
	s.users[username] = model.User{Username: username, PasswordDigest: digest, Role: role}
	if err := s.repo.Save(ctx, s.users); err != nil {
		delete(s.users, username)
		return fmt.Errorf("saving users: %w", err)
	}
	return nil
}

// Users returns every account sorted by username.
func (s *CredentialStore) Users() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// TotalPoints sums the balances of all users.
func (s *CredentialStore) TotalPoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, u := range s.users {
		total += u.Points
	}
	return total
}
