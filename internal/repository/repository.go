package repository

import (
	"context"
	"time"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

// UserRepository persists the whole user mapping.  The credential store
// keeps the mapping in memory and saves it after every mutation.
type UserRepository interface {
	// Load returns every user keyed by username, or ErrNotFound when the
	// store has never been written.
	Load(ctx context.Context) (map[string]model.User, error)
	// Save replaces the stored mapping with users.
	Save(ctx context.Context, users map[string]model.User) error
}

// ReportRepository persists the ordered report sequence.
type ReportRepository interface {
	// Load returns the reports in insertion order, or ErrNotFound when the
	// store has never been written.
	Load(ctx context.Context) ([]model.Report, error)
	// Save replaces the stored sequence with reports.
	Save(ctx context.Context, reports []model.Report) error
	// Append adds r after the last stored report.
	Append(ctx context.Context, r model.Report) error
}

// SessionRepository stores hashed refresh tokens together with the session
// they were issued for.
type SessionRepository interface {
	StoreRefresh(ctx context.Context, tokenHash string, s model.Session, exp time.Time) error
	// ValidateRefresh returns the session of a live token or ErrInvalidRefresh.
	ValidateRefresh(ctx context.Context, tokenHash string) (model.Session, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	// RevokeAllForUser ends every session of username.
	RevokeAllForUser(ctx context.Context, username string) error
}
