package repository

import (
	"context"
	"sync"
	"time"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

type refreshEntry struct {
	session model.Session
	exp     time.Time
	revoked bool
}

// MemorySessionRepo keeps refresh tokens in process memory.  Sessions do
// not survive a restart.
type MemorySessionRepo struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
	now    func() time.Time
}

func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{tokens: map[string]refreshEntry{}, now: time.Now}
}

func (r *MemorySessionRepo) StoreRefresh(_ context.Context, tokenHash string, s model.Session, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[tokenHash] = refreshEntry{session: s, exp: exp}
	return nil
}

func (r *MemorySessionRepo) ValidateRefresh(_ context.Context, tokenHash string) (model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.tokens[tokenHash]
	if !ok || e.revoked {
		return model.Session{}, ErrInvalidRefresh
	}
	if r.now().UTC().After(e.exp) {
		delete(r.tokens, tokenHash)
		return model.Session{}, ErrInvalidRefresh
	}
	return e.session, nil
}

func (r *MemorySessionRepo) RevokeByHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.tokens[tokenHash]; ok {
		e.revoked = true
		r.tokens[tokenHash] = e
	}
	return nil
}

func (r *MemorySessionRepo) RevokeAllForUser(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, e := range r.tokens {
		if e.session.Username == username {
			e.revoked = true
			r.tokens[h] = e
		}
	}
	return nil
}
