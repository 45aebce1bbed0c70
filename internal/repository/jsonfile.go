package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

// indent matches the layout of the files written by earlier versions of
// the application, so existing data stays diff-friendly.
const indent = "    "

// readJSON decodes path into v.  A missing file yields ErrNotFound.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from config
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// writeJSON rewrites path with the indented encoding of v.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: store is not secret
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// JSONUserRepo stores users as a JSON object keyed by username.
type JSONUserRepo struct {
	mu   sync.Mutex
	path string
}

func NewJSONUserRepo(path string) *JSONUserRepo { return &JSONUserRepo{path: path} }

// Path returns the file backing the repository.
func (r *JSONUserRepo) Path() string { return r.path }

func (r *JSONUserRepo) Load(_ context.Context) (map[string]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users map[string]model.User
	if err := readJSON(r.path, &users); err != nil {
		return nil, err
	}
	// A file holding `null` has no accounts to keep; seed like a new store.
	if users == nil {
		return nil, fmt.Errorf("%w: %s holds no user object", ErrNotFound, r.path)
	}
	for name, u := range users {
		u.Username = name
		users[name] = u
	}
	return users, nil
}

func (r *JSONUserRepo) Save(_ context.Context, users map[string]model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeJSON(r.path, users)
}

// JSONReportRepo stores reports as a JSON array.
type JSONReportRepo struct {
	mu   sync.Mutex
	path string
}

func NewJSONReportRepo(path string) *JSONReportRepo { return &JSONReportRepo{path: path} }

// Path returns the file backing the repository.
func (r *JSONReportRepo) Path() string { return r.path }

func (r *JSONReportRepo) Load(_ context.Context) ([]model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

func (r *JSONReportRepo) loadLocked() ([]model.Report, error) {
	var reports []model.Report
	if err := readJSON(r.path, &reports); err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []model.Report{}
	}
	return reports, nil
}

func (r *JSONReportRepo) Save(_ context.Context, reports []model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(reports)
}

func (r *JSONReportRepo) saveLocked(reports []model.Report) error {
	if reports == nil {
		reports = []model.Report{}
	}
	return writeJSON(r.path, reports)
}

// Append re-reads the file, adds rep and rewrites the whole array.
func (r *JSONReportRepo) Append(_ context.Context, rep model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports, err := r.loadLocked()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return r.saveLocked(append(reports, rep))
}
