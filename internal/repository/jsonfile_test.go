package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

func sampleReports() []model.Report {
	return []model.Report{
		{
			ID:        1,
			User:      "user",
			Location:  model.Location{Latitude: 40.75, Longitude: -74.0},
			Type:      model.TypeOverflowingBin,
			Timestamp: "2024-05-01 10:00:00.000000",
			Status:    model.StatusPendingReview,
			ImagePath: "waste_report_images/user_1_bin.jpg",
		},
		{
			ID:        2,
			User:      "admin",
			Location:  model.Location{Latitude: -33.8568, Longitude: 151.2153},
			Type:      model.TypeIllegalDumping,
			Timestamp: "2024-05-01 11:00:00.000000",
			Status:    model.StatusPendingReview,
			ImagePath: "waste_report_images/admin_2_dump.png",
		},
	}
}

func TestJSONUserRepo_LoadMissing(t *testing.T) {
	repo := NewJSONUserRepo(filepath.Join(t.TempDir(), "users.json"))
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJSONUserRepo_SaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "users.json")
	repo := NewJSONUserRepo(path)

	in := map[string]model.User{
		"admin": {Username: "admin", PasswordDigest: "abc", Role: model.RoleAdmin, Points: 10},
		"user":  {Username: "user", PasswordDigest: "def", Role: model.RoleStandard},
	}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// keyed object; username lives in the key, not in the value
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, `"admin": {`)
	assert.Contains(t, s, `"password": "abc"`)
	assert.NotContains(t, s, `"username"`)
	assert.True(t, strings.Contains(s, "\n    \"admin\""), "expected 4-space indent")
}

func TestJSONUserRepo_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := NewJSONUserRepo(path).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestJSONReportRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewJSONReportRepo(filepath.Join(t.TempDir(), "waste_reports.json"))

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	in := sampleReports()
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJSONReportRepo_AppendCreatesFile(t *testing.T) {
	ctx := context.Background()
	repo := NewJSONReportRepo(filepath.Join(t.TempDir(), "waste_reports.json"))

	reps := sampleReports()
	require.NoError(t, repo.Append(ctx, reps[0]))
	require.NoError(t, repo.Append(ctx, reps[1]))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, reps, out)
}

func TestJSONReportRepo_FieldOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "waste_reports.json")
	require.NoError(t, NewJSONReportRepo(path).Save(ctx, sampleReports()[:1]))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(raw)
	order := []string{`"id"`, `"user"`, `"location"`, `"latitude"`, `"longitude"`, `"type"`, `"timestamp"`, `"status"`, `"image_path"`}
	last := -1
	for _, key := range order {
		i := strings.Index(s, key)
		require.GreaterOrEqual(t, i, 0, key)
		assert.Greater(t, i, last, "field %s out of order", key)
		last = i
	}
}

func TestJSONReportRepo_SaveEmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waste_reports.json")
	require.NoError(t, NewJSONReportRepo(path).Save(context.Background(), nil))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

func TestJSONUserRepo_LoadNullIsNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

	_, err := NewJSONUserRepo(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}
