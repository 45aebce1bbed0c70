package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MollahHamza/TRASHCANPRO/internal/geotag"
	"github.com/MollahHamza/TRASHCANPRO/internal/model"
	"github.com/MollahHamza/TRASHCANPRO/internal/repository"
)

var noGPS = geotag.ExtractorFunc(func(string) (geotag.Coordinates, bool) {
	return geotag.Coordinates{}, false
})

func fixedGPS(lat, lon float64) geotag.Extractor {
	return geotag.ExtractorFunc(func(string) (geotag.Coordinates, bool) {
		return geotag.Coordinates{Latitude: lat, Longitude: lon}, true
	})
}

type fixture struct {
	dir     string
	creds   *CredentialStore
	repo    *repository.JSONReportRepo
	reports *ReportStore
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	creds, err := NewCredentialStore(ctx, repository.NewJSONUserRepo(filepath.Join(dir, "users.json")))
	require.NoError(t, err)

	repo := repository.NewJSONReportRepo(filepath.Join(dir, "waste_reports.json"))
	reports, err := NewReportStore(ctx, repo, creds, filepath.Join(dir, "images"), opts...)
	require.NoError(t, err)
	return &fixture{dir: dir, creds: creds, repo: repo, reports: reports}
}

func TestReportStore_StartsEmpty(t *testing.T) {
	f := newFixture(t)
	assert.Empty(t, f.reports.ListAll())
	assert.Equal(t, 0, f.reports.Count())
	assert.DirExists(t, f.reports.ImageDir())
}

func TestReportStore_SequentialIDs(t *testing.T) {
	f := newFixture(t, WithExtractor(noGPS))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		rep, err := f.reports.Submit(ctx, "user", model.TypeIllegalDumping, []byte("img"), "photo.jpg")
		require.NoError(t, err)
		assert.Equal(t, i, rep.ID)
	}
	ids := []int{}
	for _, r := range f.reports.ListAll() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestReportStore_SubmitRecord(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 30, 15, 123456000, time.Local)
	f := newFixture(t, WithExtractor(fixedGPS(51.5007, -0.1246)), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	before := f.creds.PointsOf("user")
	rep, err := f.reports.Submit(ctx, "user", model.TypeOverflowingBin, []byte("jpeg-bytes"), "bin.jpg")
	require.NoError(t, err)

	assert.Equal(t, "user", rep.User)
	assert.Equal(t, model.TypeOverflowingBin, rep.Type)
	assert.Equal(t, model.StatusPendingReview, rep.Status)
	assert.Equal(t, "2024-05-01 09:30:15.123456", rep.Timestamp)
	assert.Equal(t, model.Location{Latitude: 51.5007, Longitude: -0.1246}, rep.Location)
	assert.Equal(t, filepath.Join(f.reports.ImageDir(), "user_1_bin.jpg"), rep.ImagePath)

	data, err := os.ReadFile(rep.ImagePath)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	assert.Equal(t, before+SubmissionReward, f.creds.PointsOf("user"))
	assert.Len(t, f.reports.ListAll(), 1)
}

func TestReportStore_FallbackLocation(t *testing.T) {
	f := newFixture(t, WithExtractor(noGPS))
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		rep, err := f.reports.Submit(ctx, "user", model.TypeWrongBin, []byte("x"), "a.png")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rep.Location.Latitude, FallbackLatMin)
		assert.LessOrEqual(t, rep.Location.Latitude, FallbackLatMax)
		assert.GreaterOrEqual(t, rep.Location.Longitude, FallbackLonMin)
		assert.LessOrEqual(t, rep.Location.Longitude, FallbackLonMax)
	}
}

func TestReportStore_FallbackBounds(t *testing.T) {
	for _, v := range []float64{0, 0.5, 0.999999} {
		f := newFixture(t, WithExtractor(noGPS), WithRand(func() float64 { return v }))
		rep, err := f.reports.Submit(context.Background(), "user", model.TypeWrongBin, []byte("x"), "a.png")
		require.NoError(t, err)
		assert.InDelta(t, 40.7+v*0.1, rep.Location.Latitude, 1e-9)
		assert.InDelta(t, -74.1+v*0.2, rep.Location.Longitude, 1e-9)
	}
}

func TestReportStore_ZeroCoordinateFallsBack(t *testing.T) {
	for _, c := range []geotag.Coordinates{{Latitude: 0, Longitude: 10}, {Latitude: 10, Longitude: 0}} {
		f := newFixture(t, WithExtractor(fixedGPS(c.Latitude, c.Longitude)), WithRand(func() float64 { return 0.5 }))
		rep, err := f.reports.Submit(context.Background(), "user", model.TypeWrongBin, []byte("x"), "a.png")
		require.NoError(t, err)
		assert.InDelta(t, 40.75, rep.Location.Latitude, 1e-9)
		assert.InDelta(t, -74.0, rep.Location.Longitude, 1e-9)
	}
}

func TestReportStore_PersistsAndReloads(t *testing.T) {
	f := newFixture(t, WithExtractor(noGPS))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.reports.Submit(ctx, "admin", model.TypeIllegalDumping, []byte("x"), "d.jpg")
		require.NoError(t, err)
	}
	inMemory := f.reports.ListAll()

	onDisk, err := f.repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, inMemory, onDisk)

	reopened, err := NewReportStore(ctx, f.repo, f.creds, f.reports.ImageDir())
	require.NoError(t, err)
	assert.Equal(t, inMemory, reopened.ListAll())

	rep, err := reopened.Submit(ctx, "admin", model.TypeIllegalDumping, []byte("x"), "d.jpg")
	require.NoError(t, err)
	assert.Equal(t, 4, rep.ID)
}

func TestReportStore_ImageNameIsSanitized(t *testing.T) {
	f := newFixture(t, WithExtractor(noGPS))
	rep, err := f.reports.Submit(context.Background(), "user", model.TypeWrongBin, []byte("x"), "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.reports.ImageDir(), "user_1_passwd"), rep.ImagePath)
}

func TestReportStore_RejectsBadInput(t *testing.T) {
	f := newFixture(t, WithExtractor(noGPS))
	ctx := context.Background()

	_, err := f.reports.Submit(ctx, "user", "Space Junk", []byte("x"), "a.jpg")
	assert.ErrorIs(t, err, ErrInvalidReportType)

	_, err = f.reports.Submit(ctx, "user", model.TypeWrongBin, nil, "a.jpg")
	assert.ErrorIs(t, err, ErrEmptyImage)

	assert.Equal(t, 0, f.reports.Count())
	assert.Equal(t, 0, f.creds.PointsOf("user"))
}

type brokenReportRepo struct{}

func (brokenReportRepo) Load(context.Context) ([]model.Report, error) { return nil, repository.ErrNotFound }
func (brokenReportRepo) Save(context.Context, []model.Report) error   { return errors.New("read-only") }
func (brokenReportRepo) Append(context.Context, model.Report) error   { return errors.New("read-only") }

func TestReportStore_PersistFailureLeavesOrphanImage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	creds, err := NewCredentialStore(ctx, repository.NewJSONUserRepo(filepath.Join(dir, "users.json")))
	require.NoError(t, err)
	s, err := NewReportStore(ctx, brokenReportRepo{}, creds, filepath.Join(dir, "images"), WithExtractor(noGPS))
	require.NoError(t, err)

	_, err = s.Submit(ctx, "user", model.TypeWrongBin, []byte("x"), "a.jpg")
	require.Error(t, err)

	assert.Empty(t, s.ListAll())
	assert.Equal(t, 0, creds.PointsOf("user"))
	assert.FileExists(t, filepath.Join(dir, "images", "user_1_a.jpg"))
}

type countingAwarder struct {
	calls map[string]int
	err   error
}

func (a *countingAwarder) AwardPoints(_ context.Context, u string, n int) error {
	if a.calls == nil {
		a.calls = map[string]int{}
	}
	a.calls[u] += n
	return a.err
}

func TestReportStore_AwardFailureIsReported(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	aw := &countingAwarder{err: errors.New("users file locked")}
	repo := repository.NewJSONReportRepo(filepath.Join(dir, "r.json"))
	s, err := NewReportStore(ctx, repo, aw, filepath.Join(dir, "images"), WithExtractor(noGPS))
	require.NoError(t, err)

	_, err = s.Submit(ctx, "user", model.TypeWrongBin, []byte("x"), "a.jpg")
	assert.ErrorContains(t, err, "awarding points")
	assert.Equal(t, 50, aw.calls["user"])
	// the report was already persisted before the award step
	assert.Equal(t, 1, s.Count())
}

func TestReportStore_ListAllReturnsCopy(t *testing.T) {
	f := newFixture(t, WithExtractor(noGPS))
	_, err := f.reports.Submit(context.Background(), "user", model.TypeWrongBin, []byte("x"), "a.jpg")
	require.NoError(t, err)

	list := f.reports.ListAll()
	list[0].Status = "Resolved"
	assert.Equal(t, model.StatusPendingReview, f.reports.ListAll()[0].Status)
}
