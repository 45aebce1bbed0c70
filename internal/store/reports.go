package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MollahHamza/TRASHCANPRO/internal/geotag"
	"github.com/MollahHamza/TRASHCANPRO/internal/logger"
	"github.com/MollahHamza/TRASHCANPRO/internal/model"
	"github.com/MollahHamza/TRASHCANPRO/internal/repository"
)

// SubmissionReward is the number of points credited for every report.
const SubmissionReward = 50

// Fallback box used when an image carries no usable GPS position.
const (
	FallbackLatMin = 40.7
	FallbackLatMax = 40.8
	FallbackLonMin = -74.1
	FallbackLonMax = -73.9
)

var (
	// ErrInvalidReportType indicates a type outside model.ReportTypes.
	ErrInvalidReportType = errors.New("invalid report type")

	// ErrEmptyImage indicates a submission without image bytes.
	ErrEmptyImage = errors.New("empty image")
)

// PointsAwarder credits reward points to a user.
type PointsAwarder interface {
	AwardPoints(ctx context.Context, username string, amount int) error
}

// ReportStore owns the ordered report sequence and the image directory.
type ReportStore struct {
	mu       sync.Mutex
	repo     repository.ReportRepository
	awarder  PointsAwarder
	imageDir string
	reports  []model.Report

	extractor geotag.Extractor
	now       func() time.Time
	randFloat func() float64
}

// Option customizes a ReportStore.
type Option func(*ReportStore)

// WithExtractor replaces the EXIF extractor.
func WithExtractor(e geotag.Extractor) Option { return func(s *ReportStore) { s.extractor = e } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *ReportStore) { s.now = now } }

// WithRand replaces the [0,1) source used for fallback coordinates.
func WithRand(f func() float64) Option { return func(s *ReportStore) { s.randFloat = f } }

// NewReportStore loads the stored reports (none if the repository was never
// written) and makes sure imageDir exists.
func NewReportStore(ctx context.Context, repo repository.ReportRepository, awarder PointsAwarder, imageDir string, opts ...Option) (*ReportStore, error) {
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	reports, err := repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("loading reports: %w", err)
		}
		reports = []model.Report{}
	}
	s := &ReportStore{
		repo:      repo,
		awarder:   awarder,
		imageDir:  imageDir,
		reports:   reports,
		extractor: geotag.EXIF,
		now:       time.Now,
		randFloat: rand.Float64,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// ImageDir returns the directory receiving uploaded images.
func (s *ReportStore) ImageDir() string { return s.imageDir }

// Submit stores image, resolves its location, records the report and
// credits SubmissionReward points to username.  A failure after the image
// was written leaves the file on disk and records nothing.
func (s *ReportStore) Submit(ctx context.Context, username, reportType string, image []byte, imageName string) (model.Report, error) {
	rep, err := s.submit(ctx, username, reportType, image, imageName)
	if err != nil {
		logger.Errorf("submit report user=%s type=%q image=%q: %v", username, reportType, imageName, err)
		return model.Report{}, err
	}
	logger.Infof("report %d submitted by %s at %.5f,%.5f", rep.ID, rep.User, rep.Location.Latitude, rep.Location.Longitude)
	return rep, nil
}

func (s *ReportStore) submit(ctx context.Context, username, reportType string, image []byte, imageName string) (model.Report, error) {
	if !model.ValidReportType(reportType) {
		return model.Report{}, fmt.Errorf("%w: %q", ErrInvalidReportType, reportType)
	}
	if len(image) == 0 {
		return model.Report{}, ErrEmptyImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := len(s.reports) + 1
	path := filepath.Join(s.imageDir, imageFileName(username, id, imageName))
	if err := os.WriteFile(path, image, 0o644); err != nil { //nolint:gosec // G306: images are public
		return model.Report{}, fmt.Errorf("saving image: %w", err)
	}

	rep := model.Report{
		ID:        id,
		User:      username,
		Location:  s.resolveLocation(path),
		Type:      reportType,
		Timestamp: s.now().Format(model.TimestampLayout),
		Status:    model.StatusPendingReview,
		ImagePath: path,
	}

	if err := s.repo.Append(ctx, rep); err != nil {
		return model.Report{}, fmt.Errorf("saving report: %w", err)
	}
	s.reports = append(s.reports, rep)

	if err := s.awarder.AwardPoints(ctx, username, SubmissionReward); err != nil {
		return model.Report{}, fmt.Errorf("awarding points: %w", err)
	}
	return rep, nil
}

// resolveLocation prefers the image's GPS position.  A zero coordinate is
// treated like a missing one, so an image tagged at exactly 0° latitude or
// longitude gets a fallback position.
func (s *ReportStore) resolveLocation(path string) model.Location {
	if c, ok := s.extractor.Extract(path); ok && c.Latitude != 0 && c.Longitude != 0 {
		return model.Location{Latitude: c.Latitude, Longitude: c.Longitude}
	}
	return model.Location{
		Latitude:  FallbackLatMin + s.randFloat()*(FallbackLatMax-FallbackLatMin),
		Longitude: FallbackLonMin + s.randFloat()*(FallbackLonMax-FallbackLonMin),
	}
}

// imageFileName is <user>_<id>_<original base name>.
func imageFileName(username string, id int, imageName string) string {
	base := filepath.Base(filepath.Clean("/" + imageName))
	if base == "/" || base == "." {
		base = "image"
	}
	return fmt.Sprintf("%s_%d_%s", username, id, base)
}

// ListAll returns a copy of every report in insertion order.
func (s *ReportStore) ListAll() []model.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// Count returns the number of stored reports.
func (s *ReportStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}
