package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MollahHamza/TRASHCANPRO/internal/logger"
	"github.com/MollahHamza/TRASHCANPRO/internal/middleware"
	"github.com/MollahHamza/TRASHCANPRO/internal/queue"
	queue_publisher "github.com/MollahHamza/TRASHCANPRO/internal/service"
	"github.com/MollahHamza/TRASHCANPRO/internal/store"
)

// User-facing messages of the report form.
const (
	msgSubmitted    = "Report submitted! 50 points added to your account."
	msgImageMissing = "Please upload an image before submitting"
	msgSubmitFailed = "Failed to submit report"
)

// ReportHandler serves report submission and listing.
type ReportHandler struct {
	Reports   *store.ReportStore
	Publisher queue_publisher.Publisher

	// OnSubmitted runs after a report was stored, e.g. to drop cached
	// map markers.  Optional.
	OnSubmitted func(ctx context.Context)
}

func NewReportHandler(r *store.ReportStore, p queue_publisher.Publisher) *ReportHandler {
	if p == nil {
		p = queue_publisher.Noop{}
	}
	return &ReportHandler{Reports: r, Publisher: p}
}

// Submit accepts a multipart form with "type" and "image".
func (h *ReportHandler) Submit(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgImageMissing})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgImageMissing})
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil || len(data) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgImageMissing})
	}

	rep, err := h.Reports.Submit(c.Request().Context(), sess.Username, c.FormValue("type"), data, fh.Filename)
	switch {
	case errors.Is(err, store.ErrInvalidReportType):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report type"})
	case errors.Is(err, store.ErrEmptyImage):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgImageMissing})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgSubmitFailed})
	}

	if h.OnSubmitted != nil {
		h.OnSubmitted(c.Request().Context())
	}

	// Best effort: the report is already stored and credited.
	ev := queue.NewReportSubmittedEvent(rep, store.SubmissionReward)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Publisher.PublishReportSubmitted(ctx, ev); err != nil {
			logger.Warningf("report %d: event not published: %v", rep.ID, err)
		}
	}()

	return c.JSON(http.StatusCreated, echo.Map{
		"message": msgSubmitted,
		"report":  rep,
	})
}

// List returns every report in submission order.
func (h *ReportHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Reports.ListAll())
}
