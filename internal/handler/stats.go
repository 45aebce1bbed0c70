package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MollahHamza/TRASHCANPRO/internal/store"
)

// StatsHandler serves the community totals shown on the home page.
type StatsHandler struct {
	Users   *store.CredentialStore
	Reports *store.ReportStore
}

func (h *StatsHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"total_points":  h.Users.TotalPoints(),
		"total_reports": h.Reports.Count(),
	})
}
