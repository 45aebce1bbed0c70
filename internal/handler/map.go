package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
	"github.com/MollahHamza/TRASHCANPRO/internal/store"
)

// Marker is the map projection of a report.
type Marker struct {
	ID        int     `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Color     string  `json:"color"`
}

// MarkerColor maps a report type to its marker color.
func MarkerColor(reportType string) string {
	switch reportType {
	case model.TypeOverflowingBin:
		return "green"
	case model.TypeIllegalDumping:
		return "red"
	case model.TypeWrongBin:
		return "orange"
	default:
		return "blue"
	}
}

// Markers builds one marker per report.
func Markers(reports []model.Report) []Marker {
	out := make([]Marker, 0, len(reports))
	for _, r := range reports {
		out = append(out, Marker{
			ID:        r.ID,
			Latitude:  r.Location.Latitude,
			Longitude: r.Location.Longitude,
			Type:      r.Type,
			Status:    r.Status,
			Timestamp: r.Timestamp,
			Color:     MarkerColor(r.Type),
		})
	}
	return out
}

// MapHandler serves map data.  Responses are cached by the router.
type MapHandler struct {
	Reports *store.ReportStore
}

// Markers lists markers, optionally filtered by ?type=.
func (h *MapHandler) Markers(c echo.Context) error {
	reports := h.Reports.ListAll()
	if t := c.QueryParam("type"); t != "" {
		filtered := reports[:0]
		for _, r := range reports {
			if r.Type == t {
				filtered = append(filtered, r)
			}
		}
		reports = filtered
	}
	return c.JSON(http.StatusOK, Markers(reports))
}
