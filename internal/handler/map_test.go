package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

func TestMarkerColor(t *testing.T) {
	cases := map[string]string{
		model.TypeOverflowingBin: "green",
		model.TypeIllegalDumping: "red",
		model.TypeWrongBin:       "orange",
		"Something Else":         "blue",
	}
	for typ, want := range cases {
		assert.Equal(t, want, MarkerColor(typ), typ)
	}
}

func TestMarkers(t *testing.T) {
	reports := []model.Report{
		{ID: 1, Type: model.TypeIllegalDumping, Location: model.Location{Latitude: 40.71, Longitude: -74.0}, Status: model.StatusPendingReview},
		{ID: 2, Type: model.TypeWrongBin, Location: model.Location{Latitude: 40.79, Longitude: -73.95}},
	}
	got := Markers(reports)
	assert.Len(t, got, 2)
	assert.Equal(t, Marker{ID: 1, Latitude: 40.71, Longitude: -74.0, Type: model.TypeIllegalDumping, Status: model.StatusPendingReview, Color: "red"}, got[0])
	assert.Equal(t, "orange", got[1].Color)
	assert.Empty(t, Markers(nil))
}
