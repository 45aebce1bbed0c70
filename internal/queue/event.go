// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

// ReportSubmittedEvent is published after a waste report has been stored
// and its points credited. It carries enough of the report for downstream
// consumers to log or notify without reading the report store.
type ReportSubmittedEvent struct {
	EventID       string  `json:"event_id"`
	ReportID      int     `json:"report_id"`
	User          string  `json:"user"`
	Type          string  `json:"type"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	PointsAwarded int     `json:"points_awarded"`
	SubmittedAt   string  `json:"submitted_at"`
}

// NewReportSubmittedEvent builds the event for rep with a fresh event id.
func NewReportSubmittedEvent(rep model.Report, points int) ReportSubmittedEvent {
	return ReportSubmittedEvent{
		EventID:       uuid.NewString(),
		ReportID:      rep.ID,
		User:          rep.User,
		Type:          rep.Type,
		Latitude:      rep.Location.Latitude,
		Longitude:     rep.Location.Longitude,
		PointsAwarded: points,
		SubmittedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}
