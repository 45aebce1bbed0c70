package queue

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

func sampleReport() model.Report {
	return model.Report{
		ID:       7,
		User:     "user",
		Location: model.Location{Latitude: 40.75, Longitude: -73.95},
		Type:     model.TypeIllegalDumping,
	}
}

func TestNewReportSubmittedEvent(t *testing.T) {
	ev := NewReportSubmittedEvent(sampleReport(), 50)
	_, err := uuid.Parse(ev.EventID)
	require.NoError(t, err)
	assert.Equal(t, 7, ev.ReportID)
	assert.Equal(t, "user", ev.User)
	assert.Equal(t, 50, ev.PointsAwarded)
	assert.NotEmpty(t, ev.SubmittedAt)

	other := NewReportSubmittedEvent(sampleReport(), 50)
	assert.NotEqual(t, ev.EventID, other.EventID)
}

func TestFormatLine(t *testing.T) {
	ev := ReportSubmittedEvent{
		EventID: "e1", ReportID: 3, User: "admin", Type: model.TypeWrongBin,
		Latitude: 40.7, Longitude: -74, PointsAwarded: 50, SubmittedAt: "2024-05-01T10:00:00Z",
	}
	assert.Equal(t,
		"[2024-05-01T10:00:00Z] Report submitted | event_id=e1 | report_id=3 | user=\"admin\" | type=\"Recyclables in Wrong Bin\" | location=40.700000,-74.000000 | points=50\n",
		FormatLine(ev))
}

func TestHandleMessageAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	for i := 0; i < 2; i++ {
		body, err := json.Marshal(NewReportSubmittedEvent(sampleReport(), 50))
		require.NoError(t, err)
		require.NoError(t, HandleMessage(dir, body))
	}

	data, err := os.ReadFile(filepath.Join(dir, ReportLogFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "report_id=7")
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, HandleMessage(dir, []byte("not json")))
	assert.Error(t, HandleMessage(dir, []byte(`{"report_id":1}`)))
	assert.NoFileExists(t, filepath.Join(dir, ReportLogFile))
}
