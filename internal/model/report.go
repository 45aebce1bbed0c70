package model

// Report types accepted by the report form.
const (
	TypeOverflowingBin = "Overflowing Bin"
	TypeIllegalDumping = "Illegal Dumping"
	TypeWrongBin       = "Recyclables in Wrong Bin"
)

// StatusPendingReview is the status every report is created with.
const StatusPendingReview = "Pending Review"

// TimestampLayout formats Report.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// ReportTypes lists the accepted report types in form order.
var ReportTypes = []string{TypeOverflowingBin, TypeIllegalDumping, TypeWrongBin}

// ValidReportType reports whether t is one of ReportTypes.
func ValidReportType(t string) bool {
	for _, rt := range ReportTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// Location holds decimal degree coordinates.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Report is a single waste report.  Field order matches the on-disk JSON
// layout of the reports file.
type Report struct {
	ID        int      `json:"id"`
	User      string   `json:"user"`
	Location  Location `json:"location"`
	Type      string   `json:"type"`
	Timestamp string   `json:"timestamp"`
	Status    string   `json:"status"`
	ImagePath string   `json:"image_path"`
}
