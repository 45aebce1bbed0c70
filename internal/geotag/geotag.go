// Package geotag reads GPS coordinates embedded in image EXIF metadata.
// Extraction is best effort: every failure (unreadable file, no
// EXIF block, no GPS fields, malformed rationals) is reported as "not
// found" and never as an error.
package geotag

import (
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Coordinates are decimal degrees, negative for south and west.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Extractor finds the GPS position of an image file.  ok is false when no
// position could be read.
type Extractor interface {
	Extract(path string) (c Coordinates, ok bool)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(path string) (Coordinates, bool)

func (f ExtractorFunc) Extract(path string) (Coordinates, bool) { return f(path) }

// EXIF is the Extractor backed by the image's EXIF GPS IFD.
var EXIF Extractor = ExtractorFunc(Extract)

// Extract opens path and returns the GPS position stored in its EXIF data.
func Extract(path string) (Coordinates, bool) {
	f, err := os.Open(path) //nolint:gosec // G304: path is a file we just wrote
	if err != nil {
		return Coordinates{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return Coordinates{}, false
	}

	lat, ok := readAxis(x, exif.GPSLatitude, exif.GPSLatitudeRef, "S")
	if !ok {
		return Coordinates{}, false
	}
	lon, ok := readAxis(x, exif.GPSLongitude, exif.GPSLongitudeRef, "W")
	if !ok {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: lat, Longitude: lon}, true
}

// readAxis converts the degrees/minutes/seconds triple of one axis and
// negates it when the reference equals negRef.  A missing reference tag
// leaves the value positive.
func readAxis(x *exif.Exif, field, refField exif.FieldName, negRef string) (float64, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, false
	}
	dms, ok := triple(tag)
	if !ok {
		return 0, false
	}
	v := DMSToDecimal(dms[0], dms[1], dms[2])

	if refTag, err := x.Get(refField); err == nil {
		if ref, err := refTag.StringVal(); err == nil && hemisphere(ref) == negRef {
			v = -v
		}
	}
	return v, true
}

func triple(tag *tiff.Tag) ([3]float64, bool) {
	var out [3]float64
	if tag.Count < 3 {
		return out, false
	}
	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			return out, false
		}
		out[i] = float64(num) / float64(den)
	}
	return out, true
}

func hemisphere(ref string) string {
	return strings.ToUpper(strings.TrimSpace(strings.TrimRight(ref, "\x00")))
}

// DMSToDecimal returns degrees + minutes/60 + seconds/3600.
func DMSToDecimal(degrees, minutes, seconds float64) float64 {
	return degrees + minutes/60 + seconds/3600
}
