package domain

import (
	"strings"
	"time"
)

// Artifact is an uploaded file held in memory for a single render.
type Artifact struct {
	Name        string
	Size        int64
	ContentType string
	Data        []byte
}

// IsImage reports whether the declared content type is an image type.
func (a *Artifact) IsImage() bool {
	return strings.HasPrefix(a.MediaType(), "image/")
}

// IsCSV reports whether the declared content type is text/csv.
func (a *Artifact) IsCSV() bool {
	return a.MediaType() == "text/csv"
}

// MediaType returns the declared content type without parameters, lower-cased.
func (a *Artifact) MediaType() string {
	mt, _, _ := strings.Cut(a.ContentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// MetricsRow is one day of the synthetic dashboard series.
type MetricsRow struct {
	Date       time.Time `json:"date"`
	Sales      float64   `json:"sales"`
	Visits     int       `json:"visits"`
	Conversion float64   `json:"conversion"`
}
