// Package entity defines the entities and errors used in the application.
// It includes the Report struct, which represents a single phishing URL report
// along with the moment it was received.
package entity

import (
	"errors"
	"time"
)

// ErrEmptyURL is returned when a report is submitted without a URL.
var ErrEmptyURL = errors.New("empty url")

// Report represents a submitted URL suspected of being malicious.
type Report struct {
	URL        string    // URL is the reported link, stored verbatim.
	ReportedAt time.Time // ReportedAt is the server-assigned UTC timestamp.
}
