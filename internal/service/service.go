package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/vadimbarashkov/phishing-reporter/internal/entity"
)

// ReportSink defines the interface for durably storing formatted report records.
type ReportSink interface {
	// Append writes line at the end of the underlying storage.
	// Returns an error if the line could not be stored.
	Append(line string) error
}

// ReportService turns submitted URLs into CSV records and hands them to a ReportSink.
type ReportService struct {
	sink ReportSink
	now  func() time.Time
}

// Option configures a ReportService.
type Option func(*ReportService)

// WithClock replaces the source of report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *ReportService) {
		s.now = now
	}
}

// NewReportService creates a new instance of ReportService backed by sink.
func NewReportService(sink ReportSink, opts ...Option) *ReportService {
	s := &ReportService{
		sink: sink,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SubmitReport stamps url with the current UTC instant and appends it to the sink.
// The url is stored verbatim apart from CSV quote escaping.
func (s *ReportService) SubmitReport(url string) (*entity.Report, error) {
	const op = "service.ReportService.SubmitReport"

	if url == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrEmptyURL)
	}

	report := &entity.Report{
		URL:        url,
		ReportedAt: s.now().UTC(),
	}

	if err := s.sink.Append(FormatRecord(report.URL, report.ReportedAt)); err != nil {
		return nil, fmt.Errorf("%s: failed to save report: %w", op, err)
	}

	return report, nil
}

// FormatRecord renders a report as one CSV line: the url double-quoted with
// internal quotes doubled, then the RFC 3339 timestamp, then a newline.
// Newlines and other characters in url are written as is.
func FormatRecord(url string, at time.Time) string {
	return fmt.Sprintf("\"%s\",%s\n", strings.ReplaceAll(url, `"`, `""`), at.UTC().Format(time.RFC3339Nano))
}
