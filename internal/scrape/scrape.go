// Package scrape extracts fixed-shape records from provider pages. Every
// extractor is best effort: when the page doesn't look the way it expects it
// returns *ExtractionError rather than partial garbage.
package scrape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoData means the page parsed but held nothing for the request.
var ErrNoData = errors.New("scrape: no data")

// ExtractionError means a fetched body could not be parsed.
type ExtractionError struct {
	Operation string
	Cause     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Operation, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func (e *ExtractionError) Reply() string {
	return fmt.Sprintf("Sorry, I could not read the %s page.", e.Operation)
}

func extractionError(op string, format string, args ...any) error {
	return &ExtractionError{Operation: op, Cause: fmt.Errorf(format, args...)}
}

// parseHTML converts raw HTML to a goquery Document.
func parseHTML(op, body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &ExtractionError{Operation: op, Cause: err}
	}
	return doc, nil
}

// text returns the trimmed text of s with runs of whitespace (including
// non-breaking spaces) collapsed.
func text(s *goquery.Selection) string {
	return clean(s.Text())
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// hasClassPrefix reports whether any class on s starts with prefix.
func hasClassPrefix(s *goquery.Selection, prefix string) bool {
	class, _ := s.Attr("class")
	for _, c := range strings.Fields(class) {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func isDataRow(s *goquery.Selection) bool {
	return hasClassPrefix(s, "oddrow") || hasClassPrefix(s, "evenrow")
}
