// Package fetch performs the single best-effort GET behind every command.
// Every failure comes back as *Error carrying the URL that was attempted.
package fetch

import (
	"context"
	"fmt"
)

// UserAgent is sent with every outbound request.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher returns the raw body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (string, error)
}

// Error is a transport-level failure: DNS, TLS, timeout, refused
// connection or a non-2xx status. URL keeps the exact target; its message
// and SafeURL mask credential query parameters.
type Error struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.SafeURL(), e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s", e.SafeURL(), redactText(fmt.Sprint(e.Err)))
}

// SafeURL is the attempted URL with credentials masked, fit for replies
// and logs.
func (e *Error) SafeURL() string {
	return RedactURL(e.URL)
}

func (e *Error) Unwrap() error {
	return e.Err
}
