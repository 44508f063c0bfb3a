package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// HTTPFetcher fetches pages with a plain HTTP client. It never retries.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates a fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(0)
	client.SetHeader("User-Agent", UserAgent)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	return &HTTPFetcher{client: client}
}

// Fetch performs one GET and returns the body of a 2xx response.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return "", &Error{URL: url, Err: err}
	}
	if !resp.IsSuccess() {
		return "", &Error{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", resp.Status()),
		}
	}
	return string(resp.Body()), nil
}
