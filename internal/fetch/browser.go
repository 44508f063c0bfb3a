package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"
)

// MinRequestInterval spaces out headless page loads so a site isn't hammered.
const MinRequestInterval = 2 * time.Second

// BrowserFetcher renders pages in headless Chrome. Use it for pages whose
// tables are filled in by script.
type BrowserFetcher struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	limiter  *rate.Limiter
	timeout  time.Duration
	logger   *slog.Logger
}

// NewBrowserFetcher starts a headless Chrome allocator.
func NewBrowserFetcher(minInterval, timeout time.Duration) *BrowserFetcher {
	if minInterval <= 0 {
		minInterval = MinRequestInterval
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserFetcher{
		allocCtx: allocCtx,
		cancel:   cancel,
		limiter:  rate.NewLimiter(rate.Every(minInterval), 1),
		timeout:  timeout,
		logger:   slog.Default().With("component", "browser-fetcher"),
	}
}

// Close shuts down the browser.
func (b *BrowserFetcher) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// Fetch loads url and returns the rendered document.
func (b *BrowserFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", &Error{URL: url, Err: err}
	}

	browserCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()
	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, b.timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	if len(headers) > 0 {
		extra := make(network.Headers, len(headers))
		for k, v := range headers {
			extra[k] = v
		}
		if err := chromedp.Run(browserCtx, network.Enable(), network.SetExtraHTTPHeaders(extra)); err != nil {
			return "", &Error{URL: url, Err: fmt.Errorf("setting headers: %w", err)}
		}
	}

	resp, err := chromedp.RunResponse(browserCtx, chromedp.Navigate(url))
	if err != nil {
		return "", &Error{URL: url, Err: err}
	}
	if resp != nil && (resp.Status < 200 || resp.Status > 299) {
		return "", &Error{URL: url, StatusCode: int(resp.Status), Err: fmt.Errorf("unexpected status %d", resp.Status)}
	}

	var html string
	err = chromedp.Run(browserCtx,
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &Error{URL: url, Err: err}
	}
	if html == "" {
		return "", &Error{URL: url, Err: fmt.Errorf("empty document")}
	}

	b.logger.Debug("page rendered", "url", RedactURL(url), "bytes", len(html))
	return html, nil
}
