// Package postings fetches job posting pages and turns them into
// structured records the assistant can reference while collecting a resume.
package postings

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; DevlinkAssistant/1.0)"

// MinContentLength is the minimum extracted text length to consider a plain
// HTTP fetch successful. Shorter content indicates a JavaScript-rendered page
// and triggers the headless browser fallback.
const MinContentLength = 500

// FetchResult holds the raw content retrieved from a posting URL.
type FetchResult struct {
	URL        string
	HTML       string
	StatusCode int
	Rendered   bool
}

// Fetcher retrieves posting pages over HTTP, falling back to a headless
// browser for pages that render their content client side.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	browser bool
	log     zerolog.Logger
}

// NewFetcher returns a Fetcher with the given timeout. When browser is true,
// pages whose extracted text is too short are re-fetched through chromedp.
func NewFetcher(timeout time.Duration, browser bool, log zerolog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		browser: browser,
		log:     log,
	}
}

// Fetch retrieves the HTML for a posting URL.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*FetchResult, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &FetchError{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &FetchResult{
		URL:        urlStr,
		HTML:       string(body),
		StatusCode: resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return result, &FetchError{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	if f.browser && shouldRender(result.HTML) {
		f.log.Debug().Str("url", urlStr).Msg("content too short, rendering with headless browser")
		html, err := f.renderWithBrowser(ctx, urlStr)
		if err != nil {
			// The plain HTTP result is still usable, keep it.
			f.log.Warn().Err(err).Str("url", urlStr).Msg("browser rendering failed")
			return result, nil
		}
		result.HTML = html
		result.Rendered = true
	}

	return result, nil
}

// shouldRender reports whether the page looks like a client-rendered SPA.
func shouldRender(html string) bool {
	text, err := extractVisibleText(html)
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(text)) < MinContentLength
}

// renderWithBrowser loads the page in headless Chrome and returns the
// rendered HTML. Requires Chrome/Chromium on the host.
func (f *Fetcher) renderWithBrowser(ctx context.Context, urlStr string) (string, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, f.timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body"),
		// Give client-side frameworks time to render the posting body.
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}
	return html, nil
}
