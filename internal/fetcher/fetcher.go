// Package fetcher renders one product page and hands back its visible text
// and title. Each fetch launches and tears down its own browser so no
// cookies, cache or challenge state leaks between targets.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/jdhwiz/brickwatch/internal/browser"
	"github.com/jdhwiz/brickwatch/internal/parser"
)

// Result is the extracted content of one rendered page.
type Result struct {
	Text  string
	Title string
	HTML  string
}

// Fetcher loads a URL and extracts its content, or fails with a transport,
// timeout or navigation error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

// PlaywrightFetcher drives headless Firefox through playwright.
type PlaywrightFetcher struct {
	opts     *browser.Options
	pageWait time.Duration
	logger   *slog.Logger
}

var _ Fetcher = (*PlaywrightFetcher)(nil)

// NewPlaywrightFetcher configures the fetcher. pageWait is the render-settle
// wait after navigation; client-side stock widgets fill in well after
// domcontentloaded.
func NewPlaywrightFetcher(opts *browser.Options, pageWait time.Duration) *PlaywrightFetcher {
	return &PlaywrightFetcher{
		opts:     opts,
		pageWait: pageWait,
		logger:   slog.Default().With("component", "fetcher"),
	}
}

func (f *PlaywrightFetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := browser.New(f.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			f.logger.Warn("browser teardown failed", "error", err)
		}
	}()

	page, err := b.NewPage()
	if err != nil {
		return nil, err
	}

	f.logger.Debug("loading page", "url", url)
	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	f.logger.Debug("waiting for content to settle", "wait", f.pageWait)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(f.pageWait):
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	text, err := page.InnerText("body")
	if err != nil || text == "" {
		// Fall back to extracting from the raw markup.
		if extracted, perr := parser.VisibleText(html); perr == nil {
			text = extracted
		} else if err != nil {
			return nil, fmt.Errorf("failed to extract page text: %w", err)
		}
	}

	title, err := page.Title()
	if err != nil || title == "" {
		if extracted, perr := parser.Title(html); perr == nil && extracted != "" {
			title = extracted
		}
	}

	return &Result{Text: text, Title: title, HTML: html}, nil
}
