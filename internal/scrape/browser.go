package scrape

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	// challengeAttempts bounds the polling window for anti-automation
	// challenge clearance; clearance usually takes 3-5s.
	challengeAttempts = 15
	challengePollWait = 1 * time.Second

	// browserPageTimeout bounds one full navigate-and-poll cycle.
	browserPageTimeout = 45 * time.Second
)

// BrowserSession is the single shared headless-browser resource. It is
// created lazily on first use, reused for every fetch in the run, and
// degrades to disabled when the browser runtime is unavailable; a disabled
// session is never recreated mid-run. Calls serialize on the session: the
// browser tab is not reentrant.
type BrowserSession struct {
	mu sync.Mutex

	log *zap.Logger

	browserCtx  context.Context
	allocCancel context.CancelFunc
	ctxCancel   context.CancelFunc

	started  bool
	disabled bool
}

// NewBrowserSession returns an unstarted session. No browser process is
// launched until the first FetchChallengePage call.
func NewBrowserSession(log *zap.Logger) *BrowserSession {
	return &BrowserSession{log: log}
}

// start launches the browser once. Callers hold s.mu.
func (s *BrowserSession) start() bool {
	if s.disabled {
		return false
	}
	if s.started {
		return true
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	// CHROME_BINARY points at the runtime in container deployments.
	if path := os.Getenv("CHROME_BINARY"); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, ctxCancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the browser process to start now, so a
	// missing Chrome runtime disables the session up front.
	if err := chromedp.Run(browserCtx); err != nil {
		ctxCancel()
		allocCancel()
		s.disabled = true
		s.log.Warn("browser runtime unavailable, disabling browser-backed source for this run",
			zap.Error(err))
		return false
	}

	s.browserCtx = browserCtx
	s.allocCancel = allocCancel
	s.ctxCancel = ctxCancel
	s.started = true
	s.log.Debug("browser session started")
	return true
}

// FetchChallengePage navigates to url and polls until the page content
// contains marker, indicating the anti-automation challenge has cleared.
// Returns "" (with a nil error) when the session is disabled or the
// challenge never clears within the polling window.
func (s *BrowserSession) FetchChallengePage(ctx context.Context, url, marker string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.start() {
		return "", nil
	}

	tabCtx, cancel := context.WithTimeout(s.browserCtx, browserPageTimeout)
	defer cancel()

	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		return "", err
	}

	var html string
	for i := 0; i < challengeAttempts; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if err := chromedp.Run(tabCtx,
			chromedp.Sleep(challengePollWait),
			chromedp.OuterHTML("html", &html),
		); err != nil {
			return "", err
		}
		if strings.Contains(html, marker) {
			return html, nil
		}
	}

	// Challenge never cleared; zero results for this page, not a failure.
	return "", nil
}

// Disabled reports whether the session has degraded for the rest of the run.
func (s *BrowserSession) Disabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled
}

// Close shuts the browser down at the end of a run.
func (s *BrowserSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.ctxCancel()
		s.allocCancel()
		s.started = false
		s.disabled = true
	}
}
