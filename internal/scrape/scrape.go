// Package scrape implements the source adapters that fetch job postings from
// external boards and normalize them into the canonical Posting model.
//
// Every adapter implements the same Fetch contract but sources differ in how
// they want to be invoked; Capabilities lets an adapter declare that it
// ignores the search term (invoke once per city) or returns nationally-scoped
// results (invoke once per term). Adapter failures are local: a network
// error, a blocked page or an unexpected payload ends that source's results
// for that query, never the run.
package scrape

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"jobhunter/internal/types"
)

// Taxonomy sentinels. Both are recovered locally by the orchestrator; they
// exist so logs and tests can tell a blocked source from a malformed payload.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrParseFailure      = errors.New("parse failure")
)

// DefaultTimeout bounds every outbound request an adapter makes.
const DefaultTimeout = 15 * time.Second

// pageDelay spaces sequential page requests to a single source.
const pageDelay = 1500 * time.Millisecond

// browserUserAgent mirrors a current desktop Chrome; several boards serve
// reduced payloads to obvious bots.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Capabilities declares how an adapter wants to be invoked by the
// orchestrator, instead of the orchestrator special-casing adapter names.
type Capabilities struct {
	// IgnoresSearchTerm marks sources with no query-by-keyword support;
	// the orchestrator invokes them once per city, outside the term loop.
	IgnoresSearchTerm bool
	// NationalScope marks sources whose results are not city-filtered;
	// the orchestrator invokes them once per term, outside the city loop.
	NationalScope bool
}

// Adapter is the uniform fetch contract every source implements.
type Adapter interface {
	Name() string
	Capabilities() Capabilities
	// Fetch returns the normalized postings for one (term, city) query.
	// Partial results with a nil error are the norm; adapters swallow and
	// log per-page failures rather than failing the batch.
	Fetch(ctx context.Context, term, city string) ([]types.Posting, error)
}

// newClient builds the resty client adapters share for plain HTTP sources.
func newClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", browserUserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-AU,en;q=0.9")
}

// sleep waits for d unless the context ends first.
func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// cityKey reduces "Adelaide, Australia" to "adelaide" for location lookups.
func cityKey(city string) string {
	return strings.ToLower(strings.TrimSpace(strings.SplitN(city, ",", 2)[0]))
}

// Default returns the full adapter set in invocation order. The browser
// session is owned by the caller and passed only to the one adapter that
// needs it.
func Default(browser *BrowserSession, log *zap.Logger) []Adapter {
	client := newClient(DefaultTimeout)
	return []Adapter{
		NewSeek(browser, log),
		NewLinkedIn(client, log),
		NewProsple(client, log),
		NewGradConnection(client, log),
	}
}
