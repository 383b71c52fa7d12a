package scrape

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobhunter/internal/logger"
	"jobhunter/internal/types"
)

const (
	linkedInGuestSearchURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"
	linkedInPageSize       = 25
	linkedInMaxResults     = 100

	// linkedInDetailWorkers caps concurrent description fetches;
	// anything above ~3 reliably draws rate limiting.
	linkedInDetailWorkers = 3

	linkedInDescriptionLimit = 3000
)

// linkedInLocations maps city keys to the guest API's location strings.
var linkedInLocations = map[string]string{
	"adelaide":   "Adelaide, South Australia, Australia",
	"sydney":     "Sydney, New South Wales, Australia",
	"melbourne":  "Melbourne, Victoria, Australia",
	"brisbane":   "Brisbane, Queensland, Australia",
	"perth":      "Perth, Western Australia, Australia",
	"canberra":   "Canberra, Australian Capital Territory, Australia",
	"gold coast": "Gold Coast, Queensland, Australia",
	"hobart":     "Hobart, Tasmania, Australia",
}

// LinkedIn scrapes an unauthenticated guest listing endpoint. The listing
// payload has no descriptions, so a second phase fetches each detail page
// through a small worker pool and merges the text back by index.
type LinkedIn struct {
	client     *resty.Client
	log        *zap.Logger
	maxResults int
}

// NewLinkedIn builds the guest-API adapter.
func NewLinkedIn(client *resty.Client, log *zap.Logger) *LinkedIn {
	return &LinkedIn{
		client:     client,
		log:        log.Named("linkedin"),
		maxResults: linkedInMaxResults,
	}
}

// Name implements Adapter.
func (l *LinkedIn) Name() string { return types.SiteLinkedIn }

// Capabilities implements Adapter.
func (l *LinkedIn) Capabilities() Capabilities { return Capabilities{} }

// Fetch paginates the listing endpoint in fixed windows, deduplicating by the
// per-record source id, then backfills descriptions concurrently.
func (l *LinkedIn) Fetch(ctx context.Context, term, city string) ([]types.Posting, error) {
	location, ok := linkedInLocations[cityKey(city)]
	if !ok {
		location = "Australia"
	}

	var results []types.Posting
	seen := make(map[string]bool)

	for start := 0; start < l.maxResults; start += linkedInPageSize {
		resp, err := l.client.R().
			SetContext(ctx).
			SetQueryParam("keywords", term).
			SetQueryParam("location", location).
			SetQueryParam("start", strconv.Itoa(start)).
			Get(linkedInGuestSearchURL)
		if err != nil {
			if start == 0 {
				return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
			}
			l.log.Warn("listing fetch failed", zap.Int("start", start), zap.Error(err))
			break
		}
		if resp.StatusCode() != 200 {
			if start == 0 {
				return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode())
			}
			l.log.Warn("listing rejected", zap.Int("status", resp.StatusCode()))
			break
		}

		cards, err := parseLinkedInCards(resp.String())
		if err != nil {
			l.log.Warn("listing parse failed", zap.Error(err))
			break
		}
		if len(cards) == 0 {
			break
		}

		for _, card := range cards {
			if card.id == "" || seen[card.id] {
				continue
			}
			seen[card.id] = true
			results = append(results, card.posting)
		}

		if len(cards) < linkedInPageSize {
			break
		}
		sleep(ctx, pageDelay)
	}

	l.fetchDescriptions(ctx, results)

	return results, nil
}

// fetchDescriptions backfills descriptions in place. Workers write only to
// their own index, so output ordering is unaffected by completion order. A
// failed detail fetch leaves that record's description empty; it never fails
// the batch.
func (l *LinkedIn) fetchDescriptions(ctx context.Context, postings []types.Posting) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(linkedInDetailWorkers)

	for i := range postings {
		if postings[i].JobURL == "" {
			continue
		}
		g.Go(func() error {
			postings[i].Description = l.fetchDescription(gCtx, postings[i].JobURL)
			return nil
		})
	}

	// workers never return errors; Wait only fences completion
	_ = g.Wait()
}

// fetchDescription pulls the full description from a job detail page, with
// one retry on a rate-limit response.
func (l *LinkedIn) fetchDescription(ctx context.Context, jobURL string) string {
	for attempt := 0; attempt < 2; attempt++ {
		resp, err := l.client.R().SetContext(ctx).Get(jobURL)
		if err != nil {
			if attempt == 0 {
				sleep(ctx, time.Second)
				continue
			}
			return ""
		}
		if resp.StatusCode() == 429 {
			sleep(ctx, 2*time.Second)
			continue
		}
		if resp.StatusCode() != 200 {
			return ""
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
		if err != nil {
			return ""
		}
		markup := doc.Find("div.show-more-less-html__markup").First()
		if markup.Length() == 0 {
			return ""
		}
		return logger.Truncate(joinText(markup), linkedInDescriptionLimit)
	}
	return ""
}

// linkedInCard pairs a parsed posting with its stable source identifier.
type linkedInCard struct {
	id      string
	posting types.Posting
}

// parseLinkedInCards extracts job cards from one guest listing response.
func parseLinkedInCards(html string) ([]linkedInCard, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var cards []linkedInCard
	doc.Find("div.base-search-card").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("h3.base-search-card__title").First().Text())
		if title == "" {
			return
		}

		// stable id lives in the entity URN (urn:li:jobPosting:<id>)
		urn, _ := card.Attr("data-entity-urn")
		id := urn
		if i := strings.LastIndex(urn, ":"); i >= 0 {
			id = urn[i+1:]
		}

		subtitle := card.Find("h4.base-search-card__subtitle").First()
		company := strings.TrimSpace(subtitle.Find("a").First().Text())
		if company == "" {
			company = strings.TrimSpace(subtitle.Text())
		}

		jobURL, _ := card.Find("a.base-card__full-link").First().Attr("href")
		// strip tracking params
		if i := strings.Index(jobURL, "?"); i >= 0 {
			jobURL = jobURL[:i]
		}

		datePosted, _ := card.Find("time").First().Attr("datetime")

		cards = append(cards, linkedInCard{
			id: id,
			posting: types.Posting{
				Title:      title,
				Company:    company,
				Location:   strings.TrimSpace(card.Find("span.job-search-card__location").First().Text()),
				JobURL:     jobURL,
				Site:       types.SiteLinkedIn,
				DatePosted: datePosted,
			},
		})
	})

	return cards, nil
}

// joinText flattens an element's text nodes with single-space separators.
func joinText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
