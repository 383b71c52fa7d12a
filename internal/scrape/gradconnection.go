package scrape

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"jobhunter/internal/logger"
	"jobhunter/internal/types"
)

const (
	gradConnectionBaseURL  = "https://au.gradconnection.com"
	gradConnectionMaxPages = 10
)

// gradConnectionCategories are the job categories crawled for every region;
// the source has no query-by-keyword capability at all.
var gradConnectionCategories = []string{
	"computer-science",
	"engineering",
	"information-technology",
}

// gradConnectionLocations maps city keys to the source's region slugs.
var gradConnectionLocations = map[string]string{
	"adelaide":   "south-australia",
	"sydney":     "new-south-wales",
	"melbourne":  "victoria",
	"brisbane":   "queensland",
	"perth":      "western-australia",
	"canberra":   "australian-capital-territory",
	"gold coast": "queensland",
	"hobart":     "tasmania",
}

// gradConnectionJunk drops events, webinars and competitions that the source
// lists alongside real job postings.
var gradConnectionJunk = regexp.MustCompile(
	`(?i)\b(?:webinar|information sessions?|careers? fair|workshop|competition|` +
		`women in consulting|future thinking|pre-registration|unlock your potential|` +
		`discover ey|tap into tax|psychometric|futurefocus|` +
		`networking event|bootcamp|insight programme|virtual experience|open day)\b` +
		`|^event\s*[-–]`)

// GradConnection scrapes structured card elements from category/region
// listing pages. The search term is ignored entirely; the orchestrator
// invokes this adapter once per city.
type GradConnection struct {
	client   *resty.Client
	log      *zap.Logger
	maxPages int
}

// NewGradConnection builds the HTML-card adapter.
func NewGradConnection(client *resty.Client, log *zap.Logger) *GradConnection {
	return &GradConnection{
		client:   client,
		log:      log.Named("gradconnection"),
		maxPages: gradConnectionMaxPages,
	}
}

// Name implements Adapter.
func (g *GradConnection) Name() string { return types.SiteGradConnection }

// Capabilities implements Adapter.
func (g *GradConnection) Capabilities() Capabilities {
	return Capabilities{IgnoresSearchTerm: true}
}

// Fetch walks every (category, page) combination for the city's region and
// parses the result cards. Postings are deduplicated by URL within the call
// because categories overlap.
func (g *GradConnection) Fetch(ctx context.Context, _ string, city string) ([]types.Posting, error) {
	locationSlug := gradConnectionLocations[cityKey(city)]

	var results []types.Posting

	for _, category := range gradConnectionCategories {
		for page := 1; page <= g.maxPages; page++ {
			pageURL := fmt.Sprintf("%s/graduate-jobs/%s/", gradConnectionBaseURL, category)
			if locationSlug != "" {
				pageURL += locationSlug + "/"
			}
			if page > 1 {
				pageURL += fmt.Sprintf("?page=%d", page)
			}

			resp, err := g.client.R().SetContext(ctx).Get(pageURL)
			if err != nil {
				g.log.Warn("page fetch failed", zap.String("category", category),
					zap.Int("page", page), zap.Error(err))
				break
			}
			if resp.StatusCode() != 200 {
				break
			}

			cards, err := parseGradConnectionCards(resp.String())
			if err != nil {
				g.log.Warn("page parse failed", zap.String("category", category),
					zap.Error(err))
				break
			}
			if len(cards) == 0 {
				break
			}
			results = append(results, cards...)

			sleep(ctx, pageDelay)
		}
	}

	// categories overlap; first occurrence per URL survives
	seen := make(map[string]bool, len(results))
	unique := results[:0]
	for _, p := range results {
		if seen[p.JobURL] {
			continue
		}
		seen[p.JobURL] = true
		unique = append(unique, p)
	}

	return unique, nil
}

// parseGradConnectionCards extracts postings from the section.box_container
// card elements of one listing page.
func parseGradConnectionCards(html string) ([]types.Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	var out []types.Posting
	doc.Find("section.box_container").Each(func(_ int, card *goquery.Selection) {
		if p, ok := parseGradConnectionCard(card); ok {
			out = append(out, p)
		}
	})

	return out, nil
}

var gradConnectionEmployerPath = regexp.MustCompile(`/employers/([^/]+)/`)

// parseGradConnectionCard maps one card into a posting. Cards without a
// plausible title, and junk entries, are dropped.
func parseGradConnectionCard(card *goquery.Selection) (types.Posting, bool) {
	header := card.Find("header.box-header").First()
	if header.Length() == 0 {
		return types.Posting{}, false
	}

	titleLink := header.Find("a.box-header-title").First()
	if titleLink.Length() == 0 {
		return types.Posting{}, false
	}

	title := strings.TrimSpace(titleLink.Text())
	if len(title) < 3 || gradConnectionJunk.MatchString(title) {
		return types.Posting{}, false
	}

	href, _ := titleLink.Attr("href")
	jobURL := resolveURL(gradConnectionBaseURL, href)

	company := strings.TrimSpace(header.Find("div.box-employer-name p.box-header-para").First().Text())
	if company == "" {
		if m := gradConnectionEmployerPath.FindStringSubmatch(href); m != nil {
			company = titleCase(strings.ReplaceAll(m[1], "-", " "))
		}
	}

	return types.Posting{
		Title:       title,
		Company:     company,
		Location:    "Australia",
		JobURL:      jobURL,
		Site:        types.SiteGradConnection,
		DatePosted:  strings.TrimSpace(card.Find("span.closing-in").First().Text()),
		Description: logger.Truncate(strings.TrimSpace(card.Find("p.box-description-para").First().Text()), 200),
	}, true
}

// resolveURL joins a possibly-relative href against the source's base URL.
func resolveURL(base, href string) string {
	if href == "" {
		return base
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
