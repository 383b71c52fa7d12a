package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"jobhunter/internal/types"
)

const (
	seekBaseURL  = "https://www.seek.com.au"
	seekMarker   = "SEEK_REDUX_DATA"
	seekBlobHead = "window.SEEK_REDUX_DATA = "
	seekMaxPages = 5
)

// seekLocations maps city keys to the board's location path slugs.
var seekLocations = map[string]string{
	"adelaide":   "in-All-Adelaide-SA",
	"sydney":     "in-All-Sydney-NSW",
	"melbourne":  "in-All-Melbourne-VIC",
	"brisbane":   "in-All-Brisbane-QLD",
	"perth":      "in-All-Perth-WA",
	"canberra":   "in-All-Canberra-ACT",
	"gold coast": "in-All-Gold-Coast-QLD",
	"hobart":     "in-All-Hobart-TAS",
}

// Seek scrapes a board that renders results server-side and embeds them as a
// JSON state blob, behind an anti-automation challenge. It is the only
// adapter that needs the shared browser session.
type Seek struct {
	browser  *BrowserSession
	log      *zap.Logger
	maxPages int
}

// NewSeek builds the embedded-data adapter around the shared browser session.
func NewSeek(browser *BrowserSession, log *zap.Logger) *Seek {
	return &Seek{
		browser:  browser,
		log:      log.Named("seek"),
		maxPages: seekMaxPages,
	}
}

// Name implements Adapter.
func (s *Seek) Name() string { return types.SiteSeek }

// Capabilities implements Adapter.
func (s *Seek) Capabilities() Capabilities { return Capabilities{} }

// Fetch walks listing pages sequentially through the browser session until a
// page yields nothing new or the page ceiling is hit. Pages within a session
// are deliberately spaced out to avoid re-triggering the challenge.
func (s *Seek) Fetch(ctx context.Context, term, city string) ([]types.Posting, error) {
	locationSlug := seekLocations[cityKey(city)]

	var results []types.Posting
	seen := make(map[string]bool)

	for page := 1; page <= s.maxPages; page++ {
		termSlug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(term)), " ", "-")
		pageURL := fmt.Sprintf("%s/%s-jobs/%s?page=%d",
			seekBaseURL, termSlug, locationSlug, page)

		html, err := s.browser.FetchChallengePage(ctx, pageURL, seekMarker)
		if err != nil {
			s.log.Warn("page fetch failed", zap.Int("page", page), zap.Error(err))
			break
		}
		if html == "" {
			if page == 1 {
				s.log.Info("challenge did not clear", zap.String("term", term), zap.String("city", city))
			}
			break
		}

		pageJobs := parseSeekJobs(html)
		if len(pageJobs) == 0 {
			break
		}

		added := 0
		for _, job := range pageJobs {
			if seen[job.JobURL] {
				continue
			}
			seen[job.JobURL] = true
			results = append(results, job)
			added++
		}
		if added == 0 {
			break
		}

		sleep(ctx, pageDelay)
	}

	return results, nil
}

// parseSeekJobs extracts the embedded redux blob from page HTML and maps its
// job entries into postings. Records without an id or title are dropped.
func parseSeekJobs(html string) []types.Posting {
	blob, ok := extractJSONBlob(html, seekBlobHead)
	if !ok || !gjson.Valid(blob) {
		return nil
	}

	jobs := gjson.Get(blob, "results.results.jobs")
	if !jobs.Exists() {
		return nil
	}

	var results []types.Posting
	jobs.ForEach(func(_, job gjson.Result) bool {
		id := job.Get("id").String()
		title := job.Get("title").String()
		if id == "" || title == "" {
			return true
		}

		company := job.Get("companyName").String()
		if company == "" {
			company = job.Get("advertiser.description").String()
		}

		datePosted := job.Get("listingDateDisplay").String()
		if datePosted == "" {
			if listed := job.Get("listingDate").String(); len(listed) >= 10 {
				datePosted = listed[:10]
			}
		}

		// salary may be a plain string or an object with a label
		salary := job.Get("salary.label").String()
		if salary == "" {
			if v := job.Get("salary"); v.Type == gjson.String {
				salary = v.String()
			}
		}
		if salary == "" {
			salary = job.Get("salaryLabel").String()
		}

		arrangement := job.Get("workArrangements.label").String()
		if arrangement == "" {
			arrangement = job.Get("workArrangements.0.label").String()
		}

		results = append(results, types.Posting{
			Title:           title,
			Company:         company,
			Location:        job.Get("locations.0.label").String(),
			JobURL:          fmt.Sprintf("%s/job/%s", seekBaseURL, id),
			Site:            types.SiteSeek,
			Description:     job.Get("teaser").String(),
			DatePosted:      datePosted,
			Salary:          salary,
			WorkType:        job.Get("workType").String(),
			WorkArrangement: arrangement,
		})
		return true
	})

	return results
}

// extractJSONBlob scans forward from the marker using balanced-delimiter
// matching: brace depth is tracked (ignoring braces inside JSON strings)
// until it returns to zero. Regex cannot do this reliably on a blob this
// size.
func extractJSONBlob(html, marker string) (string, bool) {
	start := strings.Index(html, marker)
	if start < 0 {
		return "", false
	}
	start += len(marker)

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(html); i++ {
		c := html[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return html[start : i+1], true
			}
		}
	}

	return "", false
}
