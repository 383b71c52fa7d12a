package scrape

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"jobhunter/internal/logger"
	"jobhunter/internal/types"
)

const (
	prospleGatewayURL = "https://prosple-gw.global.ssl.fastly.net/internal"
	prospleSiteURL    = "https://au.prosple.com"
	prosplePageSize   = 50
	prospleMaxResults = 100
)

// prospleSearchQuery is the gateway's internal opportunity search.
const prospleSearchQuery = `
query OpportunitiesSearch($parameters: OpportunitiesSearchInput!) {
  opportunitiesSearch(parameters: $parameters) {
    resultCount
    opportunities {
      id
      title
      expired
      overview { summary }
      opportunityTypes { label }
      locationDescription
      applicationsCloseDateDescription
      applyByUrl
      parentEmployer { advertiserName }
      workingRights { label }
    }
  }
}`

// prospleJunkTypes are opportunity types that are not real job listings.
var prospleJunkTypes = map[string]bool{
	"Virtual Experience": true,
	"Competition":        true,
	"Event":              true,
}

// Prosple queries a graduate-opportunity source through its internal GraphQL
// gateway. Results are scoped nationally, so the orchestrator invokes this
// adapter once per search term rather than once per (term, city) pair.
type Prosple struct {
	client     *resty.Client
	log        *zap.Logger
	maxResults int
}

// NewProsple builds the paginated-query adapter.
func NewProsple(client *resty.Client, log *zap.Logger) *Prosple {
	return &Prosple{
		client:     client,
		log:        log.Named("prosple"),
		maxResults: prospleMaxResults,
	}
}

// Name implements Adapter.
func (p *Prosple) Name() string { return types.SiteProsple }

// Capabilities implements Adapter.
func (p *Prosple) Capabilities() Capabilities { return Capabilities{NationalScope: true} }

// Fetch walks offsets in fixed pages until a short page or the result cap.
// The source returns overlapping results across pages, so records are
// deduplicated within the call by normalized (title, company).
func (p *Prosple) Fetch(ctx context.Context, term, city string) ([]types.Posting, error) {
	var results []types.Posting
	seen := make(map[string]bool)

	for offset := 0; offset < p.maxResults; offset += prosplePageSize {
		resp, err := p.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetHeader("Origin", prospleSiteURL).
			SetHeader("Referer", prospleSiteURL+"/graduate-jobs").
			SetBody(map[string]any{
				"query": prospleSearchQuery,
				"variables": map[string]any{
					"parameters": map[string]any{
						"sortBy":   map[string]any{"criteria": "POPULARITY", "direction": "DESC"},
						"keywords": term,
						"range":    map[string]any{"limit": prosplePageSize, "offset": offset},
					},
				},
			}).
			Post(prospleGatewayURL)
		if err != nil {
			if offset == 0 {
				return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
			}
			p.log.Warn("query failed", zap.Int("offset", offset), zap.Error(err))
			break
		}
		if resp.StatusCode() != 200 {
			if offset == 0 {
				return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode())
			}
			p.log.Warn("query rejected", zap.Int("status", resp.StatusCode()))
			break
		}

		body := resp.String()
		if gjson.Get(body, "errors").Exists() {
			p.log.Warn("gateway returned errors", zap.String("body", logger.Truncate(body, 200)))
			break
		}

		opps := gjson.Get(body, "data.opportunitiesSearch.opportunities").Array()
		if len(opps) == 0 {
			break
		}

		results = append(results, parseProspleOpportunities(opps, city, seen)...)

		if len(opps) < prosplePageSize {
			break
		}
		sleep(ctx, time.Second)
	}

	return results, nil
}

// parseProspleOpportunities filters and normalizes one page of results.
// Excluded: expired listings, listings whose working-rights labels rule out
// the target region, and the junk opportunity-type denylist.
func parseProspleOpportunities(opps []gjson.Result, city string, seen map[string]bool) []types.Posting {
	var out []types.Posting

	for _, opp := range opps {
		if opp.Get("expired").Bool() {
			continue
		}

		title := opp.Get("title").String()
		company := opp.Get("parentEmployer.advertiserName").String()
		dedupKey := strings.ToLower(title) + "|" + strings.ToLower(company)
		if title == "" || seen[dedupKey] {
			continue
		}

		var rights []string
		for _, r := range opp.Get("workingRights.#.label").Array() {
			if r.String() != "" {
				rights = append(rights, r.String())
			}
		}
		if len(rights) > 0 && !eligibleRights(rights) {
			continue
		}

		typeLabel := opp.Get("opportunityTypes.0.label").String()
		if prospleJunkTypes[typeLabel] {
			continue
		}

		seen[dedupKey] = true

		location := opp.Get("locationDescription").String()
		if location == "" {
			location = titleCase(cityKey(city))
		}
		if location == "" {
			location = "Australia"
		}

		jobURL := opp.Get("applyByUrl").String()
		if jobURL == "" && company != "" {
			jobURL = prospleSiteURL + "/graduate-employers/" + slugify(company)
		}
		if jobURL == "" {
			jobURL = prospleSiteURL + "/graduate-jobs"
		}

		var descParts []string
		if typeLabel != "" {
			descParts = append(descParts, "["+typeLabel+"]")
		}
		if overview := opp.Get("overview.summary").String(); overview != "" {
			descParts = append(descParts, overview)
		}
		if len(rights) > 0 {
			descParts = append(descParts, "Work rights: "+strings.Join(rights, ", ")+".")
		}

		out = append(out, types.Posting{
			Title:       title,
			Company:     company,
			Location:    location,
			JobURL:      jobURL,
			Site:        types.SiteProsple,
			Description: strings.Join(descParts, " "),
			DatePosted:  opp.Get("applicationsCloseDateDescription").String(),
		})
	}

	return out
}

// eligibleRights reports whether any working-rights label covers the target
// region.
func eligibleRights(rights []string) bool {
	for _, r := range rights {
		if r == "Australia" || r == "New Zealand" {
			return true
		}
	}
	return false
}

var slugifyPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify converts a company name into a URL slug.
func slugify(name string) string {
	return strings.Trim(slugifyPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
