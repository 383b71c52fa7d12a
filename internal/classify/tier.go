// Package classify assigns company tiers and seniority levels to postings.
// Both classifications are pure functions: same input, same output, first
// matching rule wins regardless of call order.
package classify

import (
	"strings"

	"jobhunter/internal/types"
)

// Company tier name sets. Matching is case-insensitive substring matching
// against the posting's company name. Some companies appear in more than one
// set (Atlassian, Canva); the set order below decides which tier wins.
var (
	tierBigTech = []string{
		"Google", "Meta", "Apple", "Amazon", "Microsoft", "Netflix",
		"Atlassian", "Canva", "Stripe", "Airbnb", "Uber", "Spotify",
		"Salesforce", "Adobe", "Oracle", "SAP", "IBM", "Intel", "Cisco",
		"Nvidia", "AMD", "Qualcomm", "Samsung", "Sony",
	}

	tierTopTech = []string{
		"Shopify", "Cloudflare", "Vercel", "Supabase", "MongoDB",
		"Datadog", "Figma", "Notion", "Linear", "Anthropic", "OpenAI",
		"Coinbase", "Block", "Palantir", "Snowflake", "Databricks",
		"Twilio", "Okta", "HashiCorp", "Elastic", "Confluent",
		"Zoom", "Slack", "Dropbox", "Square", "Robinhood",
		"CrowdStrike", "Palo Alto Networks", "Splunk", "ServiceNow",
		"Workday", "HubSpot", "Airtable",
	}

	tierAUNotable = []string{
		"Atlassian", "Canva", "SafetyCulture", "Xero", "WiseTech Global",
		"Afterpay", "Zip Co", "Culture Amp", "Employment Hero", "Deputy",
		"Buildkite", "Envato", "Campaign Monitor", "Aconex", "Redbubble",
		"REA Group", "Seek", "Domain", "Carsales", "Nearmap",
		"Immutable", "Rokt", "GO1", "Eucalyptus", "Linktree",
		"Harrison.ai", "Baraja", "Morse Micro", "Stax", "Pendula",
		"Brighte", "Lendi", "Prospa", "Tyro", "Swyftx",
		"CommBank", "Commonwealth Bank", "NAB", "Westpac", "ANZ",
		"Telstra", "Optus", "TPG", "NBN",
		"BHP", "Rio Tinto", "Woodside",
		"Maptek", "Santos", "CSL", "Cochlear",
	}
)

// tierSets is the tagged-priority dispatch order: highest prestige first.
var tierSets = []struct {
	tier  string
	names []string
}{
	{types.TierBigTech, tierBigTech},
	{types.TierAUNotable, tierAUNotable},
	{types.TierTopTech, tierTopTech},
}

// Tier classifies a company name into a tier. Returns the empty string when
// the company matches no set.
func Tier(company string) string {
	lower := strings.ToLower(company)
	if lower == "" {
		return ""
	}
	for _, set := range tierSets {
		for _, name := range set.names {
			if strings.Contains(lower, strings.ToLower(name)) {
				return set.tier
			}
		}
	}
	return ""
}
