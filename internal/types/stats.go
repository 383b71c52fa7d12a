package types

import "sort"

// RunStats summarizes one pipeline run for display and callback reporting.
type RunStats struct {
	TotalJobs         int            `json:"total_jobs"`
	BySite            map[string]int `json:"by_site"`
	ByTier            map[string]int `json:"by_tier"`
	BySeniority       map[string]int `json:"by_seniority"`
	ByCompany         map[string]int `json:"by_company,omitempty"`
	DuplicatesRemoved int            `json:"duplicates_removed"`
	LocationFiltered  int            `json:"location_filtered"`
	AdapterFailures   int            `json:"adapter_failures"`
}

// NewRunStats returns a RunStats with all count maps initialized.
func NewRunStats() RunStats {
	return RunStats{
		BySite:      make(map[string]int),
		ByTier:      make(map[string]int),
		BySeniority: make(map[string]int),
		ByCompany:   make(map[string]int),
	}
}

// Count tallies one posting into the per-site, per-tier, per-seniority and
// per-company maps.
func (s *RunStats) Count(p *Posting) {
	s.TotalJobs++
	if p.Site != "" {
		s.BySite[p.Site]++
	}
	if p.Tier != "" {
		s.ByTier[p.Tier]++
	}
	if p.Seniority != "" {
		s.BySeniority[p.Seniority]++
	}
	if p.Company != "" {
		s.ByCompany[p.Company]++
	}
}

// CompanyCount is one entry of the top-hiring-companies ranking.
type CompanyCount struct {
	Company string `json:"company"`
	Jobs    int    `json:"jobs"`
}

// TopCompanies returns the n companies with the most postings, ties broken
// alphabetically so the ranking is stable.
func (s *RunStats) TopCompanies(n int) []CompanyCount {
	counts := make([]CompanyCount, 0, len(s.ByCompany))
	for company, jobs := range s.ByCompany {
		counts = append(counts, CompanyCount{Company: company, Jobs: jobs})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Jobs != counts[j].Jobs {
			return counts[i].Jobs > counts[j].Jobs
		}
		return counts[i].Company < counts[j].Company
	})
	if n < len(counts) {
		counts = counts[:n]
	}
	return counts
}
