// Package digest renders and delivers the HTML results email.
package digest

import (
	"bytes"
	"fmt"
	"html/template"

	"jobhunter/internal/types"
)

// tierColors and seniorityColors drive the badge styling in the digest.
var tierColors = map[string]string{
	types.TierBigTech:   "#4f46e5",
	types.TierAUNotable: "#0e7490",
	types.TierTopTech:   "#7c3aed",
}

var seniorityColors = map[string]string{
	types.SeniorityIntern:    "#6b7280",
	types.SeniorityJunior:    "#16a34a",
	types.SeniorityMid:       "#2563eb",
	types.SenioritySenior:    "#d97706",
	types.SeniorityLead:      "#dc2626",
	types.SeniorityStaff:     "#dc2626",
	types.SeniorityDirector:  "#991b1b",
	types.SeniorityExecutive: "#991b1b",
}

// Digest is one rendered results email.
type Digest struct {
	Subject string
	HTML    string
}

type digestJob struct {
	types.Posting
	Rank           int
	TierColor      string
	SeniorityColor string
}

type digestData struct {
	Jobs       []digestJob
	Stats      types.RunStats
	MinScore   float64
	TotalFound int
}

// Build renders the digest for one run. Only postings at or above minScore
// make the email body; when nothing clears the bar a "no matches" variant is
// rendered instead so the recipient still learns the run happened.
func Build(postings []types.Posting, stats types.RunStats, minScore float64) (*Digest, error) {
	var jobs []digestJob
	for _, p := range postings {
		if p.Score < minScore {
			continue
		}
		jobs = append(jobs, digestJob{
			Posting:        p,
			Rank:           len(jobs) + 1,
			TierColor:      tierColors[p.Tier],
			SeniorityColor: seniorityColors[p.Seniority],
		})
	}

	data := digestData{
		Jobs:       jobs,
		Stats:      stats,
		MinScore:   minScore,
		TotalFound: len(postings),
	}

	tmpl := resultsTemplate
	subject := fmt.Sprintf("Job Hunter: %d matches above %.0f", len(jobs), minScore)
	if len(jobs) == 0 {
		tmpl = emptyTemplate
		subject = "Job Hunter: no new matches this run"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering digest: %w", err)
	}

	return &Digest{Subject: subject, HTML: buf.String()}, nil
}

var resultsTemplate = template.Must(template.New("results").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:Arial,Helvetica,sans-serif;color:#111827;margin:0;padding:24px;background:#f9fafb">
  <h2 style="margin-top:0">Your ranked job matches</h2>
  <p>{{len .Jobs}} of {{.TotalFound}} postings scored {{printf "%.0f" .MinScore}} or higher.</p>
  {{range .Jobs}}
  <div style="background:#ffffff;border:1px solid #e5e7eb;border-radius:8px;padding:16px;margin-bottom:12px">
    <div style="font-size:16px;font-weight:bold">
      {{.Rank}}. <a href="{{.JobURL}}" style="color:#1d4ed8;text-decoration:none">{{.Title}}</a>
      <span style="float:right;color:#374151">{{printf "%.1f" .Score}}</span>
    </div>
    <div style="color:#4b5563;margin:4px 0">{{.Company}} &middot; {{.Location}}{{if .Salary}} &middot; {{.Salary}}{{end}}</div>
    <div style="margin:6px 0">
      {{if .Tier}}<span style="background:{{.TierColor}};color:#fff;border-radius:4px;padding:2px 8px;font-size:12px;margin-right:6px">{{.Tier}}</span>{{end}}
      {{if .Seniority}}<span style="background:{{.SeniorityColor}};color:#fff;border-radius:4px;padding:2px 8px;font-size:12px;margin-right:6px">{{.Seniority}}</span>{{end}}
      {{if .IsRemote}}<span style="background:#059669;color:#fff;border-radius:4px;padding:2px 8px;font-size:12px">remote</span>{{end}}
    </div>
    {{if .DatePosted}}<div style="color:#6b7280;font-size:12px">{{.DatePosted}} &middot; {{.Site}}</div>{{else}}<div style="color:#6b7280;font-size:12px">{{.Site}}</div>{{end}}
  </div>
  {{end}}
  <p style="color:#6b7280;font-size:12px">
    {{.Stats.TotalJobs}} jobs after deduplication ({{.Stats.DuplicatesRemoved}} duplicates removed).
  </p>
</body>
</html>`))

var emptyTemplate = template.Must(template.New("empty").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:Arial,Helvetica,sans-serif;color:#111827;padding:24px">
  <h2 style="margin-top:0">No new matches this run</h2>
  <p>{{.TotalFound}} postings were collected and ranked, but none scored
  {{printf "%.0f" .MinScore}} or higher. The next run may do better.</p>
  <p style="color:#6b7280;font-size:12px">
    {{.Stats.TotalJobs}} jobs after deduplication ({{.Stats.DuplicatesRemoved}} duplicates removed).
  </p>
</body>
</html>`))
