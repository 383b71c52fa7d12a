// Package types defines the shared data model passed between pipeline stages.
package types

// Site tags identifying the origin adapter of a posting.
const (
	SiteSeek           = "seek"
	SiteProsple        = "prosple"
	SiteGradConnection = "gradconnection"
	SiteLinkedIn       = "linkedin"
)

// Company tier labels assigned by the classifier.
const (
	TierBigTech   = "Big Tech"
	TierTopTech   = "Top Tech"
	TierAUNotable = "AU Notable"
)

// Seniority levels detected from posting titles.
const (
	SeniorityIntern    = "intern"
	SeniorityJunior    = "junior"
	SeniorityMid       = "mid"
	SenioritySenior    = "senior"
	SeniorityLead      = "lead"
	SeniorityStaff     = "staff"
	SeniorityDirector  = "director"
	SeniorityExecutive = "executive"
)

// Posting is one normalized job listing record. Adapters produce it, the
// classifier fills Tier and Seniority, the scorer fills Score. JobURL is the
// primary dedup identity: two postings with equal JobURL are the same posting.
type Posting struct {
	Title           string  `json:"title"`
	Company         string  `json:"company"`
	Location        string  `json:"location"`
	JobURL          string  `json:"job_url"`
	Site            string  `json:"site"`
	Description     string  `json:"description,omitempty"`
	DatePosted      string  `json:"date_posted,omitempty"`
	Salary          string  `json:"salary,omitempty"`
	WorkType        string  `json:"work_type,omitempty"`
	WorkArrangement string  `json:"work_arrangement,omitempty"`
	IsRemote        bool    `json:"is_remote"`
	Tier            string  `json:"tier,omitempty"`
	Seniority       string  `json:"seniority,omitempty"`
	Score           float64 `json:"score"`
}
