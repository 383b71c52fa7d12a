package types

// Preferences carries the caller's scrape configuration.
type Preferences struct {
	Locations        []string `json:"locations,omitempty"`
	Roles            []string `json:"roles,omitempty"`
	HoursOld         int      `json:"hours_old,omitempty"`
	ResultsPerSearch int      `json:"results_per_search,omitempty"`
}

// ScrapeRequest is the payload accepted by the worker API. The profile arrives
// pre-parsed; this system never sees the resume document itself.
type ScrapeRequest struct {
	SubmissionID   string          `json:"submissionId" validate:"required"`
	Email          string          `json:"email" validate:"required,email"`
	Profile        Profile         `json:"profile" validate:"required"`
	Preferences    Preferences     `json:"preferences"`
	ScoringWeights *ScoringWeights `json:"scoringWeights,omitempty"`
}

// ScrapeStatus is the immediate response to a queued scrape request.
type ScrapeStatus struct {
	SubmissionID string `json:"submissionId"`
	Status       string `json:"status"`
	Message      string `json:"message"`
}
