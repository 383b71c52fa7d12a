// Package callback delivers final run results to the downstream consumer
// that queued the scrape.
package callback

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"jobhunter/internal/logger"
	"jobhunter/internal/types"
)

const (
	defaultTimeout = 30 * time.Second

	// descriptionCap bounds per-job description text in the payload; the
	// consumer stores summaries, not full listings.
	descriptionCap = 5000
)

// JobResult is one posting in the callback payload. Optional fields are
// pointers so absent values serialize as null rather than "".
type JobResult struct {
	Title           string  `json:"title"`
	Company         string  `json:"company"`
	Location        string  `json:"location"`
	JobURL          string  `json:"jobUrl"`
	Site            string  `json:"site"`
	Score           float64 `json:"score"`
	Tier            *string `json:"tier"`
	Seniority       *string `json:"seniority"`
	Salary          *string `json:"salary"`
	WorkType        *string `json:"workType"`
	WorkArrangement *string `json:"workArrangement"`
	DatePosted      *string `json:"datePosted"`
	Description     *string `json:"description"`
	IsRemote        bool    `json:"isRemote"`
}

// Payload is the full callback body.
type Payload struct {
	SubmissionID string      `json:"submissionId"`
	Status       string      `json:"status"`
	JobCount     int         `json:"jobCount"`
	Error        *string     `json:"error,omitempty"`
	JobResults   []JobResult `json:"jobResults,omitempty"`
}

// Client posts run results with bounded retries. Delivery failure is logged
// and abandoned; it never blocks the caller indefinitely.
type Client struct {
	http *resty.Client
	log  *zap.Logger
	url  string
}

// New builds a callback client for the given endpoint. Three attempts total,
// exponential backoff starting at 2s.
func New(url, secret string, log *zap.Logger) *Client {
	http := resty.New().
		SetTimeout(defaultTimeout).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(8 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	if secret != "" {
		http.SetAuthToken(secret)
	}

	return &Client{
		http: http,
		log:  log.Named("callback"),
		url:  url,
	}
}

// Deliver posts the payload. A nil error means the consumer acknowledged it;
// any other outcome is logged and returned after the final attempt.
func (c *Client) Deliver(ctx context.Context, payload *Payload) error {
	if c.url == "" {
		c.log.Debug("no callback url configured, skipping delivery")
		return nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.url)
	if err != nil {
		c.log.Warn("callback delivery abandoned",
			zap.String("submission_id", payload.SubmissionID),
			zap.Error(err))
		return fmt.Errorf("delivering callback: %w", err)
	}
	if resp.StatusCode() >= 300 {
		c.log.Warn("callback rejected",
			zap.String("submission_id", payload.SubmissionID),
			zap.Int("status", resp.StatusCode()),
			zap.String("body", logger.Truncate(resp.String(), 300)))
		return fmt.Errorf("callback rejected with status %d", resp.StatusCode())
	}

	c.log.Info("callback delivered",
		zap.String("submission_id", payload.SubmissionID),
		zap.Int("jobs", payload.JobCount))
	return nil
}

// BuildPayload converts ranked postings into the callback body. Empty
// optional strings become null.
func BuildPayload(submissionID, status string, runErr error, postings []types.Posting) *Payload {
	payload := &Payload{
		SubmissionID: submissionID,
		Status:       status,
		JobCount:     len(postings),
	}
	if runErr != nil {
		msg := runErr.Error()
		payload.Error = &msg
	}

	for _, p := range postings {
		payload.JobResults = append(payload.JobResults, JobResult{
			Title:           p.Title,
			Company:         p.Company,
			Location:        p.Location,
			JobURL:          p.JobURL,
			Site:            p.Site,
			Score:           p.Score,
			Tier:            nullable(p.Tier),
			Seniority:       nullable(p.Seniority),
			Salary:          nullable(p.Salary),
			WorkType:        nullable(p.WorkType),
			WorkArrangement: nullable(p.WorkArrangement),
			DatePosted:      nullable(p.DatePosted),
			Description:     nullable(logger.Truncate(p.Description, descriptionCap)),
			IsRemote:        p.IsRemote,
		})
	}

	return payload
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
