package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobhunter/internal/callback"
	"jobhunter/internal/config"
	"jobhunter/internal/digest"
	"jobhunter/internal/scrape"
	"jobhunter/internal/types"
)

type fakeNotifier struct {
	payloads []*callback.Payload
	err      error
}

func (f *fakeNotifier) Deliver(_ context.Context, p *callback.Payload) error {
	f.payloads = append(f.payloads, p)
	return f.err
}

type fakeMailer struct {
	sent []*digest.Digest
}

func (f *fakeMailer) Send(_ context.Context, d *digest.Digest) error {
	f.sent = append(f.sent, d)
	return nil
}

func sampleRequest() *types.ScrapeRequest {
	return &types.ScrapeRequest{
		SubmissionID: "sub-1",
		Email:        "candidate@example.com",
		Profile: types.Profile{
			Skills: []types.Skill{{Name: "Go", Tier: types.SkillTierCore}},
			Titles: []string{"Full Stack Developer"},
		},
		Preferences: types.Preferences{
			Locations: []string{"adelaide"},
			Roles:     []string{"software engineer"},
		},
	}
}

func TestRunJobDeliversCompletedCallback(t *testing.T) {
	adapter := &fakeAdapter{name: "seek", postings: []types.Posting{
		{Title: "Full Stack Developer", Company: "Canva", Location: "Adelaide",
			JobURL: "https://jobs/1", Site: "seek", Description: "Go work"},
	}}
	notifier := &fakeNotifier{}
	mailer := &fakeMailer{}

	result, err := RunJob(context.Background(), sampleRequest(), JobDeps{
		Cfg:      &config.Config{MinScore: 10},
		Adapters: []scrape.Adapter{adapter},
		Mailer:   mailer,
		Notifier: notifier,
		Log:      zap.NewNop(),
	})
	require.NoError(t, err)
	require.Len(t, result.Postings, 1)

	require.Len(t, notifier.payloads, 1)
	payload := notifier.payloads[0]
	assert.Equal(t, "sub-1", payload.SubmissionID)
	assert.Equal(t, "completed", payload.Status)
	assert.Equal(t, 1, payload.JobCount)
	require.Len(t, payload.JobResults, 1)

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].HTML, "Full Stack Developer")
}

func TestRunJobReportsConfigurationFailure(t *testing.T) {
	notifier := &fakeNotifier{}

	_, err := RunJob(context.Background(), sampleRequest(), JobDeps{
		Cfg:      &config.Config{},
		Adapters: nil, // no sources is a configuration error
		Notifier: notifier,
		Log:      zap.NewNop(),
	})
	require.ErrorIs(t, err, ErrConfiguration)

	require.Len(t, notifier.payloads, 1)
	assert.Equal(t, "failed", notifier.payloads[0].Status)
	require.NotNil(t, notifier.payloads[0].Error)
}

func TestRunJobSurvivesCallbackFailure(t *testing.T) {
	adapter := &fakeAdapter{name: "seek"}
	notifier := &fakeNotifier{err: assert.AnError}

	result, err := RunJob(context.Background(), sampleRequest(), JobDeps{
		Cfg:      &config.Config{},
		Adapters: []scrape.Adapter{adapter},
		Notifier: notifier,
		Log:      zap.NewNop(),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Postings)
}
