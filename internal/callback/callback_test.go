package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobhunter/internal/types"
)

func TestBuildPayloadNullsEmptyFields(t *testing.T) {
	postings := []types.Posting{{
		Title:   "Software Engineer",
		Company: "Canva",
		JobURL:  "https://jobs/1",
		Site:    "seek",
		Tier:    types.TierBigTech,
		Score:   62.5,
	}}

	payload := BuildPayload("sub-1", "completed", nil, postings)

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "sub-1", decoded["submissionId"])
	assert.Nil(t, decoded["error"])

	job := decoded["jobResults"].([]any)[0].(map[string]any)
	assert.Equal(t, "Big Tech", job["tier"])
	assert.Nil(t, job["salary"], "empty optional fields must serialize as null")
	assert.Nil(t, job["description"])
}

func TestBuildPayloadCarriesError(t *testing.T) {
	payload := BuildPayload("sub-2", "failed", assert.AnError, nil)
	require.NotNil(t, payload.Error)
	assert.Equal(t, assert.AnError.Error(), *payload.Error)
	assert.Equal(t, 0, payload.JobCount)
}

func TestDeliverRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "s3cret", zap.NewNop())
	c.http.SetRetryWaitTime(time.Millisecond).SetRetryMaxWaitTime(5 * time.Millisecond)

	err := c.Deliver(context.Background(), BuildPayload("sub-3", "completed", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestDeliverGivesUpAfterThreeAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "", zap.NewNop())
	c.http.SetRetryWaitTime(time.Millisecond).SetRetryMaxWaitTime(5 * time.Millisecond)

	err := c.Deliver(context.Background(), BuildPayload("sub-4", "completed", nil, nil))
	assert.Error(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestDeliverSkipsWithoutURL(t *testing.T) {
	c := New("", "", zap.NewNop())
	assert.NoError(t, c.Deliver(context.Background(), BuildPayload("sub-5", "completed", nil, nil)))
}
