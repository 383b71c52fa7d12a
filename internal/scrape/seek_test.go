package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONBlob(t *testing.T) {
	html := `<script>window.SEEK_REDUX_DATA = {"a":{"b":1},"c":"x}y"};</script>`

	blob, ok := extractJSONBlob(html, seekBlobHead)
	require.True(t, ok)
	assert.Equal(t, `{"a":{"b":1},"c":"x}y"}`, blob)
}

func TestExtractJSONBlobIgnoresBracesInStrings(t *testing.T) {
	html := seekBlobHead + `{"desc":"use {curly} braces \" here","n":{"k":[1,2]}}tail`

	blob, ok := extractJSONBlob(html, seekBlobHead)
	require.True(t, ok)
	assert.Equal(t, `{"desc":"use {curly} braces \" here","n":{"k":[1,2]}}`, blob)
}

func TestExtractJSONBlobMissingMarker(t *testing.T) {
	_, ok := extractJSONBlob(`<html><body>no state here</body></html>`, seekBlobHead)
	assert.False(t, ok)
}

func TestExtractJSONBlobUnbalanced(t *testing.T) {
	_, ok := extractJSONBlob(seekBlobHead+`{"a":{"b":1}`, seekBlobHead)
	assert.False(t, ok)
}

func TestParseSeekJobs(t *testing.T) {
	html := seekBlobHead + `{"results":{"results":{"jobs":[
		{"id":"81234567","title":"Senior Software Engineer","companyName":"Canva",
		 "locations":[{"label":"Adelaide SA"}],"teaser":"Build design tools.",
		 "listingDateDisplay":"2d ago","salary":{"label":"$150k - $170k"},
		 "workType":"Full time","workArrangements":[{"label":"Hybrid"}]},
		{"id":"81234568","title":"Frontend Developer",
		 "advertiser":{"description":"Atlassian"},
		 "locations":[{"label":"Sydney NSW"}],"teaser":"React work.",
		 "listingDate":"2026-08-29T04:00:00Z","salary":"$120k"},
		{"id":"","title":"Dropped: no id"},
		{"id":"81234570","title":""}
	]}}}`

	jobs := parseSeekJobs(html)
	require.Len(t, jobs, 2)

	assert.Equal(t, "Senior Software Engineer", jobs[0].Title)
	assert.Equal(t, "Canva", jobs[0].Company)
	assert.Equal(t, "Adelaide SA", jobs[0].Location)
	assert.Equal(t, seekBaseURL+"/job/81234567", jobs[0].JobURL)
	assert.Equal(t, "2d ago", jobs[0].DatePosted)
	assert.Equal(t, "$150k - $170k", jobs[0].Salary)
	assert.Equal(t, "Full time", jobs[0].WorkType)
	assert.Equal(t, "Hybrid", jobs[0].WorkArrangement)

	// fallbacks: advertiser name, ISO date prefix, string-typed salary
	assert.Equal(t, "Atlassian", jobs[1].Company)
	assert.Equal(t, "2026-08-29", jobs[1].DatePosted)
	assert.Equal(t, "$120k", jobs[1].Salary)
}

func TestParseSeekJobsInvalidBlob(t *testing.T) {
	assert.Nil(t, parseSeekJobs(seekBlobHead+`{"results":`))
	assert.Nil(t, parseSeekJobs(seekBlobHead+`{"unrelated":true}`))
	assert.Nil(t, parseSeekJobs("<html></html>"))
}
