package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobhunter/internal/types"
)

func TestDedup_ExactURLKeepsFirst(t *testing.T) {
	in := []types.Posting{
		{Title: "Backend Engineer", Company: "Acme", JobURL: "https://x/1", Site: "seek"},
		{Title: "Frontend Engineer", Company: "Beta", JobURL: "https://x/2", Site: "seek"},
		{Title: "Backend Engineer (Reposted)", Company: "Acme", JobURL: "https://x/1", Site: "linkedin"},
	}

	out, removed := Dedup(in)

	require.Len(t, out, 2)
	assert.Equal(t, 1, removed)
	assert.Equal(t, "seek", out[0].Site) // first arrival survives
}

// Same posting from two sources with different URLs, one title carrying a
// pipe-delimited suffix: the fuzzy pass must collapse them to one record.
func TestDedup_FuzzyCollapsesCrossSourceDuplicate(t *testing.T) {
	in := []types.Posting{
		{Title: "Software Engineer", Company: "Acme Pty Ltd", JobURL: "https://x/1", Site: "seek"},
		{Title: "Software Engineer | Visa Sponsorship", Company: "Acme Pty Ltd", JobURL: "https://y/2", Site: "prosple"},
	}

	out, removed := Dedup(in)

	require.Len(t, out, 1)
	assert.Equal(t, 1, removed)
	assert.Equal(t, "https://x/1", out[0].JobURL)
}

func TestDedup_NoSurvivorsShareKeys(t *testing.T) {
	in := []types.Posting{
		{Title: "Software Engineer", Company: "Acme", JobURL: "https://a/1"},
		{Title: "software   engineer", Company: "ACME", JobURL: "https://a/2"},
		{Title: "Data Engineer", Company: "Acme", JobURL: "https://a/3"},
		{Title: "Data Engineer", Company: "Other Co", JobURL: "https://a/3"},
	}

	out, _ := Dedup(in)

	urls := make(map[string]bool)
	keys := make(map[string]bool)
	for _, p := range out {
		require.False(t, urls[p.JobURL], "duplicate url %s survived", p.JobURL)
		urls[p.JobURL] = true
		k := Key(p.Title, p.Company)
		require.False(t, keys[k], "duplicate key %s survived", k)
		keys[k] = true
	}
}

func TestDedup_EmptyURLsAreNotGrouped(t *testing.T) {
	in := []types.Posting{
		{Title: "Role A", Company: "One", JobURL: ""},
		{Title: "Role B", Company: "Two", JobURL: ""},
	}

	out, removed := Dedup(in)

	assert.Len(t, out, 2)
	assert.Equal(t, 0, removed)
}

func TestKey_Normalization(t *testing.T) {
	tests := []struct {
		title, company string
		want           string
	}{
		{"Software Engineer", "Acme Pty Ltd", "software engineer|acme pty ltd"},
		{"Software  Engineer | International Students", "Acme", "software engineer|acme"},
		{"Développeur Senior", "Société Générale", "developpeur senior|societe generale"},
		{"C++ Engineer (Sydney)", "O'Brien & Co.", "c engineer sydney|obrien co"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Key(tt.title, tt.company))
	}
}
