package digest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobhunter/internal/types"
)

func sampleStats() types.RunStats {
	stats := types.NewRunStats()
	stats.TotalJobs = 3
	stats.DuplicatesRemoved = 2
	return stats
}

func TestBuildAppliesMinScoreThreshold(t *testing.T) {
	postings := []types.Posting{
		{Title: "Full Stack Developer", Company: "Canva", Location: "Sydney",
			JobURL: "https://jobs/1", Site: "seek", Tier: types.TierBigTech,
			Seniority: types.SeniorityMid, Score: 72},
		{Title: "Web Developer", Company: "Acme", Location: "Adelaide",
			JobURL: "https://jobs/2", Site: "linkedin", Score: 18},
	}

	d, err := Build(postings, sampleStats(), 40)
	require.NoError(t, err)

	assert.Equal(t, "Job Hunter: 1 matches above 40", d.Subject)
	assert.Contains(t, d.HTML, "Full Stack Developer")
	assert.NotContains(t, d.HTML, "Web Developer")
	assert.Contains(t, d.HTML, "1 of 2 postings")
}

func TestBuildRendersBadges(t *testing.T) {
	postings := []types.Posting{
		{Title: "Engineer", Company: "Atlassian", Location: "Sydney",
			JobURL: "https://jobs/1", Site: "seek", Tier: types.TierBigTech,
			Seniority: types.SenioritySenior, IsRemote: true, Score: 90},
	}

	d, err := Build(postings, sampleStats(), 40)
	require.NoError(t, err)

	assert.Contains(t, d.HTML, tierColors[types.TierBigTech])
	assert.Contains(t, d.HTML, seniorityColors[types.SenioritySenior])
	assert.Contains(t, d.HTML, ">remote</span>")
}

func TestBuildEmptyVariant(t *testing.T) {
	postings := []types.Posting{
		{Title: "Engineer", Company: "Acme", JobURL: "https://jobs/1", Score: 12},
	}

	d, err := Build(postings, sampleStats(), 40)
	require.NoError(t, err)

	assert.Equal(t, "Job Hunter: no new matches this run", d.Subject)
	assert.Contains(t, d.HTML, "No new matches")
	assert.Contains(t, d.HTML, "1 postings were collected")
}

func TestBuildEscapesHTMLInTitles(t *testing.T) {
	postings := []types.Posting{
		{Title: "<script>alert(1)</script> Engineer", Company: "Acme",
			JobURL: "https://jobs/1", Score: 99},
	}

	d, err := Build(postings, sampleStats(), 40)
	require.NoError(t, err)
	assert.NotContains(t, d.HTML, "<script>alert(1)</script>")
}

func TestFileMailerWritesDigest(t *testing.T) {
	dir := t.TempDir()
	m := NewFileMailer(dir, zap.NewNop())

	require.NoError(t, m.Send(context.Background(), &Digest{Subject: "s", HTML: "<html>x</html>"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "digest_"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "<html>x</html>", string(data))
}
