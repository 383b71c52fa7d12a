package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobhunter/internal/types"
)

const linkedInCardFixture = `
<ul>
  <li>
    <div class="base-search-card" data-entity-urn="urn:li:jobPosting:4012345678">
      <a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/engineer-4012345678?refId=abc&amp;trk=guest">
        <span class="sr-only">Software Engineer</span>
      </a>
      <div class="base-search-card__info">
        <h3 class="base-search-card__title">Software Engineer</h3>
        <h4 class="base-search-card__subtitle">
          <a href="https://au.linkedin.com/company/canva">Canva</a>
        </h4>
        <div class="base-search-card__metadata">
          <span class="job-search-card__location">Sydney, New South Wales, Australia</span>
          <time class="job-search-card__listdate" datetime="2026-08-28">3 days ago</time>
        </div>
      </div>
    </div>
  </li>
  <li>
    <div class="base-search-card" data-entity-urn="urn:li:jobPosting:4012345679">
      <div class="base-search-card__info">
        <h3 class="base-search-card__title">Platform Engineer</h3>
        <h4 class="base-search-card__subtitle">Stealth Startup</h4>
      </div>
    </div>
  </li>
  <li>
    <div class="base-search-card">
      <h3 class="base-search-card__title"></h3>
    </div>
  </li>
</ul>`

func TestParseLinkedInCards(t *testing.T) {
	cards, err := parseLinkedInCards(linkedInCardFixture)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	first := cards[0]
	assert.Equal(t, "4012345678", first.id)
	assert.Equal(t, "Software Engineer", first.posting.Title)
	assert.Equal(t, "Canva", first.posting.Company)
	assert.Equal(t, "Sydney, New South Wales, Australia", first.posting.Location)
	assert.Equal(t, "2026-08-28", first.posting.DatePosted)
	assert.Equal(t, types.SiteLinkedIn, first.posting.Site)

	// tracking params stripped from the link
	assert.Equal(t, "https://www.linkedin.com/jobs/view/engineer-4012345678", first.posting.JobURL)

	// company falls back to the subtitle's own text when there is no anchor
	assert.Equal(t, "Stealth Startup", cards[1].posting.Company)
}

func TestParseLinkedInCardsEmptyPage(t *testing.T) {
	cards, err := parseLinkedInCards("<html><body></body></html>")
	require.NoError(t, err)
	assert.Empty(t, cards)
}
