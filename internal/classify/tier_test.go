package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTier(t *testing.T) {
	tests := []struct {
		company string
		want    string
	}{
		{"Google", "Big Tech"},
		{"Google Australia Pty Ltd", "Big Tech"},
		{"canva", "Big Tech"}, // in two sets; highest-prestige set wins
		{"Xero", "AU Notable"},
		{"Commonwealth Bank of Australia", "AU Notable"},
		{"Datadog", "Top Tech"},
		{"Bob's Plumbing", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Tier(tt.company), "company %q", tt.company)
	}
}

func TestTier_FirstMatchWinsDeterministically(t *testing.T) {
	// Atlassian appears in both the big-tech and AU-notable sets; the
	// higher-prestige set must win on every call.
	for i := 0; i < 50; i++ {
		assert.Equal(t, "Big Tech", Tier("Atlassian"))
	}
}
