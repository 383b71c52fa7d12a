// Package dedup collapses duplicate postings accumulated across sources.
//
// Deduplication runs in two sequential passes. The exact pass groups by
// job_url and keeps the first occurrence in arrival order. The fuzzy pass
// collapses postings that share a normalized title+company key, catching the
// same role re-titled or re-linked via a different board.
package dedup

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"jobhunter/internal/types"
)

// stripMarks removes combining marks after NFD decomposition, turning
// "Café" into "Cafe".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Dedup returns the surviving postings in arrival order plus the number of
// duplicates removed. First-seen wins in both passes.
func Dedup(postings []types.Posting) ([]types.Posting, int) {
	byURL := make([]types.Posting, 0, len(postings))
	seenURL := make(map[string]bool, len(postings))

	for _, p := range postings {
		if p.JobURL != "" {
			if seenURL[p.JobURL] {
				continue
			}
			seenURL[p.JobURL] = true
		}
		byURL = append(byURL, p)
	}

	out := make([]types.Posting, 0, len(byURL))
	seenKey := make(map[string]bool, len(byURL))

	for _, p := range byURL {
		key := Key(p.Title, p.Company)
		if seenKey[key] {
			continue
		}
		seenKey[key] = true
		out = append(out, p)
	}

	return out, len(postings) - len(out)
}

// Key builds the fuzzy dedup key: normalize(title) + "|" + normalize(company).
func Key(title, company string) string {
	return normalize(title) + "|" + normalize(company)
}

// normalize lower-cases, strips a pipe-delimited suffix (trailing qualifiers
// such as "| International Students"), strips diacritics, removes all
// non-alphanumeric characters and collapses whitespace.
func normalize(s string) string {
	s = strings.ToLower(s)

	if i := strings.Index(s, "|"); i >= 0 {
		s = s[:i]
	}

	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
