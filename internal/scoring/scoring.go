// Package scoring computes posting relevance scores against a resume profile.
//
// The score is a weighted, capped additive model: flat tier and location
// bonuses, per-pattern title bonuses, capped skill and keyword overlap, a
// fixed seniority penalty table and a domain-fit deduction. The output is an
// unbounded relative ranking signal, not a probability. Scoring is fully
// deterministic: no randomness, no wall-clock reads.
package scoring

import (
	"regexp"
	"strings"

	"jobhunter/internal/types"
)

// LocationPref is one preferred city with its flat bonus; earlier preferences
// carry higher points.
type LocationPref struct {
	City   string  `json:"city"`
	Points float64 `json:"points"`
}

// TitlePref is one title phrase pattern with its flat bonus. Patterns are not
// mutually exclusive; every matching pattern contributes.
type TitlePref struct {
	Term   string  `json:"term"`
	Points float64 `json:"points"`
}

// Tuning holds the numeric constants of the model. The structure of the model
// is fixed; the magnitudes were tuned ad hoc upstream and are therefore
// configuration, not algorithmic truth.
type Tuning struct {
	TierBonuses       map[string]float64 `json:"tier_bonuses"`
	RemoteBonus       float64            `json:"remote_bonus"`
	SkillPointDefault float64            `json:"skill_point_default"`
	SkillCap          float64            `json:"skill_cap"`
	KeywordPoint      float64            `json:"keyword_point"`
	KeywordCap        float64            `json:"keyword_cap"`
	SponsorshipBonus  float64            `json:"sponsorship_bonus"`
	RecencyBonus      float64            `json:"recency_bonus"`
	SeniorityPenalty  map[string]float64 `json:"seniority_penalty"`
	ResearchPenalty   float64            `json:"research_penalty"`
}

// DefaultTuning returns the tuning used by the original ranking runs.
func DefaultTuning() Tuning {
	return Tuning{
		TierBonuses: map[string]float64{
			types.TierBigTech:   30,
			types.TierAUNotable: 25,
			types.TierTopTech:   20,
		},
		RemoteBonus:       5,
		SkillPointDefault: 3,
		SkillCap:          30,
		KeywordPoint:      2,
		KeywordCap:        20,
		SponsorshipBonus:  8,
		RecencyBonus:      4,
		SeniorityPenalty: map[string]float64{
			types.SeniorityExecutive: -30,
			types.SeniorityDirector:  -30,
			types.SeniorityStaff:     -20,
			types.SeniorityIntern:    -20,
			types.SenioritySenior:    -10,
			types.SeniorityLead:      -10,
			types.SeniorityMid:       0,
			types.SeniorityJunior:    0,
		},
		ResearchPenalty: -15,
	}
}

// DefaultTitlePrefs are the broad phrase bonuses applied when the caller
// supplies no resume-derived title preferences.
func DefaultTitlePrefs() []TitlePref {
	return []TitlePref{
		{Term: "full stack", Points: 15},
		{Term: "fullstack", Points: 15},
		{Term: "full-stack", Points: 15},
		{Term: "frontend", Points: 12},
		{Term: "front-end", Points: 12},
		{Term: "front end", Points: 12},
		{Term: "software engineer", Points: 10},
		{Term: "web developer", Points: 8},
		{Term: "ai engineer", Points: 8},
		{Term: "ml engineer", Points: 8},
		{Term: "machine learning", Points: 8},
	}
}

// researchRolePattern flags adjacent but undesired pure-research roles.
var researchRolePattern = regexp.MustCompile(`(?i)\b(data scientist|research scientist|researcher|research fellow|postdoc)\b`)

// sponsorshipPattern detects explicit visa/sponsorship-friendly postings.
var sponsorshipPattern = regexp.MustCompile(`(?i)\bvisa\s+sponsor|sponsorship available\b`)

// recencyPattern detects freshly-posted listings without reading the clock;
// date_posted stays an opaque display string otherwise.
var recencyPattern = regexp.MustCompile(`(?i)\b(just posted|today|hours? ago|minutes? ago)\b`)

// Params bundles the profile-derived inputs of one scoring pass.
type Params struct {
	Profile       *types.ResumeProfile
	Weights       types.ScoringWeights
	Tuning        Tuning
	SkillPoints   map[string]float64 // lowercase skill name -> points; falls back to SkillPointDefault
	LocationPrefs []LocationPref
	TitlePrefs    []TitlePref
}

// Score computes the relevance score of one posting. The posting's Tier and
// Seniority must already be assigned by the classifier.
func Score(p *types.Posting, params Params) float64 {
	w := params.Weights.Normalized()
	tuning := params.Tuning

	title := strings.ToLower(p.Title)
	description := strings.ToLower(p.Description)
	location := strings.ToLower(p.Location)

	score := 0.0

	// Company tier: one flat bonus, decided by the classifier's priority
	// order even when several sets would match.
	score += tuning.TierBonuses[p.Tier] * w.CompanyTier

	// Location: first preferred-city match wins.
	for _, pref := range params.LocationPrefs {
		if pref.City != "" && strings.Contains(location, strings.ToLower(pref.City)) {
			score += pref.Points * w.Location
			break
		}
	}
	if p.IsRemote || strings.Contains(location, "remote") {
		score += tuning.RemoteBonus * w.Location
	}

	// Title phrases: every matching pattern contributes.
	for _, pref := range params.TitlePrefs {
		if pref.Term != "" && strings.Contains(title, strings.ToLower(pref.Term)) {
			score += pref.Points * w.TitleMatch
		}
	}

	// Skill overlap against description or title, capped so keyword-stuffed
	// postings cannot dominate the ranking.
	if params.Profile != nil {
		skillScore := 0.0
		for _, skill := range params.Profile.Skills {
			lower := strings.ToLower(skill)
			if lower == "" {
				continue
			}
			if strings.Contains(description, lower) || strings.Contains(title, lower) {
				points := tuning.SkillPointDefault
				if override, ok := params.SkillPoints[lower]; ok {
					points = override
				}
				skillScore += points
			}
		}
		if skillScore > tuning.SkillCap {
			skillScore = tuning.SkillCap
		}
		score += skillScore * w.Skills

		// Keyword overlap against the description only, independently capped.
		keywordScore := 0.0
		for _, kw := range params.Profile.Keywords {
			lower := strings.ToLower(kw)
			if lower != "" && strings.Contains(description, lower) {
				keywordScore += tuning.KeywordPoint
			}
		}
		if keywordScore > tuning.KeywordCap {
			keywordScore = tuning.KeywordCap
		}
		score += keywordScore * w.Skills
	}

	// Sponsorship-friendly postings.
	if sponsorshipPattern.MatchString(title) || sponsorshipPattern.MatchString(description) {
		score += tuning.SponsorshipBonus * w.Sponsorship
	}

	// Freshness, judged from the display string only.
	if recencyPattern.MatchString(p.DatePosted) {
		score += tuning.RecencyBonus * w.Recency
	}

	// Seniority fit: a fixed lookup per level, not proportional.
	score += tuning.SeniorityPenalty[p.Seniority]

	// Domain fit: pure research roles are adjacent but undesired.
	if researchRolePattern.MatchString(title) {
		score += tuning.ResearchPenalty
	}

	return score
}

// BuildLocationPrefs turns an ordered city list into location preferences:
// the first choice scores highest, the rest share a lower bonus.
func BuildLocationPrefs(locations []string) []LocationPref {
	prefs := make([]LocationPref, 0, len(locations))
	for i, loc := range locations {
		city := strings.ToLower(strings.TrimSpace(strings.SplitN(loc, ",", 2)[0]))
		if city == "" {
			continue
		}
		points := 12.0
		if i == 0 {
			points = 15.0
		}
		prefs = append(prefs, LocationPref{City: city, Points: points})
	}
	return prefs
}

// seniorityPrefixes are stripped from resume titles to derive generalized
// search-friendly forms.
var seniorityPrefixes = []string{
	"junior ", "senior ", "lead ", "staff ", "principal ",
	"intern ", "graduate ", "mid-level ", "entry-level ",
}

// BuildTitlePrefs derives title preferences from the candidate's own resume
// titles: the exact title scores highest, its generalized form (seniority
// prefix stripped) a little less, and broad catch-alls are always appended.
func BuildTitlePrefs(titles []string) []TitlePref {
	prefs := make([]TitlePref, 0, len(titles)*2+4)
	seen := make(map[string]bool)

	for _, t := range titles {
		term := strings.ToLower(strings.TrimSpace(t))
		if term != "" && !seen[term] {
			prefs = append(prefs, TitlePref{Term: term, Points: 18})
			seen[term] = true
		}

		generalized := term
		for _, prefix := range seniorityPrefixes {
			if strings.HasPrefix(generalized, prefix) {
				generalized = strings.TrimPrefix(generalized, prefix)
				break
			}
		}
		if generalized != "" && generalized != term && !seen[generalized] {
			prefs = append(prefs, TitlePref{Term: generalized, Points: 14})
			seen[generalized] = true
		}
	}

	broad := []TitlePref{
		{Term: "software engineer", Points: 10},
		{Term: "software developer", Points: 10},
		{Term: "developer", Points: 8},
		{Term: "engineer", Points: 8},
	}
	for _, b := range broad {
		if !seen[b.Term] {
			prefs = append(prefs, b)
			seen[b.Term] = true
		}
	}

	return prefs
}
