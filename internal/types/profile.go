package types

// Skill tier labels as delivered by the upstream profile parser.
const (
	SkillTierCore       = "core"
	SkillTierStrong     = "strong"
	SkillTierPeripheral = "peripheral"
)

// Skill is one candidate skill with a confidence tier.
type Skill struct {
	Name string `json:"name" validate:"required"`
	Tier string `json:"tier,omitempty" validate:"omitempty,oneof=core strong peripheral"`
}

// Experience summarizes the candidate's overall experience band.
type Experience struct {
	Years int    `json:"years,omitempty"`
	Level string `json:"level,omitempty"`
}

// Profile is the AI-parsed candidate profile as received from the upstream
// collaborator (resume parsing itself is outside this system).
type Profile struct {
	Skills     []Skill     `json:"skills" validate:"dive"`
	Titles     []string    `json:"titles,omitempty"`
	Keywords   []string    `json:"keywords,omitempty"`
	Experience *Experience `json:"experience,omitempty"`
}

// ResumeProfile is the flattened, read-only profile consumed by the scorer.
// Skill and keyword matching is case-insensitive substring matching.
type ResumeProfile struct {
	Skills   []string
	Titles   []string
	Keywords []string
}

// ScoringWeights holds named multipliers for the scoring sub-score families.
// A zero-value family means "unset" and is defaulted to 1.0.
type ScoringWeights struct {
	CompanyTier float64 `json:"companyTier"`
	Location    float64 `json:"location"`
	TitleMatch  float64 `json:"titleMatch"`
	Skills      float64 `json:"skills"`
	Sponsorship float64 `json:"sponsorship"`
	Recency     float64 `json:"recency"`
	Culture     float64 `json:"culture"`
	Quality     float64 `json:"quality"`
}

// DefaultScoringWeights returns weights of 1.0 for every family.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		CompanyTier: 1.0,
		Location:    1.0,
		TitleMatch:  1.0,
		Skills:      1.0,
		Sponsorship: 1.0,
		Recency:     1.0,
		Culture:     1.0,
		Quality:     1.0,
	}
}

// Normalized returns a copy with unset (zero) families replaced by 1.0.
func (w ScoringWeights) Normalized() ScoringWeights {
	def := func(v float64) float64 {
		if v == 0 {
			return 1.0
		}
		return v
	}
	return ScoringWeights{
		CompanyTier: def(w.CompanyTier),
		Location:    def(w.Location),
		TitleMatch:  def(w.TitleMatch),
		Skills:      def(w.Skills),
		Sponsorship: def(w.Sponsorship),
		Recency:     def(w.Recency),
		Culture:     def(w.Culture),
		Quality:     def(w.Quality),
	}
}
