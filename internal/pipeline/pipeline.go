// Package pipeline orchestrates one aggregation run: it drives the adapter
// invocation matrix, merges and deduplicates the results, classifies and
// scores every posting and returns them ranked.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"jobhunter/internal/classify"
	"jobhunter/internal/dedup"
	"jobhunter/internal/scoring"
	"jobhunter/internal/scrape"
	"jobhunter/internal/types"
)

// Phase is the run state. Adapter failures never reach PhaseFailed; only a
// configuration error does.
type Phase string

const (
	PhaseInit      Phase = "init"
	PhaseScraping  Phase = "scraping"
	PhaseFiltering Phase = "filtering"
	PhaseScoring   Phase = "scoring"
	PhaseDone      Phase = "done"
	PhaseFailed    Phase = "failed"
)

// ErrConfiguration marks the one fatal error class: a run that cannot start.
var ErrConfiguration = errors.New("invalid run configuration")

// remoteLocation is the virtual whole-country location used by the
// remote-only pass; no adapter location table carries it, so every adapter
// falls back to its national scope.
const remoteLocation = "Australia"

// Options configures one run.
type Options struct {
	Cities   []string
	Terms    []string
	Adapters []scrape.Adapter

	Profile     *types.ResumeProfile
	Weights     types.ScoringWeights
	Tuning      scoring.Tuning
	SkillPoints map[string]float64

	// FilterToTargetCities drops postings whose location names none of the
	// target cities, "remote" or the country.
	FilterToTargetCities bool
	// RemotePass adds one whole-country remote query per term.
	RemotePass bool

	Log *zap.Logger
}

// Result is the ranked output of one run.
type Result struct {
	Postings []types.Posting
	Stats    types.RunStats
}

// Runner executes runs. It is single-use: one Runner per run.
type Runner struct {
	opts   Options
	log    *zap.Logger
	phase  Phase
	merged []types.Posting
	stats  types.RunStats
}

// New validates the options and builds a Runner. Missing cities, terms,
// adapters or profile are configuration errors; nothing else is.
func New(opts Options) (*Runner, error) {
	switch {
	case len(opts.Cities) == 0:
		return nil, fmt.Errorf("%w: no locations", ErrConfiguration)
	case len(opts.Terms) == 0:
		return nil, fmt.Errorf("%w: no search terms", ErrConfiguration)
	case len(opts.Adapters) == 0:
		return nil, fmt.Errorf("%w: no source adapters", ErrConfiguration)
	case opts.Profile == nil:
		return nil, fmt.Errorf("%w: no resume profile", ErrConfiguration)
	}

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{
		opts:  opts,
		log:   log.Named("pipeline"),
		phase: PhaseInit,
		stats: types.NewRunStats(),
	}, nil
}

// Phase reports the run state.
func (r *Runner) Phase() Phase { return r.phase }

// Run executes the full pipeline. An empty result set is a normal Done
// outcome; adapter failures are tallied, logged and skipped.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.phase = PhaseScraping
	r.scrapeAll(ctx)

	r.phase = PhaseFiltering
	postings := r.filter()

	r.phase = PhaseScoring
	r.score(postings)

	sort.SliceStable(postings, func(i, j int) bool {
		return postings[i].Score > postings[j].Score
	})

	for i := range postings {
		r.stats.Count(&postings[i])
	}

	r.phase = PhaseDone
	r.log.Info("run complete",
		zap.Int("jobs", len(postings)),
		zap.Int("duplicates_removed", r.stats.DuplicatesRemoved),
		zap.Int("adapter_failures", r.stats.AdapterFailures),
		zap.Any("top_companies", r.stats.TopCompanies(5)))

	return &Result{Postings: postings, Stats: r.stats}, nil
}

// scrapeAll drives the invocation matrix. Iteration order is deliberate and
// documented: locations outer, terms inner, so earlier cities and terms win
// dedup ties. Term-agnostic adapters run once per city outside the term loop;
// nationally-scoped adapters run once per term after the city loop; the
// remote pass runs last.
func (r *Runner) scrapeAll(ctx context.Context) {
	for _, city := range r.opts.Cities {
		for _, a := range r.opts.Adapters {
			if caps := a.Capabilities(); caps.IgnoresSearchTerm && !caps.NationalScope {
				r.invoke(ctx, a, "", city, false)
			}
		}
		for _, term := range r.opts.Terms {
			for _, a := range r.opts.Adapters {
				if caps := a.Capabilities(); !caps.IgnoresSearchTerm && !caps.NationalScope {
					r.invoke(ctx, a, term, city, false)
				}
			}
		}
	}

	for _, term := range r.opts.Terms {
		for _, a := range r.opts.Adapters {
			if caps := a.Capabilities(); caps.NationalScope && !caps.IgnoresSearchTerm {
				r.invoke(ctx, a, term, "", false)
			}
		}
	}
	for _, a := range r.opts.Adapters {
		if caps := a.Capabilities(); caps.NationalScope && caps.IgnoresSearchTerm {
			r.invoke(ctx, a, "", "", false)
		}
	}

	if r.opts.RemotePass {
		for _, term := range r.opts.Terms {
			for _, a := range r.opts.Adapters {
				if caps := a.Capabilities(); !caps.IgnoresSearchTerm && !caps.NationalScope {
					r.invoke(ctx, a, term, remoteLocation, true)
				}
			}
		}
	}
}

// invoke runs a single adapter query and accumulates its postings. Any error
// ends that source's contribution to this query only.
func (r *Runner) invoke(ctx context.Context, a scrape.Adapter, term, city string, remote bool) {
	if ctx.Err() != nil {
		return
	}

	postings, err := a.Fetch(ctx, term, city)
	if err != nil {
		r.stats.AdapterFailures++
		r.log.Warn("source failed",
			zap.String("site", a.Name()),
			zap.String("term", term),
			zap.String("city", city),
			zap.Error(err))
		return
	}

	if remote {
		for i := range postings {
			postings[i].IsRemote = true
		}
	}

	r.log.Debug("source done",
		zap.String("site", a.Name()),
		zap.String("term", term),
		zap.String("city", city),
		zap.Int("jobs", len(postings)))

	r.merged = append(r.merged, postings...)
}

// filter deduplicates the merged set and, when requested, drops postings
// located outside the target cities.
func (r *Runner) filter() []types.Posting {
	postings, removed := dedup.Dedup(r.merged)
	r.stats.DuplicatesRemoved = removed

	if !r.opts.FilterToTargetCities {
		return postings
	}

	kept := postings[:0]
	for _, p := range postings {
		if r.inTargetArea(&p) {
			kept = append(kept, p)
		} else {
			r.stats.LocationFiltered++
		}
	}
	return kept
}

// inTargetArea reports whether a posting's location names a target city,
// "remote" or the country. Empty locations are kept; dropping them would
// discard nationally-advertised roles.
func (r *Runner) inTargetArea(p *types.Posting) bool {
	if p.IsRemote || p.Location == "" {
		return true
	}
	loc := strings.ToLower(p.Location)
	if strings.Contains(loc, "remote") || strings.Contains(loc, "australia") {
		return true
	}
	for _, city := range r.opts.Cities {
		name := strings.ToLower(strings.TrimSpace(strings.SplitN(city, ",", 2)[0]))
		if name != "" && strings.Contains(loc, name) {
			return true
		}
	}
	return false
}

// score classifies then scores every posting in place. Seniority defaults to
// mid when no pattern matches.
func (r *Runner) score(postings []types.Posting) {
	params := scoring.Params{
		Profile:       r.opts.Profile,
		Weights:       r.opts.Weights,
		Tuning:        r.opts.Tuning,
		SkillPoints:   r.opts.SkillPoints,
		LocationPrefs: scoring.BuildLocationPrefs(r.opts.Cities),
		TitlePrefs:    scoring.BuildTitlePrefs(r.opts.Profile.Titles),
	}
	if params.Tuning.TierBonuses == nil {
		params.Tuning = scoring.DefaultTuning()
	}

	for i := range postings {
		p := &postings[i]
		p.Tier = classify.Tier(p.Company)
		p.Seniority = classify.Seniority(p.Title)
		if p.Seniority == "" {
			p.Seniority = types.SeniorityMid
		}
		p.Score = scoring.Score(p, params)
	}
}
