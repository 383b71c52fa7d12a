package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"jobhunter/internal/callback"
	"jobhunter/internal/config"
	"jobhunter/internal/digest"
	"jobhunter/internal/export"
	"jobhunter/internal/scrape"
	"jobhunter/internal/types"
)

// Notifier posts final results downstream; satisfied by callback.Client.
type Notifier interface {
	Deliver(ctx context.Context, payload *callback.Payload) error
}

// JobDeps are the collaborators of one end-to-end job. Mailer and Notifier
// may be nil when the corresponding delivery is not configured.
type JobDeps struct {
	Cfg      *config.Config
	Adapters []scrape.Adapter
	Mailer   digest.Mailer
	Notifier Notifier
	Log      *zap.Logger
}

// RunJob executes one complete scrape job for a request: profile conversion,
// the pipeline run, CSV export, digest email and the downstream callback.
// Boundary delivery failures (export, mail, callback) are logged and do not
// fail the job; only a run that cannot start does.
func RunJob(ctx context.Context, req *types.ScrapeRequest, deps JobDeps) (*Result, error) {
	log := deps.Log.With(zap.String("submission_id", req.SubmissionID))

	resume, skillPoints := config.ConvertProfile(&req.Profile)

	locations := config.ResolveLocations(req.Preferences.Locations)
	roles := req.Preferences.Roles
	if len(roles) == 0 {
		roles = append([]string(nil), config.DefaultRoles...)
	}

	weights := types.DefaultScoringWeights()
	if req.ScoringWeights != nil {
		weights = *req.ScoringWeights
	}

	runner, err := New(Options{
		Cities:               locations,
		Terms:                roles,
		Adapters:             deps.Adapters,
		Profile:              resume,
		Weights:              weights,
		SkillPoints:          skillPoints,
		FilterToTargetCities: deps.Cfg.CityFilter,
		RemotePass:           deps.Cfg.RemotePass,
		Log:                  log,
	})
	if err != nil {
		log.Error("job cannot start", zap.Error(err))
		notify(ctx, deps.Notifier, callback.BuildPayload(req.SubmissionID, "failed", err, nil), log)
		return nil, err
	}

	result, err := runner.Run(ctx)
	if err != nil {
		log.Error("job failed", zap.Error(err))
		notify(ctx, deps.Notifier, callback.BuildPayload(req.SubmissionID, "failed", err, nil), log)
		return nil, err
	}

	if deps.Cfg.OutputDir != "" {
		if path, err := export.WriteCSV(deps.Cfg.OutputDir, result.Postings, time.Now()); err != nil {
			log.Warn("csv export failed", zap.Error(err))
		} else {
			log.Info("results exported", zap.String("path", path))
		}
	}

	if deps.Mailer != nil {
		if d, err := digest.Build(result.Postings, result.Stats, deps.Cfg.MinScore); err != nil {
			log.Warn("digest rendering failed", zap.Error(err))
		} else if err := deps.Mailer.Send(ctx, d); err != nil {
			log.Warn("digest delivery failed", zap.Error(err))
		}
	}

	notify(ctx, deps.Notifier, callback.BuildPayload(req.SubmissionID, "completed", nil, result.Postings), log)

	return result, nil
}

func notify(ctx context.Context, n Notifier, payload *callback.Payload, log *zap.Logger) {
	if n == nil {
		return
	}
	if err := n.Deliver(ctx, payload); err != nil {
		log.Warn("callback failed", zap.Error(err))
	}
}
