package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobhunter/internal/callback"
	"jobhunter/internal/config"
	"jobhunter/internal/digest"
	"jobhunter/internal/logger"
	"jobhunter/internal/pipeline"
	"jobhunter/internal/scrape"
	"jobhunter/internal/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one aggregation pass and rank the results",
	RunE:  runOnce,
}

func init() {
	runCmd.Flags().StringP("profile", "p", "", "path to the parsed profile JSON file")
	runCmd.Flags().StringSlice("locations", nil, "target cities in priority order")
	runCmd.Flags().StringSlice("roles", nil, "search terms")
	runCmd.Flags().String("output-dir", "", "directory for the CSV export")
	runCmd.Flags().Float64("min-score", 0, "digest score threshold")
	runCmd.Flags().Bool("dry-run", false, "render the digest to a file instead of sending email")

	viper.BindPFlag("profile-file", runCmd.Flags().Lookup("profile"))
	viper.BindPFlag("locations", runCmd.Flags().Lookup("locations"))
	viper.BindPFlag("roles", runCmd.Flags().Lookup("roles"))
	viper.BindPFlag("output-dir", runCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("min-score", runCmd.Flags().Lookup("min-score"))

	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zlog.Sync()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if cfg.ProfileFile == "" {
		return fmt.Errorf("a profile file is required (--profile or JOBHUNTER_PROFILE_FILE)")
	}

	profile, err := config.LoadProfile(cfg.ProfileFile)
	if err != nil {
		return err
	}

	if cfg.ChromeBinary != "" {
		os.Setenv("CHROME_BINARY", cfg.ChromeBinary)
	}
	browser := scrape.NewBrowserSession(zlog)
	defer browser.Close()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	var mailer digest.Mailer = digest.NewSMTPMailer(cfg.SMTP, zlog)
	if dryRun || cfg.SMTP.Host == "" {
		mailer = digest.NewFileMailer(cfg.OutputDir, zlog)
	}

	req := &types.ScrapeRequest{
		SubmissionID: uuid.NewString(),
		Email:        cfg.SMTP.To,
		Profile:      *profile,
		Preferences: types.Preferences{
			Locations: cfg.Locations,
			Roles:     cfg.Roles,
		},
	}

	result, err := pipeline.RunJob(ctx, req, pipeline.JobDeps{
		Cfg:      cfg,
		Adapters: scrape.Default(browser, zlog),
		Mailer:   mailer,
		Notifier: callback.New(cfg.Callback.URL, cfg.Callback.Secret, zlog),
		Log:      zlog,
	})
	if err != nil {
		return err
	}

	zlog.Info("run finished",
		zap.Int("jobs", len(result.Postings)),
		zap.Any("by_site", result.Stats.BySite))
	return nil
}
