package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobhunter/internal/callback"
	"jobhunter/internal/config"
	"jobhunter/internal/digest"
	"jobhunter/internal/logger"
	"jobhunter/internal/pipeline"
	"jobhunter/internal/scrape"
	"jobhunter/internal/server"
	"jobhunter/internal/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the worker API that accepts queued scrape jobs",
	RunE:  serve,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func serve(_ *cobra.Command, _ []string) error {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zlog.Sync()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	if cfg.ChromeBinary != "" {
		os.Setenv("CHROME_BINARY", cfg.ChromeBinary)
	}
	browser := scrape.NewBrowserSession(zlog)
	defer browser.Close()

	var mailer digest.Mailer = digest.NewSMTPMailer(cfg.SMTP, zlog)
	notifier := callback.New(cfg.Callback.URL, cfg.Callback.Secret, zlog)

	runJob := func(ctx context.Context, req *types.ScrapeRequest) {
		_, err := pipeline.RunJob(ctx, req, pipeline.JobDeps{
			Cfg:      cfg,
			Adapters: scrape.Default(browser, zlog),
			Mailer:   mailer,
			Notifier: notifier,
			Log:      zlog,
		})
		if err != nil {
			zlog.Error("queued job failed",
				zap.String("submission_id", req.SubmissionID),
				zap.Error(err))
		}
	}

	srv := server.New(cfg.Server.Secret, runJob, zlog)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		zlog.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			zlog.Warn("shutdown error", zap.Error(err))
		}
	}()

	return srv.Listen(cfg.Server.Addr)
}
