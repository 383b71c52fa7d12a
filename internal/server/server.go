// Package server exposes the worker HTTP API that queues scrape jobs.
package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"jobhunter/internal/types"
)

// Version is stamped at build time.
var Version = "dev"

// JobRunner executes one queued scrape job; satisfied by the pipeline layer.
type JobRunner func(ctx context.Context, req *types.ScrapeRequest)

// Server is the worker API.
type Server struct {
	app      *fiber.App
	log      *zap.Logger
	secret   string
	runJob   JobRunner
	validate *validator.Validate
}

// New builds the API around a job runner. secret is the shared bearer token
// required on scrape submissions.
func New(secret string, runJob JobRunner, log *zap.Logger) *Server {
	s := &Server{
		log:      log.Named("server"),
		secret:   secret,
		runJob:   runJob,
		validate: validator.New(),
	}

	app := fiber.New(fiber.Config{
		AppName: "jobhunter",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(recover.New())

	app.Get("/health", s.health)
	app.Post("/api/scrape", s.auth, s.scrape)

	s.app = app
	return s
}

// App exposes the fiber app for serving and tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves until the listener fails or Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info("listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// auth enforces the static shared-secret scheme. A worker deployed without a
// secret refuses submissions outright rather than accepting everything.
func (s *Server) auth(c *fiber.Ctx) error {
	if s.secret == "" {
		s.log.Error("scrape submission rejected: no api secret configured")
		return fiber.NewError(fiber.StatusInternalServerError, "server is not configured for submissions")
	}

	header := c.Get(fiber.HeaderAuthorization)
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token != s.secret {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or missing bearer token")
	}
	return c.Next()
}

func (s *Server) scrape(c *fiber.Ctx) error {
	var req types.ScrapeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}
	if err := s.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request: "+err.Error())
	}

	s.log.Info("scrape queued",
		zap.String("submission_id", req.SubmissionID),
		zap.String("email", req.Email))

	// the run outlives the request; it carries its own context
	go s.runJob(context.Background(), &req)

	return c.Status(fiber.StatusAccepted).JSON(types.ScrapeStatus{
		SubmissionID: req.SubmissionID,
		Status:       "queued",
		Message:      "scrape job accepted",
	})
}
