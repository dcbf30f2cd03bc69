package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"goodstore/app/config"
	"goodstore/app/service/sessions"
	"goodstore/app/service/venues"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

const shutdownTimeout = 5 * time.Second

var _ do.Shutdownable = (*Server)(nil)

type Server struct {
	listen   string
	app      *fiber.App
	venues   *venues.Service
	sessions *sessions.Registry
	validate *validator.Validate
}

func New(di *do.Injector) (*Server, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewServer(
		cfg.HTTP.Listen,
		do.MustInvoke[*venues.Service](di),
		do.MustInvoke[*sessions.Registry](di),
	), nil
}

func NewServer(listen string, venueService *venues.Service, registry *sessions.Registry) *Server {
	s := &Server{
		listen:   listen,
		venues:   venueService,
		sessions: registry,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "goodstore",
		DisableStartupMessage: true,
		ErrorHandler:          handleFiberError,
	})

	s.setupRoutes()

	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		slog.Info("HTTP server listening", "addr", s.listen)
		errChan <- s.app.Listen(s.listen)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(shutdownTimeout)
}

func handleFiberError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(ErrorResponse{
			Error:   "http_error",
			Message: fiberErr.Message,
		})
	}

	slog.Error("Unhandled API error", "path", c.Path(), "error", err)

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "Internal server error",
	})
}
