// Package server exposes the rota service as a JSON HTTP API.
package server

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/julianstephens/rota/internal/errors"
	"github.com/julianstephens/rota/internal/logger"
	"github.com/julianstephens/rota/internal/service"
)

type Config struct {
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// AccessLog is where request lines are written; nil means stderr.
	AccessLog io.Writer
}

// Server serves one request at a time: every handler holds mu across its
// load, mutate and save.
type Server struct {
	app *fiber.App
	svc *service.Service
	mu  sync.Mutex
}

func New(svc *service.Service, cfg Config) *Server {
	s := &Server{svc: svc}

	s.app = fiber.New(fiber.Config{
		AppName:               "rota",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	out := cfg.AccessLog
	if out == nil {
		out = os.Stderr
	}
	s.app.Use(recover.New())
	s.app.Use(fiberlogger.New(fiberlogger.Config{Output: out}))
	s.app.Use(s.countRequests)

	if cfg.Gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := s.app.Group("/api")
	api.Get("/schedule", s.serialized(s.getSchedule))
	api.Get("/schedule/day/:date", s.serialized(s.getDay))
	api.Post("/preferences", s.serialized(s.postPreference))
	api.Delete("/preferences", s.serialized(s.deletePreference))
	api.Post("/vacation", s.serialized(s.postVacation))
	api.Post("/solve", s.serialized(s.postSolve))
	api.Get("/validate", s.serialized(s.getValidate))
	api.Get("/runs", s.serialized(s.getRuns))

	return s
}

// App returns the underlying fiber app, for tests and embedding.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	logger.Info("Serving rota API", "addr", addr, "store", s.svc.Store.GetConfigPath())
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) serialized(h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return h(c)
	}
}

func (s *Server) countRequests(c *fiber.Ctx) error {
	err := c.Next()
	code := c.Response().StatusCode()
	if err != nil {
		code = statusFor(err)
	}
	s.svc.Metrics.RecordRequest(c.Route().Path, code)
	return err
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, apperrors.ErrUnknownDeveloper), errors.Is(err, apperrors.ErrUnknownWeek):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateDeveloper), errors.Is(err, apperrors.ErrDuplicateWeek),
		errors.Is(err, apperrors.ErrInfeasible):
		return fiber.StatusConflict
	case errors.Is(err, apperrors.ErrSolverTimeout):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError && code != fiber.StatusServiceUnavailable {
		logger.Error("Request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}
