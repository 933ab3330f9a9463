// Package server serves the generated site locally and relays the two forms
// to the configured endpoint.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"calebs/ccsWebsite/internal/controller"
)

const (
	DefaultBodyLimit       = "64K"
	DefaultShutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Root is the generated site directory.
	Root      string
	Submitter controller.Submitter
	Log       *zap.Logger
	BodyLimit string
}

// Server is the local preview server.
type Server struct {
	echo *echo.Echo
	root string
	log  *zap.Logger
}

// New builds the router.
func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	limit := opts.BodyLimit
	if limit == "" {
		limit = DefaultBodyLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, root: opts.Root, log: log}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))

	e.GET("/healthz", Health)

	h := &FormHandler{submitter: opts.Submitter, log: log}
	api := e.Group("/api", middleware.BodyLimit(limit))
	api.POST("/enquiry", h.Enquiry)
	api.POST("/review", h.Review)

	if opts.Root != "" {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  opts.Root,
			Index: "index.html",
		}))
	}
	return s
}

// ServeHTTP lets the server be used as a plain handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving site", zap.String("addr", addr), zap.String("root", s.root))
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return s.echo.Shutdown(shutdownCtx)
	}
}

// handleError serves error.html for unknown pages and defers to echo otherwise.
func (s *Server) handleError(err error, c echo.Context) {
	var he *echo.HTTPError
	if c.Response().Committed || !errors.As(err, &he) || he.Code != http.StatusNotFound ||
		s.root == "" || strings.HasPrefix(c.Request().URL.Path, "/api/") {
		s.echo.DefaultHTTPErrorHandler(err, c)
		return
	}

	page, readErr := os.ReadFile(filepath.Join(s.root, "error.html"))
	if readErr != nil {
		s.echo.DefaultHTTPErrorHandler(err, c)
		return
	}
	if err := c.HTMLBlob(http.StatusNotFound, page); err != nil {
		s.log.Warn("failed to write error page", zap.Error(err))
	}
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Debug("request", fields...)
			return nil
		},
	})
}
