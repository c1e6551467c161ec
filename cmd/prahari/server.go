package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"

	"github.com/bulletin-labs/prahari/audit"
	"github.com/bulletin-labs/prahari/audit/cachestore"
	"github.com/bulletin-labs/prahari/audit/countstore"
	"github.com/bulletin-labs/prahari/audit/engine"
	"github.com/bulletin-labs/prahari/audit/lexstore"
)

type Server struct {
	logger *slog.Logger
	engine *audit.Engine
	echo   *echo.Echo
}

type Config struct {
	LexiconFile     string
	RedisURL        string
	RedisLexicon    bool
	SlackWebhookURL string
	DisableCaching  bool
	Logger          *slog.Logger
}

func NewServer(config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	var lexicons lexstore.LexiconStore
	var counters countstore.CountStore
	var cache cachestore.CacheStore
	if config.RedisURL != "" {
		cnt, err := countstore.NewRedisCountStore(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis countstore: %w", err)
		}
		counters = cnt

		csh, err := cachestore.NewRedisCacheStore(config.RedisURL, 30*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("initializing redis cachestore: %w", err)
		}
		cache = csh
	} else {
		counters = countstore.NewMemCountStore()
		cache = cachestore.NewMemCacheStore(5_000, 30*time.Minute)
	}

	if config.RedisLexicon {
		if config.RedisURL == "" {
			return nil, fmt.Errorf("redis lexicon requires a redis URL")
		}
		lxs, err := lexstore.NewRedisLexiconStore(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis lexicon store: %w", err)
		}
		lexicons = lxs
		logger.Info("loaded lexicon config from redis")
	} else {
		lxs, err := lexstore.NewFileLexiconStore(config.LexiconFile)
		if err != nil {
			return nil, fmt.Errorf("initializing lexicon store: %w", err)
		}
		lexicons = lxs
		logger.Info("loaded lexicon config from JSON", "path", config.LexiconFile)
	}

	eng := audit.Engine{
		Logger:   logger,
		Lexicons: lexicons,
		Counters: counters,
		Cache:    cache,
		Config: audit.EngineConfig{
			DisableCaching: config.DisableCaching,
		},
	}
	if config.SlackWebhookURL != "" {
		logger.Info("configuring slack alert delivery")
		eng.Notifier = engine.NewSlackNotifier(config.SlackWebhookURL)
	}

	return &Server{
		logger: logger,
		engine: &eng,
	}, nil
}

type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"msg,omitempty"`
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	if _, err := s.engine.Lexicons.Snapshot(c.Request().Context()); err != nil {
		return c.JSON(500, HealthStatus{Status: "error", Message: "no lexicon snapshot loaded"})
	}
	return c.JSON(200, HealthStatus{Status: "ok"})
}

type auditRequest struct {
	ContentID   string            `json:"content_id"`
	ContentType audit.ContentType `json:"content_type"`
	Text        string            `json:"text"`
}

func (s *Server) handleAudit(c echo.Context) error {
	var req auditRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	verdict, err := s.engine.Audit(c.Request().Context(), req.ContentID, req.ContentType, req.Text)
	if err != nil {
		return mapEngineError(err)
	}
	return c.JSON(200, verdict)
}

type remediateResponse struct {
	Verdict *audit.Verdict `json:"verdict"`
	Error   string         `json:"error,omitempty"`
}

func (s *Server) handleRemediate(c echo.Context) error {
	var req auditRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	verdict, err := s.engine.RemediateIfNeeded(c.Request().Context(), req.ContentID, req.ContentType, req.Text)
	if err != nil && verdict != nil {
		// remediation did not converge: surface the partial verdict
		return c.JSON(http.StatusUnprocessableEntity, remediateResponse{Verdict: verdict, Error: err.Error()})
	}
	if err != nil {
		return mapEngineError(err)
	}
	return c.JSON(200, remediateResponse{Verdict: verdict})
}

func (s *Server) handleProcess(c echo.Context) error {
	var req auditRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	report, err := s.engine.ProcessContent(c.Request().Context(), req.ContentID, req.ContentType, req.Text)
	if err != nil {
		return mapEngineError(err)
	}
	return c.JSON(200, report)
}

func mapEngineError(err error) error {
	if errors.Is(err, audit.ErrUnsupportedContentType) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

func (s *Server) handleReloadLexicon(c echo.Context) error {
	if err := s.engine.Lexicons.Reload(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	lex, err := s.engine.Lexicons.Snapshot(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	s.logger.Info("lexicon reloaded", "version", lex.Version())
	return c.JSON(200, map[string]string{"lexicon_version": lex.Version()})
}

func (s *Server) RunAPI(listen string) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(slogecho.New(s.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		code := 500
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}
		s.logger.Warn("HTTP request error", "statusCode", code, "path", ctx.Path(), "err", err)
		ctx.Response().WriteHeader(code)
	}

	e.GET("/_health", s.handleHealthCheck)
	e.POST("/audit", s.handleAudit)
	e.POST("/remediate", s.handleRemediate)
	e.POST("/process", s.handleProcess)
	e.POST("/admin/reload-lexicon", s.handleReloadLexicon)
	s.echo = e

	s.logger.Info("starting audit API daemon", "listen", listen)
	return s.echo.Start(listen)
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
