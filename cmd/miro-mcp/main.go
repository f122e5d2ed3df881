// Command miro-mcp serves Miro whiteboard operations to MCP clients over
// stdio, or over HTTP with --transport http.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/KamdynS/go-miro-mcp/config"
	"github.com/KamdynS/go-miro-mcp/logging"
	"github.com/KamdynS/go-miro-mcp/mcp"
	"github.com/KamdynS/go-miro-mcp/miro"
	obs "github.com/KamdynS/go-miro-mcp/observability"
	otelobs "github.com/KamdynS/go-miro-mcp/observability/otel"
	"github.com/KamdynS/go-miro-mcp/observability/prom"
	httpserver "github.com/KamdynS/go-miro-mcp/server/http"
	"github.com/KamdynS/go-miro-mcp/tools"
	"github.com/KamdynS/go-miro-mcp/tools/board"
)

const serviceName = "miro-mcp"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Getenv, os.Stderr))
}

// run returns the process exit code.
func run(ctx context.Context, args []string, getenv func(string) string, stderr io.Writer) int {
	cfg, err := config.Load(serviceName, args, getenv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return 1
	}

	logger, err := logging.NewWithOutput(cfg.Log, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return 1
	}

	app, err := newApp(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("startup failed")
		return 1
	}
	defer app.close()

	if err := app.serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("server stopped")
		return 1
	}
	return 0
}

type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	reg    *tools.DefaultRegistry
	boards *board.BoardResource
	// metrics is only set for the http transport, which serves /metrics.
	metrics *prometheus.Registry
	closers []func()
}

func newApp(cfg *config.Config, logger *logrus.Logger) (*app, error) {
	a := &app{cfg: cfg, log: logger}

	if cfg.Transport == config.TransportHTTP {
		a.metrics = prometheus.NewRegistry()
		a.metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		obs.SetMetrics(prom.New(a.metrics))
	} else {
		// Nothing scrapes a stdio server; totals are logged on exit.
		stats := obs.NewDefaultMetrics()
		obs.SetMetrics(stats)
		a.closers = append(a.closers, func() {
			logger.WithFields(logrus.Fields(stats.GetStats())).Info("session totals")
		})
	}

	if cfg.Tracing {
		tp := otelobs.NewProvider(serviceName, otelobs.NewLogExporter(logger))
		obs.SetTracer(otelobs.NewTracer(serviceName, tp))
		a.closers = append(a.closers, func() { _ = tp.Shutdown(context.Background()) })
	}

	client, err := miro.NewClient(miro.ClientConfig{
		Token:   cfg.Token,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	a.reg = tools.NewRegistry(tools.WithLogger(logger))
	if err := board.Register(a.reg, client, tools.NewValidator()); err != nil {
		return nil, err
	}
	a.boards = board.NewBoardResource(client)
	return a, nil
}

func (a *app) serve(ctx context.Context) error {
	switch a.cfg.Transport {
	case config.TransportHTTP:
		srv := httpserver.NewServer(a.reg, a.boards, httpserver.Config{
			Addr:      a.cfg.HTTP.Addr,
			RateLimit: a.cfg.HTTP.RateLimit,
			RateBurst: a.cfg.HTTP.Burst,
			Metrics:   prom.Handler(a.metrics),
			Logger:    a.log,
		})
		return srv.ListenAndServe(ctx)
	default:
		srv, err := mcp.NewServer(a.reg, a.boards, mcp.ServerConfig{Name: serviceName, Version: version, Logger: a.log})
		if err != nil {
			return err
		}
		// The resource template still serves every board when listing fails.
		if n, err := srv.PublishBoards(ctx); err != nil {
			a.log.WithError(err).Warn("could not list boards as resources")
		} else {
			a.log.WithField("boards", n).Debug("board resources published")
		}
		return srv.ServeStdio(ctx)
	}
}

func (a *app) close() {
	for _, c := range a.closers {
		c()
	}
}
