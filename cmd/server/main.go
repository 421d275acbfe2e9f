package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"pollcast/internal/platform/config"
	"pollcast/internal/platform/httpserver"
	"pollcast/internal/platform/logger"
	platformmetrics "pollcast/internal/platform/metrics"
	"pollcast/internal/platform/redis"
	"pollcast/internal/poll/broadcast"
	"pollcast/internal/poll/handler"
	pollmetrics "pollcast/internal/poll/metrics"
	"pollcast/internal/poll/service"
	"pollcast/internal/poll/sweeper"
	"pollcast/pkg/platform/httputil"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and supervises the HTTP server, the expiry sweeper,
// and the optional Redis relay. Business logic lives in internal/poll.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pollMetrics := pollmetrics.New(reg)
	httpMetrics := platformmetrics.New(reg)

	st, closeStore := selectStore(ctx, cfg.Database, log)
	defer closeStore()

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, results relay disabled", "error", err)
		redisClient = nil
	}

	hubOpts := []broadcast.Option{
		broadcast.WithBufferSize(cfg.Poll.SubscriberBuffer),
		broadcast.WithLogger(log),
		broadcast.WithMetrics(pollMetrics),
	}
	var relay *broadcast.RedisRelay
	if redisClient != nil {
		defer redisClient.Close()
		relay = broadcast.NewRedisRelay(redisClient,
			broadcast.WithInboxSize(cfg.Poll.RelayBuffer),
			broadcast.WithRelayLogger(log),
			broadcast.WithRelayMetrics(pollMetrics),
		)
		hubOpts = append(hubOpts, broadcast.WithRelay(relay))
	}
	hub := broadcast.NewHub(hubOpts...)

	svc := service.New(st,
		service.WithLogger(log),
		service.WithMetrics(pollMetrics),
		service.WithPublisher(hub),
	)

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				status["redis"] = "degraded"
			}
		}
		httputil.WriteJSON(w, http.StatusOK, status)
	})
	handler.New(svc, hub, log, httpMetrics, handler.WithRequestTimeout(cfg.Server.RequestTimeout)).Register(router)

	srv := httpserver.New(cfg.Server.Addr, router)
	sw := sweeper.New(svc,
		sweeper.WithInterval(cfg.Poll.SweepInterval),
		sweeper.WithLogger(log),
		sweeper.WithMetrics(pollMetrics),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting pollcast", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return sw.Run(gctx)
	})
	if relay != nil {
		g.Go(func() error {
			return relay.Run(gctx)
		})
	}
	return g.Wait()
}
