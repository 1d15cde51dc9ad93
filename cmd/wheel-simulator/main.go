package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/roulette-table/internal/roulette/outcome"
	"github.com/radieske/roulette-table/internal/shared/config"
	"github.com/radieske/roulette-table/internal/shared/logger"
	"github.com/radieske/roulette-table/internal/shared/metrics"
	wheel "github.com/radieske/roulette-table/internal/wheel-simulator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	src := outcome.NewRandomSource(time.Now().UnixNano())
	s := wheel.NewServer(log, src, prometheus.DefaultRegisterer)

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	msrv := metrics.StartMetricsServer(log, cfg.MetricsPort, nil)

	// Servidor público (/spin)
	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: s.Handler()}
	go func() {
		log.Info("wheel simulator running", zap.String("addr", srv.Addr), zap.String("paths", "/spin"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("public server error", zap.Error(err))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	_ = srv.Shutdown(shutdown)
	_ = msrv.Shutdown(shutdown)
	log.Info("wheel simulator stopped")
}
