package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/roulette-table/internal/roulette/bet"
	"github.com/radieske/roulette-table/internal/roulette/game"
	httpapi "github.com/radieske/roulette-table/internal/roulette/http"
	"github.com/radieske/roulette-table/internal/roulette/layout"
	"github.com/radieske/roulette-table/internal/roulette/ledger"
	rmetrics "github.com/radieske/roulette-table/internal/roulette/metrics"
	"github.com/radieske/roulette-table/internal/roulette/outcome"
	"github.com/radieske/roulette-table/internal/roulette/payout"
	"github.com/radieske/roulette-table/internal/roulette/stats"
	"github.com/radieske/roulette-table/internal/roulette/ws"
	"github.com/radieske/roulette-table/internal/shared/cache"
	"github.com/radieske/roulette-table/internal/shared/config"
	"github.com/radieske/roulette-table/internal/shared/db"
	"github.com/radieske/roulette-table/internal/shared/eventbus"
	"github.com/radieske/roulette-table/internal/shared/kafka"
	"github.com/radieske/roulette-table/internal/shared/logger"
	"github.com/radieske/roulette-table/internal/shared/metrics"
	"github.com/radieske/roulette-table/pkg/contracts/events"
)

func main() {
	// carrega config
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config: %w", err))
	}

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := rmetrics.New(prometheus.DefaultRegisterer)
	bus := eventbus.New(logger.Component(log, "eventbus"))

	// ledger + avaliador
	led := ledger.New(ledger.BusPublisher(bus))
	eval := payout.NewEvaluator(payout.DefaultTable(), logger.Component(log, "payout"))
	eval.OnAnomaly = func(bt bet.BetType) { m.PayoutAnomaly(bt.String()) }
	eventbus.Subscribe(bus, func(e events.BetLedgerChanged) error {
		m.LedgerChanged(e.Action)
		return nil
	})

	// Redis é opcional: sem ele o broadcast do ws fica local e /stats/summary lê o arquivo
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			log.Warn("redis unavailable, running without cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// sinks de estatística: arquivo local sempre, Kafka/Postgres quando configurados
	file := stats.OpenFileStore(cfg.StatsFile, logger.Component(log, "stats"))
	sinks := []stats.Sink{file}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		w := kafka.NewWriter(brokers, cfg.TopicRoundSettled)
		defer w.Close()
		sinks = append(sinks, stats.NewKafkaPublisher(w))
		log.Info("kafka writer ready", zap.String("topic", cfg.TopicRoundSettled))
	} else if cfg.PostgresDSN != "" {
		// sem Kafka não há stats-worker: grava direto no Postgres
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		repo := stats.NewPostgres(pg)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal("postgres schema", zap.Error(err))
		}
		sinks = append(sinks, repo)
		log.Info("postgres connected")
	}
	var summaryCache *stats.RedisCache
	if redisClient != nil {
		summaryCache = stats.NewRedisCache(redisClient, cfg.StatsCacheTTL)
		sinks = append(sinks, summaryCache)
	}
	sink := &stats.MultiSink{Log: logger.Component(log, "stats"), Sinks: sinks, OnError: m.SinkError}

	// fonte do número vencedor
	var src game.OutcomeSource = outcome.NewRandomSource(time.Now().UnixNano())
	if cfg.WheelURL != "" {
		src = outcome.New(cfg.WheelURL)
		log.Info("wheel simulator configured", zap.String("url", cfg.WheelURL))
	}

	ctrl := game.NewController(game.Options{
		Log:            logger.Component(log, "game"),
		Bus:            bus,
		Ledger:         led,
		Evaluator:      eval,
		Sink:           sink,
		Outcome:        src,
		InitialBalance: cfg.InitialBalance,
	})
	ctrl.OnSettled = func(r stats.GameResult) {
		paid, _ := r.TotalWinAmount.Float64()
		m.RoundSettled(string(layout.ColorOf(r.WinningNumber)), r.TotalBetAmount, paid)
	}
	ctrl.Subscribe(ctx)

	// websocket: com Redis as atualizações passam pelo Pub/Sub para alcançar todas as réplicas
	hub := ws.NewHub(logger.Component(log, "ws"), func(r *http.Request) bool { return true })
	if redisClient != nil {
		ws.StartRedisSubscriber(ctx, log, redisClient, cfg.RedisPubSubChannel, hub)
		ws.BridgeBus(bus, ws.RedisForward(redisClient, cfg.RedisPubSubChannel))
		log.Info("redis connected", zap.String("channel", cfg.RedisPubSubChannel))
	} else {
		ws.BridgeBus(bus, ws.Direct(hub))
	}

	api := httpapi.NewServer(log, ctrl, file, hub)
	if summaryCache != nil {
		api.WithSummary(&stats.CachedSummary{
			Cache:  summaryCache,
			Source: file,
			Log:    logger.Component(log, "stats"),
		})
	}

	msrv := metrics.StartMetricsServer(log, cfg.MetricsPort, func(ctx context.Context) error {
		if redisClient == nil {
			return nil
		}
		return redisClient.Ping(ctx).Err()
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("roulette-service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	_ = srv.Shutdown(shutdown)
	_ = msrv.Shutdown(shutdown)
}
