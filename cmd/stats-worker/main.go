package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/roulette-table/internal/roulette/stats"
	sharedcache "github.com/radieske/roulette-table/internal/shared/cache"
	"github.com/radieske/roulette-table/internal/shared/config"
	"github.com/radieske/roulette-table/internal/shared/db"
	"github.com/radieske/roulette-table/internal/shared/kafka"
	"github.com/radieske/roulette-table/internal/shared/logger"
	"github.com/radieske/roulette-table/internal/shared/metrics"
	"github.com/radieske/roulette-table/internal/stats-worker/consumer"
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

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	store := stats.NewPostgres(pg)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("postgres schema", zap.Error(err))
	}
	rcache := stats.NewRedisCache(redisClient, cfg.StatsCacheTTL)

	// Consumer group stats-worker + writer da DLQ
	reader := kafka.NewReader(cfg.Brokers(), cfg.TopicRoundSettled, "stats-worker")
	defer reader.Close()
	dlq := kafka.NewWriter(cfg.Brokers(), cfg.TopicRoundSettledDLQ)
	defer dlq.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "stats_worker_messages_consumed_total", Help: "mensagens consumidas"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "stats_worker_db_writes_total", Help: "rodadas gravadas no banco"})
	cached := prometheus.NewCounter(prometheus.CounterOpts{Name: "stats_worker_cache_sets_total", Help: "sets no cache"})
	dead := prometheus.NewCounter(prometheus.CounterOpts{Name: "stats_worker_dlq_total", Help: "mensagens enviadas para a DLQ"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "stats_worker_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, persist, cached, dead, errorsBy)

	proc := &consumer.Processor{
		Log:        log,
		Reader:     reader,
		DLQ:        dlq,
		Store:      store,
		Cache:      rcache,
		OnConsumed: consumed.Inc,
		OnPersist:  persist.Inc,
		OnCached:   cached.Inc,
		OnDLQ:      dead.Inc,
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	metrics.StartMetricsServer(log, cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	log.Info("stats-worker started", zap.String("topic", cfg.TopicRoundSettled))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("stats-worker stopped")
}
