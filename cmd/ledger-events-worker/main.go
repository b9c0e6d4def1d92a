package main

import (
	"context"

	"go.uber.org/zap"

	ledgerevents "github.com/radieske/pool-bet-ledger-poc/internal/ledger-events"
	erepo "github.com/radieske/pool-bet-ledger-poc/internal/ledger-events/repo"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/cache"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/config"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/db"
	skafka "github.com/radieske/pool-bet-ledger-poc/internal/shared/kafka"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/logger"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres: arquivo append-only de eventos
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis: republicação dos eventos para o feed ao vivo
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}

	// Kafka consumer: eventos do ciclo de vida
	reader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetLifecycle, "ledger-events")
	defer reader.Close()

	dlqWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetLifecycleDLQ)
	defer dlqWriter.Close()

	metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext)

	log.Info("ledger-events-worker started",
		zap.String("consume", cfg.TopicBetLifecycle),
		zap.String("channel", cfg.RedisPubSubChannel),
	)

	p := &ledgerevents.Processor{
		Log:     log,
		Reader:  reader,
		Repo:    erepo.NewPostgres(pg),
		Rdb:     rdb,
		Channel: cfg.RedisPubSubChannel,
		DLQ:     dlqWriter,
		OnArchived: func(eventType string) {
			metrics.EventsArchived.WithLabelValues(eventType).Inc()
		},
	}

	if err := p.Run(context.Background()); err != nil {
		log.Fatal("processor", zap.Error(err))
	}
}
