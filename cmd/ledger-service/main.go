package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	lcache "github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/cache"
	"github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/engine"
	"github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/feed"
	lhttp "github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/http"
	kpub "github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/producer"
	"github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/store"
	"github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/treasury"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/config"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/db"
	skafka "github.com/radieske/pool-bet-ledger-poc/internal/shared/kafka"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	// Kafka writer (topic bet_lifecycle)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetLifecycle)
	defer writer.Close()

	// deps
	ledgerStore := store.NewPostgres(pg)
	tre := treasury.New(cfg.TreasuryURL)
	publ := kpub.NewKafkaPublisher(writer)
	eng := engine.New(log, ledgerStore, tre, publ)
	betCache := lcache.New(rdb, 30*time.Second)

	// feed ao vivo: eventos republicados pelo ledger-events-worker
	hub := feed.NewHub(func(r *http.Request) bool { return true })
	feed.StartRedisSubscriber(context.Background(), log, rdb, cfg.RedisPubSubChannel, hub)

	// HTTP público
	api := lhttp.NewServer(log, eng, betCache)
	mux := http.NewServeMux()
	mux.Handle("/", api.Router())
	mux.HandleFunc("/ws", hub.HandleWS)

	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: mux,
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.PingContext(r.Context()); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("ledger-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
