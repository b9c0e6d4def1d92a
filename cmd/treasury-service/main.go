package main

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/pool-bet-ledger-poc/internal/shared/config"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/db"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/logger"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/metrics"
	thttp "github.com/radieske/pool-bet-ledger-poc/internal/treasury-service/http"
	"github.com/radieske/pool-bet-ledger-poc/internal/treasury-service/repo"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	repository := repo.NewPostgres(pg)
	api := thttp.NewServer(log, repository)

	metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext)

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("treasury-service listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, api.Router()); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
