package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/radieske/pool-bet-ledger-poc/internal/shared/config"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// targets
	ledgerURL := os.Getenv("LEDGER_URL")
	if ledgerURL == "" {
		ledgerURL = "http://localhost:8083"
	}
	treasuryURL := os.Getenv("TREASURY_URL")
	if treasuryURL == "" {
		treasuryURL = "http://localhost:8082"
	}
	ledger := rp(ledgerURL)
	treasury := rp(treasuryURL)

	mux := http.NewServeMux()

	// apostas (ex.: /api/bets/* -> ledger-service)
	mux.Handle("/api/bets/", http.StripPrefix("/api", ledger))
	mux.Handle("/api/bets", http.StripPrefix("/api", ledger))

	// feed ao vivo (ws) também vai pro ledger-service
	mux.Handle("/api/ws", http.StripPrefix("/api", ledger))

	// custódia (ex.: /api/treasury/* -> treasury-service)
	mux.Handle("/api/treasury/", http.StripPrefix("/api", treasury))
	mux.Handle("/api/treasury", http.StripPrefix("/api", treasury))

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
