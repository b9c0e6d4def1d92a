package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/pool-bet-ledger-poc/internal/treasury-service/dto"
	"github.com/radieske/pool-bet-ledger-poc/internal/treasury-service/repo"
)

// Repo define a interface de operações de custódia usadas pelo handler HTTP
type Repo interface {
	GetOrCreateAccount(ctx context.Context, playerID string) (accountID string, balance int64, err error)
	Deposit(ctx context.Context, playerID string, amount int64, externalRef string) (accountID string, newBalance int64, err error)
	Debit(ctx context.Context, playerID string, amount int64, externalRef string) (newBalance int64, err error)
	Credit(ctx context.Context, playerID string, amount int64, externalRef string) (newBalance int64, err error)
}

// Server expõe endpoints HTTP para a custódia de saldos (treasury)
type Server struct {
	log  *zap.Logger
	repo Repo
}

// NewServer instancia o servidor HTTP do treasury
func NewServer(log *zap.Logger, repo Repo) *Server { return &Server{log: log, repo: repo} }

// Router retorna o mux HTTP com as rotas da API de treasury
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/treasury", s.getAccount)       // GET ?playerId=...
	mux.HandleFunc("/treasury/deposit", s.deposit)  // POST
	mux.HandleFunc("/treasury/debit", s.debit)      // POST
	mux.HandleFunc("/treasury/credit", s.credit)    // POST
	return mux
}

// getAccount retorna (ou cria) a conta e saldo do participante
func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "playerId required", http.StatusBadRequest)
		return
	}
	accountID, bal, err := s.repo.GetOrCreateAccount(r.Context(), playerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.AccountResponse{PlayerID: playerID, AccountID: accountID, BalanceCents: bal})
}

// deposit adiciona saldo à conta do participante
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" || req.AmountCents <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	// Garante que a conta existe antes do lock pessimista do depósito
	if _, _, err := s.repo.GetOrCreateAccount(r.Context(), req.PlayerID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	accountID, bal, err := s.repo.Deposit(r.Context(), req.PlayerID, req.AmountCents, req.ExternalRef)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.AccountResponse{PlayerID: req.PlayerID, AccountID: accountID, BalanceCents: bal})
}

// debit retira saldo da conta (coleta de stake)
func (s *Server) debit(w http.ResponseWriter, r *http.Request) {
	var req dto.DebitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" || req.AmountCents <= 0 || req.ExternalRef == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	bal, err := s.repo.Debit(r.Context(), req.PlayerID, req.AmountCents, req.ExternalRef)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, dto.AccountResponse{PlayerID: req.PlayerID, BalanceCents: bal})
}

// credit adiciona saldo à conta (pagamento de prêmio ou estorno)
func (s *Server) credit(w http.ResponseWriter, r *http.Request) {
	var req dto.CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" || req.AmountCents < 0 || req.ExternalRef == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	bal, err := s.repo.Credit(r.Context(), req.PlayerID, req.AmountCents, req.ExternalRef)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, dto.AccountResponse{PlayerID: req.PlayerID, BalanceCents: bal})
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
