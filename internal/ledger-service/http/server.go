package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/dto"
	"github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/engine"
	"github.com/radieske/pool-bet-ledger-poc/internal/shared/metrics"
)

// SnapshotCache guarda projeções de leitura de apostas. Implementado pelo
// cache Redis em produção; qualquer erro aqui nunca falha a requisição.
type SnapshotCache interface {
	GetBet(ctx context.Context, betID int64, dst any) (bool, error)
	SetBet(ctx context.Context, betID int64, v any) error
	Invalidate(ctx context.Context, betID int64) error
}

// Server é a fronteira do host: decodifica argumentos, extrai a identidade do
// chamador do payload e mapeia os erros do engine para status HTTP.
type Server struct {
	log    *zap.Logger
	engine *engine.Engine
	cache  SnapshotCache // opcional; nil desliga o cache de snapshots
}

func NewServer(log *zap.Logger, e *engine.Engine, c SnapshotCache) *Server {
	return &Server{log: log, engine: e, cache: c}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bets", s.createBet)          // POST
	mux.HandleFunc("/bets/counter", s.betCounter) // GET
	mux.HandleFunc("/bets/", s.betRoutes)         // subrotas por id
	return mux
}

func (s *Server) createBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.CreateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.OrganizerID == "" {
		http.Error(w, "organizerId required", http.StatusBadRequest)
		return
	}

	betID, err := s.engine.Create(r.Context(), req.OrganizerID, req.EventName, req.Deadline, req.Options)
	if err != nil {
		s.writeEngineError(w, "create", err)
		return
	}

	metrics.OpsTotal.WithLabelValues("create", "ok").Inc()
	writeJSON(w, dto.CreateBetResponse{BetID: betID})
}

func (s *Server) betCounter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	v, err := s.engine.BetCounter(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.CounterResponse{Counter: v})
}

// betRoutes despacha /bets/{id}[/join|/resolve|/claim|/players|/stake]
func (s *Server) betRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/bets/")
	idStr, action, _ := strings.Cut(rest, "/")
	betID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || betID <= 0 {
		http.Error(w, "betId required", http.StatusBadRequest)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.getBet(w, r, betID)
	case action == "players" && r.Method == http.MethodGet:
		s.getPlayers(w, r, betID)
	case action == "stake" && r.Method == http.MethodGet:
		s.getStake(w, r, betID)
	case action == "join" && r.Method == http.MethodPost:
		s.joinBet(w, r, betID)
	case action == "resolve" && r.Method == http.MethodPost:
		s.resolveBet(w, r, betID)
	case action == "claim" && r.Method == http.MethodPost:
		s.claim(w, r, betID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) joinBet(w http.ResponseWriter, r *http.Request, betID int64) {
	var req dto.JoinBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" {
		http.Error(w, "playerId required", http.StatusBadRequest)
		return
	}

	if err := s.engine.Join(r.Context(), req.PlayerID, betID, req.Option, req.StakeCents); err != nil {
		s.writeEngineError(w, "join", err)
		return
	}

	metrics.OpsTotal.WithLabelValues("join", "ok").Inc()
	s.invalidate(r, betID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) resolveBet(w http.ResponseWriter, r *http.Request, betID int64) {
	var req dto.ResolveBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.OrganizerID == "" {
		http.Error(w, "organizerId required", http.StatusBadRequest)
		return
	}

	if err := s.engine.Resolve(r.Context(), req.OrganizerID, betID, req.WinningOption); err != nil {
		s.writeEngineError(w, "resolve", err)
		return
	}

	metrics.OpsTotal.WithLabelValues("resolve", "ok").Inc()
	s.invalidate(r, betID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) claim(w http.ResponseWriter, r *http.Request, betID int64) {
	var req dto.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" {
		http.Error(w, "playerId required", http.StatusBadRequest)
		return
	}

	prize, err := s.engine.Claim(r.Context(), req.PlayerID, betID)
	if err != nil {
		s.writeEngineError(w, "claim", err)
		return
	}

	metrics.OpsTotal.WithLabelValues("claim", "ok").Inc()
	metrics.PrizesPaidCents.Add(float64(prize))
	s.invalidate(r, betID)
	writeJSON(w, dto.ClaimResponse{BetID: betID, PrizeCents: prize})
}

func (s *Server) getBet(w http.ResponseWriter, r *http.Request, betID int64) {
	if s.cache != nil {
		var snap dto.BetSnapshot
		if hit, err := s.cache.GetBet(r.Context(), betID, &snap); err == nil && hit {
			writeJSON(w, snap)
			return
		}
	}

	b, err := s.engine.GetBet(r.Context(), betID)
	if err != nil {
		s.writeEngineError(w, "get_bet", err)
		return
	}

	snap := dto.BetSnapshot{
		BetID:          b.ID,
		Organizer:      b.Organizer,
		EventName:      b.EventName,
		Deadline:       b.Deadline,
		Options:        b.Options,
		TotalPoolCents: b.TotalPoolCents,
		Resolved:       b.Resolved,
		WinningOption:  b.WinningOption,
	}
	if s.cache != nil {
		if err := s.cache.SetBet(r.Context(), betID, snap); err != nil {
			s.log.Warn("bet cache set failed", zap.Int64("betId", betID), zap.Error(err))
		}
	}
	writeJSON(w, snap)
}

func (s *Server) getPlayers(w http.ResponseWriter, r *http.Request, betID int64) {
	players, err := s.engine.Players(r.Context(), betID)
	if err != nil {
		s.writeEngineError(w, "get_players", err)
		return
	}
	if players == nil {
		players = []string{}
	}
	writeJSON(w, dto.PlayersResponse{BetID: betID, Players: players})
}

func (s *Server) getStake(w http.ResponseWriter, r *http.Request, betID int64) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "playerId required", http.StatusBadRequest)
		return
	}
	st, found, err := s.engine.GetStake(r.Context(), betID, playerID)
	if err != nil {
		s.writeEngineError(w, "get_stake", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, engine.ErrNoStake.Error())
		return
	}
	writeJSON(w, dto.StakeResponse{
		BetID:       betID,
		PlayerID:    playerID,
		AmountCents: st.AmountCents,
		Option:      st.Option,
		Claimed:     st.Claimed,
	})
}

// invalidate derruba o snapshot cacheado após uma mutação bem-sucedida.
func (s *Server) invalidate(r *http.Request, betID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(r.Context(), betID); err != nil {
		s.log.Warn("bet cache invalidate failed", zap.Int64("betId", betID), zap.Error(err))
	}
}

// writeEngineError traduz os erros sentinela do engine para status HTTP.
func (s *Server) writeEngineError(w http.ResponseWriter, op string, err error) {
	var status int
	switch {
	case errors.Is(err, engine.ErrNoOptions),
		errors.Is(err, engine.ErrDuplicateOption),
		errors.Is(err, engine.ErrZeroStake),
		errors.Is(err, engine.ErrInvalidOption):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, engine.ErrBetNotFound),
		errors.Is(err, engine.ErrNoStake):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrAlreadyResolved),
		errors.Is(err, engine.ErrNotResolved),
		errors.Is(err, engine.ErrAlreadyClaimed),
		errors.Is(err, engine.ErrNotAWinner),
		errors.Is(err, engine.ErrAlreadyJoined),
		errors.Is(err, engine.ErrNoWinners):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrTransferFailed):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
		s.log.Error("ledger operation failed", zap.String("op", op), zap.Error(err))
	}

	if status == http.StatusInternalServerError {
		metrics.OpsTotal.WithLabelValues(op, "error").Inc()
	} else {
		metrics.OpsTotal.WithLabelValues(op, "rejected").Inc()
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
