package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/dto"
	"github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/engine"
	"github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/store"
	"github.com/radieske/pool-bet-ledger-poc/pkg/contracts/events"
)

type stubTreasury struct {
	failPay error
}

func (s *stubTreasury) Debit(ctx context.Context, player string, amountCents int64, ref string) error {
	return nil
}

func (s *stubTreasury) Pay(ctx context.Context, player string, amountCents int64, ref string) error {
	return s.failPay
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, e events.Envelope) error { return nil }

// fakeCache registra hits, sets e invalidações de snapshot
type fakeCache struct {
	entries     map[int64][]byte
	sets        []int64
	invalidated []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[int64][]byte{}}
}

func (f *fakeCache) GetBet(ctx context.Context, betID int64, dst any) (bool, error) {
	b, ok := f.entries[betID]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (f *fakeCache) SetBet(ctx context.Context, betID int64, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.entries[betID] = b
	f.sets = append(f.sets, betID)
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, betID int64) error {
	delete(f.entries, betID)
	f.invalidated = append(f.invalidated, betID)
	return nil
}

func newTestServer(t *testing.T) (http.Handler, *stubTreasury) {
	t.Helper()
	tre := &stubTreasury{}
	eng := engine.New(zap.NewNop(), store.NewMemory(), tre, nopPublisher{})
	return NewServer(zap.NewNop(), eng, nil).Router(), tre
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestFullLifecycleOverHTTP(t *testing.T) {
	h, _ := newTestServer(t)

	// create
	rec := do(t, h, http.MethodPost, "/bets", dto.CreateBetRequest{
		OrganizerID: "org", EventName: "X", Deadline: 1000, Options: []int64{1, 2},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[dto.CreateBetResponse](t, rec)
	assert.Equal(t, int64(1), created.BetID)

	// joins
	rec = do(t, h, http.MethodPost, "/bets/1/join", dto.JoinBetRequest{PlayerID: "alice", Option: 1, StakeCents: 100})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodPost, "/bets/1/join", dto.JoinBetRequest{PlayerID: "bob", Option: 2, StakeCents: 300})
	require.Equal(t, http.StatusNoContent, rec.Code)

	// snapshot reflete o pool
	rec = do(t, h, http.MethodGet, "/bets/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[dto.BetSnapshot](t, rec)
	assert.Equal(t, int64(400), snap.TotalPoolCents)
	assert.False(t, snap.Resolved)
	assert.Equal(t, []int64{1, 2}, snap.Options)

	// resolve
	rec = do(t, h, http.MethodPost, "/bets/1/resolve", dto.ResolveBetRequest{OrganizerID: "org", WinningOption: 1})
	require.Equal(t, http.StatusNoContent, rec.Code)

	// claim da vencedora
	rec = do(t, h, http.MethodPost, "/bets/1/claim", dto.ClaimRequest{PlayerID: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	claim := decode[dto.ClaimResponse](t, rec)
	assert.Equal(t, int64(400), claim.PrizeCents)

	// segundo claim → 409
	rec = do(t, h, http.MethodPost, "/bets/1/claim", dto.ClaimRequest{PlayerID: "alice"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, engine.ErrAlreadyClaimed.Error(), decode[map[string]string](t, rec)["error"])

	// perdedor → 409
	rec = do(t, h, http.MethodPost, "/bets/1/claim", dto.ClaimRequest{PlayerID: "bob"})
	require.Equal(t, http.StatusConflict, rec.Code)

	// roster e stake
	rec = do(t, h, http.MethodGet, "/bets/1/players", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	players := decode[dto.PlayersResponse](t, rec)
	assert.Equal(t, []string{"alice", "bob"}, players.Players)

	rec = do(t, h, http.MethodGet, "/bets/1/stake?playerId=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stake := decode[dto.StakeResponse](t, rec)
	assert.Equal(t, int64(100), stake.AmountCents)
	assert.True(t, stake.Claimed)

	// contador
	rec = do(t, h, http.MethodGet, "/bets/counter", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[dto.CounterResponse](t, rec).Counter)
}

func TestErrorStatusMapping(t *testing.T) {
	h, tre := newTestServer(t)

	// fixture: aposta 1 com alice dentro
	do(t, h, http.MethodPost, "/bets", dto.CreateBetRequest{OrganizerID: "org", Options: []int64{1, 2}})
	do(t, h, http.MethodPost, "/bets/1/join", dto.JoinBetRequest{PlayerID: "alice", Option: 1, StakeCents: 100})

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"create sem options", http.MethodPost, "/bets", dto.CreateBetRequest{OrganizerID: "org"}, http.StatusBadRequest},
		{"create com options duplicadas", http.MethodPost, "/bets", dto.CreateBetRequest{OrganizerID: "org", Options: []int64{1, 1}}, http.StatusBadRequest},
		{"create sem organizer", http.MethodPost, "/bets", dto.CreateBetRequest{Options: []int64{1}}, http.StatusBadRequest},
		{"join em aposta inexistente", http.MethodPost, "/bets/99/join", dto.JoinBetRequest{PlayerID: "bob", Option: 1, StakeCents: 10}, http.StatusNotFound},
		{"join com option inválida", http.MethodPost, "/bets/1/join", dto.JoinBetRequest{PlayerID: "bob", Option: 7, StakeCents: 10}, http.StatusBadRequest},
		{"join com stake zero", http.MethodPost, "/bets/1/join", dto.JoinBetRequest{PlayerID: "bob", Option: 1}, http.StatusBadRequest},
		{"join repetido", http.MethodPost, "/bets/1/join", dto.JoinBetRequest{PlayerID: "alice", Option: 2, StakeCents: 10}, http.StatusConflict},
		{"resolve por não-organizador", http.MethodPost, "/bets/1/resolve", dto.ResolveBetRequest{OrganizerID: "mallory", WinningOption: 1}, http.StatusForbidden},
		{"claim antes de resolver", http.MethodPost, "/bets/1/claim", dto.ClaimRequest{PlayerID: "alice"}, http.StatusConflict},
		{"stake de quem nunca entrou", http.MethodGet, "/bets/1/stake?playerId=ghost", nil, http.StatusNotFound},
		{"get de aposta inexistente", http.MethodGet, "/bets/99", nil, http.StatusNotFound},
		{"id não numérico", http.MethodGet, "/bets/abc", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	// falha de transferência no claim → 502 e estado preservado
	do(t, h, http.MethodPost, "/bets/1/resolve", dto.ResolveBetRequest{OrganizerID: "org", WinningOption: 1})
	tre.failPay = errors.New("down")
	rec := do(t, h, http.MethodPost, "/bets/1/claim", dto.ClaimRequest{PlayerID: "alice"})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	tre.failPay = nil
	rec = do(t, h, http.MethodPost, "/bets/1/claim", dto.ClaimRequest{PlayerID: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSnapshotCacheServesHits(t *testing.T) {
	fc := newFakeCache()
	eng := engine.New(zap.NewNop(), store.NewMemory(), &stubTreasury{}, nopPublisher{})
	h := NewServer(zap.NewNop(), eng, fc).Router()

	do(t, h, http.MethodPost, "/bets", dto.CreateBetRequest{OrganizerID: "org", Options: []int64{1, 2}})

	// primeiro GET é miss e popula o cache
	rec := do(t, h, http.MethodGet, "/bets/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []int64{1}, fc.sets)

	// segundo GET serve do cache: um snapshot adulterado prova o hit
	var snap dto.BetSnapshot
	require.NoError(t, json.Unmarshal(fc.entries[1], &snap))
	snap.TotalPoolCents = 777
	b, _ := json.Marshal(snap)
	fc.entries[1] = b

	rec = do(t, h, http.MethodGet, "/bets/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(777), decode[dto.BetSnapshot](t, rec).TotalPoolCents)
	assert.Len(t, fc.sets, 1)
}

func TestSnapshotCacheInvalidatedOnMutations(t *testing.T) {
	fc := newFakeCache()
	eng := engine.New(zap.NewNop(), store.NewMemory(), &stubTreasury{}, nopPublisher{})
	h := NewServer(zap.NewNop(), eng, fc).Router()

	do(t, h, http.MethodPost, "/bets", dto.CreateBetRequest{OrganizerID: "org", Options: []int64{1, 2}})

	rec := do(t, h, http.MethodPost, "/bets/1/join", dto.JoinBetRequest{PlayerID: "alice", Option: 1, StakeCents: 100})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int64{1}, fc.invalidated)

	rec = do(t, h, http.MethodPost, "/bets/1/resolve", dto.ResolveBetRequest{OrganizerID: "org", WinningOption: 1})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int64{1, 1}, fc.invalidated)

	rec = do(t, h, http.MethodPost, "/bets/1/claim", dto.ClaimRequest{PlayerID: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{1, 1, 1}, fc.invalidated)

	// mutação rejeitada não invalida: snapshot cacheado segue válido
	do(t, h, http.MethodGet, "/bets/1", nil)
	rec = do(t, h, http.MethodPost, "/bets/1/join", dto.JoinBetRequest{PlayerID: "bob", Option: 1, StakeCents: 100})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, fc.invalidated, 3)
	assert.Contains(t, fc.entries, int64(1))
}
