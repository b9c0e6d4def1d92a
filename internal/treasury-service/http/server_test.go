package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/pool-bet-ledger-poc/internal/treasury-service/dto"
	"github.com/radieske/pool-bet-ledger-poc/internal/treasury-service/repo"
)

// fakeRepo guarda saldos em memória com a mesma semântica do Postgres
type fakeRepo struct {
	balances map[string]int64
	seen     map[string]bool // dedup por (operação, ref, jogador)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{balances: map[string]int64{}, seen: map[string]bool{}}
}

func (f *fakeRepo) GetOrCreateAccount(ctx context.Context, playerID string) (string, int64, error) {
	if _, ok := f.balances[playerID]; !ok {
		f.balances[playerID] = 0
	}
	return "acc-" + playerID, f.balances[playerID], nil
}

func (f *fakeRepo) Deposit(ctx context.Context, playerID string, amount int64, externalRef string) (string, int64, error) {
	f.balances[playerID] += amount
	return "acc-" + playerID, f.balances[playerID], nil
}

func (f *fakeRepo) Debit(ctx context.Context, playerID string, amount int64, externalRef string) (int64, error) {
	bal, ok := f.balances[playerID]
	if !ok {
		return 0, repo.ErrNotFound
	}
	key := fmt.Sprintf("DEBIT|%s|%s", playerID, externalRef)
	if f.seen[key] {
		return bal, nil
	}
	if bal < amount {
		return 0, repo.ErrInsufficientFunds
	}
	f.seen[key] = true
	f.balances[playerID] = bal - amount
	return f.balances[playerID], nil
}

func (f *fakeRepo) Credit(ctx context.Context, playerID string, amount int64, externalRef string) (int64, error) {
	key := fmt.Sprintf("CREDIT|%s|%s", playerID, externalRef)
	if f.seen[key] {
		return f.balances[playerID], nil
	}
	f.seen[key] = true
	f.balances[playerID] += amount
	return f.balances[playerID], nil
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func account(t *testing.T, rec *httptest.ResponseRecorder) dto.AccountResponse {
	t.Helper()
	var out dto.AccountResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestTreasuryFlow(t *testing.T) {
	h := NewServer(zap.NewNop(), newFakeRepo()).Router()

	// conta nasce zerada
	req := httptest.NewRequest(http.MethodGet, "/treasury?playerId=alice", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), account(t, rec).BalanceCents)

	// depósito
	rec = post(t, h, "/treasury/deposit", dto.DepositRequest{PlayerID: "alice", AmountCents: 500})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(500), account(t, rec).BalanceCents)

	// débito de stake
	rec = post(t, h, "/treasury/debit", dto.DebitRequest{PlayerID: "alice", AmountCents: 100, ExternalRef: "bet-1:join:alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(400), account(t, rec).BalanceCents)

	// retry do mesmo débito não desconta de novo
	rec = post(t, h, "/treasury/debit", dto.DebitRequest{PlayerID: "alice", AmountCents: 100, ExternalRef: "bet-1:join:alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(400), account(t, rec).BalanceCents)

	// crédito de prêmio
	rec = post(t, h, "/treasury/credit", dto.CreditRequest{PlayerID: "alice", AmountCents: 250, ExternalRef: "bet-1:claim:alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(650), account(t, rec).BalanceCents)
}

func TestTreasuryDebitErrors(t *testing.T) {
	h := NewServer(zap.NewNop(), newFakeRepo()).Router()

	// conta inexistente
	rec := post(t, h, "/treasury/debit", dto.DebitRequest{PlayerID: "ghost", AmountCents: 10, ExternalRef: "ref-1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// saldo insuficiente
	post(t, h, "/treasury/deposit", dto.DepositRequest{PlayerID: "bob", AmountCents: 50})
	rec = post(t, h, "/treasury/debit", dto.DebitRequest{PlayerID: "bob", AmountCents: 100, ExternalRef: "ref-2"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// payload inválido
	rec = post(t, h, "/treasury/debit", dto.DebitRequest{PlayerID: "bob", AmountCents: 0, ExternalRef: "ref-3"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = post(t, h, "/treasury/debit", dto.DebitRequest{PlayerID: "bob", AmountCents: 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
