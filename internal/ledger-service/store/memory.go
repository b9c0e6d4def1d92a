package store

import (
	"context"
	"math"
	"sync"
)

// Memory é a implementação em memória do Store, usada em testes e no modo
// local sem Postgres. Cópias defensivas em toda leitura.
type Memory struct {
	mu      sync.Mutex
	counter int64
	bets    map[int64]*Bet
	stakes  map[int64]map[string]PlayerStake
	roster  map[int64][]string
}

func NewMemory() *Memory {
	return &Memory{
		bets:   make(map[int64]*Bet),
		stakes: make(map[int64]map[string]PlayerStake),
		roster: make(map[int64][]string),
	}
}

func (m *Memory) BetCounter(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counter, nil
}

func (m *Memory) CreateBet(ctx context.Context, b *Bet) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counter < math.MaxInt64 {
		m.counter++
	}
	if _, ok := m.bets[m.counter]; ok {
		return 0, ErrAlreadyExists
	}
	stored := copyBet(b)
	stored.ID = m.counter
	m.bets[m.counter] = stored
	return m.counter, nil
}

func (m *Memory) GetBet(ctx context.Context, betID int64) (*Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bets[betID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBet(b), nil
}

func (m *Memory) RecordJoin(ctx context.Context, betID int64, player string, s PlayerStake) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bets[betID]
	if !ok {
		return ErrNotFound
	}
	if m.stakes[betID] == nil {
		m.stakes[betID] = make(map[string]PlayerStake)
	}
	if _, ok := m.stakes[betID][player]; ok {
		return ErrAlreadyExists
	}
	m.stakes[betID][player] = s
	m.roster[betID] = append(m.roster[betID], player)
	b.TotalPoolCents += s.AmountCents
	return nil
}

func (m *Memory) GetStake(ctx context.Context, betID int64, player string) (PlayerStake, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stakes[betID][player]
	return s, ok, nil
}

func (m *Memory) Players(ctx context.Context, betID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.roster[betID]))
	copy(out, m.roster[betID])
	return out, nil
}

func (m *Memory) MarkResolved(ctx context.Context, betID int64, winningOption int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bets[betID]
	if !ok {
		return ErrNotFound
	}
	b.Resolved = true
	b.WinningOption = winningOption
	return nil
}

func (m *Memory) SettleClaim(ctx context.Context, betID int64, player string, settle func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stakes[betID][player]
	if !ok || s.Claimed {
		return ErrNotFound
	}

	// Espelha a transação do Postgres: marca claimed, tenta a transferência e
	// desfaz a marcação se a transferência falhar.
	s.Claimed = true
	m.stakes[betID][player] = s

	if err := settle(ctx); err != nil {
		s.Claimed = false
		m.stakes[betID][player] = s
		return err
	}
	return nil
}

func copyBet(b *Bet) *Bet {
	out := *b
	out.Options = make([]int64, len(b.Options))
	copy(out.Options, b.Options)
	return &out
}
