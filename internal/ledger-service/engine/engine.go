package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/store"
	"github.com/radieske/pool-bet-ledger-poc/pkg/contracts/events"
)

// Treasury é a capacidade externa de movimentação de fundos.
// Debit coleta o stake do jogador; Pay credita o prêmio.
type Treasury interface {
	Debit(ctx context.Context, player string, amountCents int64, ref string) error
	Pay(ctx context.Context, player string, amountCents int64, ref string) error
}

// Publisher anexa eventos de ciclo de vida ao log externo.
type Publisher interface {
	Publish(ctx context.Context, e events.Envelope) error
}

// Engine é a máquina de estados do ciclo de vida das apostas.
// O caller de cada operação vem explícito do host (camada HTTP), nunca de
// estado ambiente. As mutações são serializadas pelo mutex: uma chamada por
// vez, do mesmo jeito que o runtime on-chain executaria.
type Engine struct {
	mu    sync.Mutex
	log   *zap.Logger
	store store.Store
	tre   Treasury
	publ  Publisher
}

func New(log *zap.Logger, s store.Store, t Treasury, p Publisher) *Engine {
	return &Engine{log: log, store: s, tre: t, publ: p}
}

// Create registra uma nova aposta e retorna o id alocado.
func (e *Engine) Create(ctx context.Context, caller, eventName string, deadline int64, options []int64) (int64, error) {
	if len(options) == 0 {
		return 0, ErrNoOptions
	}
	seen := make(map[int64]struct{}, len(options))
	for _, opt := range options {
		if _, dup := seen[opt]; dup {
			return 0, ErrDuplicateOption
		}
		seen[opt] = struct{}{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	opts := make([]int64, len(options))
	copy(opts, options)
	betID, err := e.store.CreateBet(ctx, &store.Bet{
		Organizer: caller,
		EventName: eventName,
		Deadline:  deadline,
		Options:   opts,
	})
	if err != nil {
		return 0, fmt.Errorf("create bet: %w", err)
	}

	e.emit(ctx, events.BetCreated(betID, caller, eventName))
	return betID, nil
}

// Join coleta o stake do jogador via treasury e o registra na aposta.
// O deadline é advisory: nunca é comparado com o tempo corrente.
func (e *Engine) Join(ctx context.Context, caller string, betID, option, stakeCents int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.getBet(ctx, betID)
	if err != nil {
		return err
	}
	if b.Resolved {
		return ErrAlreadyResolved
	}
	if !b.HasOption(option) {
		return ErrInvalidOption
	}
	if stakeCents <= 0 {
		return ErrZeroStake
	}
	if _, found, err := e.store.GetStake(ctx, betID, caller); err != nil {
		return fmt.Errorf("get stake: %w", err)
	} else if found {
		return ErrAlreadyJoined
	}

	// Coleta o stake antes de registrar qualquer coisa: sem fundos, sem aposta.
	ref := fmt.Sprintf("bet-%d:join:%s", betID, caller)
	if err := e.tre.Debit(ctx, caller, stakeCents, ref); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	if err := e.store.RecordJoin(ctx, betID, caller, store.PlayerStake{
		AmountCents: stakeCents,
		Option:      option,
	}); err != nil {
		// Stake já coletado: devolve antes de propagar o erro.
		if payErr := e.tre.Pay(ctx, caller, stakeCents, ref+":refund"); payErr != nil {
			e.log.Error("join compensation failed",
				zap.Int64("betId", betID),
				zap.String("player", caller),
				zap.Error(payErr))
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrAlreadyJoined
		}
		return fmt.Errorf("record join: %w", err)
	}

	e.emit(ctx, events.PlayerJoined(betID, caller, stakeCents, option))
	return nil
}

// Resolve grava o desfecho da aposta. Só o organizador pode resolver, uma
// única vez, para uma option válida. Transição terminal: não existe operação
// que reabra ou altere o desfecho.
func (e *Engine) Resolve(ctx context.Context, caller string, betID, winningOption int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.getBet(ctx, betID)
	if err != nil {
		return err
	}
	if b.Organizer != caller {
		return ErrUnauthorized
	}
	if b.Resolved {
		return ErrAlreadyResolved
	}
	if !b.HasOption(winningOption) {
		return ErrInvalidOption
	}

	if err := e.store.MarkResolved(ctx, betID, winningOption); err != nil {
		return fmt.Errorf("mark resolved: %w", err)
	}

	e.emit(ctx, events.BetResolved(betID, winningOption))
	return nil
}

// Claim paga ao chamador sua fração proporcional do pool, uma única vez.
// Ordem: precondições → claimed=true dentro da transação do store → crédito no
// treasury → commit. Falha no crédito desfaz tudo, inclusive o claimed.
func (e *Engine) Claim(ctx context.Context, caller string, betID int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.getBet(ctx, betID)
	if err != nil {
		return 0, err
	}
	if !b.Resolved {
		return 0, ErrNotResolved
	}

	s, found, err := e.store.GetStake(ctx, betID, caller)
	if err != nil {
		return 0, fmt.Errorf("get stake: %w", err)
	}
	if !found || s.AmountCents == 0 {
		return 0, ErrNoStake
	}
	if s.Claimed {
		return 0, ErrAlreadyClaimed
	}
	if s.Option != b.WinningOption {
		return 0, ErrNotAWinner
	}

	winningPool, err := e.winningPool(ctx, betID, b.WinningOption)
	if err != nil {
		return 0, err
	}
	prize := prizeFor(s.AmountCents, b.TotalPoolCents, winningPool)

	ref := fmt.Sprintf("bet-%d:claim:%s", betID, caller)
	err = e.store.SettleClaim(ctx, betID, caller, func(ctx context.Context) error {
		if payErr := e.tre.Pay(ctx, caller, prize, ref); payErr != nil {
			return fmt.Errorf("%w: %v", ErrTransferFailed, payErr)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrAlreadyClaimed
		}
		return 0, err
	}

	e.emit(ctx, events.PrizeClaimed(betID, caller, prize))
	return prize, nil
}

// BetCounter retorna o valor corrente do contador global.
func (e *Engine) BetCounter(ctx context.Context) (int64, error) {
	return e.store.BetCounter(ctx)
}

// GetBet retorna a aposta ou ErrBetNotFound.
func (e *Engine) GetBet(ctx context.Context, betID int64) (*store.Bet, error) {
	return e.getBet(ctx, betID)
}

// GetStake retorna o stake do jogador; found=false quando ele nunca entrou.
func (e *Engine) GetStake(ctx context.Context, betID int64, player string) (store.PlayerStake, bool, error) {
	if _, err := e.getBet(ctx, betID); err != nil {
		return store.PlayerStake{}, false, err
	}
	return e.store.GetStake(ctx, betID, player)
}

// Players retorna o roster da aposta na ordem de entrada.
func (e *Engine) Players(ctx context.Context, betID int64) ([]string, error) {
	if _, err := e.getBet(ctx, betID); err != nil {
		return nil, err
	}
	return e.store.Players(ctx, betID)
}

func (e *Engine) getBet(ctx context.Context, betID int64) (*store.Bet, error) {
	b, err := e.store.GetBet(ctx, betID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get bet: %w", err)
	}
	return b, nil
}

// emit publica no log de eventos. Falha de publicação não desfaz a operação:
// o estado do ledger é a fonte de verdade, o log é observabilidade.
func (e *Engine) emit(ctx context.Context, ev events.Envelope) {
	if err := e.publ.Publish(ctx, ev); err != nil {
		e.log.Warn("event publish failed",
			zap.String("type", ev.Type),
			zap.Int64("betId", ev.BetID),
			zap.Error(err))
	}
}
