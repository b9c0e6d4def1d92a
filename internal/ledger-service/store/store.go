package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Store é o contrato de persistência do ledger de apostas.
// Cada operação de escrita é atômica: ou tudo é persistido, ou nada.
type Store interface {
	// CreateBet avança o contador global e persiste a aposta recém-criada
	// (pool zero, não resolvida) sob o id alocado, tudo na mesma transação:
	// uma criação que falha não consome id nem deixa o contador avançado.
	// O incremento satura no máximo de int64; o contador nunca dá a volta.
	CreateBet(ctx context.Context, b *Bet) (int64, error)

	// BetCounter retorna o valor corrente do contador, sem avançá-lo.
	BetCounter(ctx context.Context) (int64, error)

	// GetBet retorna a aposta ou ErrNotFound.
	GetBet(ctx context.Context, betID int64) (*Bet, error)

	// RecordJoin grava o stake do jogador, adiciona-o ao roster e soma o valor
	// ao pool, tudo na mesma transação. Retorna ErrAlreadyExists se o jogador
	// já tem stake registrado nessa aposta.
	RecordJoin(ctx context.Context, betID int64, player string, s PlayerStake) error

	// GetStake retorna o stake do jogador; found=false significa que o jogador
	// nunca entrou nessa aposta (sem ambiguidade com stake zero).
	GetStake(ctx context.Context, betID int64, player string) (s PlayerStake, found bool, err error)

	// Players retorna o roster na ordem de entrada.
	Players(ctx context.Context, betID int64) ([]string, error)

	// MarkResolved grava o desfecho da aposta. Transição terminal.
	MarkResolved(ctx context.Context, betID int64, winningOption int64) error

	// SettleClaim marca o stake como claimed e executa settle (a transferência
	// externa) antes de efetivar. Se settle falhar, nada é persistido e o erro
	// de settle é retornado. Retorna ErrNotFound se não houver stake não
	// reivindicado para (betID, player).
	SettleClaim(ctx context.Context, betID int64, player string, settle func(ctx context.Context) error) error
}
