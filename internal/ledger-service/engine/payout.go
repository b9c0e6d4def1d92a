package engine

import (
	"context"
	"fmt"
	"math/big"
)

// winningPool soma os stakes registrados na option vencedora, varrendo o
// roster inteiro a cada chamada (nunca cacheado). Pool vencedor zero vira
// ErrNoWinners, que também protege a divisão do cálculo do prêmio.
func (e *Engine) winningPool(ctx context.Context, betID, winningOption int64) (int64, error) {
	players, err := e.store.Players(ctx, betID)
	if err != nil {
		return 0, fmt.Errorf("players: %w", err)
	}

	var total int64
	for _, player := range players {
		s, found, err := e.store.GetStake(ctx, betID, player)
		if err != nil {
			return 0, fmt.Errorf("get stake: %w", err)
		}
		if found && s.Option == winningOption {
			total += s.AmountCents
		}
	}

	if total == 0 {
		return 0, ErrNoWinners
	}
	return total, nil
}

// prizeFor calcula floor(stake * totalPool / winningPool).
// A multiplicação roda em precisão arbitrária porque stake*totalPool estoura
// int64 com pools grandes; a divisão trunca em direção a zero, então a soma
// dos prêmios pode ficar abaixo do pool por um resto ("dust") que permanece
// não reivindicável.
func prizeFor(stakeCents, totalPoolCents, winningPoolCents int64) int64 {
	p := new(big.Int).Mul(big.NewInt(stakeCents), big.NewInt(totalPoolCents))
	p.Quo(p, big.NewInt(winningPoolCents))
	// stake <= winningPool, logo prize <= totalPool e sempre cabe em int64.
	return p.Int64()
}
