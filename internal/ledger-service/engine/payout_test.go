package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrizeFor(t *testing.T) {
	tests := []struct {
		name        string
		stake       int64
		totalPool   int64
		winningPool int64
		want        int64
	}{
		{"vencedor único leva tudo", 100, 400, 100, 400},
		{"divisão exata", 100, 250, 200, 125},
		{"divisão trunca pra baixo", 100, 400, 300, 133},
		{"stake igual ao pool vencedor", 300, 300, 300, 300},
		{"pool inteiro numa option", 50, 350, 350, 50},
		{
			// stake*totalPool estoura int64; a multiplicação larga segura
			name:        "multiplicação larga",
			stake:       3_000_000_000_000_000_000,
			totalPool:   9_000_000_000_000_000_000,
			winningPool: 3_000_000_000_000_000_000,
			want:        9_000_000_000_000_000_000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prizeFor(tt.stake, tt.totalPool, tt.winningPool))
		})
	}
}

func TestPrizeSumLeavesOnlyDust(t *testing.T) {
	// três vencedores desiguais: a soma dos prêmios nunca passa do pool e a
	// diferença é só o resto da divisão inteira
	stakes := []int64{333, 333, 334}
	var winningPool int64
	for _, s := range stakes {
		winningPool += s
	}
	totalPool := winningPool + 500 // perdedores

	var paid int64
	for _, s := range stakes {
		paid += prizeFor(s, totalPool, winningPool)
	}

	assert.LessOrEqual(t, paid, totalPool)
	assert.Less(t, totalPool-paid, int64(len(stakes)))
}
