package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// BetCache guarda snapshots JSON de apostas para os accessors de leitura.
// Erros de cache nunca falham uma leitura: o store é a fonte de verdade.
type BetCache struct {
	R   *redis.Client
	TTL time.Duration
}

func New(r *redis.Client, ttl time.Duration) *BetCache { return &BetCache{R: r, TTL: ttl} }

func keyBet(betID int64) string { return "bet:snapshot:" + strconv.FormatInt(betID, 10) }

func (c *BetCache) GetBet(ctx context.Context, betID int64, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyBet(betID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *BetCache) SetBet(ctx context.Context, betID int64, v any) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyBet(betID), b, c.TTL).Err()
}

// Invalidate remove o snapshot após qualquer mutação da aposta.
func (c *BetCache) Invalidate(ctx context.Context, betID int64) error {
	return c.R.Del(ctx, keyBet(betID)).Err()
}
