package feed

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/pool-bet-ledger-poc/pkg/contracts/events"
)

// StartRedisSubscriber escuta o canal Redis Pub/Sub alimentado pelo
// ledger-events-worker e repassa cada evento de ciclo de vida aos clientes
// WebSocket inscritos no betId correspondente.
func StartRedisSubscriber(ctx context.Context, log *zap.Logger, r *redis.Client, channel string, hub *Hub) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				var ev events.Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Warn("feed subscriber unmarshal failed", zap.Error(err))
					continue
				}
				hub.Broadcast(Update{BetID: ev.BetID, Payload: ev})
			}
		}
	}()
}
