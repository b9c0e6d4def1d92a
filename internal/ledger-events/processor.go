package ledgerevents

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/pool-bet-ledger-poc/pkg/contracts/events"
)

// Archive persiste eventos de ciclo de vida. inserted=false sinaliza
// reentrega já arquivada.
type Archive interface {
	Insert(ctx context.Context, e events.Envelope, raw []byte) (inserted bool, err error)
}

// Reader é o lado de consumo do tópico, satisfeito por *kafka.Reader.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Writer é o lado de produção da DLQ, satisfeito por *kafka.Writer.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Processor consome o tópico bet_lifecycle, arquiva cada evento no Postgres e
// o republica no Redis Pub/Sub para os feeds ao vivo. Mensagens inválidas ou
// que falham repetidamente vão para a DLQ.
type Processor struct {
	Log     *zap.Logger
	Reader  Reader
	Repo    Archive
	Rdb     *redis.Client
	Channel string
	DLQ     Writer // opcional

	OnArchived func(eventType string) // métricas
}

// Run inicia o loop principal de consumo e arquivamento
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			time.Sleep(500 * time.Millisecond)
			continue
		}

		var ev events.Envelope
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid lifecycle event", zap.Error(err))
			p.toDLQ(ctx, m)
			continue
		}

		if err := p.processOne(ctx, ev, m.Value); err != nil {
			p.Log.Error("archive event failed",
				zap.Int64("betId", ev.BetID),
				zap.String("type", ev.Type),
				zap.Error(err))
			p.toDLQ(ctx, m)
		}
	}
}

// processOne arquiva e republica um evento, com retry simples na persistência
func (p *Processor) processOne(ctx context.Context, ev events.Envelope, raw []byte) error {
	var inserted bool
	var err error
	const retries = 3
	for i := 0; i < retries; i++ {
		if inserted, err = p.Repo.Insert(ctx, ev, raw); err == nil {
			break
		}
		time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
	}
	if err != nil {
		return err
	}

	if inserted && p.OnArchived != nil {
		p.OnArchived(ev.Type)
	}

	// Republica para o feed ao vivo; falha aqui não invalida o arquivamento
	if p.Rdb != nil {
		if err := p.Rdb.Publish(ctx, p.Channel, raw).Err(); err != nil {
			p.Log.Warn("redis publish failed", zap.Int64("betId", ev.BetID), zap.Error(err))
		}
	}
	return nil
}

func (p *Processor) toDLQ(ctx context.Context, m kafka.Message) {
	if p.DLQ == nil {
		return
	}
	if err := p.DLQ.WriteMessages(ctx, kafka.Message{
		Key:   m.Key,
		Value: m.Value,
		Time:  time.Now(),
	}); err != nil {
		p.Log.Error("dlq write failed", zap.Error(err))
	}
}
