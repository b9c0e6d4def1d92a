package repo

import (
	"context"
	"database/sql"

	"github.com/radieske/pool-bet-ledger-poc/pkg/contracts/events"
)

// Postgres arquiva eventos de ciclo de vida na tabela bet_events.
// O arquivo é append-only: nada é atualizado nem removido.
type Postgres struct{ DB *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{DB: db} }

// Insert grava um evento no arquivo. Idempotente por
// (bet_id, event_type, actor, ts_unix_ms): reentrega do Kafka não duplica
// linha (ON CONFLICT DO NOTHING).
func (r *Postgres) Insert(ctx context.Context, e events.Envelope, raw []byte) (inserted bool, err error) {
	const q = `
		INSERT INTO bet_events (bet_id, event_type, actor, ts_unix_ms, payload)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (bet_id, event_type, actor, ts_unix_ms) DO NOTHING
	`
	res, err := r.DB.ExecContext(ctx, q, e.BetID, e.Type, e.Actor(), e.TsUnixMs, raw)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
