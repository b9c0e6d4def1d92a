package store

import (
	"context"
	"database/sql"
	"math"

	"github.com/lib/pq"
)

// Postgres implementa o Store sobre as tabelas bet_counter, bets, bet_options,
// player_stakes e bet_players (migrations/001_init.sql).
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

func (p *Postgres) BetCounter(ctx context.Context) (int64, error) {
	var v int64
	err := p.db.QueryRowContext(ctx, `SELECT value FROM bet_counter WHERE id=1`).Scan(&v)
	return v, err
}

// CreateBet avança o contador sob lock pessimista e insere a aposta na mesma
// transação: se qualquer insert falhar, o rollback devolve o contador junto.
// O incremento satura no máximo de int64 em vez de dar a volta.
func (p *Postgres) CreateBet(ctx context.Context, b *Bet) (int64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var id int64
	if err = tx.QueryRowContext(ctx, `SELECT value FROM bet_counter WHERE id=1 FOR UPDATE`).Scan(&id); err != nil {
		return 0, err
	}
	if id < math.MaxInt64 {
		id++
	}
	if _, err = tx.ExecContext(ctx, `UPDATE bet_counter SET value=$1 WHERE id=1`, id); err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO bets (id, organizer, event_name, deadline, total_pool_cents, resolved, winning_option)
		VALUES ($1,$2,$3,$4,0,false,0)`,
		id, b.Organizer, b.EventName, b.Deadline,
	); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}

	for i, opt := range b.Options {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO bet_options (bet_id, idx, option) VALUES ($1,$2,$3)`,
			id, i, opt); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (p *Postgres) GetBet(ctx context.Context, betID int64) (*Bet, error) {
	b := &Bet{ID: betID}
	err := p.db.QueryRowContext(ctx, `
		SELECT organizer, event_name, deadline, total_pool_cents, resolved, winning_option
		FROM bets WHERE id=$1`, betID,
	).Scan(&b.Organizer, &b.EventName, &b.Deadline, &b.TotalPoolCents, &b.Resolved, &b.WinningOption)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT option FROM bet_options WHERE bet_id=$1 ORDER BY idx`, betID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var opt int64
		if err := rows.Scan(&opt); err != nil {
			return nil, err
		}
		b.Options = append(b.Options, opt)
	}
	return b, rows.Err()
}

// RecordJoin grava stake, roster e soma ao pool na mesma transação.
func (p *Postgres) RecordJoin(ctx context.Context, betID int64, player string, s PlayerStake) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO player_stakes (bet_id, player, amount_cents, option, claimed)
		VALUES ($1,$2,$3,$4,false)`,
		betID, player, s.AmountCents, s.Option,
	); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO bet_players (bet_id, player) VALUES ($1,$2)`,
		betID, player); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE bets SET total_pool_cents = total_pool_cents + $1, updated_at = NOW() WHERE id=$2`,
		s.AmountCents, betID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

func (p *Postgres) GetStake(ctx context.Context, betID int64, player string) (PlayerStake, bool, error) {
	var s PlayerStake
	err := p.db.QueryRowContext(ctx, `
		SELECT amount_cents, option, claimed FROM player_stakes
		WHERE bet_id=$1 AND player=$2`, betID, player,
	).Scan(&s.AmountCents, &s.Option, &s.Claimed)
	if err == sql.ErrNoRows {
		return PlayerStake{}, false, nil
	}
	if err != nil {
		return PlayerStake{}, false, err
	}
	return s, true, nil
}

func (p *Postgres) Players(ctx context.Context, betID int64) ([]string, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT player FROM bet_players WHERE bet_id=$1 ORDER BY seq`, betID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []string
	for rows.Next() {
		var pl string
		if err := rows.Scan(&pl); err != nil {
			return nil, err
		}
		players = append(players, pl)
	}
	return players, rows.Err()
}

func (p *Postgres) MarkResolved(ctx context.Context, betID int64, winningOption int64) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE bets SET resolved=true, winning_option=$1, updated_at=NOW()
		WHERE id=$2`, winningOption, betID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SettleClaim marca o stake como claimed e só comita se settle (a transferência
// externa) suceder. A transação aberta garante que falha na transferência não
// deixa nenhuma mutação pra trás.
func (p *Postgres) SettleClaim(ctx context.Context, betID int64, player string, settle func(ctx context.Context) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE player_stakes SET claimed=true
		WHERE bet_id=$1 AND player=$2 AND claimed=false`,
		betID, player)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if err = settle(ctx); err != nil {
		return err // rollback via defer
	}

	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
