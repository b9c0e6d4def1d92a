package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Postgres implementa a custódia de saldos dos participantes
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
)

// GetOrCreateAccount retorna a conta e saldo de um participante, criando a
// conta se não existir. Usa transação para garantir atomicidade
func (p *Postgres) GetOrCreateAccount(ctx context.Context, playerID string) (accountID string, balance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	var id string
	var bal int64
	err = tx.QueryRowContext(ctx, `SELECT id, balance_cents FROM treasury_accounts WHERE player_id=$1`, playerID).Scan(&id, &bal)
	if err == sql.ErrNoRows {
		id = uuid.New().String()
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO treasury_accounts(id, player_id, balance_cents, version) VALUES($1,$2,0,1)`,
			id, playerID); err != nil {
			return "", 0, err
		}
		bal = 0
	} else if err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}

	return id, bal, nil
}

// Deposit incrementa o saldo da conta e registra a operação no ledger interno
// Garante lock pessimista na linha da conta
func (p *Postgres) Deposit(ctx context.Context, playerID string, amount int64, externalRef string) (accountID string, newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	var id string
	if err = tx.QueryRowContext(ctx, `SELECT id FROM treasury_accounts WHERE player_id=$1 FOR UPDATE`, playerID).Scan(&id); err != nil {
		return "", 0, err
	}

	if _, err = tx.ExecContext(ctx, `UPDATE treasury_accounts SET balance_cents = balance_cents + $1, version = version + 1 WHERE id=$2`, amount, id); err != nil {
		return "", 0, err
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO treasury_ledger(account_id, operation_type, amount_cents, description) VALUES($1,'DEPOSIT',$2,$3)`,
		id, amount, "deposit:"+externalRef); err != nil {
		return "", 0, err
	}

	if err = tx.QueryRowContext(ctx, `SELECT balance_cents FROM treasury_accounts WHERE id=$1`, id).Scan(&newBalance); err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}
	return id, newBalance, nil
}

// Debit retira saldo da conta (coleta de stake pelo ledger-service)
// Idempotente por (account_id, external_ref): repetir o mesmo débito não
// desconta duas vezes
func (p *Postgres) Debit(ctx context.Context, playerID string, amount int64, externalRef string) (newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var accountID string
	var balance int64
	if err = tx.QueryRowContext(ctx, `SELECT id, balance_cents FROM treasury_accounts WHERE player_id=$1 FOR UPDATE`, playerID).Scan(&accountID, &balance); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, err
	}

	var exists int64
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM treasury_ledger WHERE account_id=$1 AND operation_type='DEBIT' AND external_ref=$2`, accountID, externalRef).Scan(&exists)
	if err == nil {
		return balance, nil // débito já aplicado
	} else if err != sql.ErrNoRows {
		return 0, err
	}

	if balance < amount {
		return 0, ErrInsufficientFunds
	}

	if _, err = tx.ExecContext(ctx, `UPDATE treasury_accounts SET balance_cents = balance_cents - $1, version = version + 1 WHERE id=$2`, amount, accountID); err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO treasury_ledger(account_id, operation_type, amount_cents, description, external_ref)
		VALUES($1,'DEBIT',$2,$3,$4)`,
		accountID, amount, "debit:"+externalRef, externalRef); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	return balance - amount, nil
}

// Credit adiciona saldo à conta (pagamento de prêmio ou estorno), criando a
// conta se necessário. Idempotente por (account_id, external_ref)
func (p *Postgres) Credit(ctx context.Context, playerID string, amount int64, externalRef string) (newBalance int64, err error) {
	if _, _, err = p.GetOrCreateAccount(ctx, playerID); err != nil {
		return 0, err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var accountID string
	var balance int64
	if err = tx.QueryRowContext(ctx, `SELECT id, balance_cents FROM treasury_accounts WHERE player_id=$1 FOR UPDATE`, playerID).Scan(&accountID, &balance); err != nil {
		return 0, err
	}

	var exists int64
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM treasury_ledger WHERE account_id=$1 AND operation_type='CREDIT' AND external_ref=$2`, accountID, externalRef).Scan(&exists)
	if err == nil {
		return balance, nil // crédito já aplicado
	} else if err != sql.ErrNoRows {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `UPDATE treasury_accounts SET balance_cents = balance_cents + $1, version = version + 1 WHERE id=$2`, amount, accountID); err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO treasury_ledger(account_id, operation_type, amount_cents, description, external_ref)
		VALUES($1,'CREDIT',$2,$3,$4)`,
		accountID, amount, "credit:"+externalRef, externalRef); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	return balance + amount, nil
}
