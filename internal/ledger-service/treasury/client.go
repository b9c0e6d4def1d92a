package treasury

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tdto "github.com/radieske/pool-bet-ledger-poc/internal/ledger-service/treasury/dto"
)

// Client fala com o treasury-service, a fronteira de transferência de valor.
// Qualquer status >= 300 é tratado como falha de transferência pelo engine.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

// Debit retira amount_cents do saldo do jogador (coleta do stake).
func (c *Client) Debit(ctx context.Context, player string, amountCents int64, externalRef string) error {
	return c.post(ctx, "/treasury/debit", tdto.DebitRequest{
		PlayerID:    player,
		AmountCents: amountCents,
		ExternalRef: externalRef,
	})
}

// Pay credita amount_cents ao jogador (pagamento de prêmio ou estorno).
func (c *Client) Pay(ctx context.Context, player string, amountCents int64, externalRef string) error {
	return c.post(ctx, "/treasury/credit", tdto.CreditRequest{
		PlayerID:    player,
		AmountCents: amountCents,
		ExternalRef: externalRef,
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("treasury %s http %d", path, res.StatusCode)
	}
	return nil
}
