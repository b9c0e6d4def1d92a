package dto

type AccountResponse struct {
	PlayerID     string `json:"playerId"`
	AccountID    string `json:"accountId"`
	BalanceCents int64  `json:"balance_cents"`
}
