package dto

type DepositRequest struct {
	PlayerID    string `json:"playerId"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref,omitempty"` // opcional p/ rastreio
}

type DebitRequest struct {
	PlayerID    string `json:"playerId"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref"` // ex: bet-1:join:alice
}

type CreditRequest struct {
	PlayerID    string `json:"playerId"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref"` // ex: bet-1:claim:alice
}
