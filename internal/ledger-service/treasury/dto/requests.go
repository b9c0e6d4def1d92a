package dto

// DebitRequest representa o payload de débito (coleta de stake) no treasury-service.
type DebitRequest struct {
	PlayerID    string `json:"playerId"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref"`
}

// CreditRequest representa o payload de crédito (pagamento de prêmio) no treasury-service.
type CreditRequest struct {
	PlayerID    string `json:"playerId"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref"`
}
