package dto

type CreateBetResponse struct {
	BetID int64 `json:"bet_id"`
}

// BetSnapshot é a projeção de leitura de uma aposta.
// WinningOption só tem significado quando Resolved=true.
type BetSnapshot struct {
	BetID          int64   `json:"bet_id"`
	Organizer      string  `json:"organizer"`
	EventName      string  `json:"event_name"`
	Deadline       int64   `json:"deadline"`
	Options        []int64 `json:"options"`
	TotalPoolCents int64   `json:"total_pool_cents"`
	Resolved       bool    `json:"resolved"`
	WinningOption  int64   `json:"winning_option"`
}

type CounterResponse struct {
	Counter int64 `json:"counter"`
}

type PlayersResponse struct {
	BetID   int64    `json:"bet_id"`
	Players []string `json:"players"`
}

type StakeResponse struct {
	BetID       int64  `json:"bet_id"`
	PlayerID    string `json:"playerId"`
	AmountCents int64  `json:"amount_cents"`
	Option      int64  `json:"option"`
	Claimed     bool   `json:"claimed"`
}

type ClaimResponse struct {
	BetID      int64 `json:"bet_id"`
	PrizeCents int64 `json:"prize_cents"`
}
