package dto

type CreateBetRequest struct {
	OrganizerID string  `json:"organizerId"`
	EventName   string  `json:"event_name"`
	Deadline    int64   `json:"deadline"`
	Options     []int64 `json:"options"`
}

type JoinBetRequest struct {
	PlayerID   string `json:"playerId"`
	Option     int64  `json:"option"`
	StakeCents int64  `json:"stake_cents"`
}

type ResolveBetRequest struct {
	OrganizerID   string `json:"organizerId"`
	WinningOption int64  `json:"winning_option"`
}

type ClaimRequest struct {
	PlayerID string `json:"playerId"`
}
