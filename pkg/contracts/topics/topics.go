package topics

const (
	// Ciclo de vida das apostas (bet_created, player_joined, bet_resolved, prize_claimed)
	BetLifecycle = "bet_lifecycle"

	// DLQ
	BetLifecycleDLQ = "bet_lifecycle_dlq"
)
