package events

// Tipos de evento publicados no tópico bet_lifecycle.
const (
	TypeBetCreated   = "bet_created"
	TypePlayerJoined = "player_joined"
	TypeBetResolved  = "bet_resolved"
	TypePrizeClaimed = "prize_claimed"
)

// Envelope é a mensagem única do tópico bet_lifecycle.
// Apenas os campos do tipo correspondente são preenchidos; a chave Kafka é o
// bet_id, garantindo ordenação por aposta.
type Envelope struct {
	Type     string `json:"type"`
	BetID    int64  `json:"bet_id"`
	TsUnixMs int64  `json:"ts_unix_ms"`

	// bet_created
	Organizer string `json:"organizer,omitempty"`
	EventName string `json:"event_name,omitempty"`

	// player_joined
	Player      string `json:"player,omitempty"`
	AmountCents int64  `json:"amount_cents,omitempty"`
	Option      int64  `json:"option,omitempty"`

	// bet_resolved
	WinningOption int64 `json:"winning_option,omitempty"`

	// prize_claimed
	Winner     string `json:"winner,omitempty"`
	PrizeCents int64  `json:"prize_cents,omitempty"`
}

// Actor retorna a identidade associada ao evento (vazio para bet_resolved).
// Usado pelo arquivo de eventos como parte da chave de idempotência.
func (e Envelope) Actor() string {
	switch e.Type {
	case TypeBetCreated:
		return e.Organizer
	case TypePlayerJoined:
		return e.Player
	case TypePrizeClaimed:
		return e.Winner
	}
	return ""
}

func BetCreated(betID int64, organizer, eventName string) Envelope {
	return Envelope{Type: TypeBetCreated, BetID: betID, Organizer: organizer, EventName: eventName}
}

func PlayerJoined(betID int64, player string, amountCents, option int64) Envelope {
	return Envelope{Type: TypePlayerJoined, BetID: betID, Player: player, AmountCents: amountCents, Option: option}
}

func BetResolved(betID, winningOption int64) Envelope {
	return Envelope{Type: TypeBetResolved, BetID: betID, WinningOption: winningOption}
}

func PrizeClaimed(betID int64, winner string, prizeCents int64) Envelope {
	return Envelope{Type: TypePrizeClaimed, BetID: betID, Winner: winner, PrizeCents: prizeCents}
}
