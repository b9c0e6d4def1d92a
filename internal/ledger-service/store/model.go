package store

// Bet é o registro de uma aposta no ledger.
// Options é fixo na criação; WinningOption só tem significado com Resolved=true.
type Bet struct {
	ID             int64
	Organizer      string
	EventName      string
	Deadline       int64 // marcador advisory, nunca validado pelo ciclo de vida
	Options        []int64
	TotalPoolCents int64
	Resolved       bool
	WinningOption  int64
}

// HasOption verifica por varredura linear se option faz parte da aposta.
// As options são distintas, então não há empate possível.
func (b *Bet) HasOption(option int64) bool {
	for _, o := range b.Options {
		if o == option {
			return true
		}
	}
	return false
}

// PlayerStake é o registro da aposta de um participante em um Bet.
type PlayerStake struct {
	AmountCents int64
	Option      int64
	Claimed     bool
}
