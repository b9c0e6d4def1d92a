package feed

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// BetID: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type  string `json:"type"`
	BetID int64  `json:"betId"`
}

// Update é o payload enviado aos clientes inscritos em um betId.
type Update struct {
	BetID   int64       `json:"betId"`
	Payload interface{} `json:"payload"`
}
