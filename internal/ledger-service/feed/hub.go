package feed

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// client embrulha a conexão WebSocket com um mutex de escrita.
// A lib exige um único escritor por conexão; broadcast e pong podem
// disputar a mesma conexão a partir de goroutines diferentes.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) writeText(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub gerencia conexões WebSocket e assinaturas por aposta
// subs: mapeia betID para o conjunto de clientes inscritos
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	subs     map[int64]map[*client]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[int64]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe por betId e responde a pings
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}
	defer conn.Close()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.mu.Lock()
			if _, ok := h.subs[msg.BetID]; !ok {
				h.subs[msg.BetID] = make(map[*client]struct{})
			}
			h.subs[msg.BetID][c] = struct{}{}
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			if m, ok := h.subs[msg.BetID]; ok {
				delete(m, c)
				if len(m) == 0 {
					delete(h.subs, msg.BetID)
				}
			}
			h.mu.Unlock()
		case "ping":
			_ = c.writeJSON(map[string]string{"type": "pong"})
		}
	}
	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for _, set := range h.subs {
		delete(set, c)
	}
	h.mu.Unlock()
}

// Broadcast envia um evento de ciclo de vida para os clientes inscritos no betId.
// O conjunto de inscritos é copiado sob o lock; a escrita nas conexões acontece
// fora dele, serializada pelo mutex de cada cliente.
func (h *Hub) Broadcast(update Update) {
	h.mu.RLock()
	set := h.subs[update.BetID]
	clients := make([]*client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	if len(clients) == 0 {
		return
	}

	b, _ := json.Marshal(update)
	for _, c := range clients {
		_ = c.writeText(b)
	}
}
