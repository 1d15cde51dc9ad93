package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub gerencia conexões WebSocket da UI e suas assinaturas por tópico
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger
	mu       sync.RWMutex
	// topic -> set of connections
	subs map[string]map[*websocket.Conn]struct{}
	// escrita concorrente na mesma conexão não é permitida pelo gorilla
	writeMu map[*websocket.Conn]*sync.Mutex
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(log *zap.Logger, allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		log:      log,
		subs:     make(map[string]map[*websocket.Conn]struct{}),
		writeMu:  make(map[*websocket.Conn]*sync.Mutex),
	}
}

// ServeHTTP faz o upgrade e assina por padrão os dois tópicos
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.writeMu[conn] = &sync.Mutex{}
	h.mu.Unlock()
	h.subscribe(conn, TopicLedger)
	h.subscribe(conn, TopicRound)

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.subscribe(conn, msg.Topic)
		case "unsubscribe":
			h.unsubscribe(conn, msg.Topic)
		case "ping":
			h.write(conn, mustJSON(map[string]string{"type": "pong"}))
		}
	}

	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for topic, set := range h.subs {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.subs, topic)
		}
	}
	delete(h.writeMu, conn)
	h.mu.Unlock()
}

func (h *Hub) subscribe(conn *websocket.Conn, topic string) {
	if topic == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[topic]; !ok {
		h.subs[topic] = make(map[*websocket.Conn]struct{})
	}
	h.subs[topic][conn] = struct{}{}
}

func (h *Hub) unsubscribe(conn *websocket.Conn, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.subs[topic]; ok {
		delete(m, conn)
		if len(m) == 0 {
			delete(h.subs, topic)
		}
	}
}

// Subscribers devolve quantas conexões assinam o tópico
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

// Broadcast envia a atualização para todos os inscritos no tópico
func (h *Hub) Broadcast(u Update) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subs[u.Topic]))
	for c := range h.subs[u.Topic] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	b := mustJSON(u)
	for _, c := range conns {
		h.write(c, b)
	}
}

func (h *Hub) write(c *websocket.Conn, b []byte) {
	h.mu.RLock()
	wmu := h.writeMu[c]
	h.mu.RUnlock()
	if wmu == nil {
		return
	}
	wmu.Lock()
	defer wmu.Unlock()
	_ = c.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
		h.log.Debug("ws write failed", zap.Error(err))
	}
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
