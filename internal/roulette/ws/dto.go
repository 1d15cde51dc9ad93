package ws

// Tópicos disponíveis para assinatura
const (
	TopicLedger = "ledger"
	TopicRound  = "round"
)

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
type ClientMsg struct {
	Type  string `json:"type"`  // subscribe | unsubscribe | ping
	Topic string `json:"topic"` // requerido em subscribe/unsubscribe
}

// Update é o envelope enviado aos clientes
type Update struct {
	Topic   string `json:"topic"`
	Kind    string `json:"kind"` // ex: BetLedgerChanged, GameEnded
	Payload any    `json:"payload"`
}
