package game

import "fmt"

// State da rodada
type State string

const (
	StateOpen      State = "open"      // aceitando apostas
	StateLocked    State = "locked"    // roleta girando, sem novas apostas
	StateEvaluated State = "evaluated" // número conhecido, pagamentos calculados
	StateSettled   State = "settled"   // ledger limpo, estatísticas registradas
)

// Eventos de transição
const (
	EvtPlay         = "play"
	EvtSpinComplete = "spin_complete"
	EvtSettle       = "settle"
	EvtReopen       = "reopen"
)

// NextState calcula o próximo estado; transição ilegal devolve erro e mantém o atual.
func NextState(cur State, evt string) (State, error) {
	switch cur {
	case StateOpen:
		if evt == EvtPlay {
			return StateLocked, nil
		}
	case StateLocked:
		if evt == EvtSpinComplete {
			return StateEvaluated, nil
		}
	case StateEvaluated:
		if evt == EvtSettle {
			return StateSettled, nil
		}
	case StateSettled:
		if evt == EvtReopen {
			return StateOpen, nil
		}
	}
	return cur, fmt.Errorf("invalid transition: %s --%s--> ?", cur, evt)
}
