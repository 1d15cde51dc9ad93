package events

import "time"

// Ações que disparam BetLedgerChanged
const (
	LedgerActionPlace  = "place"
	LedgerActionUpdate = "update"
	LedgerActionRemove = "remove"
	LedgerActionClear  = "clear"
)

// BetLedgerChanged é emitido após toda mutação bem-sucedida do ledger de apostas.
type BetLedgerChanged struct {
	Action     string    `json:"action"`
	BetType    string    `json:"betType,omitempty"`
	Numbers    []int     `json:"numbers,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	BetCount   int       `json:"betCount"`
	TotalStake int64     `json:"totalStake"`
	Ts         time.Time `json:"ts"`
}
