package dto

import "github.com/radieske/roulette-table/internal/roulette/bet"

type LedgerResponse struct {
	Bets       []bet.Bet `json:"bets"`
	Count      int       `json:"count"`
	TotalStake int64     `json:"totalStake"`
	CanPlay    bool      `json:"canPlay"`
}

type RoundStateResponse struct {
	State   string `json:"state"`
	RoundID string `json:"roundId,omitempty"`
	Balance int64  `json:"balance"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
