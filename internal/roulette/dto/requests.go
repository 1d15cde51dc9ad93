package dto

import "github.com/radieske/roulette-table/internal/roulette/bet"

type PlaceBetRequest struct {
	BetType bet.BetType `json:"betType"`
	Numbers []int       `json:"numbers,omitempty"` // vazio em Red/Black/Even/Odd/High/Low usa o conjunto padrão
	Amount  int64       `json:"amount"`
	Chips   []Chip      `json:"chips,omitempty"` // se presente, amount é a soma das fichas
}

// Chip é uma pilha de fichas de um mesmo valor.
type Chip struct {
	Denomination int64 `json:"denomination"`
	Count        int64 `json:"count"`
}

type UpdateBetRequest struct {
	BetType bet.BetType `json:"betType"`
	Numbers []int       `json:"numbers"`
	Amount  int64       `json:"amount"`
}

type RemoveBetRequest struct {
	BetType bet.BetType `json:"betType"`
	Numbers []int       `json:"numbers"`
}
