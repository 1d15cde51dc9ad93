package payout

import (
	"github.com/shopspring/decimal"

	"github.com/radieske/roulette-table/internal/roulette/bet"
)

// Table mapeia modalidade -> multiplicador aplicado ao stake vencedor.
type Table map[bet.BetType]decimal.Decimal

// DefaultTable é a tabela fixa da roleta europeia.
func DefaultTable() Table {
	one := decimal.NewFromInt(1)
	two := decimal.NewFromInt(2)
	return Table{
		bet.Straight: decimal.NewFromInt(35),
		bet.Split:    decimal.NewFromInt(17),
		bet.Street:   decimal.NewFromInt(11),
		bet.Corner:   decimal.NewFromInt(8),
		bet.SixLine:  decimal.NewFromInt(5),
		bet.Red:      one,
		bet.Black:    one,
		bet.Even:     one,
		bet.Odd:      one,
		bet.High:     one,
		bet.Low:      one,
		bet.Dozens:   two,
		bet.Columns:  two,
	}
}

// Multiplier devolve o multiplicador; ok=false quando a modalidade não está na tabela.
func (t Table) Multiplier(bt bet.BetType) (decimal.Decimal, bool) {
	m, ok := t[bt]
	if !ok {
		return decimal.Zero, false
	}
	return m, true
}
