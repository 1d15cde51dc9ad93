package payout

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/roulette-table/internal/roulette/bet"
)

var ErrInvalidWinningNumber = errors.New("winning number out of range")

// BetSource é qualquer coleção que devolva as apostas em ordem (ex.: *ledger.Ledger).
type BetSource interface {
	Bets() []bet.Bet
}

// Bets adapta um slice para BetSource.
type Bets []bet.Bet

func (b Bets) Bets() []bet.Bet { return b }

// Outcome é o resultado de uma aposta individual.
type Outcome struct {
	Bet    bet.Bet         `json:"bet"`
	Won    bool            `json:"won"`
	Payout decimal.Decimal `json:"payout"`
}

// UnknownBetTypeAnomaly registra uma aposta cuja modalidade não consta na tabela.
type UnknownBetTypeAnomaly struct {
	Index   int         `json:"index"`
	BetType bet.BetType `json:"betType"`
}

func (a UnknownBetTypeAnomaly) Error() string {
	return fmt.Sprintf("bet #%d: no payout multiplier for %s", a.Index, a.BetType)
}

// Result agrega a avaliação de todas as apostas contra um número.
type Result struct {
	WinningNumber int                     `json:"winningNumber"`
	TotalStake    int64                   `json:"totalStake"`
	TotalPayout   decimal.Decimal         `json:"totalPayout"`
	PerBet        []Outcome               `json:"perBet"`
	Anomalies     []UnknownBetTypeAnomaly `json:"anomalies,omitempty"`
}

// Evaluator calcula pagamentos sem alterar a fonte de apostas.
type Evaluator struct {
	table Table
	log   *zap.Logger

	OnAnomaly func(bet.BetType) // métricas
}

func NewEvaluator(table Table, log *zap.Logger) *Evaluator {
	if table == nil {
		table = DefaultTable()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{table: table, log: log}
}

// Evaluate percorre as apostas em ordem: vence quem cobre winningNumber e
// recebe amount * multiplicador. Perdedoras entram com payout zero.
func (e *Evaluator) Evaluate(src BetSource, winningNumber int) (Result, error) {
	if winningNumber < bet.MinPocket || winningNumber > bet.MaxPocket {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidWinningNumber, winningNumber)
	}

	bets := src.Bets()
	res := Result{
		WinningNumber: winningNumber,
		TotalPayout:   decimal.Zero,
		PerBet:        make([]Outcome, 0, len(bets)),
	}

	for i, b := range bets {
		res.TotalStake += b.Amount
		out := Outcome{Bet: b.Clone(), Payout: decimal.Zero}

		mult, ok := e.table.Multiplier(b.Type)
		if !ok {
			a := UnknownBetTypeAnomaly{Index: i, BetType: b.Type}
			res.Anomalies = append(res.Anomalies, a)
			e.log.Warn("unknown bet type in evaluation",
				zap.Int("index", i),
				zap.String("bet_type", b.Type.String()),
				zap.Int64("amount", b.Amount),
			)
			if e.OnAnomaly != nil {
				e.OnAnomaly(b.Type)
			}
		}

		if b.Covers(winningNumber) {
			out.Won = true
			out.Payout = decimal.NewFromInt(b.Amount).Mul(mult)
		}
		res.TotalPayout = res.TotalPayout.Add(out.Payout)
		res.PerBet = append(res.PerBet, out)
	}

	return res, nil
}

// Winners filtra as apostas vencedoras.
func (r Result) Winners() []Outcome {
	var out []Outcome
	for _, o := range r.PerBet {
		if o.Won {
			out = append(out, o)
		}
	}
	return out
}
