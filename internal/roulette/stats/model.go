package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/radieske/roulette-table/internal/roulette/payout"
	"github.com/radieske/roulette-table/pkg/contracts/events"
)

// BetRecord guarda uma aposta já avaliada.
type BetRecord struct {
	BetType   string          `json:"betType"`
	Amount    int64           `json:"amount"`
	Numbers   []int           `json:"numbers"`
	IsWin     bool            `json:"isWin"`
	WinAmount decimal.Decimal `json:"winAmount"`
}

// GameResult é o registro de uma rodada liquidada.
type GameResult struct {
	RoundID        string          `json:"roundId"`
	Timestamp      time.Time       `json:"timestamp"`
	WinningNumber  int             `json:"winningNumber"`
	BalanceBefore  int64           `json:"balanceBefore"`
	BalanceAfter   int64           `json:"balanceAfter"`
	TotalBetAmount int64           `json:"totalBetAmount"`
	TotalWinAmount decimal.Decimal `json:"totalWinAmount"`
	Bets           []BetRecord     `json:"bets"`
}

// UserStatistics acumula o histórico do jogador.
type UserStatistics struct {
	TotalGamesPlayed int             `json:"totalGamesPlayed"`
	TotalBetAmount   int64           `json:"totalBetAmount"`
	TotalWinAmount   decimal.Decimal `json:"totalWinAmount"`
	GameHistory      []GameResult    `json:"gameHistory"`
}

// Add incorpora uma rodada ao histórico e aos totais.
func (u *UserStatistics) Add(r GameResult) {
	u.GameHistory = append(u.GameHistory, r)
	u.TotalGamesPlayed++
	u.TotalBetAmount += r.TotalBetAmount
	u.TotalWinAmount = u.TotalWinAmount.Add(r.TotalWinAmount)
}

// Sink recebe o resultado de cada rodada (arquivo, Kafka, Postgres...).
type Sink interface {
	Record(ctx context.Context, r GameResult) error
}

// Reader expõe o agregado de estatísticas para consulta.
type Reader interface {
	Statistics(ctx context.Context) (UserStatistics, error)
}

// NewGameResult monta o registro da rodada a partir da avaliação.
func NewGameResult(roundID string, res payout.Result, balanceBefore, balanceAfter int64, ts time.Time) GameResult {
	gr := GameResult{
		RoundID:        roundID,
		Timestamp:      ts,
		WinningNumber:  res.WinningNumber,
		BalanceBefore:  balanceBefore,
		BalanceAfter:   balanceAfter,
		TotalBetAmount: res.TotalStake,
		TotalWinAmount: res.TotalPayout,
		Bets:           make([]BetRecord, 0, len(res.PerBet)),
	}
	for _, o := range res.PerBet {
		gr.Bets = append(gr.Bets, BetRecord{
			BetType:   o.Bet.Type.String(),
			Amount:    o.Bet.Amount,
			Numbers:   append([]int(nil), o.Bet.Numbers...),
			IsWin:     o.Won,
			WinAmount: o.Payout,
		})
	}
	return gr
}

// ToEvent converte para o contrato publicado no Kafka.
func (r GameResult) ToEvent() events.RoundSettled {
	ev := events.RoundSettled{
		RoundID:        r.RoundID,
		WinningNumber:  r.WinningNumber,
		BalanceBefore:  r.BalanceBefore,
		BalanceAfter:   r.BalanceAfter,
		TotalBetAmount: r.TotalBetAmount,
		TotalWinAmount: r.TotalWinAmount.String(),
		SettledAt:      r.Timestamp,
	}
	for _, b := range r.Bets {
		ev.Bets = append(ev.Bets, events.BetRecord{
			BetType:   b.BetType,
			Numbers:   b.Numbers,
			Amount:    b.Amount,
			IsWin:     b.IsWin,
			WinAmount: b.WinAmount.String(),
		})
	}
	return ev
}

// FromEvent faz o caminho inverso, usado pelo stats-worker.
func FromEvent(ev events.RoundSettled) (GameResult, error) {
	total, err := decimal.NewFromString(ev.TotalWinAmount)
	if err != nil {
		return GameResult{}, err
	}
	gr := GameResult{
		RoundID:        ev.RoundID,
		Timestamp:      ev.SettledAt,
		WinningNumber:  ev.WinningNumber,
		BalanceBefore:  ev.BalanceBefore,
		BalanceAfter:   ev.BalanceAfter,
		TotalBetAmount: ev.TotalBetAmount,
		TotalWinAmount: total,
	}
	for _, b := range ev.Bets {
		win, err := decimal.NewFromString(b.WinAmount)
		if err != nil {
			return GameResult{}, err
		}
		gr.Bets = append(gr.Bets, BetRecord{
			BetType:   b.BetType,
			Amount:    b.Amount,
			Numbers:   b.Numbers,
			IsWin:     b.IsWin,
			WinAmount: win,
		})
	}
	return gr, nil
}
