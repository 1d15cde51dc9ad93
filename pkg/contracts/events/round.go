package events

import "time"

// GameStarted: apostas travadas, roleta e bola em movimento.
type GameStarted struct {
	RoundID    string    `json:"roundId"`
	BetCount   int       `json:"betCount"`
	TotalStake int64     `json:"totalStake"`
	Ts         time.Time `json:"ts"`
}

// WheelStopped é sinalizado pela física quando a roleta para de girar.
type WheelStopped struct {
	RoundID string `json:"roundId"`
}

// BallStopped é sinalizado quando a bola repousa num pocket.
type BallStopped struct {
	RoundID       string `json:"roundId"`
	WinningNumber int    `json:"winningNumber"`
}

// GameEnded carrega o número vencedor e o total pago na rodada.
type GameEnded struct {
	RoundID       string    `json:"roundId"`
	WinningNumber int       `json:"winningNumber"`
	TotalPayout   string    `json:"totalPayout"`
	BalanceAfter  int64     `json:"balanceAfter"`
	Ts            time.Time `json:"ts"`
}

// BetRecord é o registro de uma aposta avaliada.
type BetRecord struct {
	BetType   string `json:"bet_type"`
	Numbers   []int  `json:"numbers"`
	Amount    int64  `json:"amount"`
	IsWin     bool   `json:"is_win"`
	WinAmount string `json:"win_amount"`
}

// RoundSettled é publicado no tópico "roulette_round_settled" ao fim de cada rodada.
type RoundSettled struct {
	RoundID        string      `json:"round_id"`
	WinningNumber  int         `json:"winning_number"`
	BalanceBefore  int64       `json:"balance_before"`
	BalanceAfter   int64       `json:"balance_after"`
	TotalBetAmount int64       `json:"total_bet_amount"`
	TotalWinAmount string      `json:"total_win_amount"`
	Bets           []BetRecord `json:"bets"`
	SettledAt      time.Time   `json:"settled_at"`
}
