package stats

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Schema das tabelas de estatísticas
const Schema = `
CREATE TABLE IF NOT EXISTS roulette_rounds (
  round_id         TEXT PRIMARY KEY,
  winning_number   INT         NOT NULL,
  balance_before   BIGINT      NOT NULL,
  balance_after    BIGINT      NOT NULL,
  total_bet_amount BIGINT      NOT NULL,
  total_win_amount NUMERIC     NOT NULL,
  settled_at       TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS roulette_round_bets (
  round_id   TEXT    NOT NULL REFERENCES roulette_rounds(round_id),
  position   INT     NOT NULL,
  bet_type   TEXT    NOT NULL,
  numbers    INT[]   NOT NULL,
  amount     BIGINT  NOT NULL,
  is_win     BOOLEAN NOT NULL,
  win_amount NUMERIC NOT NULL,
  PRIMARY KEY (round_id, position)
);`

// Postgres persiste rodadas e apostas avaliadas.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// EnsureSchema cria as tabelas se ainda não existirem.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, Schema)
	return err
}

// Record insere a rodada e suas apostas numa única transação.
// Reentrega do mesmo round_id é ignorada (idempotente).
func (p *Postgres) Record(ctx context.Context, r GameResult) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO roulette_rounds
		  (round_id, winning_number, balance_before, balance_after, total_bet_amount, total_win_amount, settled_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (round_id) DO NOTHING`,
		r.RoundID, r.WinningNumber, r.BalanceBefore, r.BalanceAfter, r.TotalBetAmount, r.TotalWinAmount, r.Timestamp,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil // já registrada
	}

	for i, b := range r.Bets {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO roulette_round_bets (round_id, position, bet_type, numbers, amount, is_win, win_amount)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			r.RoundID, i, b.BetType, pq.Array(b.Numbers), b.Amount, b.IsWin, b.WinAmount,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Statistics calcula o agregado direto no banco (sem histórico detalhado).
func (p *Postgres) Statistics(ctx context.Context) (UserStatistics, error) {
	var (
		s     UserStatistics
		total decimal.NullDecimal
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_bet_amount),0), SUM(total_win_amount)
		FROM roulette_rounds`).Scan(&s.TotalGamesPlayed, &s.TotalBetAmount, &total)
	if err != nil {
		return UserStatistics{}, err
	}
	if total.Valid {
		s.TotalWinAmount = total.Decimal
	}
	return s, nil
}
