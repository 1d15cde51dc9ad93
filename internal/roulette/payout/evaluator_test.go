package payout

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/radieske/roulette-table/internal/roulette/bet"
	"github.com/radieske/roulette-table/internal/roulette/ledger"
)

func mustBet(t *testing.T, typ bet.BetType, numbers []int, amount int64) bet.Bet {
	t.Helper()
	b, err := bet.New(typ, numbers, amount)
	if err != nil {
		t.Fatalf("bet.New: %v", err)
	}
	return b
}

func TestEvaluate_MixedBets(t *testing.T) {
	bets := Bets{
		mustBet(t, bet.Straight, []int{17}, 10),
		mustBet(t, bet.Red, []int{1, 3, 5, 7, 9, 12, 14, 16, 18, 19, 21, 23, 25, 27, 30, 32, 34, 36, 17}, 20),
		mustBet(t, bet.Dozens, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, 15),
	}
	e := NewEvaluator(DefaultTable(), nil)

	res, err := e.Evaluate(bets, 17)
	if err != nil {
		t.Fatal(err)
	}

	wantPayouts := []int64{350, 20, 0}
	for i, want := range wantPayouts {
		if !res.PerBet[i].Payout.Equal(decimal.NewFromInt(want)) {
			t.Errorf("PerBet[%d].Payout = %s, want %d", i, res.PerBet[i].Payout, want)
		}
	}
	if !res.TotalPayout.Equal(decimal.NewFromInt(370)) {
		t.Errorf("TotalPayout = %s, want 370", res.TotalPayout)
	}
	if res.TotalStake != 45 {
		t.Errorf("TotalStake = %d, want 45", res.TotalStake)
	}
	if len(res.Winners()) != 2 {
		t.Errorf("Winners = %d, want 2", len(res.Winners()))
	}
}

func TestEvaluate_Multipliers(t *testing.T) {
	tests := []struct {
		typ     bet.BetType
		numbers []int
		want    int64
	}{
		{bet.Straight, []int{0}, 350},
		{bet.Split, []int{0, 1}, 170},
		{bet.Street, []int{0, 1, 2}, 110},
		{bet.Corner, []int{0, 1, 2, 3}, 80},
		{bet.SixLine, []int{0, 1, 2, 3, 4, 5}, 50},
		{bet.Red, []int{0}, 10},
		{bet.Black, []int{0}, 10},
		{bet.Even, []int{0}, 10},
		{bet.Odd, []int{0}, 10},
		{bet.High, []int{0}, 10},
		{bet.Low, []int{0}, 10},
		{bet.Dozens, []int{0}, 20},
		{bet.Columns, []int{0}, 20},
	}
	e := NewEvaluator(nil, nil)
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			res, err := e.Evaluate(Bets{mustBet(t, tt.typ, tt.numbers, 10)}, 0)
			if err != nil {
				t.Fatal(err)
			}
			if !res.TotalPayout.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("payout = %s, want %d", res.TotalPayout, tt.want)
			}
		})
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	l := ledger.New(nil)
	_ = l.PlaceBet(bet.Straight, []int{5}, 10)
	_ = l.PlaceBet(bet.Even, []int{2, 4, 6}, 3)
	e := NewEvaluator(nil, nil)

	first, err := e.Evaluate(l, 4)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := e.Evaluate(l, 4)
	if !first.TotalPayout.Equal(second.TotalPayout) || len(first.PerBet) != len(second.PerBet) {
		t.Errorf("evaluations differ: %s vs %s", first.TotalPayout, second.TotalPayout)
	}
	if l.Count() != 2 || l.TotalStake() != 13 {
		t.Errorf("ledger changed: count=%d stake=%d", l.Count(), l.TotalStake())
	}

	sum := decimal.Zero
	for _, o := range first.PerBet {
		sum = sum.Add(o.Payout)
	}
	if !sum.Equal(first.TotalPayout) {
		t.Errorf("sum of per-bet payouts %s != total %s", sum, first.TotalPayout)
	}
}

func TestEvaluate_EmptyAndLosing(t *testing.T) {
	e := NewEvaluator(nil, nil)
	res, err := e.Evaluate(Bets{}, 0)
	if err != nil || !res.TotalPayout.IsZero() || len(res.PerBet) != 0 {
		t.Errorf("empty evaluation = %+v, %v", res, err)
	}
	res, _ = e.Evaluate(Bets{mustBet(t, bet.Straight, []int{1}, 10)}, 2)
	if res.PerBet[0].Won || !res.TotalPayout.IsZero() {
		t.Errorf("losing bet paid: %+v", res.PerBet[0])
	}
}

func TestEvaluate_InvalidWinningNumber(t *testing.T) {
	e := NewEvaluator(nil, nil)
	for _, n := range []int{-1, 37} {
		if _, err := e.Evaluate(Bets{}, n); !errors.Is(err, ErrInvalidWinningNumber) {
			t.Errorf("Evaluate(%d) error = %v", n, err)
		}
	}
}

func TestEvaluate_UnknownBetTypeIsAnomaly(t *testing.T) {
	table := DefaultTable()
	delete(table, bet.Corner)

	var reported []bet.BetType
	e := NewEvaluator(table, nil)
	e.OnAnomaly = func(bt bet.BetType) { reported = append(reported, bt) }

	bets := Bets{
		mustBet(t, bet.Straight, []int{1}, 10),
		mustBet(t, bet.Corner, []int{1, 2, 4, 5}, 10),
		{Type: bet.BetType(99), Numbers: []int{1}, Amount: 10},
	}
	res, err := e.Evaluate(bets, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Anomalies) != 2 || res.Anomalies[0].Index != 1 || res.Anomalies[1].BetType != bet.BetType(99) {
		t.Fatalf("Anomalies = %+v", res.Anomalies)
	}
	if len(reported) != 2 {
		t.Errorf("OnAnomaly calls = %d, want 2", len(reported))
	}
	if !res.PerBet[1].Payout.IsZero() || !res.PerBet[2].Payout.IsZero() {
		t.Error("unknown bet types must pay zero")
	}
	if !res.TotalPayout.Equal(decimal.NewFromInt(350)) {
		t.Errorf("TotalPayout = %s, want 350", res.TotalPayout)
	}
}

func TestTable_Multiplier(t *testing.T) {
	tbl := DefaultTable()
	for _, bt := range bet.AllTypes() {
		if _, ok := tbl.Multiplier(bt); !ok {
			t.Errorf("missing multiplier for %s", bt)
		}
	}
	if _, ok := tbl.Multiplier(bet.BetType(-1)); ok {
		t.Error("unexpected multiplier for invalid type")
	}
}
