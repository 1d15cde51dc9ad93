package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/radieske/roulette-table/internal/roulette/bet"
	"github.com/radieske/roulette-table/internal/roulette/payout"
	"github.com/radieske/roulette-table/internal/roulette/stats"
	"github.com/radieske/roulette-table/internal/shared/eventbus"
	"github.com/radieske/roulette-table/pkg/contracts/events"
)

type fixedOutcome struct {
	n   int
	err error
}

func (f fixedOutcome) Spin(context.Context, string) (int, error) { return f.n, f.err }

type memSink struct {
	results []stats.GameResult
	err     error
}

func (m *memSink) Record(_ context.Context, r stats.GameResult) error {
	m.results = append(m.results, r)
	return m.err
}

func newTestController(n int, balance int64) (*Controller, *memSink, *eventbus.Bus) {
	bus := eventbus.New(nil)
	sink := &memSink{}
	c := NewController(Options{
		Bus:            bus,
		Sink:           sink,
		Outcome:        fixedOutcome{n: n},
		InitialBalance: balance,
	})
	return c, sink, bus
}

func TestController_FullRound(t *testing.T) {
	c, sink, bus := newTestController(17, 1000)

	var started []events.GameStarted
	var ended []events.GameEnded
	eventbus.Subscribe(bus, func(e events.GameStarted) error { started = append(started, e); return nil })
	eventbus.Subscribe(bus, func(e events.GameEnded) error { ended = append(ended, e); return nil })

	if err := c.PlaceBet(bet.Straight, []int{17}, 10); err != nil {
		t.Fatal(err)
	}
	if err := c.PlaceBet(bet.Dozens, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, 15); err != nil {
		t.Fatal(err)
	}

	roundID, err := c.Play()
	if err != nil {
		t.Fatal(err)
	}
	if c.State() != StateLocked || roundID == "" {
		t.Fatalf("state=%s round=%q after Play", c.State(), roundID)
	}
	if err := c.PlaceBet(bet.Red, []int{1}, 5); !errors.Is(err, ErrRoundLocked) {
		t.Errorf("PlaceBet while locked error = %v", err)
	}

	res, err := c.Spin(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.WinningNumber != 17 || !res.TotalWinAmount.Equal(decimal.NewFromInt(350)) {
		t.Errorf("result = %d / %s", res.WinningNumber, res.TotalWinAmount)
	}
	// perde 15 da dúzia, mantém os 10 do pleno e recebe 350
	if res.BalanceBefore != 1000 || res.BalanceAfter != 1335 || c.Balance() != 1335 {
		t.Errorf("balance before=%d after=%d current=%d", res.BalanceBefore, res.BalanceAfter, c.Balance())
	}

	if c.State() != StateOpen || !c.Ledger().IsEmpty() || c.RoundID() != "" {
		t.Errorf("after settle: state=%s bets=%d round=%q", c.State(), c.Ledger().Count(), c.RoundID())
	}
	if len(sink.results) != 1 || sink.results[0].RoundID != roundID {
		t.Errorf("sink results = %+v", sink.results)
	}
	if len(started) != 1 || len(ended) != 1 || ended[0].WinningNumber != 17 || ended[0].TotalPayout != "350" {
		t.Errorf("events started=%+v ended=%+v", started, ended)
	}
	last, ok := c.LastResult()
	if !ok || last.RoundID != roundID {
		t.Errorf("LastResult = %+v, %v", last, ok)
	}
}

func TestController_PlayGuards(t *testing.T) {
	c, _, _ := newTestController(0, 20)

	if _, err := c.Play(); !errors.Is(err, ErrNoBets) {
		t.Errorf("Play with no bets error = %v", err)
	}
	_ = c.PlaceBet(bet.Straight, []int{1}, 50)
	if _, err := c.Play(); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("Play over balance error = %v", err)
	}
	if c.State() != StateOpen {
		t.Errorf("state = %s, want open", c.State())
	}
	if _, err := c.Spin(context.Background()); !errors.Is(err, ErrNoRoundInProgress) {
		t.Errorf("Spin without round error = %v", err)
	}
}

func TestController_WaitsForWheelAndBall(t *testing.T) {
	c, sink, bus := newTestController(0, 100)
	c.Subscribe(context.Background())

	_ = c.PlaceBet(bet.Red, []int{1, 3}, 10)
	roundID, _ := c.Play()

	eventbus.Publish(bus, events.BallStopped{RoundID: roundID, WinningNumber: 3})
	if c.State() != StateLocked || len(sink.results) != 0 {
		t.Fatalf("settled before wheel stopped: state=%s", c.State())
	}
	eventbus.Publish(bus, events.WheelStopped{RoundID: roundID})
	if c.State() != StateOpen || len(sink.results) != 1 {
		t.Fatalf("not settled after both signals: state=%s", c.State())
	}
	if c.Balance() != 110 {
		t.Errorf("Balance = %d, want 110", c.Balance())
	}
}

func TestController_StaleRoundAndBadNumber(t *testing.T) {
	c, _, _ := newTestController(0, 100)
	_ = c.PlaceBet(bet.Straight, []int{1}, 10)
	roundID, _ := c.Play()

	if _, err := c.WheelStopped(context.Background(), "other-round"); !errors.Is(err, ErrNoRoundInProgress) {
		t.Errorf("stale round error = %v", err)
	}
	if _, err := c.BallStopped(context.Background(), roundID, 37); !errors.Is(err, payout.ErrInvalidWinningNumber) {
		t.Errorf("bad number error = %v", err)
	}
	if c.State() != StateLocked {
		t.Errorf("state = %s, want locked", c.State())
	}
}

func TestController_SpinFailureKeepsRoundLocked(t *testing.T) {
	c := NewController(Options{Outcome: fixedOutcome{err: errors.New("wheel offline")}, InitialBalance: 100})
	_ = c.PlaceBet(bet.Straight, []int{1}, 10)
	if _, err := c.Play(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Spin(context.Background()); err == nil {
		t.Fatal("expected spin error")
	}
	if c.State() != StateLocked || c.Ledger().Count() != 1 {
		t.Errorf("state=%s bets=%d", c.State(), c.Ledger().Count())
	}
}

func TestController_SinkErrorDoesNotBlockSettlement(t *testing.T) {
	bus := eventbus.New(nil)
	sink := &memSink{err: errors.New("disk full")}
	c := NewController(Options{Bus: bus, Sink: sink, Outcome: fixedOutcome{n: 2}, InitialBalance: 50})
	var settled int
	c.OnSettled = func(stats.GameResult) { settled++ }

	_ = c.PlaceBet(bet.Even, []int{2, 4}, 10)
	_, _ = c.Play()
	if _, err := c.Spin(context.Background()); err != nil {
		t.Fatal(err)
	}
	if settled != 1 || c.State() != StateOpen {
		t.Errorf("settled=%d state=%s", settled, c.State())
	}
}

func TestController_LedgerHandlerCanReadController(t *testing.T) {
	c, _, bus := newTestController(0, 100)
	var seen []State
	eventbus.Subscribe(bus, func(e events.BetLedgerChanged) error {
		seen = append(seen, c.State())
		_ = c.Balance()
		_, _ = c.LastResult()
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- c.PlaceBet(bet.Straight, []int{7}, 10) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("PlaceBet blocked while a ledger handler read the controller")
	}
	if len(seen) != 1 || seen[0] != StateOpen {
		t.Errorf("handler saw states %v", seen)
	}
}

func TestController_SlowLedgerHandlerDoesNotBlockReaders(t *testing.T) {
	c, _, bus := newTestController(0, 100)
	entered := make(chan struct{})
	release := make(chan struct{})
	eventbus.Subscribe(bus, func(events.BetLedgerChanged) error {
		close(entered)
		<-release
		return nil
	})

	go func() { _ = c.PlaceBet(bet.Straight, []int{7}, 10) }()
	<-entered
	defer close(release)

	got := make(chan State, 1)
	go func() { got <- c.State() }()
	select {
	case st := <-got:
		if st != StateOpen {
			t.Errorf("State = %s", st)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("State blocked behind a ledger handler")
	}
}

func TestController_PlayRacesWithBets(t *testing.T) {
	c, _, bus := newTestController(0, 1_000_000)
	var started events.GameStarted
	eventbus.Subscribe(bus, func(e events.GameStarted) error { started = e; return nil })

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		g := g
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = c.PlaceBet(bet.Straight, []int{(g*50 + i) % 37}, 1)
			}
		}()
	}
	time.Sleep(time.Millisecond)
	for {
		if _, err := c.Play(); err == nil {
			break
		} else if !errors.Is(err, ErrNoBets) {
			t.Fatal(err)
		}
	}
	wg.Wait()

	if c.State() != StateLocked {
		t.Fatalf("state = %s", c.State())
	}
	if started.BetCount != c.Ledger().Count() || started.TotalStake != c.Ledger().TotalStake() {
		t.Errorf("ledger changed after Play: started %d/%d, now %d/%d",
			started.BetCount, started.TotalStake, c.Ledger().Count(), c.Ledger().TotalStake())
	}
}
