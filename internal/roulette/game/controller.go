package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/roulette-table/internal/roulette/bet"
	"github.com/radieske/roulette-table/internal/roulette/ledger"
	"github.com/radieske/roulette-table/internal/roulette/payout"
	"github.com/radieske/roulette-table/internal/roulette/stats"
	"github.com/radieske/roulette-table/internal/shared/eventbus"
	"github.com/radieske/roulette-table/pkg/contracts/events"
)

var (
	ErrRoundLocked         = ledger.ErrClosed
	ErrNoBets              = errors.New("at least one bet is required to play")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoRoundInProgress   = errors.New("no round in progress")
	ErrNoOutcomeSource     = errors.New("no outcome source configured")
)

// OutcomeSource fornece o número vencedor de uma rodada (física, simulador...).
type OutcomeSource interface {
	Spin(ctx context.Context, roundID string) (int, error)
}

// Options agrupa as dependências do Controller.
type Options struct {
	Log            *zap.Logger
	Bus            *eventbus.Bus
	Ledger         *ledger.Ledger
	Evaluator      *payout.Evaluator
	Sink           stats.Sink
	Outcome        OutcomeSource
	InitialBalance int64
}

// Controller conduz o ciclo da rodada: Open -> Locked -> Evaluated -> Settled -> Open.
// O ledger fica fechado de Play até a liquidação; mutações de aposta não passam por c.mu,
// então handlers de BetLedgerChanged rodam sem nenhum lock do controller.
type Controller struct {
	log     *zap.Logger
	bus     *eventbus.Bus
	ledger  *ledger.Ledger
	eval    *payout.Evaluator
	sink    stats.Sink
	outcome OutcomeSource

	mu           sync.Mutex
	state        State
	roundID      string
	wheelStopped bool
	ballStopped  bool
	winning      int
	balance      int64
	last         *stats.GameResult

	now   func() time.Time
	newID func() string

	OnSettled func(stats.GameResult) // métricas
}

func NewController(o Options) *Controller {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	if o.Bus == nil {
		o.Bus = eventbus.New(o.Log)
	}
	if o.Ledger == nil {
		o.Ledger = ledger.New(ledger.BusPublisher(o.Bus))
	}
	if o.Evaluator == nil {
		o.Evaluator = payout.NewEvaluator(payout.DefaultTable(), o.Log)
	}
	return &Controller{
		log:     o.Log,
		bus:     o.Bus,
		ledger:  o.Ledger,
		eval:    o.Evaluator,
		sink:    o.Sink,
		outcome: o.Outcome,
		state:   StateOpen,
		balance: o.InitialBalance,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Subscribe liga o controller aos sinais de parada da roleta e da bola.
func (c *Controller) Subscribe(ctx context.Context) []eventbus.Ticket {
	return []eventbus.Ticket{
		eventbus.Subscribe(c.bus, func(e events.WheelStopped) error {
			_, err := c.WheelStopped(ctx, e.RoundID)
			return err
		}),
		eventbus.Subscribe(c.bus, func(e events.BallStopped) error {
			_, err := c.BallStopped(ctx, e.RoundID, e.WinningNumber)
			return err
		}),
	}
}

func (c *Controller) Ledger() *ledger.Ledger { return c.ledger }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) RoundID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roundID
}

func (c *Controller) Balance() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

// LastResult devolve a última rodada liquidada, se houver.
func (c *Controller) LastResult() (stats.GameResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return stats.GameResult{}, false
	}
	return *c.last, true
}

// PlaceBet só é aceito com a rodada aberta.
func (c *Controller) PlaceBet(t bet.BetType, numbers []int, amount int64) error {
	return c.ledger.PlaceBet(t, numbers, amount)
}

func (c *Controller) UpdateBet(id bet.Identity, amount int64) error {
	return c.ledger.UpdateBet(id, amount)
}

func (c *Controller) RemoveBet(id *bet.Identity) error {
	return c.ledger.RemoveBet(id)
}

func (c *Controller) ClearBets() error {
	return c.ledger.Clear()
}

// Play trava as apostas e inicia a rodada. Exige ao menos uma aposta e saldo suficiente.
func (c *Controller) Play() (string, error) {
	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return "", ErrRoundLocked
	}
	balance := c.balance
	count, stake, err := c.ledger.Close(func(count int, stake int64) error {
		if count == 0 {
			return ErrNoBets
		}
		if stake > balance {
			return fmt.Errorf("%w: stake %d, balance %d", ErrInsufficientBalance, stake, balance)
		}
		return nil
	})
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	c.state, _ = NextState(c.state, EvtPlay)
	c.roundID = c.newID()
	c.wheelStopped, c.ballStopped = false, false
	ev := events.GameStarted{RoundID: c.roundID, BetCount: count, TotalStake: stake, Ts: c.now()}
	c.mu.Unlock()

	c.log.Info("round started", zap.String("round_id", ev.RoundID), zap.Int("bets", count), zap.Int64("stake", stake))
	eventbus.Publish(c.bus, ev)
	return ev.RoundID, nil
}

// Spin pede o número ao OutcomeSource e sinaliza roleta e bola paradas.
func (c *Controller) Spin(ctx context.Context) (stats.GameResult, error) {
	if c.outcome == nil {
		return stats.GameResult{}, ErrNoOutcomeSource
	}
	c.mu.Lock()
	roundID, st := c.roundID, c.state
	c.mu.Unlock()
	if st != StateLocked {
		return stats.GameResult{}, ErrNoRoundInProgress
	}
	n, err := c.outcome.Spin(ctx, roundID)
	if err != nil {
		return stats.GameResult{}, fmt.Errorf("spin: %w", err)
	}
	if _, err := c.WheelStopped(ctx, roundID); err != nil {
		return stats.GameResult{}, err
	}
	res, err := c.BallStopped(ctx, roundID, n)
	if err != nil {
		return stats.GameResult{}, err
	}
	if res == nil {
		return stats.GameResult{}, ErrNoRoundInProgress
	}
	return *res, nil
}

// WheelStopped registra a parada da roleta. Devolve o resultado se a bola já parou.
func (c *Controller) WheelStopped(ctx context.Context, roundID string) (*stats.GameResult, error) {
	c.mu.Lock()
	if err := c.checkRoundLocked(roundID); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.wheelStopped = true
	return c.completeIfDoneLocked(ctx)
}

// BallStopped registra o pocket final. Devolve o resultado se a roleta já parou.
func (c *Controller) BallStopped(ctx context.Context, roundID string, winningNumber int) (*stats.GameResult, error) {
	if winningNumber < bet.MinPocket || winningNumber > bet.MaxPocket {
		return nil, fmt.Errorf("%w: %d", payout.ErrInvalidWinningNumber, winningNumber)
	}
	c.mu.Lock()
	if err := c.checkRoundLocked(roundID); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.ballStopped = true
	c.winning = winningNumber
	return c.completeIfDoneLocked(ctx)
}

func (c *Controller) checkRoundLocked(roundID string) error {
	if c.state != StateLocked {
		return ErrNoRoundInProgress
	}
	if roundID != "" && roundID != c.roundID {
		return fmt.Errorf("%w: round %s is not current", ErrNoRoundInProgress, roundID)
	}
	return nil
}

// completeIfDoneLocked é chamado com c.mu travado e sempre o libera.
func (c *Controller) completeIfDoneLocked(ctx context.Context) (*stats.GameResult, error) {
	if !c.wheelStopped || !c.ballStopped {
		c.mu.Unlock()
		return nil, nil
	}

	res, err := c.eval.Evaluate(c.ledger, c.winning)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.state, _ = NextState(c.state, EvtSpinComplete)

	before := c.balance
	after := before - lostStake(res) + res.TotalPayout.Floor().IntPart()
	c.balance = after
	gr := stats.NewGameResult(c.roundID, res, before, after, c.now())
	c.last = &gr
	c.state, _ = NextState(c.state, EvtSettle)
	c.mu.Unlock()

	c.log.Info("round evaluated",
		zap.String("round_id", gr.RoundID),
		zap.Int("winning_number", gr.WinningNumber),
		zap.String("total_payout", gr.TotalWinAmount.String()),
		zap.Int64("balance_after", after),
	)
	eventbus.Publish(c.bus, events.GameEnded{
		RoundID:       gr.RoundID,
		WinningNumber: gr.WinningNumber,
		TotalPayout:   gr.TotalWinAmount.String(),
		BalanceAfter:  after,
		Ts:            gr.Timestamp,
	})

	if c.sink != nil {
		if err := c.sink.Record(ctx, gr); err != nil {
			c.log.Warn("record round statistics", zap.String("round_id", gr.RoundID), zap.Error(err))
		}
	}
	if c.OnSettled != nil {
		c.OnSettled(gr)
	}
	c.ledger.Reopen()
	c.mu.Lock()
	c.state, _ = NextState(c.state, EvtReopen)
	c.roundID = ""
	c.mu.Unlock()

	return &gr, nil
}

// lostStake soma o stake das apostas perdedoras; as vencedoras mantêm o stake.
func lostStake(res payout.Result) int64 {
	var lost int64
	for _, o := range res.PerBet {
		if !o.Won {
			lost += o.Bet.Amount
		}
	}
	return lost
}
