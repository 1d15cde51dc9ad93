package ledger

import (
	"errors"
	"sync"
	"time"

	"github.com/radieske/roulette-table/internal/roulette/bet"
	"github.com/radieske/roulette-table/internal/shared/eventbus"
	"github.com/radieske/roulette-table/pkg/contracts/events"
)

// ErrClosed é devolvido por mutações enquanto a rodada está travada.
var ErrClosed = errors.New("round is not accepting bets")

// Publisher recebe as notificações de mudança do ledger.
type Publisher interface {
	PublishLedgerChanged(events.BetLedgerChanged)
}

// PublisherFunc adapta uma função para Publisher.
type PublisherFunc func(events.BetLedgerChanged)

func (f PublisherFunc) PublishLedgerChanged(e events.BetLedgerChanged) { f(e) }

// BusPublisher publica no event bus do processo.
func BusPublisher(b *eventbus.Bus) Publisher {
	return PublisherFunc(func(e events.BetLedgerChanged) { eventbus.Publish(b, e) })
}

// Ledger guarda as apostas abertas da rodada, em ordem de inserção.
// Nunca existem duas apostas com a mesma identidade.
// Enquanto fechado (Close) toda mutação devolve ErrClosed.
type Ledger struct {
	mu     sync.Mutex
	bets   []bet.Bet
	stake  int64
	closed bool
	pub    Publisher
	now    func() time.Time
}

// New cria um ledger vazio e aberto. pub pode ser nil.
func New(pub Publisher) *Ledger {
	return &Ledger{pub: pub, now: time.Now}
}

// Close fecha o ledger se check aceitar o estado atual (quantidade e stake).
// check roda sob o lock; um erro dele mantém o ledger aberto e é devolvido.
func (l *Ledger) Close(check func(count int, stake int64) error) (int, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, 0, ErrClosed
	}
	count, stake := len(l.bets), l.stake
	if check != nil {
		if err := check(count, stake); err != nil {
			return count, stake, err
		}
	}
	l.closed = true
	return count, stake, nil
}

// Reopen esvazia e reabre o ledger para a próxima rodada.
func (l *Ledger) Reopen() {
	l.mu.Lock()
	l.closed = false
	l.bets = nil
	l.stake = 0
	ev := l.changedLocked(events.LedgerActionClear, bet.Bet{})
	l.mu.Unlock()

	l.notify(ev)
}

// Accepting informa se o ledger aceita mutações.
func (l *Ledger) Accepting() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.closed
}

// PlaceBet adiciona a aposta ou, se a identidade já existir, substitui o valor no lugar.
func (l *Ledger) PlaceBet(t bet.BetType, numbers []int, amount int64) error {
	b, err := bet.New(t, numbers, amount)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if i := l.indexOf(b.Identity()); i >= 0 {
		l.stake += b.Amount - l.bets[i].Amount
		l.bets[i].Amount = b.Amount
	} else {
		l.bets = append(l.bets, b)
		l.stake += b.Amount
	}
	ev := l.changedLocked(events.LedgerActionPlace, b)
	l.mu.Unlock()

	l.notify(ev)
	return nil
}

// FindBet procura pela identidade. Os números são normalizados antes da comparação.
func (l *Ledger) FindBet(t bet.BetType, numbers []int) (bet.Bet, bool) {
	id, err := bet.NewIdentity(t, numbers)
	if err != nil {
		return bet.Bet{}, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(id); i >= 0 {
		return l.bets[i].Clone(), true
	}
	return bet.Bet{}, false
}

// UpdateBet troca o valor da aposta identificada por id.
// Se a aposta não existir nada acontece e o retorno é nil.
func (l *Ledger) UpdateBet(id bet.Identity, amount int64) error {
	if err := bet.ValidateAmount(amount); err != nil {
		return err
	}
	norm, err := bet.NewIdentity(id.Type, id.Numbers)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	i := l.indexOf(norm)
	if i < 0 {
		l.mu.Unlock()
		return nil
	}
	l.stake += amount - l.bets[i].Amount
	l.bets[i].Amount = amount
	ev := l.changedLocked(events.LedgerActionUpdate, l.bets[i])
	l.mu.Unlock()

	l.notify(ev)
	return nil
}

// RemoveBet remove todas as entradas com a identidade informada. id nil é no-op.
// Só falha com o ledger fechado.
func (l *Ledger) RemoveBet(id *bet.Identity) error {
	if id == nil {
		return nil
	}
	norm, err := bet.NewIdentity(id.Type, id.Numbers)
	if err != nil {
		return nil
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	kept := l.bets[:0]
	var removed *bet.Bet
	for _, b := range l.bets {
		if b.Matches(norm) {
			l.stake -= b.Amount
			r := b
			removed = &r
			continue
		}
		kept = append(kept, b)
	}
	clear(l.bets[len(kept):])
	l.bets = kept
	if removed == nil {
		l.mu.Unlock()
		return nil
	}
	ev := l.changedLocked(events.LedgerActionRemove, *removed)
	l.mu.Unlock()

	l.notify(ev)
	return nil
}

// Clear esvazia o ledger aberto.
func (l *Ledger) Clear() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.bets = nil
	l.stake = 0
	ev := l.changedLocked(events.LedgerActionClear, bet.Bet{})
	l.mu.Unlock()

	l.notify(ev)
	return nil
}

// Count devolve a quantidade de apostas abertas.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.bets)
}

func (l *Ledger) IsEmpty() bool { return l.Count() == 0 }

// TotalStake soma os valores apostados.
func (l *Ledger) TotalStake() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stake
}

// Bets devolve uma cópia das apostas em ordem de inserção.
func (l *Ledger) Bets() []bet.Bet {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]bet.Bet, len(l.bets))
	for i, b := range l.bets {
		out[i] = b.Clone()
	}
	return out
}

func (l *Ledger) indexOf(id bet.Identity) int {
	for i, b := range l.bets {
		if b.Matches(id) {
			return i
		}
	}
	return -1
}

func (l *Ledger) changedLocked(action string, b bet.Bet) events.BetLedgerChanged {
	ev := events.BetLedgerChanged{
		Action:     action,
		Amount:     b.Amount,
		BetCount:   len(l.bets),
		TotalStake: l.stake,
		Ts:         l.now(),
	}
	if action != events.LedgerActionClear {
		ev.BetType = b.Type.String()
		ev.Numbers = append([]int(nil), b.Numbers...)
	}
	return ev
}

// notify roda fora do lock para que handlers possam consultar o ledger.
func (l *Ledger) notify(ev events.BetLedgerChanged) {
	if l.pub != nil {
		l.pub.PublishLedgerChanged(ev)
	}
}
