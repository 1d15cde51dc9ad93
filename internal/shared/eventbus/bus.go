package eventbus

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Handler recebe um evento do tipo E. Um erro retornado é apenas logado pelo bus.
type Handler[E any] func(E) error

// Ticket identifica uma assinatura e é usado no Unsubscribe.
type Ticket struct {
	kind reflect.Type
	id   uint64
}

type entry struct {
	id uint64
	fn func(any) error
}

// Bus é um publish/subscribe síncrono indexado pelo tipo do evento.
// Handlers rodam na goroutine de quem publica, na ordem de registro.
type Bus struct {
	log    *zap.Logger
	mu     sync.Mutex
	nextID uint64
	// tipo do evento -> handlers em ordem de registro
	handlers map[reflect.Type][]entry
}

// New cria um bus vazio. log nil vira zap.NewNop().
func New(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{log: log, handlers: make(map[reflect.Type][]entry)}
}

func kindOf[E any]() reflect.Type {
	return reflect.TypeOf((*E)(nil)).Elem()
}

// Subscribe registra h para eventos do tipo E.
func Subscribe[E any](b *Bus, h Handler[E]) Ticket {
	kind := kindOf[E]()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.handlers[kind] = append(b.handlers[kind], entry{
		id: id,
		fn: func(v any) error { return h(v.(E)) },
	})
	return Ticket{kind: kind, id: id}
}

// Unsubscribe remove a assinatura. Chamadas repetidas são ignoradas.
func (b *Bus) Unsubscribe(t Ticket) {
	if t.kind == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.handlers[t.kind]
	for i, e := range list {
		if e.id == t.id {
			next := make([]entry, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			if len(next) == 0 {
				delete(b.handlers, t.kind)
			} else {
				b.handlers[t.kind] = next
			}
			return
		}
	}
}

// Publish entrega o evento a todos os handlers registrados no momento da chamada.
// Falhas de um handler não interrompem os demais nem chegam a quem publicou.
func Publish[E any](b *Bus, ev E) {
	kind := kindOf[E]()
	b.mu.Lock()
	snapshot := b.handlers[kind]
	b.mu.Unlock()

	for _, e := range snapshot {
		if err := b.invoke(e, ev); err != nil {
			b.log.Error("event handler fault",
				zap.String("event", kind.String()),
				zap.Uint64("handler", e.id),
				zap.Error(err),
			)
		}
	}
}

// HandlerCount devolve quantos handlers estão registrados para E.
func HandlerCount[E any](b *Bus) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[kindOf[E]()])
}

func (b *Bus) invoke(e entry, ev any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return e.fn(ev)
}
