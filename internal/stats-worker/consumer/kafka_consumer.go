package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/roulette-table/internal/roulette/stats"
	"github.com/radieske/roulette-table/pkg/contracts/events"
)

// MessageReader é o subconjunto de *kafka.Reader usado pelo Processor.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// MessageWriter é o subconjunto de *kafka.Writer usado para a DLQ.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Store persiste rodadas e devolve o agregado atualizado.
type Store interface {
	stats.Sink
	stats.Reader
}

// SummaryCache recebe o agregado recalculado.
type SummaryCache interface {
	SetSummary(ctx context.Context, s stats.UserStatistics) error
}

// Processor consome rodadas liquidadas do Kafka, persiste no banco e atualiza o cache
// Mensagens que não decodificam vão para a DLQ
type Processor struct {
	Log    *zap.Logger
	Reader MessageReader
	DLQ    MessageWriter // opcional
	Store  Store
	Cache  SummaryCache // opcional

	OnConsumed func()       // métricas (counter++)
	OnPersist  func()       // métricas
	OnCached   func()       // métricas
	OnDLQ      func()       // métricas
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if p.OnConsumed != nil {
			p.OnConsumed()
		}
		p.Handle(ctx, m)
	}
}

// Handle processa uma única mensagem.
func (p *Processor) Handle(ctx context.Context, m kafka.Message) {
	var ev events.RoundSettled
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		p.Log.Warn("invalid message", zap.Error(err))
		p.fail("decode")
		p.deadLetter(ctx, m, err)
		return
	}
	gr, err := stats.FromEvent(ev)
	if err != nil {
		p.Log.Warn("invalid round amounts", zap.String("round_id", ev.RoundID), zap.Error(err))
		p.fail("decode")
		p.deadLetter(ctx, m, err)
		return
	}

	if err := p.Store.Record(ctx, gr); err != nil {
		p.Log.Warn("db insert round failed", zap.String("round_id", gr.RoundID), zap.Error(err))
		p.fail("db")
		return
	}
	if p.OnPersist != nil {
		p.OnPersist()
	}

	if p.Cache == nil {
		return
	}
	// cache é best-effort: a persistência já aconteceu
	sum, err := p.Store.Statistics(ctx)
	if err != nil {
		p.Log.Warn("db aggregate failed", zap.Error(err))
		p.fail("aggregate")
		return
	}
	if err := p.Cache.SetSummary(ctx, sum); err != nil {
		p.Log.Warn("redis set failed", zap.Error(err))
		p.fail("cache")
		return
	}
	if p.OnCached != nil {
		p.OnCached()
	}
}

func (p *Processor) deadLetter(ctx context.Context, m kafka.Message, cause error) {
	if p.DLQ == nil {
		return
	}
	err := p.DLQ.WriteMessages(ctx, kafka.Message{
		Key:   m.Key,
		Value: m.Value,
		Headers: []kafka.Header{
			{Key: "error", Value: []byte(cause.Error())},
			{Key: "source_topic", Value: []byte(m.Topic)},
		},
		Time: time.Now(),
	})
	if err != nil {
		p.Log.Error("dlq publish failed", zap.Error(err))
		p.fail("dlq")
		return
	}
	if p.OnDLQ != nil {
		p.OnDLQ()
	}
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
