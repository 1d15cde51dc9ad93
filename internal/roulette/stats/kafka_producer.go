package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter é o subconjunto de *kafka.Writer usado aqui.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher publica RoundSettled; o tópico vem do próprio Writer.
type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: w}
}

// Record serializa a rodada; a chave é o RoundID para manter a partição estável.
func (p *KafkaPublisher) Record(ctx context.Context, r GameResult) error {
	b, err := json.Marshal(r.ToEvent())
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(r.RoundID),
		Value: b,
		Time:  time.Now(),
	})
}
