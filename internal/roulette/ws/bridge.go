package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/roulette-table/internal/shared/eventbus"
	"github.com/radieske/roulette-table/pkg/contracts/events"
)

// Forward recebe cada Update produzido a partir do event bus.
type Forward func(Update) error

// BridgeBus assina os eventos da mesa e os converte em Update.
func BridgeBus(bus *eventbus.Bus, fwd Forward) []eventbus.Ticket {
	return []eventbus.Ticket{
		eventbus.Subscribe(bus, func(e events.BetLedgerChanged) error {
			return fwd(Update{Topic: TopicLedger, Kind: "BetLedgerChanged", Payload: e})
		}),
		eventbus.Subscribe(bus, func(e events.GameStarted) error {
			return fwd(Update{Topic: TopicRound, Kind: "GameStarted", Payload: e})
		}),
		eventbus.Subscribe(bus, func(e events.GameEnded) error {
			return fwd(Update{Topic: TopicRound, Kind: "GameEnded", Payload: e})
		}),
	}
}

// Direct entrega direto no hub local.
func Direct(h *Hub) Forward {
	return func(u Update) error {
		h.Broadcast(u)
		return nil
	}
}

// RedisForward publica no canal Redis para que todas as réplicas repassem aos seus clientes.
func RedisForward(r *redis.Client, channel string) Forward {
	return func(u Update) error {
		b, err := json.Marshal(u)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		return r.Publish(ctx, channel, b).Err()
	}
}

// StartRedisSubscriber escuta o canal Redis Pub/Sub e repassa as atualizações ao hub
func StartRedisSubscriber(ctx context.Context, log *zap.Logger, r *redis.Client, channel string, hub *Hub) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var upd Update
				if err := json.Unmarshal([]byte(msg.Payload), &upd); err != nil {
					log.Warn("ws subscriber unmarshal error", zap.Error(err))
					continue
				}
				hub.Broadcast(upd)
			}
		}
	}()
}
