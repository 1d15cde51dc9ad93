package stats

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// MultiSink repassa cada rodada para todos os sinks, sem parar no primeiro erro.
type MultiSink struct {
	Log   *zap.Logger
	Sinks []Sink

	OnError func() // métricas
}

func (m *MultiSink) Record(ctx context.Context, r GameResult) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.Record(ctx, r); err != nil {
			if m.Log != nil {
				m.Log.Error("stats sink failed", zap.String("round_id", r.RoundID), zap.Error(err))
			}
			if m.OnError != nil {
				m.OnError()
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
