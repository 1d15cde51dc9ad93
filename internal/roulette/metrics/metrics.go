package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics reúne os contadores de negócio da mesa de roleta.
type Metrics struct {
	ledgerChanges *prometheus.CounterVec
	rounds        prometheus.Counter
	stakeTotal    prometheus.Counter
	payoutTotal   prometheus.Counter
	anomalies     *prometheus.CounterVec
	sinkErrors    prometheus.Counter
	winningColors *prometheus.CounterVec
}

// New registra as métricas em reg (prometheus.DefaultRegisterer no main,
// prometheus.NewRegistry() nos testes).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ledgerChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "roulette_ledger_changes_total",
			Help: "mutações do ledger por ação",
		}, []string{"action"}),
		rounds: f.NewCounter(prometheus.CounterOpts{
			Name: "roulette_rounds_settled_total",
			Help: "rodadas liquidadas",
		}),
		stakeTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "roulette_stake_amount_total",
			Help: "soma dos valores apostados em rodadas liquidadas",
		}),
		payoutTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "roulette_payout_amount_total",
			Help: "soma dos pagamentos",
		}),
		anomalies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "roulette_payout_anomalies_total",
			Help: "apostas sem multiplicador na tabela",
		}, []string{"bet_type"}),
		sinkErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "roulette_stats_sink_errors_total",
			Help: "falhas ao registrar estatísticas da rodada",
		}),
		winningColors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "roulette_winning_color_total",
			Help: "frequência das cores sorteadas",
		}, []string{"color"}),
	}
}

func (m *Metrics) LedgerChanged(action string) {
	m.ledgerChanges.WithLabelValues(strings.ToLower(action)).Inc()
}

// RoundSettled contabiliza uma rodada encerrada.
func (m *Metrics) RoundSettled(color string, stake int64, payout float64) {
	m.rounds.Inc()
	m.stakeTotal.Add(float64(stake))
	if payout > 0 {
		m.payoutTotal.Add(payout)
	}
	m.winningColors.WithLabelValues(color).Inc()
}

func (m *Metrics) PayoutAnomaly(betType string) {
	m.anomalies.WithLabelValues(betType).Inc()
}

func (m *Metrics) SinkError() { m.sinkErrors.Inc() }
