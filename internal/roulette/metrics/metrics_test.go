package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	out := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "/" + l.GetValue()
			}
			out[key] += m.GetCounter().GetValue()
		}
	}
	return out
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.LedgerChanged("PLACE")
	m.LedgerChanged("place")
	m.RoundSettled("red", 30, 370)
	m.RoundSettled("green", 10, 0)
	m.PayoutAnomaly("BetType(99)")
	m.SinkError()

	got := gather(t, reg)
	want := map[string]float64{
		"roulette_ledger_changes_total/place":         2,
		"roulette_rounds_settled_total":               2,
		"roulette_stake_amount_total":                 40,
		"roulette_payout_amount_total":                370,
		"roulette_payout_anomalies_total/BetType(99)": 1,
		"roulette_stats_sink_errors_total":            1,
		"roulette_winning_color_total/red":            1,
		"roulette_winning_color_total/green":          1,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}
