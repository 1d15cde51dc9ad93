package topics

const (
	// Rodadas
	RoundSettled = "roulette_round_settled"

	// DLQs
	RoundSettledDLQ = "roulette_round_settled_dlq"
)
