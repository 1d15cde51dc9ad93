package dto

// SpinRequest representa o payload enviado ao wheel-simulator.
type SpinRequest struct {
	RoundID string `json:"roundId"`
}

// SpinResponse representa o pocket onde a bola repousou.
type SpinResponse struct {
	RoundID       string `json:"roundId"`
	WinningNumber int    `json:"winningNumber"`
	WheelIndex    int    `json:"wheelIndex"`
}
