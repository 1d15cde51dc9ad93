package bet

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BetType identifica a modalidade de aposta na mesa de roleta.
type BetType int

const (
	Straight BetType = iota
	Split
	Street
	Corner
	SixLine
	Red
	Black
	Even
	Odd
	High
	Low
	Dozens
	Columns
)

var betTypeNames = [...]string{
	Straight: "Straight",
	Split:    "Split",
	Street:   "Street",
	Corner:   "Corner",
	SixLine:  "SixLine",
	Red:      "Red",
	Black:    "Black",
	Even:     "Even",
	Odd:      "Odd",
	High:     "High",
	Low:      "Low",
	Dozens:   "Dozens",
	Columns:  "Columns",
}

// AllTypes lista as modalidades conhecidas na ordem do enum.
func AllTypes() []BetType {
	out := make([]BetType, len(betTypeNames))
	for i := range betTypeNames {
		out[i] = BetType(i)
	}
	return out
}

// Known informa se o valor pertence ao conjunto fechado de modalidades.
func (t BetType) Known() bool {
	return t >= 0 && int(t) < len(betTypeNames)
}

func (t BetType) String() string {
	if !t.Known() {
		return fmt.Sprintf("BetType(%d)", int(t))
	}
	return betTypeNames[t]
}

// ParseBetType converte o nome (case-insensitive) para BetType.
func ParseBetType(s string) (BetType, error) {
	for i, name := range betTypeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return BetType(i), nil
		}
	}
	return 0, &ValidationError{Field: "betType", Reason: fmt.Sprintf("unknown bet type %q", s)}
}

func (t BetType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *BetType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseBetType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
