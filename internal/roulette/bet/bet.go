package bet

import (
	"fmt"
	"slices"
)

const (
	MinPocket = 0
	MaxPocket = 36
)

// Bet é uma aposta aberta na rodada corrente.
// Numbers fica sempre ordenado e sem repetição quando criado por New.
type Bet struct {
	Type    BetType `json:"betType"`
	Numbers []int   `json:"numbers"`
	Amount  int64   `json:"amount"`
}

// Identity é o par (modalidade, números) usado para localizar a "mesma" aposta.
type Identity struct {
	Type    BetType `json:"betType"`
	Numbers []int   `json:"numbers"`
}

// New valida e normaliza uma aposta.
func New(t BetType, numbers []int, amount int64) (Bet, error) {
	id, err := NewIdentity(t, numbers)
	if err != nil {
		return Bet{}, err
	}
	if err := ValidateAmount(amount); err != nil {
		return Bet{}, err
	}
	return Bet{Type: id.Type, Numbers: id.Numbers, Amount: amount}, nil
}

// NewIdentity valida os números e devolve a identidade normalizada.
func NewIdentity(t BetType, numbers []int) (Identity, error) {
	if !t.Known() {
		return Identity{}, &ValidationError{Field: "betType", Reason: fmt.Sprintf("unknown bet type %d", int(t))}
	}
	if len(numbers) == 0 {
		return Identity{}, &ValidationError{Field: "numbers", Reason: "must not be empty"}
	}
	for _, n := range numbers {
		if n < MinPocket || n > MaxPocket {
			return Identity{}, &ValidationError{Field: "numbers", Reason: fmt.Sprintf("pocket %d out of range [%d,%d]", n, MinPocket, MaxPocket)}
		}
	}
	return Identity{Type: t, Numbers: Normalize(numbers)}, nil
}

// ValidateAmount rejeita stakes não positivos; aposta zerada nunca é armazenada.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return &ValidationError{Field: "amount", Reason: fmt.Sprintf("must be positive, got %d", amount)}
	}
	return nil
}

// Normalize devolve uma cópia ordenada e sem duplicatas.
func Normalize(numbers []int) []int {
	out := slices.Clone(numbers)
	slices.Sort(out)
	return slices.Compact(out)
}

// Identity devolve a identidade da aposta.
func (b Bet) Identity() Identity {
	return Identity{Type: b.Type, Numbers: b.Numbers}
}

// Matches compara modalidade e sequência de números (ordem importa).
func (b Bet) Matches(id Identity) bool {
	return b.Type == id.Type && slices.Equal(b.Numbers, id.Numbers)
}

// Covers informa se o número sorteado está entre os números da aposta.
func (b Bet) Covers(n int) bool {
	return slices.Contains(b.Numbers, n)
}

// Clone evita que chamadores alterem o slice interno do ledger.
func (b Bet) Clone() Bet {
	b.Numbers = slices.Clone(b.Numbers)
	return b
}

func (id Identity) String() string {
	return fmt.Sprintf("%s%v", id.Type, id.Numbers)
}
