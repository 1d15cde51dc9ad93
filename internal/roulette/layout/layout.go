package layout

import (
	"fmt"
	"slices"

	"github.com/radieske/roulette-table/internal/roulette/bet"
)

// Color de um pocket da roleta europeia.
type Color string

const (
	ColorGreen Color = "green"
	ColorRed   Color = "red"
	ColorBlack Color = "black"
)

// WheelOrder é a sequência física dos 37 pockets no sentido horário, a partir do zero.
var WheelOrder = []int{
	0, 32, 15, 19, 4, 21, 2, 25, 17, 34, 6, 27, 13, 36, 11, 30, 8, 23, 10,
	5, 24, 16, 33, 1, 20, 14, 31, 9, 22, 18, 29, 7, 28, 12, 35, 3, 26,
}

var redSet = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true,
	12: true, 14: true, 16: true, 18: true, 19: true,
	21: true, 23: true, 25: true, 27: true, 30: true,
	32: true, 34: true, 36: true,
}

// ColorOf devolve a cor do pocket; zero é verde.
func ColorOf(n int) Color {
	switch {
	case n == 0:
		return ColorGreen
	case redSet[n]:
		return ColorRed
	default:
		return ColorBlack
	}
}

func collect(pred func(int) bool) []int {
	var out []int
	for n := 1; n <= bet.MaxPocket; n++ {
		if pred(n) {
			out = append(out, n)
		}
	}
	return out
}

func RedNumbers() []int   { return collect(func(n int) bool { return redSet[n] }) }
func BlackNumbers() []int { return collect(func(n int) bool { return !redSet[n] }) }
func Evens() []int        { return collect(func(n int) bool { return n%2 == 0 }) }
func Odds() []int         { return collect(func(n int) bool { return n%2 == 1 }) }
func Lows() []int         { return collect(func(n int) bool { return n <= 18 }) }
func Highs() []int        { return collect(func(n int) bool { return n >= 19 }) }

// Dozen devolve a dúzia n (1..3).
func Dozen(n int) ([]int, error) {
	if n < 1 || n > 3 {
		return nil, fmt.Errorf("dozen %d out of range [1,3]", n)
	}
	lo := (n-1)*12 + 1
	return collect(func(x int) bool { return x >= lo && x < lo+12 }), nil
}

// Column devolve a coluna n (1..3) do tapete.
func Column(n int) ([]int, error) {
	if n < 1 || n > 3 {
		return nil, fmt.Errorf("column %d out of range [1,3]", n)
	}
	return collect(func(x int) bool { return (x-1)%3 == n-1 }), nil
}

// Street devolve a linha row (1..12) de três números.
func Street(row int) ([]int, error) {
	if row < 1 || row > 12 {
		return nil, fmt.Errorf("street %d out of range [1,12]", row)
	}
	first := (row-1)*3 + 1
	return []int{first, first + 1, first + 2}, nil
}

// SixLine une as linhas row e row+1 (row 1..11).
func SixLine(row int) ([]int, error) {
	if row < 1 || row > 11 {
		return nil, fmt.Errorf("six line %d out of range [1,11]", row)
	}
	a, _ := Street(row)
	b, _ := Street(row + 1)
	return append(a, b...), nil
}

// DefaultNumbers preenche os números das apostas externas de conjunto único.
// ok=false para modalidades que exigem escolha explícita de números.
func DefaultNumbers(t bet.BetType) ([]int, bool) {
	switch t {
	case bet.Red:
		return RedNumbers(), true
	case bet.Black:
		return BlackNumbers(), true
	case bet.Even:
		return Evens(), true
	case bet.Odd:
		return Odds(), true
	case bet.High:
		return Highs(), true
	case bet.Low:
		return Lows(), true
	}
	return nil, false
}

// expectedSize é o número de pockets cobertos por cada modalidade.
var expectedSize = map[bet.BetType]int{
	bet.Straight: 1,
	bet.Split:    2,
	bet.Street:   3,
	bet.Corner:   4,
	bet.SixLine:  6,
	bet.Red:      18,
	bet.Black:    18,
	bet.Even:     18,
	bet.Odd:      18,
	bet.High:     18,
	bet.Low:      18,
	bet.Dozens:   12,
	bet.Columns:  12,
}

// CheckShape confere se os números formam uma posição válida do tapete para a modalidade:
// vizinhos no tapete para apostas internas, o conjunto exato para as externas.
func CheckShape(t bet.BetType, numbers []int) error {
	want, ok := expectedSize[t]
	if !ok {
		return &bet.ValidationError{Field: "betType", Reason: fmt.Sprintf("no layout for %s", t)}
	}
	ns := bet.Normalize(numbers)
	if got := len(ns); got != want {
		return &bet.ValidationError{Field: "numbers", Reason: fmt.Sprintf("%s covers %d pockets, got %d", t, want, got)}
	}
	for _, n := range ns {
		if n < bet.MinPocket || n > bet.MaxPocket {
			return &bet.ValidationError{Field: "numbers", Reason: fmt.Sprintf("pocket %d out of range [%d,%d]", n, bet.MinPocket, bet.MaxPocket)}
		}
	}
	if !placements(t, ns) {
		return &bet.ValidationError{Field: "numbers", Reason: fmt.Sprintf("%v is not a %s on the table", ns, t)}
	}
	return nil
}

// placements diz se ns (ordenado, sem repetição) é uma posição da modalidade t.
func placements(t bet.BetType, ns []int) bool {
	switch t {
	case bet.Straight:
		return true
	case bet.Split:
		a, b := ns[0], ns[1]
		if a == 0 {
			return b <= 3
		}
		return b-a == 3 || (b-a == 1 && col(a) < 3)
	case bet.Street:
		if ns[0] == 0 {
			// trios com o zero: 0-1-2 e 0-2-3
			return slices.Equal(ns, []int{0, 1, 2}) || slices.Equal(ns, []int{0, 2, 3})
		}
		return col(ns[0]) == 1 && ns[1] == ns[0]+1 && ns[2] == ns[0]+2
	case bet.Corner:
		if ns[0] == 0 {
			return slices.Equal(ns, []int{0, 1, 2, 3})
		}
		a := ns[0]
		return col(a) < 3 && slices.Equal(ns, []int{a, a + 1, a + 3, a + 4})
	case bet.SixLine:
		if ns[0] == 0 || col(ns[0]) != 1 {
			return false
		}
		want, err := SixLine(row(ns[0]))
		return err == nil && slices.Equal(ns, want)
	case bet.Red:
		return slices.Equal(ns, RedNumbers())
	case bet.Black:
		return slices.Equal(ns, BlackNumbers())
	case bet.Even:
		return slices.Equal(ns, Evens())
	case bet.Odd:
		return slices.Equal(ns, Odds())
	case bet.High:
		return slices.Equal(ns, Highs())
	case bet.Low:
		return slices.Equal(ns, Lows())
	case bet.Dozens:
		return anyOf(ns, Dozen)
	case bet.Columns:
		return anyOf(ns, Column)
	}
	return false
}

func anyOf(ns []int, set func(int) ([]int, error)) bool {
	for i := 1; i <= 3; i++ {
		if s, err := set(i); err == nil && slices.Equal(ns, s) {
			return true
		}
	}
	return false
}

// col e row dão a posição de n (1..36) no tapete: colunas 1..3, linhas 1..12.
func col(n int) int { return (n-1)%3 + 1 }
func row(n int) int { return (n-1)/3 + 1 }
