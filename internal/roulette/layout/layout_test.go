package layout

import (
	"errors"
	"slices"
	"testing"

	"github.com/radieske/roulette-table/internal/roulette/bet"
)

func TestColorOf(t *testing.T) {
	tests := []struct {
		n    int
		want Color
	}{
		{0, ColorGreen},
		{1, ColorRed},
		{2, ColorBlack},
		{17, ColorBlack},
		{19, ColorRed},
		{36, ColorRed},
	}
	for _, tt := range tests {
		if got := ColorOf(tt.n); got != tt.want {
			t.Errorf("ColorOf(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestOutsideSets(t *testing.T) {
	for name, set := range map[string][]int{
		"red": RedNumbers(), "black": BlackNumbers(),
		"even": Evens(), "odd": Odds(), "low": Lows(), "high": Highs(),
	} {
		if len(set) != 18 {
			t.Errorf("%s has %d numbers, want 18", name, len(set))
		}
		if slices.Contains(set, 0) {
			t.Errorf("%s contains zero", name)
		}
	}
	if len(WheelOrder) != 37 {
		t.Errorf("WheelOrder has %d pockets", len(WheelOrder))
	}
}

func TestDozenColumnStreet(t *testing.T) {
	d, _ := Dozen(2)
	if d[0] != 13 || d[len(d)-1] != 24 || len(d) != 12 {
		t.Errorf("Dozen(2) = %v", d)
	}
	c, _ := Column(1)
	if c[0] != 1 || c[1] != 4 || c[11] != 34 {
		t.Errorf("Column(1) = %v", c)
	}
	s, _ := Street(12)
	if !slices.Equal(s, []int{34, 35, 36}) {
		t.Errorf("Street(12) = %v", s)
	}
	six, _ := SixLine(1)
	if !slices.Equal(six, []int{1, 2, 3, 4, 5, 6}) {
		t.Errorf("SixLine(1) = %v", six)
	}
	for _, err := range []error{
		func() error { _, err := Dozen(4); return err }(),
		func() error { _, err := Column(0); return err }(),
		func() error { _, err := Street(13); return err }(),
		func() error { _, err := SixLine(12); return err }(),
	} {
		if err == nil {
			t.Error("expected out-of-range error")
		}
	}
}

func TestDefaultNumbers(t *testing.T) {
	if nums, ok := DefaultNumbers(bet.Red); !ok || !slices.Equal(nums, RedNumbers()) {
		t.Errorf("DefaultNumbers(Red) = %v, %v", nums, ok)
	}
	if _, ok := DefaultNumbers(bet.Dozens); ok {
		t.Error("Dozens needs explicit numbers")
	}
}

func TestCheckShape(t *testing.T) {
	dozen2, _ := Dozen(2)
	col3, _ := Column(3)
	cases := []struct {
		name    string
		t       bet.BetType
		numbers []int
		ok      bool
	}{
		{"straight", bet.Straight, []int{0}, true},
		{"split row", bet.Split, []int{1, 2}, true},
		{"split column", bet.Split, []int{5, 8}, true},
		{"split with zero", bet.Split, []int{0, 3}, true},
		{"split repeated", bet.Split, []int{1, 1}, false},
		{"split across rows", bet.Split, []int{3, 4}, false},
		{"split far apart", bet.Split, []int{1, 36}, false},
		{"split zero far", bet.Split, []int{0, 5}, false},
		{"street", bet.Street, []int{9, 7, 8}, true},
		{"street with zero", bet.Street, []int{0, 2, 3}, true},
		{"street off row", bet.Street, []int{2, 3, 4}, false},
		{"corner", bet.Corner, []int{5, 6, 8, 9}, true},
		{"first four", bet.Corner, []int{0, 1, 2, 3}, true},
		{"corner across edge", bet.Corner, []int{3, 4, 6, 7}, false},
		{"corner scattered", bet.Corner, []int{1, 2, 3, 4}, false},
		{"six line", bet.SixLine, []int{31, 32, 33, 34, 35, 36}, true},
		{"six line shifted", bet.SixLine, []int{2, 3, 4, 5, 6, 7}, false},
		{"red", bet.Red, RedNumbers(), true},
		{"red with black", bet.Red, append(RedNumbers()[1:], 2), false},
		{"evens as odds", bet.Odd, Evens(), false},
		{"high", bet.High, Highs(), true},
		{"low as high", bet.High, Lows(), false},
		{"dozen", bet.Dozens, dozen2, true},
		{"dozen shifted", bet.Dozens, []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}, false},
		{"column", bet.Columns, col3, true},
		{"dozen as column", bet.Columns, dozen2, false},
		{"wrong count", bet.Split, []int{3}, false},
		{"out of range", bet.Straight, []int{37}, false},
		{"unknown type", bet.BetType(50), []int{1}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := CheckShape(c.t, c.numbers)
			if c.ok && err != nil {
				t.Errorf("CheckShape(%s, %v) = %v", c.t, c.numbers, err)
			}
			if !c.ok && !errors.Is(err, bet.ErrValidation) {
				t.Errorf("CheckShape(%s, %v) error = %v, want validation error", c.t, c.numbers, err)
			}
		})
	}
}
