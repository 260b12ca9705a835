package engine

import (
	"image"
	"math"
	"strconv"
)

// Point is a position or extent in normalized window units: x and y span
// [-1, 1] with the origin at the center and y pointing up.
type Point struct {
	X, Y float64
}

type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

var (
	PosLeft  = Point{-0.4, 0}
	PosRight = Point{0.4, 0}

	SymbolSize     = Point{0.40, 0.7}
	ArrowSize      = Point{0.15, 0.25}
	ArrowDrop      = 0.83
	OutcomeDrop    = 0.5
	OutcomeHeight  = 0.4
	CounterPos     = Point{0.8, 0.85}
	CounterHeight  = 0.24
	SelectionWidth = 7.0
)

func SidePos(s Side) Point {
	if s == Left {
		return PosLeft
	}
	return PosRight
}

func sideOf(b bool) Side {
	if b {
		return Right
	}
	return Left
}

// PairSymbols returns the symbols shown on the left and right.
func PairSymbols(t Trial) (left, right string) {
	if t.Inverted {
		return t.Sym2, t.Sym1
	}
	return t.Sym1, t.Sym2
}

// ChosenSide returns the side of the selection marker. The selected symbol
// index (0 for Sym1) is flipped by Inverted with the same rule PairSymbols
// uses, so the marker lands on the chosen symbol.
func ChosenSide(t Trial) Side {
	chosen := !t.Choice
	return sideOf(chosen != t.Inverted)
}

// OutcomeTexts returns the outcome strings under the left and right symbols.
func OutcomeTexts(t Trial) (left, right string) {
	o1, o2 := FormatOutcome(t.Outcome1), FormatOutcome(t.Outcome2)
	if t.Inverted {
		return o2, o1
	}
	return o1, o2
}

func ChosenOutcome(t Trial) float64 {
	if t.Choice {
		return t.Outcome1
	}
	return t.Outcome2
}

func CounterfactualOutcome(t Trial) float64 {
	if t.Choice {
		return t.Outcome2
	}
	return t.Outcome1
}

func FormatOutcome(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v > 0 {
		return "+" + s
	}
	return s
}

func CounterText(t Trial) string {
	return "t = " + t.T
}

// Viewport converts normalized units to pixels for a window of W x H.
type Viewport struct {
	W, H int
}

func (v Viewport) ToPixel(p Point) (float64, float64) {
	return (p.X + 1) / 2 * float64(v.W), (1 - p.Y) / 2 * float64(v.H)
}

func (v Viewport) ScaleX(w float64) float64 { return w / 2 * float64(v.W) }
func (v Viewport) ScaleY(h float64) float64 { return h / 2 * float64(v.H) }

// Rect returns the pixel rectangle of an extent centered on p.
func (v Viewport) Rect(p, size Point) image.Rectangle {
	cx, cy := v.ToPixel(p)
	w, h := v.ScaleX(size.X), v.ScaleY(size.Y)
	return image.Rect(
		int(math.Round(cx-w/2)), int(math.Round(cy-h/2)),
		int(math.Round(cx+w/2)), int(math.Round(cy+h/2)),
	)
}
