package engine

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"
)

type StimType int

const (
	StimImage StimType = iota
	StimText
	StimBox
)

func (t StimType) String() string {
	switch t {
	case StimImage:
		return "image"
	case StimText:
		return "text"
	case StimBox:
		return "box"
	}
	return fmt.Sprintf("StimType(%d)", int(t))
}

// Stimulus is anything a Display can draw. Image stimuli carry decoded
// pixels; text stimuli carry their string, letter height and wrap width in
// normalized units; box stimuli are outlines sized by the placement.
type Stimulus struct {
	Type      StimType
	Image     image.Image
	Text      string
	Height    float64
	WrapWidth float64
	LineWidth float64
	Color     color.Color
}

// Placement positions a stimulus in normalized window units. A zero Size
// keeps the stimulus' natural size.
type Placement struct {
	Pos  Point
	Size Point
}

// Trial is one row of recorded choice data.
type Trial struct {
	T        string
	Sym1     string
	Sym2     string
	Outcome1 float64
	Outcome2 float64
	// Choice is true when Sym1 was selected.
	Choice   bool
	Inverted bool
}

var ErrUnknownStimulus = errors.New("unknown stimulus")

// StimulusTable maps symbol names to stimuli. It is built once and only read
// afterwards.
type StimulusTable map[string]Stimulus

func (st StimulusTable) Lookup(name string) (Stimulus, error) {
	s, ok := st[name]
	if !ok {
		return Stimulus{}, fmt.Errorf("%w: %q", ErrUnknownStimulus, name)
	}
	return s, nil
}

func (st StimulusTable) Has(name string) bool {
	_, ok := st[name]
	return ok
}

func (st StimulusTable) Names() []string {
	names := make([]string, 0, len(st))
	for name := range st {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
