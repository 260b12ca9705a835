package engine

import (
	"fmt"
	"image"

	"go.uber.org/zap"
)

const (
	StimArrow   = "arrow"
	StimCross   = "cross"
	StimWelcome = "welcome"
	StimEnd     = "end"

	WelcomeHeight = 0.06
)

var phaseLines = map[Phase]byte{
	PhasePair:      '1',
	PhaseSelection: '2',
	PhaseOutcome:   '3',
}

type SessionOptions struct {
	// Welcome, Fixation and End add frames built from the "welcome", "cross"
	// and "end" stimuli around the trials.
	Welcome  bool
	Fixation bool
	End      bool

	Trigger Trigger
	Logger  *zap.Logger
}

// Session owns everything a replay touches: the display, the stimuli, the
// trigger box and the frames captured so far.
type Session struct {
	display Display
	stimuli StimulusTable
	opts    SessionOptions
	logger  *zap.Logger

	log    FrameLog
	frames []image.Image
}

func NewSession(display Display, stimuli StimulusTable, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		display: display,
		stimuli: stimuli,
		opts:    opts,
		logger:  logger,
	}
}

func (s *Session) Frames() []image.Image { return s.frames }

func (s *Session) FrameLog() *FrameLog { return &s.log }

// Close releases the display and the trigger. Captured frames stay
// available.
func (s *Session) Close() error {
	err := s.display.Close()
	if s.opts.Trigger != nil {
		if terr := s.opts.Trigger.Close(); err == nil {
			err = terr
		}
	}
	return err
}

// Present replays trials in order. Each trial yields three frames: the
// symbol pair, the pair with the selection marker, and the pair with the
// marker and both outcomes.
func (s *Session) Present(trials []Trial) error {
	if err := s.display.Flip(); err != nil {
		return err
	}

	if s.opts.Welcome {
		if err := s.presentScreen(StimWelcome, PhaseWelcome, -1); err != nil {
			return err
		}
	}

	for i, t := range trials {
		if err := s.presentTrial(i, t); err != nil {
			return fmt.Errorf("trial %d (t = %s): %w", i+1, t.T, err)
		}
		s.logger.Debug("trial presented",
			zap.Int("trial", i+1),
			zap.Int("of", len(trials)),
			zap.String("t", t.T),
			zap.Int("frames", len(s.frames)))
	}

	if s.opts.End {
		if err := s.presentScreen(StimEnd, PhaseEnd, len(trials)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) presentTrial(i int, t Trial) error {
	left, right := PairSymbols(t)
	side := ChosenSide(t)
	outLeft, outRight := OutcomeTexts(t)
	entry := FrameLogEntry{Trial: i, Label: t.T, Left: left, Right: right}

	if s.opts.Fixation {
		if err := s.draw(StimCross, Placement{}); err != nil {
			return err
		}
		e := entry
		e.Phase = PhaseFixation
		if err := s.capture(e); err != nil {
			return err
		}
	}

	if err := s.drawPair(left, right); err != nil {
		return err
	}
	if err := s.drawCounter(t); err != nil {
		return err
	}
	entry.Phase = PhasePair
	if err := s.capture(entry); err != nil {
		return err
	}

	if err := s.drawCounter(t); err != nil {
		return err
	}
	if err := s.drawPair(left, right); err != nil {
		return err
	}
	if err := s.drawSelection(side); err != nil {
		return err
	}
	entry.Phase = PhaseSelection
	entry.Marked = side.String()
	if err := s.capture(entry); err != nil {
		return err
	}

	if err := s.drawOutcomes(outLeft, outRight); err != nil {
		return err
	}
	if err := s.drawPair(left, right); err != nil {
		return err
	}
	if err := s.drawCounter(t); err != nil {
		return err
	}
	if err := s.drawSelection(side); err != nil {
		return err
	}
	entry.Phase = PhaseOutcome
	entry.OutcomeLeft, entry.OutcomeRight = outLeft, outRight
	return s.capture(entry)
}

func (s *Session) presentScreen(name string, phase Phase, trial int) error {
	stim, err := s.stimuli.Lookup(name)
	if err != nil {
		return err
	}
	if phase == PhaseWelcome && stim.Type == StimText {
		stim.Height = WelcomeHeight
	}
	if err := s.display.DrawStimulus(stim, Placement{}); err != nil {
		return err
	}
	return s.capture(FrameLogEntry{Trial: trial, Phase: phase})
}

func (s *Session) draw(name string, at Placement) error {
	stim, err := s.stimuli.Lookup(name)
	if err != nil {
		return err
	}
	return s.display.DrawStimulus(stim, at)
}

func (s *Session) drawPair(left, right string) error {
	if err := s.draw(left, Placement{Pos: PosLeft, Size: SymbolSize}); err != nil {
		return err
	}
	return s.draw(right, Placement{Pos: PosRight, Size: SymbolSize})
}

func (s *Session) drawCounter(t Trial) error {
	return s.display.DrawStimulus(
		Stimulus{Type: StimText, Text: CounterText(t), Height: CounterHeight},
		Placement{Pos: CounterPos},
	)
}

func (s *Session) drawSelection(side Side) error {
	pos := SidePos(side)
	box := Stimulus{Type: StimBox, LineWidth: SelectionWidth}
	if err := s.display.DrawStimulus(box, Placement{Pos: pos, Size: SymbolSize}); err != nil {
		return err
	}
	arrow := Point{pos.X, pos.Y - ArrowDrop}
	return s.draw(StimArrow, Placement{Pos: arrow, Size: ArrowSize})
}

func (s *Session) drawOutcomes(left, right string) error {
	for i, text := range []string{left, right} {
		pos := SidePos(Side(i))
		err := s.display.DrawStimulus(
			Stimulus{Type: StimText, Text: text, Height: OutcomeHeight},
			Placement{Pos: Point{pos.X, pos.Y - OutcomeDrop}},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// capture flips the back buffer, marks the onset on the trigger box and
// stores a copy of the visible frame.
func (s *Session) capture(e FrameLogEntry) error {
	if err := s.display.Flip(); err != nil {
		return err
	}
	if s.opts.Trigger != nil {
		line, ok := phaseLines[e.Phase]
		if !ok {
			line = '4'
		}
		if err := s.opts.Trigger.Pulse(line); err != nil {
			return fmt.Errorf("trigger: %w", err)
		}
	}
	frame, err := s.display.CaptureFrame()
	if err != nil {
		return err
	}
	s.frames = append(s.frames, frame)
	s.log.Log(e)
	return nil
}
