package engine

import (
	"encoding/csv"
	"os"
	"strconv"
)

type Phase string

const (
	PhaseWelcome   Phase = "WELCOME"
	PhaseFixation  Phase = "FIXATION"
	PhasePair      Phase = "PAIR"
	PhaseSelection Phase = "SELECTION"
	PhaseOutcome   Phase = "OUTCOME"
	PhaseEnd       Phase = "END"
)

type FrameLogEntry struct {
	Frame        int
	Trial        int
	Label        string
	Phase        Phase
	Left, Right  string
	Marked       string
	OutcomeLeft  string
	OutcomeRight string
}

// FrameLog records what each captured frame shows, in capture order.
type FrameLog struct {
	Entries []FrameLogEntry
}

func (l *FrameLog) Log(e FrameLogEntry) {
	e.Frame = len(l.Entries)
	l.Entries = append(l.Entries, e)
}

func (l *FrameLog) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"frame", "trial", "label", "phase", "left", "right", "marked", "outcome_left", "outcome_right"})
	for _, e := range l.Entries {
		w.Write([]string{
			strconv.Itoa(e.Frame),
			strconv.Itoa(e.Trial),
			e.Label,
			string(e.Phase),
			e.Left,
			e.Right,
			e.Marked,
			e.OutcomeLeft,
			e.OutcomeRight,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
