package engine

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFrameLogSave(t *testing.T) {
	var log FrameLog
	log.Log(FrameLogEntry{Frame: 99, Trial: -1, Phase: PhaseWelcome})
	log.Log(FrameLogEntry{Trial: 0, Label: "1", Phase: PhasePair, Left: "A", Right: "B"})
	log.Log(FrameLogEntry{Trial: 0, Label: "1", Phase: PhaseSelection, Left: "A", Right: "B", Marked: "left"})

	path := filepath.Join(t.TempDir(), "block_frames.csv")
	require.NoError(t, log.Save(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	want := [][]string{
		{"frame", "trial", "label", "phase", "left", "right", "marked", "outcome_left", "outcome_right"},
		{"0", "-1", "", "WELCOME", "", "", "", "", ""},
		{"1", "0", "1", "PAIR", "A", "B", "", "", ""},
		{"2", "0", "1", "SELECTION", "A", "B", "left", "", ""},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("frame log mismatch (-want +got):\n%s", diff)
	}
}

func TestFrameLogSave_BadPath(t *testing.T) {
	var log FrameLog
	require.Error(t, log.Save(filepath.Join(t.TempDir(), "missing", "x.csv")))
}
