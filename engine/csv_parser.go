package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	ColChoiceType   = "trial.choiceType"
	ColOutcomeCor   = "outcome_cor"
	ColOutcomeIncor = "outcome_incor"
	ColSymCor       = "sym_cor"
	ColSymIncor     = "sym_incor"
	ColRespCor      = "resp.cor"
	ColPositionCor  = "position_cor"
)

var requiredColumns = []string{
	ColChoiceType,
	ColOutcomeCor,
	ColOutcomeIncor,
	ColSymCor,
	ColSymIncor,
	ColRespCor,
	ColPositionCor,
}

var ErrMissingColumn = errors.New("missing column")

func LoadTrials(path string) ([]Trial, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	trials, err := ParseTrials(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return trials, nil
}

// ParseTrials reads a header row followed by one trial per row. Columns are
// looked up by name, so order and extra columns do not matter.
func ParseTrials(r io.Reader) ([]Trial, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	trials := make([]Trial, 0, len(records))
	for i, record := range records {
		line := i + 2
		get := func(col string) string {
			return strings.TrimSpace(record[idx[col]])
		}

		outcome1, err := strconv.ParseFloat(get(ColOutcomeCor), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %v", line, ColOutcomeCor, err)
		}
		outcome2, err := strconv.ParseFloat(get(ColOutcomeIncor), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %v", line, ColOutcomeIncor, err)
		}
		resp, err := strconv.ParseFloat(get(ColRespCor), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %v", line, ColRespCor, err)
		}
		inverted, err := parseFlag(get(ColPositionCor))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %v", line, ColPositionCor, err)
		}

		trials = append(trials, Trial{
			T:        get(ColChoiceType),
			Sym1:     symbolName(get(ColSymCor)),
			Sym2:     symbolName(get(ColSymIncor)),
			Outcome1: outcome1,
			Outcome2: outcome2,
			// A correct response selected sym_cor.
			Choice:   resp != 0,
			Inverted: inverted,
		})
	}

	return trials, nil
}

// parseFlag accepts the 0/1 and True/False spellings found in position
// columns. Anything else is rejected since it cannot index a left/right pair.
func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "1.0", "true":
		return true, nil
	case "0", "0.0", "false":
		return false, nil
	}
	return false, fmt.Errorf("%q is not 0/1", s)
}

// symbolName normalizes numeric symbol ids so "7.0" resolves to the stimulus
// file "7.png".
func symbolName(s string) string {
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}
