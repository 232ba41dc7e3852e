package features

import (
	"fmt"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// Column is one indicator: it is 1 when the interaction's concatenated value
// equals Value.
type Column struct {
	Interaction int    `json:"interaction"`
	Value       string `json:"value"`
}

// Schema is the ordered indicator layout shared by training and scoring.
//
// Ordering contract: Interactions follow EnumerateSubsets order filtered to
// sizes 1..MaxOrder. Columns are grouped by interaction in that order; inside
// a group, values appear in the order they were first observed while
// scanning the training rows top to bottom. Rebuilding from the same samples
// yields an identical schema.
type Schema struct {
	Width        int           `json:"width"`
	MaxOrder     int           `json:"max_order"`
	Interactions []Interaction `json:"interactions"`
	Columns      []Column      `json:"columns"`
}

// Dataset is a schema together with the training table it was built from.
type Dataset struct {
	Schema  *Schema
	Samples []WindowSample
	// Values[r][i] is interaction i's concatenated value on row r.
	Values [][]string
	X      [][]float64
	Y      []float64
}

// Build enumerates interactions over the sample windows and one-hot encodes
// them.
func Build(samples []WindowSample, maxOrder int) (*Dataset, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no window samples to build a schema from", domain.ErrValidation)
	}
	if maxOrder < 1 {
		return nil, fmt.Errorf("%w: interaction order must be at least 1, got %d", domain.ErrValidation, maxOrder)
	}

	width := len(samples[0].Window)
	for r, s := range samples {
		if len(s.Window) != width {
			return nil, fmt.Errorf("%w: sample %d has width %d, expected %d", domain.ErrIndex, r, len(s.Window), width)
		}
	}

	interactions := Interactions(width, maxOrder)

	values := make([][]string, len(samples))
	for r, s := range samples {
		row := make([]string, len(interactions))
		for i, in := range interactions {
			row[i] = in.Value(s.Window)
		}
		values[r] = row
	}

	var columns []Column
	for i := range interactions {
		seen := make(map[string]bool)
		for r := range values {
			v := values[r][i]
			if seen[v] {
				continue
			}
			seen[v] = true
			columns = append(columns, Column{Interaction: i, Value: v})
		}
	}

	schema := &Schema{
		Width:        width,
		MaxOrder:     maxOrder,
		Interactions: interactions,
		Columns:      columns,
	}

	x := make([][]float64, len(samples))
	y := make([]float64, len(samples))
	for r := range samples {
		vec := make([]float64, len(columns))
		for c, col := range columns {
			if values[r][col.Interaction] == col.Value {
				vec[c] = 1
			}
		}
		x[r] = vec
		y[r] = samples[r].Label.Float()
	}

	return &Dataset{Schema: schema, Samples: samples, Values: values, X: x, Y: y}, nil
}

// Vector reconstructs the indicator vector of a literal window without
// retraining: column (c, v) is 1 iff the window's tokens at c's positions
// concatenate to exactly v.
func (s *Schema) Vector(window []string) ([]float64, error) {
	if len(window) != s.Width {
		return nil, fmt.Errorf("%w: window has %d tokens, schema expects %d", domain.ErrIndex, len(window), s.Width)
	}

	cache := make([]string, len(s.Interactions))
	filled := make([]bool, len(s.Interactions))
	vec := make([]float64, len(s.Columns))
	for c, col := range s.Columns {
		if col.Interaction < 0 || col.Interaction >= len(s.Interactions) {
			return nil, fmt.Errorf("%w: column %d refers to interaction %d", domain.ErrIndex, c, col.Interaction)
		}
		if !filled[col.Interaction] {
			cache[col.Interaction] = s.Interactions[col.Interaction].Value(window)
			filled[col.Interaction] = true
		}
		if cache[col.Interaction] == col.Value {
			vec[c] = 1
		}
	}
	return vec, nil
}

// ColumnName is "<interaction name>_<value>", e.g. "beat0beat2_A-4C#-4".
func (s *Schema) ColumnName(c int) string {
	col := s.Columns[c]
	return s.Interactions[col.Interaction].Name() + "_" + col.Value
}

// ColumnNames lists every column name in schema order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for c := range s.Columns {
		names[c] = s.ColumnName(c)
	}
	return names
}
