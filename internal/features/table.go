package features

import (
	"strconv"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// Table names written after every training pass.
const (
	TableExpanded     = "expanded"
	TableInteractions = "interactions"
	TableIndicators   = "indicators"
)

// Table is a header plus rows of string cells, the shape every exported
// artifact shares.
type Table struct {
	Header []string
	Rows   [][]string
}

// ExpandedTable renders window samples: label followed by the window tokens.
func ExpandedTable(samples []WindowSample, width int) Table {
	t := Table{Header: domain.BeatHeader(width)}
	for _, s := range samples {
		row := make([]string, 0, len(s.Window)+1)
		row = append(row, s.Label.Field())
		row = append(row, s.Window...)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// InteractionTable renders one column per interaction with its concatenated
// value on every row.
func (d *Dataset) InteractionTable() Table {
	header := []string{domain.LabelHeader}
	for _, in := range d.Schema.Interactions {
		header = append(header, in.Name())
	}
	t := Table{Header: header}
	for r, vals := range d.Values {
		row := make([]string, 0, len(vals)+1)
		row = append(row, d.Samples[r].Label.Field())
		row = append(row, vals...)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// IndicatorTable renders the one-hot training matrix.
func (d *Dataset) IndicatorTable() Table {
	header := append([]string{domain.LabelHeader}, d.Schema.ColumnNames()...)
	t := Table{Header: header}
	for r, vec := range d.X {
		row := make([]string, 0, len(vec)+1)
		row = append(row, d.Samples[r].Label.Field())
		for _, v := range vec {
			row = append(row, strconv.Itoa(int(v)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
