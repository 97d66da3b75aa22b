package tracefile

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/packagewjx/workload-profiler/internal/schema"
	"github.com/pkg/errors"
)

// RawTable holds the rows of one file in load order. Cells are addressed by column label.
type RawTable struct {
	Source  string
	Columns []string
	Rows    [][]string
	index   map[string]int
}

func (t *RawTable) Value(row []string, column string) string {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Columns))
		for i, c := range t.Columns {
			if _, ok := t.index[c]; !ok {
				t.index[c] = i
			}
		}
	}
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

type ReadOptions struct {
	// HeaderRow is the index of the header line; earlier lines are skipped.
	HeaderRow int
	// Columns, when set, names the columns of a headerless file.
	Columns []string
	// Limit caps the number of data rows, 0 means no cap.
	Limit int
}

func Read(in io.Reader, source string, opts ReadOptions) (*RawTable, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	table := &RawTable{Source: source, Rows: make([][]string, 0, 1024)}
	if len(opts.Columns) != 0 {
		table.Columns = opts.Columns
	}

	var record []string
	var err error
	line := 0
	for record, err = reader.Read(); err == nil; record, err = reader.Read() {
		line++
		if line <= opts.HeaderRow {
			continue
		}
		if table.Columns == nil {
			table.Columns = make([]string, len(record))
			for i, label := range record {
				table.Columns[i] = strings.TrimSpace(label)
			}
			continue
		}
		table.Rows = append(table.Rows, record)
		if opts.Limit > 0 && len(table.Rows) >= opts.Limit {
			return table, nil
		}
	}
	if err != io.EOF {
		return nil, errors.Wrapf(err, "read %s", source)
	}
	return table, nil
}

// ReconciledTable is a RawTable whose required fields have been mapped onto its columns.
type ReconciledTable struct {
	*RawTable
	Mapping schema.Mapping
}

func (t *ReconciledTable) Field(row []string, field string) string {
	return t.Value(row, t.Mapping[field])
}
