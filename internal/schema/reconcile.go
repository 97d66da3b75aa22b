package schema

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Field is a required semantic column. Aliases only take part in the exact pass.
type Field struct {
	Name    string
	Aliases []string
}

// Mapping maps a field name to the actual column label of a table.
type Mapping map[string]string

type MissingFieldsError struct {
	Missing []string
	Columns []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing columns %v, columns found: %v", e.Missing, e.Columns)
}

var folder = cases.Fold()

// Normalize folds case and strips separators and byte-order marks from a column label.
func Normalize(label string) string {
	label = strings.TrimSpace(strings.TrimPrefix(label, "\uFEFF"))
	label = folder.String(label)
	return strings.NewReplacer("_", "", " ", "").Replace(label)
}

// Reconcile maps every field onto a column: exact match of the normalized name or an alias
// first, then substring match of the normalized name where the first column in order wins.
func Reconcile(columns []string, fields []Field) (Mapping, error) {
	normalized := make([]string, len(columns))
	for i, column := range columns {
		normalized[i] = Normalize(column)
	}

	mapping := make(Mapping, len(fields))
	unmatched := make([]Field, 0)
	for _, field := range fields {
		if column, ok := exactMatch(columns, normalized, field); ok {
			mapping[field.Name] = column
		} else {
			unmatched = append(unmatched, field)
		}
	}

	missing := make([]string, 0)
	for _, field := range unmatched {
		want := Normalize(field.Name)
		found := false
		for i, n := range normalized {
			if want != "" && strings.Contains(n, want) {
				mapping[field.Name] = columns[i]
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, field.Name)
		}
	}

	if len(missing) != 0 {
		return nil, &MissingFieldsError{Missing: missing, Columns: columns}
	}
	return mapping, nil
}

func exactMatch(columns, normalized []string, field Field) (string, bool) {
	keys := append([]string{field.Name}, field.Aliases...)
	for _, key := range keys {
		want := Normalize(key)
		for i, n := range normalized {
			if n == want {
				return columns[i], true
			}
		}
	}
	return "", false
}

const (
	malformedProbe      = 5
	malformedLabelWidth = 20
)

// LooksMalformed reports whether the detected header is probably a data row or an encoded
// header, i.e. the first labels are all anomalously long.
func LooksMalformed(columns []string) bool {
	if len(columns) == 0 {
		return true
	}
	n := malformedProbe
	if len(columns) < n {
		n = len(columns)
	}
	for _, column := range columns[:n] {
		if len(column) <= malformedLabelWidth {
			return false
		}
	}
	return true
}
