package backend

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Row is one listing record: a mapping from column name to value.
// Column order is kept exactly as the backend serialized the object,
// which a plain map[string]any would lose.
type Row struct {
	cols []string
	vals map[string]any
}

// Field names one column of a row. Fixtures build rows from fields.
type Field struct {
	Name  string
	Value any
}

// NewRow builds a row with the given columns, in order.
func NewRow(fields ...Field) Row {
	r := Row{vals: make(map[string]any, len(fields))}
	for _, f := range fields {
		if _, seen := r.vals[f.Name]; !seen {
			r.cols = append(r.cols, f.Name)
		}
		r.vals[f.Name] = f.Value
	}
	return r
}

// Columns returns the column names in the order they appeared.
func (r Row) Columns() []string {
	return r.cols
}

// Value returns the value for a column and whether the column exists.
func (r Row) Value(col string) (any, bool) {
	v, ok := r.vals[col]
	return v, ok
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.cols)
}

// UnmarshalJSON decodes a JSON object token by token so the key order
// survives. Values decode like encoding/json defaults (numbers become
// float64, nested objects become maps).
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "decode row")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return eris.Errorf("decode row: expected object, got %v", tok)
	}

	r.cols = nil
	r.vals = make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "decode row key")
		}
		key, ok := keyTok.(string)
		if !ok {
			return eris.Errorf("decode row: expected string key, got %v", keyTok)
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return eris.Wrapf(err, "decode row value for %q", key)
		}

		if _, seen := r.vals[key]; !seen {
			r.cols = append(r.cols, key)
		}
		r.vals[key] = v
	}

	if _, err := dec.Token(); err != nil {
		return eris.Wrap(err, "decode row")
	}
	return nil
}
