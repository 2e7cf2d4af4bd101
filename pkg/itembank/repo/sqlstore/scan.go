package sqlstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tendant/itembank/pkg/itembank"
)

// TimeLayout is the fixed-width UTC layout used by stores without a native
// timestamp type. Lexical order of values equals time order.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

var timeLayouts = []string{
	TimeLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timeDest scans native timestamps or their text encodings. NULL leaves the
// target untouched.
type timeDest struct {
	t *time.Time
}

func (d timeDest) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case time.Time:
		*d.t = v.UTC()
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	}
	return fmt.Errorf("unsupported timestamp source %T", src)
}

func (d timeDest) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// ScanTime returns a scan destination for a timestamp column.
func ScanTime(t *time.Time) sql.Scanner {
	return timeDest{t: t}
}

// decodeMeta decodes an opaque JSON object. NULL and empty decode to nil.
func decodeMeta(table, column, id string, raw []byte) (itembank.Metadata, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m itembank.Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, &itembank.DecodeError{Table: table, Column: column, RowID: id, Err: err}
	}
	return m, nil
}

// decodeJSON decodes raw into v, leaving v unchanged for NULL.
func decodeJSON(table, column, id string, raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &itembank.DecodeError{Table: table, Column: column, RowID: id, Err: err}
	}
	return nil
}

// EncodeJSON encodes v for a JSON column. nil maps stay NULL.
func EncodeJSON(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case itembank.Metadata:
		if x == nil {
			return nil, nil
		}
	case map[string]float64:
		if x == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Bool encodes b the way boolean columns store it.
func Bool(b bool) int {
	if b {
		return 1
	}
	return 0
}
