package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/TWRT/monday-forms/internal/models"
)

// ValueKind tags which representation of a column reading carries its value.
type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueDisplay
	ValueText
	ValueJSON
	ValueRaw
)

func (k ValueKind) String() string {
	switch k {
	case ValueDisplay:
		return "display"
	case ValueText:
		return "text"
	case ValueJSON:
		return "json"
	case ValueRaw:
		return "raw"
	default:
		return "absent"
	}
}

// ColumnReading is a column value resolved to exactly one representation.
type ColumnReading struct {
	Kind   ValueKind
	Raw    string
	Parsed any
}

// Classify picks the representation that wins for cv. Display values of
// mirror columns come first, then the plain text, then the raw value. A
// field wins as soon as it is set, even if it only holds whitespace.
func Classify(cv models.ColumnValue) ColumnReading {
	if cv.DisplayValue != "" {
		return ColumnReading{Kind: ValueDisplay, Raw: cv.DisplayValue}
	}
	if cv.Text != "" {
		return ColumnReading{Kind: ValueText, Raw: cv.Text}
	}
	if cv.Value == "" {
		return ColumnReading{Kind: ValueAbsent}
	}
	var parsed any
	if err := json.Unmarshal([]byte(cv.Value), &parsed); err != nil {
		return ColumnReading{Kind: ValueRaw, Raw: cv.Value}
	}
	return ColumnReading{Kind: ValueJSON, Raw: cv.Value, Parsed: parsed}
}

// Normalize reduces a column reading to a single trimmed string. It never
// fails; unparseable values fall back to the raw text.
func Normalize(cv models.ColumnValue) string {
	reading := Classify(cv)
	switch reading.Kind {
	case ValueDisplay, ValueText, ValueRaw:
		return strings.TrimSpace(reading.Raw)
	case ValueJSON:
		if obj, ok := reading.Parsed.(map[string]any); ok {
			if v, ok := obj["text"]; ok {
				return strings.TrimSpace(stringify(v))
			}
			if v, ok := obj["label"]; ok {
				return strings.TrimSpace(stringify(v))
			}
		}
		return strings.TrimSpace(stringify(reading.Parsed))
	default:
		return ""
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		encoded, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
