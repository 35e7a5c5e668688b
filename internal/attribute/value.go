package attribute

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the persisted form of date values.
const DateLayout = "2006-01-02"

// Value is a typed attribute value. Exactly one payload is meaningful, selected by Type().
// The zero Value has no type and formats as "".
type Value struct {
	typ    Type
	text   string
	number decimal.Decimal
	date   time.Time
}

// StringValue wraps free text.
func StringValue(s string) Value {
	return Value{typ: TypeString, text: s}
}

// NumberValue wraps a decimal.
func NumberValue(d decimal.Decimal) Value {
	return Value{typ: TypeNumber, number: d}
}

// DateValue wraps a calendar date; the time of day is dropped.
func DateValue(t time.Time) Value {
	y, m, d := t.Date()
	return Value{typ: TypeDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// SelectValue wraps a chosen option.
func SelectValue(option string) Value {
	return Value{typ: TypeSelect, text: option}
}

// Type returns the tag of the value.
func (v Value) Type() Type {
	return v.typ
}

// IsZero reports whether v was never set.
func (v Value) IsZero() bool {
	return v.typ == ""
}

// Text returns the text of string and select values.
func (v Value) Text() (string, bool) {
	if v.typ != TypeString && v.typ != TypeSelect {
		return "", false
	}
	return v.text, true
}

// Number returns the decimal of number values.
func (v Value) Number() (decimal.Decimal, bool) {
	if v.typ != TypeNumber {
		return decimal.Zero, false
	}
	return v.number, true
}

// Date returns the date of date values.
func (v Value) Date() (time.Time, bool) {
	if v.typ != TypeDate {
		return time.Time{}, false
	}
	return v.date, true
}

// String formats v in its persisted form.
func (v Value) String() string {
	engine, ok := GetEngine(v.typ)
	if !ok {
		return ""
	}
	return engine.Format(v)
}
