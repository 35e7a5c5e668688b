package attribute

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

var (
	errNotNumber   = errors.New("Value must be a number for number type attributes.")
	errNotDate     = errors.New("Value must be a valid date for date type attributes.")
	errNotAnOption = errors.New("Selected value must be one of the provided options.")
	errTooLong     = errors.New("Attribute value may not be greater than 255 characters.")
)

const msgOptionsRequired = "Options are required for select type attributes."

// StringEngine accepts any non-empty text.
type StringEngine struct{}

func (StringEngine) Type() Type { return TypeString }

func (StringEngine) ValidateOptions([]string) []string { return nil }

func (StringEngine) Parse(raw string, _ []string) (Value, error) {
	return StringValue(raw), nil
}

func (StringEngine) Format(v Value) string { return v.text }

// NumberEngine accepts numeric literals, including signs, fractions and exponents.
type NumberEngine struct{}

func (NumberEngine) Type() Type { return TypeNumber }

func (NumberEngine) ValidateOptions([]string) []string { return nil }

func (NumberEngine) Parse(raw string, _ []string) (Value, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Value{}, errNotNumber
	}
	// the exponent alone would push the decimal form past the column
	if exp := d.Exponent(); exp > MaxValueLength || exp < -MaxValueLength {
		return Value{}, errTooLong
	}
	return NumberValue(d), nil
}

func (NumberEngine) Format(v Value) string { return v.number.String() }

// DateEngine accepts anything dateparse recognises except bare digit runs, which it would
// read as years or unix timestamps, and stores the calendar date.
type DateEngine struct{}

func (DateEngine) Type() Type { return TypeDate }

func (DateEngine) ValidateOptions([]string) []string { return nil }

func (DateEngine) Parse(raw string, _ []string) (Value, error) {
	if strings.Trim(raw, "0123456789") == "" {
		return Value{}, errNotDate
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return Value{}, errNotDate
	}
	return DateValue(t), nil
}

func (DateEngine) Format(v Value) string { return v.date.Format(DateLayout) }

// SelectEngine restricts values to an ordered list of distinct options.
type SelectEngine struct{}

func (SelectEngine) Type() Type { return TypeSelect }

func (SelectEngine) ValidateOptions(options []string) []string {
	if len(options) == 0 {
		return []string{msgOptionsRequired}
	}
	var msgs []string
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		if strings.TrimSpace(opt) == "" {
			msgs = append(msgs, "Option values cannot be empty.")
			continue
		}
		if _, dup := seen[opt]; dup {
			msgs = append(msgs, "Option values must be distinct.")
			continue
		}
		seen[opt] = struct{}{}
	}
	return msgs
}

func (SelectEngine) Parse(raw string, options []string) (Value, error) {
	for _, opt := range options {
		if opt == raw {
			return SelectValue(raw), nil
		}
	}
	return Value{}, errNotAnOption
}

func (SelectEngine) Format(v Value) string { return v.text }
