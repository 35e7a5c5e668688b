package attribute

import (
	"strings"

	apperrors "timesheet/internal/errors"
)

// MaxValueLength bounds the persisted form of a value.
const MaxValueLength = 255

// Check validates a (type, value, options) triple. It returns the parsed value and the
// options to persist, which are nil for every type except select.
// All failures are collected into one ValidationError keyed type, value and options.
func Check(t Type, raw string, options []string) (Value, []string, error) {
	verr := apperrors.NewValidationError()

	engine, ok := GetEngine(t)
	if !ok {
		verr.Add("type", "Invalid attribute type selected.")
		return Value{}, nil, verr
	}

	if !t.HasOptions() {
		if len(options) > 0 {
			verr.Add("options", "Options are only allowed for select type attributes.")
		}
		options = nil
	} else {
		options = trimAll(options)
		for _, msg := range engine.ValidateOptions(options) {
			verr.Add("options", msg)
		}
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		verr.Add("value", "Attribute value is required.")
		return Value{}, nil, verr
	}

	v, err := engine.Parse(raw, options)
	switch {
	case err != nil:
		verr.Add("value", err.Error())
	case len(v.String()) > MaxValueLength:
		verr.Add("value", errTooLong.Error())
	}
	if verr.HasErrors() {
		return Value{}, nil, verr
	}
	return v, options, nil
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
