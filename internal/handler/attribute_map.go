package handler

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/service"
)

// AttributeMap is a JSON object of attribute names to values. Keys keep the order they
// were sent in, duplicates included, so later keys win when applied.
type AttributeMap struct {
	entries   []service.AttributeEntry
	invalid   []string
	notObject bool
}

func (m *AttributeMap) UnmarshalJSON(b []byte) error {
	*m = AttributeMap{}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		m.notObject = true
		return nil
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected attribute key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		value, _, ok := scalarText(raw)
		if !ok {
			m.invalid = append(m.invalid, name)
			continue
		}
		m.entries = append(m.entries, service.AttributeEntry{Name: name, Value: value})
	}
	_, err = dec.Token()
	return err
}

// Entries returns the (name, value) pairs in request order.
func (m AttributeMap) Entries() []service.AttributeEntry {
	return m.entries
}

func (m AttributeMap) check(verr *apperrors.ValidationError) {
	if m.notObject {
		verr.Add("attributes", "Invalid attributes format.")
	}
	for _, name := range m.invalid {
		verr.Add("attributes."+name, "Attribute value must be a string or a number.")
	}
}
