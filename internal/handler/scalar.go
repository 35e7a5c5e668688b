package handler

import (
	"bytes"
	"encoding/json"
)

// Scalar is a JSON string or number kept as its text. Clients send numbers and dates
// either way, and the domain parses the text itself.
type Scalar struct {
	text    string
	present bool
	invalid bool
}

func (s *Scalar) UnmarshalJSON(b []byte) error {
	text, null, ok := scalarText(b)
	if null {
		return nil
	}
	s.present = true
	s.invalid = !ok
	s.text = text
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.present {
		return []byte("null"), nil
	}
	return json.Marshal(s.text)
}

// String returns the text, empty when absent.
func (s Scalar) String() string { return s.text }

// Invalid reports whether the value was neither a string nor a number.
func (s Scalar) Invalid() bool { return s.invalid }

// Ptr returns nil when the value was absent or null.
func (s Scalar) Ptr() *string {
	if !s.present {
		return nil
	}
	text := s.text
	return &text
}

// scalarText extracts the text of a JSON string or number literal.
func scalarText(raw []byte) (text string, null bool, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", true, false
	}
	switch c := raw[0]; {
	case c == '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", false, false
		}
		return text, false, true
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", false, false
		}
		return n.String(), false, true
	}
	return "", false, false
}
