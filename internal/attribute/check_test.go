package attribute

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "timesheet/internal/errors"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name        string
		typ         Type
		value       string
		options     []string
		wantValue   string
		wantOptions []string
		wantFields  []string
	}{
		{name: "string ok", typ: TypeString, value: "Platform", wantValue: "Platform"},
		{name: "string is trimmed", typ: TypeString, value: "  Platform ", wantValue: "Platform"},
		{name: "string empty", typ: TypeString, value: "   ", wantFields: []string{"value"}},
		{name: "number integer", typ: TypeNumber, value: "10000", wantValue: "10000"},
		{name: "number fraction", typ: TypeNumber, value: "-12.50", wantValue: "-12.5"},
		{name: "number exponent", typ: TypeNumber, value: "1e3", wantValue: "1000"},
		{name: "number rejects text", typ: TypeNumber, value: "not a number", wantFields: []string{"value"}},
		{name: "date iso", typ: TypeDate, value: "2024-03-10", wantValue: "2024-03-10"},
		{name: "date with time", typ: TypeDate, value: "2024-03-10 15:04:05", wantValue: "2024-03-10"},
		{name: "date long form", typ: TypeDate, value: "March 10, 2024", wantValue: "2024-03-10"},
		{name: "date rejects garbage", typ: TypeDate, value: "invalid-date", wantFields: []string{"value"}},
		{name: "date rejects a bare year", typ: TypeDate, value: "2024", wantFields: []string{"value"}},
		{name: "date rejects a unix timestamp", typ: TypeDate, value: "1710028800", wantFields: []string{"value"}},
		{name: "date rejects compact digits", typ: TypeDate, value: "20240310", wantFields: []string{"value"}},
		{name: "string at the length limit", typ: TypeString, value: strings.Repeat("a", 255), wantValue: strings.Repeat("a", 255)},
		{name: "string over the length limit", typ: TypeString, value: strings.Repeat("a", 256), wantFields: []string{"value"}},
		{name: "number canonical form over the length limit", typ: TypeNumber, value: "12345678e250", wantFields: []string{"value"}},
		{name: "number with a huge exponent", typ: TypeNumber, value: "1e300", wantFields: []string{"value"}},
		{name: "number with a tiny exponent", typ: TypeNumber, value: "1e-999999999", wantFields: []string{"value"}},
		{
			name: "select ok", typ: TypeSelect, value: "HR", options: []string{"IT", "HR"},
			wantValue: "HR", wantOptions: []string{"IT", "HR"},
		},
		{
			name: "select value outside options", typ: TypeSelect, value: "Finance", options: []string{"IT", "HR"},
			wantFields: []string{"value"},
		},
		{name: "select without options", typ: TypeSelect, value: "IT", wantFields: []string{"options", "value"}},
		{
			name: "select duplicate options", typ: TypeSelect, value: "IT", options: []string{"IT", "IT"},
			wantFields: []string{"options"},
		},
		{
			name: "select blank option", typ: TypeSelect, value: "IT", options: []string{"IT", " "},
			wantFields: []string{"options"},
		},
		{
			name: "options on string", typ: TypeString, value: "x", options: []string{"a"},
			wantFields: []string{"options"},
		},
		{name: "empty options on number are ignored", typ: TypeNumber, value: "3", options: []string{}, wantValue: "3"},
		{name: "boolean unsupported", typ: Type("boolean"), value: "true", wantFields: []string{"type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, options, err := Check(tt.typ, tt.value, tt.options)

			if len(tt.wantFields) > 0 {
				var verr *apperrors.ValidationError
				require.ErrorAs(t, err, &verr)
				for _, field := range tt.wantFields {
					assert.NotEmpty(t, verr.Messages(field), "expected message on %s", field)
				}
				assert.Len(t, verr.Fields(), len(tt.wantFields))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.typ, v.Type())
			assert.Equal(t, tt.wantValue, v.String())
			assert.Equal(t, tt.wantOptions, options)
		})
	}
}

func TestValueAccessors(t *testing.T) {
	v, _, err := Check(TypeNumber, "42.5", nil)
	require.NoError(t, err)

	d, ok := v.Number()
	require.True(t, ok)
	assert.Equal(t, "42.5", d.String())

	_, ok = v.Date()
	assert.False(t, ok)
	_, ok = v.Text()
	assert.False(t, ok)

	date, _, err := Check(TypeDate, "2023-12-31", nil)
	require.NoError(t, err)
	tm, ok := date.Date()
	require.True(t, ok)
	assert.Equal(t, 2023, tm.Year())

	assert.True(t, Value{}.IsZero())
	assert.Equal(t, "", Value{}.String())
}

func TestRegistry(t *testing.T) {
	for _, typ := range []Type{TypeString, TypeNumber, TypeDate, TypeSelect} {
		_, ok := GetEngine(typ)
		assert.True(t, ok, typ)
	}
	_, ok := GetEngine(Type("boolean"))
	assert.False(t, ok)
	assert.True(t, TypeSelect.HasOptions())
	assert.False(t, TypeDate.HasOptions())

	engine, ok := GetEngine(TypeString)
	require.True(t, ok)
	assert.Equal(t, TypeString, engine.Type())
}
