package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/service"
)

func TestAttributeMap_KeepsRequestOrder(t *testing.T) {
	var req CreateProjectRequest
	body := `{"attributes": {"priority": "High", "budget": 1500.50, "department": "IT", "priority": "Low"}}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, []service.AttributeEntry{
		{Name: "priority", Value: "High"},
		{Name: "budget", Value: "1500.50"},
		{Name: "department", Value: "IT"},
		{Name: "priority", Value: "Low"},
	}, req.Attributes.Entries())

	verr := apperrors.NewValidationError()
	req.Check(verr)
	assert.False(t, verr.HasErrors())
}

func TestAttributeMap_Check(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantEntries []service.AttributeEntry
		wantErrors  map[string][]string
	}{
		{
			name: "missing",
			body: `{}`,
		},
		{
			name: "null",
			body: `{"attributes": null}`,
		},
		{
			name: "list instead of object",
			body: `{"attributes": ["IT"]}`,
			wantErrors: map[string][]string{
				"attributes": {"Invalid attributes format."},
			},
		},
		{
			name: "string instead of object",
			body: `{"attributes": "IT"}`,
			wantErrors: map[string][]string{
				"attributes": {"Invalid attributes format."},
			},
		},
		{
			name:        "nested values are rejected by name",
			body:        `{"attributes": {"department": "IT", "owner": {"id": 1}, "flag": false}}`,
			wantEntries: []service.AttributeEntry{{Name: "department", Value: "IT"}},
			wantErrors: map[string][]string{
				"attributes.owner": {"Attribute value must be a string or a number."},
				"attributes.flag":  {"Attribute value must be a string or a number."},
			},
		},
		{
			name: "null values are rejected",
			body: `{"attributes": {"department": null}}`,
			wantErrors: map[string][]string{
				"attributes.department": {"Attribute value must be a string or a number."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateProjectRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			assert.Equal(t, tt.wantEntries, req.Attributes.Entries())

			verr := apperrors.NewValidationError()
			req.Check(verr)
			if tt.wantErrors == nil {
				assert.False(t, verr.HasErrors())
				return
			}
			assert.Equal(t, tt.wantErrors, verr.Fields())
		})
	}
}

func TestAttributeMap_MalformedObject(t *testing.T) {
	var m AttributeMap
	assert.Error(t, m.UnmarshalJSON([]byte(`{"department": }`)))
}
