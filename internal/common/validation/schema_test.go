package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const questionSchema = `{
  "type": "object",
  "required": ["question"],
  "properties": {
    "question": {"type": "string", "minLength": 1, "maxLength": 20},
    "requestId": {"type": "string"}
  }
}`

func TestSchema_ValidateJSON(t *testing.T) {
	s := MustCompile(questionSchema)

	tests := []struct {
		name      string
		raw       string
		valid     bool
		badField  string
		errorCode string
	}{
		{"valid", `{"question":"Who won?"}`, true, "", ""},
		{"missing question", `{"requestId":"abc"}`, false, "question", "REQUIRED"},
		{"empty question", `{"question":""}`, false, "question", "STRING_GTE"},
		{"wrong type", `{"question":42}`, false, "question", "INVALID_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.ValidateJSON(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				require.NotEmpty(t, result.Errors)
				assert.True(t, result.HasErrors(tt.badField), result.GetErrorMessages())
				assert.Equal(t, tt.errorCode, result.Errors[0].Code)
			}
		})
	}
}

func TestSchema_ValidateGoValue(t *testing.T) {
	s := MustCompile(questionSchema)

	result, err := s.Validate(map[string]interface{}{"question": "this question is far too long"})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.GetErrorMessages()[0], "question:")
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)

	assert.Panics(t, func() { MustCompile(`not json`) })
}
