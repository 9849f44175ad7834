package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answerSchema() *Schema {
	return &Schema{
		Name: "test-answer",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"answer": map[string]any{"type": "string"},
				"score":  map[string]any{"type": "number"},
			},
			"required": []any{"answer"},
		},
	}
}

func TestValidateOutputAcceptsConformingJSON(t *testing.T) {
	err := validateOutput(answerSchema(), json.RawMessage(`{"answer":"7","score":0.9}`))
	assert.NoError(t, err)
}

func TestValidateOutputNilSchemaPasses(t *testing.T) {
	err := validateOutput(nil, json.RawMessage(`this is not even JSON`))
	assert.NoError(t, err)
}

func TestValidateOutputRejectsMalformedJSON(t *testing.T) {
	err := validateOutput(answerSchema(), json.RawMessage(`{"answer":`))
	require.Error(t, err)

	var invalid *ErrInvalidOutput
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, json.RawMessage(`{"answer":`), invalid.Content)
}

func TestValidateOutputRejectsMissingRequiredField(t *testing.T) {
	err := validateOutput(answerSchema(), json.RawMessage(`{"score":0.5}`))

	var invalid *ErrInvalidOutput
	assert.ErrorAs(t, err, &invalid)
}

func TestValidateOutputRejectsWrongType(t *testing.T) {
	err := validateOutput(answerSchema(), json.RawMessage(`{"answer":42}`))

	var invalid *ErrInvalidOutput
	assert.ErrorAs(t, err, &invalid)
}

func TestMockProviderValidatesAgainstPromptSchema(t *testing.T) {
	mock := NewMockProvider(
		MockOutput{Content: json.RawMessage(`{"score":0.5}`)},
	)

	_, err := mock.Complete(t.Context(), Prompt{User: "q", Schema: answerSchema()})

	var invalid *ErrInvalidOutput
	assert.ErrorAs(t, err, &invalid)
}

func TestMockProviderDrainsInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockOutput{Content: json.RawMessage(`{"n":1}`)},
		MockOutput{Content: json.RawMessage(`{"n":2}`)},
	)

	first, err := mock.Complete(t.Context(), Prompt{User: "a"})
	require.NoError(t, err)
	second, err := mock.Complete(t.Context(), Prompt{User: "b"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"n":1}`, string(first))
	assert.JSONEq(t, `{"n":2}`, string(second))

	_, err = mock.Complete(t.Context(), Prompt{User: "c"})
	var unavailable *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
}
