package template

import (
	"testing"

	"github.com/dukex/operion-privacyflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() *models.ExecutionContext {
	return &models.ExecutionContext{
		ID:                  "exec-1",
		PublishedWorkflowID: "wf-1",
		TriggerData: map[string]any{
			"message": map[string]any{"sender": "contact-42", "text": "ping"},
		},
		NodeResults: map[string]models.NodeResult{
			"contacts": {Data: map[string]any{"count": 3}},
		},
		Variables: map[string]any{"greeting": "Hello"},
	}
}

func TestRenderString(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text", input: "just text", expected: "just text"},
		{name: "trigger data", input: "{{.trigger_data.message.sender}}", expected: "contact-42"},
		{name: "interpolation", input: "{{.variables.greeting}}, you said {{.trigger_data.message.text}}", expected: "Hello, you said ping"},
		{name: "node results", input: "{{.node_results.contacts.count}} contacts", expected: "3 contacts"},
		{name: "execution", input: "{{.execution.id}}/{{.execution.workflow_id}}", expected: "exec-1/wf-1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := RenderString(tc.input, testContext())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestRenderString_Errors(t *testing.T) {
	_, err := RenderString("{{.trigger_data.message", testContext())
	assert.ErrorContains(t, err, "failed to parse template")

	_, err = RenderString("{{.variables.missing}}", testContext())
	assert.ErrorContains(t, err, "failed to execute template")
}

func TestNeedsTemplating(t *testing.T) {
	assert.True(t, NeedsTemplating("Hi {{.variables.name}}"))
	assert.False(t, NeedsTemplating("Hi there"))
}
