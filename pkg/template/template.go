// Package template renders node configuration values against the execution context.
package template

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dukex/operion-privacyflow/pkg/models"
)

// NeedsTemplating reports whether input contains a template action.
func NeedsTemplating(input string) bool {
	return strings.Contains(input, "{{")
}

// RenderString renders input with the execution context as data. Strings without
// template actions are returned unchanged. Missing keys fail the render.
//
// Available roots: .trigger_data, .node_results, .variables, .metadata, .execution.
func RenderString(input string, executionCtx *models.ExecutionContext) (string, error) {
	if !NeedsTemplating(input) {
		return input, nil
	}

	nodeResults := make(map[string]any, len(executionCtx.NodeResults))
	for id, result := range executionCtx.NodeResults {
		nodeResults[id] = result.Data
	}

	data := map[string]any{
		"trigger_data": executionCtx.TriggerData,
		"node_results": nodeResults,
		"variables":    executionCtx.Variables,
		"metadata":     executionCtx.Metadata,
		"execution": map[string]any{
			"id":          executionCtx.ID,
			"workflow_id": executionCtx.PublishedWorkflowID,
		},
	}

	tmpl, err := template.New("config").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
		}).
		Parse(input)
	if err != nil {
		return "", fmt.Errorf("failed to parse template '%s': %w", input, err)
	}

	var buf strings.Builder

	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template '%s': %w", input, err)
	}

	return buf.String(), nil
}
