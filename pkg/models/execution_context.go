package models

// ExecutionContext carries the workflow execution a node runs in.
type ExecutionContext struct {
	ID                  string                `json:"id"`
	PublishedWorkflowID string                `json:"published_workflow_id"`
	TriggerData         map[string]any        `json:"trigger_data,omitempty"`
	NodeResults         map[string]NodeResult `json:"node_results,omitempty"`
	Variables           map[string]any        `json:"variables,omitempty"`
	Metadata            map[string]any        `json:"metadata,omitempty"`
}
