// Package models defines the host-side node models the PrivacyFlow nodes plug into.
package models

import (
	"context"
	"time"
)

// CategoryType represents the category of node.
type CategoryType string

const (
	CategoryTypeAction  CategoryType = "action"  // Nodes executed inside a workflow
	CategoryTypeTrigger CategoryType = "trigger" // Nodes fed by a source provider
)

// Node types contributed by this plugin.
const (
	NodeTypePrivacyFlow        = "privacyflow"
	NodeTypeTriggerPrivacyFlow = "trigger:privacyflow"
)

// Node is a configured node instance the host executes.
type Node interface {
	ID() string
	Type() string
	// Execute runs the node. Cancelling ctx aborts any outbound call.
	Execute(ctx context.Context, execCtx ExecutionContext, inputs map[string]NodeResult) (map[string]NodeResult, error)
	InputPorts() []InputPort
	OutputPorts() []OutputPort
	InputRequirements() InputRequirements
}

// NodeResult represents the result of a node execution.
type NodeResult struct {
	NodeID    string         `json:"node_id"`
	Data      map[string]any `json:"data"`
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Error     string         `json:"error,omitempty"`
}

// NodeStatus defines the possible states of a node execution.
type NodeStatus string

const (
	NodeStatusSuccess NodeStatus = "success"
	NodeStatusError   NodeStatus = "error"
)
