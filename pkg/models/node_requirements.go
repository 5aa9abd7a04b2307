package models

import "time"

// InputRequirements defines how a node waits for its inputs.
type InputRequirements struct {
	RequiredPorts []string       `json:"required_ports"`
	OptionalPorts []string       `json:"optional_ports"`
	WaitMode      InputWaitMode  `json:"wait_mode"`
	Timeout       *time.Duration `json:"timeout"`
}

// InputWaitMode defines different strategies for waiting for inputs.
type InputWaitMode string

const (
	// WaitModeAll waits for all required ports to have inputs before executing.
	WaitModeAll InputWaitMode = "all"
	// WaitModeAny executes when any required port has input.
	WaitModeAny InputWaitMode = "any"
)

// SinglePortRequirements is the requirement set of a node with one required input.
func SinglePortRequirements(port string) InputRequirements {
	return InputRequirements{
		RequiredPorts: []string{port},
		OptionalPorts: []string{},
		WaitMode:      WaitModeAll,
		Timeout:       nil,
	}
}
