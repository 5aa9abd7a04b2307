package models

// Port represents a connection point on a node.
type Port struct {
	ID          string         `json:"id"` // "{nodeID}:{portName}"
	NodeID      string         `json:"node_id"`
	Name        string         `json:"name"` // unique within the node
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema,omitempty"`
}

// InputPort is a port receiving data.
type InputPort struct {
	Port
}

// OutputPort is a port emitting data.
type OutputPort struct {
	Port
}

// MakePortID creates a port ID from node ID and port name.
func MakePortID(nodeID, portName string) string {
	return nodeID + ":" + portName
}

// NewInputPort builds an input port owned by nodeID.
func NewInputPort(nodeID, name, description string, schema map[string]any) InputPort {
	return InputPort{Port: Port{ID: MakePortID(nodeID, name), NodeID: nodeID, Name: name, Description: description, Schema: schema}}
}

// NewOutputPort builds an output port owned by nodeID.
func NewOutputPort(nodeID, name, description string, schema map[string]any) OutputPort {
	return OutputPort{Port: Port{ID: MakePortID(nodeID, name), NodeID: nodeID, Name: name, Description: description, Schema: schema}}
}
