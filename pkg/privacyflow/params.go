package privacyflow

import (
	"fmt"
)

// ParameterAccessor reads user-supplied node parameters. It is provided by the host.
type ParameterAccessor interface {
	// String returns the named parameter, or "" when it is not set.
	String(name string) (string, error)
}

// MapParameters adapts a decoded JSON object to ParameterAccessor.
type MapParameters map[string]any

func (p MapParameters) String(name string) (string, error) {
	value, ok := p[name]
	if !ok || value == nil {
		return "", nil
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("parameter '%s' must be a string, got %T", name, value)
	}
}
