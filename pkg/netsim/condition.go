package netsim

import (
	"fmt"
	"sort"
)

// Condition is a named bundle of simulated network impairment
// parameters. Values are immutable; handlers always receive copies.
// The Name is deliberately excluded from JSON so that a marshalled
// Condition is exactly the "settings" object of the control API.
type Condition struct {
	Name        string  `json:"-"`
	PacketLoss  float64 `json:"packet_loss"`
	LatencyMs   float64 `json:"latency_ms"`
	JitterMs    float64 `json:"jitter_ms"`
	Description string  `json:"description"`
}

// ErrUnknownCondition is returned when a condition name is not present
// in the table.
type ErrUnknownCondition struct {
	Name string
}

func (e ErrUnknownCondition) Error() string {
	return fmt.Sprintf("unknown network condition: %q", e.Name)
}

// conditions is the fixed table of network condition profiles. Test
// suites assert on these exact values, so they must not drift.
var conditions = map[string]Condition{
	"normal": {
		Name:        "normal",
		PacketLoss:  0.0,
		LatencyMs:   10,
		JitterMs:    5,
		Description: "Normal network (stable connection)",
	},
	"poor": {
		Name:        "poor",
		PacketLoss:  0.15,
		LatencyMs:   200,
		JitterMs:    50,
		Description: "Poor network (mobile 3G-like)",
	},
	"terrible": {
		Name:        "terrible",
		PacketLoss:  0.15,
		LatencyMs:   500,
		JitterMs:    150,
		Description: "Terrible network (congested/unstable)",
	},
}

// Lookup returns the condition for the given name.
func Lookup(name string) (Condition, error) {
	c, ok := conditions[name]
	if !ok {
		return Condition{}, ErrUnknownCondition{Name: name}
	}
	return c, nil
}

// Names returns all valid condition names in sorted order.
func Names() []string {
	names := make([]string, 0, len(conditions))
	for name := range conditions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsValid reports whether name resolves in the condition table.
func IsValid(name string) bool {
	_, ok := conditions[name]
	return ok
}
