// Package tagged builds closed sets of named state variants ("tagged enums")
// and the guards used to inspect them.
//
// An Enum is declared once from a mapping of variant name to default fields.
// Each variant gets a Constructor that stamps the variant's tag on a Value and
// merges a partial override onto the defaults. Values are immutable: every
// modifier returns a new Value.
//
// Guards never fail on a mismatched tag. A guard that does not apply
// returns (zero, false).
//
// Example:
//
//	status := tagged.Define("Status", map[string]tagged.Fields{
//	    "Idle":    nil,
//	    "Loading": nil,
//	    "Ready":   {"value": 0},
//	})
//	ready := status.MustConstructor("Ready")(tagged.Fields{"value": 42})
//
//	tagged.When("Ready")(ready) // true
//	tripled, _ := tagged.On("Ready", func(v tagged.Value) int {
//	    n, _ := tagged.FieldOf[int](v, "value")
//	    return n * 3
//	})(ready) // 126
//
// Plain Go structs can take part in the same guards by implementing Tagged.
package tagged
