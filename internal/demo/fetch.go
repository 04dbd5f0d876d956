// Package demo wires the tagged store, the service registry and the context
// tree into a small cached lookup machine driven by YAML scenarios.
package demo

import (
	"fmt"

	"github.com/on-the-ground/effect_ive_store/tagged"
)

// Fetch is the state machine of one cached lookup.
var Fetch = tagged.Define("Fetch", map[string]tagged.Fields{
	"Idle":    {"value": 0},
	"Loading": {"key": ""},
	"Ready":   {"value": 0, "source": ""},
	"Failed":  {"reason": ""},
})

var (
	idle    = Fetch.MustConstructor("Idle")
	loading = Fetch.MustConstructor("Loading")
	ready   = Fetch.MustConstructor("Ready")
	failed  = Fetch.MustConstructor("Failed")
)

var summaries = tagged.Cases[tagged.Value, string]{
	"Idle": func(v tagged.Value) string {
		n, _ := tagged.FieldOf[int](v, "value")
		return fmt.Sprintf("idle at %d", n)
	},
	"Loading": func(v tagged.Value) string {
		key, _ := tagged.FieldOf[string](v, "key")
		return fmt.Sprintf("loading %q", key)
	},
	"Ready": func(v tagged.Value) string {
		n, _ := tagged.FieldOf[int](v, "value")
		source, _ := tagged.FieldOf[string](v, "source")
		return fmt.Sprintf("ready with %d from %s", n, source)
	},
	"Failed": func(v tagged.Value) string {
		reason, _ := tagged.FieldOf[string](v, "reason")
		return "failed: " + reason
	},
}

// Summary renders s as one human readable line.
func Summary(s tagged.Value) (string, error) {
	return tagged.Match(s, summaries)
}
