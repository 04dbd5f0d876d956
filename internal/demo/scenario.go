package demo

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario is returned for scenarios that cannot run.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a scripted run of the demo store.
type Scenario struct {
	Name    string         `yaml:"name"`
	Initial map[string]any `yaml:"initial"`
	Cache   CacheConfig    `yaml:"cache"`
	Records []Record       `yaml:"records"`
	Steps   []Step         `yaml:"steps"`
}

// CacheConfig sizes the cache tier.
type CacheConfig struct {
	MaxEntries int64 `yaml:"max_entries"`
}

// Step is one dispatch. Action selects which of the other fields is used:
// By for Increment, Key for Load, State for Transition.
type Step struct {
	Action string         `yaml:"action"`
	By     int            `yaml:"by"`
	Key    string         `yaml:"key"`
	State  map[string]any `yaml:"state"`
}

const defaultCacheEntries = 1024

// DecodeScenario reads a YAML scenario from r. Unknown keys are rejected.
func DecodeScenario(r io.Reader) (Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return Scenario{}, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// LoadScenario reads the YAML scenario at path.
func LoadScenario(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, err
	}
	defer f.Close()
	return DecodeScenario(f)
}

// Validate checks action names and state records without running anything.
func (sc Scenario) Validate() error {
	if sc.Initial != nil {
		if _, err := Fetch.Decode(sc.Initial); err != nil {
			return fmt.Errorf("%w: initial: %w", ErrInvalidScenario, err)
		}
	}
	if sc.Cache.MaxEntries < 0 {
		return fmt.Errorf("%w: cache.max_entries is negative", ErrInvalidScenario)
	}
	for i, step := range sc.Steps {
		switch step.Action {
		case Increment.Name, Load.Name:
		case Transition.Name:
			if _, err := Fetch.Decode(step.State); err != nil {
				return fmt.Errorf("%w: step %d: %w", ErrInvalidScenario, i+1, err)
			}
		default:
			return fmt.Errorf("%w: step %d: unknown action %q", ErrInvalidScenario, i+1, step.Action)
		}
	}
	return nil
}
