package generation

import (
	"fmt"
	"time"
)

// Run is the ephemeral aggregate for one generation call: the ordered unit
// list, the insertion-ordered result mapping, and the elapsed time of the
// instantiation phase. It is owned by a single call and discarded afterwards.
type Run struct {
	units   []Unit
	keys    []string // insertion order of results
	results map[string]Result
	elapsed time.Duration
}

// NewRun validates the unit list and builds an empty run. Duplicate
// correlation keys among non-placeholder units violate the composer contract
// and are rejected here rather than silently overwritten later.
func NewRun(units []Unit) (*Run, error) {
	seen := make(map[string]bool, len(units))
	for _, u := range units {
		if u.Template == nil {
			continue
		}
		key := u.Key()
		if seen[key] {
			return nil, fmt.Errorf("duplicate correlation key %q in unit list", key)
		}
		seen[key] = true
	}

	return &Run{
		units:   units,
		results: make(map[string]Result, len(units)),
	}, nil
}

// Units returns the ordered unit list.
func (r *Run) Units() []Unit {
	return r.units
}

// Record stores a unit's result under its correlation key.
func (r *Run) Record(key string, res Result) error {
	if _, exists := r.results[key]; exists {
		return fmt.Errorf("result already recorded for key %q", key)
	}
	r.keys = append(r.keys, key)
	r.results[key] = res
	return nil
}

// Result looks up a result by correlation key.
func (r *Run) Result(key string) (Result, bool) {
	res, ok := r.results[key]
	return res, ok
}

// Results returns a copy of the result mapping.
func (r *Run) Results() map[string]Result {
	out := make(map[string]Result, len(r.results))
	for k, v := range r.results {
		out[k] = v
	}
	return out
}

// Keys returns correlation keys in insertion order.
func (r *Run) Keys() []string {
	return r.keys
}

// Elapsed returns the duration of the instantiation and post-action phase.
func (r *Run) Elapsed() time.Duration {
	return r.elapsed
}
