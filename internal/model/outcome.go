package model

import (
	"time"
)

// Outcome is what happened to one combination during a sweep. It feeds the
// run journal and the history store.
type Outcome struct {
	RunID     string            `json:"run_id"`
	Name      string            `json:"name"`
	Backend   string            `json:"backend"`
	State     string            `json:"state"` // final state: done or failed
	Params    map[string]string `json:"params"`
	Result    map[string]string `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Duration  time.Duration     `json:"duration"`
}

// Failed reports whether the combination did not reach the done state.
func (o Outcome) Failed() bool {
	return o.Error != ""
}

// ParamMap returns c as an unordered map, for JSON encoding.
func ParamMap(c Combination) map[string]string {
	out := make(map[string]string, len(c))
	for _, p := range c {
		out[p.Name] = p.Value
	}
	return out
}

// Summary tallies a finished sweep.
type Summary struct {
	RunID    string
	Backend  string
	Total    int
	Passed   int
	Failures []Outcome
}

// Add tallies one outcome.
func (s *Summary) Add(o Outcome) {
	s.Total++
	if o.Failed() {
		s.Failures = append(s.Failures, o)
		return
	}
	s.Passed++
}

// OK reports whether every combination reached the done state.
func (s Summary) OK() bool {
	return len(s.Failures) == 0
}
