package game

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrEmptyScript is returned when a script has no steps.
var ErrEmptyScript = errors.New("script has no steps")

// ScriptStep is a single action in an input script.
type ScriptStep struct {
	Action string `json:"action"          yaml:"action"`
	Path   []int  `json:"path,omitempty"  yaml:"path,omitempty"`
	Ticks  int    `json:"ticks,omitempty" yaml:"ticks,omitempty"`
}

// script is the top-level JSON structure of an input script.
type script struct {
	Seed  uint64       `json:"seed,omitempty" yaml:"seed,omitempty"`
	Steps []ScriptStep `json:"steps"          yaml:"steps"`
}

// Runner sequences scripted player input across physics ticks, one step per
// call, so a whole game can be replayed headless.
type Runner struct {
	seed      uint64
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON input script.
func LoadScript(data []byte) (*Runner, error) {
	var sc script
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return newRunner(sc)
}

// LoadScriptYAML parses an input script written in YAML.
func LoadScriptYAML(data []byte) (*Runner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return newRunner(sc)
}

func newRunner(sc script) (*Runner, error) {
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrEmptyScript)
	}
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
	}
	return &Runner{seed: sc.Seed, steps: sc.Steps}, nil
}

func (st ScriptStep) validate() error {
	switch st.Action {
	case "split", "merge", "flip":
		for _, i := range st.Path {
			if i < 0 || i > 3 {
				return fmt.Errorf("path index %d out of range", i)
			}
		}
	case "wait":
		if st.Ticks < 0 {
			return fmt.Errorf("negative wait %d", st.Ticks)
		}
	case "pause", "resume", "restart", "solve":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Seed returns the seed named by the script, or zero.
func (r *Runner) Seed() uint64 {
	return r.seed
}

// Done reports whether every step has been executed.
func (r *Runner) Done() bool {
	return r.done
}

// Step advances the runner by one tick against s. Call it once per frame
// before the session ticks.
func (r *Runner) Step(s *Session) {
	if r.done {
		return
	}
	// Wait for queued requests to drain before advancing.
	if s.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "split", "merge", "flip":
		a, _ := ParseAction(st.Action)
		s.Inject(Request{Action: a, Path: clonePath(st.Path)})
	case "wait":
		if st.Ticks > 0 {
			r.waitCount = st.Ticks - 1 // this tick counts as one
		}
	case "pause":
		s.Pause()
	case "resume":
		s.Resume()
	case "restart":
		s.Restart()
	case "solve":
		s.Solve()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && s.Pending() == 0 {
		r.done = true
	}
}
