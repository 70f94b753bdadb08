// Package replay plays scripted gesture timelines against the move-mode
// engine on a virtual clock and reports what the shell saw.
package replay

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/termboard/internal/config"
	"github.com/1broseidon/termboard/internal/geom"
	"github.com/1broseidon/termboard/internal/movemode"
)

// Script is a replay file.
//
//	width: 400
//	height: 600
//	profile: springboard
//	apps: [A, B, C, D, E]
//	events:
//	  - {at: 0s, kind: grant, x: 55, y: 65}
//	  - {at: 400ms, kind: move, dx: 200}
//	  - {at: 500ms, kind: release}
//	expect:
//	  order: [B, C, A, D, E]
//	  editing: true
type Script struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Profile string  `yaml:"profile,omitempty"`
	// Apps lists app ids; empty means the configured apps.
	Apps []string `yaml:"apps,omitempty"`
	// Editing starts the shell in edit mode.
	Editing bool    `yaml:"editing,omitempty"`
	Events  []Event `yaml:"events"`
	Expect  *Expect `yaml:"expect,omitempty"`
}

// Event is one gesture at a time offset from the start of the replay. X and
// Y are used by grants, DX and DY by moves.
type Event struct {
	At   config.Duration `yaml:"at"`
	Kind string          `yaml:"kind"`
	X    float64         `yaml:"x,omitempty"`
	Y    float64         `yaml:"y,omitempty"`
	DX   float64         `yaml:"dx,omitempty"`
	DY   float64         `yaml:"dy,omitempty"`
}

// Expect is checked against the report after the replay.
type Expect struct {
	Order   []string `yaml:"order,omitempty"`
	Editing *bool    `yaml:"editing,omitempty"`
	Phase   string   `yaml:"phase,omitempty"`
}

// Gesture converts e to an engine event.
func (e Event) Gesture() (movemode.GestureEvent, error) {
	kind, ok := movemode.ParseEventKind(e.Kind)
	if !ok {
		return movemode.GestureEvent{}, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return movemode.GestureEvent{
		Kind:     kind,
		Position: geom.Point{X: e.X, Y: e.Y},
		Delta:    geom.Point{X: e.DX, Y: e.DY},
	}, nil
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script strictly and validates it.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the container size and the event timeline.
func (s *Script) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("width and height must be > 0")
	}
	seen := make(map[string]struct{}, len(s.Apps))
	for i, id := range s.Apps {
		if id == "" {
			return fmt.Errorf("apps.%d: id is required", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("apps.%d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}
	}
	for i, ev := range s.Events {
		if _, err := ev.Gesture(); err != nil {
			return fmt.Errorf("events.%d: %w", i, err)
		}
		if i > 0 && ev.At.Duration < s.Events[i-1].At.Duration {
			return fmt.Errorf("events.%d: at %s is before the previous event", i, ev.At)
		}
	}
	return nil
}
