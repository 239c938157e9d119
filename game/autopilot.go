package game

import (
	"fmt"

	"github.com/framefighter/inspection-idle/config"
	"github.com/framefighter/inspection-idle/systems"
)

type autopilotStep struct {
	ticks int
	held  systems.Action
}

// Autopilot replays a looping script of held actions, one entry per tick.
type Autopilot struct {
	steps []autopilotStep
	idx   int
	left  int
	total int
}

// NewAutopilot parses the configured script. An empty script holds nothing.
func NewAutopilot(script []config.AutopilotStep) (*Autopilot, error) {
	a := &Autopilot{}
	for i, s := range script {
		if s.Ticks <= 0 {
			continue
		}
		var held systems.Action
		for _, name := range s.Actions {
			act, err := systems.ParseAction(name)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			held |= act
		}
		a.steps = append(a.steps, autopilotStep{ticks: s.Ticks, held: held})
		a.total += s.Ticks
	}
	if len(a.steps) > 0 {
		a.left = a.steps[0].ticks
	}
	return a, nil
}

// Next returns the actions held for the coming tick and advances the script.
func (a *Autopilot) Next() systems.Action {
	if len(a.steps) == 0 {
		return 0
	}
	held := a.steps[a.idx].held
	a.left--
	if a.left == 0 {
		a.idx = (a.idx + 1) % len(a.steps)
		a.left = a.steps[a.idx].ticks
	}
	return held
}

// Length returns the number of ticks in one pass of the script.
func (a *Autopilot) Length() int {
	return a.total
}
