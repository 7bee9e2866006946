// Package generation runs the simulated resume generation jobs: a minimum
// duration wait with progress steps racing the sample render.
package generation

import (
	"math"
	"time"
)

// Steps are the progress labels a generation job walks through.
var Steps = []string{"Loading example data", "Applying GovStar style", "Rendering preview"}

// PlanConfig controls job timing.
type PlanConfig struct {
	MinDuration time.Duration
	Jitter      time.Duration
	StepJitter  time.Duration
}

// DefaultPlanConfig returns 9s ± 600ms with steps ± 300ms.
func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		MinDuration: 9000 * time.Millisecond,
		Jitter:      600 * time.Millisecond,
		StepJitter:  300 * time.Millisecond,
	}
}

// Plan is the timing of one job.
type Plan struct {
	Total time.Duration
	// StepAt holds the offsets at which Steps[1] and Steps[2] become active.
	StepAt []time.Duration
}

// NewPlan draws a plan from cfg. rnd returns values in [0, 1).
func NewPlan(cfg PlanConfig, rnd func() float64) Plan {
	total := Jitter(cfg.MinDuration, cfg.Jitter, rnd())
	return Plan{
		Total: total,
		StepAt: []time.Duration{
			Jitter(total*50/100, cfg.StepJitter, rnd()),
			Jitter(total*85/100, cfg.StepJitter, rnd()),
		},
	}
}

// Jitter returns max(0, base + round((r*2-1)*spread)) at millisecond
// resolution.
func Jitter(base, spread time.Duration, r float64) time.Duration {
	ms := float64(base.Milliseconds()) + math.Round((r*2-1)*float64(spread.Milliseconds()))
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}
