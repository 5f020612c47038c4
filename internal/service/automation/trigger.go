package automation

import (
	"time"

	"github.com/jwalitptl/studio-automations/internal/model"
)

// DefaultAfterWindow is how long an after_project_date workflow stays open
// once its trigger instant has passed.
const DefaultAfterWindow = 24 * time.Hour

// Evaluator decides whether a workflow's time condition holds for a project.
// It keeps no state between calls.
type Evaluator struct {
	afterWindow time.Duration
}

func NewEvaluator(afterWindow time.Duration) *Evaluator {
	if afterWindow <= 0 {
		afterWindow = DefaultAfterWindow
	}
	return &Evaluator{afterWindow: afterWindow}
}

func (e *Evaluator) AfterWindow() time.Duration {
	return e.afterWindow
}

// TriggerInstant is start minus the offset for before_project_date
// workflows and start plus the offset otherwise.
func (e *Evaluator) TriggerInstant(w *model.Workflow, start time.Time) time.Time {
	if w.ScheduleType == model.ScheduleBeforeProjectDate {
		return start.Add(-w.Offset())
	}
	return start.Add(w.Offset())
}

// ShouldFire reports whether now falls inside the workflow's trigger window:
// [trigger, start) for before_project_date and [trigger, trigger+window)
// for after_project_date.
func (e *Evaluator) ShouldFire(w *model.Workflow, start, now time.Time) bool {
	trigger := e.TriggerInstant(w, start)
	if now.Before(trigger) {
		return false
	}

	switch w.ScheduleType {
	case model.ScheduleBeforeProjectDate:
		return now.Before(start)
	case model.ScheduleAfterProjectDate:
		return now.Sub(trigger) < e.afterWindow
	default:
		return false
	}
}
