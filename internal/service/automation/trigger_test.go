package automation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/studio-automations/internal/model"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEvaluator_BeforeProjectDate(t *testing.T) {
	e := NewEvaluator(0)
	w := &model.Workflow{ScheduleType: model.ScheduleBeforeProjectDate, ScheduleOffset: 60}
	start := at("2026-01-10T10:00:00Z")

	tests := []struct {
		name string
		now  string
		want bool
	}{
		{"inside window", "2026-01-10T09:05:00Z", true},
		{"at trigger instant", "2026-01-10T09:00:00Z", true},
		{"one second before start", "2026-01-10T09:59:59Z", true},
		{"at start", "2026-01-10T10:00:00Z", false},
		{"event started", "2026-01-10T10:00:01Z", false},
		{"too early", "2026-01-10T08:00:00Z", false},
		{"just before trigger", "2026-01-10T08:59:59Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ShouldFire(w, start, at(tt.now)))
		})
	}
}

func TestEvaluator_AfterProjectDate(t *testing.T) {
	e := NewEvaluator(0)
	w := &model.Workflow{ScheduleType: model.ScheduleAfterProjectDate, ScheduleOffset: 0}
	start := at("2026-01-10T10:00:00Z")

	tests := []struct {
		name string
		now  string
		want bool
	}{
		{"at trigger instant", "2026-01-10T10:00:00Z", true},
		{"within 24h", "2026-01-11T09:59:59Z", true},
		{"exactly 24h", "2026-01-11T10:00:00Z", false},
		{"exceeded 24h", "2026-01-11T10:00:01Z", false},
		{"before trigger", "2026-01-10T09:59:59Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ShouldFire(w, start, at(tt.now)))
		})
	}
}

func TestEvaluator_AfterProjectDateWithOffset(t *testing.T) {
	e := NewEvaluator(0)
	w := &model.Workflow{ScheduleType: model.ScheduleAfterProjectDate, ScheduleOffset: 3 * 24 * 60}
	start := at("2026-01-10T10:00:00Z")

	assert.Equal(t, at("2026-01-13T10:00:00Z"), e.TriggerInstant(w, start))
	assert.False(t, e.ShouldFire(w, start, at("2026-01-12T10:00:00Z")))
	assert.True(t, e.ShouldFire(w, start, at("2026-01-13T22:00:00Z")))
	assert.False(t, e.ShouldFire(w, start, at("2026-01-14T10:00:00Z")))
}

func TestEvaluator_ConfiguredAfterWindow(t *testing.T) {
	e := NewEvaluator(72 * time.Hour)
	w := &model.Workflow{ScheduleType: model.ScheduleAfterProjectDate}
	start := at("2026-01-10T10:00:00Z")

	assert.Equal(t, 72*time.Hour, e.AfterWindow())
	assert.True(t, e.ShouldFire(w, start, at("2026-01-12T10:00:00Z")))
	assert.False(t, e.ShouldFire(w, start, at("2026-01-13T10:00:00Z")))

	assert.Equal(t, DefaultAfterWindow, NewEvaluator(-time.Hour).AfterWindow())
}

func TestEvaluator_ZeroOffsetBeforeNeverFires(t *testing.T) {
	e := NewEvaluator(0)
	w := &model.Workflow{ScheduleType: model.ScheduleBeforeProjectDate}
	start := at("2026-01-10T10:00:00Z")

	for _, now := range []string{"2026-01-10T09:59:59Z", "2026-01-10T10:00:00Z", "2026-01-10T10:00:01Z"} {
		assert.False(t, e.ShouldFire(w, start, at(now)), now)
	}
}

func TestEvaluator_UnknownScheduleType(t *testing.T) {
	e := NewEvaluator(0)
	w := &model.Workflow{ScheduleType: "on_birthday"}
	assert.False(t, e.ShouldFire(w, at("2026-01-10T10:00:00Z"), at("2026-01-10T10:00:00Z")))
}
