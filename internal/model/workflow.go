package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type TriggerType string

const TriggerTypeSchedule TriggerType = "schedule"

type ScheduleType string

const (
	ScheduleBeforeProjectDate ScheduleType = "before_project_date"
	ScheduleAfterProjectDate  ScheduleType = "after_project_date"
)

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Workflow is a configured automation joined with its message template.
type Workflow struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	TriggerType    TriggerType    `db:"trigger_type" json:"trigger_type" validate:"required,eq=schedule"`
	ScheduleType   ScheduleType   `db:"schedule_type" json:"schedule_type" validate:"required,oneof=before_project_date after_project_date"`
	ScheduleOffset int            `db:"schedule_offset" json:"schedule_offset" validate:"gte=0"`
	Channels       pq.StringArray `db:"channels" json:"channels"`
	IsActive       bool           `db:"is_active" json:"is_active"`
	TemplateID     *uuid.UUID     `db:"template_id" json:"template_id,omitempty"`
	Blocks         Blocks         `db:"blocks" json:"blocks"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

func (w *Workflow) HasChannel(c Channel) bool {
	for _, ch := range w.Channels {
		if Channel(ch) == c {
			return true
		}
	}
	return false
}

// Offset returns the schedule offset as a duration.
func (w *Workflow) Offset() time.Duration {
	return time.Duration(w.ScheduleOffset) * time.Minute
}
