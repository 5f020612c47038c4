package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/studio-automations/internal/model"
)

const listActiveScheduledWorkflows = `
	SELECT w.id, w.name, w.trigger_type, COALESCE(w.schedule_type, '') AS schedule_type,
		w.schedule_offset,
		w.channels, w.is_active, w.template_id,
		COALESCE(t.blocks, '[]'::jsonb) AS blocks,
		w.created_at, w.updated_at
	FROM workflows w
	LEFT JOIN message_templates t ON t.id = w.template_id
	WHERE w.is_active = true AND w.trigger_type = $1
	ORDER BY w.created_at`

func (r *workflowRepository) ListActiveScheduled(ctx context.Context) ([]*model.Workflow, error) {
	var workflows []*model.Workflow
	if err := r.GetDB().SelectContext(ctx, &workflows, listActiveScheduledWorkflows, model.TriggerTypeSchedule); err != nil {
		return nil, fmt.Errorf("failed to list active workflows: %w", err)
	}
	return workflows, nil
}
