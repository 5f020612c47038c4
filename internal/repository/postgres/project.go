package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/studio-automations/internal/model"
)

const listScheduledProjects = `
	SELECT p.id, p.title, p.start_date,
		COALESCE(p.notes, '') AS notes,
		p.price,
		COALESCE(p.location_name, '') AS location_name,
		COALESCE(l.name, '') AS linked_location_name,
		COALESCE(pt.name, '') AS project_type_name,
		COALESCE(p.client_name, '') AS client_name,
		COALESCE(p.client_email, '') AS client_email,
		COALESCE(p.client_phone, '') AS client_phone,
		p.client_id,
		COALESCE(c.name, '') AS linked_client_name,
		COALESCE(c.email, '') AS linked_client_email,
		COALESCE(c.phone, '') AS linked_client_phone
	FROM projects p
	LEFT JOIN clients c ON c.id = p.client_id
	LEFT JOIN locations l ON l.id = p.location_id
	LEFT JOIN project_types pt ON pt.id = p.project_type_id
	WHERE p.start_date IS NOT NULL
	ORDER BY p.start_date`

func (r *projectRepository) ListScheduled(ctx context.Context) ([]*model.Project, error) {
	var projects []*model.Project
	if err := r.GetDB().SelectContext(ctx, &projects, listScheduledProjects); err != nil {
		return nil, fmt.Errorf("failed to list scheduled projects: %w", err)
	}
	return projects, nil
}
