package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jwalitptl/studio-automations/internal/model"
)

func (r *settingsRepository) ListSettings(ctx context.Context) ([]*model.Setting, error) {
	query := `SELECT key, COALESCE(value, '') AS value FROM app_settings ORDER BY key`

	var settings []*model.Setting
	if err := r.GetDB().SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

func (r *settingsRepository) GetLatestContractSettings(ctx context.Context) (*model.ContractSettings, error) {
	query := `
		SELECT COALESCE(business_name, '') AS business_name,
			COALESCE(owner_name, '') AS owner_name,
			COALESCE(email, '') AS email,
			COALESCE(address, '') AS address,
			COALESCE(logo_url, '') AS logo_url,
			updated_at
		FROM contract_settings
		ORDER BY updated_at DESC
		LIMIT 1`

	var settings model.ContractSettings
	err := r.GetDB().GetContext(ctx, &settings, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract settings: %w", err)
	}
	return &settings, nil
}
