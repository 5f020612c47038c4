package automation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/studio-automations/internal/model"
	"github.com/jwalitptl/studio-automations/internal/repository"
)

// settingKeys maps business settings fields onto app_settings keys. The first
// key is canonical; the rest are older spellings used only when it is empty.
var settingKeys = []struct {
	field func(*model.BusinessSettings) *string
	keys  []string
}{
	{func(s *model.BusinessSettings) *string { return &s.BusinessName }, []string{"business_name", "company_name"}},
	{func(s *model.BusinessSettings) *string { return &s.OwnerName }, []string{"business_owner", "owner_name"}},
	{func(s *model.BusinessSettings) *string { return &s.Email }, []string{"business_email", "email"}},
	{func(s *model.BusinessSettings) *string { return &s.Address }, []string{"business_address", "address"}},
	{func(s *model.BusinessSettings) *string { return &s.LogoURL }, []string{"business_logo", "logo_url"}},
}

// LoadBusinessSettings merges generic key/value settings with the latest
// contract settings row. Non-empty contract fields win.
func LoadBusinessSettings(ctx context.Context, repo repository.SettingsRepository) (model.BusinessSettings, error) {
	var merged model.BusinessSettings

	settings, err := repo.ListSettings(ctx)
	if err != nil {
		return merged, fmt.Errorf("failed to load settings: %w", err)
	}
	values := make(map[string]string, len(settings))
	for _, s := range settings {
		if value := strings.TrimSpace(s.Value); value != "" {
			values[strings.ToLower(strings.TrimSpace(s.Key))] = value
		}
	}
	for _, sk := range settingKeys {
		for _, key := range sk.keys {
			if value, ok := values[key]; ok {
				*sk.field(&merged) = value
				break
			}
		}
	}

	contract, err := repo.GetLatestContractSettings(ctx)
	if err != nil {
		return merged, fmt.Errorf("failed to load contract settings: %w", err)
	}
	if contract != nil {
		override(&merged.BusinessName, contract.BusinessName)
		override(&merged.OwnerName, contract.OwnerName)
		override(&merged.Email, contract.Email)
		override(&merged.Address, contract.Address)
		override(&merged.LogoURL, contract.LogoURL)
	}
	return merged, nil
}

func override(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}
