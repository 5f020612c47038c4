package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepository_ListSettings(t *testing.T) {
	base, mock := newMockBase(t)
	repo := &settingsRepository{base}

	mock.ExpectQuery("FROM app_settings").WillReturnRows(
		sqlmock.NewRows([]string{"key", "value"}).
			AddRow("business_name", "Luz Studio").
			AddRow("business_email", "hello@luz.studio"),
	)

	settings, err := repo.ListSettings(context.Background())
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "business_name", settings[0].Key)
	assert.Equal(t, "Luz Studio", settings[0].Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepository_GetLatestContractSettings(t *testing.T) {
	base, mock := newMockBase(t)
	repo := &settingsRepository{base}

	updated := time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM contract_settings").WillReturnRows(
		sqlmock.NewRows([]string{"business_name", "owner_name", "email", "address", "logo_url", "updated_at"}).
			AddRow("Luz Fotografia", "Ana Souza", "", "Rua das Flores, 10", "", updated),
	)

	settings, err := repo.GetLatestContractSettings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, "Luz Fotografia", settings.BusinessName)
	assert.Equal(t, "Rua das Flores, 10", settings.Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepository_GetLatestContractSettings_NoRow(t *testing.T) {
	base, mock := newMockBase(t)
	repo := &settingsRepository{base}

	mock.ExpectQuery("FROM contract_settings").WillReturnError(sql.ErrNoRows)

	settings, err := repo.GetLatestContractSettings(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, settings)
	assert.NoError(t, mock.ExpectationsWereMet())
}
