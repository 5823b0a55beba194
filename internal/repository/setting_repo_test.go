package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kinerja-go-api/internal/models"
)

func TestSettingRepositoryUpsert(t *testing.T) {
	db := setupTestDB(t, &models.AppSetting{})
	repo := NewSettingRepository(db)

	first := models.AppSetting{Key: "evaluation.period", Value: "2025-H1", UpdatedBy: 1}
	require.NoError(t, repo.Upsert(context.Background(), &first))

	second := models.AppSetting{Key: "evaluation.period", Value: "2025-H2", UpdatedBy: 2}
	require.NoError(t, repo.Upsert(context.Background(), &second))

	stored, err := repo.Get(context.Background(), "evaluation.period")
	require.NoError(t, err)
	require.Equal(t, "2025-H2", stored.Value)
	require.Equal(t, uint(2), stored.UpdatedBy)

	var count int64
	require.NoError(t, db.Model(&models.AppSetting{}).Where("key = ?", "evaluation.period").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestActivityLogRepositoryListRecent(t *testing.T) {
	db := setupTestDB(t, &models.ActivityLog{})
	repo := NewActivityLogRepository(db)

	entityID := uint(7)
	for i := 0; i < 3; i++ {
		entry := models.ActivityLog{
			ActorID:    1,
			ActorRole:  models.RoleAdminHR,
			Action:     "evaluation.finalized",
			EntityType: "evaluation",
			EntityID:   &entityID,
			Metadata:   map[string]interface{}{"period": "2025-H1"},
		}
		require.NoError(t, repo.Create(context.Background(), &entry))
	}

	entries, err := repo.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	all, err := repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 3)
	require.Equal(t, "evaluation.finalized", all[0].Action)
}
