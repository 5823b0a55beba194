package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/kinerja-go-api/internal/models"
)

func setupTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}

func templateEntities() []interface{} {
	return []interface{}{
		&models.EvaluationTemplate{},
		&models.EvaluationCategory{},
		&models.EvaluationItem{},
		&models.GradeBand{},
	}
}

func fiveBands() []models.GradeBand {
	return []models.GradeBand{
		{Letter: "A", MinScore: 90, MaxScore: 100},
		{Letter: "B", MinScore: 75, MaxScore: 89},
		{Letter: "C", MinScore: 60, MaxScore: 74},
		{Letter: "D", MinScore: 50, MaxScore: 59},
		{Letter: "E", MinScore: 0, MaxScore: 49},
	}
}

func TestTemplateRepositoryCreateAndGet(t *testing.T) {
	db := setupTestDB(t, templateEntities()...)
	repo := NewTemplateRepository(db)

	template := models.EvaluationTemplate{
		Name:     "Create Roundtrip",
		MaxScore: 100,
		IsActive: true,
		Categories: []models.EvaluationCategory{
			{
				Name:     "Quality",
				Weight:   60,
				Position: 0,
				Items: []models.EvaluationItem{
					{Prompt: "Work quality", MaxScore: 100, Weight: 1, Position: 0, GradeBands: fiveBands()},
				},
			},
		},
	}

	require.NoError(t, repo.Create(context.Background(), &template))
	require.NotZero(t, template.ID)

	stored, err := repo.GetByID(context.Background(), template.ID)
	require.NoError(t, err)
	require.Equal(t, "Create Roundtrip", stored.Name)
	require.Len(t, stored.Categories, 1)
	require.Len(t, stored.Categories[0].Items, 1)
	require.Len(t, stored.Categories[0].Items[0].GradeBands, 5)
}

func TestTemplateRepositoryGetOrdersByPosition(t *testing.T) {
	db := setupTestDB(t, templateEntities()...)
	repo := NewTemplateRepository(db)

	// Inserted out of declared order on purpose.
	template := models.EvaluationTemplate{
		Name:     "Ordering",
		MaxScore: 100,
		IsActive: true,
		Categories: []models.EvaluationCategory{
			{Name: "Second", Weight: 40, Position: 1, Items: []models.EvaluationItem{
				{Prompt: "Later item", MaxScore: 100, Weight: 1, Position: 0, GradeBands: fiveBands()},
			}},
			{Name: "First", Weight: 60, Position: 0, Items: []models.EvaluationItem{
				{Prompt: "B item", MaxScore: 100, Weight: 1, Position: 1, GradeBands: fiveBands()},
				{Prompt: "A item", MaxScore: 100, Weight: 1, Position: 0, GradeBands: fiveBands()},
			}},
		},
	}
	require.NoError(t, repo.Create(context.Background(), &template))

	stored, err := repo.GetByID(context.Background(), template.ID)
	require.NoError(t, err)
	require.Equal(t, "First", stored.Categories[0].Name)
	require.Equal(t, "Second", stored.Categories[1].Name)
	require.Equal(t, "A item", stored.Categories[0].Items[0].Prompt)
	require.Equal(t, "B item", stored.Categories[0].Items[1].Prompt)
}

func TestTemplateRepositoryListActiveFilter(t *testing.T) {
	db := setupTestDB(t, templateEntities()...)
	repo := NewTemplateRepository(db)

	active := models.EvaluationTemplate{Name: "Filter Active", MaxScore: 100, IsActive: true}
	retired := models.EvaluationTemplate{Name: "Filter Retired", MaxScore: 100, IsActive: false}
	require.NoError(t, repo.Create(context.Background(), &active))
	require.NoError(t, repo.Create(context.Background(), &retired))

	isActive := true
	templates, err := repo.List(context.Background(), TemplateFilter{IsActive: &isActive})
	require.NoError(t, err)

	names := make(map[string]bool, len(templates))
	for _, template := range templates {
		require.True(t, template.IsActive)
		names[template.Name] = true
	}
	require.True(t, names["Filter Active"])
	require.False(t, names["Filter Retired"])
}

func TestTemplateRepositoryGetMissing(t *testing.T) {
	db := setupTestDB(t, templateEntities()...)
	repo := NewTemplateRepository(db)

	_, err := repo.GetByID(context.Background(), 999999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
