package resource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mindnest/wellness/internal/adapter/store"
	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/domain/repository"
	apperrors "github.com/mindnest/wellness/pkg/errors"
)

func setupUseCase(t *testing.T) (UseCase, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&entity.Resource{}, &entity.ResourceInteractionRecord{}))

	uc, err := NewUseCase(store.NewGormStore(db))
	require.NoError(t, err)
	return uc, db
}

// erroringStore fails every call
type erroringStore struct{}

func (erroringStore) Insert(context.Context, string, any) error { return errors.New("store down") }

func (erroringStore) Select(context.Context, string, *repository.Query, any) error {
	return errors.New("store down")
}

func (erroringStore) Count(context.Context, string, *repository.Query) (int64, error) {
	return 0, errors.New("store down")
}

func TestSeed_OnlyIntoEmptyTable(t *testing.T) {
	uc, db := setupUseCase(t)
	ctx := context.Background()

	n, err := uc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	n, err = uc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	var count int64
	require.NoError(t, db.Model(&entity.Resource{}).Count(&count).Error)
	assert.Equal(t, int64(11), count)
}

func TestList_ReadsStoreCrisisFirst(t *testing.T) {
	uc, db := setupUseCase(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&entity.Resource{ID: "body-scan", Title: "Body scan", Category: entity.ResourceCategoryMindfulness}).Error)
	require.NoError(t, db.Create(&entity.Resource{
		ID:               "crisis-988",
		Title:            "988 Suicide & Crisis Lifeline",
		Category:         entity.ResourceCategoryCrisis,
		ContentURL:       "https://988lifeline.org",
		IsCrisisResource: true,
	}).Error)
	require.NoError(t, db.Create(&entity.Resource{ID: "box-breathing", Title: "Box breathing", Category: entity.ResourceCategoryBreathing}).Error)

	all, err := uc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "crisis-988", all[0].ID)
	assert.True(t, all[0].IsCrisisResource)
	assert.Equal(t, "https://988lifeline.org", all[0].ContentURL)

	breathing, err := uc.List(ctx, "breathing")
	require.NoError(t, err)
	require.Len(t, breathing, 1)
	assert.Equal(t, "box-breathing", breathing[0].ID)

	sleep, err := uc.List(ctx, "sleep")
	require.NoError(t, err)
	assert.NotNil(t, sleep)
	assert.Empty(t, sleep)
}

func TestBuiltInCatalog(t *testing.T) {
	uc, _ := setupUseCase(t)
	ctx := context.Background()
	_, err := uc.Seed(ctx)
	require.NoError(t, err)

	crisis, err := uc.List(ctx, "crisis")
	require.NoError(t, err)
	require.NotEmpty(t, crisis)
	for _, r := range crisis {
		assert.Equal(t, entity.ResourceCategoryCrisis, r.Category)
		assert.True(t, r.IsCrisisResource, r.ID)
	}

	// every category has something to show
	for _, c := range uc.Categories() {
		list, err := uc.List(ctx, string(c))
		require.NoError(t, err)
		assert.NotEmpty(t, list, c)
	}
}

func TestList_UnknownCategory(t *testing.T) {
	uc, _ := setupUseCase(t)

	_, err := uc.List(context.Background(), "astrology")
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestList_StoreError(t *testing.T) {
	uc, err := NewUseCase(erroringStore{})
	require.NoError(t, err)

	_, err = uc.List(context.Background(), "")
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestRecordView(t *testing.T) {
	uc, db := setupUseCase(t)
	ctx := context.Background()
	_, err := uc.Seed(ctx)
	require.NoError(t, err)

	require.NoError(t, uc.RecordView(ctx, "user-1", "crisis-text-line"))
	require.NoError(t, uc.RecordView(ctx, "user-1", "crisis-text-line"))

	var rows []entity.ResourceInteractionRecord
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, entity.ResourceInteraction{
		UserID:          "user-1",
		ResourceID:      "crisis-text-line",
		InteractionType: entity.InteractionViewed,
	}, rows[0].ResourceInteraction)
	assert.False(t, rows[0].CreatedAt.IsZero())

	err = uc.RecordView(ctx, "user-1", "missing")
	assert.True(t, apperrors.IsNotFound(err))

	err = uc.RecordView(ctx, "user-1", "  ")
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestRecordView_StoreError(t *testing.T) {
	uc, err := NewUseCase(erroringStore{})
	require.NoError(t, err)

	err = uc.RecordView(context.Background(), "user-1", "crisis-988")
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestNewUseCaseFromYAML_Validation(t *testing.T) {
	_, err := NewUseCaseFromYAML(erroringStore{}, []byte("resources:\n  - id: a\n    category: nope\n"))
	assert.Error(t, err)

	_, err = NewUseCaseFromYAML(erroringStore{}, []byte("resources:\n  - id: a\n    category: sleep\n  - id: a\n    category: sleep\n"))
	assert.Error(t, err)

	uc, err := NewUseCaseFromYAML(erroringStore{}, []byte("resources:\n  - id: a\n    title: Nap\n    category: sleep\n"))
	require.NoError(t, err)
	assert.NotNil(t, uc)
}
