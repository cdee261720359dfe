package user

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	repoimpl "github.com/mindnest/wellness/internal/adapter/repository"
	"github.com/mindnest/wellness/internal/adapter/storage"
	"github.com/mindnest/wellness/internal/adapter/store"
	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/infrastructure/config"
	apperrors "github.com/mindnest/wellness/pkg/errors"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

type fixture struct {
	uc    UseCase
	db    *gorm.DB
	files *storage.LocalFileStorage
	user  *entity.User
}

func newFixture(t *testing.T) *fixture {
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
	require.NoError(t, db.AutoMigrate(repoimpl.Models()...))

	users := repoimpl.NewUserRepository(db)
	files := storage.NewLocalFileStorage(t.TempDir())
	uc := NewUseCase(users, repoimpl.NewMoodEntryRepository(store.NewGormStore(db)), files,
		&config.StorageConfig{PublicURL: "/static/", MaxAvatarSize: 64})

	user := &entity.User{Username: "jo", Email: "jo@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), user))

	return &fixture{uc: uc, db: db, files: files, user: user}
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, err := f.uc.GetProfile(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), profile.TotalEntries)
	assert.Nil(t, profile.LastEntryAt)
	assert.Equal(t, "jo", profile.User.Username)

	created := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, f.db.Create(&entity.MoodEntryRecord{
		MoodEntry: entity.MoodEntry{UserID: f.user.ID.String(), MoodScore: 7, MoodLabel: "okay",
			EnergyLevel: 5, StressLevel: 5, AnxietyLevel: 5, Tags: []string{}},
		CreatedAt: created,
	}).Error)

	profile, err = f.uc.GetProfile(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.TotalEntries)
	require.NotNil(t, profile.LastEntryAt)
	assert.True(t, created.Equal(*profile.LastEntryAt))

	_, err = f.uc.GetProfile(ctx, uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateDisplayName(t *testing.T) {
	f := newFixture(t)
	name := "  Jo  "

	resp, err := f.uc.Update(context.Background(), f.user.ID, &UpdateInput{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jo", resp.DisplayName)

	got, err := f.uc.GetByID(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jo", got.DisplayName)
}

func TestUploadAvatar_ReplacesPreviousFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := append(append([]byte{}, pngHeader...), 1)
	resp, err := f.uc.UploadAvatar(ctx, f.user.ID, first)
	require.NoError(t, err)
	assert.Contains(t, resp.AvatarURL, "/static/avatars/"+f.user.ID.String()+"/")
	assert.Contains(t, resp.AvatarURL, ".png")

	stored, err := repoimpl.NewUserRepository(f.db).GetByID(ctx, f.user.ID)
	require.NoError(t, err)
	firstPath := stored.AvatarPath
	exists, err := f.files.Exists(ctx, firstPath)
	require.NoError(t, err)
	assert.True(t, exists)

	second := append(append([]byte{}, pngHeader...), 2)
	_, err = f.uc.UploadAvatar(ctx, f.user.ID, second)
	require.NoError(t, err)

	exists, err = f.files.Exists(ctx, firstPath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUploadAvatar_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.UploadAvatar(ctx, f.user.ID, nil)
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = f.uc.UploadAvatar(ctx, f.user.ID, []byte("GIF89a not allowed"))
	assert.True(t, apperrors.IsInvalidInput(err))

	tooBig := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)
	_, err = f.uc.UploadAvatar(ctx, f.user.ID, tooBig)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestDeleteAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.UploadAvatar(ctx, f.user.ID, []byte("\xFF\xD8\xFF\xE0jpeg"))
	require.NoError(t, err)
	stored, err := repoimpl.NewUserRepository(f.db).GetByID(ctx, f.user.ID)
	require.NoError(t, err)

	resp, err := f.uc.DeleteAvatar(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.AvatarURL)

	exists, err := f.files.Exists(ctx, stored.AvatarPath)
	require.NoError(t, err)
	assert.False(t, exists)

	// no avatar left is a no-op
	_, err = f.uc.DeleteAvatar(ctx, f.user.ID)
	assert.NoError(t, err)
}
