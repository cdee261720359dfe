package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	repoimpl "github.com/mindnest/wellness/internal/adapter/repository"
	apperrors "github.com/mindnest/wellness/pkg/errors"
	"github.com/mindnest/wellness/pkg/jwt"
)

func newTestUseCase(t *testing.T) (UseCase, *jwt.JWTManager) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(repoimpl.Models()...))

	manager := jwt.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour, "mindnest-test")
	uc := NewUseCase(repoimpl.NewUserRepository(db), repoimpl.NewRefreshTokenRepository(db), manager)
	return uc, manager
}

func register(t *testing.T, uc UseCase) *AuthOutput {
	t.Helper()
	out, err := uc.Register(context.Background(), &RegisterInput{
		Username:    "river",
		Email:       "River@Example.com ",
		Password:    "correct-horse",
		DisplayName: " River ",
	})
	require.NoError(t, err)
	return out
}

func TestRegister(t *testing.T) {
	uc, manager := newTestUseCase(t)
	out := register(t, uc)

	assert.Equal(t, "river@example.com", out.User.Email)
	assert.Equal(t, "River", out.User.DisplayName)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, int64(900), out.ExpiresIn)

	claims, err := manager.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	userID, ok := claims.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, out.User.ID.String(), userID)
}

func TestRegister_Duplicates(t *testing.T) {
	uc, _ := newTestUseCase(t)
	register(t, uc)

	_, err := uc.Register(context.Background(), &RegisterInput{
		Username: "other", Email: "river@example.com", Password: "password123", DisplayName: "Other",
	})
	assert.True(t, apperrors.IsAlreadyExists(err))

	_, err = uc.Register(context.Background(), &RegisterInput{
		Username: "river", Email: "new@example.com", Password: "password123", DisplayName: "River Two",
	})
	assert.True(t, apperrors.IsAlreadyExists(err))
}

func TestRegister_RequiresFullName(t *testing.T) {
	uc, _ := newTestUseCase(t)

	for _, name := range []string{"", "   "} {
		_, err := uc.Register(context.Background(), &RegisterInput{
			Username: "river", Email: "river@example.com", Password: "password123", DisplayName: name,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidInput(err))
		assert.Equal(t, FullNameRequired, apperrors.GetAppError(err).Message)
	}
}

func TestLogin(t *testing.T) {
	uc, _ := newTestUseCase(t)
	register(t, uc)
	ctx := context.Background()

	out, err := uc.Login(ctx, &LoginInput{Login: "river@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "river", out.User.Username)

	_, err = uc.Login(ctx, &LoginInput{Login: "river@example.com", Password: "wrong-password"})
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = uc.Login(ctx, &LoginInput{Login: "ghost@example.com", Password: "correct-horse"})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestLogin_ByUsername(t *testing.T) {
	uc, _ := newTestUseCase(t)
	register(t, uc)
	ctx := context.Background()

	out, err := uc.Login(ctx, &LoginInput{Login: " river ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "river@example.com", out.User.Email)

	_, err = uc.Login(ctx, &LoginInput{Login: "ghost", Password: "correct-horse"})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestPurgeExpiredTokens(t *testing.T) {
	uc, _ := newTestUseCase(t)
	register(t, uc)

	n, err := uc.PurgeExpiredTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestRefreshToken_IsSingleUse(t *testing.T) {
	uc, _ := newTestUseCase(t)
	out := register(t, uc)
	ctx := context.Background()

	next, err := uc.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, out.RefreshToken, next.RefreshToken)

	_, err = uc.RefreshToken(ctx, out.RefreshToken)
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = uc.RefreshToken(ctx, "not-a-token")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	uc, _ := newTestUseCase(t)
	out := register(t, uc)
	ctx := context.Background()

	require.NoError(t, uc.Logout(ctx, out.User.ID))

	_, err := uc.RefreshToken(ctx, out.RefreshToken)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestChangePassword(t *testing.T) {
	uc, _ := newTestUseCase(t)
	out := register(t, uc)
	ctx := context.Background()

	err := uc.ChangePassword(ctx, out.User.ID, "wrong-old", "new-password-1")
	assert.True(t, apperrors.IsUnauthorized(err))

	require.NoError(t, uc.ChangePassword(ctx, out.User.ID, "correct-horse", "new-password-1"))

	_, err = uc.Login(ctx, &LoginInput{Login: "river@example.com", Password: "new-password-1"})
	assert.NoError(t, err)

	_, err = uc.RefreshToken(ctx, out.RefreshToken)
	assert.True(t, apperrors.IsUnauthorized(err))
}
