package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/domain/repository"
	apperrors "github.com/mindnest/wellness/pkg/errors"
	"github.com/mindnest/wellness/pkg/jwt"
)

// UseCase defines the auth use case interface
type UseCase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthOutput, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// FullNameRequired is the sign-up error for a missing or blank display name
const FullNameRequired = "Please enter your full name"

// RegisterInput represents registration input data. DisplayName is the
// user's full name and must not be blank.
type RegisterInput struct {
	Username    string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"required,max=100"`
}

// LoginInput represents login input data. Login is an email or a username.
type LoginInput struct {
	Login    string `json:"login" binding:"required,max=254"`
	Password string `json:"password" binding:"required"`
}

// AuthOutput represents authentication output
type AuthOutput struct {
	User         *entity.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int64                `json:"expires_in"`
}

type authUseCase struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtManager       *jwt.JWTManager
}

// NewUseCase creates a new auth use case
func NewUseCase(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtManager *jwt.JWTManager,
) UseCase {
	return &authUseCase{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtManager:       jwtManager,
	}
}

// issueTokens generates a token pair and stores the hashed refresh token
func (u *authUseCase) issueTokens(ctx context.Context, user *entity.User) (*AuthOutput, error) {
	tokenPair, err := u.jwtManager.GenerateTokenPair(user.ID.String(), user.Username, user.Email)
	if err != nil {
		return nil, apperrors.InternalError("failed to generate tokens", err)
	}

	refreshTokenEntity := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: jwt.HashRefreshToken(tokenPair.RefreshToken),
		ExpiresAt: time.Now().UTC().Add(u.jwtManager.GetRefreshTokenExpiry()),
	}

	if err := u.refreshTokenRepo.Create(ctx, refreshTokenEntity); err != nil {
		return nil, apperrors.InternalError("failed to store refresh token", err)
	}

	return &AuthOutput{
		User:         user.ToResponse(),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (u *authUseCase) Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return nil, apperrors.ValidationError(FullNameRequired)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Check if email already exists
	exists, err := u.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.InternalError("failed to check email", err)
	}
	if exists {
		return nil, apperrors.AlreadyExistsError("email")
	}

	// Check if username already exists
	exists, err = u.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, apperrors.InternalError("failed to check username", err)
	}
	if exists {
		return nil, apperrors.AlreadyExistsError("username")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.InternalError("failed to hash password", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        email,
		PasswordHash: string(passwordHash),
		DisplayName:  displayName,
		Status:       entity.UserStatusActive,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.InternalError("failed to create user", err)
	}

	return u.issueTokens(ctx, user)
}

func (u *authUseCase) findLoginUser(ctx context.Context, login string) (*entity.User, error) {
	login = strings.TrimSpace(login)
	if strings.Contains(login, "@") {
		return u.userRepo.GetByEmail(ctx, strings.ToLower(login))
	}
	return u.userRepo.GetByUsername(ctx, login)
}

func (u *authUseCase) Login(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	user, err := u.findLoginUser(ctx, input.Login)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.UnauthorizedError("invalid credentials")
		}
		return nil, apperrors.InternalError("failed to get user", err)
	}

	if !user.IsActive() {
		return nil, apperrors.UnauthorizedError("user account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.UnauthorizedError("invalid credentials")
	}

	return u.issueTokens(ctx, user)
}

func (u *authUseCase) RefreshToken(ctx context.Context, refreshToken string) (*AuthOutput, error) {
	tokenHash := jwt.HashRefreshToken(refreshToken)
	storedToken, err := u.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.UnauthorizedError("invalid refresh token")
		}
		return nil, apperrors.InternalError("failed to get refresh token", err)
	}

	if storedToken.IsExpired() || storedToken.IsRevoked() {
		return nil, apperrors.UnauthorizedError("refresh token expired or revoked")
	}

	user, err := u.userRepo.GetByID(ctx, storedToken.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.UnauthorizedError("invalid refresh token")
		}
		return nil, apperrors.InternalError("failed to get user", err)
	}

	// Refresh tokens are single use
	if err := u.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, apperrors.InternalError("failed to revoke old refresh token", err)
	}

	return u.issueTokens(ctx, user)
}

func (u *authUseCase) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := u.refreshTokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		return apperrors.InternalError("failed to revoke tokens", err)
	}
	return nil
}

func (u *authUseCase) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NotFoundError("user")
		}
		return apperrors.InternalError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.UnauthorizedError("invalid old password")
	}

	newPasswordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.InternalError("failed to hash password", err)
	}

	if err := u.userRepo.UpdatePassword(ctx, userID, string(newPasswordHash)); err != nil {
		return apperrors.InternalError("failed to update password", err)
	}

	// Revoke all refresh tokens
	if err := u.refreshTokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		return apperrors.InternalError("failed to revoke tokens", err)
	}

	return nil
}

// PurgeExpiredTokens removes refresh tokens past their expiry
func (u *authUseCase) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := u.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, apperrors.InternalError("failed to purge refresh tokens", err)
	}
	return n, nil
}
