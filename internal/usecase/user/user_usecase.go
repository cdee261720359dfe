package user

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mindnest/wellness/internal/adapter/storage"
	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/domain/repository"
	"github.com/mindnest/wellness/internal/infrastructure/config"
	"github.com/mindnest/wellness/internal/infrastructure/logger"
	apperrors "github.com/mindnest/wellness/pkg/errors"
)

// DefaultMaxAvatarSize applies when storage.max_avatar_size is unset
const DefaultMaxAvatarSize = 2 << 20

// avatarTypes maps accepted image content types to file extensions
var avatarTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// UseCase defines the user use case interface
type UseCase interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.UserResponse, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdateInput) (*entity.UserResponse, error)
	UploadAvatar(ctx context.Context, id uuid.UUID, content []byte) (*entity.UserResponse, error)
	DeleteAvatar(ctx context.Context, id uuid.UUID) (*entity.UserResponse, error)
}

// UpdateInput represents user update input
type UpdateInput struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
}

type userUseCase struct {
	userRepo      repository.UserRepository
	moodRepo      repository.MoodEntryRepository
	files         storage.FileStorage
	publicURL     string
	maxAvatarSize int64
	logger        zerolog.Logger
}

// NewUseCase creates a new user use case
func NewUseCase(
	userRepo repository.UserRepository,
	moodRepo repository.MoodEntryRepository,
	files storage.FileStorage,
	storageConfig *config.StorageConfig,
) UseCase {
	maxSize := storageConfig.MaxAvatarSize
	if maxSize <= 0 {
		maxSize = DefaultMaxAvatarSize
	}
	return &userUseCase{
		userRepo:      userRepo,
		moodRepo:      moodRepo,
		files:         files,
		publicURL:     strings.TrimRight(storageConfig.PublicURL, "/"),
		maxAvatarSize: maxSize,
		logger:        logger.NewLogger("user"),
	}
}

func (u *userUseCase) get(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFoundError("user")
		}
		return nil, apperrors.InternalError("failed to get user", err)
	}
	return user, nil
}

func (u *userUseCase) GetByID(ctx context.Context, id uuid.UUID) (*entity.UserResponse, error) {
	user, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

func (u *userUseCase) GetProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	user, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := u.moodRepo.CountByUser(ctx, id.String())
	if err != nil {
		return nil, apperrors.UnavailableError(err.Error(), err)
	}

	profile := &entity.Profile{
		User:         user.ToResponse(),
		TotalEntries: total,
		MemberSince:  user.CreatedAt,
	}

	if total > 0 {
		latest, err := u.moodRepo.Latest(ctx, id.String())
		switch {
		case err == nil:
			profile.LastEntryAt = &latest.CreatedAt
		case !apperrors.IsNotFound(err):
			return nil, apperrors.UnavailableError(err.Error(), err)
		}
	}

	return profile, nil
}

func (u *userUseCase) Update(ctx context.Context, id uuid.UUID, input *UpdateInput) (*entity.UserResponse, error) {
	user, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName == nil {
		return user.ToResponse(), nil
	}

	user.DisplayName = strings.TrimSpace(*input.DisplayName)
	if err := u.userRepo.UpdateDisplayName(ctx, id, user.DisplayName); err != nil {
		return nil, apperrors.InternalError("failed to update user", err)
	}

	return user.ToResponse(), nil
}

func (u *userUseCase) UploadAvatar(ctx context.Context, id uuid.UUID, content []byte) (*entity.UserResponse, error) {
	if len(content) == 0 {
		return nil, apperrors.ValidationError("avatar image is empty")
	}
	if int64(len(content)) > u.maxAvatarSize {
		return nil, apperrors.ValidationError(fmt.Sprintf("avatar must be at most %d bytes", u.maxAvatarSize))
	}

	ext, ok := avatarTypes[http.DetectContentType(content)]
	if !ok {
		return nil, apperrors.ValidationError("avatar must be a PNG or JPEG image")
	}

	user, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Content addressed names keep browser caches honest
	path := fmt.Sprintf("avatars/%s/%s%s", id, storage.ContentHash(content)[:16], ext)
	if err := u.files.WriteFile(ctx, path, content); err != nil {
		return nil, apperrors.InternalError("failed to store avatar", err)
	}

	url := u.publicURL + "/" + path
	if err := u.userRepo.UpdateAvatar(ctx, id, path, url); err != nil {
		return nil, apperrors.InternalError("failed to update avatar", err)
	}

	if user.AvatarPath != "" && user.AvatarPath != path {
		if err := u.files.Delete(ctx, user.AvatarPath); err != nil {
			u.logger.Warn().Err(err).Str("path", user.AvatarPath).Msg("Failed to remove previous avatar")
		}
	}

	user.AvatarPath = path
	user.AvatarURL = url
	return user.ToResponse(), nil
}

func (u *userUseCase) DeleteAvatar(ctx context.Context, id uuid.UUID) (*entity.UserResponse, error) {
	user, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.AvatarPath == "" {
		return user.ToResponse(), nil
	}

	if err := u.userRepo.UpdateAvatar(ctx, id, "", ""); err != nil {
		return nil, apperrors.InternalError("failed to update avatar", err)
	}
	if err := u.files.Delete(ctx, user.AvatarPath); err != nil {
		u.logger.Warn().Err(err).Str("path", user.AvatarPath).Msg("Failed to remove avatar file")
	}

	user.AvatarPath = ""
	user.AvatarURL = ""
	return user.ToResponse(), nil
}
