package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/domain/repository"
	apperrors "github.com/mindnest/wellness/pkg/errors"
)

// UserModel is the users table
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:50;not null"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	DisplayName  string    `gorm:"size:100"`
	AvatarPath   string    `gorm:"size:500"`
	AvatarURL    string    `gorm:"size:500"`
	Status       string    `gorm:"size:20;default:'active'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) toEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		DisplayName:  m.DisplayName,
		AvatarPath:   m.AvatarPath,
		AvatarURL:    m.AvatarURL,
		Status:       entity.UserStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Models lists the models the application database migrates
func Models() []interface{} {
	return []interface{}{
		&UserModel{},
		&RefreshTokenModel{},
		&entity.MoodEntryRecord{},
		&entity.Resource{},
		&entity.ResourceInteractionRecord{},
	}
}

// findOne loads the first row matching column = value into a T
func findOne[T any](ctx context.Context, db *gorm.DB, column string, value interface{}) (*T, error) {
	var model T
	err := db.WithContext(ctx).Where(column+" = ?", value).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository on db
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user, filling ID, status and timestamps when unset.
// A taken username or email reports AlreadyExists.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Status == "" {
		user.Status = entity.UserStatusActive
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	err := r.db.WithContext(ctx).Create(&UserModel{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		DisplayName:  user.DisplayName,
		AvatarPath:   user.AvatarPath,
		AvatarURL:    user.AvatarURL,
		Status:       string(user.Status),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.AlreadyExistsError("user")
	}
	return err
}

func (r *userRepository) lookup(ctx context.Context, column string, value interface{}) (*entity.User, error) {
	model, err := findOne[UserModel](ctx, r.db, column, value)
	if err != nil {
		return nil, err
	}
	return model.toEntity(), nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.lookup(ctx, "id", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.lookup(ctx, "email", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.lookup(ctx, "username", username)
}

func (r *userRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&UserModel{}).Where(column+" = ?", value).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

// updateFields writes the given columns and bumps updated_at
func (r *userRepository) updateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Updates(fields).Error
}

func (r *userRepository) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	return r.updateFields(ctx, id, map[string]interface{}{"display_name": displayName})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateFields(ctx, id, map[string]interface{}{"password_hash": passwordHash})
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, path, url string) error {
	return r.updateFields(ctx, id, map[string]interface{}{
		"avatar_path": path,
		"avatar_url":  url,
	})
}
