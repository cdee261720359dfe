package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/domain/repository"
	apperrors "github.com/mindnest/wellness/pkg/errors"
)

const (
	// WeekDays is the window the weekly summary covers
	WeekDays = 7
	// streakLookback bounds how far back the logging streak is counted
	streakLookback = 366 * 24 * time.Hour
)

// UseCase defines the dashboard use case interface
type UseCase interface {
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
}

// Summary is the dashboard screen payload
type Summary struct {
	Greeting      string                    `json:"greeting"`
	LatestEntry   *entity.MoodEntryResponse `json:"latest_entry,omitempty"`
	WeekEntries   int                       `json:"week_entries"`
	WeekAverages  *entity.LevelAverages     `json:"week_averages,omitempty"`
	CurrentStreak int                       `json:"current_streak"`
	LoggedToday   bool                      `json:"logged_today"`
}

type dashboardUseCase struct {
	userRepo repository.UserRepository
	moodRepo repository.MoodEntryRepository
	now      func() time.Time
}

// NewUseCase creates a new dashboard use case
func NewUseCase(userRepo repository.UserRepository, moodRepo repository.MoodEntryRepository) UseCase {
	return &dashboardUseCase{
		userRepo: userRepo,
		moodRepo: moodRepo,
		now:      time.Now,
	}
}

func (u *dashboardUseCase) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFoundError("user")
		}
		return nil, apperrors.InternalError("failed to get user", err)
	}

	now := u.now().UTC()
	records, err := u.moodRepo.ListSince(ctx, userID.String(), now.Add(-streakLookback))
	if err != nil {
		return nil, apperrors.UnavailableError(err.Error(), err)
	}

	summary := &Summary{
		Greeting:      user.Greeting(),
		CurrentStreak: entity.DailyStreak(records, now),
	}
	if len(records) == 0 {
		return summary, nil
	}

	// records are newest first
	summary.LatestEntry = records[0].ToResponse()
	summary.LoggedToday = entity.DayOf(records[0].CreatedAt) == entity.DayOf(now)

	weekStart := now.AddDate(0, 0, -WeekDays)
	week := make([]entity.MoodEntryRecord, 0, len(records))
	for _, r := range records {
		if r.CreatedAt.Before(weekStart) {
			break
		}
		week = append(week, r)
	}
	summary.WeekEntries = len(week)
	summary.WeekAverages = entity.Averages(week)

	return summary, nil
}
