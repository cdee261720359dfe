package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/domain/repository"
	apperrors "github.com/mindnest/wellness/pkg/errors"
)

type fakeUserRepo struct {
	repository.UserRepository
	user *entity.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if r.user == nil || r.user.ID != id {
		return nil, apperrors.ErrNotFound
	}
	return r.user, nil
}

type fakeMoodRepo struct {
	repository.MoodEntryRepository
	records []entity.MoodEntryRecord
	since   time.Time
	err     error
}

func (r *fakeMoodRepo) ListSince(ctx context.Context, userID string, since time.Time) ([]entity.MoodEntryRecord, error) {
	r.since = since
	return r.records, r.err
}

func entryAt(score int, at time.Time) entity.MoodEntryRecord {
	option, _ := entity.MoodOptionByScore(score)
	return entity.MoodEntryRecord{
		MoodEntry: entity.MoodEntry{
			MoodScore: score, MoodLabel: option.Label,
			EnergyLevel: 6, StressLevel: 4, AnxietyLevel: 3,
		},
		CreatedAt: at,
	}
}

func newUseCase(user *entity.User, moods *fakeMoodRepo, now time.Time) UseCase {
	return &dashboardUseCase{
		userRepo: &fakeUserRepo{user: user},
		moodRepo: moods,
		now:      func() time.Time { return now },
	}
}

func TestSummary_NoEntries(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Username: "ash"}
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	uc := newUseCase(user, &fakeMoodRepo{}, now)

	summary, err := uc.Summary(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ash", summary.Greeting)
	assert.Nil(t, summary.LatestEntry)
	assert.Nil(t, summary.WeekAverages)
	assert.Zero(t, summary.CurrentStreak)
	assert.False(t, summary.LoggedToday)
}

func TestSummary_WeekAndStreak(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Username: "ash", DisplayName: "Ash"}
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	moods := &fakeMoodRepo{records: []entity.MoodEntryRecord{
		entryAt(9, now.Add(-time.Hour)),
		entryAt(7, now.AddDate(0, 0, -1)),
		entryAt(5, now.AddDate(0, 0, -2)),
		entryAt(1, now.AddDate(0, 0, -10)),
	}}
	uc := newUseCase(user, moods, now)

	summary, err := uc.Summary(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, "Ash", summary.Greeting)
	require.NotNil(t, summary.LatestEntry)
	assert.Equal(t, "great", summary.LatestEntry.Mood.Label)
	assert.True(t, summary.LoggedToday)
	assert.Equal(t, 3, summary.WeekEntries)
	require.NotNil(t, summary.WeekAverages)
	assert.Equal(t, 7.0, summary.WeekAverages.Mood)
	assert.Equal(t, 3, summary.CurrentStreak)
	assert.True(t, moods.since.Before(now.AddDate(-1, 0, 0)))
}

func TestSummary_Errors(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Username: "ash"}
	now := time.Now()

	_, err := newUseCase(user, &fakeMoodRepo{}, now).Summary(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))

	_, err = newUseCase(user, &fakeMoodRepo{err: errors.New("timeout")}, now).Summary(context.Background(), user.ID)
	assert.True(t, apperrors.IsUnavailable(err))
}
