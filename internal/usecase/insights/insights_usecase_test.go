package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/domain/repository"
	apperrors "github.com/mindnest/wellness/pkg/errors"
)

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

func TestClampDays(t *testing.T) {
	assert.Equal(t, 30, ClampDays(0))
	assert.Equal(t, 7, ClampDays(3))
	assert.Equal(t, 7, ClampDays(-5))
	assert.Equal(t, 90, ClampDays(90))
	assert.Equal(t, 365, ClampDays(1000))
}

func TestGet_NotReady(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	repo := &fakeMoodRepo{records: make([]entity.MoodEntryRecord, 6)}
	uc := &insightsUseCase{moodRepo: repo, now: func() time.Time { return now }}

	out, err := uc.Get(context.Background(), "user-1", 3)
	require.NoError(t, err)
	assert.False(t, out.Ready)
	assert.Equal(t, 7, out.Days)
	assert.Equal(t, "Log 1 more mood to unlock your insights", out.Message)
	assert.Nil(t, out.Averages)
	assert.Equal(t, now.AddDate(0, 0, -7), repo.since)
}

func TestGet_Ready(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return now.AddDate(0, 0, -n) }
	mk := func(score int, at time.Time, tags ...string) entity.MoodEntryRecord {
		return entity.MoodEntryRecord{
			MoodEntry: entity.MoodEntry{MoodScore: score, EnergyLevel: 5, StressLevel: 5, AnxietyLevel: 5, Tags: tags},
			CreatedAt: at,
		}
	}
	repo := &fakeMoodRepo{records: []entity.MoodEntryRecord{
		mk(8, day(0), "exercise"),
		mk(9, day(1), "exercise", "social"),
		mk(3, day(2), "work"),
		mk(2, day(3), "work", "sleep"),
		mk(6, day(4)),
		mk(9, day(5), "exercise"),
		mk(5, day(6)),
	}}
	uc := &insightsUseCase{moodRepo: repo, now: func() time.Time { return now }}

	out, err := uc.Get(context.Background(), "user-1", 30)
	require.NoError(t, err)
	assert.True(t, out.Ready)
	assert.Empty(t, out.Message)
	assert.Equal(t, 7, out.EntryCount)
	require.NotNil(t, out.Averages)
	assert.Equal(t, 6.0, out.Averages.Mood)

	require.NotEmpty(t, out.TopTags)
	assert.Equal(t, entity.TagCount{Tag: "exercise", Count: 3}, out.TopTags[0])
	assert.Equal(t, entity.TagCount{Tag: "work", Count: 2}, out.TopTags[1])

	require.NotNil(t, out.BestDay)
	assert.Equal(t, "2026-10-17", out.BestDay.Date)
	require.NotNil(t, out.WorstDay)
	assert.Equal(t, "2026-10-15", out.WorstDay.Date)
	assert.Len(t, out.Daily, 7)
}

func TestGet_StoreError(t *testing.T) {
	uc := NewUseCase(&fakeMoodRepo{err: errors.New("boom")})
	_, err := uc.Get(context.Background(), "user-1", 30)
	assert.True(t, apperrors.IsUnavailable(err))
}
