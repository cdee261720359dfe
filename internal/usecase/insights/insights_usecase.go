package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/domain/repository"
	apperrors "github.com/mindnest/wellness/pkg/errors"
)

// Window bounds in days and the entries needed before insights are shown
const (
	DefaultDays     = 30
	MinDays         = 7
	MaxDays         = 365
	RequiredEntries = 7
)

// UseCase defines the insights use case interface
type UseCase interface {
	Get(ctx context.Context, userID string, days int) (*Insights, error)
}

// Insights is the insights screen payload
type Insights struct {
	Ready           bool                  `json:"ready"`
	Message         string                `json:"message,omitempty"`
	Days            int                   `json:"days"`
	EntryCount      int                   `json:"entry_count"`
	RequiredEntries int                   `json:"required_entries"`
	Averages        *entity.LevelAverages `json:"averages,omitempty"`
	TopTags         []entity.TagCount     `json:"top_tags,omitempty"`
	BestDay         *entity.DaySummary    `json:"best_day,omitempty"`
	WorstDay        *entity.DaySummary    `json:"worst_day,omitempty"`
	Daily           []entity.DaySummary   `json:"daily,omitempty"`
}

type insightsUseCase struct {
	moodRepo repository.MoodEntryRepository
	now      func() time.Time
}

// NewUseCase creates a new insights use case
func NewUseCase(moodRepo repository.MoodEntryRepository) UseCase {
	return &insightsUseCase{moodRepo: moodRepo, now: time.Now}
}

// ClampDays forces a requested window into [MinDays, MaxDays]; zero means the default
func ClampDays(days int) int {
	switch {
	case days == 0:
		return DefaultDays
	case days < MinDays:
		return MinDays
	case days > MaxDays:
		return MaxDays
	default:
		return days
	}
}

func (u *insightsUseCase) Get(ctx context.Context, userID string, days int) (*Insights, error) {
	days = ClampDays(days)
	since := u.now().UTC().AddDate(0, 0, -days)

	records, err := u.moodRepo.ListSince(ctx, userID, since)
	if err != nil {
		return nil, apperrors.UnavailableError(err.Error(), err)
	}

	out := &Insights{
		Days:            days,
		EntryCount:      len(records),
		RequiredEntries: RequiredEntries,
	}
	if len(records) < RequiredEntries {
		remaining := RequiredEntries - len(records)
		out.Message = fmt.Sprintf("Log %d more %s to unlock your insights", remaining, plural(remaining, "mood", "moods"))
		return out, nil
	}

	out.Ready = true
	out.Averages = entity.Averages(records)
	out.TopTags = entity.TagFrequency(records)
	out.Daily = entity.DaySummaries(records)

	// Daily is oldest first, so >= and <= favour the most recent day on ties
	for i := range out.Daily {
		d := &out.Daily[i]
		if out.BestDay == nil || d.AverageMood >= out.BestDay.AverageMood {
			out.BestDay = d
		}
		if out.WorstDay == nil || d.AverageMood <= out.WorstDay.AverageMood {
			out.WorstDay = d
		}
	}

	return out, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
