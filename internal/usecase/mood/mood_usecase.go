package mood

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/domain/repository"
	"github.com/mindnest/wellness/internal/infrastructure/logger"
	"github.com/mindnest/wellness/internal/usecase/capture"
	apperrors "github.com/mindnest/wellness/pkg/errors"
)

// EntryPublisher receives every entry once it is stored
type EntryPublisher interface {
	PublishEntry(userID string, entry *entity.MoodEntryResponse)
}

// UseCase defines the mood logging use case interface
type UseCase interface {
	Options() *OptionsOutput
	Log(ctx context.Context, userID string, input *LogInput) (*entity.MoodEntryResponse, error)
	NewFlow(userID string, opts ...capture.Option) *capture.Flow
	List(ctx context.Context, userID string, page, pageSize int) ([]*entity.MoodEntryResponse, int64, error)
}

// LogInput is a complete entry submitted in one request.
// Omitted levels keep their default.
type LogInput struct {
	MoodScore    *int     `json:"mood_score"`
	EnergyLevel  *int     `json:"energy_level"`
	StressLevel  *int     `json:"stress_level"`
	AnxietyLevel *int     `json:"anxiety_level"`
	Notes        string   `json:"notes" binding:"max=2000"`
	Tags         []string `json:"tags" binding:"omitempty,max=12,dive,moodtag"`
}

// LevelDefaults describes the level sliders
type LevelDefaults struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// OptionsOutput is everything a client needs to render the capture form
type OptionsOutput struct {
	Moods  []entity.MoodOption `json:"moods"`
	Tags   []string            `json:"tags"`
	Levels LevelDefaults       `json:"levels"`
}

type moodUseCase struct {
	store     repository.RecordStore
	moodRepo  repository.MoodEntryRepository
	publisher EntryPublisher
	logger    zerolog.Logger
}

// NewUseCase creates a new mood use case. publisher may be nil.
func NewUseCase(store repository.RecordStore, moodRepo repository.MoodEntryRepository, publisher EntryPublisher) UseCase {
	return &moodUseCase{
		store:     store,
		moodRepo:  moodRepo,
		publisher: publisher,
		logger:    logger.NewLogger("capture"),
	}
}

func (u *moodUseCase) Options() *OptionsOutput {
	return &OptionsOutput{
		Moods: entity.MoodOptions[:],
		Tags:  entity.MoodTags[:],
		Levels: LevelDefaults{
			Min:     entity.MinLevel,
			Max:     entity.MaxLevel,
			Default: entity.DefaultLevel,
		},
	}
}

// NewFlow starts a capture flow for userID whose stored entry is published.
// Extra completion callbacks in opts run after publishing.
func (u *moodUseCase) NewFlow(userID string, opts ...capture.Option) *capture.Flow {
	base := []capture.Option{
		capture.WithLogger(u.logger),
		capture.WithOnComplete(func(entry entity.MoodEntry) {
			if u.publisher != nil {
				u.publisher.PublishEntry(entry.UserID, SubmittedResponse(entry))
			}
		}),
	}
	return capture.New(capture.UserID(userID), u.store, append(base, opts...)...)
}

// SubmittedResponse renders an entry that was just stored
func SubmittedResponse(entry entity.MoodEntry) *entity.MoodEntryResponse {
	record := &entity.MoodEntryRecord{MoodEntry: entry, CreatedAt: time.Now().UTC()}
	return record.ToResponse()
}

func (u *moodUseCase) Log(ctx context.Context, userID string, input *LogInput) (*entity.MoodEntryResponse, error) {
	var stored *entity.MoodEntryResponse
	flow := u.NewFlow(userID, capture.WithOnComplete(func(entry entity.MoodEntry) {
		stored = SubmittedResponse(entry)
	}))

	if input.MoodScore != nil {
		if err := flow.SelectMood(*input.MoodScore); err != nil {
			return nil, FlowError(err)
		}
	}

	levels := []struct {
		value *int
		set   func(int) (int, error)
	}{
		{input.EnergyLevel, flow.SetEnergy},
		{input.StressLevel, flow.SetStress},
		{input.AnxietyLevel, flow.SetAnxiety},
	}
	for _, l := range levels {
		if l.value == nil {
			continue
		}
		if _, err := l.set(*l.value); err != nil {
			return nil, FlowError(err)
		}
	}

	seen := make(map[string]struct{}, len(input.Tags))
	for _, tag := range input.Tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if _, err := flow.ToggleTag(tag); err != nil {
			return nil, FlowError(err)
		}
	}

	if err := flow.SetNotes(input.Notes); err != nil {
		return nil, FlowError(err)
	}

	if err := flow.Submit(ctx); err != nil {
		return nil, FlowError(err)
	}
	return stored, nil
}

func (u *moodUseCase) List(ctx context.Context, userID string, page, pageSize int) ([]*entity.MoodEntryResponse, int64, error) {
	records, total, err := u.moodRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.UnavailableError(err.Error(), err)
	}

	responses := make([]*entity.MoodEntryResponse, len(records))
	for i := range records {
		responses[i] = records[i].ToResponse()
	}
	return responses, total, nil
}

// FlowError converts a capture flow error into an application error.
// Store failures keep the store's message.
func FlowError(err error) error {
	if err == nil {
		return nil
	}

	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr
	}

	if capture.IsValidation(err) || errors.Is(err, capture.ErrSubmitInProgress) || errors.Is(err, capture.ErrFlowClosed) {
		return apperrors.ValidationError(err.Error())
	}

	var submitErr *capture.SubmitError
	if errors.As(err, &submitErr) {
		if submitErr.Err == nil {
			return apperrors.UnauthorizedError(submitErr.Message)
		}
		return apperrors.UnavailableError(submitErr.Message, submitErr.Err)
	}

	return apperrors.InternalError(err.Error(), err)
}
