package repository

import (
	"context"
	"time"

	"github.com/mindnest/wellness/internal/domain/entity"
	"github.com/mindnest/wellness/internal/domain/repository"
	apperrors "github.com/mindnest/wellness/pkg/errors"
)

// moodEntryRepository implements repository.MoodEntryRepository on a record store
type moodEntryRepository struct {
	store repository.RecordStore
}

// NewMoodEntryRepository creates a new mood entry repository
func NewMoodEntryRepository(store repository.RecordStore) repository.MoodEntryRepository {
	return &moodEntryRepository{store: store}
}

func byUser(userID string) *repository.Query {
	return (&repository.Query{OrderBy: "created_at", Desc: true}).
		Where("user_id", repository.OpEq, userID)
}

func (r *moodEntryRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]entity.MoodEntryRecord, int64, error) {
	q := byUser(userID)

	total, err := r.store.Count(ctx, entity.MoodEntriesTable, q)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	q.Limit = pageSize
	q.Offset = (page - 1) * pageSize

	var records []entity.MoodEntryRecord
	if err := r.store.Select(ctx, entity.MoodEntriesTable, q, &records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *moodEntryRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]entity.MoodEntryRecord, error) {
	q := byUser(userID).Where("created_at", repository.OpGte, since.UTC())

	var records []entity.MoodEntryRecord
	if err := r.store.Select(ctx, entity.MoodEntriesTable, q, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *moodEntryRepository) Latest(ctx context.Context, userID string) (*entity.MoodEntryRecord, error) {
	q := byUser(userID)
	q.Limit = 1

	var records []entity.MoodEntryRecord
	if err := r.store.Select(ctx, entity.MoodEntriesTable, q, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &records[0], nil
}

func (r *moodEntryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.store.Count(ctx, entity.MoodEntriesTable, byUser(userID))
}
