package repository

import (
	"context"
	"time"

	"github.com/mindnest/wellness/internal/domain/entity"
)

// MoodEntryRepository defines read access to logged mood entries
type MoodEntryRepository interface {
	// ListByUser lists a user's entries, newest first
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]entity.MoodEntryRecord, int64, error)

	// ListSince lists a user's entries created at or after since, newest first
	ListSince(ctx context.Context, userID string, since time.Time) ([]entity.MoodEntryRecord, error)

	// Latest returns the user's most recent entry
	Latest(ctx context.Context, userID string) (*entity.MoodEntryRecord, error)

	// CountByUser counts all of a user's entries
	CountByUser(ctx context.Context, userID string) (int64, error)
}
