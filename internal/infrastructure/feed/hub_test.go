package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindnest/wellness/internal/domain/entity"
)

func TestHub_PublishReachesOnlyTheUser(t *testing.T) {
	h := NewHub()
	mine := make(chan *Event, 1)
	other := make(chan *Event, 1)
	h.Register("user-1", "s1", mine)
	h.Register("user-2", "s2", other)

	h.PublishEntry("user-1", &entity.MoodEntryResponse{Notes: "hi"})

	select {
	case evt := <-mine:
		assert.Equal(t, EventTypeEntry, evt.Type)
		assert.Equal(t, "hi", evt.Entry.Notes)
	default:
		t.Fatal("expected an event for user-1")
	}
	assert.Empty(t, other)
}

func TestHub_PublishDoesNotBlockOnFullChannel(t *testing.T) {
	h := NewHub()
	ch := make(chan *Event, 1)
	h.Register("user-1", "s1", ch)

	h.PublishEntry("user-1", &entity.MoodEntryResponse{})
	h.PublishEntry("user-1", &entity.MoodEntryResponse{})
	assert.Len(t, ch, 1)
}

func TestHub_Unregister(t *testing.T) {
	h := NewHub()
	ch := make(chan *Event, 1)
	h.Register("user-1", "s1", ch)
	require.Equal(t, 1, h.Subscribers("user-1"))

	h.Unregister("user-1", "s1")
	assert.Equal(t, 0, h.Subscribers("user-1"))

	h.PublishEntry("user-1", &entity.MoodEntryResponse{})
	assert.Empty(t, ch)

	// unknown sessions are ignored
	h.Unregister("nobody", "s9")
}
