package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoodOptions_Scale(t *testing.T) {
	tests := []struct {
		score int
		label string
		emoji string
		color string
	}{
		{10, "amazing", "🤩", "#10B981"},
		{9, "great", "😊", "#10B981"},
		{8, "good", "🙂", "#3B82F6"},
		{7, "okay", "😐", "#3B82F6"},
		{6, "neutral", "😶", "#6B7280"},
		{5, "meh", "😕", "#F59E0B"},
		{4, "low", "😟", "#F59E0B"},
		{3, "down", "😞", "#EF4444"},
		{2, "sad", "😢", "#EF4444"},
		{1, "distressed", "😭", "#DC2626"},
	}

	require.Len(t, MoodOptions, len(tests))
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			opt, ok := MoodOptionByScore(tt.score)
			require.True(t, ok)
			assert.Equal(t, MoodOption{Score: tt.score, Label: tt.label, Emoji: tt.emoji, Color: tt.color}, opt)
		})
	}
}

func TestMoodOptionByScore_OutOfRange(t *testing.T) {
	for _, score := range []int{0, 11, -3} {
		_, ok := MoodOptionByScore(score)
		assert.False(t, ok, score)
	}
}

func TestMoodTags_Vocabulary(t *testing.T) {
	want := []string{
		"work", "social", "exercise", "sleep", "family", "relaxation",
		"stress", "anxiety", "productivity", "health", "hobby", "other",
	}
	assert.Equal(t, want, MoodTags[:])
	for _, tag := range want {
		assert.True(t, IsMoodTag(tag), tag)
	}
	assert.False(t, IsMoodTag("friends"))
	assert.False(t, IsMoodTag("Work"))
}

func TestSortMoodTags(t *testing.T) {
	tags := []string{"other", "sleep", "work", "hobby"}
	SortMoodTags(tags)
	assert.Equal(t, []string{"work", "sleep", "hobby", "other"}, tags)
}
