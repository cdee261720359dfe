package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(score int, at time.Time, tags ...string) MoodEntryRecord {
	return MoodEntryRecord{
		MoodEntry: MoodEntry{
			MoodScore:    score,
			EnergyLevel:  score,
			StressLevel:  10 - score,
			AnxietyLevel: 5,
			Tags:         tags,
		},
		CreatedAt: at,
	}
}

func TestAverages(t *testing.T) {
	assert.Nil(t, Averages(nil))

	now := time.Now()
	avg := Averages([]MoodEntryRecord{rec(7, now), rec(8, now), rec(8, now)})
	require.NotNil(t, avg)
	assert.Equal(t, 7.7, avg.Mood)
	assert.Equal(t, 7.7, avg.Energy)
	assert.Equal(t, 2.3, avg.Stress)
	assert.Equal(t, 5.0, avg.Anxiety)
}

func TestDailyStreak(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return now.AddDate(0, 0, -n) }

	tests := []struct {
		name    string
		records []MoodEntryRecord
		want    int
	}{
		{"no entries", nil, 0},
		{"today only", []MoodEntryRecord{rec(5, day(0))}, 1},
		{"three days ending today", []MoodEntryRecord{rec(5, day(0)), rec(5, day(1)), rec(5, day(2))}, 3},
		{"running from yesterday", []MoodEntryRecord{rec(5, day(1)), rec(5, day(2))}, 2},
		{"broken by a gap", []MoodEntryRecord{rec(5, day(0)), rec(5, day(2))}, 1},
		{"last entry two days ago", []MoodEntryRecord{rec(5, day(2))}, 0},
		{"several entries one day", []MoodEntryRecord{rec(5, day(0)), rec(6, day(0))}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DailyStreak(tt.records, now))
		})
	}
}

func TestDaySummaries(t *testing.T) {
	d1 := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC)

	got := DaySummaries([]MoodEntryRecord{rec(9, d2), rec(4, d1), rec(5, d1)})
	assert.Equal(t, []DaySummary{
		{Date: "2026-10-01", AverageMood: 4.5, Entries: 2},
		{Date: "2026-10-02", AverageMood: 9, Entries: 1},
	}, got)
}

func TestTagFrequency(t *testing.T) {
	now := time.Now()
	got := TagFrequency([]MoodEntryRecord{
		rec(5, now, "sleep", "work"),
		rec(5, now, "sleep"),
		rec(5, now, "family"),
	})
	assert.Equal(t, []TagCount{
		{Tag: "sleep", Count: 2},
		{Tag: "work", Count: 1},
		{Tag: "family", Count: 1},
	}, got)
}
