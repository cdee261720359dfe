package entity

import (
	"math"
	"sort"
	"time"
)

// DayLayout formats the calendar day an entry belongs to
const DayLayout = "2006-01-02"

// LevelAverages holds mean values over a set of entries, rounded to one decimal
type LevelAverages struct {
	Mood    float64 `json:"mood"`
	Energy  float64 `json:"energy"`
	Stress  float64 `json:"stress"`
	Anxiety float64 `json:"anxiety"`
}

// DaySummary describes the entries of one calendar day
type DaySummary struct {
	Date        string  `json:"date"`
	AverageMood float64 `json:"average_mood"`
	Entries     int     `json:"entries"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Averages computes level averages, or nil for no records
func Averages(records []MoodEntryRecord) *LevelAverages {
	if len(records) == 0 {
		return nil
	}
	var mood, energy, stress, anxiety int
	for _, r := range records {
		mood += r.MoodScore
		energy += r.EnergyLevel
		stress += r.StressLevel
		anxiety += r.AnxietyLevel
	}
	n := float64(len(records))
	return &LevelAverages{
		Mood:    round1(float64(mood) / n),
		Energy:  round1(float64(energy) / n),
		Stress:  round1(float64(stress) / n),
		Anxiety: round1(float64(anxiety) / n),
	}
}

// DayOf returns the UTC calendar day of t
func DayOf(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// DailyStreak counts consecutive days with at least one entry, ending today.
// A streak whose last entry was yesterday is still running.
func DailyStreak(records []MoodEntryRecord, now time.Time) int {
	days := make(map[string]struct{}, len(records))
	for _, r := range records {
		days[DayOf(r.CreatedAt)] = struct{}{}
	}

	day := now.UTC()
	if _, ok := days[DayOf(day)]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := days[DayOf(day)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// DaySummaries groups records by UTC day, oldest first
func DaySummaries(records []MoodEntryRecord) []DaySummary {
	type acc struct{ sum, n int }
	byDay := make(map[string]*acc)
	for _, r := range records {
		d := DayOf(r.CreatedAt)
		a, ok := byDay[d]
		if !ok {
			a = &acc{}
			byDay[d] = a
		}
		a.sum += r.MoodScore
		a.n++
	}

	summaries := make([]DaySummary, 0, len(byDay))
	for d, a := range byDay {
		summaries = append(summaries, DaySummary{
			Date:        d,
			AverageMood: round1(float64(a.sum) / float64(a.n)),
			Entries:     a.n,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date < summaries[j].Date
	})
	return summaries
}

// TagFrequency counts tag use, most used first; ties keep vocabulary order
func TagFrequency(records []MoodEntryRecord) []TagCount {
	counts := make(map[string]int)
	for _, r := range records {
		for _, t := range r.Tags {
			counts[t]++
		}
	}

	freq := make([]TagCount, 0, len(counts))
	for _, t := range MoodTags {
		if c := counts[t]; c > 0 {
			freq = append(freq, TagCount{Tag: t, Count: c})
		}
	}
	sort.SliceStable(freq, func(i, j int) bool {
		return freq[i].Count > freq[j].Count
	})
	return freq
}
