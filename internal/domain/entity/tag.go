package entity

import "sort"

// MoodTags is the fixed context-tag vocabulary a mood entry may carry
var MoodTags = [...]string{
	"work",
	"social",
	"exercise",
	"sleep",
	"family",
	"relaxation",
	"stress",
	"anxiety",
	"productivity",
	"health",
	"hobby",
	"other",
}

var moodTagIndex = func() map[string]int {
	idx := make(map[string]int, len(MoodTags))
	for i, t := range MoodTags {
		idx[t] = i
	}
	return idx
}()

// IsMoodTag reports whether tag belongs to the vocabulary
func IsMoodTag(tag string) bool {
	_, ok := moodTagIndex[tag]
	return ok
}

// SortMoodTags orders tags by their position in the vocabulary
func SortMoodTags(tags []string) {
	sort.SliceStable(tags, func(i, j int) bool {
		return moodTagIndex[tags[i]] < moodTagIndex[tags[j]]
	})
}

// TagCount is the number of entries a tag appeared on
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
