package entity

import (
	"time"
)

// Level bounds shared by energy, stress and anxiety
const (
	MinLevel     = 1
	MaxLevel     = 10
	DefaultLevel = 5
)

// MoodEntriesTable is the table mood entries are written to
const MoodEntriesTable = "mood_entries"

// MoodOption is one selectable mood
type MoodOption struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

// MoodOptions is the fixed mood scale, ordered by score
var MoodOptions = [...]MoodOption{
	{Score: 1, Label: "distressed", Emoji: "😭", Color: "#DC2626"},
	{Score: 2, Label: "sad", Emoji: "😢", Color: "#EF4444"},
	{Score: 3, Label: "down", Emoji: "😞", Color: "#EF4444"},
	{Score: 4, Label: "low", Emoji: "😟", Color: "#F59E0B"},
	{Score: 5, Label: "meh", Emoji: "😕", Color: "#F59E0B"},
	{Score: 6, Label: "neutral", Emoji: "😶", Color: "#6B7280"},
	{Score: 7, Label: "okay", Emoji: "😐", Color: "#3B82F6"},
	{Score: 8, Label: "good", Emoji: "🙂", Color: "#3B82F6"},
	{Score: 9, Label: "great", Emoji: "😊", Color: "#10B981"},
	{Score: 10, Label: "amazing", Emoji: "🤩", Color: "#10B981"},
}

// MoodOptionByScore looks up the option for a score
func MoodOptionByScore(score int) (MoodOption, bool) {
	if score < 1 || score > len(MoodOptions) {
		return MoodOption{}, false
	}
	return MoodOptions[score-1], true
}

// ClampLevel forces a level into [MinLevel, MaxLevel]
func ClampLevel(level int) int {
	switch {
	case level < MinLevel:
		return MinLevel
	case level > MaxLevel:
		return MaxLevel
	default:
		return level
	}
}

// MoodEntry is the record submitted for one logged mood.
// Field names double as column names in the mood_entries table.
type MoodEntry struct {
	UserID       string   `json:"user_id" gorm:"column:user_id;size:64;not null;index:idx_mood_entries_user_created,priority:1"`
	MoodScore    int      `json:"mood_score" gorm:"column:mood_score;not null"`
	MoodLabel    string   `json:"mood_label" gorm:"column:mood_label;size:20;not null"`
	EnergyLevel  int      `json:"energy_level" gorm:"column:energy_level;not null"`
	StressLevel  int      `json:"stress_level" gorm:"column:stress_level;not null"`
	AnxietyLevel int      `json:"anxiety_level" gorm:"column:anxiety_level;not null"`
	Notes        string   `json:"notes" gorm:"column:notes;type:text"`
	Tags         []string `json:"tags" gorm:"column:tags;type:text;serializer:json"`
}

// TableName returns the table name
func (MoodEntry) TableName() string {
	return MoodEntriesTable
}

// Option returns the mood option the entry was logged with
func (e *MoodEntry) Option() (MoodOption, bool) {
	return MoodOptionByScore(e.MoodScore)
}

// MoodEntryRecord is a stored mood entry with the fields the store assigns
type MoodEntryRecord struct {
	ID        int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	MoodEntry `gorm:"embedded"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_mood_entries_user_created,priority:2"`
}

// TableName returns the table name
func (MoodEntryRecord) TableName() string {
	return MoodEntriesTable
}

// MoodEntryResponse represents a logged entry returned to client
type MoodEntryResponse struct {
	ID           int64      `json:"id,omitempty"`
	Mood         MoodOption `json:"mood"`
	EnergyLevel  int        `json:"energy_level"`
	StressLevel  int        `json:"stress_level"`
	AnxietyLevel int        `json:"anxiety_level"`
	Notes        string     `json:"notes"`
	Tags         []string   `json:"tags"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToResponse converts MoodEntryRecord to MoodEntryResponse
func (r *MoodEntryRecord) ToResponse() *MoodEntryResponse {
	option, ok := r.Option()
	if !ok {
		option = MoodOption{Score: r.MoodScore, Label: r.MoodLabel}
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return &MoodEntryResponse{
		ID:           r.ID,
		Mood:         option,
		EnergyLevel:  r.EnergyLevel,
		StressLevel:  r.StressLevel,
		AnxietyLevel: r.AnxietyLevel,
		Notes:        r.Notes,
		Tags:         tags,
		CreatedAt:    r.CreatedAt,
	}
}
