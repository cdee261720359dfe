// Package capture implements the mood entry capture flow: collecting a mood,
// three 1-10 levels, notes and context tags, and submitting them once.
package capture

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mindnest/wellness/internal/domain/entity"
)

// Identity supplies the authenticated user a flow submits for
type Identity interface {
	CurrentUser() (string, bool)
}

// IdentityFunc adapts a function to Identity
type IdentityFunc func() (string, bool)

// CurrentUser calls f
func (f IdentityFunc) CurrentUser() (string, bool) {
	return f()
}

// UserID is a fixed identity
type UserID string

// CurrentUser returns the ID, or false when it is empty
func (u UserID) CurrentUser() (string, bool) {
	return string(u), u != ""
}

// Store is the external store entries are inserted into
type Store interface {
	Insert(ctx context.Context, table string, record any) error
}

// Status is the lifecycle state of a flow
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusClosed     Status = "closed"
	StatusDismissed  Status = "dismissed"
)

// State is what a view renders for a flow
type State struct {
	Status       Status             `json:"status"`
	Loading      bool               `json:"loading"`
	Mood         *entity.MoodOption `json:"mood,omitempty"`
	EnergyLevel  int                `json:"energy_level"`
	StressLevel  int                `json:"stress_level"`
	AnxietyLevel int                `json:"anxiety_level"`
	Notes        string             `json:"notes"`
	Tags         []string           `json:"tags"`
	Error        string             `json:"error,omitempty"`
}

// Option configures a Flow
type Option func(*Flow)

// WithOnComplete adds a callback run once after a successful submit.
// Callbacks run in the order they were added.
func WithOnComplete(fn func(entity.MoodEntry)) Option {
	return func(f *Flow) {
		if fn != nil {
			f.onComplete = append(f.onComplete, fn)
		}
	}
}

// WithLogger sets the flow's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

// Flow is one mood-logging interaction. It is safe for concurrent use.
type Flow struct {
	identity   Identity
	store      Store
	onComplete []func(entity.MoodEntry)
	logger     zerolog.Logger

	mu      sync.Mutex
	status  Status
	mood    *entity.MoodOption
	energy  int
	stress  int
	anxiety int
	notes   string
	tags    map[string]struct{}
	errMsg  string
}

// New starts a capture flow in the idle state with levels at their default
func New(identity Identity, store Store, opts ...Option) *Flow {
	f := &Flow{
		identity: identity,
		store:    store,
		logger:   log.With().Str("component", "capture").Logger(),
		status:   StatusIdle,
	}
	f.reset()
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) reset() {
	f.mood = nil
	f.energy = entity.DefaultLevel
	f.stress = entity.DefaultLevel
	f.anxiety = entity.DefaultLevel
	f.notes = ""
	f.tags = make(map[string]struct{})
}

// editable must be called with mu held
func (f *Flow) editable() error {
	switch f.status {
	case StatusSubmitting:
		return ErrSubmitInProgress
	case StatusClosed, StatusDismissed:
		return ErrFlowClosed
	}
	return nil
}

// SelectMood chooses the mood with the given score, replacing any prior choice
func (f *Flow) SelectMood(score int) error {
	option, ok := entity.MoodOptionByScore(score)
	if !ok {
		return ErrUnknownMood
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return err
	}
	f.mood = &option
	return nil
}

func (f *Flow) setLevel(dst *int, level int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return *dst, err
	}
	*dst = entity.ClampLevel(level)
	return *dst, nil
}

// SetEnergy stores the energy level clamped to [1,10] and returns the stored value
func (f *Flow) SetEnergy(level int) (int, error) {
	return f.setLevel(&f.energy, level)
}

// SetStress stores the stress level clamped to [1,10] and returns the stored value
func (f *Flow) SetStress(level int) (int, error) {
	return f.setLevel(&f.stress, level)
}

// SetAnxiety stores the anxiety level clamped to [1,10] and returns the stored value
func (f *Flow) SetAnxiety(level int) (int, error) {
	return f.setLevel(&f.anxiety, level)
}

// ToggleTag adds the tag if absent and removes it if present.
// It reports whether the tag is selected afterwards.
func (f *Flow) ToggleTag(tag string) (bool, error) {
	if !entity.IsMoodTag(tag) {
		return false, ErrUnknownTag
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		_, selected := f.tags[tag]
		return selected, err
	}
	if _, selected := f.tags[tag]; selected {
		delete(f.tags, tag)
		return false, nil
	}
	f.tags[tag] = struct{}{}
	return true, nil
}

// SetNotes replaces the free-text notes
func (f *Flow) SetNotes(notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return err
	}
	f.notes = notes
	return nil
}

// sortedTags must be called with mu held
func (f *Flow) sortedTags() []string {
	tags := make([]string, 0, len(f.tags))
	for t := range f.tags {
		tags = append(tags, t)
	}
	entity.SortMoodTags(tags)
	return tags
}

// Snapshot returns the current state of the flow
func (f *Flow) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := State{
		Status:       f.status,
		Loading:      f.status == StatusSubmitting,
		EnergyLevel:  f.energy,
		StressLevel:  f.stress,
		AnxietyLevel: f.anxiety,
		Notes:        f.notes,
		Tags:         f.sortedTags(),
		Error:        f.errMsg,
	}
	if f.mood != nil {
		mood := *f.mood
		state.Mood = &mood
	}
	return state
}

// Loading reports whether a submit is in flight
func (f *Flow) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status == StatusSubmitting
}

// ErrorMessage returns the message of the last failed submit, if any
func (f *Flow) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Submit validates the flow and inserts the entry into the store with one call.
//
// Without a selected mood it returns ErrNoMoodSelected and makes no store call.
// A store failure leaves the flow idle with the store's message as its error,
// or "Failed to log mood" when the store never answered; nothing is retried. On success the flow closes, its local state is dropped
// and the completion callback runs.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if err := f.editable(); err != nil {
		f.mu.Unlock()
		return err
	}
	f.errMsg = ""

	if f.mood == nil {
		f.errMsg = ErrNoMoodSelected.Message
		f.mu.Unlock()
		return ErrNoMoodSelected
	}

	var userID string
	var ok bool
	if f.identity != nil {
		userID, ok = f.identity.CurrentUser()
	}
	if !ok {
		f.errMsg = notAuthenticatedMessage
		f.mu.Unlock()
		return &SubmitError{Message: notAuthenticatedMessage}
	}

	entry := entity.MoodEntry{
		UserID:       userID,
		MoodScore:    f.mood.Score,
		MoodLabel:    f.mood.Label,
		EnergyLevel:  f.energy,
		StressLevel:  f.stress,
		AnxietyLevel: f.anxiety,
		Notes:        f.notes,
		Tags:         f.sortedTags(),
	}
	f.status = StatusSubmitting
	f.mu.Unlock()

	err := f.store.Insert(ctx, entity.MoodEntriesTable, &entry)

	f.mu.Lock()
	dismissed := f.status == StatusDismissed
	if err != nil {
		msg := failureMessage(err)
		if !dismissed {
			f.status = StatusIdle
			f.errMsg = msg
		}
		f.mu.Unlock()

		f.logger.Warn().Err(err).Str("user_id", userID).Bool("dismissed", dismissed).Msg("Mood entry submission failed")
		return &SubmitError{Message: msg, Err: err}
	}

	if !dismissed {
		f.status = StatusClosed
	}
	f.reset()
	onComplete := f.onComplete
	f.mu.Unlock()

	f.logger.Info().
		Str("user_id", userID).
		Int("mood_score", entry.MoodScore).
		Int("tags", len(entry.Tags)).
		Bool("dismissed", dismissed).
		Msg("Mood entry submitted")

	for _, fn := range onComplete {
		fn(entry)
	}
	return nil
}

// Dismiss ends the flow on behalf of its caller. A submit already in flight is
// not cancelled by the flow: it runs to completion and a stored entry still
// triggers the completion callback.
func (f *Flow) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == StatusClosed {
		return
	}
	f.status = StatusDismissed
}
