package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventcal/internal/log"
	"eventcal/internal/schedule"
	"eventcal/internal/timer"
)

// Kind separates user-created recurring timers from one-shot event
// countdowns.
type Kind string

const (
	KindRecurring Kind = "recurring"
	KindEvent     Kind = "event"
)

// Limits on user-supplied text and slot counts, shared with the API
// layer so form validation and storage agree.
const (
	LabelMinLen      = 3
	LabelMaxLen      = 40
	ShortLabelMinLen = 2
	ShortLabelMaxLen = 15
	SummaryMaxLen    = 250
	MaxDailyTimes    = 6
	MaxWeeklyTimes   = 7
)

var (
	ErrNotFound      = errors.New("custom timer not found")
	ErrLabelLength   = fmt.Errorf("label must be %d to %d characters", LabelMinLen, LabelMaxLen)
	ErrShortLabel    = fmt.Errorf("short label must be %d to %d characters", ShortLabelMinLen, ShortLabelMaxLen)
	ErrSummaryLength = fmt.Errorf("summary must be at most %d characters", SummaryMaxLen)
	ErrTooManySlots  = errors.New("too many time slots")
	ErrMissingField  = errors.New("missing required field")
	ErrUnknownKind   = errors.New("unknown custom timer type")
)

// Custom is one user-created timer. Recurring timers carry a Schedule;
// event timers carry an end instant and a category.
type Custom struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"type"`
	Label      string `json:"label"`
	ShortLabel string `json:"shortLabel"`
	Icon       string `json:"icon"`
	Summary    string `json:"summary,omitempty"`

	Schedule *schedule.Schedule `json:"schedule,omitempty"`

	EndsAt   *time.Time          `json:"endsAt,omitempty"`
	Category timer.EventCategory `json:"category,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Definition converts a recurring custom timer into the engine's card
// shape. Returns false for event-kind timers.
func (c Custom) Definition() (timer.Definition, bool) {
	if c.Kind != KindRecurring || c.Schedule == nil {
		return timer.Definition{}, false
	}
	return timer.Definition{
		ID:         c.ID,
		Label:      c.Label,
		ShortLabel: c.ShortLabel,
		Icon:       c.Icon,
		Schedule:   *c.Schedule,
	}, true
}

// Event converts an event custom timer into the engine's event shape.
// Returns false for recurring-kind timers.
func (c Custom) Event() (timer.Event, bool) {
	if c.Kind != KindEvent || c.EndsAt == nil {
		return timer.Event{}, false
	}
	category := c.Category
	if category == "" {
		category = timer.CategoryOther
	}
	return timer.Event{
		ID:         c.ID,
		Label:      c.Label,
		ShortLabel: c.ShortLabel,
		Icon:       c.Icon,
		Category:   category,
		EndsAt:     *c.EndsAt,
	}, true
}

const storageVersion = 1

// document is the on-disk shape: a versioned wrapper so the format can
// be migrated later without guessing.
type document struct {
	Version int      `json:"version"`
	Timers  []Custom `json:"timers"`
}

// Store keeps custom timers in memory and mirrors every change to a
// JSON file written atomically (temp file + rename, 0600).
type Store struct {
	path string

	mu     sync.RWMutex
	timers []Custom
}

// Open loads the store at path. A missing file yields an empty store;
// the file is created on first write.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}

	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("custom timer store %s: %w", path, err)
	}
	s.timers = doc.Timers

	log.Info("custom timers loaded", "path", path, "count", len(doc.Timers))
	return s, nil
}

// List returns a copy of all custom timers.
func (s *Store) List() []Custom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Custom, len(s.timers))
	copy(out, s.timers)
	return out
}

// Get returns the timer with the given id.
func (s *Store) Get(id string) (Custom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.timers {
		if t.ID == id {
			return t, nil
		}
	}
	return Custom{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Input carries the user-editable fields for create and update.
type Input struct {
	Kind       Kind   `json:"type"`
	Label      string `json:"label"`
	ShortLabel string `json:"shortLabel"`
	Icon       string `json:"icon"`
	Summary    string `json:"summary,omitempty"`

	Schedule *schedule.Schedule `json:"schedule,omitempty"`

	EndsAt   *time.Time          `json:"endsAt,omitempty"`
	Category timer.EventCategory `json:"category,omitempty"`
}

func (in *Input) validate() error {
	// Length limits apply to the trimmed raw input; escaping happens
	// afterward and may legitimately push the stored form past them.
	in.Label = strings.TrimSpace(in.Label)
	in.ShortLabel = strings.TrimSpace(in.ShortLabel)
	in.Summary = strings.TrimSpace(in.Summary)

	if n := len(in.Label); n < LabelMinLen || n > LabelMaxLen {
		return ErrLabelLength
	}
	if n := len(in.ShortLabel); n < ShortLabelMinLen || n > ShortLabelMaxLen {
		return ErrShortLabel
	}
	if len(in.Summary) > SummaryMaxLen {
		return ErrSummaryLength
	}

	in.Label = sanitizeText(in.Label)
	in.ShortLabel = sanitizeText(in.ShortLabel)
	in.Summary = sanitizeText(in.Summary)

	switch in.Kind {
	case KindRecurring:
		if in.Schedule == nil {
			return fmt.Errorf("%w: schedule", ErrMissingField)
		}
		if err := in.Schedule.Validate(); err != nil {
			return err
		}
		switch in.Schedule.Type {
		case schedule.TypeDailyMulti:
			if len(in.Schedule.Times) > MaxDailyTimes {
				return fmt.Errorf("%w: at most %d daily times", ErrTooManySlots, MaxDailyTimes)
			}
		case schedule.TypeWeeklyTimes:
			if len(in.Schedule.Times) > MaxWeeklyTimes {
				return fmt.Errorf("%w: at most %d weekly times", ErrTooManySlots, MaxWeeklyTimes)
			}
		}
		return nil
	case KindEvent:
		if in.EndsAt == nil {
			return fmt.Errorf("%w: endsAt", ErrMissingField)
		}
		if in.Category == "" {
			in.Category = timer.CategoryOther
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, in.Kind)
	}
}

// Create validates in, assigns an id and timestamps, and persists.
func (s *Store) Create(in Input) (Custom, error) {
	if err := in.validate(); err != nil {
		return Custom{}, err
	}

	now := time.Now().UTC()
	t := Custom{
		ID:         "custom-" + uuid.NewString(),
		Kind:       in.Kind,
		Label:      in.Label,
		ShortLabel: in.ShortLabel,
		Icon:       in.Icon,
		Summary:    in.Summary,
		Schedule:   in.Schedule,
		EndsAt:     in.EndsAt,
		Category:   in.Category,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = append(s.timers, t)
	if err := s.saveLocked(); err != nil {
		s.timers = s.timers[:len(s.timers)-1]
		return Custom{}, err
	}
	return t, nil
}

// Update replaces the editable fields of an existing timer. The kind is
// allowed to change along with its payload, matching the edit form.
func (s *Store) Update(id string, in Input) (Custom, error) {
	if err := in.validate(); err != nil {
		return Custom{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.timers {
		if t.ID != id {
			continue
		}
		updated := t
		updated.Kind = in.Kind
		updated.Label = in.Label
		updated.ShortLabel = in.ShortLabel
		updated.Icon = in.Icon
		updated.Summary = in.Summary
		updated.Schedule = in.Schedule
		updated.EndsAt = in.EndsAt
		updated.Category = in.Category
		updated.UpdatedAt = time.Now().UTC()

		s.timers[i] = updated
		if err := s.saveLocked(); err != nil {
			s.timers[i] = t
			return Custom{}, err
		}
		return updated, nil
	}
	return Custom{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes the timer with the given id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.timers {
		if t.ID != id {
			continue
		}
		removed := s.timers[i]
		s.timers = append(s.timers[:i], s.timers[i+1:]...)
		if err := s.saveLocked(); err != nil {
			s.timers = append(s.timers[:i], append([]Custom{removed}, s.timers[i:]...)...)
			return err
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// DeleteAll removes every custom timer.
func (s *Store) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.timers
	s.timers = nil
	if err := s.saveLocked(); err != nil {
		s.timers = old
		return err
	}
	return nil
}

// saveLocked writes the document atomically. Callers hold s.mu.
func (s *Store) saveLocked() error {
	doc := document{Version: storageVersion, Timers: s.timers}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eventcal-timers-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

// sanitizeText neutralizes markup-significant characters so stored
// labels are safe to echo into any UI. Callers trim before validating
// lengths; the escaped form may be longer than the raw one.
func sanitizeText(text string) string {
	r := strings.NewReplacer(
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
		"/", "&#x2F;",
	)
	return r.Replace(text)
}
