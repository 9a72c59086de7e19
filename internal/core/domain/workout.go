package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidItem   = errors.New("invalid workout item")
	ErrInvalidStatus = errors.New("invalid status (must be pending, done, or missed)")
)

type WorkoutType string

const (
	WorkoutTypeRun      WorkoutType = "run"
	WorkoutTypeStrength WorkoutType = "strength"
	WorkoutTypeOther    WorkoutType = "other"
)

func (t WorkoutType) IsValid() bool {
	switch t {
	case WorkoutTypeRun, WorkoutTypeStrength, WorkoutTypeOther:
		return true
	}
	return false
}

type WorkoutStatus string

const (
	StatusPending WorkoutStatus = "pending"
	StatusDone    WorkoutStatus = "done"
	StatusMissed  WorkoutStatus = "missed"
)

func (s WorkoutStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusDone, StatusMissed:
		return true
	}
	return false
}

// ParseStatus accepts only the three known status values.
func ParseStatus(s string) (WorkoutStatus, error) {
	st := WorkoutStatus(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

type WorkoutItem struct {
	ID     string        `json:"id"`
	Date   string        `json:"date"`
	Type   WorkoutType   `json:"type"`
	Detail string        `json:"detail"`
	Status WorkoutStatus `json:"status"`
}

// Validate checks an item submitted directly by a client. Items coming out of
// the extractor are complete by construction.
func (i WorkoutItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if _, err := time.Parse(time.DateOnly, i.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD (item %s)", ErrInvalidItem, i.ID)
	}
	if !i.Type.IsValid() {
		return fmt.Errorf("%w: type must be run, strength, or other (item %s)", ErrInvalidItem, i.ID)
	}
	if strings.TrimSpace(i.Detail) == "" {
		return fmt.Errorf("%w: detail is required (item %s)", ErrInvalidItem, i.ID)
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("%w: %v (item %s)", ErrInvalidItem, ErrInvalidStatus, i.ID)
	}
	return nil
}
