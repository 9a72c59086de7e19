package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrItemNotFound = errors.New("workout item not found")
	ErrInvalidWeek  = errors.New("invalid week format (must be YYYY-WW)")
)

type WeeklyPlan struct {
	Week      string        `json:"week"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Items     []WorkoutItem `json:"items"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// FindItem returns the index of the first item with the given id, or -1.
func (p *WeeklyPlan) FindItem(itemID string) int {
	for i := range p.Items {
		if p.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

type PlanRepository interface {
	// Get returns the stored plan for a week, or (nil, nil) when none exists.
	Get(ctx context.Context, week string) (*WeeklyPlan, error)

	// Put replaces the whole stored document for plan.Week.
	Put(ctx context.Context, plan *WeeklyPlan) error

	// Delete removes the plan of a week. Deleting a missing plan is not an error.
	Delete(ctx context.Context, week string) error

	// ListWeeks returns every stored week identifier in ascending order.
	ListWeeks(ctx context.Context) ([]string, error)
}
