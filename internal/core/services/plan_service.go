package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

// Plans whose week started longer ago than this are removed by CleanupOld.
const retention = 365 * 24 * time.Hour

type PlanService struct {
	repo  domain.PlanRepository
	now   func() time.Time
	locks sync.Map
}

func NewPlanService(repo domain.PlanRepository) *PlanService {
	return &PlanService{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *PlanService) WithClock(now func() time.Time) *PlanService {
	s.now = now
	return s
}

func (s *PlanService) lock(weekID string) func() {
	v, _ := s.locks.LoadOrStore(weekID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Save overwrites the plan of a week with items. The creation time of an
// existing plan is kept.
func (s *PlanService) Save(ctx context.Context, weekID string, items []domain.WorkoutItem) (*domain.WeeklyPlan, error) {
	r, err := week.Dates(weekID)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(weekID)
	defer unlock()

	existing, err := s.repo.Get(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", weekID, err)
	}

	if items == nil {
		items = []domain.WorkoutItem{}
	}

	plan := &domain.WeeklyPlan{
		Week:      weekID,
		StartDate: r.StartDate(),
		EndDate:   r.EndDate(),
		Items:     items,
	}

	if existing != nil {
		plan.CreatedAt = existing.CreatedAt
	}
	s.touch(plan, existing)

	if err := s.repo.Put(ctx, plan); err != nil {
		return nil, fmt.Errorf("saving plan %s: %w", weekID, err)
	}

	log.Printf("[PLAN] Saved plan for week %s (%d items)", weekID, len(items))
	return plan, nil
}

// touch stamps UpdatedAt so that it always moves forward relative to the
// previous version of the plan.
func (s *PlanService) touch(plan, previous *domain.WeeklyPlan) {
	now := s.now().UTC()

	if previous != nil && !now.After(previous.UpdatedAt) {
		now = previous.UpdatedAt.Add(time.Microsecond)
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now
}

// Get returns (nil, nil) when the week has no plan.
func (s *PlanService) Get(ctx context.Context, weekID string) (*domain.WeeklyPlan, error) {
	if err := week.Validate(weekID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, weekID)
}

func (s *PlanService) UpdateStatus(ctx context.Context, weekID, itemID string, status domain.WorkoutStatus) (*domain.WeeklyPlan, error) {
	if err := week.Validate(weekID); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	unlock := s.lock(weekID)
	defer unlock()

	plan, err := s.repo.Get(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", weekID, err)
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}

	idx := plan.FindItem(itemID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}

	previous := *plan
	plan.Items[idx].Status = status
	s.touch(plan, &previous)

	if err := s.repo.Put(ctx, plan); err != nil {
		return nil, fmt.Errorf("saving plan %s: %w", weekID, err)
	}

	log.Printf("[PLAN] Week %s item %s -> %s", weekID, itemID, status)
	return plan, nil
}

func (s *PlanService) ListWeeks(ctx context.Context) ([]string, error) {
	return s.repo.ListWeeks(ctx)
}

// CleanupOld deletes plans whose week started more than a year before now and
// returns the weeks it removed. A plan that fails to delete is logged and left
// in place.
func (s *PlanService) CleanupOld(ctx context.Context, now time.Time) ([]string, error) {
	weeks, err := s.repo.ListWeeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}

	cutoff := now.Add(-retention)
	removed := []string{}

	for _, w := range weeks {
		r, err := week.Dates(w)
		if err != nil {
			log.Printf("[CLEANUP] Skipping unrecognized plan key %q: %v", w, err)
			continue
		}
		if !r.Start.Before(cutoff) {
			continue
		}

		unlock := s.lock(w)
		err = s.repo.Delete(ctx, w)
		unlock()
		if err != nil {
			log.Printf("[CLEANUP] Failed to delete plan %s: %v", w, err)
			continue
		}
		removed = append(removed, w)
	}

	if len(removed) > 0 {
		log.Printf("[CLEANUP] Removed %d old plan(s): %v", len(removed), removed)
	}
	return removed, nil
}
