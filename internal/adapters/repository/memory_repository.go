package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
)

type InMemoryPlanRepository struct {
	store map[string]*domain.WeeklyPlan

	mu sync.RWMutex
}

func NewInMemoryPlanRepository() *InMemoryPlanRepository {
	return &InMemoryPlanRepository{
		store: make(map[string]*domain.WeeklyPlan),
	}
}

func copyPlan(p *domain.WeeklyPlan) *domain.WeeklyPlan {
	c := *p
	c.Items = append([]domain.WorkoutItem{}, p.Items...)
	return &c
}

func (r *InMemoryPlanRepository) Get(ctx context.Context, week string) (*domain.WeeklyPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.store[week]
	if !ok {
		return nil, nil
	}
	return copyPlan(plan), nil
}

func (r *InMemoryPlanRepository) Put(ctx context.Context, plan *domain.WeeklyPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[plan.Week] = copyPlan(plan)
	return nil
}

func (r *InMemoryPlanRepository) Delete(ctx context.Context, week string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, week)
	return nil
}

func (r *InMemoryPlanRepository) ListWeeks(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	weeks := make([]string, 0, len(r.store))
	for w := range r.store {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)

	return weeks, nil
}
