package services_test

import (
	"context"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
)

// MockPlanRepo keeps deep copies so callers cannot mutate stored plans.
type MockPlanRepo struct {
	mu         sync.Mutex
	store      map[string]*domain.WeeklyPlan
	puts       int
	failPut    error
	failGet    error
	failDelete map[string]error

	// When set, Delete signals deleting and waits on releaseDelete.
	deleting      chan string
	releaseDelete chan struct{}
}

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{
		store:      make(map[string]*domain.WeeklyPlan),
		failDelete: make(map[string]error),
	}
}

func clonePlan(p *domain.WeeklyPlan) *domain.WeeklyPlan {
	c := *p
	c.Items = append([]domain.WorkoutItem(nil), p.Items...)
	return &c
}

func (m *MockPlanRepo) Get(ctx context.Context, week string) (*domain.WeeklyPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failGet != nil {
		return nil, m.failGet
	}
	p, ok := m.store[week]
	if !ok {
		return nil, nil
	}
	return clonePlan(p), nil
}

func (m *MockPlanRepo) Put(ctx context.Context, plan *domain.WeeklyPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failPut != nil {
		return m.failPut
	}
	m.puts++
	m.store[plan.Week] = clonePlan(plan)
	return nil
}

func (m *MockPlanRepo) Delete(ctx context.Context, week string) error {
	if m.releaseDelete != nil {
		m.deleting <- week
		<-m.releaseDelete
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failDelete[week]; err != nil {
		return err
	}
	delete(m.store, week)
	return nil
}

func (m *MockPlanRepo) ListWeeks(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	weeks := make([]string, 0, len(m.store))
	for w := range m.store {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)
	return weeks, nil
}

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockCompleter) Name() string {
	return "mock"
}
