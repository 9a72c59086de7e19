package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/report"
	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

type PlanReader interface {
	Get(ctx context.Context, week string) (*domain.WeeklyPlan, error)
}

// SummaryService derives reports from the stored plan on every call.
type SummaryService struct {
	plans PlanReader
	loc   *time.Location
	now   func() time.Time
}

func NewSummaryService(plans PlanReader, loc *time.Location) *SummaryService {
	if loc == nil {
		loc = time.UTC
	}
	return &SummaryService{
		plans: plans,
		loc:   loc,
		now:   time.Now,
	}
}

func (s *SummaryService) WithClock(now func() time.Time) *SummaryService {
	s.now = now
	return s
}

func (s *SummaryService) Get(ctx context.Context, weekID string) (*domain.WeeklySummary, error) {
	if err := week.Validate(weekID); err != nil {
		return nil, err
	}

	plan, err := s.plans.Get(ctx, weekID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}

	return domain.Summarize(plan), nil
}

func (s *SummaryService) Markdown(ctx context.Context, weekID string) (string, error) {
	summary, err := s.Get(ctx, weekID)
	if err != nil {
		return "", err
	}
	return report.Markdown(summary, s.now().In(s.loc)), nil
}

func (s *SummaryService) HTML(ctx context.Context, weekID string) (string, error) {
	md, err := s.Markdown(ctx, weekID)
	if err != nil {
		return "", err
	}
	return report.HTML(md)
}
