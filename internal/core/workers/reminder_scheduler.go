package workers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

const (
	MessagePlanning = "今週のワークアウトプランを教えてください。どのような運動を予定していますか？"
	MessageCheckin  = "今週の進捗はいかがですか？残りのワークアウトを確認してみましょう。"
	MessageWrapUp   = "今週のワークアウトの結果を共有してください。来週の計画も立てましょう。"
)

type PlanStore interface {
	Get(ctx context.Context, week string) (*domain.WeeklyPlan, error)
	CleanupOld(ctx context.Context, now time.Time) ([]string, error)
}

type JobKind string

const (
	JobPlanning JobKind = "planning"
	JobCheckin  JobKind = "checkin"
	JobWrapUp   JobKind = "wrapup"
	JobCleanup  JobKind = "cleanup"
)

type Job struct {
	Kind JobKind
	Week string
	At   time.Time
}

type trigger struct {
	kind    JobKind
	daily   bool
	weekday time.Weekday
	hour    int
}

// Wall-clock times in the scheduler's location.
var triggers = []trigger{
	{kind: JobPlanning, weekday: time.Monday, hour: 7},
	{kind: JobCheckin, weekday: time.Friday, hour: 12},
	{kind: JobWrapUp, weekday: time.Sunday, hour: 18},
	{kind: JobCleanup, daily: true, hour: 3},
}

type ReminderScheduler struct {
	plans  PlanStore
	loc    *time.Location
	now    func() time.Time
	tick   time.Duration
	jobs   chan Job
	fired  map[JobKind]string
	notify func(job Job, message string)
}

func NewReminderScheduler(plans PlanStore, loc *time.Location) *ReminderScheduler {
	return &ReminderScheduler{
		plans:  plans,
		loc:    loc,
		now:    time.Now,
		tick:   time.Minute,
		jobs:   make(chan Job, 100),
		fired:  make(map[JobKind]string),
		notify: logNotification,
	}
}

func logNotification(job Job, message string) {
	log.Printf("[NOTIFICATION] %s for week %s: %s", job.Kind, job.Week, message)
}

func (s *ReminderScheduler) Start(ctx context.Context) {
	go func() {
		log.Printf("[SCHEDULER] Reminder scheduler started (%s)", s.loc)
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				for _, job := range s.due(s.now()) {
					s.Enqueue(job)
				}
			case job := <-s.jobs:
				s.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("[SCHEDULER] Reminder scheduler shutting down...")
				return
			}
		}
	}()
}

func (s *ReminderScheduler) Enqueue(job Job) {
	select {
	case s.jobs <- job:
	default:
		log.Printf("[SCHEDULER] Queue full! Dropping %s job for week %s", job.Kind, job.Week)
	}
}

// due returns the jobs whose trigger hour contains now. Each trigger fires at
// most once per matching hour, so a late or drifting tick still fires it once.
func (s *ReminderScheduler) due(now time.Time) []Job {
	local := now.In(s.loc)
	stamp := local.Format("2006-01-02T15")
	weekID := week.Current(now, s.loc)

	var jobs []Job
	for _, tr := range triggers {
		if !tr.daily && local.Weekday() != tr.weekday {
			continue
		}
		if local.Hour() != tr.hour || s.fired[tr.kind] == stamp {
			continue
		}
		s.fired[tr.kind] = stamp
		jobs = append(jobs, Job{Kind: tr.kind, Week: weekID, At: now})
	}
	return jobs
}

func (s *ReminderScheduler) processJob(ctx context.Context, job Job) {
	switch job.Kind {
	case JobPlanning:
		log.Printf("[SCHEDULER] Weekly planning prompt for week %s", job.Week)
		s.notify(job, MessagePlanning)

	case JobCheckin:
		log.Printf("[SCHEDULER] Mid-week check-in for week %s", job.Week)
		plan, err := s.plans.Get(ctx, job.Week)
		if err != nil {
			log.Printf("[SCHEDULER] Failed to load plan %s: %v", job.Week, err)
			return
		}
		s.notify(job, checkinMessage(plan))

	case JobWrapUp:
		log.Printf("[SCHEDULER] Weekly wrap-up for week %s", job.Week)
		plan, err := s.plans.Get(ctx, job.Week)
		if err != nil {
			log.Printf("[SCHEDULER] Failed to load plan %s: %v", job.Week, err)
			return
		}
		s.notify(job, wrapUpMessage(plan))

	case JobCleanup:
		removed, err := s.plans.CleanupOld(ctx, job.At)
		if err != nil {
			log.Printf("[SCHEDULER] Cleanup failed: %v", err)
			return
		}
		log.Printf("[SCHEDULER] Cleanup removed %d plan(s)", len(removed))

	default:
		log.Printf("[SCHEDULER] Unknown job kind %q", job.Kind)
	}
}

func checkinMessage(plan *domain.WeeklyPlan) string {
	if plan == nil {
		return MessageCheckin + " まだ今週のプランがありません。"
	}

	var pending []string
	for _, it := range plan.Items {
		if it.Status == domain.StatusPending {
			pending = append(pending, fmt.Sprintf("%s (%s)", it.Detail, it.Date))
		}
	}
	if len(pending) == 0 {
		return MessageCheckin + " 残りのワークアウトはありません。"
	}
	return fmt.Sprintf("%s 残り%d件: %s", MessageCheckin, len(pending), strings.Join(pending, ", "))
}

func wrapUpMessage(plan *domain.WeeklyPlan) string {
	if plan == nil {
		return MessageWrapUp + " 今週のプランは登録されていません。"
	}

	s := domain.Summarize(plan)
	return fmt.Sprintf("%s 完了率 %.1f%% (%d/%d)", MessageWrapUp, s.CompletionRate, s.CompletedWorkouts, s.TotalWorkouts)
}
