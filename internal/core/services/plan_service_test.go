package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/services"
)

func twoItems() []domain.WorkoutItem {
	return []domain.WorkoutItem{
		{ID: "火-run-5km", Date: "2025-07-15", Type: domain.WorkoutTypeRun, Detail: "5km ランニング", Status: domain.StatusPending},
		{ID: "木-strength-bench", Date: "2025-07-17", Type: domain.WorkoutTypeStrength, Detail: "ベンチプレス", Status: domain.StatusPending},
	}
}

// frozenClock always returns the same instant.
func frozenClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestPlanService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: computes bounds and stamps timestamps", func(t *testing.T) {
		repo := NewMockPlanRepo()
		now := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
		svc := services.NewPlanService(repo).WithClock(frozenClock(now))

		plan, err := svc.Save(ctx, "2025-28", twoItems())
		require.NoError(t, err)

		assert.Equal(t, "2025-07-14", plan.StartDate)
		assert.Equal(t, "2025-07-20", plan.EndDate)
		assert.Equal(t, now, plan.CreatedAt)
		assert.Equal(t, now, plan.UpdatedAt)

		stored, _ := repo.Get(ctx, "2025-28")
		assert.Equal(t, twoItems(), stored.Items)
	})

	t.Run("Overwrite replaces items and keeps createdAt", func(t *testing.T) {
		repo := NewMockPlanRepo()
		first := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
		clock := first
		svc := services.NewPlanService(repo).WithClock(func() time.Time { return clock })

		_, err := svc.Save(ctx, "2025-28", twoItems())
		require.NoError(t, err)

		clock = first.Add(time.Hour)
		plan, err := svc.Save(ctx, "2025-28", twoItems()[:1])
		require.NoError(t, err)

		assert.Len(t, plan.Items, 1)
		assert.Equal(t, first, plan.CreatedAt)
		assert.Equal(t, clock, plan.UpdatedAt)
	})

	t.Run("updatedAt advances even when the clock does not", func(t *testing.T) {
		repo := NewMockPlanRepo()
		svc := services.NewPlanService(repo).WithClock(frozenClock(time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)))

		a, err := svc.Save(ctx, "2025-28", twoItems())
		require.NoError(t, err)
		b, err := svc.Save(ctx, "2025-28", twoItems())
		require.NoError(t, err)

		assert.True(t, b.UpdatedAt.After(a.UpdatedAt))
	})

	t.Run("Empty items are stored as an empty list", func(t *testing.T) {
		repo := NewMockPlanRepo()
		svc := services.NewPlanService(repo)

		plan, err := svc.Save(ctx, "2025-28", nil)
		require.NoError(t, err)
		assert.NotNil(t, plan.Items)
		assert.Empty(t, plan.Items)
	})

	t.Run("Fail: invalid week", func(t *testing.T) {
		repo := NewMockPlanRepo()
		svc := services.NewPlanService(repo)

		_, err := svc.Save(ctx, "2025-99", twoItems())
		assert.ErrorIs(t, err, domain.ErrInvalidWeek)
		assert.Zero(t, repo.puts)
	})

	t.Run("Fail: storage error is wrapped", func(t *testing.T) {
		repo := NewMockPlanRepo()
		repo.failPut = errors.New("disk full")
		svc := services.NewPlanService(repo)

		_, err := svc.Save(ctx, "2025-28", twoItems())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestPlanService_Get(t *testing.T) {
	ctx := context.Background()
	repo := NewMockPlanRepo()
	svc := services.NewPlanService(repo)

	plan, err := svc.Get(ctx, "2025-28")
	require.NoError(t, err)
	assert.Nil(t, plan)

	_, err = svc.Save(ctx, "2025-28", twoItems())
	require.NoError(t, err)

	plan, err = svc.Get(ctx, "2025-28")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "2025-28", plan.Week)

	_, err = svc.Get(ctx, "../secrets")
	assert.ErrorIs(t, err, domain.ErrInvalidWeek)
}

func TestPlanService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*services.PlanService, *MockPlanRepo) {
		repo := NewMockPlanRepo()
		svc := services.NewPlanService(repo)
		_, err := svc.Save(ctx, "2025-28", twoItems())
		require.NoError(t, err)
		return svc, repo
	}

	t.Run("Success: only the target item changes", func(t *testing.T) {
		svc, repo := setup(t)
		before, _ := repo.Get(ctx, "2025-28")

		plan, err := svc.UpdateStatus(ctx, "2025-28", "火-run-5km", domain.StatusDone)
		require.NoError(t, err)

		assert.Equal(t, domain.StatusDone, plan.Items[0].Status)
		assert.Equal(t, domain.StatusPending, plan.Items[1].Status)
		assert.Equal(t, before.CreatedAt, plan.CreatedAt)
		assert.True(t, plan.UpdatedAt.After(before.UpdatedAt))

		stored, _ := repo.Get(ctx, "2025-28")
		assert.Equal(t, domain.StatusDone, stored.Items[0].Status)
	})

	t.Run("Duplicate ids: first match wins", func(t *testing.T) {
		repo := NewMockPlanRepo()
		svc := services.NewPlanService(repo)
		items := append(twoItems(), twoItems()[0])
		_, err := svc.Save(ctx, "2025-28", items)
		require.NoError(t, err)

		plan, err := svc.UpdateStatus(ctx, "2025-28", "火-run-5km", domain.StatusMissed)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusMissed, plan.Items[0].Status)
		assert.Equal(t, domain.StatusPending, plan.Items[2].Status)
	})

	t.Run("Fail: plan not found", func(t *testing.T) {
		repo := NewMockPlanRepo()
		svc := services.NewPlanService(repo)

		_, err := svc.UpdateStatus(ctx, "2025-28", "x", domain.StatusDone)
		assert.ErrorIs(t, err, domain.ErrPlanNotFound)
		assert.Zero(t, repo.puts)
	})

	t.Run("Fail: item not found leaves plan untouched", func(t *testing.T) {
		svc, repo := setup(t)
		puts := repo.puts
		before, _ := repo.Get(ctx, "2025-28")

		_, err := svc.UpdateStatus(ctx, "2025-28", "ghost", domain.StatusDone)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)

		after, _ := repo.Get(ctx, "2025-28")
		assert.Equal(t, puts, repo.puts)
		assert.Equal(t, before, after)
	})

	t.Run("Fail: invalid status", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.UpdateStatus(ctx, "2025-28", "火-run-5km", domain.WorkoutStatus("skipped"))
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}

func TestPlanService_ConcurrentStatusUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewMockPlanRepo()
	svc := services.NewPlanService(repo)

	items := make([]domain.WorkoutItem, 20)
	for i := range items {
		items[i] = domain.WorkoutItem{
			ID: fmt.Sprintf("item-%d", i), Date: "2025-07-14", Type: domain.WorkoutTypeOther,
			Detail: "stretch", Status: domain.StatusPending,
		}
	}
	_, err := svc.Save(ctx, "2025-28", items)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.UpdateStatus(ctx, "2025-28", id, domain.StatusDone)
			assert.NoError(t, err)
		}(items[i].ID)
	}
	wg.Wait()

	plan, err := svc.Get(ctx, "2025-28")
	require.NoError(t, err)
	for _, it := range plan.Items {
		assert.Equal(t, domain.StatusDone, it.Status, it.ID)
	}
}

func TestPlanService_CleanupOld(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Removes plans older than a year", func(t *testing.T) {
		repo := NewMockPlanRepo()
		svc := services.NewPlanService(repo)
		for _, w := range []string{"2023-40", "2024-20", "2024-40", "2025-28"} {
			_, err := svc.Save(ctx, w, twoItems())
			require.NoError(t, err)
		}

		removed, err := svc.CleanupOld(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, []string{"2023-40", "2024-20"}, removed)

		weeks, _ := svc.ListWeeks(ctx)
		assert.Equal(t, []string{"2024-40", "2025-28"}, weeks)
	})

	t.Run("A failing delete is skipped", func(t *testing.T) {
		repo := NewMockPlanRepo()
		svc := services.NewPlanService(repo)
		for _, w := range []string{"2022-10", "2023-10"} {
			_, err := svc.Save(ctx, w, nil)
			require.NoError(t, err)
		}
		repo.failDelete["2022-10"] = errors.New("permission denied")

		removed, err := svc.CleanupOld(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, []string{"2023-10"}, removed)

		weeks, _ := svc.ListWeeks(ctx)
		assert.Equal(t, []string{"2022-10"}, weeks)
	})
}

func TestPlanService_CleanupWaitsForWeekLock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	repo := NewMockPlanRepo()
	svc := services.NewPlanService(repo)
	_, err := svc.Save(ctx, "2023-40", nil)
	require.NoError(t, err)

	repo.deleting = make(chan string, 1)
	repo.releaseDelete = make(chan struct{})

	cleaned := make(chan []string, 1)
	go func() {
		removed, err := svc.CleanupOld(ctx, now)
		assert.NoError(t, err)
		cleaned <- removed
	}()

	require.Equal(t, "2023-40", <-repo.deleting)

	saved := make(chan error, 1)
	go func() {
		_, err := svc.Save(ctx, "2023-40", twoItems())
		saved <- err
	}()

	select {
	case <-saved:
		t.Fatal("save finished while the week was being deleted")
	case <-time.After(50 * time.Millisecond):
	}

	close(repo.releaseDelete)
	assert.Equal(t, []string{"2023-40"}, <-cleaned)
	require.NoError(t, <-saved)

	plan, err := svc.Get(ctx, "2023-40")
	require.NoError(t, err)
	require.NotNil(t, plan, "the save that waited for cleanup must survive it")
	assert.Len(t, plan.Items, 2)
}
