package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
)

const weekListKey = "musule:plan_weeks"

var _ domain.PlanRepository = (*CachedPlanRepository)(nil)

// CachedPlanRepository keeps the week listing in Redis. Plan documents are
// always read from the underlying store.
type CachedPlanRepository struct {
	next  domain.PlanRepository
	cache *redis.Client
	ttl   time.Duration
}

func NewCachedPlanRepository(next domain.PlanRepository, cache *redis.Client) *CachedPlanRepository {
	return &CachedPlanRepository{
		next:  next,
		cache: cache,
		ttl:   30 * time.Minute,
	}
}

func (r *CachedPlanRepository) invalidate(ctx context.Context) {
	if err := r.cache.Del(ctx, weekListKey).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate week list: %v", err)
	}
}

func (r *CachedPlanRepository) Get(ctx context.Context, week string) (*domain.WeeklyPlan, error) {
	return r.next.Get(ctx, week)
}

func (r *CachedPlanRepository) Put(ctx context.Context, plan *domain.WeeklyPlan) error {
	if err := r.next.Put(ctx, plan); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedPlanRepository) Delete(ctx context.Context, week string) error {
	if err := r.next.Delete(ctx, week); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedPlanRepository) ListWeeks(ctx context.Context) ([]string, error) {
	val, err := r.cache.Get(ctx, weekListKey).Result()
	if err == nil {
		var weeks []string
		if err := json.Unmarshal([]byte(val), &weeks); err == nil {
			return weeks, nil
		}

		log.Printf("[CACHE] Corrupted week list, cleaning up key")
		r.cache.Del(ctx, weekListKey)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	weeks, err := r.next.ListWeeks(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(weeks); err == nil {
		if setErr := r.cache.Set(ctx, weekListKey, data, r.ttl).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return weeks, nil
}
