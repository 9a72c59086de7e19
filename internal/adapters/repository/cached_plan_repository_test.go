package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/musule-planner/internal/adapters/repository"
	"github.com/comitanigiacomo/musule-planner/internal/config"
	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
)

type countingRepo struct {
	domain.PlanRepository
	listCalls int
}

func (c *countingRepo) ListWeeks(ctx context.Context) ([]string, error) {
	c.listCalls++
	return c.PlanRepository.ListWeeks(ctx)
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		t.Skipf("Skipping Redis cache test: %v", err)
	}
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestCachedPlanRepository(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	runContract(t, func(t *testing.T) domain.PlanRepository {
		require.NoError(t, rdb.FlushDB(ctx).Err())
		return repository.NewCachedPlanRepository(repository.NewInMemoryPlanRepository(), rdb)
	})

	t.Run("Week list is served from cache until a write", func(t *testing.T) {
		require.NoError(t, rdb.FlushDB(ctx).Err())
		inner := &countingRepo{PlanRepository: repository.NewInMemoryPlanRepository()}
		repo := repository.NewCachedPlanRepository(inner, rdb)

		require.NoError(t, repo.Put(ctx, newPlan("2025-28")))

		weeks, err := repo.ListWeeks(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-28"}, weeks)

		weeks, err = repo.ListWeeks(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-28"}, weeks)
		assert.Equal(t, 1, inner.listCalls)

		require.NoError(t, repo.Put(ctx, newPlan("2025-29")))
		weeks, err = repo.ListWeeks(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-28", "2025-29"}, weeks)
		assert.Equal(t, 2, inner.listCalls)

		require.NoError(t, repo.Delete(ctx, "2025-28"))
		weeks, err = repo.ListWeeks(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-29"}, weeks)
	})

	t.Run("Corrupted cache entry is replaced", func(t *testing.T) {
		require.NoError(t, rdb.FlushDB(ctx).Err())
		repo := repository.NewCachedPlanRepository(repository.NewInMemoryPlanRepository(), rdb)
		require.NoError(t, repo.Put(ctx, newPlan("2025-28")))
		require.NoError(t, rdb.Set(ctx, "musule:plan_weeks", "{not json", time.Minute).Err())

		weeks, err := repo.ListWeeks(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-28"}, weeks)
	})
}

func TestCachedPlanRepository_RedisDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer rdb.Close()

	ctx := context.Background()
	repo := repository.NewCachedPlanRepository(repository.NewInMemoryPlanRepository(), rdb)

	require.NoError(t, repo.Put(ctx, newPlan("2025-28")))

	weeks, err := repo.ListWeeks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-28"}, weeks)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("File store is the default", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := repository.Open(ctx, config.StorageConfig{DataDir: dir})
		require.NoError(t, err)
		assert.IsType(t, &repository.FilePlanRepository{}, repo)
	})

	t.Run("Memory store", func(t *testing.T) {
		repo, err := repository.Open(ctx, config.StorageConfig{Driver: config.StorageMemory})
		require.NoError(t, err)
		assert.IsType(t, &repository.InMemoryPlanRepository{}, repo)
	})

	t.Run("Unknown driver", func(t *testing.T) {
		_, err := repository.Open(ctx, config.StorageConfig{Driver: "dynamo"})
		assert.ErrorContains(t, err, "unknown storage driver")
	})
}
