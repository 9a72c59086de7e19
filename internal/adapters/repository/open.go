package repository

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/musule-planner/internal/config"
	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
)

// Open builds the plan store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (domain.PlanRepository, error) {
	switch cfg.Driver {
	case config.StorageFile, "":
		repo, err := NewFilePlanRepository(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.StorageS3:
		repo, err := NewS3PlanRepository(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.StorageMemory:
		return NewInMemoryPlanRepository(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
