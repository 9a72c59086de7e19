package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

const planExt = ".json"

// FilePlanRepository stores one pretty-printed JSON document per week in a
// directory. Writes go to a temporary file that is renamed into place, so a
// reader never sees a partial document.
type FilePlanRepository struct {
	dir string
}

func NewFilePlanRepository(dir string) (*FilePlanRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}
	return &FilePlanRepository{dir: dir}, nil
}

func (r *FilePlanRepository) path(weekID string) (string, error) {
	if err := week.Validate(weekID); err != nil {
		return "", err
	}
	return filepath.Join(r.dir, weekID+planExt), nil
}

func (r *FilePlanRepository) Get(ctx context.Context, weekID string) (*domain.WeeklyPlan, error) {
	p, err := r.path(weekID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading plan %s: %w", weekID, err)
	}

	var plan domain.WeeklyPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decoding plan %s: %w", weekID, err)
	}
	return &plan, nil
}

func (r *FilePlanRepository) Put(ctx context.Context, plan *domain.WeeklyPlan) error {
	p, err := r.path(plan.Week)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plan %s: %w", plan.Week, err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+plan.Week+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing plan %s: %w", plan.Week, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing plan %s: %w", plan.Week, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing plan %s: %w", plan.Week, err)
	}

	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("replacing plan %s: %w", plan.Week, err)
	}
	return nil
}

func (r *FilePlanRepository) Delete(ctx context.Context, weekID string) error {
	p, err := r.path(weekID)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting plan %s: %w", weekID, err)
	}
	return nil
}

func (r *FilePlanRepository) ListWeeks(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.dir, err)
	}

	weeks := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, planExt) {
			continue
		}

		id := strings.TrimSuffix(name, planExt)
		if week.Validate(id) != nil {
			continue
		}
		weeks = append(weeks, id)
	}
	sort.Strings(weeks)

	return weeks, nil
}
