package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
)

func TestWorkoutItem_Validate(t *testing.T) {
	valid := domain.WorkoutItem{
		ID:     "火-run-5km",
		Date:   "2025-07-08",
		Type:   domain.WorkoutTypeRun,
		Detail: "5km ランニング",
		Status: domain.StatusPending,
	}

	tests := []struct {
		name    string
		mutate  func(i *domain.WorkoutItem)
		wantErr bool
	}{
		{name: "Success: valid item", mutate: func(i *domain.WorkoutItem) {}},
		{name: "Error: empty id", mutate: func(i *domain.WorkoutItem) { i.ID = " " }, wantErr: true},
		{name: "Error: bad date", mutate: func(i *domain.WorkoutItem) { i.Date = "2025/07/08" }, wantErr: true},
		{name: "Error: unknown type", mutate: func(i *domain.WorkoutItem) { i.Type = "cycling" }, wantErr: true},
		{name: "Error: empty detail", mutate: func(i *domain.WorkoutItem) { i.Detail = "" }, wantErr: true},
		{name: "Error: unknown status", mutate: func(i *domain.WorkoutItem) { i.Status = "skipped" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid
			tt.mutate(&item)

			err := item.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidItem)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "done", "missed"} {
		got, err := domain.ParseStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, domain.WorkoutStatus(s), got)
	}

	_, err := domain.ParseStatus("DONE")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestWeeklyPlan_FindItem(t *testing.T) {
	plan := &domain.WeeklyPlan{Items: []domain.WorkoutItem{{ID: "a"}, {ID: "b"}, {ID: "b"}}}

	assert.Equal(t, 1, plan.FindItem("b"), "first match wins on duplicate ids")
	assert.Equal(t, -1, plan.FindItem("c"))
}
