package domain

const (
	HighlightAllComplete      = "🎉 全てのワークアウトを完了しました！"
	HighlightGreatConsistency = "💪 素晴らしい継続力です！"
	HighlightAllRunsDone      = "🏃 ランニングのワークアウトを全て完了しました"
	HighlightAllStrengthDone  = "💪 筋力トレーニングのワークアウトを全て完了しました"

	RecommendCarryOver   = "未完了のワークアウトがあります。可能であれば次週に追加してみてください"
	RecommendFinishWeek  = "まだ実施していないワークアウトがあります。週末に実施してみてください"
	RecommendLighterPlan = "ワークアウトの頻度を調整して、より実現可能な計画を立ててみてください"
	RecommendAddCardio   = "有酸素運動（ランニング）も含めてみてください"
	RecommendAddStrength = "筋力トレーニングも含めてみてください"
	RecommendKeepItUp    = "素晴らしい週でした！この調子を維持してください"
)

type WeeklySummary struct {
	Week              string        `json:"week"`
	TotalWorkouts     int           `json:"totalWorkouts"`
	CompletedWorkouts int           `json:"completedWorkouts"`
	MissedWorkouts    int           `json:"missedWorkouts"`
	CompletionRate    float64       `json:"completionRate"`
	Items             []WorkoutItem `json:"items"`
	Highlights        []string      `json:"highlights"`
	Recommendations   []string      `json:"recommendations"`
}

type itemCounts struct {
	total, done, missed, pending int
	runs, runsDone               int
	strength, strengthDone       int
}

func countItems(items []WorkoutItem) itemCounts {
	var c itemCounts
	c.total = len(items)
	for _, it := range items {
		switch it.Status {
		case StatusDone:
			c.done++
		case StatusMissed:
			c.missed++
		case StatusPending:
			c.pending++
		}

		switch it.Type {
		case WorkoutTypeRun:
			c.runs++
			if it.Status == StatusDone {
				c.runsDone++
			}
		case WorkoutTypeStrength:
			c.strength++
			if it.Status == StatusDone {
				c.strengthDone++
			}
		}
	}
	return c
}

// Summarize derives the weekly summary from the plan's items alone.
func Summarize(plan *WeeklyPlan) *WeeklySummary {
	items := plan.Items
	if items == nil {
		items = []WorkoutItem{}
	}

	c := countItems(items)

	rate := 0.0
	if c.total > 0 {
		rate = float64(c.done) / float64(c.total) * 100
	}

	return &WeeklySummary{
		Week:              plan.Week,
		TotalWorkouts:     c.total,
		CompletedWorkouts: c.done,
		MissedWorkouts:    c.missed,
		CompletionRate:    rate,
		Items:             items,
		Highlights:        highlights(c),
		Recommendations:   recommendations(c),
	}
}

func highlights(c itemCounts) []string {
	out := []string{}

	if c.total > 0 && c.done == c.total {
		out = append(out, HighlightAllComplete)
	}
	// done/total >= 0.8, kept in integers so 4/5 is exactly on the threshold
	if c.total > 0 && c.done*10 >= c.total*8 {
		out = append(out, HighlightGreatConsistency)
	}
	if c.runs > 0 && c.runsDone == c.runs {
		out = append(out, HighlightAllRunsDone)
	}
	if c.strength > 0 && c.strengthDone == c.strength {
		out = append(out, HighlightAllStrengthDone)
	}

	return out
}

func recommendations(c itemCounts) []string {
	out := []string{}

	if c.missed > 0 {
		out = append(out, RecommendCarryOver)
	}
	if c.pending > 0 {
		out = append(out, RecommendFinishWeek)
	}
	if c.done*2 < c.total {
		out = append(out, RecommendLighterPlan)
	}
	if c.runs == 0 {
		out = append(out, RecommendAddCardio)
	}
	if c.strength == 0 {
		out = append(out, RecommendAddStrength)
	}

	if len(out) == 0 {
		out = append(out, RecommendKeepItUp)
	}
	return out
}
