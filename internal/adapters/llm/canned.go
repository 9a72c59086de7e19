package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/extractor"
	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

const (
	cannedPlanningReply = "今週のワークアウトプランを教えてください。例：\n\n- 火曜日に5kmランニング\n- 木曜日に筋トレ（ベンチプレス）\n- 土曜日に3kmジョギング\n\nのように具体的に教えてください！"
	cannedGenericReply  = "ワークアウトの内容を具体的に教えてください。ランニングや筋トレなど、どのような運動を予定していますか？"
)

type cannedWorkout struct {
	keywords []string
	word     *regexp.Regexp
	day      time.Weekday
	kind     domain.WorkoutType
	detail   string
	reply    string
}

var cannedWorkouts = []cannedWorkout{
	{
		keywords: []string{"ランニング", "走る"},
		word:     regexp.MustCompile(`\brun\b`),
		day:      time.Tuesday,
		kind:     domain.WorkoutTypeRun,
		detail:   "5km ランニング",
		reply:    "5kmランニングを計画に追加しました！頑張ってください！",
	},
	{
		keywords: []string{"筋トレ", "筋力"},
		word:     regexp.MustCompile(`\bstrength\b`),
		day:      time.Wednesday,
		kind:     domain.WorkoutTypeStrength,
		detail:   "ベンチプレス 3セット",
		reply:    "ベンチプレスを計画に追加しました！",
	},
}

var planningWords = []string{"今週", "計画", "プラン"}

// CannedCompleter answers without any external service. It recognises a few
// keywords in the last user message and replies in the same block format a
// live model is asked to use, with dates inside the requested week.
type CannedCompleter struct{}

func NewCannedCompleter() *CannedCompleter {
	return &CannedCompleter{}
}

func (c *CannedCompleter) Name() string {
	return "canned"
}

func (c *CannedCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	last := ""
	if n := len(req.Messages); n > 0 {
		last = strings.ToLower(req.Messages[n-1].Content)
	}

	var replies []string
	var blocks strings.Builder

	for _, w := range cannedWorkouts {
		if !containsAny(last, w.keywords) && !w.word.MatchString(last) {
			continue
		}

		date, err := week.DateOf(req.Week, w.day)
		if err != nil {
			return "", err
		}

		replies = append(replies, w.reply)
		fmt.Fprintf(&blocks, "\n\n%s\nid: %s\ndate: %s\ntype: %s\ndetail: %s\nstatus: pending\n%s",
			extractor.OpenTag,
			week.WorkoutID(date, string(w.kind), w.detail),
			date, w.kind, w.detail,
			extractor.CloseTag)
	}

	switch {
	case len(replies) > 0:
		return strings.Join(replies, "\n") + blocks.String(), nil
	case containsAny(last, planningWords):
		return cannedPlanningReply, nil
	default:
		return cannedGenericReply, nil
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
