// Package extractor turns an assistant reply into workout items.
//
// Grammar of the primary format:
//
//	block := "[WORKOUT_ITEM]" line* "[/WORKOUT_ITEM]"
//	line  := key ":" value
//	key   := "id" | "date" | "type" | "detail"   (anything else is ignored)
//
// A block becomes an item only when all four keys carry a non-empty value and
// type is one of run, strength or other. When no block yields an item, lines
// such as "- 火曜日: 5km ランニング" are used instead.
package extractor

import (
	"log"
	"regexp"
	"strings"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

const (
	OpenTag  = "[WORKOUT_ITEM]"
	CloseTag = "[/WORKOUT_ITEM]"
)

var (
	blockRegex   = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(OpenTag) + `(.*?)` + regexp.QuoteMeta(CloseTag))
	weekdayRegex = regexp.MustCompile(`(月|火|水|木|金|土|日)曜日.*?[:：]\s*(.+)`)
)

var (
	runWords      = []string{"ランニング", "ジョギング", "走る"}
	strengthWords = []string{"筋トレ", "筋力", "トレーニング", "ベンチ", "スクワット"}

	// ASCII words only count as whole words, so "crunches" is not a run.
	runWordRegex      = regexp.MustCompile(`\b(run|runs|running|jog|jogs|jogging)\b`)
	strengthWordRegex = regexp.MustCompile(`\bstrength\b`)
)

// Extract never fails; malformed input yields an empty slice.
func Extract(text, weekID string) []domain.WorkoutItem {
	items := ParseBlocks(text)
	if len(items) > 0 {
		return items
	}
	return ParseProse(text, weekID)
}

// ParseBlocks reads every sentinel block and keeps the complete ones.
func ParseBlocks(text string) []domain.WorkoutItem {
	items := []domain.WorkoutItem{}

	for _, m := range blockRegex.FindAllStringSubmatch(text, -1) {
		item, ok := parseBlock(m[1])
		if !ok {
			log.Printf("[EXTRACT] Discarding incomplete workout block: id=%q date=%q type=%q detail=%q",
				item.ID, item.Date, item.Type, item.Detail)
			continue
		}
		items = append(items, item)
	}

	return items
}

func parseBlock(body string) (domain.WorkoutItem, bool) {
	// status is never taken from the block
	item := domain.WorkoutItem{Status: domain.StatusPending}

	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		key, value, _ := strings.Cut(strings.TrimSpace(line), ":")
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "id":
			item.ID = value
		case "date":
			item.Date = value
		case "type":
			if t := domain.WorkoutType(value); t.IsValid() {
				item.Type = t
			}
		case "detail":
			item.Detail = value
		}
	}

	complete := item.ID != "" && item.Date != "" && item.Type != "" && item.Detail != ""
	return item, complete
}

// ParseProse is the fallback for replies without blocks. Each "X曜日...: text"
// line becomes an item dated on that weekday of weekID.
func ParseProse(text, weekID string) []domain.WorkoutItem {
	items := []domain.WorkoutItem{}

	if err := week.Validate(weekID); err != nil {
		log.Printf("[EXTRACT] Skipping prose fallback: %v", err)
		return items
	}

	for _, line := range strings.Split(text, "\n") {
		m := weekdayRegex.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		day, _ := week.WeekdayFromLabel(m[1])
		date, err := week.DateOf(weekID, day)
		if err != nil {
			continue
		}

		detail := strings.TrimSpace(m[2])
		t := Classify(detail)

		items = append(items, domain.WorkoutItem{
			ID:     week.WorkoutID(date, string(t), detail),
			Date:   date,
			Type:   t,
			Detail: detail,
			Status: domain.StatusPending,
		})
	}

	return items
}

// Classify guesses the workout type from a free-text description.
func Classify(detail string) domain.WorkoutType {
	lower := strings.ToLower(detail)
	if containsAny(lower, runWords) || runWordRegex.MatchString(lower) {
		return domain.WorkoutTypeRun
	}
	if containsAny(lower, strengthWords) || strengthWordRegex.MatchString(lower) {
		return domain.WorkoutTypeStrength
	}
	return domain.WorkoutTypeOther
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
