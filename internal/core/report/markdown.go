// Package report renders a weekly summary for people to read.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

var statusGlyph = map[domain.WorkoutStatus]string{
	domain.StatusDone:    "✅",
	domain.StatusPending: "⏳",
	domain.StatusMissed:  "❌",
}

var statusLabel = map[domain.WorkoutStatus]string{
	domain.StatusDone:    "完了",
	domain.StatusPending: "未実施",
	domain.StatusMissed:  "スキップ",
}

var typeGlyph = map[domain.WorkoutType]string{
	domain.WorkoutTypeRun:      "🏃",
	domain.WorkoutTypeStrength: "💪",
	domain.WorkoutTypeOther:    "🤸",
}

// Markdown renders the fixed-layout weekly report. generatedAt should already
// be in the planner's timezone.
func Markdown(s *domain.WeeklySummary, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Week %s ワークアウト サマリー\n\n", s.Week)

	b.WriteString("## 概要\n")
	fmt.Fprintf(&b, "- **総ワークアウト数**: %d\n", s.TotalWorkouts)
	fmt.Fprintf(&b, "- **完了したワークアウト**: %d\n", s.CompletedWorkouts)
	fmt.Fprintf(&b, "- **未完了のワークアウト**: %d\n", s.MissedWorkouts)
	fmt.Fprintf(&b, "- **完了率**: %.1f%%\n\n", s.CompletionRate)

	b.WriteString("## ワークアウト詳細\n\n")
	if len(s.Items) == 0 {
		b.WriteString("_ワークアウトが登録されていません_\n\n")
	}
	for _, item := range s.Items {
		writeItem(&b, item)
	}

	b.WriteString("## ハイライト\n")
	writeList(&b, s.Highlights, "特筆すべき点はありません")

	b.WriteString("\n## 推奨事項\n")
	writeList(&b, s.Recommendations, "現在の調子を維持してください")

	fmt.Fprintf(&b, "\n---\n*Generated on %d/%d/%d*\n",
		generatedAt.Year(), int(generatedAt.Month()), generatedAt.Day())

	return b.String()
}

func writeItem(b *strings.Builder, item domain.WorkoutItem) {
	day := week.DayLabel(item.Date)
	if day != "" {
		day += "曜日"
	}

	fmt.Fprintf(b, "### %s %s - %s\n", statusGlyph[item.Status], day, item.Detail)
	fmt.Fprintf(b, "- **タイプ**: %s %s\n", typeGlyph[item.Type], item.Type)
	fmt.Fprintf(b, "- **日付**: %s\n", item.Date)
	fmt.Fprintf(b, "- **ステータス**: %s\n\n", statusLabel[item.Status])
}

func writeList(b *strings.Builder, lines []string, empty string) {
	if len(lines) == 0 {
		fmt.Fprintf(b, "- %s\n", empty)
		return
	}
	for _, l := range lines {
		fmt.Fprintf(b, "- %s\n", l)
	}
}

// HTML converts a rendered markdown report to an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("report: converting markdown: %w", err)
	}
	return buf.String(), nil
}
