// Package ui holds the TUI palette and the report renderers.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jwulff/folio/internal/audit"
	"github.com/jwulff/folio/internal/examples"
)

// ReportTab selects one section of the report view.
type ReportTab int

const (
	TabCategories ReportTab = iota
	TabWater
	TabChecklist
	TabJudge
)

// ReportTabs lists the tabs in display order.
var ReportTabs = []ReportTab{TabCategories, TabWater, TabChecklist, TabJudge}

func (t ReportTab) String() string {
	switch t {
	case TabWater:
		return "Water Scan"
	case TabChecklist:
		return "Action Plan"
	case TabJudge:
		return "Judge View"
	default:
		return "Categories"
	}
}

// ScoreBar draws a 1-5 score as filled and empty pips.
func ScoreBar(score int) string {
	score = max(0, min(score, audit.MaxCategoryScore))
	return strings.Repeat("●", score) + strings.Repeat("○", audit.MaxCategoryScore-score)
}

// ReportMarkdown renders the header and one tab of a report as markdown.
func ReportMarkdown(r *audit.Report, tab ReportTab) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s / 100  ·  %s\n\n", formatScore(r.OverallScore), r.Verdict())
	if r.Summary != "" {
		fmt.Fprintf(&b, "> %s\n\n", r.Summary)
	}

	switch tab {
	case TabCategories:
		writeCategories(&b, r.Categories)
	case TabWater:
		writeWater(&b, r.WaterDetection)
	case TabChecklist:
		writeChecklist(&b, r.Checklist)
	case TabJudge:
		writeJudge(&b, r)
	}
	return b.String()
}

// FullReportMarkdown renders every tab in sequence, for export.
func FullReportMarkdown(rec audit.SavedAudit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s · %s · id %s\n\n", rec.FileName, rec.Program, rec.Date, rec.ID)
	r := rec.Report
	fmt.Fprintf(&b, "## Overall: %s / 100 (%s)\n\n", formatScore(r.OverallScore), r.Verdict())
	if r.Summary != "" {
		fmt.Fprintf(&b, "> %s\n\n", r.Summary)
	}
	writeCategories(&b, r.Categories)
	writeWater(&b, r.WaterDetection)
	writeChecklist(&b, r.Checklist)
	return b.String()
}

func formatScore(s float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", s), "0"), ".")
}

func writeList(b *strings.Builder, title, mark string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s %s\n", mark, it)
	}
	b.WriteString("\n")
}

func writeCategories(b *strings.Builder, cats []audit.Category) {
	b.WriteString("## Categories\n\n")
	if len(cats) == 0 {
		b.WriteString("_No categories were scored for this portfolio._\n\n")
		return
	}
	for _, c := range cats {
		fmt.Fprintf(b, "### %s  `%s` %d/5\n\n", c.Name, ScoreBar(c.Score), c.Score)
		if c.Reasoning != "" {
			fmt.Fprintf(b, "%s\n\n", c.Reasoning)
		}
		writeList(b, "Evidence", "✓", c.Evidence)
		writeList(b, "Gaps", "✗", c.Gaps)
		writeList(b, "Suggestions", "→", c.Suggestions)
	}
}

func writeWater(b *strings.Builder, findings []audit.WaterFinding) {
	b.WriteString("## Water Scan\n\n")
	if len(findings) == 0 {
		b.WriteString("_No low-substance passages found._\n\n")
		return
	}
	for i, f := range findings {
		fmt.Fprintf(b, "### Finding %d\n\n", i+1)
		fmt.Fprintf(b, "> %s\n\n", f.OriginalText)
		fmt.Fprintf(b, "**Why it's weak:** %s\n\n", f.Reasoning)
		fmt.Fprintf(b, "**Try instead:** %s\n\n", f.Suggestion)
	}
}

func writeChecklist(b *strings.Builder, c audit.Checklist) {
	b.WriteString("## Action Plan\n\n")
	buckets := []struct {
		title string
		items []string
	}{
		{"Immediate Fixes (today)", c.Today},
		{"Weekly Sprint (this week)", c.ThisWeek},
		{"Season Roadmap (before season)", c.BeforeSeason},
	}
	for _, bucket := range buckets {
		fmt.Fprintf(b, "### %s\n\n", bucket.title)
		if len(bucket.items) == 0 {
			b.WriteString("_Nothing here._\n\n")
			continue
		}
		for _, it := range bucket.items {
			fmt.Fprintf(b, "- [ ] %s\n", it)
		}
		b.WriteString("\n")
	}
}

// writeJudge shows what a judge skimming the portfolio will remember: the
// strongest proof point of each category and the lowest-scoring areas.
func writeJudge(b *strings.Builder, r *audit.Report) {
	b.WriteString("## Judge View\n\n")
	b.WriteString("Judges scan, they don't read. These are the lines that will stick.\n\n")

	b.WriteString("### Winning Proof Points\n\n")
	n := 0
	for _, c := range r.Categories {
		if len(c.Evidence) > 0 {
			fmt.Fprintf(b, "- \"%s\"\n", c.Evidence[0])
			n++
		}
	}
	if n == 0 {
		b.WriteString("_No quotable evidence yet._\n")
	}
	b.WriteString("\n### Weakest Areas\n\n")
	n = 0
	for _, c := range r.Categories {
		if c.Score <= 2 {
			gap := "no specific gap reported"
			if len(c.Gaps) > 0 {
				gap = c.Gaps[0]
			}
			fmt.Fprintf(b, "- **%s** (%d/5): %s\n", c.Name, c.Score, gap)
			n++
		}
	}
	if n == 0 {
		b.WriteString("_No category scored below 3._\n")
	}
	b.WriteString("\n")
}

// ExamplesMarkdown renders the example library.
func ExamplesMarkdown(list []examples.Example) string {
	var b strings.Builder
	b.WriteString("# Portfolio Example Bank\n\nLearn from high-scoring snippets from championship teams.\n\n")
	for _, ex := range list {
		fmt.Fprintf(&b, "## %s  `%s`\n\n", ex.Title, strings.ToUpper(ex.Tag))
		fmt.Fprintf(&b, "> %s\n\n", ex.Content)
		fmt.Fprintf(&b, "**Why it works:** %s\n\n", ex.Strength)
	}
	return b.String()
}

// RenderMarkdown renders md for a terminal of the given width. On a
// renderer error the raw markdown is returned.
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
