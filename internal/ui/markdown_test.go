package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/jwulff/folio/internal/audit"
	"github.com/jwulff/folio/internal/examples"
	"github.com/stretchr/testify/assert"
)

func testReport() *audit.Report {
	return &audit.Report{
		OverallScore: 92,
		Summary:      "Clear data-driven story.",
		Categories: []audit.Category{
			{Name: "Iteration", Score: 5, Evidence: []string{"30% to 5% jam rate"}, Gaps: []string{}},
			{Name: "Outreach", Score: 2, Evidence: []string{}, Gaps: []string{"No attendance numbers"}},
		},
		WaterDetection: []audit.WaterFinding{{OriginalText: "We worked hard.", Reasoning: "vague", Suggestion: "quantify"}},
		Checklist:      audit.Checklist{Today: []string{"Add captions"}},
	}
}

func TestScoreBar(t *testing.T) {
	assert.Equal(t, "●●●○○", ScoreBar(3))
	assert.Equal(t, "○○○○○", ScoreBar(-2))
	assert.Equal(t, "●●●●●", ScoreBar(9))
}

func TestReportMarkdownTabs(t *testing.T) {
	r := testReport()

	md := ReportMarkdown(r, TabCategories)
	assert.Contains(t, md, "# 92 / 100  ·  Award Contender")
	assert.Contains(t, md, "### Iteration")
	assert.Contains(t, md, "- ✗ No attendance numbers")

	md = ReportMarkdown(r, TabWater)
	assert.Contains(t, md, "> We worked hard.")
	assert.NotContains(t, md, "### Iteration")

	md = ReportMarkdown(r, TabChecklist)
	assert.Contains(t, md, "- [ ] Add captions")
	assert.Contains(t, md, "_Nothing here._")

	md = ReportMarkdown(r, TabJudge)
	assert.Contains(t, md, `- "30% to 5% jam rate"`)
	assert.Contains(t, md, "- **Outreach** (2/5): No attendance numbers")
}

func TestReportMarkdownZeroCategories(t *testing.T) {
	r := &audit.Report{OverallScore: 10, Categories: []audit.Category{}}
	md := ReportMarkdown(r, TabCategories)
	assert.Contains(t, md, "No categories were scored")

	md = ReportMarkdown(r, TabJudge)
	assert.Contains(t, md, "No quotable evidence yet")
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "92", formatScore(92))
	assert.Equal(t, "87.5", formatScore(87.5))
	assert.Equal(t, "0", formatScore(0))
}

func TestFullReportMarkdown(t *testing.T) {
	rec := audit.SavedAudit{ID: "1712345678901", Date: "4/5/2024", Program: audit.ProgramFTC,
		FileName: "Protocol_8901", Report: *testReport()}
	md := FullReportMarkdown(rec)
	for _, want := range []string{"# Protocol_8901", "## Categories", "## Water Scan", "## Action Plan"} {
		assert.Contains(t, md, want)
	}
}

func TestExamplesMarkdown(t *testing.T) {
	md := ExamplesMarkdown(examples.All())
	assert.Equal(t, 3, strings.Count(md, "**Why it works:**"))
	assert.Contains(t, md, "`OUTREACH`")
}

func TestRenderMarkdown(t *testing.T) {
	out := ansi.Strip(RenderMarkdown("# Title\n\nbody text", 40))
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
}
