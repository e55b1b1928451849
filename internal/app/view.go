package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jwulff/folio/internal/audit"
	"github.com/jwulff/folio/internal/ui"
)

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	switch m.screen {
	case ScreenUpload:
		sections = append(sections, m.renderUpload())
	case ScreenDashboard:
		sections = append(sections, m.renderDashboard())
	case ScreenAudit:
		sections = append(sections, m.renderAudit())
	case ScreenRewrite:
		sections = append(sections, m.renderRewrite())
	case ScreenExamples:
		sections = append(sections, m.examples.View())
	default:
		sections = append(sections, m.renderLanding())
	}

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("FOLIO")
	var status string
	switch {
	case m.analyzing:
		status = "  " + m.spinner.View() + ui.DimStyle.Render(" analyzing "+string(m.program)+" portfolio...")
	case m.rewriting:
		status = "  " + m.spinner.View() + ui.DimStyle.Render(" rewriting...")
	}
	return title + ui.DimStyle.Render(" · "+m.screen.String()) + status
}

func (m Model) renderLanding() string {
	lines := []string{
		"",
		ui.PanelTitleStyle.Render("  Engineering portfolio auditor"),
		ui.DimStyle.Render("  Score your portfolio against the FIRST judging rubric, find the filler,"),
		ui.DimStyle.Render("  and get a prioritized plan to fix it."),
		"",
	}
	shortcuts := map[Screen]string{
		ScreenUpload:    KeyGoUpload,
		ScreenDashboard: KeyGoHistory,
		ScreenRewrite:   KeyGoRewrite,
		ScreenExamples:  KeyGoExamples,
	}
	for i, s := range menu {
		label := fmt.Sprintf("[%s] %s", shortcuts[s], s)
		if i == m.menuIndex {
			lines = append(lines, ui.SelectedStyle.Render("> "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	if n := len(m.history); n > 0 {
		lines = append(lines, "", ui.DimStyle.Render(fmt.Sprintf("  %d saved audit(s)", n)))
	}
	return padLines(lines, m.bodyHeight())
}

func (m Model) renderUpload() string {
	var programs []string
	for _, p := range audit.Programs {
		if p == m.program {
			programs = append(programs, ui.ProgramStyle(p).Reverse(true).Render(string(p)))
		} else {
			programs = append(programs, ui.DimStyle.Render(" "+string(p)+" "))
		}
	}
	header := ui.PanelTitleStyle.Render("Program: ") + strings.Join(programs, " ")
	return header + "\n\n" + m.upload.View()
}

func (m Model) renderDashboard() string {
	header := ui.PanelTitleStyle.Render(fmt.Sprintf("ARCHIVES (%d)", len(m.history)))
	lines := []string{header}
	if len(m.history) == 0 {
		lines = append(lines, "", ui.DimStyle.Render("  No audits yet. Press n to start one."))
		return padLines(lines, m.bodyHeight())
	}

	visible := m.bodyHeight() - 1
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := min(len(m.history), start+visible)
	for i := start; i < end; i++ {
		rec := m.history[i]
		score := ui.ScoreStyle(rec.Report.OverallScore).Render(fmt.Sprintf("%5.1f", rec.Report.OverallScore))
		row := fmt.Sprintf("%-14s %s %-10s %s  %s",
			rec.FileName,
			ui.ProgramStyle(rec.Program).Render(string(rec.Program)),
			rec.Date,
			score,
			ui.DimStyle.Render(rec.Report.Verdict()),
		)
		if i == m.selected {
			lines = append(lines, ui.SelectedStyle.Render("> ")+row)
		} else {
			lines = append(lines, "  "+row)
		}
	}
	return padLines(lines, m.bodyHeight())
}

func (m Model) renderAudit() string {
	var tabs []string
	for _, t := range ui.ReportTabs {
		if t == m.reportTab {
			tabs = append(tabs, ui.NavActiveStyle.Render(t.String()))
		} else {
			tabs = append(tabs, ui.NavStyle.Render(t.String()))
		}
	}
	row := strings.Join(tabs, "  ")
	if m.currentName != "" {
		row = ui.DimStyle.Render(m.currentName+"  ") + row
	}
	return row + "\n" + m.report.View()
}

func (m Model) renderRewrite() string {
	var tones []string
	for _, t := range audit.Tones {
		if t == m.tone {
			tones = append(tones, ui.NavActiveStyle.Render(t.Label()))
		} else {
			tones = append(tones, ui.NavStyle.Render(t.Label()))
		}
	}
	var b strings.Builder
	b.WriteString(ui.PanelTitleStyle.Render("Tone: ") + strings.Join(tones, "  "))
	b.WriteString("\n\n")
	b.WriteString(m.rewriteInput.View())
	b.WriteString("\n\n")
	b.WriteString(ui.PanelTitleStyle.Render("Rewritten"))
	b.WriteString("\n")
	if m.rewritten == "" {
		b.WriteString(ui.DimStyle.Render("  Your improved paragraph will appear here."))
	} else {
		b.WriteString(lipgloss.NewStyle().Width(m.contentWidth()).Render(m.rewritten))
	}
	return b.String()
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return ui.FooterKeyStyle.Render(k) + ui.FooterDescStyle.Render(" "+desc)
	}

	var parts []string
	switch m.screen {
	case ScreenLanding:
		parts = append(parts, key("j/k", "Nav"), key("Enter", "Open"))
	case ScreenUpload:
		parts = append(parts, key("Ctrl+S", "Analyze"), key("Ctrl+P", "Program"), key("Esc", "Back"))
	case ScreenDashboard:
		parts = append(parts, key("j/k", "Nav"), key("Enter", "Open"), key("d", "Delete"), key("n", "New"), key("Esc", "Back"))
	case ScreenAudit:
		parts = append(parts, key("Tab", "Section"), key("↑↓", "Scroll"), key("Esc", "Archives"))
	case ScreenRewrite:
		parts = append(parts, key("Ctrl+S", "Rewrite"), key("Ctrl+T", "Tone"), key("Esc", "Back"))
	case ScreenExamples:
		parts = append(parts, key("↑↓", "Scroll"), key("Esc", "Back"))
	}
	if m.screen == ScreenUpload || m.screen == ScreenRewrite {
		parts = append(parts, key("Ctrl+C", "Quit"))
	} else {
		parts = append(parts, key("q", "Quit"))
	}
	return strings.Join(parts, "  ")
}

// Helpers

func padLines(lines []string, height int) string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
