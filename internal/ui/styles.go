package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/jwulff/folio/internal/audit"
)

// Colors used throughout the TUI.
var (
	ColorPink    = lipgloss.Color("#FF007F")
	ColorRose    = lipgloss.Color("#F43F5E")
	ColorGreen   = lipgloss.Color("#10B981")
	ColorAmber   = lipgloss.Color("#F59E0B")
	ColorOrange  = lipgloss.Color("#F97316")
	ColorBlue    = lipgloss.Color("#2563EB")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPink)

	NavStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	NavActiveStyle = lipgloss.NewStyle().
			Foreground(ColorPink).
			Bold(true).
			Underline(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRose).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRose)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPink).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAmber).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorPink)

	BadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)
)

// ProgramStyle colors a program badge: FTC orange, FRC blue, FLL green.
func ProgramStyle(p audit.Program) lipgloss.Style {
	switch p {
	case audit.ProgramFTC:
		return BadgeStyle.Foreground(ColorOrange)
	case audit.ProgramFRC:
		return BadgeStyle.Foreground(ColorBlue)
	case audit.ProgramFLL:
		return BadgeStyle.Foreground(ColorGreen)
	default:
		return BadgeStyle.Foreground(ColorPink)
	}
}

// ScoreStyle colors an overall score: green from 85, amber from 70,
// rose below.
func ScoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 85:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	case score >= 70:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorAmber)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorRose)
	}
}
