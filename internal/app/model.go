package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/jwulff/folio/internal/audit"
	"github.com/jwulff/folio/internal/examples"
	"github.com/jwulff/folio/internal/ui"
	"go.uber.org/zap"

	tea "github.com/charmbracelet/bubbletea"
)

// Screen is one top-level view of the TUI.
type Screen int

const (
	ScreenLanding Screen = iota
	ScreenUpload
	ScreenDashboard
	ScreenAudit
	ScreenRewrite
	ScreenExamples
)

func (s Screen) String() string {
	switch s {
	case ScreenUpload:
		return "New Audit"
	case ScreenDashboard:
		return "Archives"
	case ScreenAudit:
		return "Report"
	case ScreenRewrite:
		return "Rewrite"
	case ScreenExamples:
		return "Examples"
	default:
		return "Home"
	}
}

// menu is the landing-screen selector, in display order.
var menu = []Screen{ScreenUpload, ScreenDashboard, ScreenRewrite, ScreenExamples}

// Analyzer produces an audit report for portfolio text.
type Analyzer interface {
	Analyze(ctx context.Context, text string, program audit.Program) (*audit.Report, error)
}

// Rewriter rewrites one paragraph in a tone.
type Rewriter interface {
	Rewrite(ctx context.Context, text string, tone audit.Tone) (string, error)
}

// HistoryStore is the subset of the session store the TUI mutates.
type HistoryStore interface {
	Audits() []audit.SavedAudit
	Append(report audit.Report, program audit.Program) (audit.SavedAudit, error)
	Remove(id string) ([]audit.SavedAudit, error)
}

// Deps are the collaborators a Model is built from.
type Deps struct {
	Analyzer Analyzer
	Rewriter Rewriter
	Store    HistoryStore
	Logger   *zap.Logger

	// Timeout bounds each gateway call. Zero disables it.
	Timeout time.Duration
}

// Model is the root bubbletea model for the folio TUI.
type Model struct {
	analyzer Analyzer
	rewriter Rewriter
	store    HistoryStore
	log      *zap.Logger
	timeout  time.Duration

	screen    Screen
	menuIndex int
	width     int
	height    int

	// Upload
	upload  textarea.Model
	program audit.Program

	// Analysis in flight. analysisGen advances on every submit and every
	// abandon; results carrying an older generation are dropped.
	analyzing      bool
	analysisGen    int
	cancelAnalysis context.CancelFunc

	// Report
	current     *audit.Report
	currentName string
	reportTab   ui.ReportTab
	report      viewport.Model

	// History
	history  []audit.SavedAudit
	selected int

	// Rewrite
	rewriteInput  textarea.Model
	tone          audit.Tone
	rewriting     bool
	rewriteGen    int
	cancelRewrite context.CancelFunc
	rewritten     string

	// Examples
	examples viewport.Model

	spinner spinner.Model

	// Errors
	errorMessage   string
	errorTransient bool
	errorSeq       int
}

// New creates a Model on the landing screen with history loaded from the
// store.
func New(deps Deps) Model {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	upload := textarea.New()
	upload.Placeholder = "Paste your engineering portfolio text here..."
	upload.ShowLineNumbers = false
	upload.CharLimit = 0
	upload.MaxHeight = 0
	upload.Focus()

	rw := textarea.New()
	rw.Placeholder = "Paste one paragraph to rewrite..."
	rw.ShowLineNumbers = false
	rw.CharLimit = 0
	rw.MaxHeight = 0
	rw.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.SpinnerStyle

	m := Model{
		analyzer:     deps.Analyzer,
		rewriter:     deps.Rewriter,
		store:        deps.Store,
		log:          log,
		timeout:      deps.Timeout,
		screen:       ScreenLanding,
		upload:       upload,
		program:      audit.ProgramFTC,
		rewriteInput: rw,
		tone:         audit.ToneStrong,
		report:       viewport.New(80, 20),
		examples:     viewport.New(80, 20),
		spinner:      sp,
	}
	if deps.Store != nil {
		m.history = deps.Store.Audits()
	}
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// callContext derives the context for one gateway call.
func (m Model) callContext() (context.Context, context.CancelFunc) {
	if m.timeout > 0 {
		return context.WithTimeout(context.Background(), m.timeout)
	}
	return context.WithCancel(context.Background())
}

// analyzeCmd runs one analysis off the Update loop.
func analyzeCmd(ctx context.Context, cancel context.CancelFunc, a Analyzer, gen int, text string, p audit.Program) tea.Cmd {
	return func() tea.Msg {
		defer cancel()
		report, err := a.Analyze(ctx, text, p)
		return AnalysisDoneMsg{Gen: gen, Program: p, Report: report, Err: err}
	}
}

// rewriteCmd runs one rewrite off the Update loop.
func rewriteCmd(ctx context.Context, cancel context.CancelFunc, r Rewriter, gen int, text string, tone audit.Tone) tea.Cmd {
	return func() tea.Msg {
		defer cancel()
		out, err := r.Rewrite(ctx, text, tone)
		return RewriteDoneMsg{Gen: gen, Text: out, Err: err}
	}
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd(seq int) tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{Seq: seq}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.analyzing && !m.rewriting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case AnalysisDoneMsg:
		return m.handleAnalysisDone(msg)

	case RewriteDoneMsg:
		if !m.rewriting || msg.Gen != m.rewriteGen {
			m.log.Debug("dropping stale rewrite result", zap.Int("gen", msg.Gen), zap.Int("current", m.rewriteGen))
			return m, nil
		}
		m.rewriting = false
		m.cancelRewrite = nil
		if msg.Err != nil {
			cmd := m.setError(msg.Err, false)
			return m, cmd
		}
		m.rewritten = msg.Text
		return m, nil

	case ClearTransientErrorMsg:
		if m.errorTransient && msg.Seq == m.errorSeq {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleAnalysisDone(msg AnalysisDoneMsg) (tea.Model, tea.Cmd) {
	if !m.analyzing || msg.Gen != m.analysisGen {
		m.log.Debug("dropping stale analysis result", zap.Int("gen", msg.Gen), zap.Int("current", m.analysisGen))
		return m, nil
	}
	m.analyzing = false
	m.cancelAnalysis = nil
	if msg.Err != nil {
		cmd := m.setError(msg.Err, false)
		return m, cmd
	}

	m.current = msg.Report
	m.currentName = ""
	m.reportTab = ui.TabCategories
	m.screen = ScreenAudit

	var cmd tea.Cmd
	if m.store != nil {
		rec, err := m.store.Append(*msg.Report, msg.Program)
		if err != nil {
			m.log.Error("saving audit", zap.Error(err))
			cmd = m.setError(err, false)
		} else {
			m.currentName = rec.FileName
			m.history = m.store.Audits()
			m.selected = 0
		}
	}
	m.refreshReport()
	return m, cmd
}

// setError shows err in the error bar. Transient errors clear themselves.
func (m *Model) setError(err error, transient bool) tea.Cmd {
	m.errorSeq++
	m.errorMessage = audit.UserMessage(err)
	m.errorTransient = transient
	if transient {
		return clearTransientErrorCmd(m.errorSeq)
	}
	return nil
}

func (m *Model) clearError() {
	m.errorMessage = ""
	m.errorTransient = false
}

// abandonAnalysis gives up on the in-flight analysis, if any. Its result
// will arrive under an old generation and be dropped.
func (m *Model) abandonAnalysis() {
	if !m.analyzing {
		return
	}
	m.analysisGen++
	if m.cancelAnalysis != nil {
		m.cancelAnalysis()
		m.cancelAnalysis = nil
	}
	m.analyzing = false
	m.log.Debug("analysis abandoned", zap.Int("gen", m.analysisGen))
}

func (m *Model) abandonRewrite() {
	if !m.rewriting {
		return
	}
	m.rewriteGen++
	if m.cancelRewrite != nil {
		m.cancelRewrite()
		m.cancelRewrite = nil
	}
	m.rewriting = false
}

// navigate switches screens. Leaving a screen with a call in flight
// abandons that call.
func (m *Model) navigate(to Screen) {
	if m.screen == to {
		return
	}
	if m.screen == ScreenUpload {
		m.abandonAnalysis()
	}
	if m.screen == ScreenRewrite {
		m.abandonRewrite()
	}
	m.screen = to
	switch to {
	case ScreenExamples:
		m.examples.SetContent(ui.RenderMarkdown(ui.ExamplesMarkdown(examples.All()), m.contentWidth()))
		m.examples.GotoTop()
	case ScreenDashboard:
		m.selected = min(m.selected, max(0, len(m.history)-1))
	}
}

func (m Model) submitAnalysis() (Model, tea.Cmd) {
	if m.analyzing {
		return m, nil
	}
	text := m.upload.Value()
	if strings.TrimSpace(text) == "" {
		cmd := m.setError(audit.ErrValidation.WithMessage("paste some portfolio text first"), true)
		return m, cmd
	}
	if m.analyzer == nil {
		cmd := m.setError(audit.ErrAnalysis.WithMessage("no model provider configured, set an API key"), false)
		return m, cmd
	}
	m.clearError()
	m.analyzing = true
	m.analysisGen++
	ctx, cancel := m.callContext()
	m.cancelAnalysis = cancel
	m.log.Info("submitting analysis", zap.Int("gen", m.analysisGen), zap.String("program", string(m.program)))
	return m, tea.Batch(
		analyzeCmd(ctx, cancel, m.analyzer, m.analysisGen, text, m.program),
		m.spinner.Tick,
	)
}

func (m Model) submitRewrite() (Model, tea.Cmd) {
	if m.rewriting {
		return m, nil
	}
	text := m.rewriteInput.Value()
	if strings.TrimSpace(text) == "" {
		cmd := m.setError(audit.ErrValidation.WithMessage("paste a paragraph to rewrite first"), true)
		return m, cmd
	}
	if m.rewriter == nil {
		cmd := m.setError(audit.ErrRewrite.WithMessage("no model provider configured, set an API key"), false)
		return m, cmd
	}
	m.clearError()
	m.rewriting = true
	m.rewritten = ""
	m.rewriteGen++
	ctx, cancel := m.callContext()
	m.cancelRewrite = cancel
	return m, tea.Batch(
		rewriteCmd(ctx, cancel, m.rewriter, m.rewriteGen, text, m.tone),
		m.spinner.Tick,
	)
}

func (m Model) deleteSelected() (Model, tea.Cmd) {
	if m.store == nil || m.selected >= len(m.history) {
		return m, nil
	}
	id := m.history[m.selected].ID
	remaining, err := m.store.Remove(id)
	if err != nil {
		m.log.Error("removing audit", zap.String("id", id), zap.Error(err))
		cmd := m.setError(err, false)
		return m, cmd
	}
	m.history = remaining
	if m.selected >= len(m.history) {
		m.selected = max(0, len(m.history)-1)
	}
	return m, nil
}

func (m *Model) openSelected() {
	if m.selected >= len(m.history) {
		return
	}
	rec := m.history[m.selected]
	report := rec.Report
	m.current = &report
	m.currentName = rec.FileName
	m.reportTab = ui.TabCategories
	m.navigate(ScreenAudit)
	m.refreshReport()
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == KeyCtrlC {
		m.abandonAnalysis()
		m.abandonRewrite()
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenUpload:
		switch key {
		case KeyEsc:
			m.navigate(ScreenLanding)
			return m, nil
		case KeySubmit:
			return m.submitAnalysis()
		case KeyCycleProgram:
			if !m.analyzing {
				m.program = m.program.Next()
			}
			return m, nil
		}
		if m.analyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.upload, cmd = m.upload.Update(msg)
		return m, cmd

	case ScreenRewrite:
		switch key {
		case KeyEsc:
			m.navigate(ScreenLanding)
			return m, nil
		case KeySubmit:
			return m.submitRewrite()
		case KeyCycleTone:
			if !m.rewriting {
				m.tone = m.tone.Next()
			}
			return m, nil
		}
		if m.rewriting {
			return m, nil
		}
		var cmd tea.Cmd
		m.rewriteInput, cmd = m.rewriteInput.Update(msg)
		return m, cmd
	}

	if key == KeyQuit {
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenLanding:
		switch key {
		case KeyJ, KeyDown:
			m.menuIndex = min(m.menuIndex+1, len(menu)-1)
		case KeyK, KeyUp:
			m.menuIndex = max(m.menuIndex-1, 0)
		case KeyEnter:
			m.navigate(menu[m.menuIndex])
		case KeyGoUpload:
			m.navigate(ScreenUpload)
		case KeyGoHistory:
			m.navigate(ScreenDashboard)
		case KeyGoRewrite:
			m.navigate(ScreenRewrite)
		case KeyGoExamples:
			m.navigate(ScreenExamples)
		}
		return m, nil

	case ScreenDashboard:
		switch key {
		case KeyJ, KeyDown:
			if m.selected < len(m.history)-1 {
				m.selected++
			}
		case KeyK, KeyUp:
			if m.selected > 0 {
				m.selected--
			}
		case KeyEnter:
			m.openSelected()
		case KeyDelete:
			return m.deleteSelected()
		case KeyNew:
			m.navigate(ScreenUpload)
		case KeyEsc:
			m.navigate(ScreenLanding)
		}
		return m, nil

	case ScreenAudit:
		switch key {
		case KeyEsc:
			m.navigate(ScreenDashboard)
			return m, nil
		case KeyTab:
			m.reportTab = ui.ReportTabs[(int(m.reportTab)+1)%len(ui.ReportTabs)]
			m.refreshReport()
			return m, nil
		case KeyShiftTab:
			n := len(ui.ReportTabs)
			m.reportTab = ui.ReportTabs[(int(m.reportTab)+n-1)%n]
			m.refreshReport()
			return m, nil
		}
		var cmd tea.Cmd
		m.report, cmd = m.report.Update(msg)
		return m, cmd

	case ScreenExamples:
		if key == KeyEsc {
			m.navigate(ScreenLanding)
			return m, nil
		}
		var cmd tea.Cmd
		m.examples, cmd = m.examples.Update(msg)
		return m, cmd
	}

	return m, nil
}

// refreshReport re-renders the current report into the report viewport.
func (m *Model) refreshReport() {
	if m.current == nil {
		m.report.SetContent("")
		return
	}
	md := ui.ReportMarkdown(m.current, m.reportTab)
	m.report.SetContent(ui.RenderMarkdown(md, m.contentWidth()))
	m.report.GotoTop()
}

// bodyHeight is the space left under the header, tab row, divider, error
// bar and footer.
func (m Model) bodyHeight() int {
	if m.height == 0 {
		return 20
	}
	return max(5, m.height-7)
}

func (m Model) contentWidth() int {
	if m.width == 0 {
		return 80
	}
	return max(20, m.width-2)
}

func (m *Model) resize() {
	w, h := m.contentWidth(), m.bodyHeight()
	m.upload.SetWidth(w)
	m.upload.SetHeight(max(3, h-2))
	m.rewriteInput.SetWidth(w)
	m.rewriteInput.SetHeight(max(3, h/2-2))
	m.report.Width = w
	m.report.Height = h
	m.examples.Width = w
	m.examples.Height = h
	m.refreshReport()
	if m.screen == ScreenExamples {
		m.examples.SetContent(ui.RenderMarkdown(ui.ExamplesMarkdown(examples.All()), w))
	}
}
