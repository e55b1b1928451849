// Package audit defines the portfolio audit data model shared by the
// gateways, the history store, and the TUI.
package audit

import (
	"fmt"
	"strings"
)

// Program is a competition category. It selects the rubric embedded in an
// analysis request.
type Program string

const (
	ProgramFTC Program = "FTC"
	ProgramFRC Program = "FRC"
	ProgramFLL Program = "FLL"
)

// Programs lists every program in display order.
var Programs = []Program{ProgramFTC, ProgramFRC, ProgramFLL}

// ParseProgram resolves a program tag case-insensitively.
func ParseProgram(s string) (Program, error) {
	for _, p := range Programs {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", ErrValidation.WithMessagef("unknown program %q (allowed: FTC, FRC, FLL)", s)
}

// Valid reports whether p is one of the fixed program tags.
func (p Program) Valid() bool {
	for _, q := range Programs {
		if p == q {
			return true
		}
	}
	return false
}

// Next returns the program after p, wrapping around.
func (p Program) Next() Program {
	for i, q := range Programs {
		if p == q {
			return Programs[(i+1)%len(Programs)]
		}
	}
	return Programs[0]
}

// Tone is a rewrite style.
type Tone string

const (
	ToneStrong        Tone = "strong"
	ToneJudgeFriendly Tone = "judge-friendly"
	ToneConcise       Tone = "concise"
)

// Tones lists every tone in display order.
var Tones = []Tone{ToneStrong, ToneJudgeFriendly, ToneConcise}

// ParseTone resolves a tone name. Matching is exact apart from case.
func ParseTone(s string) (Tone, error) {
	for _, t := range Tones {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", ErrValidation.WithMessagef("unknown tone %q (allowed: strong, judge-friendly, concise)", s)
}

// Valid reports whether t is one of the fixed tones.
func (t Tone) Valid() bool {
	for _, u := range Tones {
		if t == u {
			return true
		}
	}
	return false
}

// Next returns the tone after t, wrapping around.
func (t Tone) Next() Tone {
	for i, u := range Tones {
		if t == u {
			return Tones[(i+1)%len(Tones)]
		}
	}
	return Tones[0]
}

// Label is the tone as shown to the user ("judge friendly").
func (t Tone) Label() string {
	return strings.ReplaceAll(string(t), "-", " ")
}

// Category is one scored rubric dimension.
type Category struct {
	Name        string   `json:"name"`
	Score       int      `json:"score"`
	Reasoning   string   `json:"reasoning"`
	Evidence    []string `json:"evidence"`
	Gaps        []string `json:"gaps"`
	Suggestions []string `json:"suggestions"`
}

// WaterFinding is one flagged low-substance passage.
type WaterFinding struct {
	OriginalText string `json:"originalText"`
	Reasoning    string `json:"reasoning"`
	Suggestion   string `json:"suggestion"`
}

// Checklist buckets action items by urgency.
type Checklist struct {
	Today        []string `json:"today"`
	ThisWeek     []string `json:"thisWeek"`
	BeforeSeason []string `json:"beforeSeason"`
}

// Report is the full result of one analysis. Reports are treated as
// immutable once produced.
type Report struct {
	OverallScore   float64        `json:"overallScore"`
	Summary        string         `json:"summary"`
	Categories     []Category     `json:"categories"`
	WaterDetection []WaterFinding `json:"waterDetection"`
	Checklist      Checklist      `json:"checklist"`
}

// Score bounds.
const (
	MinCategoryScore = 1
	MaxCategoryScore = 5
	MaxOverallScore  = 100
)

// contenderThreshold is the overall score above which a portfolio is
// reported as an award contender.
const contenderThreshold = 75

// Verdict is the one-line headline shown next to the overall score.
func (r *Report) Verdict() string {
	if r.OverallScore > contenderThreshold {
		return "Award Contender"
	}
	return "Needs Optimization"
}

// Validate checks the range invariants of a report.
func (r *Report) Validate() error {
	if r.OverallScore < 0 || r.OverallScore > MaxOverallScore {
		return fmt.Errorf("overallScore %v out of range [0,%d]", r.OverallScore, MaxOverallScore)
	}
	for i, c := range r.Categories {
		if c.Score < MinCategoryScore || c.Score > MaxCategoryScore {
			return fmt.Errorf("categories[%d] %q: score %d out of range [%d,%d]",
				i, c.Name, c.Score, MinCategoryScore, MaxCategoryScore)
		}
	}
	return nil
}

// SavedAudit is a persisted history record wrapping one report.
type SavedAudit struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Program  Program `json:"program"`
	FileName string  `json:"fileName"`
	Report   Report  `json:"report"`
}

// FileNamePrefix starts every display label.
const FileNamePrefix = "Protocol_"

// FileNameForID derives the display label from a record id: the prefix
// followed by the id's last four characters.
func FileNameForID(id string) string {
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return FileNamePrefix + id
}
