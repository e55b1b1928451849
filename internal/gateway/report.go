package gateway

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jwulff/folio/internal/audit"
)

// Wire types mirror the report with pointer fields so that a missing
// required field can be told apart from a zero value.
type wireCategory struct {
	Name        *string   `json:"name"`
	Score       *float64  `json:"score"`
	Reasoning   *string   `json:"reasoning"`
	Evidence    *[]string `json:"evidence"`
	Gaps        *[]string `json:"gaps"`
	Suggestions *[]string `json:"suggestions"`
}

type wireWater struct {
	OriginalText *string `json:"originalText"`
	Reasoning    *string `json:"reasoning"`
	Suggestion   *string `json:"suggestion"`
}

type wireChecklist struct {
	Today        *[]string `json:"today"`
	ThisWeek     *[]string `json:"thisWeek"`
	BeforeSeason *[]string `json:"beforeSeason"`
}

type wireReport struct {
	OverallScore   *float64        `json:"overallScore"`
	Summary        *string         `json:"summary"`
	Categories     *[]wireCategory `json:"categories"`
	WaterDetection *[]wireWater    `json:"waterDetection"`
	Checklist      *wireChecklist  `json:"checklist"`
}

// fieldChecker collects the first missing required field.
type fieldChecker struct {
	missing string
}

func (c *fieldChecker) present(ok bool, path string) {
	if !ok && c.missing == "" {
		c.missing = path
	}
}

func (c *fieldChecker) str(p *string, path string) string {
	c.present(p != nil, path)
	if p == nil {
		return ""
	}
	return *p
}

func (c *fieldChecker) strs(p *[]string, path string) []string {
	c.present(p != nil, path)
	if p == nil {
		return nil
	}
	return *p
}

// DecodeReport parses a model response into a report, rejecting documents
// with missing required fields or out-of-range scores.
func DecodeReport(raw string) (*audit.Report, error) {
	var w wireReport
	if err := json.Unmarshal([]byte(stripFences(raw)), &w); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}

	var c fieldChecker
	c.present(w.OverallScore != nil, "overallScore")
	r := &audit.Report{
		Summary: c.str(w.Summary, "summary"),
	}
	if w.OverallScore != nil {
		r.OverallScore = *w.OverallScore
	}

	c.present(w.Categories != nil, "categories")
	if w.Categories != nil {
		r.Categories = make([]audit.Category, 0, len(*w.Categories))
		for i, wc := range *w.Categories {
			path := fmt.Sprintf("categories[%d].", i)
			cat := audit.Category{
				Name:        c.str(wc.Name, path+"name"),
				Reasoning:   c.str(wc.Reasoning, path+"reasoning"),
				Evidence:    c.strs(wc.Evidence, path+"evidence"),
				Gaps:        c.strs(wc.Gaps, path+"gaps"),
				Suggestions: c.strs(wc.Suggestions, path+"suggestions"),
			}
			c.present(wc.Score != nil, path+"score")
			if wc.Score != nil {
				if *wc.Score != math.Trunc(*wc.Score) {
					return nil, fmt.Errorf("%sscore %v is not an integer", path, *wc.Score)
				}
				cat.Score = int(*wc.Score)
			}
			r.Categories = append(r.Categories, cat)
		}
	}

	c.present(w.WaterDetection != nil, "waterDetection")
	if w.WaterDetection != nil {
		r.WaterDetection = make([]audit.WaterFinding, 0, len(*w.WaterDetection))
		for i, ww := range *w.WaterDetection {
			path := fmt.Sprintf("waterDetection[%d].", i)
			r.WaterDetection = append(r.WaterDetection, audit.WaterFinding{
				OriginalText: c.str(ww.OriginalText, path+"originalText"),
				Reasoning:    c.str(ww.Reasoning, path+"reasoning"),
				Suggestion:   c.str(ww.Suggestion, path+"suggestion"),
			})
		}
	}

	c.present(w.Checklist != nil, "checklist")
	if w.Checklist != nil {
		r.Checklist = audit.Checklist{
			Today:        c.strs(w.Checklist.Today, "checklist.today"),
			ThisWeek:     c.strs(w.Checklist.ThisWeek, "checklist.thisWeek"),
			BeforeSeason: c.strs(w.Checklist.BeforeSeason, "checklist.beforeSeason"),
		}
	}

	if c.missing != "" {
		return nil, fmt.Errorf("missing required field %s", c.missing)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// The info string (json, JSON, javascript...) runs to the first newline.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
