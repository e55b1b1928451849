package gateway

import (
	_ "embed"
	"fmt"

	"github.com/jwulff/folio/internal/audit"
)

//go:embed prompts/rubric_ftc.md
var rubricFTC string

//go:embed prompts/rubric_frc.md
var rubricFRC string

//go:embed prompts/rubric_fll.md
var rubricFLL string

// Rubric returns the scoring criteria embedded in analysis requests for p.
func Rubric(p audit.Program) string {
	switch p {
	case audit.ProgramFRC:
		return rubricFRC
	case audit.ProgramFLL:
		return rubricFLL
	default:
		return rubricFTC
	}
}

// AnalysisPrompt builds the instruction sent with the report schema.
func AnalysisPrompt(text string, p audit.Program) string {
	return fmt.Sprintf(`Analyze the following Engineering Portfolio text based on the %s rubric:

Rubric requirements:
%s

Portfolio Text:
%s

Provide a detailed audit report. Score every category from 1 to 5 and the
portfolio overall from 0 to 100. Flag vague, low-substance passages
("water") with the original text, why it is weak, and a concrete fix.
Bucket the action checklist into today, this week, and before season.`, p, Rubric(p), text)
}

// RewritePrompt builds the free-text rewrite instruction.
func RewritePrompt(text string, tone audit.Tone) string {
	return fmt.Sprintf(`Rewrite the following paragraph to be %s.
If it lacks metrics, use placeholders like [insert metric].
Do not invent facts, only improve structure and clarity.
Return only the rewritten paragraph.

Paragraph: "%s"`, tone, text)
}
