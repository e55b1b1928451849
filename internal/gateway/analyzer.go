package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwulff/folio/internal/audit"
	"go.uber.org/zap"
)

// Analyzer turns portfolio text into an audit report via a Generator.
type Analyzer struct {
	gen   Generator
	model string
	log   *zap.Logger
}

// NewAnalyzer returns an Analyzer calling model on gen.
func NewAnalyzer(gen Generator, model string, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{gen: gen, model: model, log: log}
}

// Analyze runs one analysis. Empty text or an unknown program fail with
// ErrValidation before the generator is called; anything that goes wrong
// after that is ErrAnalysis. There are no retries.
func (a *Analyzer) Analyze(ctx context.Context, text string, program audit.Program) (*audit.Report, error) {
	if strings.TrimSpace(text) == "" {
		return nil, audit.ErrValidation.WithMessage("portfolio text is empty")
	}
	if !program.Valid() {
		return nil, audit.ErrValidation.WithMessagef("unknown program %q", program)
	}

	log := a.log.With(
		zap.String("req_id", uuid.NewString()),
		zap.String("provider", a.gen.Name()),
		zap.String("model", a.model),
		zap.String("program", string(program)),
	)
	start := time.Now()
	log.Info("analysis started", zap.Int("chars", len(text)))

	raw, err := a.gen.Generate(ctx, Request{
		Model:  a.model,
		Prompt: AnalysisPrompt(text, program),
		Schema: ReportSchema(),
	})
	if err != nil {
		log.Warn("analysis failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return nil, audit.ErrAnalysis.Wrap("generate report", err)
	}

	report, err := DecodeReport(raw)
	if err != nil {
		log.Warn("analysis returned a non-conforming report", zap.Error(err), zap.Int("bytes", len(raw)))
		return nil, audit.ErrAnalysis.Wrap("decode report", err)
	}

	log.Info("analysis finished",
		zap.Float64("overall_score", report.OverallScore),
		zap.Int("categories", len(report.Categories)),
		zap.Duration("took", time.Since(start)))
	return report, nil
}
