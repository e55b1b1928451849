package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwulff/folio/internal/audit"
	"go.uber.org/zap"
)

// Rewriter rewrites a paragraph in a chosen tone via a Generator.
type Rewriter struct {
	gen   Generator
	model string
	log   *zap.Logger
}

// NewRewriter returns a Rewriter calling model on gen.
func NewRewriter(gen Generator, model string, log *zap.Logger) *Rewriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Rewriter{gen: gen, model: model, log: log}
}

// Rewrite returns the rewritten paragraph with surrounding whitespace
// trimmed. The response is free text and is not otherwise checked; an
// empty response counts as a failure.
func (r *Rewriter) Rewrite(ctx context.Context, text string, tone audit.Tone) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", audit.ErrValidation.WithMessage("paragraph is empty")
	}
	if !tone.Valid() {
		return "", audit.ErrValidation.WithMessagef("unknown tone %q", tone)
	}

	log := r.log.With(
		zap.String("req_id", uuid.NewString()),
		zap.String("provider", r.gen.Name()),
		zap.String("model", r.model),
		zap.String("tone", string(tone)),
	)
	start := time.Now()

	out, err := r.gen.Generate(ctx, Request{
		Model:  r.model,
		Prompt: RewritePrompt(text, tone),
	})
	if err != nil {
		log.Warn("rewrite failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return "", audit.ErrRewrite.Wrap("generate rewrite", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		log.Warn("rewrite returned nothing")
		return "", audit.ErrRewrite.WithMessage("empty response")
	}

	log.Info("rewrite finished", zap.Duration("took", time.Since(start)))
	return out, nil
}
