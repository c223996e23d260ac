package router

import "context"

// PatternRecorder captures the template a request matched. Middleware installs
// one before dispatch and reads it after the handler returns, so metrics can
// be labeled by template instead of by raw path.
type PatternRecorder struct {
	pattern string
}

// Pattern returns the matched template, or "" when nothing matched.
func (pr *PatternRecorder) Pattern() string {
	if pr == nil {
		return ""
	}
	return pr.pattern
}

type patternKey struct{}

// NewPatternContext returns a child context carrying a fresh recorder. The
// recorder is mutated in place during dispatch, so the middleware's reference
// observes the match without re-deriving the context.
func NewPatternContext(ctx context.Context) (context.Context, *PatternRecorder) {
	pr := &PatternRecorder{}
	return context.WithValue(ctx, patternKey{}, pr), pr
}

func recordPattern(ctx context.Context, pattern string) {
	if pr, ok := ctx.Value(patternKey{}).(*PatternRecorder); ok {
		pr.pattern = pattern
	}
}
