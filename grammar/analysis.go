package grammar

import (
	"context"
	"log/slog"
	"time"

	"github.com/nihei9/prune/grammar/symbol"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Analysis is the result of the productivity analysis of a grammar.
type Analysis struct {
	Grammar *Grammar

	// Useless contains the productions that cannot derive any string of terminal symbols.
	Useless *ProductionSet

	// Productive contains the non-terminals deriving at least one string of terminal symbols.
	Productive []symbol.Symbol

	// Unproductive contains the non-terminals having productions, none of which is productive.
	Unproductive []symbol.Symbol
}

// IsProductive reports whether the non-terminal derives at least one string of terminal symbols.
func (a *Analysis) IsProductive(sym symbol.Symbol) bool {
	for _, s := range a.Productive {
		if s == sym {
			return true
		}
	}
	return false
}

type analyzeConfig struct {
	logger *slog.Logger
}

type AnalyzeOption func(config *analyzeConfig)

func WithLogger(logger *slog.Logger) AnalyzeOption {
	return func(config *analyzeConfig) {
		config.logger = logger
	}
}

// Analyze computes the useless productions and the productive non-terminals of the grammar. It records a span and
// metrics through the global OpenTelemetry providers.
func Analyze(ctx context.Context, gram *Grammar, opts ...AnalyzeOption) (*Analysis, error) {
	config := &analyzeConfig{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(config)
	}

	ctx, span := tracer.Start(ctx, "grammar.Analyze", trace.WithAttributes(
		attribute.Int("grammar.productions", gram.ProductionCount()),
		attribute.Int("grammar.heads", len(gram.heads)),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	start := time.Now()

	g := genProductivityGraph(gram)
	config.logger.Debug("productivity graph built",
		slog.Int("productions", gram.ProductionCount()),
		slog.Int("base_productions", len(g.base)),
		slog.Int("compound_nodes", len(g.compounds)),
		slog.Int("edges", g.edgeCount),
	)

	p := g.propagate()
	useless := uselessProductions(gram, p)

	productive := map[symbol.Symbol]struct{}{}
	for _, sym := range p.symbols {
		productive[sym] = struct{}{}
	}
	var unproductive []symbol.Symbol
	for _, head := range gram.heads {
		if _, ok := productive[head]; ok {
			continue
		}
		unproductive = append(unproductive, head)
	}

	duration := time.Since(start)
	recordAnalysisMetrics(ctx, duration, gram.ProductionCount(), useless.Len())
	span.SetAttributes(
		attribute.Int("analysis.useless", useless.Len()),
		attribute.Int("analysis.productive_symbols", len(p.symbols)),
	)
	span.SetStatus(codes.Ok, "")

	config.logger.Debug("productivity analysis finished",
		slog.Int("useless", useless.Len()),
		slog.Int("productive_symbols", len(p.symbols)),
		slog.Int("unproductive_symbols", len(unproductive)),
		slog.Duration("duration", duration),
	)

	return &Analysis{
		Grammar:      gram,
		Useless:      useless,
		Productive:   p.symbols,
		Unproductive: unproductive,
	}, nil
}
