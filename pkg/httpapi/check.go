package httpapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/formcheck/pkg/logger"
	"github.com/dmitrymomot/formcheck/pkg/ruleset"
	"github.com/dmitrymomot/formcheck/pkg/validator"
)

// evaluate runs rs against data and records the outcome.
func (o *options) evaluate(ctx context.Context, rs *ruleset.Ruleset, data map[string]any) validator.Result {
	start := time.Now()
	res := rs.Check(data)
	elapsed := time.Since(start)

	o.metrics.Observe(rs.Name, res, elapsed)

	switch res.Outcome {
	case validator.OutcomeFailed:
		o.logger.DebugContext(ctx, "check failed",
			logger.Ruleset(rs.Name),
			logger.Field(res.Field),
			slog.String("message", res.Message),
		)
	case validator.OutcomeHalted:
		o.logger.WarnContext(ctx, "check halted at malformed rule",
			logger.Ruleset(rs.Name),
			slog.Int("rule", res.Index),
		)
	}
	return res
}
