// Package logger builds *slog.Logger instances from functional options and
// provides attribute helpers with consistent key names.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "formcheck"),
//	    logger.WithLevelName(cfg.LogLevel),
//	    logger.WithContextExtractors(requestid.LogExtractor),
//	)
//	log.InfoContext(ctx, "rule sets loaded", logger.Path(dir))
//
// Context extractors run on every record, so request-scoped values such as
// the request id appear without threading them through each call.
package logger
