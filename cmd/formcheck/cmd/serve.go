package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/formcheck/pkg/config"
	"github.com/dmitrymomot/formcheck/pkg/httpapi"
	"github.com/dmitrymomot/formcheck/pkg/httpserver"
	"github.com/dmitrymomot/formcheck/pkg/logger"
	"github.com/dmitrymomot/formcheck/pkg/metrics"
	"github.com/dmitrymomot/formcheck/pkg/requestid"
	"github.com/dmitrymomot/formcheck/pkg/ruleset"
)

// ServeConfig is read from the environment and .env files.
type ServeConfig struct {
	HTTP httpserver.Config

	Rules       string `env:"FORMCHECK_RULES" envDefault:"rules"`
	Watch       bool   `env:"FORMCHECK_WATCH" envDefault:"true"`
	Metrics     bool   `env:"FORMCHECK_METRICS" envDefault:"true"`
	MaxBodySize int64  `env:"FORMCHECK_MAX_BODY_SIZE" envDefault:"1048576"`

	Env       string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
}

func newServeCmd() *cobra.Command {
	var (
		addr    string
		rules   string
		envFile string
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rule set HTTP API",
		Long: `serve loads rule sets and exposes them over HTTP:

  GET  /healthz, /readyz, /metrics
  GET  /rulesets, /rulesets/{name}
  POST /rulesets/{name}/check

Configuration comes from FORMCHECK_* environment variables; flags win.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := config.LoadEnv(envFile); err != nil {
					return err
				}
			}
			var cfg ServeConfig
			if err := config.Load(&cfg); err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			if rules != "" {
				cfg.Rules = rules
			}
			if noWatch {
				cfg.Watch = false
			}
			return runServe(cmd.Context(), cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "listen address (FORMCHECK_ADDR)")
	f.StringVarP(&rules, "rules", "r", "", "rule file or directory (FORMCHECK_RULES)")
	f.StringVar(&envFile, "env-file", "", "load variables from this .env file")
	f.BoolVar(&noWatch, "no-watch", false, "disable reloading on rule file changes")
	return cmd
}

func newServeLogger(cmd *cobra.Command, cfg ServeConfig) *slog.Logger {
	opts := []logger.Option{
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithEnvironment(cfg.Env, "formcheck"),
		logger.WithContextExtractors(requestid.LogExtractor),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	switch logger.Format(cfg.LogFormat) {
	case logger.FormatJSON, logger.FormatText:
		opts = append(opts, logger.WithFormat(logger.Format(cfg.LogFormat)))
	}
	return logger.New(opts...)
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg ServeConfig) error {
	log := newServeLogger(cmd, cfg)

	reg, err := ruleset.Open(cfg.Rules, ruleset.WithRegistryLogger(log.With(logger.Component("registry"))))
	if err != nil {
		return err
	}

	apiOpts := []httpapi.Option{
		httpapi.WithLogger(log.With(logger.Component("api"))),
		httpapi.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.Metrics {
		promReg := prometheus.NewRegistry()
		promReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		apiOpts = append(apiOpts, httpapi.WithMetrics(metrics.NewCollector(metrics.DefaultNamespace, promReg)))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchErr := make(chan error, 1)
	if cfg.Watch {
		w, err := ruleset.NewWatcher(cfg.Rules, ruleset.WithWatcherLogger(log.With(logger.Component("watcher"))))
		if err != nil {
			return err
		}
		defer w.Stop()
		go func() { watchErr <- w.Watch(ctx, reg.Reload) }()
	}

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log.With(logger.Component("http"))))
	runErr := srv.Run(ctx, httpapi.NewRouter(reg, apiOpts...))
	cancel()

	if cfg.Watch {
		if err := <-watchErr; err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	return runErr
}
