package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/formcheck/pkg/httpserver"
	"github.com/dmitrymomot/formcheck/pkg/logger"
	"github.com/dmitrymomot/formcheck/pkg/requestid"
	"github.com/dmitrymomot/formcheck/pkg/ruleset"
	"github.com/dmitrymomot/formcheck/pkg/validator"
)

// errNoRulesets fails the readiness probe of an empty registry.
var errNoRulesets = errors.New("no rule sets loaded")

// RulesetInfo describes a registered rule set.
type RulesetInfo struct {
	Name   string               `json:"name"`
	Source string               `json:"source,omitempty"`
	Fields []string             `json:"fields"`
	Rules  []validator.RuleSpec `json:"rules"`
}

type api struct {
	registry *ruleset.Registry
	opts     *options
}

// NewRouter returns the HTTP API over reg:
//
//	GET  /healthz                 liveness
//	GET  /readyz                  ready once a rule set is loaded
//	GET  /metrics                 Prometheus metrics, with WithMetrics
//	GET  /rulesets                registered rule set names
//	GET  /rulesets/{name}         rule set definition
//	POST /rulesets/{name}/check   check a JSON or form body
func NewRouter(reg *ruleset.Registry, opts ...Option) http.Handler {
	a := &api{registry: reg, opts: newOptions(opts)}
	log := a.opts.logger

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(logRequests(log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, http.StatusText(http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, a.ready))
	if a.opts.metrics != nil {
		r.Method(http.MethodGet, "/metrics", a.opts.metrics.Handler())
	}

	r.Route("/rulesets", func(r chi.Router) {
		r.Get("/", a.list)
		r.Get("/{name}", a.show)
		r.Post("/{name}/check", a.check)
	})

	return r
}

func (a *api) ready(context.Context) error {
	if a.registry.Len() == 0 {
		return errNoRulesets
	}
	return nil
}

func (a *api) list(w http.ResponseWriter, r *http.Request) {
	writeData(w, a.registry.Names())
}

func (a *api) show(w http.ResponseWriter, r *http.Request) {
	rs, ok := a.lookup(w, r)
	if !ok {
		return
	}
	specs := rs.Specs
	if specs == nil {
		specs = []validator.RuleSpec{}
	}
	fields := rs.Fields()
	if fields == nil {
		fields = []string{}
	}
	writeData(w, RulesetInfo{Name: rs.Name, Source: rs.Source, Fields: fields, Rules: specs})
}

func (a *api) check(w http.ResponseWriter, r *http.Request) {
	rs, ok := a.lookup(w, r)
	if !ok {
		return
	}

	data, err := Decode(w, r, a.opts.maxBodySize)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	if res := a.opts.evaluate(r.Context(), rs, data); !res.Valid {
		writeValidation(w, res)
		return
	}
	writeData(w, CheckResult{Valid: true})
}

func (a *api) lookup(w http.ResponseWriter, r *http.Request) (*ruleset.Ruleset, bool) {
	name := chi.URLParam(r, "name")
	rs, err := a.registry.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
		return nil, false
	}
	return rs, true
}

// logRequests logs one line per request at a level derived from the status.
func logRequests(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			log.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
