package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/formcheck/pkg/logger"
	"github.com/dmitrymomot/formcheck/pkg/ruleset"
)

type dataKey struct{}

// DataFromContext returns the field map decoded by Guard.
func DataFromContext(ctx context.Context) (map[string]any, bool) {
	data, ok := ctx.Value(dataKey{}).(map[string]any)
	return data, ok
}

// Guard validates request bodies against the named rule set before calling
// next. Failed checks get a 422 response. The rule set is looked up on each
// request so registry reloads take effect immediately.
//
//	r.With(httpapi.Guard(reg, "signup")).Post("/signup", func(w http.ResponseWriter, r *http.Request) {
//		data, _ := httpapi.DataFromContext(r.Context())
//		...
//	})
func Guard(reg *ruleset.Registry, name string, opts ...Option) func(http.Handler) http.Handler {
	o := newOptions(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rs, err := reg.Get(name)
			if err != nil {
				o.logger.ErrorContext(r.Context(), "guard rule set unavailable", logger.Ruleset(name), logger.Error(err))
				writeError(w, http.StatusInternalServerError, CodeInternal, http.StatusText(http.StatusInternalServerError))
				return
			}

			data, err := Decode(w, r, o.maxBodySize)
			if err != nil {
				writeDecodeError(w, err)
				return
			}

			if res := o.evaluate(r.Context(), rs, data); !res.Valid {
				writeValidation(w, res)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), dataKey{}, data)))
		})
	}
}
