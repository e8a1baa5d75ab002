package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formcheck/pkg/requestid"
)

func serve(t *testing.T, header string) (ctxID string, rec *httptest.ResponseRecorder) {
	t.Helper()
	handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = requestid.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/rulesets/signup/check", nil)
	if header != "" {
		req.Header.Set(requestid.Header, header)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return ctxID, rec
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates a UUID when missing", func(t *testing.T) {
		t.Parallel()
		id, rec := serve(t, "")
		require.NotEmpty(t, id)
		assert.Equal(t, id, rec.Header().Get(requestid.Header))

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
	})

	t.Run("reuses a valid client id", func(t *testing.T) {
		t.Parallel()
		id, rec := serve(t, "client-id_42")
		assert.Equal(t, "client-id_42", id)
		assert.Equal(t, "client-id_42", rec.Header().Get(requestid.Header))
	})

	t.Run("replaces malformed ids", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{"has space", "semi;colon", strings.Repeat("a", 129)} {
			id, _ := serve(t, bad)
			assert.NotEqual(t, bad, id)
			_, err := uuid.Parse(id)
			assert.NoError(t, err)
		}
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, requestid.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Empty(t, requestid.FromContext(nil))

	ctx := requestid.WithContext(context.Background(), "abc")
	assert.Equal(t, "abc", requestid.FromContext(ctx))
}

func TestLogExtractor(t *testing.T) {
	t.Parallel()

	_, ok := requestid.LogExtractor(context.Background())
	assert.False(t, ok)

	attr, ok := requestid.LogExtractor(requestid.WithContext(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())
}
