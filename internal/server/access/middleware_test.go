package access

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/snippets/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	c, ts := newController(t)
	tok, err := ts.Issue("bob")
	require.NoError(t, err)

	var seen Identity
	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	var rejected error
	reject := func(w http.ResponseWriter, _ *http.Request, err error) {
		rejected = err
		w.WriteHeader(http.StatusForbidden)
	}
	h := c.Middleware(reject)(next)

	t.Run("valid token reaches handler", func(t *testing.T) {
		reached, rejected = false, nil
		req := httptest.NewRequest(http.MethodPost, "/snippets", nil)
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+tok)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.True(t, reached)
		assert.NoError(t, rejected)
		assert.Equal(t, "bob", seen.Username)
	})

	for _, header := range []string{"", "Basic xyz", "Bearer nope"} {
		t.Run("rejected "+header, func(t *testing.T) {
			reached, rejected = false, nil
			req := httptest.NewRequest(http.MethodPost, "/snippets", nil)
			if header != "" {
				req.Header.Set(common.AuthorizationHeaderName, header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusForbidden, rr.Code)
			assert.False(t, reached)
			assert.ErrorIs(t, rejected, common.ErrorForbidden)
		})
	}
}
