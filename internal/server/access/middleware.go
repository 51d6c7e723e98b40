package access

import (
	"net/http"

	"github.com/dmitrijs2005/snippets/internal/common"
)

// RejectFunc writes the response for a request that failed authentication.
type RejectFunc func(w http.ResponseWriter, r *http.Request, err error)

// Middleware authenticates every request it wraps. Rejected requests are
// handed to reject and never reach next.
func (c *Controller) Middleware(reject RejectFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := c.AuthenticateRequest(r.Header.Get(common.AuthorizationHeaderName))
			if err != nil {
				reject(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
		})
	}
}
