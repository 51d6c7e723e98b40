package httpapi

import "net/http"

// Handler returns the full middleware chain around the route table.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	limiter := newRateLimiter(s.opts.AuthRateLimit, s.opts.AuthRateBurst, s.opts.TrustedProxies)
	limited := func(h http.HandlerFunc) http.Handler {
		return limiter.Middleware(h)
	}
	authed := s.access.Middleware(s.rejectUnauthenticated)

	mux.HandleFunc("GET /{$}", s.welcome)
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("GET /readyz", s.readyz)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.Handle("POST /users/register", limited(s.register))
	mux.Handle("POST /users/login", limited(s.login))
	mux.Handle("POST /users/update", limited(s.changePassword))

	mux.HandleFunc("GET /snippets", s.listSnippets)
	mux.HandleFunc("GET /snippets/{id}", s.getSnippet)
	mux.Handle("POST /snippets", authed(http.HandlerFunc(s.createSnippet)))
	mux.Handle("PUT /snippets/{id}", authed(http.HandlerFunc(s.updateSnippet)))
	mux.Handle("DELETE /snippets/{id}", authed(http.HandlerFunc(s.deleteSnippet)))

	var h http.Handler = mux
	h = MaxBodyBytes(h, s.opts.MaxBodyBytes)
	h = CORS(h)
	h = NoStore(h)
	h = Logging(s.logger, h)
	h = s.metrics.Instrument(h)
	return h
}
