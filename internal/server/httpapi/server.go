// Package httpapi is the HTTP request pipeline of the snippets server:
// routing, middleware and the mapping of failure kinds to statuses.
package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/dmitrijs2005/snippets/internal/logging"
	"github.com/dmitrijs2005/snippets/internal/server/access"
	"github.com/dmitrijs2005/snippets/internal/server/metrics"
	"github.com/dmitrijs2005/snippets/internal/server/models"
	"github.com/dmitrijs2005/snippets/internal/server/services"
)

// UserDirectory is the identity directory used by the /users routes.
type UserDirectory interface {
	Register(ctx context.Context, username, plaintext string) (*models.Account, error)
	Login(ctx context.Context, username, plaintext string) (*services.LoginResult, error)
	ChangePassword(ctx context.Context, username, oldPlaintext, newPlaintext string) error
}

// SnippetStore is the snippet service used by the /snippets routes.
type SnippetStore interface {
	List(ctx context.Context) ([]models.Snippet, error)
	Get(ctx context.Context, id string) (*models.Snippet, error)
	Create(ctx context.Context, who access.Identity, in models.SnippetPatch) (*models.Snippet, error)
	Update(ctx context.Context, who access.Identity, id string, patch models.SnippetPatch) (*models.Snippet, error)
	Delete(ctx context.Context, who access.Identity, id string) error
}

// Pinger reports database readiness; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var _ Pinger = (*sql.DB)(nil)

// Options tune the pipeline. TrustedProxies lists the peers whose
// X-Forwarded-For header is believed by the auth rate limiter.
type Options struct {
	AuthRateLimit   float64
	AuthRateBurst   int
	TrustedProxies  []netip.Prefix
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// HTTPServer serves the snippets API on one address.
type HTTPServer struct {
	address  string
	users    UserDirectory
	snippets SnippetStore
	access   *access.Controller
	db       Pinger
	metrics  *metrics.Metrics
	logger   logging.Logger
	opts     Options
}

func NewHTTPServer(address string, l logging.Logger, us UserDirectory, ss SnippetStore, ac *access.Controller, db Pinger, m *metrics.Metrics, opts Options) *HTTPServer {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &HTTPServer{
		address:  address,
		logger:   l.With("module", "http_server"),
		users:    us,
		snippets: ss,
		access:   ac,
		db:       db,
		metrics:  m,
		opts:     opts,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most ShutdownTimeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		errCh <- srv.Serve(listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
