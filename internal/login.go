package internal

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/jamesprial/go-instagram-api-wrapper/pkg/credstore"
	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/webauth"
)

// LoginFlow drives one implicit-grant login: it presents the authorization
// page, waits for the interceptor to settle, and persists the token.
type LoginFlow struct {
	endpoint oauth2.Endpoint
	store    credstore.Store
	surface  webauth.Surface
	timeout  time.Duration
	logger   *slog.Logger
}

// NewLoginFlow creates a login flow. A zero timeout waits until ctx is done.
func NewLoginFlow(endpoint oauth2.Endpoint, store credstore.Store, surface webauth.Surface, timeout time.Duration, logger *slog.Logger) *LoginFlow {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LoginFlow{
		endpoint: endpoint,
		store:    store,
		surface:  surface,
		timeout:  timeout,
		logger:   logger,
	}
}

// Run blocks until the login settles. It returns nil once the token has been
// stored, a *CancelledError when the surface is dismissed or ctx ends first,
// the interceptor's *APIError when the server rejects the request, or the
// store's *StorageError when the token cannot be persisted.
func (f *LoginFlow) Run(ctx context.Context, cfg types.ClientConfig, scopes []types.Scope) error {
	authURL, err := BuildAuthorizationURL(f.endpoint, cfg, scopes)
	if err != nil {
		return err
	}
	if f.surface == nil {
		return &pkgerrs.ConfigError{Field: "surface", Message: "no browsing surface configured"}
	}
	if f.store == nil {
		return &pkgerrs.ConfigError{Field: "store", Message: "no credential store configured"}
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	interceptor := NewRedirectInterceptor(f.logger)
	window, err := f.surface.Present(ctx, authURL, interceptor)
	if err != nil {
		f.logger.Debug("login surface unavailable", "error", err)
		return &pkgerrs.CancelledError{Reason: "browsing surface could not be presented", Err: err}
	}
	defer func() {
		if err := window.Close(); err != nil {
			f.logger.Debug("closing login surface", "error", err)
		}
	}()
	f.logger.Debug("login started", "scopes", len(scopes))

	select {
	case <-interceptor.Done():
	case <-window.Dismissed():
		interceptor.Abandon(&pkgerrs.CancelledError{Reason: "login surface dismissed"})
	case <-ctx.Done():
		interceptor.Abandon(&pkgerrs.CancelledError{Reason: "login abandoned", Err: ctx.Err()})
	}

	// Abandon loses to an interceptor that settled first.
	token := interceptor.Token()
	if token == nil {
		err := interceptor.Err()
		f.logger.Info("login failed", "error_kind", pkgerrs.KindOf(err).String())
		return err
	}

	if err := f.store.Store(token.AccessToken); err != nil {
		f.logger.Warn("login token could not be stored", "error", err)
		return err
	}
	f.logger.Info("login succeeded")
	return nil
}

// Start runs the flow on its own goroutine. The returned Settler is settled
// with Run's result.
func (f *LoginFlow) Start(ctx context.Context, cfg types.ClientConfig, scopes []types.Scope) *Settler {
	s := NewSettler()
	go func() {
		s.Settle(f.Run(ctx, cfg, scopes))
	}()
	return s
}
