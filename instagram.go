package instagram

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/jamesprial/go-instagram-api-wrapper/internal"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/credstore"
	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/webauth"
)

const (
	// DefaultBaseURL is the default Instagram API base URL
	DefaultBaseURL = "https://api.instagram.com/v1"
	// DefaultAuthURL is the default Instagram OAuth authorization endpoint
	DefaultAuthURL = "https://api.instagram.com/oauth/authorize"
	// DefaultUserAgent is the default user agent string
	DefaultUserAgent = "go-instagram-api-wrapper/0.1"
	// DefaultServiceName namespaces the token in the OS keyring
	DefaultServiceName = "go-instagram-api-wrapper"
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second
	// DefaultLoginTimeout bounds a login when the caller's context has no deadline
	DefaultLoginTimeout = 5 * time.Minute
)

// Config holds the configuration for the Instagram client.
//
// ClientID and RedirectURI identify the registered application. Either may be
// empty: the client still serves calls with a previously stored token, and
// Login reports a missing client configuration.
//
// Example:
//
//	config := &Config{
//		ClientID:    "your-client-id",
//		RedirectURI: "http://localhost:8765/callback",
//	}
type Config struct {
	// ClientID and RedirectURI as registered with Instagram.
	ClientID    string
	RedirectURI string

	// UserAgent string to identify your application.
	// Defaults to DefaultUserAgent if not specified.
	UserAgent string

	// BaseURL for the Instagram API.
	// Defaults to DefaultBaseURL if not specified. Usually doesn't need to be changed.
	BaseURL string

	// AuthURL for the OAuth authorization page.
	// Defaults to DefaultAuthURL if not specified. Usually doesn't need to be changed.
	AuthURL string

	// HTTPClient to use for requests.
	// Defaults to a client with DefaultTimeout if not specified.
	HTTPClient *http.Client

	// LoginTimeout bounds Login when ctx carries no deadline.
	// Defaults to DefaultLoginTimeout. A negative value disables the bound.
	LoginTimeout time.Duration

	// Store persists the access token.
	// Defaults to the OS keyring under ServiceName.
	Store credstore.Store

	// ServiceName namespaces the default keyring store.
	// Defaults to DefaultServiceName. Ignored when Store is set.
	ServiceName string

	// Surface presents the authorization page during Login.
	// Defaults to a LoopbackSurface serving RedirectURI, which requires a
	// loopback http redirect URI.
	Surface webauth.Surface

	// Logger for structured diagnostics.
	// Optional. If provided, debug information will be logged during API calls
	// and logins. Access tokens are never logged.
	Logger *slog.Logger
}

// Client is the main Instagram API client.
//
// A Client is safe for concurrent use. Calls read the stored token on every
// request, so a Login or Logout on one goroutine is seen by the next call on
// any other.
type Client struct {
	client    *internal.Client
	login     *internal.LoginFlow
	store     credstore.Store
	config    types.ClientConfig
	validator *internal.Validator
	logger    *slog.Logger
}

// NewClient creates a new Instagram client with the provided configuration.
// It applies defaults for optional fields. It does not contact the network.
//
// Returns an error if:
//   - config is nil
//   - BaseURL is not an absolute URL
//   - the default keyring store cannot be created
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, &pkgerrs.ConfigError{Message: "config cannot be nil"}
	}

	cfg := *config
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.LoginTimeout == 0 {
		cfg.LoginTimeout = DefaultLoginTimeout
	} else if cfg.LoginTimeout < 0 {
		cfg.LoginTimeout = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if cfg.Store == nil {
		store, err := credstore.NewKeyringStore(cfg.ServiceName)
		if err != nil {
			return nil, err
		}
		cfg.Store = store
	}
	if cfg.Surface == nil {
		cfg.Surface = &webauth.LoopbackSurface{RedirectURI: cfg.RedirectURI, Logger: cfg.Logger}
	}

	client, err := internal.NewClient(cfg.HTTPClient, cfg.Store, cfg.BaseURL, cfg.UserAgent, cfg.Logger)
	if err != nil {
		return nil, err
	}

	endpoint := oauth2.Endpoint{AuthURL: cfg.AuthURL}
	return &Client{
		client:    client,
		login:     internal.NewLoginFlow(endpoint, cfg.Store, cfg.Surface, cfg.LoginTimeout, cfg.Logger),
		store:     cfg.Store,
		config:    types.ClientConfig{ClientID: cfg.ClientID, RedirectURI: cfg.RedirectURI},
		validator: internal.NewValidator(),
		logger:    cfg.Logger,
	}, nil
}

// ClientConfig returns the application identity the client logs in with.
func (c *Client) ClientConfig() types.ClientConfig {
	return c.config
}

// Login presents the authorization page and blocks until the user grants
// access, the surface is dismissed, or ctx ends. On success the token replaces
// any stored token. With no scopes, basic is requested.
//
// Errors are classified by errors.KindOf:
//   - KindMissingClientConfig: ClientID or RedirectURI is empty, or a scope is unknown
//   - KindCancelled: the surface was dismissed, could not be shown, or ctx ended
//   - KindInvalidRequest: the authorization server rejected the request
//   - KindKeychain: the token could not be stored
func (c *Client) Login(ctx context.Context, scopes ...types.Scope) error {
	return c.login.Run(ctx, c.config, scopes)
}

// StartLogin runs Login on its own goroutine. It suits hosts whose UI loop
// must not block while the surface is shown.
func (c *Client) StartLogin(ctx context.Context, scopes ...types.Scope) *PendingLogin {
	return &PendingLogin{settler: c.login.Start(ctx, c.config, scopes)}
}

// Logout deletes the stored token. It reports whether the store was cleared;
// clearing an absent token succeeds.
func (c *Client) Logout() bool {
	if err := c.store.Delete(); err != nil {
		c.logger.Warn("logout failed", "error", err)
		return false
	}
	c.logger.Debug("logged out")
	return true
}

// IsAuthenticated reports whether a token is stored. It does not validate the
// token with the server; an expired token surfaces as KindInvalidRequest on the
// next call.
func (c *Client) IsAuthenticated() bool {
	_, ok := c.store.Retrieve()
	return ok
}

// Do sends the request described by desc and decodes the envelope's data into
// out, which may be nil. The returned envelope carries meta and pagination.
func (c *Client) Do(ctx context.Context, desc types.RequestDescriptor, out any) (*types.Envelope, error) {
	return c.client.Do(ctx, desc, out)
}

// Call sends desc and decodes the envelope's data as T.
//
//	user, err := instagram.Call[types.User](ctx, client, types.Get("/users/self", nil))
func Call[T any](ctx context.Context, c *Client, desc types.RequestDescriptor) (T, error) {
	var out T
	if _, err := c.Do(ctx, desc, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// PendingLogin is a login running in the background.
type PendingLogin struct {
	settler *internal.Settler
}

// Done is closed when the login has settled.
func (p *PendingLogin) Done() <-chan struct{} {
	return p.settler.Done()
}

// Wait blocks until the login settles and returns its outcome, or returns
// ctx.Err() if ctx ends first. Abandoning Wait does not cancel the login.
func (p *PendingLogin) Wait(ctx context.Context) error {
	return p.settler.Wait(ctx)
}

// Err returns the outcome once settled, and nil before.
func (p *PendingLogin) Err() error {
	return p.settler.Err()
}
