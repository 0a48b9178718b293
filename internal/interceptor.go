package internal

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/webauth"
)

const tokenMarker = "access_token="

// InterceptorState is the lifecycle position of a RedirectInterceptor.
type InterceptorState int

const (
	// StatePending is waiting for a redirect that carries a token.
	StatePending InterceptorState = iota
	// StateResolved captured an access token.
	StateResolved
	// StateRejected ended without a token.
	StateRejected
)

func (s InterceptorState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// RedirectInterceptor watches the browsing surface for the redirect that ends
// the implicit grant. It transitions out of StatePending at most once; every
// event after that is answered with webauth.Cancel and otherwise ignored.
type RedirectInterceptor struct {
	logger *slog.Logger

	mu    sync.Mutex
	state InterceptorState
	token *oauth2.Token
	err   error
	done  chan struct{}
}

var _ webauth.NavigationObserver = (*RedirectInterceptor)(nil)

// NewRedirectInterceptor returns a pending interceptor. logger may be nil.
func NewRedirectInterceptor(logger *slog.Logger) *RedirectInterceptor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RedirectInterceptor{
		logger: logger,
		done:   make(chan struct{}),
	}
}

// OnNavigationRequested resolves on the first URL whose fragment carries an
// access token and tells the surface not to load it.
func (i *RedirectInterceptor) OnNavigationRequested(rawURL string) webauth.Decision {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != StatePending {
		return webauth.Cancel
	}

	token, ok := extractAccessToken(rawURL)
	if !ok {
		return webauth.Allow
	}
	if token == "" {
		i.finish(StateRejected, nil, &pkgerrs.APIError{Message: "redirect carried an empty access token"})
		return webauth.Cancel
	}

	i.finish(StateResolved, &oauth2.Token{AccessToken: token, TokenType: "bearer"}, nil)
	return webauth.Cancel
}

// OnResponseReceived rejects the login when the authorization server answers 400.
func (i *RedirectInterceptor) OnResponseReceived(rawURL string, status int) webauth.Decision {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != StatePending {
		return webauth.Cancel
	}
	if status != http.StatusBadRequest {
		return webauth.Allow
	}

	i.finish(StateRejected, nil, &pkgerrs.APIError{
		StatusCode: status,
		Message:    "authorization request was rejected",
	})
	return webauth.Cancel
}

// Abandon moves a pending interceptor to StateRejected with err, so a token
// arriving later is never captured. It reports false if the interceptor had
// already left StatePending.
func (i *RedirectInterceptor) Abandon(err error) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != StatePending {
		return false
	}
	i.finish(StateRejected, nil, err)
	return true
}

// finish must be called with mu held.
func (i *RedirectInterceptor) finish(state InterceptorState, token *oauth2.Token, err error) {
	i.state = state
	i.token = token
	i.err = err
	close(i.done)
	if err != nil {
		i.logger.Debug("redirect interceptor settled", "state", state.String(), "error_kind", pkgerrs.KindOf(err).String())
		return
	}
	i.logger.Debug("redirect interceptor settled", "state", state.String())
}

// Done is closed when the interceptor leaves StatePending.
func (i *RedirectInterceptor) Done() <-chan struct{} {
	return i.done
}

// State returns the current state.
func (i *RedirectInterceptor) State() InterceptorState {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Token returns the captured token, or nil unless resolved.
func (i *RedirectInterceptor) Token() *oauth2.Token {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.token
}

// Err returns the rejection reason, or nil unless rejected.
func (i *RedirectInterceptor) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

// extractAccessToken returns everything after "access_token=" in the URL
// fragment. ok is false when the fragment does not carry the marker.
func extractAccessToken(rawURL string) (token string, ok bool) {
	hash := strings.IndexByte(rawURL, '#')
	if hash < 0 {
		return "", false
	}
	fragment := rawURL[hash+1:]
	idx := strings.Index(fragment, tokenMarker)
	if idx < 0 {
		return "", false
	}
	return fragment[idx+len(tokenMarker):], true
}
