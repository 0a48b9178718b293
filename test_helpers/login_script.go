package test_helpers

import (
	"net/http"

	"github.com/jamesprial/go-instagram-api-wrapper/pkg/credstore"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/webauth"
)

// Identity used by tests that log in.
const (
	TestClientID    = "test_client_id"
	TestRedirectURI = "http://localhost:8765/callback"
	TestAuthURL     = "https://api.instagram.com/oauth/authorize"
)

// TokenRedirect is the URL the authorization server redirects to on grant.
func TokenRedirect(token string) string {
	return TestRedirectURI + "#access_token=" + token
}

// GrantScript replays a user who signs in and approves the application.
func GrantScript(token string) []webauth.Event {
	return []webauth.Event{
		{URL: TestAuthURL},
		{URL: TestAuthURL, Status: http.StatusOK},
		{URL: "https://www.instagram.com/accounts/login/"},
		{URL: "https://www.instagram.com/accounts/login/", Status: http.StatusOK},
		{URL: TokenRedirect(token)},
	}
}

// RejectScript replays the authorization server refusing the request.
func RejectScript() []webauth.Event {
	return []webauth.Event{
		{URL: TestAuthURL},
		{URL: TestAuthURL, Status: http.StatusBadRequest},
	}
}

// NewGrantSurface returns a surface that completes a login with token.
func NewGrantSurface(token string) *webauth.ScriptedSurface {
	return &webauth.ScriptedSurface{Events: GrantScript(token)}
}

// NewRejectSurface returns a surface whose login is rejected by the server.
func NewRejectSurface() *webauth.ScriptedSurface {
	return &webauth.ScriptedSurface{Events: RejectScript()}
}

// NewDismissSurface returns a surface the user dismisses after the
// authorization page loads.
func NewDismissSurface() *webauth.ScriptedSurface {
	return &webauth.ScriptedSurface{
		Events:          []webauth.Event{{URL: TestAuthURL}, {URL: TestAuthURL, Status: http.StatusOK}},
		DismissWhenDone: true,
	}
}

// NewStoreWithToken returns a memory store holding token, or an empty store
// when token is "".
func NewStoreWithToken(token string) *credstore.MemoryStore {
	store := credstore.NewMemoryStore()
	if token != "" {
		_ = store.Store(token)
	}
	return store
}
