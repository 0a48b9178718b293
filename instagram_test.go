package instagram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesprial/go-instagram-api-wrapper/pkg/credstore"
	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/webauth"
	"github.com/jamesprial/go-instagram-api-wrapper/test_helpers"
)

// brokenStore fails every write.
type brokenStore struct {
	credstore.MemoryStore
}

func (s *brokenStore) Store(string) error {
	return &pkgerrs.StorageError{Operation: "store", Code: credstore.StatusIO, Err: errors.New("disk full")}
}

func (s *brokenStore) Delete() error {
	return &pkgerrs.StorageError{Operation: "delete", Code: credstore.StatusIO, Err: errors.New("locked")}
}

type testEnv struct {
	client  *Client
	server  *test_helpers.MockServer
	store   credstore.Store
	surface *webauth.ScriptedSurface
}

func newTestEnv(t *testing.T, store credstore.Store, surface *webauth.ScriptedSurface) *testEnv {
	t.Helper()

	server := test_helpers.NewMockServer()
	t.Cleanup(server.Close)

	if store == nil {
		store = credstore.NewMemoryStore()
	}
	if surface == nil {
		surface = &webauth.ScriptedSurface{}
	}

	client, err := NewClient(&Config{
		ClientID:    test_helpers.TestClientID,
		RedirectURI: test_helpers.TestRedirectURI,
		BaseURL:     server.URL(),
		AuthURL:     test_helpers.TestAuthURL,
		HTTPClient:  server.Client(),
		Store:       store,
		Surface:     surface,
	})
	require.NoError(t, err)

	return &testEnv{client: client, server: server, store: store, surface: surface}
}

func TestNewClient(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		client, err := NewClient(nil)
		require.Error(t, err)
		assert.Nil(t, client)
		assert.Equal(t, pkgerrs.KindMissingClientConfig, pkgerrs.KindOf(err))
	})

	t.Run("relative base url", func(t *testing.T) {
		_, err := NewClient(&Config{BaseURL: "/v1", Store: credstore.NewMemoryStore()})
		var cfgErr *pkgerrs.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "base_url", cfgErr.Field)
	})

	t.Run("unconfigured identity is allowed", func(t *testing.T) {
		client, err := NewClient(&Config{Store: credstore.NewMemoryStore()})
		require.NoError(t, err)
		assert.False(t, client.ClientConfig().IsConfigured())
	})

	t.Run("does not mutate the caller's config", func(t *testing.T) {
		cfg := &Config{ClientID: "id", Store: credstore.NewMemoryStore()}
		_, err := NewClient(cfg)
		require.NoError(t, err)
		assert.Empty(t, cfg.BaseURL)
		assert.Empty(t, cfg.UserAgent)
		assert.Nil(t, cfg.HTTPClient)
		assert.Nil(t, cfg.Surface)
	})

	t.Run("keeps identity", func(t *testing.T) {
		client, err := NewClient(&Config{ClientID: "id", RedirectURI: "http://localhost/cb", Store: credstore.NewMemoryStore()})
		require.NoError(t, err)
		assert.Equal(t, types.ClientConfig{ClientID: "id", RedirectURI: "http://localhost/cb"}, client.ClientConfig())
	})
}

func TestClient_DefaultUserAgent(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)
	env.server.SetResponse(http.MethodGet, "/users/self", test_helpers.DataResponse(map[string]any{"id": "1"}))

	_, err := env.client.Me(context.Background())
	require.NoError(t, err)

	req, err := env.server.GetLastRequest(http.MethodGet, "/users/self")
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, req.Headers.Get("User-Agent"))
}

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name      string
		store     credstore.Store
		surface   *webauth.ScriptedSurface
		scopes    []types.Scope
		wantKind  pkgerrs.Kind
		wantToken string
	}{
		{
			name:      "grant stores token",
			surface:   test_helpers.NewGrantSurface("granted-token"),
			wantToken: "granted-token",
		},
		{
			name:      "grant replaces previous token",
			store:     test_helpers.NewStoreWithToken("old-token"),
			surface:   test_helpers.NewGrantSurface("new-token"),
			wantToken: "new-token",
		},
		{
			name:     "server rejects request",
			surface:  test_helpers.NewRejectSurface(),
			wantKind: pkgerrs.KindInvalidRequest,
		},
		{
			name:     "user dismisses surface",
			surface:  test_helpers.NewDismissSurface(),
			wantKind: pkgerrs.KindCancelled,
		},
		{
			name:     "unknown scope",
			surface:  test_helpers.NewGrantSurface("tok"),
			scopes:   []types.Scope{"admin"},
			wantKind: pkgerrs.KindMissingClientConfig,
		},
		{
			name:     "token cannot be stored",
			store:    &brokenStore{},
			surface:  test_helpers.NewGrantSurface("tok"),
			wantKind: pkgerrs.KindKeychain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.store, tt.surface)

			err := env.client.Login(context.Background(), tt.scopes...)
			if tt.wantKind != pkgerrs.KindUnknown {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, pkgerrs.KindOf(err))
				return
			}

			require.NoError(t, err)
			assert.True(t, env.client.IsAuthenticated())
			token, ok := env.store.Retrieve()
			assert.True(t, ok)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, 1, env.surface.Closed())
		})
	}
}

func TestClient_LoginFailureKeepsPreviousToken(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("kept"), test_helpers.NewRejectSurface())

	err := env.client.Login(context.Background())
	require.Error(t, err)

	token, ok := env.store.Retrieve()
	assert.True(t, ok)
	assert.Equal(t, "kept", token)
}

func TestClient_LoginPresentsAuthorizationURL(t *testing.T) {
	env := newTestEnv(t, nil, test_helpers.NewGrantSurface("tok"))

	require.NoError(t, env.client.Login(context.Background(), types.ScopeLikes, types.ScopeBasic, types.ScopeLikes))

	presented := env.surface.Presented()
	require.Len(t, presented, 1)
	want := test_helpers.TestAuthURL +
		"?client_id=" + test_helpers.TestClientID +
		"&redirect_uri=" + url.QueryEscape(test_helpers.TestRedirectURI) +
		"&response_type=token&scope=likes+basic"
	assert.Equal(t, want, presented[0])
}

func TestClient_LoginUnconfigured(t *testing.T) {
	surface := test_helpers.NewGrantSurface("tok")
	client, err := NewClient(&Config{Store: credstore.NewMemoryStore(), Surface: surface})
	require.NoError(t, err)

	err = client.Login(context.Background())
	assert.Equal(t, pkgerrs.KindMissingClientConfig, pkgerrs.KindOf(err))
	assert.Empty(t, surface.Presented())
	assert.False(t, client.IsAuthenticated())
}

func TestClient_LoginContextCancelled(t *testing.T) {
	surface := &webauth.ScriptedSurface{Events: []webauth.Event{{URL: test_helpers.TestAuthURL}}}
	env := newTestEnv(t, nil, surface)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := env.client.Login(ctx)
	assert.Equal(t, pkgerrs.KindCancelled, pkgerrs.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, env.client.IsAuthenticated())
}

func TestClient_StartLogin(t *testing.T) {
	env := newTestEnv(t, nil, test_helpers.NewGrantSurface("background-token"))

	pending := env.client.StartLogin(context.Background(), types.ScopeBasic)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, pending.Wait(ctx))

	select {
	case <-pending.Done():
	default:
		t.Fatal("Done not closed after Wait returned")
	}
	assert.NoError(t, pending.Err())
	assert.True(t, env.client.IsAuthenticated())
}

func TestClient_StartLoginRejected(t *testing.T) {
	env := newTestEnv(t, nil, test_helpers.NewRejectSurface())

	pending := env.client.StartLogin(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := pending.Wait(ctx)
	assert.Equal(t, pkgerrs.KindInvalidRequest, pkgerrs.KindOf(err))
	assert.Equal(t, err, pending.Err())
}

func TestClient_Logout(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)
	require.True(t, env.client.IsAuthenticated())

	assert.True(t, env.client.Logout())
	assert.False(t, env.client.IsAuthenticated())

	// Clearing an absent token succeeds.
	assert.True(t, env.client.Logout())
}

func TestClient_LogoutFailure(t *testing.T) {
	var logs bytes.Buffer
	store := &brokenStore{}
	client, err := NewClient(&Config{
		Store:  store,
		Logger: slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	require.NoError(t, err)

	assert.False(t, client.Logout())
	assert.Contains(t, logs.String(), "logout failed")
}

func TestClient_LoginThenCall(t *testing.T) {
	env := newTestEnv(t, nil, test_helpers.NewGrantSurface("fresh-token"))
	env.server.SetResponse(http.MethodGet, "/users/self", test_helpers.DataResponse(map[string]any{
		"id": "1574083", "username": "snoopdogg",
	}))

	require.NoError(t, env.client.Login(context.Background()))

	user, err := env.client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "snoopdogg", user.Username)

	req, err := env.server.GetLastRequest(http.MethodGet, "/users/self")
	require.NoError(t, err)
	assert.Equal(t, "access_token=fresh-token", req.RawQuery)
}

func TestClient_CallWithoutToken(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.server.SetResponse(http.MethodGet, "/users/self", test_helpers.ErrorResponse(
		http.StatusBadRequest, "OAuthParameterException", "Missing client_id or access_token URL parameter."))

	_, err := env.client.Me(context.Background())

	var apiErr *pkgerrs.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "OAuthParameterException", apiErr.ErrorType)
	assert.Equal(t, pkgerrs.KindInvalidRequest, pkgerrs.KindOf(err))

	req, err := env.server.GetLastRequest(http.MethodGet, "/users/self")
	require.NoError(t, err)
	assert.Equal(t, "access_token=", req.RawQuery)
}

func TestCall(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)
	env.server.SetResponse(http.MethodGet, "/tags/search", test_helpers.DataResponse([]map[string]any{
		{"name": "snowy", "media_count": 3},
		{"name": "snowday", "media_count": 7},
	}))

	tags, err := Call[[]types.Tag](context.Background(), env.client,
		types.Get("/tags/search", types.NewParams().Set("q", "snow")))
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, types.Tag{Name: "snowday", MediaCount: 7}, tags[1])

	req, err := env.server.GetLastRequest(http.MethodGet, "/tags/search")
	require.NoError(t, err)
	assert.Equal(t, "access_token=tok&q=snow", req.RawQuery)
}

func TestCall_ErrorReturnsZeroValue(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)
	env.server.SetResponse(http.MethodGet, "/users/self", test_helpers.RawResponse(http.StatusOK, `{"data":`))

	user, err := Call[types.User](context.Background(), env.client, types.Get("/users/self", nil))
	assert.Equal(t, pkgerrs.KindDecoding, pkgerrs.KindOf(err))
	assert.Equal(t, types.User{}, user)
}

func TestClient_DoReturnsEnvelope(t *testing.T) {
	env := newTestEnv(t, test_helpers.NewStoreWithToken("tok"), nil)
	env.server.SetResponse(http.MethodGet, "/users/self/media/recent",
		test_helpers.PageResponse([]any{}, "https://api.instagram.com/v1/next", "42"))

	envelope, err := env.client.Do(context.Background(), types.Get("/users/self/media/recent", nil), nil)
	require.NoError(t, err)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, http.StatusOK, envelope.Meta.Code)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, "42", envelope.Pagination.NextMaxID)
}

func TestClient_TokenNeverLogged(t *testing.T) {
	var logs bytes.Buffer
	server := test_helpers.NewMockServer()
	defer server.Close()
	server.SetResponse(http.MethodGet, "/users/self", test_helpers.DataResponse(map[string]any{"id": "1"}))

	client, err := NewClient(&Config{
		ClientID:    test_helpers.TestClientID,
		RedirectURI: test_helpers.TestRedirectURI,
		BaseURL:     server.URL(),
		HTTPClient:  server.Client(),
		Store:       credstore.NewMemoryStore(),
		Surface:     test_helpers.NewGrantSurface("super-secret-token"),
		Logger:      slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	require.NoError(t, err)

	require.NoError(t, client.Login(context.Background()))
	_, err = client.Me(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, logs.String())
	assert.False(t, strings.Contains(logs.String(), "super-secret-token"), "token leaked into logs")
}
