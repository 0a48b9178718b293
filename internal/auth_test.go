package internal

import (
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
)

var testEndpoint = oauth2.Endpoint{AuthURL: "https://api.instagram.com/oauth/authorize"}

func TestBuildAuthorizationURL(t *testing.T) {
	cfg := types.ClientConfig{ClientID: "abc", RedirectURI: "https://app.example.com/cb"}

	tests := []struct {
		name   string
		scopes []types.Scope
		want   string
	}{
		{
			name:   "default scope",
			scopes: nil,
			want:   "https://api.instagram.com/oauth/authorize?client_id=abc&redirect_uri=https%3A%2F%2Fapp.example.com%2Fcb&response_type=token&scope=basic",
		},
		{
			name:   "two scopes joined with plus",
			scopes: []types.Scope{types.ScopeBasic, types.ScopeLikes},
			want:   "https://api.instagram.com/oauth/authorize?client_id=abc&redirect_uri=https%3A%2F%2Fapp.example.com%2Fcb&response_type=token&scope=basic+likes",
		},
		{
			name:   "duplicates collapse",
			scopes: []types.Scope{types.ScopeComments, types.ScopeComments, types.ScopeRelationships},
			want:   "https://api.instagram.com/oauth/authorize?client_id=abc&redirect_uri=https%3A%2F%2Fapp.example.com%2Fcb&response_type=token&scope=comments+relationships",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildAuthorizationURL(testEndpoint, cfg, tt.scopes)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestBuildAuthorizationURL_ParameterOrder(t *testing.T) {
	cfg := types.ClientConfig{ClientID: "id", RedirectURI: "http://localhost:8765/callback"}
	got, err := BuildAuthorizationURL(testEndpoint, cfg, []types.Scope{types.ScopePublicContent})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("result is not a URL: %v", err)
	}

	var keys []string
	for _, pair := range strings.Split(u.RawQuery, "&") {
		keys = append(keys, strings.SplitN(pair, "=", 2)[0])
	}
	want := "client_id,redirect_uri,response_type,scope"
	if strings.Join(keys, ",") != want {
		t.Errorf("query keys = %v, want %s", keys, want)
	}
	if u.Query().Get("redirect_uri") != cfg.RedirectURI {
		t.Errorf("redirect_uri did not round trip: %q", u.Query().Get("redirect_uri"))
	}
}

func TestBuildAuthorizationURL_ExistingQuery(t *testing.T) {
	endpoint := oauth2.Endpoint{AuthURL: "https://auth.example.com/authorize?hl=en"}
	cfg := types.ClientConfig{ClientID: "id", RedirectURI: "https://app.example.com/cb"}

	got, err := BuildAuthorizationURL(endpoint, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "https://auth.example.com/authorize?hl=en&client_id=id&") {
		t.Errorf("existing query not preserved: %s", got)
	}
}

func TestBuildAuthorizationURL_Errors(t *testing.T) {
	valid := types.ClientConfig{ClientID: "id", RedirectURI: "https://app.example.com/cb"}

	tests := []struct {
		name     string
		endpoint oauth2.Endpoint
		cfg      types.ClientConfig
		scopes   []types.Scope
		field    string
	}{
		{name: "missing client id", endpoint: testEndpoint, cfg: types.ClientConfig{RedirectURI: "https://x"}, field: "client_id"},
		{name: "blank client id", endpoint: testEndpoint, cfg: types.ClientConfig{ClientID: "  ", RedirectURI: "https://x"}, field: "client_id"},
		{name: "missing redirect", endpoint: testEndpoint, cfg: types.ClientConfig{ClientID: "id"}, field: "redirect_uri"},
		{name: "unknown scope", endpoint: testEndpoint, cfg: valid, scopes: []types.Scope{"everything"}, field: "scope"},
		{name: "relative endpoint", endpoint: oauth2.Endpoint{AuthURL: "/oauth/authorize"}, cfg: valid, field: "auth_url"},
		{name: "unparsable endpoint", endpoint: oauth2.Endpoint{AuthURL: "://nope"}, cfg: valid, field: "auth_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildAuthorizationURL(tt.endpoint, tt.cfg, tt.scopes)
			if err == nil {
				t.Fatal("expected error")
			}
			cfgErr, ok := err.(*pkgerrs.ConfigError)
			if !ok {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("field = %q, want %q", cfgErr.Field, tt.field)
			}
			if pkgerrs.KindOf(err) != pkgerrs.KindMissingClientConfig {
				t.Errorf("kind = %v", pkgerrs.KindOf(err))
			}
		})
	}
}
