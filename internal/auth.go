package internal

import (
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
)

// responseTypeToken selects the implicit grant: the token comes back in the redirect fragment.
const responseTypeToken = "token"

// BuildAuthorizationURL returns the page the user must visit to grant access.
//
// The query is written by hand because the authorization server expects the
// parameters in a fixed order (client_id, redirect_uri, response_type, scope)
// and the scope list joined with a literal "+"; url.Values would sort and
// escape both away.
func BuildAuthorizationURL(endpoint oauth2.Endpoint, cfg types.ClientConfig, scopes []types.Scope) (string, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	redirectURI := strings.TrimSpace(cfg.RedirectURI)
	if clientID == "" {
		return "", &pkgerrs.ConfigError{Field: "client_id", Message: "client id is not configured"}
	}
	if redirectURI == "" {
		return "", &pkgerrs.ConfigError{Field: "redirect_uri", Message: "redirect URI is not configured"}
	}

	normalized, err := NewValidator().NormalizeScopes(scopes)
	if err != nil {
		return "", err
	}

	authURL, err := url.Parse(endpoint.AuthURL)
	if err != nil || authURL.Scheme == "" || authURL.Host == "" {
		return "", &pkgerrs.ConfigError{Field: "auth_url", Message: "authorization endpoint is not a valid absolute URL"}
	}

	var sb strings.Builder
	sb.WriteString("client_id=")
	sb.WriteString(url.QueryEscape(clientID))
	sb.WriteString("&redirect_uri=")
	sb.WriteString(url.QueryEscape(redirectURI))
	sb.WriteString("&response_type=")
	sb.WriteString(responseTypeToken)
	sb.WriteString("&scope=")
	sb.WriteString(types.JoinScopes(normalized))

	if authURL.RawQuery != "" {
		authURL.RawQuery += "&" + sb.String()
	} else {
		authURL.RawQuery = sb.String()
	}
	return authURL.String(), nil
}
