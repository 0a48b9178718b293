package types

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// Scope is a login permission understood by the authorization server.
type Scope string

const (
	// ScopeBasic reads a user's profile info and media.
	ScopeBasic Scope = "basic"
	// ScopePublicContent reads any public profile info and media on a user's behalf.
	ScopePublicContent Scope = "public_content"
	// ScopeFollowerList reads the list of followers and followed-by users.
	ScopeFollowerList Scope = "follower_list"
	// ScopeComments posts and deletes comments on a user's behalf.
	ScopeComments Scope = "comments"
	// ScopeRelationships follows and unfollows accounts on a user's behalf.
	ScopeRelationships Scope = "relationships"
	// ScopeLikes likes and unlikes media on a user's behalf.
	ScopeLikes Scope = "likes"
)

// AllScopes lists every scope in the order the authorization server documents them.
func AllScopes() []Scope {
	return []Scope{ScopeBasic, ScopePublicContent, ScopeFollowerList, ScopeComments, ScopeRelationships, ScopeLikes}
}

// Valid reports whether s is one of the known scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeBasic, ScopePublicContent, ScopeFollowerList, ScopeComments, ScopeRelationships, ScopeLikes:
		return true
	}
	return false
}

// JoinScopes serializes scopes the way the authorization endpoint expects them:
// raw values joined by "+", in the given order.
func JoinScopes(scopes []Scope) string {
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = string(s)
	}
	return strings.Join(parts, "+")
}

// ClientConfig identifies the registered application.
// Either field may be empty; an unconfigured client is detected with IsConfigured.
type ClientConfig struct {
	ClientID    string `yaml:"client_id" json:"client_id"`
	RedirectURI string `yaml:"redirect_uri" json:"redirect_uri"`
}

// IsConfigured reports whether both the client id and the redirect URI are present.
func (c ClientConfig) IsConfigured() bool {
	return strings.TrimSpace(c.ClientID) != "" && strings.TrimSpace(c.RedirectURI) != ""
}

// Method is an HTTP method accepted by the API.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodDelete Method = http.MethodDelete
)

// Valid reports whether m is GET, POST or DELETE.
func (m Method) Valid() bool {
	return m == MethodGet || m == MethodPost || m == MethodDelete
}

// AccessTokenParam is the query parameter that carries the bearer token.
// It is owned by the request pipeline and never set through Params.
const AccessTokenParam = "access_token"

// Params is an ordered set of request parameters. A key is present only when the
// caller supplied a value for it; there is no sentinel for "absent".
// The zero value is ready to use.
type Params struct {
	keys   []string
	values map[string]string
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{}
}

// Set adds or replaces key. A replaced key keeps its original position.
func (p *Params) Set(key, value string) *Params {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// Get returns the value for key and whether it was set.
func (p *Params) Get(key string) (string, bool) {
	if p == nil || p.values == nil {
		return "", false
	}
	v, ok := p.values[key]
	return v, ok
}

// Del removes key if present.
func (p *Params) Del(key string) {
	if p == nil || p.values == nil {
		return
	}
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the parameter names in insertion order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Clone returns an independent copy of p.
func (p *Params) Clone() *Params {
	out := NewParams()
	if p == nil {
		return out
	}
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}

// Encode serializes the parameters as "k=v&k2=v2" in insertion order.
func (p *Params) Encode() string {
	if p.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.values[k]))
	}
	return sb.String()
}

// RequestDescriptor describes one API call relative to the base endpoint.
type RequestDescriptor struct {
	// Path starts with "/", e.g. "/users/self".
	Path   string
	Method Method
	// Params never contains the access token; the pipeline injects it.
	Params *Params
}

// Get returns a GET descriptor for path.
func Get(path string, params *Params) RequestDescriptor {
	return RequestDescriptor{Path: path, Method: MethodGet, Params: params}
}

// Post returns a POST descriptor for path.
func Post(path string, params *Params) RequestDescriptor {
	return RequestDescriptor{Path: path, Method: MethodPost, Params: params}
}

// Delete returns a DELETE descriptor for path.
func Delete(path string, params *Params) RequestDescriptor {
	return RequestDescriptor{Path: path, Method: MethodDelete, Params: params}
}

// Meta is the status block present in every envelope.
// ErrorMessage is nil when the key is absent; an empty message is still an error.
type Meta struct {
	Code         int     `json:"code"`
	ErrorType    string  `json:"error_type,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

// Pagination carries the cursor for the next page. The SDK never follows it.
type Pagination struct {
	NextURL   string `json:"next_url,omitempty"`
	NextMaxID string `json:"next_max_id,omitempty"`
}

// Envelope is the wire wrapper around every API response.
// Data is nil when the "data" key was absent from the body.
type Envelope struct {
	Data       json.RawMessage `json:"data,omitempty"`
	Meta       *Meta           `json:"meta"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// HasData reports whether the "data" key was present, including an explicit null.
func (e *Envelope) HasData() bool {
	return e != nil && e.Data != nil
}

// String returns a pointer to v, for optional request fields.
func String(v string) *string { return &v }

// Int returns a pointer to v, for optional request fields.
func Int(v int) *int { return &v }

// Float returns a pointer to v, for optional request fields.
func Float(v float64) *float64 { return &v }
