package internal

import (
	"fmt"
	"strings"
	"unicode"

	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/validation"
)

const (
	// Search radius constraints, in meters
	maxSearchDistance = 5000

	// Comment constraints documented by the API
	maxCommentLength   = 300
	maxCommentHashtags = 4
	maxCommentURLs     = 1
)

// Validator provides validation operations for API parameters.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// NormalizeScopes returns scopes with duplicates removed, keeping the first
// occurrence of each. An empty set becomes [basic]. Unknown scopes are rejected.
func (v *Validator) NormalizeScopes(scopes []types.Scope) ([]types.Scope, error) {
	if len(scopes) == 0 {
		return []types.Scope{types.ScopeBasic}, nil
	}

	seen := make(map[types.Scope]struct{}, len(scopes))
	out := make([]types.Scope, 0, len(scopes))
	for _, s := range scopes {
		if !s.Valid() {
			return nil, &pkgerrs.ConfigError{Field: "scope", Message: fmt.Sprintf("unknown scope %q", s)}
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// ValidateDescriptor checks that a request can be sent as described.
func (v *Validator) ValidateDescriptor(desc types.RequestDescriptor) error {
	if !desc.Method.Valid() {
		return &pkgerrs.ValidationError{Field: "request", Message: fmt.Sprintf("unsupported method %q", desc.Method)}
	}
	if !strings.HasPrefix(desc.Path, "/") {
		return &pkgerrs.ValidationError{Field: "request", Message: fmt.Sprintf("path %q must start with /", desc.Path)}
	}
	if strings.ContainsAny(desc.Path, "?#") {
		return &pkgerrs.ValidationError{Field: "request", Message: fmt.Sprintf("path %q must not carry a query or fragment", desc.Path)}
	}
	return nil
}

// ValidateID checks an identifier that is interpolated into a path segment,
// such as a user id, media id, tag name or location id.
func (v *Validator) ValidateID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return &pkgerrs.ValidationError{Field: field, Message: field + " cannot be empty"}
	}
	if strings.ContainsAny(id, "/?#\\") || strings.IndexFunc(id, unicode.IsControl) >= 0 {
		return &pkgerrs.ValidationError{Field: field, Message: fmt.Sprintf("%s %q contains a reserved character", field, id)}
	}
	if id == "." || id == ".." {
		return &pkgerrs.ValidationError{Field: field, Message: fmt.Sprintf("%s %q is a dot segment", field, id)}
	}
	return nil
}

// ValidateQuery checks a search term. Terms travel as escaped parameters, so
// only blank values are rejected.
func (v *Validator) ValidateQuery(field, q string) error {
	if strings.TrimSpace(q) == "" {
		return &pkgerrs.ValidationError{Field: field, Message: field + " cannot be empty"}
	}
	return nil
}

// ValidateTagName checks a tag name, given without the leading "#".
func (v *Validator) ValidateTagName(name string) error {
	if err := v.ValidateID("tag", name); err != nil {
		return err
	}
	if !validation.IsValidTagName(name) {
		return &pkgerrs.ValidationError{Field: "tag", Message: fmt.Sprintf("tag %q may only contain letters, digits and underscores", name)}
	}
	return nil
}

// ValidateShortcode checks the code from a public media link.
func (v *Validator) ValidateShortcode(code string) error {
	if err := v.ValidateID("shortcode", code); err != nil {
		return err
	}
	if !validation.IsValidShortcode(code) {
		return &pkgerrs.ValidationError{Field: "shortcode", Message: fmt.Sprintf("shortcode %q has invalid format", code)}
	}
	return nil
}

// ValidateGeo checks a coordinate search. Lat and Lng must be given together.
func (v *Validator) ValidateGeo(q types.GeoQuery) error {
	if (q.Lat == nil) != (q.Lng == nil) {
		return &pkgerrs.ValidationError{Field: "geo", Message: "lat and lng must be provided together"}
	}
	if q.Lat != nil && (*q.Lat < -90 || *q.Lat > 90) {
		return &pkgerrs.ValidationError{Field: "geo", Message: fmt.Sprintf("lat %v out of range", *q.Lat)}
	}
	if q.Lng != nil && (*q.Lng < -180 || *q.Lng > 180) {
		return &pkgerrs.ValidationError{Field: "geo", Message: fmt.Sprintf("lng %v out of range", *q.Lng)}
	}
	if q.Distance != nil && (*q.Distance <= 0 || *q.Distance > maxSearchDistance) {
		return &pkgerrs.ValidationError{Field: "geo", Message: fmt.Sprintf("distance must be between 1 and %d meters", maxSearchDistance)}
	}
	return nil
}

// ValidateCommentText applies the API's documented comment rules before a round trip.
func (v *Validator) ValidateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &pkgerrs.ValidationError{Field: "comment", Message: "comment text cannot be empty"}
	}
	if n := len([]rune(text)); n > maxCommentLength {
		return &pkgerrs.ValidationError{Field: "comment", Message: fmt.Sprintf("comment is %d characters, limit is %d", n, maxCommentLength)}
	}

	hashtags, urls := 0, 0
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, "#") && len(word) > 1 {
			hashtags++
		}
		lower := strings.ToLower(word)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			urls++
		}
	}
	if hashtags > maxCommentHashtags {
		return &pkgerrs.ValidationError{Field: "comment", Message: fmt.Sprintf("comment has %d hashtags, limit is %d", hashtags, maxCommentHashtags)}
	}
	if urls > maxCommentURLs {
		return &pkgerrs.ValidationError{Field: "comment", Message: fmt.Sprintf("comment has %d URLs, limit is %d", urls, maxCommentURLs)}
	}
	if isAllCaps(text) {
		return &pkgerrs.ValidationError{Field: "comment", Message: "comment cannot consist of all capital letters"}
	}
	return nil
}

func isAllCaps(text string) bool {
	letters := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return letters > 1
}
