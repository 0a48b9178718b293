package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
)

// MaxResponseBytes caps how much of a response body is read.
const MaxResponseBytes = 10 << 20

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Retrieve() (token string, ok bool)
}

// Client manages communication with the Instagram API.
type Client struct {
	client    *http.Client
	BaseURL   *url.URL
	UserAgent string

	tokens    TokenSource
	parser    *Parser
	validator *Validator
	logger    *slog.Logger
}

// NewClient returns a new Instagram API client.
// If a nil httpClient is provided, http.DefaultClient will be used.
func NewClient(httpClient *http.Client, tokens TokenSource, baseURL string, userAgent string, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, &pkgerrs.ConfigError{Field: "base_url", Message: err.Error()}
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &pkgerrs.ConfigError{Field: "base_url", Message: fmt.Sprintf("%q is not an absolute URL", baseURL)}
	}
	parsedURL.Path = strings.TrimSuffix(parsedURL.Path, "/")
	parsedURL.RawQuery = ""
	parsedURL.Fragment = ""

	return &Client{
		client:    httpClient,
		BaseURL:   parsedURL,
		UserAgent: userAgent,
		tokens:    tokens,
		parser:    NewParser(),
		validator: NewValidator(),
		logger:    logger,
	}, nil
}

// NewRequest builds the HTTP request for desc.
//
// The token is read from the TokenSource on every call; when none is stored
// an empty access_token is sent and the server's rejection is surfaced. GET
// and DELETE carry access_token followed by desc.Params in the query. POST
// carries only access_token in the query and desc.Params as a form body.
func (c *Client) NewRequest(ctx context.Context, desc types.RequestDescriptor) (*http.Request, error) {
	if err := c.validator.ValidateDescriptor(desc); err != nil {
		return nil, err
	}

	token := ""
	if c.tokens != nil {
		token, _ = c.tokens.Retrieve()
	}

	params := desc.Params.Clone()
	params.Del(types.AccessTokenParam)

	query := types.NewParams().Set(types.AccessTokenParam, token)
	var body io.Reader
	if desc.Method == types.MethodPost {
		body = strings.NewReader(params.Encode())
	} else {
		for _, key := range params.Keys() {
			value, _ := params.Get(key)
			query.Set(key, value)
		}
	}

	u := *c.BaseURL
	u.Path = c.BaseURL.Path + desc.Path
	u.RawPath = ""
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, string(desc.Method), u.String(), body)
	if err != nil {
		return nil, &pkgerrs.RequestError{Operation: string(desc.Method), URL: redactURL(&u), Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if desc.Method == types.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	return req, nil
}

// Do sends the request described by desc and decodes the envelope's data
// into v. The HTTP status code does not decide success; the envelope does.
func (c *Client) Do(ctx context.Context, desc types.RequestDescriptor, v any) (*types.Envelope, error) {
	req, err := c.NewRequest(ctx, desc)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID, "method", req.Method, "path", desc.Path)
	start := time.Now()
	logger.Debug("sending request")

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Debug("request failed", "error", redactError(err))
		return nil, &pkgerrs.RequestError{Operation: req.Method, URL: redactURL(req.URL), Err: redactError(err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		logger.Debug("reading response failed", "status", resp.StatusCode, "error", err)
		return nil, &pkgerrs.RequestError{Operation: req.Method, URL: redactURL(req.URL), Message: "reading response body", Err: err}
	}
	if len(data) > MaxResponseBytes {
		return nil, &pkgerrs.ParseError{Operation: "read response", Message: fmt.Sprintf("response body exceeds %d bytes", MaxResponseBytes)}
	}

	env, err := c.parser.DecodeEnvelope(data, resp.StatusCode, v)
	if err != nil {
		logger.Debug("request rejected",
			"status", resp.StatusCode,
			"duration", time.Since(start),
			"error_kind", pkgerrs.KindOf(err).String(),
		)
		return env, err
	}

	logger.Debug("request completed",
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return env, nil
}

// redactURL drops the query, which carries the access token.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clean := *u
	clean.RawQuery = ""
	clean.Fragment = ""
	clean.User = nil
	return clean.String()
}

// redactError strips the request URL that net/http embeds in transport errors.
func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
