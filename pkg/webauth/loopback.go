package webauth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cli/browser"
)

const (
	forwardPath = "/__webauth/forward"
	cancelPath  = "/__webauth/cancel"

	maxForwardBytes = 8 << 10
)

// LoopbackSurface presents the authorization page in the system browser and
// receives the redirect on a local listener. It suits terminal programs, where
// no embeddable web view exists.
//
// The registered redirect URI must point at the loopback interface, for example
// "http://localhost:8765/callback". Because a browser never sends the URL
// fragment to a server, the callback page forwards its own location back to the
// listener with a small script; the forwarded URL is what the observer sees.
type LoopbackSurface struct {
	// RedirectURI is the registered redirect URI the listener serves.
	RedirectURI string
	// OpenURL opens the authorization page. Defaults to the system browser.
	OpenURL func(string) error
	// Logger receives debug records. Optional.
	Logger *slog.Logger
}

// Present starts the listener, then opens authURL.
func (s *LoopbackSurface) Present(ctx context.Context, authURL string, obs NavigationObserver) (Window, error) {
	redirect, err := url.Parse(s.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("webauth: invalid redirect URI: %w", err)
	}
	if redirect.Scheme != "http" || !isLoopbackHost(redirect.Hostname()) {
		return nil, fmt.Errorf("webauth: redirect URI %q is not a loopback http URL", s.RedirectURI)
	}

	host := redirect.Host
	if redirect.Port() == "" {
		host = net.JoinHostPort(redirect.Hostname(), "80")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", host)
	if err != nil {
		return nil, fmt.Errorf("webauth: listen on %s: %w", host, err)
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	w := &loopbackWindow{
		redirect:  redirect,
		listener:  ln,
		observer:  obs,
		logger:    logger,
		dismissed: make(chan struct{}),
	}
	w.server = &http.Server{
		Handler:           w.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := w.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Debug("loopback listener stopped", "error", err)
			w.dismiss()
		}
	}()

	open := s.OpenURL
	if open == nil {
		open = browser.OpenURL
	}
	if err := open(authURL); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("webauth: open browser: %w", err)
	}
	logger.Debug("authorization page opened", "listener", ln.Addr().String())

	return w, nil
}

type loopbackWindow struct {
	redirect *url.URL
	listener net.Listener
	observer NavigationObserver
	logger   *slog.Logger
	server   *http.Server

	dismissOnce sync.Once
	closeOnce   sync.Once
	dismissed   chan struct{}
	closeErr    error
}

func (w *loopbackWindow) Dismissed() <-chan struct{} { return w.dismissed }

func (w *loopbackWindow) Close() error {
	w.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		w.closeErr = w.server.Shutdown(ctx)
		// Serve may not have taken ownership of the listener yet.
		_ = w.listener.Close()
	})
	return w.closeErr
}

func (w *loopbackWindow) dismiss() {
	w.dismissOnce.Do(func() { close(w.dismissed) })
}

func (w *loopbackWindow) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(forwardPath, w.handleForward)
	mux.HandleFunc(cancelPath, w.handleCancel)

	callback := w.redirect.Path
	if callback == "" {
		callback = "/"
	}
	mux.HandleFunc(callback, w.handleCallback)
	return mux
}

// handleCallback serves the redirect target. Error redirects carry no fragment
// and are reported as a rejected response; everything else gets the forwarding page.
func (w *loopbackWindow) handleCallback(rw http.ResponseWriter, r *http.Request) {
	full := w.absolute(r.URL)
	if r.URL.Query().Get("error") != "" {
		d := w.observer.OnResponseReceived(full, http.StatusBadRequest)
		w.logger.Debug("authorization error redirect", "decision", d.String())
		renderPage(rw, http.StatusBadRequest, pageData{Title: "Authorization failed", Message: r.URL.Query().Get("error_description")})
		return
	}

	w.observer.OnNavigationRequested(full)
	renderPage(rw, http.StatusOK, pageData{
		Title:       "Completing login",
		Message:     "Finishing authorization…",
		ForwardPath: forwardPath,
		CancelPath:  cancelPath,
	})
}

func (w *loopbackWindow) handleForward(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxForwardBytes))
	if err != nil {
		http.Error(rw, "bad request", http.StatusBadRequest)
		return
	}

	forwarded := strings.TrimSpace(string(body))
	if !w.sameCallback(forwarded) {
		http.Error(rw, "unexpected location", http.StatusBadRequest)
		return
	}

	switch w.observer.OnNavigationRequested(forwarded) {
	case Cancel:
		io.WriteString(rw, "Login complete. You can close this window.")
	default:
		io.WriteString(rw, "No access token found in the redirect.")
	}
}

func (w *loopbackWindow) handleCancel(rw http.ResponseWriter, _ *http.Request) {
	w.dismiss()
	renderPage(rw, http.StatusOK, pageData{Title: "Login cancelled", Message: "You can close this window."})
}

func (w *loopbackWindow) absolute(u *url.URL) string {
	abs := *w.redirect
	abs.Path = u.Path
	abs.RawQuery = u.RawQuery
	abs.Fragment = ""
	return abs.String()
}

// sameCallback accepts only locations on the registered redirect URI.
func (w *loopbackWindow) sameCallback(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == w.redirect.Scheme && u.Host == w.redirect.Host && u.Path == w.redirect.Path
}

func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

type pageData struct {
	Title       string
	Message     string
	ForwardPath string
	CancelPath  string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p id="status">{{.Message}}</p>
{{if .ForwardPath}}
<p><a href="{{.CancelPath}}">Cancel login</a></p>
<script>
fetch({{.ForwardPath}}, {method: "POST", body: window.location.href})
  .then(function (r) { return r.text(); })
  .then(function (t) { document.getElementById("status").textContent = t; });
</script>
{{end}}
</body></html>
`))

func renderPage(rw http.ResponseWriter, status int, data pageData) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.Header().Set("Cache-Control", "no-store")
	rw.WriteHeader(status)
	_ = pageTemplate.Execute(rw, data)
}
