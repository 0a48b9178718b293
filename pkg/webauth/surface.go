// Package webauth defines how the SDK drives a browsing surface during login.
//
// A host UI toolkit implements Surface once. The SDK presents the authorization
// page on it and receives every navigation through a NavigationObserver, which
// decides synchronously whether the surface may proceed.
package webauth

import "context"

// Decision tells the surface whether to continue a navigation.
type Decision int

const (
	// Allow lets the navigation proceed.
	Allow Decision = iota
	// Cancel stops the navigation; the target is never loaded.
	Cancel
)

func (d Decision) String() string {
	if d == Cancel {
		return "cancel"
	}
	return "allow"
}

// NavigationObserver is notified of navigations inside a presented surface.
// Both callbacks must return before the surface proceeds and must not block.
type NavigationObserver interface {
	// OnNavigationRequested is called before the surface loads rawURL.
	OnNavigationRequested(rawURL string) Decision
	// OnResponseReceived is called when a response for rawURL arrives with the given status.
	OnResponseReceived(rawURL string, status int) Decision
}

// Surface presents web pages to the user.
type Surface interface {
	// Present shows authURL and routes its navigations to obs until the
	// returned Window is closed.
	Present(ctx context.Context, authURL string, obs NavigationObserver) (Window, error)
}

// Window is one presented page.
type Window interface {
	// Dismissed is closed when the host or the user dismissed the page.
	Dismissed() <-chan struct{}
	// Close removes the page. It is safe to call more than once.
	Close() error
}
