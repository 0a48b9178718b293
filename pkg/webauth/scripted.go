package webauth

import (
	"context"
	"sync"
)

// Event is one scripted navigation. A zero Status is a navigation request;
// a non-zero Status is a response received for URL.
type Event struct {
	URL    string
	Status int
}

// ScriptedSurface replays a fixed sequence of navigation events without any UI.
// It is the test double for hosts and for the login flow.
type ScriptedSurface struct {
	// Events are delivered in order on a single goroutine.
	Events []Event
	// DismissWhenDone dismisses the window after the last event, as a user
	// pressing "back" would.
	DismissWhenDone bool
	// PresentErr, when set, is returned from Present.
	PresentErr error

	mu        sync.Mutex
	presented []string
	decisions []Decision
	windows   []*scriptedWindow
}

// Present records authURL and starts replaying Events to obs.
func (s *ScriptedSurface) Present(ctx context.Context, authURL string, obs NavigationObserver) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.PresentErr != nil {
		return nil, s.PresentErr
	}

	w := &scriptedWindow{
		dismissed: make(chan struct{}),
		closed:    make(chan struct{}),
	}
	s.presented = append(s.presented, authURL)
	s.windows = append(s.windows, w)

	events := append([]Event(nil), s.Events...)
	go s.replay(ctx, w, events, obs)
	return w, nil
}

func (s *ScriptedSurface) replay(ctx context.Context, w *scriptedWindow, events []Event, obs NavigationObserver) {
	for _, ev := range events {
		select {
		case <-w.closed:
			return
		case <-ctx.Done():
			return
		default:
		}

		var d Decision
		if ev.Status == 0 {
			d = obs.OnNavigationRequested(ev.URL)
		} else {
			d = obs.OnResponseReceived(ev.URL, ev.Status)
		}

		s.mu.Lock()
		s.decisions = append(s.decisions, d)
		s.mu.Unlock()
	}

	if s.DismissWhenDone {
		w.dismiss()
	}
}

// Presented returns every URL passed to Present.
func (s *ScriptedSurface) Presented() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.presented...)
}

// Decisions returns the observer's answers in delivery order.
func (s *ScriptedSurface) Decisions() []Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Decision(nil), s.decisions...)
}

// Closed reports how many presented windows have been closed.
func (s *ScriptedSurface) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range s.windows {
		if w.isClosed() {
			n++
		}
	}
	return n
}

type scriptedWindow struct {
	dismissOnce sync.Once
	closeOnce   sync.Once
	dismissed   chan struct{}
	closed      chan struct{}
}

func (w *scriptedWindow) Dismissed() <-chan struct{} { return w.dismissed }

func (w *scriptedWindow) Close() error {
	w.closeOnce.Do(func() { close(w.closed) })
	return nil
}

func (w *scriptedWindow) dismiss() {
	w.dismissOnce.Do(func() { close(w.dismissed) })
}

func (w *scriptedWindow) isClosed() bool {
	select {
	case <-w.closed:
		return true
	default:
		return false
	}
}
