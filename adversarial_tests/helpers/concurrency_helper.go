package helpers

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

// GoroutineBaseline is the goroutine count recorded before a test starts
// concurrent work.
type GoroutineBaseline int

// RecordGoroutines returns the current goroutine count as a baseline.
func RecordGoroutines() GoroutineBaseline {
	return GoroutineBaseline(runtime.NumGoroutine())
}

// Settle polls until the goroutine count is within tolerance of the baseline
// or maxWait elapses. On timeout the error carries a dump of every stack.
func (b GoroutineBaseline) Settle(maxWait time.Duration, tolerance int) error {
	deadline := time.Now().Add(maxWait)
	for {
		current := runtime.NumGoroutine()
		if current-int(b) <= tolerance {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%d goroutines outlived the call (baseline %d, tolerance %d):\n%s",
				current-int(b), int(b), tolerance, stacks())
		}
		runtime.GC()
		time.Sleep(25 * time.Millisecond)
	}
}

func stacks() string {
	buf := make([]byte, 64<<10)
	n := runtime.Stack(buf, true)
	return strings.TrimSpace(string(buf[:n]))
}

// RunConcurrently starts n goroutines running fn(i) behind a common start
// barrier and collects their errors in index order.
func RunConcurrently(n int, fn func(i int) error) []error {
	errs := make([]error, n)
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn(i)
		}(i)
	}

	close(start)
	wg.Wait()
	return errs
}

// CountErrors returns the number of non-nil errors in errs
func CountErrors(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}

// DeadlockDetector fails an operation that does not return in time
type DeadlockDetector struct {
	timeout time.Duration
}

// NewDeadlockDetector creates a detector with the given timeout
func NewDeadlockDetector(timeout time.Duration) *DeadlockDetector {
	return &DeadlockDetector{timeout: timeout}
}

// Run executes fn and returns an error if it has not returned within the timeout.
// fn keeps running in the background after a timeout.
func (d *DeadlockDetector) Run(name string, fn func()) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	select {
	case <-done:
		return nil
	case <-time.After(d.timeout):
		return fmt.Errorf("possible deadlock: %s did not return within %v", name, d.timeout)
	}
}
