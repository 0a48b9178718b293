package helpers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ChaosMode defines the type of chaos to inject
type ChaosMode int

const (
	// ChaosNone forwards requests unchanged
	ChaosNone ChaosMode = iota

	// ChaosConnectionReset fails the round trip
	ChaosConnectionReset

	// ChaosPartialRead returns a body that fails midway
	ChaosPartialRead

	// ChaosSlowResponse delays until the request context ends or Delay elapses
	ChaosSlowResponse

	// ChaosHTMLBody answers 502 with an HTML error page
	ChaosHTMLBody

	// ChaosEmptyBody answers 200 with no body
	ChaosEmptyBody

	// ChaosOversizedBody answers with more bytes than any client should read
	ChaosOversizedBody

	// ChaosDNSFailure fails the round trip with a lookup error
	ChaosDNSFailure

	// ChaosIntermittent applies a random failure mode with probability FailureRate
	ChaosIntermittent
)

// ChaosConfig configures the chaos transport
type ChaosConfig struct {
	// Mode determines which type of chaos to inject
	Mode ChaosMode

	// FailureRate is the probability of failure in ChaosIntermittent mode
	FailureRate float64

	// Delay is the stall for ChaosSlowResponse
	Delay time.Duration

	// OversizedBytes is the body size for ChaosOversizedBody
	OversizedBytes int

	// Seed makes ChaosIntermittent reproducible
	Seed int64
}

// ChaosTransport is an http.RoundTripper that injects failures in front of
// a real transport.
type ChaosTransport struct {
	next   http.RoundTripper
	config ChaosConfig

	requests atomic.Int64
	injected atomic.Int64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewChaosTransport wraps next, or http.DefaultTransport when next is nil
func NewChaosTransport(next http.RoundTripper, config ChaosConfig) *ChaosTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &ChaosTransport{
		next:   next,
		config: config,
		rnd:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Client returns an http.Client using the transport
func (c *ChaosTransport) Client() *http.Client {
	return &http.Client{Transport: c}
}

// Requests returns the number of round trips attempted
func (c *ChaosTransport) Requests() int64 { return c.requests.Load() }

// Injected returns the number of round trips that were sabotaged
func (c *ChaosTransport) Injected() int64 { return c.injected.Load() }

// RoundTrip implements http.RoundTripper
func (c *ChaosTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.requests.Add(1)

	mode := c.config.Mode
	if mode == ChaosIntermittent {
		mode = c.pickMode()
	}
	if mode != ChaosNone {
		c.injected.Add(1)
	}

	switch mode {
	case ChaosConnectionReset:
		return nil, errors.New("connection reset by peer")

	case ChaosDNSFailure:
		return nil, &DNSError{Err: "no such host", Server: "8.8.8.8"}

	case ChaosSlowResponse:
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(c.config.Delay):
		}
		return c.next.RoundTrip(req)

	case ChaosPartialRead:
		resp, err := c.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		resp.Body = &partialReadCloser{reader: bytes.NewReader(body), failAfter: len(body) / 2}
		return resp, nil

	case ChaosHTMLBody:
		return newResponse(req, http.StatusBadGateway, "<html><body><h1>502 Bad Gateway</h1></body></html>"), nil

	case ChaosEmptyBody:
		return newResponse(req, http.StatusOK, ""), nil

	case ChaosOversizedBody:
		size := c.config.OversizedBytes
		if size <= 0 {
			size = 11 << 20
		}
		body := `{"meta": {"code": 200}, "data": {"bio": "` + strings.Repeat("A", size) + `"}}`
		return newResponse(req, http.StatusOK, body), nil

	default:
		return c.next.RoundTrip(req)
	}
}

func (c *ChaosTransport) pickMode() ChaosMode {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rnd.Float64() >= c.config.FailureRate {
		return ChaosNone
	}
	modes := []ChaosMode{
		ChaosConnectionReset,
		ChaosPartialRead,
		ChaosHTMLBody,
		ChaosEmptyBody,
		ChaosDNSFailure,
	}
	return modes[c.rnd.Intn(len(modes))]
}

func newResponse(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
		Header:        make(http.Header),
	}
}

// partialReadCloser is an io.ReadCloser that fails after reading a certain amount
type partialReadCloser struct {
	reader    io.Reader
	failAfter int
	totalRead int
}

func (p *partialReadCloser) Read(buf []byte) (int, error) {
	if p.totalRead >= p.failAfter {
		return 0, errors.New("connection reset during read")
	}
	if remaining := p.failAfter - p.totalRead; len(buf) > remaining {
		buf = buf[:remaining]
	}
	n, err := p.reader.Read(buf)
	p.totalRead += n
	if err == io.EOF {
		return n, errors.New("connection reset during read")
	}
	return n, err
}

func (p *partialReadCloser) Close() error {
	return nil
}

// DNSError simulates DNS lookup failures
type DNSError struct {
	Err    string
	Server string
}

func (e *DNSError) Error() string {
	return fmt.Sprintf("lookup failed: %s (server: %s)", e.Err, e.Server)
}

func (e *DNSError) Temporary() bool {
	return true
}

func (e *DNSError) Timeout() bool {
	return false
}
