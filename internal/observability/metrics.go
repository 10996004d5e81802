package observability

import (
	"sync"
	"time"
)

type requestKey struct {
	Path   string
	Method string
	Status int
}

type errorKey struct {
	Path   string
	Method string
	Code   string
}

// Metrics keeps in-process request and error counters. It is a
// deliberately small registry: the counters are exposed through
// Snapshot for the health surface rather than a scrape endpoint.
type Metrics struct {
	mu       sync.Mutex
	requests map[requestKey]int64
	errors   map[errorKey]int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[requestKey]int64),
		errors:   make(map[errorKey]int64),
	}
}

// RecordRequest counts a completed request by path, method and status.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[requestKey{Path: path, Method: method, Status: status}]++
}

// RecordError counts a request that resolved to a domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[errorKey{Path: path, Method: method, Code: code}]++
}

// Snapshot returns total request and error counts plus error counts
// broken down by code.
func (m *Metrics) Snapshot() (requests int64, errorsByCode map[string]int64) {
	errorsByCode = make(map[string]int64)
	if m == nil {
		return 0, errorsByCode
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.requests {
		requests += n
	}
	for key, n := range m.errors {
		errorsByCode[key.Code] += n
	}
	return requests, errorsByCode
}
