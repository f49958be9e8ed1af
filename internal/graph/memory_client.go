package graph

import (
	"context"
	"sync"
)

// MemoryClient is an in-memory Client that records every statement and replays
// queued results, for testing repositories without a running database.
type MemoryClient struct {
	mu           sync.Mutex
	calls        []ExecutedQuery
	queued       map[AccessMode][]Result
	err          error
	connectivity error
	closed       bool
}

// ExecutedQuery captures a cypher statement and parameters executed against the graph.
type ExecutedQuery struct {
	Mode   AccessMode
	Query  string
	Params map[string]any
}

// NewMemoryClient instantiates an empty recording client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{queued: make(map[AccessMode][]Result)}
}

// WithError makes every subsequent statement fail with err.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return err.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// Push queues res as the answer to the next statement of the given mode.
func (m *MemoryClient) Push(mode AccessMode, res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued[mode] = append(m.queued[mode], res)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	return m.execute(AccessWrite, cypher, params)
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	return m.execute(AccessRead, cypher, params)
}

func (m *MemoryClient) execute(mode AccessMode, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}
	m.calls = append(m.calls, ExecutedQuery{Mode: mode, Query: cypher, Params: cloneMap(params)})

	q := m.queued[mode]
	if len(q) == 0 {
		return Result{}, nil
	}
	m.queued[mode] = q[1:]
	return q[0], nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MemoryClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Calls returns a snapshot of executed statements of the given mode.
func (m *MemoryClient) Calls(mode AccessMode) []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ExecutedQuery
	for _, c := range m.calls {
		if c.Mode == mode {
			out = append(out, c)
		}
	}
	return out
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
