package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockResponse is one canned answer. A non-empty StopReason other than
// StopEnd is reported as the provider would report it.
type MockResponse struct {
	Content    json.RawMessage
	Usage      Usage
	StopReason string
	Err        error
}

// MockJSON encodes v as the content of a canned answer, typically a game
// document built in a test.
func MockJSON(v any) MockResponse {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("llm: mock content: %v", err))
	}
	return MockResponse{Content: b}
}

// MockProvider answers from a FIFO of canned responses and records every
// request. Responses go through the same schema check as real providers.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate pops the next response. An empty queue reports the provider as
// unavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if resp.Err != nil {
		return nil, resp.Err
	}
	stop := resp.StopReason
	if stop == "" {
		stop = StopEnd
	}
	return finish(req, resp.Content, stop, resp.Usage, "mock")
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
