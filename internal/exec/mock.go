package exec

import (
	"context"
	"strings"
	"sync"
)

// MockResponse is the canned result for a matched command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// Call records one command invocation seen by the mock.
type Call struct {
	Dir  string
	Name string
	Args []string
}

type prefixRule struct {
	name   string
	prefix []string
	resp   MockResponse
}

// MockExecutor is a CommandExecutor that returns canned responses.
// Rules are matched in registration order; the first rule whose command name
// and argument prefix match wins. Unmatched commands get the default response
// (success with empty output when nil).
type MockExecutor struct {
	mu          sync.Mutex
	rules       []prefixRule
	defaultResp *MockResponse
	calls       []Call
}

// NewMockExecutor creates a mock. defaultResp applies to unmatched commands;
// nil means empty success.
func NewMockExecutor(defaultResp *MockResponse) *MockExecutor {
	return &MockExecutor{defaultResp: defaultResp}
}

// AddPrefixMatch registers a canned response for commands whose name matches
// and whose arguments start with argPrefix.
func (m *MockExecutor) AddPrefixMatch(name string, argPrefix []string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, prefixRule{name: name, prefix: argPrefix, resp: resp})
}

// Calls returns a copy of all recorded invocations.
func (m *MockExecutor) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsMatching returns the recorded invocations whose args start with argPrefix.
func (m *MockExecutor) CallsMatching(name string, argPrefix ...string) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Call
	for _, c := range m.calls {
		if c.Name == name && hasPrefix(c.Args, argPrefix) {
			out = append(out, c)
		}
	}
	return out
}

func hasPrefix(args, prefix []string) bool {
	if len(args) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if args[i] != p {
			return false
		}
	}
	return true
}

func (m *MockExecutor) respond(dir, name string, args []string) MockResponse {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Dir: dir, Name: name, Args: append([]string(nil), args...)})

	for _, r := range m.rules {
		if r.name == name && hasPrefix(args, r.prefix) {
			return r.resp
		}
	}
	if m.defaultResp != nil {
		return *m.defaultResp
	}
	return MockResponse{}
}

func (m *MockExecutor) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	resp := m.respond(dir, name, args)
	return string(resp.Stdout), string(resp.Stderr), resp.Err
}

func (m *MockExecutor) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	resp := m.respond(dir, name, args)
	return string(resp.Stdout), resp.Err
}

func (m *MockExecutor) CombinedOutput(ctx context.Context, dir, name string, args ...string) (string, error) {
	resp := m.respond(dir, name, args)
	var b strings.Builder
	b.Write(resp.Stdout)
	b.Write(resp.Stderr)
	return b.String(), resp.Err
}
