package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// CommandRunner executes external commands on behalf of a Context.
type CommandRunner interface {
	// Run executes name with args in dir and returns trimmed stdout.
	// On failure the returned string carries the command output for
	// error reporting.
	Run(dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements CommandRunner.
func (*ExecRunner) Run(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = strings.TrimSpace(stdout.String())
		}
		return errMsg, fmt.Errorf("%s", errMsg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// mockResponse is one canned answer for SequentialMockRunner.
type mockResponse struct {
	output string
	err    error
}

// SequentialMockRunner returns canned outputs in the order commands run.
// It records every invocation for assertions.
type SequentialMockRunner struct {
	mu        sync.Mutex
	responses []mockResponse
	Calls     [][]string // Recorded args per invocation (excluding "git")
}

// NewSequentialMockRunner creates an empty mock runner.
func NewSequentialMockRunner() *SequentialMockRunner {
	return &SequentialMockRunner{}
}

// AddOutput queues a response for the next command.
func (m *SequentialMockRunner) AddOutput(output string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{output: output, err: err})
}

// Run implements CommandRunner by dequeuing the next canned response.
func (m *SequentialMockRunner) Run(dir, name string, args ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, args)

	if len(m.responses) == 0 {
		return "", fmt.Errorf("unexpected command: %s %s", name, strings.Join(args, " "))
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp.output, resp.err
}
