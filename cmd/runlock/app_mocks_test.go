package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bashhack/runlock/internal/config"
)

// MockLocker implements the Locker interface for testing
type MockLocker struct {
	AcquireErr    error
	ReleaseErr    error
	AcquireCalled bool
	ReleaseCalled bool
}

func (m *MockLocker) Acquire() error {
	m.AcquireCalled = true
	return m.AcquireErr
}

func (m *MockLocker) Release() error {
	m.ReleaseCalled = true
	return m.ReleaseErr
}

// MockLogger implements the logger.Logger interface for testing
type MockLogger struct {
	InfoCalled    bool
	WarningCalled bool
	ErrorCalled   bool
	CloseCalled   bool
	CloseErr      error
	Messages      []string
}

func (m *MockLogger) record(format string, args ...interface{}) {
	m.Messages = append(m.Messages, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.InfoCalled = true
	m.record(format, args...)
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.WarningCalled = true
	m.record(format, args...)
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.ErrorCalled = true
	m.record(format, args...)
}

func (m *MockLogger) WarningToUser(format string, args ...interface{}) { m.record(format, args...) }
func (m *MockLogger) StatusMessage(format string, args ...interface{}) { m.record(format, args...) }

func (m *MockLogger) Close() error {
	m.CloseCalled = true
	return m.CloseErr
}

// MockExecutor implements runner.CommandExecutor for testing
type MockExecutor struct {
	Err    error
	Called bool
	Name   string
	Args   []string
	OnRun  func(ctx context.Context) error
}

func (m *MockExecutor) ExecuteWithContext(ctx context.Context, name string, args ...string) error {
	m.Called = true
	m.Name = name
	m.Args = args
	if m.OnRun != nil {
		return m.OnRun(ctx)
	}
	return m.Err
}

// newTestApp returns an App with buffered output, mocks for every
// dependency.
func newTestApp(lockFile string, command ...string) (*App, *MockLocker, *MockLogger, *MockExecutor, *bytes.Buffer) {
	cfg := config.New()
	cfg.LockFile = lockFile
	cfg.LogFile = lockFile + ".log"
	cfg.Command = command

	locker := &MockLocker{}
	log := &MockLogger{}
	executor := &MockExecutor{}
	stderr := &bytes.Buffer{}

	app := NewApp(AppOptions{
		Config:       cfg,
		Logger:       log,
		Locker:       locker,
		Executor:     executor,
		Stdout:       &bytes.Buffer{},
		Stderr:       stderr,
		Exit:         func(int) {},
		ExecLookPath: func(file string) (string, error) { return "/usr/bin/" + file, nil },
	})

	return app, locker, log, executor, stderr
}
