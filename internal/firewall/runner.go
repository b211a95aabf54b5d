package firewall

import (
	"context"
	"os/exec"
)

// CommandRunner abstracts execution of the firewall control tools so
// the acquisition layer can be tested without a live system.
type CommandRunner interface {
	// LookPath resolves a tool name to an executable path. An error
	// means the tool is not installed.
	LookPath(name string) (string, error)
	// Output runs a command and returns its stdout. Cancellation and
	// timeouts are the caller's responsibility via ctx.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RealCommandRunner executes commands on the host.
type RealCommandRunner struct{}

func (RealCommandRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (RealCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
