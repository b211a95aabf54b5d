package firewall

import (
	"context"
	"fmt"
	"strings"

	"grimm.is/fwlens/internal/logging"
)

// RawOutput is the upstream contract: availability, an overall
// status for the flat and table backends, and the raw listing text.
// The zone backend additionally carries the permanent listing.
type RawOutput struct {
	Available      bool
	Status         string
	Rules          string
	PermanentRules string
}

// Source acquires raw listing text from the host's firewall tools.
// It decides availability and shape of the raw output but never
// interprets rule text; that is the parsers' job.
type Source struct {
	runner   CommandRunner
	logger   *logging.Logger
	commands map[Backend]string
	tables   []string
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithCommand overrides the executable used for a backend.
func WithCommand(b Backend, command string) SourceOption {
	return func(s *Source) {
		if command != "" {
			s.commands[b] = command
		}
	}
}

// WithTables sets which iptables tables are listed.
func WithTables(tables []string) SourceOption {
	return func(s *Source) {
		if len(tables) > 0 {
			s.tables = tables
		}
	}
}

// NewSource creates a Source backed by the given runner.
func NewSource(runner CommandRunner, logger *logging.Logger, opts ...SourceOption) *Source {
	s := &Source{
		runner: runner,
		logger: logger.WithComponent("source"),
		commands: map[Backend]string{
			BackendUFW:       "ufw",
			BackendIptables:  "iptables",
			BackendFirewalld: "firewall-cmd",
		},
		tables: []string{"filter", "nat"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collect acquires the raw listing for one backend. A missing tool
// yields Available=false and no error; a failing tool yields an
// error, which callers fold into the same unavailable state.
func (s *Source) Collect(ctx context.Context, b Backend) (*RawOutput, error) {
	switch b {
	case BackendUFW:
		return s.collectUFW(ctx)
	case BackendIptables:
		return s.collectIptables(ctx)
	case BackendFirewalld:
		return s.collectFirewalld(ctx)
	default:
		return nil, fmt.Errorf("unknown firewall backend %q", b)
	}
}

func (s *Source) collectUFW(ctx context.Context) (*RawOutput, error) {
	path, err := s.runner.LookPath(s.commands[BackendUFW])
	if err != nil {
		return &RawOutput{}, nil
	}

	out, err := s.runner.Output(ctx, path, "status", "numbered")
	if err != nil {
		return nil, fmt.Errorf("ufw status failed: %w", err)
	}

	raw := &RawOutput{Available: true, Status: StatusInactive, Rules: string(out)}
	for _, line := range strings.Split(raw.Rules, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Status:"); ok {
			if strings.EqualFold(strings.TrimSpace(rest), StatusActive) {
				raw.Status = StatusActive
			}
			break
		}
	}
	return raw, nil
}

func (s *Source) collectIptables(ctx context.Context) (*RawOutput, error) {
	path, err := s.runner.LookPath(s.commands[BackendIptables])
	if err != nil {
		return &RawOutput{}, nil
	}

	var sb strings.Builder
	for _, table := range s.tables {
		out, err := s.runner.Output(ctx, path, "-t", table, "-L", "-n", "--line-numbers")
		if err != nil {
			return nil, fmt.Errorf("iptables -t %s -L failed: %w", table, err)
		}
		// Marker line so the parser can keep chains grouped per table.
		sb.WriteString("*" + table + "\n")
		sb.Write(out)
		sb.WriteString("\n")
	}
	return &RawOutput{Available: true, Status: StatusActive, Rules: sb.String()}, nil
}

func (s *Source) collectFirewalld(ctx context.Context) (*RawOutput, error) {
	path, err := s.runner.LookPath(s.commands[BackendFirewalld])
	if err != nil {
		return &RawOutput{}, nil
	}

	state, err := s.runner.Output(ctx, path, "--state")
	if err != nil || strings.TrimSpace(string(state)) != "running" {
		s.logger.Debug("firewalld installed but not running")
		return &RawOutput{Available: true, Status: StatusInactive}, nil
	}

	rules, err := s.runner.Output(ctx, path, "--list-all-zones")
	if err != nil {
		return nil, fmt.Errorf("firewall-cmd --list-all-zones failed: %w", err)
	}
	permanent, err := s.runner.Output(ctx, path, "--permanent", "--list-all-zones")
	if err != nil {
		return nil, fmt.Errorf("firewall-cmd --permanent --list-all-zones failed: %w", err)
	}

	return &RawOutput{
		Available:      true,
		Status:         StatusActive,
		Rules:          string(rules),
		PermanentRules: string(permanent),
	}, nil
}
