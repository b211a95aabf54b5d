package firewall

import (
	"context"
	"time"

	"github.com/google/uuid"

	"grimm.is/fwlens/internal/logging"
	"grimm.is/fwlens/internal/metrics"
)

// Snapshot is one complete normalization pass over all enabled
// backends. Snapshots replace each other wholesale (last write wins);
// the ID exists only for log correlation, not for sequencing.
type Snapshot struct {
	ID      string                 `json:"id"`
	Time    time.Time              `json:"time"`
	Configs []*ParsedConfiguration `json:"configs"`
}

// Config returns the configuration for a backend, or nil.
func (s *Snapshot) Config(b Backend) *ParsedConfiguration {
	for _, c := range s.Configs {
		if c.Backend == b {
			return c
		}
	}
	return nil
}

// Engine ties acquisition, parsing, diffing, and aggregation into a
// single refresh operation. It holds no parse state between calls.
type Engine struct {
	source   *Source
	logger   *logging.Logger
	backends []Backend
}

// NewEngine creates an Engine refreshing the given backends in order.
// An empty backend list means all supported backends.
func NewEngine(source *Source, logger *logging.Logger, backends []Backend) *Engine {
	if len(backends) == 0 {
		backends = Backends()
	}
	return &Engine{
		source:   source,
		logger:   logger.WithComponent("firewall"),
		backends: backends,
	}
}

// Refresh produces a fresh snapshot. It never fails: backends whose
// acquisition errors are reported as unavailable, which downstream
// must render distinctly from "no rules configured".
func (e *Engine) Refresh(ctx context.Context) *Snapshot {
	snap := &Snapshot{ID: uuid.NewString(), Time: time.Now()}
	for _, b := range e.backends {
		snap.Configs = append(snap.Configs, e.refreshBackend(ctx, b))
	}
	e.logger.Debug("refreshed firewall snapshot", "id", snap.ID, "backends", len(snap.Configs))
	return snap
}

func (e *Engine) refreshBackend(ctx context.Context, b Backend) *ParsedConfiguration {
	m := metrics.Get()
	m.RefreshTotal.WithLabelValues(string(b)).Inc()

	raw, err := e.source.Collect(ctx, b)
	if err != nil {
		e.logger.Warn("failed to acquire firewall listing", "backend", string(b), "error", err)
		m.RefreshErrors.WithLabelValues(string(b)).Inc()
		m.ToolAvailable.WithLabelValues(string(b)).Set(0)
		return Unavailable(b)
	}
	if !raw.Available {
		m.ToolAvailable.WithLabelValues(string(b)).Set(0)
		return Unavailable(b)
	}
	m.ToolAvailable.WithLabelValues(string(b)).Set(1)

	parser, err := ParserFor(b)
	if err != nil {
		e.logger.Error("no parser for backend", "backend", string(b))
		return Unavailable(b)
	}

	start := time.Now()
	cfg := parser.Parse(raw.Rules)
	cfg.Available = true

	if b == BackendFirewalld {
		// A zone present in the runtime listing but missing from the
		// permanent one is fully temporary, so the diff runs even
		// when the permanent listing is empty.
		permanent := parser.Parse(raw.PermanentRules)
		cfg = Diff(cfg, permanent)
	} else {
		// Flat and table listings carry no per-group status in the
		// text; apply the tool-level status to every group.
		for i := range cfg.Groups {
			cfg.Groups[i].Status = raw.Status
		}
	}

	Aggregate(cfg)
	m.ParseDuration.WithLabelValues(string(b)).Observe(time.Since(start).Seconds())
	m.RulesParsed.WithLabelValues(string(b)).Set(float64(cfg.Total))
	return cfg
}
