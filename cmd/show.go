package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v2"

	"grimm.is/fwlens/internal/firewall"
	"grimm.is/fwlens/internal/logging"
)

// RunShow performs a one-shot refresh and prints the normalized
// configuration. backend narrows the output to one tool; format is
// "json" or "yaml".
func RunShow(backend, format string) error {
	var backends []firewall.Backend
	if backend != "" {
		b := firewall.Backend(backend)
		if _, err := firewall.ParserFor(b); err != nil {
			return err
		}
		backends = []firewall.Backend{b}
	}

	logger := logging.New(logging.DefaultConfig())
	source := firewall.NewSource(firewall.RealCommandRunner{}, logger)
	engine := firewall.NewEngine(source, logger, backends)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	snap := engine.Refresh(ctx)

	var out any = snap
	if backend != "" {
		out = snap.Config(firewall.Backend(backend))
	}

	switch format {
	case "", "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		fmt.Print(string(data))
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
	return nil
}
