package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"grimm.is/fwlens/internal/firewall"
	"grimm.is/fwlens/internal/logging"
)

// RunDiff prints a unified diff between the firewalld runtime and
// permanent listings. An empty diff means every live change would
// survive a reload.
func RunDiff() error {
	logger := logging.New(logging.DefaultConfig())
	source := firewall.NewSource(firewall.RealCommandRunner{}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	raw, err := source.Collect(ctx, firewall.BackendFirewalld)
	if err != nil {
		return fmt.Errorf("failed to read firewalld configuration: %w", err)
	}
	if !raw.Available {
		return fmt.Errorf("firewalld is not installed")
	}
	if raw.Status != firewall.StatusActive {
		return fmt.Errorf("firewalld is not running")
	}

	if raw.Rules == raw.PermanentRules {
		fmt.Println("No changes detected.")
		return nil
	}

	fmt.Println("Runtime configuration differs from permanent configuration:")

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(raw.PermanentRules),
		B:        difflib.SplitLines(raw.Rules),
		FromFile: "Permanent",
		ToFile:   "Runtime",
		Context:  3,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	fmt.Print(text)

	return fmt.Errorf("runtime configuration differs")
}
