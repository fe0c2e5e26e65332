package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spendmeter/spendmeter/pkg/config"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "spendmeter",
		Short:   "spendmeter — file-backed session spend metering",
		Version: version,
	}

	root.AddCommand(
		newRecordCmd(),
		newSessionCmd(),
		newTotalsCmd(),
		newStatsCmd(),
		newResetCmd(),
		newMigrateCmd(),
		newBudgetCmd(),
		newAuditCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration from file, environment, and flags.
// The --data-dir flag wins over both.
func loadConfig(configPath, dataDir string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}
