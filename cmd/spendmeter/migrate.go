package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendmeter/spendmeter/pkg/meter"
)

func newMigrateCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Convert the legacy daily store into hourly buckets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, dataDir)
			if err != nil {
				return err
			}

			mt := meter.New(cfg)
			n, err := mt.MigrateLegacy(context.Background())
			if err != nil {
				return err
			}

			if n == 0 {
				fmt.Println("Nothing to migrate.")
				return nil
			}
			fmt.Printf("Migrated %d daily entries into hourly buckets.\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "spendmeter.yaml", "path to config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "override data directory")

	return cmd
}
