package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendmeter/spendmeter/pkg/audit"
	"github.com/spendmeter/spendmeter/pkg/meter"
)

func newResetCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all spend data (irreversible, requires --yes)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, dataDir)
			if err != nil {
				return err
			}

			ctx := context.Background()
			mt := meter.New(cfg)
			if err := mt.Reset(ctx, yes); err != nil {
				return err
			}

			if cfg.Audit.Enabled {
				log, err := audit.New(cfg.Audit, cfg.AuditDBPath())
				if err != nil {
					return err
				}
				defer func() { _ = log.Close() }()
				if err := log.Reset(ctx); err != nil {
					return err
				}
			}

			fmt.Println("All spend data cleared.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "spendmeter.yaml", "path to config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "override data directory")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive reset")

	return cmd
}
