package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendmeter/spendmeter/pkg/audit"
	"github.com/spendmeter/spendmeter/pkg/config"
	"github.com/spendmeter/spendmeter/pkg/meter"
	"github.com/spendmeter/spendmeter/pkg/models"
)

func newRecordCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		amount     float64
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Credit a raw cost amount to the current hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, dataDir)
			if err != nil {
				return err
			}

			mt := meter.New(cfg)
			ctx := context.Background()

			if err := mt.RecordRaw(ctx, amount); err != nil {
				return err
			}

			if cfg.Audit.Enabled {
				if err := logCharge(ctx, cfg, models.ChargeEntry{
					Kind:    "raw",
					Amount:  amount,
					HourKey: mt.CurrentHourKey(),
				}); err != nil {
					return err
				}
			}

			fmt.Printf("Credited $%.*f to hour %s\n", cfg.Precision, amount, mt.CurrentHourKey())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "spendmeter.yaml", "path to config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "override data directory")
	cmd.Flags().Float64Var(&amount, "amount", 0, "cost amount to credit")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

// logCharge appends a credited charge to the SQLite charge log.
func logCharge(ctx context.Context, cfg *config.Config, e models.ChargeEntry) error {
	log, err := audit.New(cfg.Audit, cfg.AuditDBPath())
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()
	return log.Record(ctx, e)
}
