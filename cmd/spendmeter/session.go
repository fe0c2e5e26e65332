package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendmeter/spendmeter/pkg/meter"
	"github.com/spendmeter/spendmeter/pkg/models"
)

func newSessionCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		sessionID  string
		cost       float64
	)

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Report a session's cumulative cost; the positive delta is credited",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, dataDir)
			if err != nil {
				return err
			}

			mt := meter.New(cfg)
			ctx := context.Background()

			credited, err := mt.ApplySessionReport(ctx, sessionID, cost)
			if err != nil {
				return err
			}

			if cfg.Audit.Enabled && credited > 0 {
				if err := logCharge(ctx, cfg, models.ChargeEntry{
					SessionID: sessionID,
					Kind:      "session",
					Amount:    credited,
					HourKey:   mt.CurrentHourKey(),
				}); err != nil {
					return err
				}
			}

			if credited > 0 {
				fmt.Printf("Credited $%.*f for session %s\n", cfg.Precision, credited, sessionID)
			} else {
				fmt.Printf("Nothing credited for session %s\n", sessionID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "spendmeter.yaml", "path to config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "override data directory")
	cmd.Flags().StringVar(&sessionID, "id", "", "session identifier")
	cmd.Flags().Float64Var(&cost, "cost", 0, "cumulative cost reported by the session")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("cost")

	return cmd
}
