package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spendmeter/spendmeter/pkg/meter"
)

func newStatsCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, dataDir)
			if err != nil {
				return err
			}

			mt := meter.New(cfg)
			s, err := mt.Stats(context.Background())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Hourly buckets\t%d\n", s.HourlyBuckets)
			fmt.Fprintf(w, "Migrated buckets\t%d\n", s.MigratedBuckets)
			fmt.Fprintf(w, "Total cost\t$%.*f\n", cfg.Precision, s.TotalCost)
			if s.OldestHour != "" {
				fmt.Fprintf(w, "Oldest hour\t%s\n", s.OldestHour)
				fmt.Fprintf(w, "Newest hour\t%s\n", s.NewestHour)
			}
			fmt.Fprintf(w, "Sessions\t%d\n", s.Sessions)
			fmt.Fprintf(w, "Session updates\t%d\n", s.SessionUpdates)
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "spendmeter.yaml", "path to config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "override data directory")

	return cmd
}
