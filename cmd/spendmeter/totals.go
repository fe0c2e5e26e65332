package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spendmeter/spendmeter/pkg/meter"
)

func newTotalsCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Show hourly, daily, and weekly spend totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, dataDir)
			if err != nil {
				return err
			}

			mt := meter.New(cfg)
			t, err := mt.Totals(context.Background())
			if err != nil {
				return err
			}

			if asJSON {
				out, err := json.MarshalIndent(t, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WINDOW\tKEY\tSPEND")
			fmt.Fprintf(w, "hourly\t%s\t$%.*f\n", t.Hour, cfg.Precision, t.Hourly)
			fmt.Fprintf(w, "daily\t%s\t$%.*f\n", t.Date, cfg.Precision, t.Daily)
			fmt.Fprintf(w, "weekly\t%s\t$%.*f\n", t.Week, cfg.Precision, t.Weekly)
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "spendmeter.yaml", "path to config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "override data directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}
