package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spendmeter/spendmeter/pkg/budget"
	"github.com/spendmeter/spendmeter/pkg/meter"
)

func newBudgetCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
	)

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Check spend against configured budget limits",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show spend vs limits per window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, dataDir)
			if err != nil {
				return err
			}
			if !cfg.Budget.Enabled {
				fmt.Println("Budget limits are disabled.")
				return nil
			}

			mt := meter.New(cfg)
			t, err := mt.Totals(context.Background())
			if err != nil {
				return err
			}

			statuses := budget.New(cfg.Budget).Evaluate(t)
			if len(statuses) == 0 {
				fmt.Println("No budget limits configured.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WINDOW\tLIMIT\tUSED\tREMAINING\tSTATE")
			for _, s := range statuses {
				state := "ok"
				if s.Exceeded {
					state = "EXCEEDED"
				}
				fmt.Fprintf(w, "%s\t$%.2f\t$%.*f\t$%.*f\t%s\n",
					s.Window, s.Limit, cfg.Precision, s.Used, cfg.Precision, s.Remaining, state)
			}
			return w.Flush()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "spendmeter.yaml", "path to config file")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override data directory")
	cmd.AddCommand(statusCmd)
	return cmd
}
