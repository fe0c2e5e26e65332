package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/spendmeter/spendmeter/pkg/audit"
	"github.com/spendmeter/spendmeter/pkg/models"
)

func newAuditCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		sessionID  string
		since      string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List credited charges from the charge log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, dataDir)
			if err != nil {
				return err
			}

			log, err := audit.New(cfg.Audit, cfg.AuditDBPath())
			if err != nil {
				return err
			}
			defer func() { _ = log.Close() }()

			opts := models.ChargeQueryOpts{SessionID: sessionID, Limit: limit}
			if since != "" {
				t, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("invalid --since date (use YYYY-MM-DD): %w", err)
				}
				opts.Since = t
			}

			entries, err := log.Query(context.Background(), opts)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No charges found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tKIND\tSESSION\tHOUR\tAMOUNT")
			for _, e := range entries {
				session := e.SessionID
				if session == "" {
					session = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%.*f\n",
					e.CreatedAt.Format("2006-01-02T15:04:05"), e.Kind, session, e.HourKey, cfg.Precision, e.Amount)
			}
			return w.Flush()
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-day charge counts and sums",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, dataDir)
			if err != nil {
				return err
			}

			log, err := audit.New(cfg.Audit, cfg.AuditDBPath())
			if err != nil {
				return err
			}
			defer func() { _ = log.Close() }()

			stats, err := log.Stats(context.Background())
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				fmt.Println("No charges found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DAY\tCHARGES\tAMOUNT")
			for _, s := range stats {
				fmt.Fprintf(w, "%s\t%d\t$%.*f\n", s.Day, s.Count, cfg.Precision, s.Amount)
			}
			return w.Flush()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "spendmeter.yaml", "path to config file")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override data directory")
	cmd.Flags().StringVar(&sessionID, "session", "", "filter by session id")
	cmd.Flags().StringVar(&since, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")
	cmd.AddCommand(statsCmd)

	return cmd
}
