package main

import (
	"fmt"
	"time"

	"substitution_notification_bot/internal/domain/substitution"
	"substitution_notification_bot/internal/infra/config"
	"substitution_notification_bot/internal/infra/edupage"
	"substitution_notification_bot/internal/infra/logger"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Fetch one day of substitutions from the portal and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dateFlag, _ := cmd.Flags().GetString("date")
			className, _ := cmd.Flags().GetString("class")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Init(cfg)

			date := time.Now().In(cfg.Location)
			if dateFlag != "" {
				date, err = time.ParseInLocation(substitution.DateLayout, dateFlag, cfg.Location)
				if err != nil {
					return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
				}
			}

			fetcher := edupage.NewClient(cfg.PortalURL, edupage.DefaultHTTPClient(cfg.PortalTimeout), cfg.PortalFetchAttempts)
			// The operator sees real failures here instead of an empty day.
			records, err := fetcher.Fetch(cmd.Context(), date, substitution.ModeClasses)
			if err != nil {
				return err
			}
			if className != "" {
				records = substitution.FilterByClass(records, className)
			}

			return printRecords(cmd, date, records)
		},
	}
	cmd.Flags().String("date", "", "day to check (YYYY-MM-DD), defaults to today")
	cmd.Flags().String("class", "", "only show this class, e.g. \"2a LO-p\"")
	return cmd
}

func printRecords(cmd *cobra.Command, date time.Time, records []substitution.Record) error {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		_, err := fmt.Fprintf(out, "No substitutions for %s\n", date.Format(substitution.DateLayout))
		return err
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(out, "%s\n", r.ClassName); err != nil {
			return err
		}
		for _, row := range r.Rows {
			if _, err := fmt.Fprintf(out, "  %s\n", row); err != nil {
				return err
			}
		}
	}
	return nil
}
