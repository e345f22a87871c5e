package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sahod-planner/backend/internal/config"
	"github.com/sahod-planner/backend/internal/ledger"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/sahod"
	"github.com/sahod-planner/backend/internal/types"
	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var owner, date string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Post due recurring entries and process completed periods of an owner",
		Long: `reconcile runs the steps that otherwise happen when the owner opens the app:
the current instance of every active pay cycle is looked up, which processes
the rollover of the completed period, and all due recurring entries are posted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(owner)
			if err != nil {
				return fmt.Errorf("--owner must be a UUID: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var opts []sahod.Option
			if date != "" {
				d, err := types.ParseDate(date)
				if err != nil {
					return fmt.Errorf("--date must be formatted as YYYY-MM-DD: %w", err)
				}

				// Noon avoids any ambiguity about the day
				at := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, cfg.Engine.Location)
				opts = append(opts, sahod.WithClock(func() time.Time { return at }))
			}

			if err := connect(cfg); err != nil {
				return err
			}

			engine := sahod.New(models.DB, ledger.New(models.DB), cfg.Engine, opts...)
			return reconcile(cmd, engine, id)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "ID of the owner")
	cmd.Flags().StringVar(&date, "date", "", "Reconcile as of this date (YYYY-MM-DD) instead of today")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func reconcile(cmd *cobra.Command, engine *sahod.Engine, owner uuid.UUID) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cycles, err := engine.PayCycles(ctx, owner)
	if err != nil {
		return err
	}

	var warnings []sahod.Warning
	for _, cycle := range cycles {
		current, err := engine.GetOrCreateCurrentInstance(ctx, cycle, engine.Today())
		if err != nil {
			return err
		}
		warnings = append(warnings, current.Warnings...)

		fmt.Fprintf(out, "%s: %s to %s\n", cycle.Name, current.Instance.PeriodStart, current.Instance.PeriodEnd)
	}

	report := engine.ReconcileAt(ctx, owner, engine.Today())
	warnings = append(warnings, report.Warnings...)

	for _, entry := range report.Posted {
		fmt.Fprintf(out, "posted %s %s on %s\n", entry.Description, entry.Amount.StringFixed(2), entry.Date)
	}
	fmt.Fprintf(out, "%d entries posted, %d warnings\n", len(report.Posted), len(warnings))

	for _, w := range warnings {
		log.Warn().Str("operation", w.Operation).Str("resource", w.ResourceID.String()).Msg(w.Message)
	}

	return nil
}
