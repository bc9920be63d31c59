package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/finance-tracker/ledger/internal/application/usecase/category"
	"github.com/finance-tracker/ledger/internal/application/usecase/recurring"
	"github.com/finance-tracker/ledger/internal/integration/adapters"
	"github.com/finance-tracker/ledger/internal/integration/queue"
)

const dateLayout = "2006-01-02"

// parseAt returns the --at flag as a UTC instant, defaulting to now.
func parseAt(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("at")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: use YYYY-MM-DD or RFC3339", raw)
	}
	return t.UTC(), nil
}

func processRecurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process-recurring",
		Short: "Materialize due recurring transactions once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := parseAt(cmd)
			if err != nil {
				return err
			}
			a, err := bootstrap(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()

			outcomes, err := a.Scheduler.ProcessDue(cmd.Context(), at)
			if err != nil {
				return err
			}

			counts := map[recurring.OutcomeStatus]int{}
			for _, o := range outcomes {
				counts[o.Status]++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed %d definitions: %v\n", len(outcomes), counts)
			return nil
		},
	}
	cmd.Flags().String("at", "", "evaluation instant (YYYY-MM-DD or RFC3339, default now)")
	return cmd
}

func sweepOverdueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep-overdue",
		Short: "Complete or extend saving plans past their deadline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := parseAt(cmd)
			if err != nil {
				return err
			}
			a, err := bootstrap(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.Lifecycle.SweepOverdue(cmd.Context(), at)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked=%d completed=%d extended=%d failed=%d\n",
				result.Checked, result.Completed, result.Extended, result.Failed)
			return nil
		},
	}
	cmd.Flags().String("at", "", "evaluation day (YYYY-MM-DD or RFC3339, default today)")
	return cmd
}

func checkProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-progress",
		Short: "Check active saving plans against their schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := parseAt(cmd)
			if err != nil {
				return err
			}
			a, err := bootstrap(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()

			reports, err := a.Lifecycle.CheckProgress(cmd.Context(), at)
			if err != nil {
				return err
			}
			behind, notified := 0, 0
			for _, r := range reports {
				if r.Behind {
					behind++
				}
				if r.Notified {
					notified++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked=%d behind=%d notified=%d\n", len(reports), behind, notified)
			return nil
		},
	}
	cmd.Flags().String("at", "", "evaluation day (YYYY-MM-DD or RFC3339, default today)")
	return cmd
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute every budget and saving plan from the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()

			out, err := a.Reconciler.Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "budgets checked=%d repaired=%d, plans checked=%d repaired=%d, failures=%d\n",
				out.BudgetsChecked, out.BudgetsRepaired, out.PlansChecked, out.PlansRepaired, out.Failures)
			return nil
		},
	}
}

func seedCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-categories <owner-user-id>",
		Short: "Create the shared predefined categories that are missing",
		Long: `Create predefined categories owned by the given user. Every user may book
against them; only the owner may rename or delete them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			names, _ := cmd.Flags().GetStringSlice("name")

			a, err := bootstrap(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()

			out, err := category.NewSeedPredefinedCategoriesUseCase(a.UnitOfWork).Execute(cmd.Context(), category.SeedPredefinedCategoriesInput{
				OwnerID: ownerID,
				Names:   names,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d categories, %d already present\n", len(out.Created), len(out.Skipped))
			return nil
		},
	}
	cmd.Flags().StringSlice("name", nil, "category name to seed (repeatable, default the built-in list)")
	return cmd
}

func drainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drain",
		Short: "Execute every due task in the outbox and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()

			worker := queue.NewWorker(a.Tasks, a.Executor, a.WorkerConfig(), a.Logger)
			n := worker.Drain(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "executed %d tasks\n", n)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Sign an access token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.IsProduction() {
				return fmt.Errorf("refusing to sign tokens in production")
			}

			email, _ := cmd.Flags().GetString("email")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			token, err := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer).IssueAccessToken(userID, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("email", "", "email claim")
	cmd.Flags().Duration("ttl", time.Hour, "token lifetime")
	return cmd
}
