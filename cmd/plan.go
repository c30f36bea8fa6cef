package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/cadre-hq/cadre/internal/adapters/repository"
	"github.com/cadre-hq/cadre/internal/app"
	"github.com/cadre-hq/cadre/internal/forms"
	"github.com/cadre-hq/cadre/pkg/logger"
)

var (
	planFormID  string
	planDBPath  string
	planForms   string
	planExempt  []string
	planDoApply bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Propose balanced reviewer pairings for a form's bootcamp applicants",
	Long: `plan runs the auto-assignment matcher against the store and prints
the proposed reviewer pairings as JSON. Nothing is written unless --apply
is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd.Context())
	},
}

func init() {
	planCmd.Flags().StringVar(&planFormID, "form", "", "form id to plan for (required)")
	planCmd.Flags().StringVar(&planDBPath, "db", "cadre.db", "path to the sqlite store")
	planCmd.Flags().StringVar(&planForms, "forms", "forms.yaml", "path to the form definitions file")
	planCmd.Flags().StringSliceVar(&planExempt, "exempt", nil, "assignee ids to exclude from the pool")
	planCmd.Flags().BoolVar(&planDoApply, "apply", false, "commit the plan instead of printing it")
	_ = planCmd.MarkFlagRequired("form")
	rootCmd.AddCommand(planCmd)
}

func runPlan(ctx context.Context) error {
	registry, err := forms.LoadFile(planForms)
	if err != nil {
		return err
	}
	store, err := repository.OpenSQLiteStore(planDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := app.New(store, registry, app.WithLogger(logger.Get().Named("plan")))

	items, err := svc.PlanAutoAssign(ctx, planFormID, planExempt)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if !planDoApply {
		return enc.Encode(items)
	}
	results := svc.CommitPlan(ctx, items)
	return enc.Encode(results)
}
