package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/yanqian/fitness-wizard/internal/domain/document"
	"github.com/yanqian/fitness-wizard/internal/domain/plan"
	"github.com/yanqian/fitness-wizard/internal/infra/joblog"
	"github.com/yanqian/fitness-wizard/internal/infra/pdf"
)

type options struct {
	profilePath string
	outDir      string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "planctl",
		Short:         "Fitness Wizard offline tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.profilePath, "profile", "", "path to the profile JSON")
	root.PersistentFlags().StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(newRenderPlanCmd(opts), newRenderBonusCmd(opts), newJobsCmd())
	return root
}

func newRenderPlanCmd(opts *options) *cobra.Command {
	var (
		planPath string
		layout   string
	)
	cmd := &cobra.Command{
		Use:   "render-plan",
		Short: "Render a plan JSON file (raw model output is accepted) to PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := readProfile(opts.profilePath)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(planPath)
			if err != nil {
				return fmt.Errorf("read plan: %w", err)
			}
			doc, err := plan.ParseDocument(string(raw))
			if err != nil {
				return fmt.Errorf("parse plan: %w", err)
			}

			layouts, err := selectLayouts(layout)
			if err != nil {
				return err
			}
			renderer := pdf.NewRenderer(newLogger(cmd, opts.verbose))
			page := document.ComposePlan(profile, doc, time.Now())
			for _, l := range layouts {
				data, err := renderer.RenderPlan(cmd.Context(), page, l)
				if err != nil {
					return fmt.Errorf("render %s: %w", l, err)
				}
				name := fmt.Sprintf("Your_4_Week_Plan_%s.pdf", l)
				if err := writeOutput(cmd, opts.outDir, name, data); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&planPath, "plan", "", "path to the plan JSON")
	cmd.Flags().StringVar(&layout, "layout", "all", "desktop, mobile or all")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func newRenderBonusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "render-bonus",
		Short: "Render the bonus roadmap PDF for a 3 or 6 month profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := readProfile(opts.profilePath)
			if err != nil {
				return err
			}
			if !profile.Timeline.IsMultiCycle() {
				return fmt.Errorf("timeline %q has no bonus roadmap", profile.Timeline)
			}
			renderer := pdf.NewRenderer(newLogger(cmd, opts.verbose))
			data, err := renderer.RenderRoadmap(cmd.Context(), document.ComposeRoadmap(profile, time.Now()))
			if err != nil {
				return fmt.Errorf("render roadmap: %w", err)
			}
			return writeOutput(cmd, opts.outDir, document.RoadmapFilename(profile.Timeline), data)
		},
	}
}

func newJobsCmd() *cobra.Command {
	var (
		dsn   string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Print the most recent bonus jobs from the postgres job log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dsn == "" {
				dsn = os.Getenv("POSTGRES_DSN")
			}
			if dsn == "" {
				return fmt.Errorf("--dsn or POSTGRES_DSN is required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			pool, err := pgxpool.New(ctx, dsn)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			records, err := joblog.NewPostgresLog(pool).Recent(ctx, limit)
			if err != nil {
				return fmt.Errorf("query job log: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "postgres DSN (defaults to POSTGRES_DSN)")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of records")
	return cmd
}

func readProfile(path string) (plan.Profile, error) {
	if path == "" {
		return plan.Profile{}, fmt.Errorf("--profile is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return plan.Profile{}, fmt.Errorf("read profile: %w", err)
	}
	var profile plan.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return plan.Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	return profile, nil
}

func selectLayouts(v string) ([]document.Layout, error) {
	switch v {
	case "", "all":
		return document.Layouts, nil
	case string(document.LayoutDesktop), string(document.LayoutMobile):
		return []document.Layout{document.Layout(v)}, nil
	default:
		return nil, fmt.Errorf("unknown layout %q", v)
	}
}

func writeOutput(cmd *cobra.Command, dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, len(data))
	return nil
}

func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	var w io.Writer = io.Discard
	if verbose {
		w = cmd.ErrOrStderr()
	}
	return slog.New(slog.NewTextHandler(w, nil))
}
