package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"peticia-hq/minerva/pkg/activation"
	"peticia-hq/minerva/pkg/catalog"
	"peticia-hq/minerva/pkg/catalog/source"
	"peticia-hq/minerva/pkg/cli"
	"peticia-hq/minerva/pkg/config"
	"peticia-hq/minerva/pkg/dispatch"
	"peticia-hq/minerva/pkg/dispatch/cache"
	"peticia-hq/minerva/pkg/dispatch/reasoner"
	"peticia-hq/minerva/pkg/telemetry/logging"
	"peticia-hq/minerva/pkg/variables"
)

var planFlags struct {
	catalog  string
	snapshot string
	offline  bool
	watch    bool
	format   string
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute an activation plan for a variable snapshot",
	Long: `Compute the activation plan for one document-generation request.

The catalog's activation rules are evaluated locally against the snapshot.
Modules no rule can settle are batched into a single reasoner call, unless
--offline is set, in which case they fail closed to skip and the plan carries
the corresponding warnings.

Examples:
  # Plan against the configured catalog
  minerva plan --snapshot snapshot.yaml

  # Override the catalog file
  minerva plan --catalog catalog.yaml --snapshot snapshot.yaml

  # Deterministic rules only, no reasoner call
  minerva plan --snapshot snapshot.yaml --offline

  # Recompute the plan whenever the catalog file changes
  minerva plan --snapshot snapshot.yaml --watch

  # JSON output for pipelines
  minerva plan --snapshot snapshot.yaml --format json`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planFlags.catalog, "catalog", "", "catalog file (overrides config)")
	planCmd.Flags().StringVarP(&planFlags.snapshot, "snapshot", "s", "", "variable snapshot file (required)")
	planCmd.Flags().BoolVar(&planFlags.offline, "offline", false, "skip reasoner dispatch; indeterminate modules fail closed")
	planCmd.Flags().BoolVarP(&planFlags.watch, "watch", "w", false, "keep running, recomputing the plan when the catalog file changes")
	planCmd.Flags().StringVar(&planFlags.format, "format", "text", "output format: text, json")
}

func runPlan(cmd *cobra.Command, args []string) error {
	if planFlags.snapshot == "" {
		return cli.NewInputError("snapshot", "--snapshot is required")
	}

	cfg, err := resolveConfig()
	if err != nil {
		return cli.NewCommandError("plan", err)
	}

	// Apply flag overrides
	if planFlags.catalog != "" {
		cfg.Catalog.Path = planFlags.catalog
	}
	if planFlags.watch {
		cfg.Catalog.Watch = true
	}
	if verbose {
		cfg.Telemetry.LogLevel = "debug"
	}

	logger, err := logging.Setup(cfg.Telemetry)
	if err != nil {
		return cli.NewCommandError("plan", err)
	}

	ctx := cli.SetupSignalHandler()

	src := source.NewFileSource(cfg.Catalog.Path, logger)
	cat, err := src.Load(ctx)
	if err != nil {
		return cli.NewInputError(cfg.Catalog.Path, err.Error())
	}

	snap, err := variables.LoadSnapshotFile(planFlags.snapshot)
	if err != nil {
		return cli.NewInputError(planFlags.snapshot, err.Error())
	}

	var resolver activation.Resolver
	if !planFlags.offline {
		dispatcher, cleanup, err := buildDispatcher(cfg, logger)
		if err != nil {
			return cli.NewCommandError("plan", err)
		}
		defer cleanup()
		resolver = dispatcher
	}

	planner, err := activation.NewPlanner(&activation.PlannerConfig{
		MaxRuleDepth: cfg.Engine.MaxRuleDepth,
	}, resolver, logger)
	if err != nil {
		return cli.NewCommandError("plan", err)
	}
	if cfg.Telemetry.MetricsEnabled {
		planner.SetMetrics(activation.NewMetrics())
	}

	formatter := cli.NewFormatter(cli.OutputFormat(planFlags.format))
	planOnce := func(cat *catalog.Catalog) error {
		plan, err := planner.Plan(ctx, cat, snap)
		if err != nil {
			return cli.NewCommandError("plan", err)
		}
		return formatter.FormatTo(os.Stdout, newPlanOutput(plan))
	}

	if err := planOnce(cat); err != nil {
		return err
	}
	if !cfg.Catalog.Watch {
		return nil
	}

	// Watch mode: recompute on every catalog change until interrupted.
	if err := replanOnChange(ctx, src, logger, planOnce); err != nil {
		return cli.NewCommandError("plan", err)
	}
	return nil
}

// replanOnChange reloads the catalog and recomputes the plan for every
// change event until the event channel closes. Reload failures keep the
// previous plan; a deleted catalog is treated the same way, since editors
// that replace files atomically emit remove-then-create pairs.
func replanOnChange(ctx context.Context, src source.Source, logger *slog.Logger, planOnce func(*catalog.Catalog) error) error {
	events, err := src.Watch(ctx)
	if err != nil {
		return err
	}
	for ev := range events {
		if ev.Error != nil || ev.Type == source.EventDeleted {
			continue
		}
		cat, err := src.Load(ctx)
		if err != nil {
			logger.Warn("catalog reload failed, keeping previous plan", "error", err)
			continue
		}
		if err := planOnce(cat); err != nil {
			return err
		}
	}
	return nil
}

// buildDispatcher assembles the reasoner dispatch pipeline from config. The
// returned cleanup closes the cache backend.
func buildDispatcher(cfg *config.Config, logger *slog.Logger) (*dispatch.Dispatcher, func(), error) {
	oai, err := reasoner.NewOpenAIReasoner(reasoner.OpenAIConfig{
		APIKey:      cfg.Reasoner.APIKey,
		BaseURL:     cfg.Reasoner.BaseURL,
		Model:       cfg.Reasoner.Model,
		Temperature: cfg.Reasoner.Temperature,
		MaxTokens:   cfg.Reasoner.MaxTokens,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	backend, err := buildBackend(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	dispatcher, err := dispatch.NewDispatcher(&dispatch.Config{
		Timeout:  cfg.Dispatch.Timeout,
		CacheTTL: cfg.Cache.TTL,
	}, oai, backend, logger)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	if cfg.Telemetry.MetricsEnabled {
		dispatcher.SetMetrics(dispatch.NewMetrics())
	}

	cleanup := func() {
		if err := backend.Close(); err != nil {
			logger.Warn("failed to close verdict cache", "error", err)
		}
	}
	return dispatcher, cleanup, nil
}

// planOutput is the command-level view of a plan, shared by the text and
// JSON formatters.
type planOutput struct {
	RequestID    string          `json:"request_id"`
	DocumentType string          `json:"document_type"`
	Fingerprint  string          `json:"snapshot_fingerprint"`
	DispatchMode string          `json:"dispatch_mode"`
	Final        []string        `json:"final"`
	Results      []resultOutput  `json:"results"`
	Warnings     []warningOutput `json:"warnings,omitempty"`
	Duration     string          `json:"evaluation_time"`
}

type resultOutput struct {
	Module  string `json:"module"`
	Outcome string `json:"outcome"`
	Source  string `json:"source"`
}

type warningOutput struct {
	Kind    string `json:"kind"`
	Module  string `json:"module,omitempty"`
	Message string `json:"message"`
}

func newPlanOutput(plan *activation.Plan) *planOutput {
	out := &planOutput{
		RequestID:    plan.RequestID,
		DocumentType: plan.DocumentType,
		Fingerprint:  plan.SnapshotFingerprint,
		DispatchMode: string(plan.DispatchMode),
		Final:        plan.Final,
		Duration:     plan.EvaluationTime.Round(time.Microsecond).String(),
	}
	for _, r := range plan.Results {
		out.Results = append(out.Results, resultOutput{
			Module:  r.ModuleID,
			Outcome: string(r.Outcome),
			Source:  string(r.Source),
		})
	}
	for _, w := range plan.Warnings {
		out.Warnings = append(out.Warnings, warningOutput{
			Kind:    string(w.Kind),
			Module:  w.ModuleID,
			Message: w.Message,
		})
	}
	return out
}

func (o *planOutput) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan %s (%s)\n", o.RequestID, o.DocumentType)
	fmt.Fprintf(&b, "Dispatch mode: %s\n", o.DispatchMode)
	fmt.Fprintf(&b, "Evaluation time: %s\n\n", o.Duration)

	fmt.Fprintf(&b, "Final modules (%d):\n", len(o.Final))
	if len(o.Final) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, id := range o.Final {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, id)
	}

	b.WriteString("\nResults:\n")
	for _, r := range o.Results {
		fmt.Fprintf(&b, "  %-40s %-15s %s\n", r.Module, r.Outcome, r.Source)
	}

	if len(o.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(o.Warnings))
		for _, w := range o.Warnings {
			if w.Module != "" {
				fmt.Fprintf(&b, "  [%s] %s: %s\n", w.Kind, w.Module, w.Message)
			} else {
				fmt.Fprintf(&b, "  [%s] %s\n", w.Kind, w.Message)
			}
		}
	}

	return b.String()
}

func buildBackend(cfg config.CacheConfig) (cache.Backend, error) {
	switch cfg.Backend {
	case "memory":
		return cache.NewMemoryBackendWithConfig(cache.MemoryBackendConfig{
			MaxEntries: cfg.MaxEntries,
		}), nil
	case "sqlite":
		return cache.NewSQLiteBackend(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %q", cfg.Backend)
	}
}
