package activation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"peticia-hq/minerva/pkg/catalog"
	"peticia-hq/minerva/pkg/rules/ast"
	"peticia-hq/minerva/pkg/telemetry/logging"
	"peticia-hq/minerva/pkg/variables"
)

// PlannerConfig contains configuration for the activation planner.
type PlannerConfig struct {
	// MaxRuleDepth bounds rule-tree nesting. Trees beyond the bound reject
	// the module as misconfigured, never the request.
	// Default: ast.DefaultMaxDepth (32).
	MaxRuleDepth int
}

// DefaultPlannerConfig returns the default planner configuration.
func DefaultPlannerConfig() *PlannerConfig {
	return &PlannerConfig{
		MaxRuleDepth: ast.DefaultMaxDepth,
	}
}

// Validate validates the planner configuration.
func (c *PlannerConfig) Validate() error {
	if c.MaxRuleDepth <= 0 {
		return fmt.Errorf("max rule depth must be positive")
	}
	return nil
}

// Planner partitions a module catalog into resolved and indeterminate sets
// and produces the final ActivationPlan for one request.
//
// The per-module evaluation phase is CPU-only and reads nothing but the
// immutable snapshot and each module's own rule tree; the only blocking
// operation is the resolver call on the mixed path.
type Planner struct {
	evaluator *Evaluator
	resolver  Resolver
	config    *PlannerConfig
	logger    *slog.Logger
	metrics   *Metrics
}

// NewPlanner creates a planner. The resolver may be nil, in which case
// indeterminate modules fail closed to Skip with a surfaced warning.
func NewPlanner(config *PlannerConfig, resolver Resolver, logger *slog.Logger) (*Planner, error) {
	if config == nil {
		config = DefaultPlannerConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Planner{
		evaluator: NewEvaluator(config.MaxRuleDepth),
		resolver:  resolver,
		config:    config,
		logger:    logger.With("component", "activation.planner"),
	}, nil
}

// SetMetrics attaches a metrics recorder. Optional; a nil recorder disables
// instrumentation.
func (p *Planner) SetMetrics(m *Metrics) {
	p.metrics = m
}

// Plan evaluates every module in the catalog against the snapshot and
// returns the activation plan. Bad input data never fails the request:
// misconfigured modules are excluded with warnings, and reasoner failures
// fail closed to Skip.
func (p *Planner) Plan(ctx context.Context, cat *catalog.Catalog, snap *variables.Snapshot) (*Plan, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	if snap.DocumentType() != "" && snap.DocumentType() != cat.DocumentType() {
		return nil, fmt.Errorf("%w: snapshot %q, catalog %q",
			ErrDocumentTypeMismatch, snap.DocumentType(), cat.DocumentType())
	}

	start := time.Now()

	plan := &Plan{
		RequestID:           uuid.NewString(),
		DocumentType:        cat.DocumentType(),
		SnapshotFingerprint: snap.Fingerprint(),
	}

	// Downstream collaborators (the resolver in particular) log with these
	// fields so their records correlate with this plan.
	ctx = logging.WithRequestID(ctx, plan.RequestID)
	ctx = logging.WithDocumentType(ctx, plan.DocumentType)

	activated := make(map[string]bool)
	var indeterminate []*catalog.Module

	for _, m := range cat.Modules() {
		result := p.evaluateModule(m, snap, plan)
		plan.Results = append(plan.Results, result)

		switch result.Outcome {
		case OutcomeActivate:
			activated[m.ID] = true
			plan.ActivatedDeterministic = append(plan.ActivatedDeterministic, m.ID)
		case OutcomeSkip:
			plan.SkippedDeterministic = append(plan.SkippedDeterministic, m.ID)
		case OutcomeIndeterminate:
			indeterminate = append(indeterminate, m)
			plan.Indeterminate = append(plan.Indeterminate, m.ID)
		case OutcomeMisconfigured:
			// Already warned in evaluateModule; excluded from the plan.
		}

		if p.metrics != nil {
			p.metrics.RecordEvaluation(cat.DocumentType(), result.Outcome)
		}
	}

	if len(indeterminate) == 0 {
		// Fast path: zero calls to the external reasoner.
		plan.DispatchMode = DispatchFastPath
	} else {
		if len(plan.ActivatedDeterministic) == 0 && len(plan.SkippedDeterministic) == 0 {
			plan.DispatchMode = DispatchLLMOnly
		} else {
			plan.DispatchMode = DispatchMixed
		}
		p.resolveIndeterminate(ctx, cat.DocumentType(), indeterminate, snap, plan, activated)
	}

	p.merge(cat, activated, plan)
	plan.EvaluationTime = time.Since(start)

	if p.metrics != nil {
		p.metrics.RecordPlan(cat.DocumentType(), plan.DispatchMode, plan.EvaluationTime)
	}

	p.logger.Info("activation plan computed",
		"request_id", plan.RequestID,
		"document_type", plan.DocumentType,
		"dispatch_mode", plan.DispatchMode,
		"activated", len(plan.Final),
		"indeterminate", len(plan.Indeterminate),
		"warnings", len(plan.Warnings),
		"duration", plan.EvaluationTime,
	)

	return plan, nil
}

// evaluateModule resolves a single module locally.
func (p *Planner) evaluateModule(m *catalog.Module, snap *variables.Snapshot, plan *Plan) ModuleResult {
	moduleStart := time.Now()
	result := ModuleResult{ModuleID: m.ID}

	defer func() {
		result.EvaluationTime = time.Since(moduleStart)
	}()

	switch m.ActivationMode {
	case catalog.ModeAlways:
		result.Outcome = OutcomeActivate
		result.Source = SourceAlways
		return result

	case catalog.ModeLLM:
		result.Outcome = OutcomeIndeterminate
		result.Source = SourceReasoner
		return result

	case catalog.ModeDeterministic:
		if m.PrimaryRule == nil {
			// The exact defect this engine exists to close: a deterministic
			// module without a rule is a configuration error, not an
			// implicit llm module.
			p.warnMisconfigured(plan, m.ID, "deterministic module has no primary rule", nil)
			result.Outcome = OutcomeMisconfigured
			result.Source = SourceExcluded
			return result
		}

		outcome, err := p.evaluator.Evaluate(m.PrimaryRule, snap)
		if err != nil {
			p.warnMisconfigured(plan, m.ID, "primary rule rejected", err)
			result.Outcome = OutcomeMisconfigured
			result.Source = SourceExcluded
			return result
		}
		if outcome.IsDefinite() {
			result.Outcome = outcome
			result.Source = SourcePrimaryRule
			return result
		}

		if m.FallbackRule != nil {
			outcome, err = p.evaluator.Evaluate(m.FallbackRule, snap)
			if err != nil {
				p.warnMisconfigured(plan, m.ID, "fallback rule rejected", err)
				result.Outcome = OutcomeMisconfigured
				result.Source = SourceExcluded
				return result
			}
			if outcome.IsDefinite() {
				result.Outcome = outcome
				result.Source = SourceFallbackRule
				return result
			}
		}

		// Still unresolved: the module does not silently activate or skip.
		result.Outcome = OutcomeIndeterminate
		result.Source = SourceReasoner
		return result

	default:
		p.warnMisconfigured(plan, m.ID, fmt.Sprintf("unknown activation mode %q", m.ActivationMode), nil)
		result.Outcome = OutcomeMisconfigured
		result.Source = SourceExcluded
		return result
	}
}

// resolveIndeterminate hands the indeterminate set to the resolver and
// merges verdicts back, failing closed on every error path.
func (p *Planner) resolveIndeterminate(ctx context.Context, documentType string, modules []*catalog.Module, snap *variables.Snapshot, plan *Plan, activated map[string]bool) {
	if p.resolver == nil {
		plan.Warnings = append(plan.Warnings, Warning{
			Kind:    WarnNoResolver,
			Message: fmt.Sprintf("no resolver configured; %d indeterminate modules failed closed to skip", len(modules)),
		})
		p.markFailedClosed(plan, modules)
		return
	}

	resolution, err := p.resolver.Resolve(ctx, documentType, modules, snap)
	if err != nil {
		p.logger.Error("reasoner dispatch failed, failing closed",
			"request_id", plan.RequestID,
			"document_type", documentType,
			"modules", len(modules),
			"error", err,
		)
		plan.Warnings = append(plan.Warnings, Warning{
			Kind:    WarnDispatchFailed,
			Message: fmt.Sprintf("dispatch failed, %d modules failed closed to skip: %v", len(modules), err),
		})
		p.markFailedClosed(plan, modules)
		return
	}

	if resolution == nil {
		p.logger.Error("resolver returned no resolution, failing closed",
			"request_id", plan.RequestID,
			"document_type", documentType,
			"modules", len(modules),
		)
		plan.Warnings = append(plan.Warnings, Warning{
			Kind:    WarnDispatchFailed,
			Message: fmt.Sprintf("resolver returned no resolution, %d modules failed closed to skip", len(modules)),
		})
		p.markFailedClosed(plan, modules)
		return
	}

	plan.Warnings = append(plan.Warnings, resolution.Warnings...)

	source := SourceReasoner
	if resolution.FromCache {
		source = SourceReasonerCache
	}

	for _, m := range modules {
		verdict, ok := resolution.Verdicts[m.ID]
		if !ok {
			// Resolvers guarantee coverage; guard anyway and fail closed.
			plan.Warnings = append(plan.Warnings, Warning{
				Kind:     WarnIncompleteVerdicts,
				ModuleID: m.ID,
				Message:  "module missing from resolution, failed closed to skip",
			})
			p.patchResult(plan, m.ID, OutcomeSkip, SourceFailClosed)
			continue
		}
		if verdict == VerdictActivate {
			activated[m.ID] = true
			plan.ActivatedLLM = append(plan.ActivatedLLM, m.ID)
			p.patchResult(plan, m.ID, OutcomeActivate, source)
		} else {
			p.patchResult(plan, m.ID, OutcomeSkip, source)
		}
	}
}

func (p *Planner) markFailedClosed(plan *Plan, modules []*catalog.Module) {
	for _, m := range modules {
		p.patchResult(plan, m.ID, OutcomeSkip, SourceFailClosed)
	}
}

// patchResult updates the audit record for a module resolved after the
// local evaluation phase.
func (p *Planner) patchResult(plan *Plan, moduleID string, outcome Outcome, source ResolutionSource) {
	for i := range plan.Results {
		if plan.Results[i].ModuleID == moduleID {
			plan.Results[i].Outcome = outcome
			plan.Results[i].Source = source
			return
		}
	}
}

// merge builds the final ordered module list: activated modules stably
// sorted by ordering key, ties kept in catalog order, independent of how
// each module was resolved.
func (p *Planner) merge(cat *catalog.Catalog, activated map[string]bool, plan *Plan) {
	var final []*catalog.Module
	for _, m := range cat.Modules() {
		if activated[m.ID] {
			final = append(final, m)
		}
	}
	sort.SliceStable(final, func(i, j int) bool {
		return final[i].OrderingKey < final[j].OrderingKey
	})

	plan.Final = make([]string, len(final))
	for i, m := range final {
		plan.Final[i] = m.ID
	}
}

func (p *Planner) warnMisconfigured(plan *Plan, moduleID, reason string, cause error) {
	err := &MisconfiguredModuleError{ModuleID: moduleID, Reason: reason, Cause: cause}
	p.logger.Warn("excluding misconfigured module",
		"module_id", moduleID,
		"error", err,
	)
	if p.metrics != nil {
		p.metrics.RecordMisconfiguredModule(plan.DocumentType)
	}
	plan.Warnings = append(plan.Warnings, Warning{
		Kind:     WarnMisconfiguredModule,
		ModuleID: moduleID,
		Message:  err.Error(),
	})
}
