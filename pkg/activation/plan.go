package activation

import (
	"context"
	"time"

	"peticia-hq/minerva/pkg/catalog"
	"peticia-hq/minerva/pkg/variables"
)

// DispatchMode records which resolution path a plan took.
type DispatchMode string

const (
	// DispatchFastPath means every module resolved locally, with zero calls
	// to the external reasoner. This is the primary latency/cost optimization.
	DispatchFastPath DispatchMode = "fast_path"

	// DispatchMixed means some modules resolved locally and the rest went
	// to the reasoner.
	DispatchMixed DispatchMode = "mixed"

	// DispatchLLMOnly means no module resolved locally; the whole decision
	// came from the reasoner.
	DispatchLLMOnly DispatchMode = "llm_only"
)

// Verdict is the reasoner's answer for one module.
type Verdict string

const (
	VerdictActivate Verdict = "activate"
	VerdictSkip     Verdict = "skip"
)

// Resolution is the resolver's answer for one batch of indeterminate
// modules.
type Resolution struct {
	// Verdicts maps module id to the reasoner's verdict. Every requested
	// module id is present; ids the external response omitted fail closed
	// to Skip with a corresponding warning.
	Verdicts map[string]Verdict

	// FromCache is true when the verdict set was served from the result
	// cache rather than a fresh external call.
	FromCache bool

	// Warnings carries fail-closed events the resolver observed.
	Warnings []Warning
}

// Resolver resolves indeterminate modules through the external reasoner.
// Implementations batch all modules into one call, deduplicate concurrent
// identical requests, and fail closed (Skip) on timeout, transport failure,
// or module ids missing from the response.
type Resolver interface {
	Resolve(ctx context.Context, documentType string, modules []*catalog.Module, snap *variables.Snapshot) (*Resolution, error)
}

// WarningKind classifies plan warnings for the caller's observability layer.
type WarningKind string

const (
	// WarnMisconfiguredModule flags a module excluded because its
	// definition is internally inconsistent.
	WarnMisconfiguredModule WarningKind = "misconfigured_module"

	// WarnDispatchFailed flags modules failed closed to Skip because the
	// reasoner call timed out or errored.
	WarnDispatchFailed WarningKind = "dispatch_failed"

	// WarnIncompleteVerdicts flags modules failed closed to Skip because
	// the reasoner response omitted them.
	WarnIncompleteVerdicts WarningKind = "incomplete_verdicts"

	// WarnNoResolver flags modules failed closed to Skip because no
	// resolver was configured.
	WarnNoResolver WarningKind = "no_resolver"
)

// Warning is a recoverable, observable problem attached to a plan. Nothing
// here is silent: every exclusion that did not come from a rule verdict
// carries a warning.
type Warning struct {
	Kind     WarningKind
	ModuleID string
	Message  string
}

// ResolutionSource records how one module's fate was decided.
type ResolutionSource string

const (
	SourceAlways        ResolutionSource = "always"
	SourcePrimaryRule   ResolutionSource = "primary_rule"
	SourceFallbackRule  ResolutionSource = "fallback_rule"
	SourceReasoner      ResolutionSource = "reasoner"
	SourceReasonerCache ResolutionSource = "reasoner_cache"
	SourceFailClosed    ResolutionSource = "fail_closed"
	SourceExcluded      ResolutionSource = "excluded"
)

// ModuleResult is the per-module audit record.
type ModuleResult struct {
	ModuleID       string
	Outcome        Outcome
	Source         ResolutionSource
	EvaluationTime time.Duration
}

// Plan is the aggregate activation decision for one generation request.
// Created fresh per request and never persisted by this engine.
type Plan struct {
	// RequestID uniquely identifies this plan for audit correlation.
	RequestID string

	// DocumentType is the document type the plan was computed for.
	DocumentType string

	// SnapshotFingerprint is the SHA-256 fingerprint of the input snapshot.
	SnapshotFingerprint string

	// ActivatedDeterministic lists modules activated by local rules
	// (including always modules).
	ActivatedDeterministic []string

	// SkippedDeterministic lists modules skipped by local rules.
	SkippedDeterministic []string

	// Indeterminate lists modules that required the reasoner.
	Indeterminate []string

	// ActivatedLLM lists indeterminate modules the reasoner activated.
	ActivatedLLM []string

	// Final is the ordered module list for the document-generation
	// collaborator: activated modules stably sorted by ordering key,
	// independent of resolution path.
	Final []string

	// DispatchMode records the resolution path.
	DispatchMode DispatchMode

	// Warnings carries misconfiguration and fail-closed events for the
	// caller's observability layer.
	Warnings []Warning

	// Results holds the per-module audit records in catalog order.
	Results []ModuleResult

	// EvaluationTime is the total time taken to compute the plan.
	EvaluationTime time.Duration
}

// HasWarnings returns true if the plan carries any warning.
func (p *Plan) HasWarnings() bool {
	return len(p.Warnings) > 0
}

// MisconfiguredModules returns the ids of modules excluded as misconfigured.
func (p *Plan) MisconfiguredModules() []string {
	var ids []string
	for _, w := range p.Warnings {
		if w.Kind == WarnMisconfiguredModule {
			ids = append(ids, w.ModuleID)
		}
	}
	return ids
}
