package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"peticia-hq/minerva/pkg/activation"
	"peticia-hq/minerva/pkg/catalog"
	"peticia-hq/minerva/pkg/dispatch/cache"
	"peticia-hq/minerva/pkg/telemetry/logging"
	"peticia-hq/minerva/pkg/variables"
)

// Config contains configuration for the dispatcher.
type Config struct {
	// Timeout bounds one reasoner call end to end.
	// Default: 30 seconds
	Timeout time.Duration

	// CacheTTL is how long a cached verdict set is served. Expiry is the
	// only invalidation: a changed snapshot changes the fingerprint and
	// therefore the key.
	// Default: 60 minutes
	CacheTTL time.Duration
}

// DefaultConfig returns the default dispatcher configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		CacheTTL: 60 * time.Minute,
	}
}

// Validate validates the dispatcher configuration.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}
	return nil
}

// Dispatcher implements activation.Resolver over an external reasoner.
//
// Concurrent requests for the same (document type, fingerprint) pair share
// one in-flight reasoner call through singleflight. The shared call runs on
// a context detached from any single initiator, so one caller giving up
// does not abort the call the others are waiting on, and the result still
// lands in the cache.
type Dispatcher struct {
	reasoner Reasoner
	cache    cache.Backend
	config   *Config
	inflight singleflight.Group
	logger   *slog.Logger
	metrics  *Metrics
}

// NewDispatcher creates a dispatcher. The cache backend may be nil, which
// disables caching but keeps single-flight deduplication.
func NewDispatcher(config *Config, reasoner Reasoner, backend cache.Backend, logger *slog.Logger) (*Dispatcher, error) {
	if reasoner == nil {
		return nil, ErrNilReasoner
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		reasoner: reasoner,
		cache:    backend,
		config:   config,
		logger:   logger.With("component", "dispatch"),
	}, nil
}

// SetMetrics attaches a metrics recorder. Optional; a nil recorder disables
// instrumentation.
func (d *Dispatcher) SetMetrics(m *Metrics) {
	d.metrics = m
}

// Resolve answers the indeterminate set for one request, serving from the
// verdict cache when possible and batching everything else into a single
// reasoner call.
func (d *Dispatcher) Resolve(ctx context.Context, documentType string, modules []*catalog.Module, snap *variables.Snapshot) (*activation.Resolution, error) {
	if len(modules) == 0 {
		return &activation.Resolution{Verdicts: map[string]activation.Verdict{}}, nil
	}

	fingerprint := snap.Fingerprint()

	if entry := d.lookupCache(ctx, documentType, fingerprint, modules); entry != nil {
		if d.metrics != nil {
			d.metrics.RecordCacheLookup(documentType, true)
		}
		// The entry may cover modules beyond this batch (the catalog
		// shrank since it was stored); serve only the requested ids.
		verdicts := make(map[string]activation.Verdict, len(modules))
		for _, m := range modules {
			verdicts[m.ID] = entry.Verdicts[m.ID]
		}
		return &activation.Resolution{
			Verdicts:  verdicts,
			FromCache: true,
		}, nil
	}
	if d.metrics != nil {
		d.metrics.RecordCacheLookup(documentType, false)
	}

	key := cache.Key(documentType, fingerprint)
	result, err, shared := d.inflight.Do(key, func() (interface{}, error) {
		return d.dispatch(ctx, documentType, fingerprint, modules, snap)
	})
	if err != nil {
		return nil, err
	}
	if shared && d.metrics != nil {
		d.metrics.RecordSharedFlight(documentType)
	}

	return result.(*activation.Resolution), nil
}

// lookupCache returns the cached entry only when it covers every module in
// the batch; a partial entry (the catalog grew since it was stored) is a
// miss.
func (d *Dispatcher) lookupCache(ctx context.Context, documentType, fingerprint string, modules []*catalog.Module) *cache.Entry {
	if d.cache == nil {
		return nil
	}
	entry, err := d.cache.Get(ctx, documentType, fingerprint)
	if err != nil {
		logging.FromContext(ctx, d.logger).Warn("cache lookup failed",
			"error", err,
		)
		return nil
	}
	if entry == nil {
		return nil
	}
	for _, m := range modules {
		if _, ok := entry.Verdicts[m.ID]; !ok {
			return nil
		}
	}
	return entry
}

// dispatch performs the shared reasoner call. It runs on a context detached
// from the initiating request so the call survives that caller's
// cancellation and its result still populates the cache.
func (d *Dispatcher) dispatch(ctx context.Context, documentType, fingerprint string, modules []*catalog.Module, snap *variables.Snapshot) (*activation.Resolution, error) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.config.Timeout)
	defer cancel()

	start := time.Now()
	req := buildRequest(documentType, modules, snap)

	resp, err := d.reasoner.Decide(callCtx, req)
	if d.metrics != nil {
		d.metrics.RecordDispatch(documentType, len(modules), err == nil, time.Since(start))
	}
	if err != nil {
		return nil, &DispatchError{
			DocumentType: documentType,
			ModuleCount:  len(modules),
			Cause:        err,
		}
	}

	resolution := &activation.Resolution{
		Verdicts: make(map[string]activation.Verdict, len(modules)),
	}
	for _, m := range modules {
		verdict, ok := resp.Verdicts[m.ID]
		if !ok || (verdict != activation.VerdictActivate && verdict != activation.VerdictSkip) {
			// Missing or unparseable verdict fails closed, never open.
			resolution.Verdicts[m.ID] = activation.VerdictSkip
			resolution.Warnings = append(resolution.Warnings, activation.Warning{
				Kind:     activation.WarnIncompleteVerdicts,
				ModuleID: m.ID,
				Message:  "reasoner response missing a usable verdict, failed closed to skip",
			})
			continue
		}
		resolution.Verdicts[m.ID] = verdict
	}

	logging.FromContext(callCtx, d.logger).Info("reasoner batch resolved",
		"modules", len(modules),
		"warnings", len(resolution.Warnings),
		"duration", time.Since(start),
	)

	d.store(callCtx, documentType, fingerprint, resolution.Verdicts)

	return resolution, nil
}

func (d *Dispatcher) store(ctx context.Context, documentType, fingerprint string, verdicts map[string]activation.Verdict) {
	if d.cache == nil {
		return
	}
	now := time.Now()
	err := d.cache.Put(ctx, &cache.Entry{
		DocumentType: documentType,
		Fingerprint:  fingerprint,
		Verdicts:     verdicts,
		CreatedAt:    now,
		ExpiresAt:    now.Add(d.config.CacheTTL),
	})
	if err != nil {
		logging.FromContext(ctx, d.logger).Warn("cache store failed",
			"error", err,
		)
	}
}

// buildRequest assembles the batched reasoner request: module descriptions
// plus the minimal variable subset their rules reference.
func buildRequest(documentType string, modules []*catalog.Module, snap *variables.Snapshot) *Request {
	req := &Request{
		DocumentType: documentType,
		Modules:      make([]ModuleQuery, 0, len(modules)),
	}

	var slugs []string
	for _, m := range modules {
		req.Modules = append(req.Modules, ModuleQuery{
			ID:          m.ID,
			Description: m.Description,
			Category:    m.Category,
		})
		slugs = append(slugs, m.ReferencedVariables()...)
	}

	subset := snap.Subset(slugs)
	if len(subset) > 0 {
		req.Variables = make(map[string]interface{}, len(subset))
		for _, v := range subset {
			req.Variables[v.Slug] = v.Value
		}
	}

	return req
}
