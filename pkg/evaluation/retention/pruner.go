package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"immimate-hq/polaris/pkg/config"
	"immimate-hq/polaris/pkg/evaluation"
)

// Pruner enforces the retention policy on stored evaluations.
type Pruner struct {
	store     evaluation.Store
	config    config.RetentionConfig
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a retention pruner. A zero-valued config disables
// age-based pruning entirely.
func NewPruner(store evaluation.Store, cfg config.RetentionConfig) *Pruner {
	if cfg.KeepLatest < 1 {
		cfg.KeepLatest = 1
	}

	p := &Pruner{
		store:  store,
		config: cfg,
		logger: slog.Default().With("component", "evaluation.retention"),
	}
	p.scheduler = NewScheduler(p)
	return p
}

// Prune runs one retention pass: age-based pruning first, then count-based
// pruning, always preserving the newest KeepLatest evaluations of each
// application. Returns the number of evaluations deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	deleted, err := p.pruneByAge(ctx)
	if err != nil {
		return deleted, err
	}

	countDeleted, err := p.pruneByCount(ctx)
	deleted += countDeleted
	if err != nil {
		return deleted, err
	}

	if deleted > 0 {
		p.logger.Info("evaluation pruning completed",
			"deleted_count", deleted,
			"max_age_days", p.config.MaxAgeDays,
			"max_per_application", p.config.MaxPerApplication,
			"keep_latest", p.config.KeepLatest,
		)
	}
	return deleted, nil
}

// pruneByAge deletes unprotected evaluations older than MaxAgeDays.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	if p.config.MaxAgeDays <= 0 {
		p.logger.Debug("age-based pruning disabled")
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.config.MaxAgeDays)

	p.logger.Debug("pruning evaluations by age",
		"cutoff", cutoff,
		"max_age_days", p.config.MaxAgeDays,
		"keep_latest", p.config.KeepLatest,
	)

	expired, err := p.store.ListOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list expired evaluations: %w", err)
	}
	if len(expired) == 0 {
		p.logger.Debug("no evaluations past retention")
		return 0, nil
	}

	// Work out which evaluations are protected per application before
	// deleting anything.
	protected := make(map[uuid.UUID]bool)
	seenApps := make(map[uuid.UUID]bool)
	for _, e := range expired {
		if seenApps[e.ApplicationID] {
			continue
		}
		seenApps[e.ApplicationID] = true

		all, err := p.store.ListByApplication(ctx, e.ApplicationID)
		if err != nil {
			return 0, fmt.Errorf("list evaluations for application %s: %w", e.ApplicationID, err)
		}
		for i, candidate := range all {
			if i >= p.config.KeepLatest {
				break
			}
			protected[candidate.ID] = true
		}
	}

	var deleted int64
	for _, e := range expired {
		if protected[e.ID] {
			continue
		}
		if err := p.store.DeleteEvaluation(ctx, e.ID); err != nil {
			return deleted, fmt.Errorf("delete evaluation %s: %w", e.ID, err)
		}
		deleted++
	}

	if deleted == 0 {
		p.logger.Debug("all expired evaluations are protected by keep_latest")
	}
	return deleted, nil
}

// pruneByCount deletes the oldest evaluations of each application beyond
// MaxPerApplication, never dropping below the KeepLatest floor.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	if p.config.MaxPerApplication <= 0 {
		p.logger.Debug("count-based pruning disabled")
		return 0, nil
	}

	keep := p.config.MaxPerApplication
	if keep < p.config.KeepLatest {
		keep = p.config.KeepLatest
	}

	applications, err := p.store.ListApplicationIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list applications: %w", err)
	}

	var deleted int64
	for _, applicationID := range applications {
		all, err := p.store.ListByApplication(ctx, applicationID)
		if err != nil {
			return deleted, fmt.Errorf("list evaluations for application %s: %w", applicationID, err)
		}
		for _, e := range all[min(keep, len(all)):] {
			if err := p.store.DeleteEvaluation(ctx, e.ID); err != nil {
				return deleted, fmt.Errorf("delete evaluation %s: %w", e.ID, err)
			}
			deleted++
		}
	}
	return deleted, nil
}

// Start starts the automatic pruning scheduler.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler and waits for a running cycle
// to finish.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning cycle, or nil
// when the scheduler is not running.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
