package catalog

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
	"github.com/vijay-prabhu/gmail-triage/internal/metrics"
)

// Bulk action names, recorded in history and metrics
const (
	ActionDelete     = "delete"
	ActionMarkRead   = "mark_read"
	ActionMarkUnread = "mark_unread"
)

// Mutation is a single-item operation applied to each id of a batch
type Mutation func(ctx context.Context, id string) error

// Coordinator fans a list of ids through a Mutation. It never stops early:
// every id is attempted, duplicates included, and each failure is counted.
type Coordinator struct {
	concurrency int
	store       Store
	logger      *zap.Logger
	progress    ProgressCallback
}

// NewCoordinator creates a coordinator. concurrency < 2 runs sequentially.
func NewCoordinator(concurrency int, store Store, logger *zap.Logger, progress ProgressCallback) *Coordinator {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		concurrency: concurrency,
		store:       store,
		logger:      logger,
		progress:    progress,
	}
}

// Run applies fn to every id. Succeeded + Failed always equals len(ids);
// FailedIDs lists failures in input order.
func (c *Coordinator) Run(ctx context.Context, action string, ids []string, fn Mutation) email.BulkResult {
	failed := make([]bool, len(ids))
	started := time.Now()
	var done atomic.Int64

	apply := func(i int, id string) {
		if err := fn(ctx, id); err != nil {
			failed[i] = true
			c.logger.Warn("bulk item failed",
				zap.String("action", action),
				zap.String("id", id),
				zap.Error(err))
		}
		n := int(done.Add(1))
		c.progress.report(PhaseBulk, n, len(ids), started, action)
	}

	if c.concurrency == 1 {
		for i, id := range ids {
			apply(i, id)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(c.concurrency)
		for i, id := range ids {
			i, id := i, id
			g.Go(func() error {
				apply(i, id)
				return nil
			})
		}
		_ = g.Wait()
	}

	result := email.BulkResult{
		Action:    action,
		Requested: len(ids),
		FailedIDs: []string{},
	}
	for i, id := range ids {
		if failed[i] {
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, id)
		} else {
			result.Succeeded++
		}
	}

	metrics.RecordBulk(action, result.Succeeded, result.Failed)
	c.record(ctx, result)

	return result
}

// record saves the result to history; failures are logged only
func (c *Coordinator) record(ctx context.Context, result email.BulkResult) {
	if c.store == nil || result.Requested == 0 {
		return
	}
	// The batch already ran; keep its record even if the caller gave up
	if err := c.store.RecordBulkOperation(context.WithoutCancel(ctx), result); err != nil {
		c.logger.Warn("failed to record bulk operation",
			zap.String("action", result.Action),
			zap.Error(err))
	}
}
