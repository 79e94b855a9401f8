package scans

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"admitly/pkg/logger"
)

// JobProcessor runs periodic background passes over the offline queue: a
// frequent sync pass and a slower full reconciliation. Manual triggers over
// HTTP coexist safely because the engine rejects overlapping passes.
type JobProcessor struct {
	engine     *Engine
	reconciler *Reconciler
	config     *JobConfig
	logger     *logger.Logger
	done       chan struct{}
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	SyncInterval      time.Duration
	ReconcileInterval time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		SyncInterval:      30 * time.Second,
		ReconcileInterval: 10 * time.Minute,
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(engine *Engine, reconciler *Reconciler, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}
	return &JobProcessor{
		engine:     engine,
		reconciler: reconciler,
		config:     config,
		logger:     logger.GetDefault(),
		done:       make(chan struct{}),
	}
}

// Start starts all background jobs
func (jp *JobProcessor) Start(ctx context.Context) {
	jp.logger.Info("starting scan sync background jobs",
		slog.Duration("sync_interval", jp.config.SyncInterval),
		slog.Duration("reconcile_interval", jp.config.ReconcileInterval),
	)

	go jp.runSyncLoop(ctx)
	go jp.runReconcileLoop(ctx)
}

// Stop stops all background jobs
func (jp *JobProcessor) Stop() {
	close(jp.done)
	jp.logger.Info("scan sync background jobs stopped")
}

func (jp *JobProcessor) runSyncLoop(ctx context.Context) {
	ticker := time.NewTicker(jp.config.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, err := jp.engine.Sync(ctx)
			if err != nil && !errors.Is(err, ErrSyncInProgress) && !errors.Is(err, context.Canceled) {
				jp.logger.Error("background sync pass failed", slog.String("error", err.Error()))
			}
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) runReconcileLoop(ctx context.Context) {
	ticker := time.NewTicker(jp.config.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, err := jp.reconciler.Reconcile(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				jp.logger.Error("background reconcile pass failed", slog.String("error", err.Error()))
			}
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}
