package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/internal/infrastructure/buffer"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/usecase/onboarding"
)

var errNotConfigured = errors.New("buffer processor not configured")

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	// Retention drops items that have waited longer than this; zero keeps
	// them until MaxRetries is reached.
	Retention time.Duration
}

// BufferProcessor replays buffered onboarding seeds once the database is
// reachable again.
type BufferProcessor struct {
	store      *buffer.Store
	monitor    ConnectionHealth
	onboarding repository.OnboardingRepository
	logger     *zap.Logger
	cron       *cron.Cron
	cfg        ProcessorConfig
	now        func() time.Time
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	onboardingRepo repository.OnboardingRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:      store,
		monitor:    monitor,
		onboarding: onboardingRepo,
		logger:     logger,
		cfg:        cfg,
		cron:       cron.New(cron.WithSeconds()),
		now:        time.Now,
	}

	schedule := "@every " + cfg.Interval.String()
	if _, err := bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	}); err != nil {
		logger.Error("invalid buffer drain schedule", zap.String("schedule", schedule), zap.Error(err))
	}

	return bp
}

func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop waits for a running drain to finish or for ctx to expire.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain processes one batch of buffered items synchronously.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	if bp.cfg.Retention > 0 {
		removed, err := bp.store.Cleanup(bp.now().Add(-bp.cfg.Retention))
		if err != nil {
			bp.logger.Warn("buffer cleanup failed", zap.Error(err))
		} else if removed > 0 {
			bp.logger.Warn("expired buffer items dropped", zap.Int("count", removed))
		}
	}

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := bp.processItem(ctx, item); err != nil {
			bp.logger.Error("failed to process buffer item",
				zap.String("item_id", item.ID),
				zap.String("entity", item.Entity),
				zap.String("user_id", item.UserID),
				zap.Error(err))

			item.Retries++
			item.LastError = err.Error()
			if item.Retries >= bp.cfg.MaxRetries {
				bp.logger.Warn("dropping buffer item (max retries reached)", zap.String("item_id", item.ID))
				if err := bp.store.Remove(item); err != nil {
					bp.logger.Warn("failed to remove buffer item", zap.Error(err))
				}
				continue
			}
			if err := bp.store.Requeue(item); err != nil {
				bp.logger.Error("failed to requeue buffer item", zap.Error(err))
			}
			continue
		}

		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to purge processed buffer item", zap.Error(err))
		}
		bp.logger.Info("buffered operation replayed",
			zap.String("entity", item.Entity),
			zap.String("user_id", item.UserID))
	}
	return nil
}

// BufferOperation persists an item for a later drain. Callers have already
// failed once, so nothing is attempted inline.
func (bp *BufferProcessor) BufferOperation(_ context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return errNotConfigured
	}
	return bp.store.Enqueue(item)
}

func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) processItem(ctx context.Context, item buffer.Item) error {
	switch item.Entity {
	case buffer.EntityOnboarding:
		if item.Operation != buffer.OperationSeed {
			return fmt.Errorf("unsupported operation %s", item.Operation)
		}
		if bp.onboarding == nil {
			return errNotConfigured
		}
		return bp.onboarding.SeedWorkspace(ctx, onboarding.SampleWorkspace(item.UserID, bp.now()))
	default:
		return fmt.Errorf("unsupported entity %s", item.Entity)
	}
}
