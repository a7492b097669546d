package outboxrelay

import (
	"context"
	"fmt"
	"time"
)

// Config параметры опроса outbox
type Config struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	BaseBackoff  time.Duration
	MaxBackoff   time.Duration
}

// Relay переносит события из outbox_events в Publisher
// Событие, не отправленное за MaxAttempts попыток, остаётся в таблице с last_error и больше не выбирается
type Relay struct {
	cfg          Config
	repo         OutboxRepository
	publisher    Publisher
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewRelay создает новый relay; metrics может быть nil
func NewRelay(
	cfg Config,
	repo OutboxRepository,
	publisher Publisher,
	txManager TransactionManager,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *Relay {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Relay{
		cfg:          cfg,
		repo:         repo,
		publisher:    publisher,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Run опрашивает outbox каждые PollInterval до отмены ctx
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("outbox relay: started, poll_interval=%s, batch_size=%d", r.cfg.PollInterval, r.cfg.BatchSize)

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay: stopped")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("outbox relay: %v", err)
			}
			r.refreshPending(ctx)
		}
	}
}

// RunOnce отправляет одну пачку и возвращает число успешно отправленных событий
// Ошибка отправки отдельного события не прерывает пачку: событие откладывается с backoff
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	published := 0

	err := r.txManager.Do(ctx, func(txCtx context.Context) error {
		now := r.timeProvider.Now()

		events, err := r.repo.FetchPending(txCtx, now, r.cfg.MaxAttempts, r.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("fetch pending: %w", err)
		}

		for _, event := range events {
			if err := r.publisher.Publish(txCtx, event); err != nil {
				attempts := event.Attempts + 1
				next := now.Add(r.backoff(attempts))
				r.logger.Warn("outbox relay: publish event_id=%s type=%s failed (attempt %d/%d), next at %s: %v",
					event.ID, event.EventType, attempts, r.cfg.MaxAttempts, next.Format(time.RFC3339), err)
				r.metrics.IncOutboxFailed(event.EventType)

				if err := r.repo.MarkFailed(txCtx, event.ID, attempts, next, err.Error()); err != nil {
					return fmt.Errorf("mark failed event_id=%s: %w", event.ID, err)
				}
				continue
			}

			if err := r.repo.MarkPublished(txCtx, event.ID, r.timeProvider.Now()); err != nil {
				return fmt.Errorf("mark published event_id=%s: %w", event.ID, err)
			}
			r.metrics.IncOutboxPublished(event.EventType)
			published++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return published, nil
}

// backoff BaseBackoff * 2^(attempts-1), но не больше MaxBackoff
func (r *Relay) backoff(attempts int) time.Duration {
	delay := r.cfg.BaseBackoff
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= r.cfg.MaxBackoff {
			return r.cfg.MaxBackoff
		}
	}
	if delay > r.cfg.MaxBackoff {
		return r.cfg.MaxBackoff
	}
	return delay
}

func (r *Relay) refreshPending(ctx context.Context) {
	count, err := r.repo.CountPending(ctx, r.cfg.MaxAttempts)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("outbox relay: count pending: %v", err)
		}
		return
	}
	r.metrics.SetOutboxPending(count)
}
