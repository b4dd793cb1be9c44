package scheduler

import (
	"context"
	"fmt"
	"time"

	"hris_backend/internal/provisioning/repository"
	"hris_backend/platform/config"
	"hris_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	repo      *repository.Repository
	retention time.Duration
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 2,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		repo:      repository.New(pool),
		retention: cfg.GetDeliveryRetention(),
		log:       log,
	}

	mux.HandleFunc(TaskPurgeWebhookDeliveries, w.handlePurgeWebhookDeliveries)

	return w, nil
}

func (w *Worker) handlePurgeWebhookDeliveries(ctx context.Context, task *asynq.Task) error {
	if _, err := ParsePurgeWebhookDeliveriesPayload(task); err != nil {
		return err
	}

	retention := w.retention
	if retention <= 0 {
		return nil
	}

	cutoff := time.Now().Add(-retention)
	removed, err := w.repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	w.log.Info("webhook delivery log purged",
		"removed", removed,
		"cutoff", cutoff.Format(time.RFC3339),
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
