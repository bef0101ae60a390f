package scheduler

import (
	"context"
	"fmt"

	"procurement_backend/platform/config"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// MatchingJobs runs the match alert work behind the queued tasks.
type MatchingJobs interface {
	RefreshForItem(ctx context.Context, category string) (int, error)
	AlertCall(ctx context.Context, callID uuid.UUID) (int, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	jobs   MatchingJobs
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, jobs MatchingJobs, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server: server,
		mux:    newMux(jobs, log),
		jobs:   jobs,
		log:    log,
	}
	return w, nil
}

func newMux(jobs MatchingJobs, log *logger.Logger) *asynq.ServeMux {
	h := &taskHandlers{jobs: jobs, log: log}
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskItemChanged, h.handleItemChanged)
	mux.HandleFunc(TaskCallAlert, h.handleCallAlert)
	return mux
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

type taskHandlers struct {
	jobs MatchingJobs
	log  *logger.Logger
}

func (h *taskHandlers) handleItemChanged(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseItemChangedPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.Category == "" {
		return nil
	}

	refreshed, err := h.jobs.RefreshForItem(ctx, payload.Category)
	if err != nil {
		return err
	}
	h.log.WithContext(ctx).Debug("item changed task done", "itemId", payload.ItemID, "chamadas", refreshed)
	return nil
}

func (h *taskHandlers) handleCallAlert(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCallAlertPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	callID, err := uuid.Parse(payload.CallID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	_, err = h.jobs.AlertCall(ctx, callID)
	return err
}
