package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/RyanKhPark/sf-asgmt/internal/core/domain"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driven"
	"github.com/RyanKhPark/sf-asgmt/internal/core/ports/driving"
)

// Worker drains the task queue and drives the grounding pipeline.
// It always runs a single consumer: answer batches for a document must be
// processed in submission order, and the pipeline paces itself with settle
// delays that concurrent consumers would interleave.
type Worker struct {
	taskQueue driven.TaskQueue
	grounding driving.GroundingService
	logger    *slog.Logger

	dequeueTimeout int // seconds

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WorkerConfig collects the worker's dependencies.
type WorkerConfig struct {
	TaskQueue      driven.TaskQueue
	Grounding      driving.GroundingService
	Logger         *slog.Logger
	DequeueTimeout int // Seconds to wait for a task before checking again
}

// NewWorker builds a worker, filling in a default logger and a 5 second
// dequeue timeout when unset.
func NewWorker(cfg WorkerConfig) *Worker {
	w := &Worker{
		taskQueue:      cfg.TaskQueue,
		grounding:      cfg.Grounding,
		logger:         cfg.Logger,
		dequeueTimeout: cfg.DequeueTimeout,
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.dequeueTimeout <= 0 {
		w.dequeueTimeout = 5
	}
	return w
}

// Start launches the consumer loop in the background. Calling Start on a
// running worker is a no-op.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("worker starting", "dequeue_timeout", w.dequeueTimeout)

	go func() {
		w.processLoop(ctx)
		close(w.doneCh)
	}()

	return nil
}

// Stop signals the loop and waits for the in-flight task to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("worker stopped")
}

// Wait blocks until the worker loop exits.
func (w *Worker) Wait() {
	<-w.doneCh
}

func (w *Worker) processLoop(ctx context.Context) {
	w.logger.Info("worker loop started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker context cancelled")
			return
		case <-w.stopCh:
			w.logger.Info("worker stop signal received")
			return
		default:
		}

		task, err := w.taskQueue.DequeueWithTimeout(ctx, w.dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			w.logger.Error("failed to dequeue task", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if task == nil {
			continue
		}

		w.processTask(ctx, task)
	}
}

// processTask dispatches on task type, then acks or nacks based on the
// handler result.
func (w *Worker) processTask(ctx context.Context, task *domain.Task) {
	logger := w.logger.With("task_id", task.ID, "task_type", task.Type, "user_id", task.UserID)
	logger.Info("processing task")
	start := time.Now()

	var err error
	switch task.Type {
	case domain.TaskTypeGroundBatch:
		err = w.handleGroundBatch(ctx, task)
	case domain.TaskTypeRestoreHighlights:
		err = w.handleRestoreHighlights(ctx, task)
	default:
		err = fmt.Errorf("unknown task type: %s", task.Type)
	}

	if err != nil {
		logger.Error("task failed", "duration", time.Since(start), "error", err)
		if nackErr := w.taskQueue.Nack(ctx, task.ID, err.Error()); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}

	logger.Info("task completed", "duration", time.Since(start))
	if ackErr := w.taskQueue.Ack(ctx, task.ID); ackErr != nil {
		logger.Error("failed to ack task", "ack_error", ackErr)
	}
}

func (w *Worker) handleGroundBatch(ctx context.Context, task *domain.Task) error {
	documentID := task.DocumentID()
	if documentID == "" {
		return fmt.Errorf("document_id not found in task payload")
	}

	answers, err := task.Answers()
	if err != nil {
		return fmt.Errorf("decoding answers: %w", err)
	}
	if len(answers) == 0 {
		return nil
	}

	return w.grounding.GroundBatch(ctx, task.UserID, documentID, task.MessageID(), answers)
}

func (w *Worker) handleRestoreHighlights(ctx context.Context, task *domain.Task) error {
	documentID := task.DocumentID()
	if documentID == "" {
		return fmt.Errorf("document_id not found in task payload")
	}

	highlights, err := w.grounding.RestoreHighlights(ctx, task.UserID, documentID)
	if err != nil {
		return err
	}

	w.logger.Info("highlights restored", "document_id", documentID, "count", len(highlights))
	return nil
}

// Health reports whether the loop is running and the queue is reachable.
type Health struct {
	Running     bool   `json:"running"`
	QueueHealth bool   `json:"queue_health"`
	Error       string `json:"error,omitempty"`
}

func (w *Worker) Health(ctx context.Context) Health {
	w.mu.RLock()
	health := Health{Running: w.running}
	w.mu.RUnlock()

	if err := w.taskQueue.Ping(ctx); err != nil {
		health.Error = err.Error()
	} else {
		health.QueueHealth = true
	}
	return health
}
