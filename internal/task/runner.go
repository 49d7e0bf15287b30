package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// RunnerConfig holds configuration for the task runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Runner manages background task processing over a bounded in-memory queue.
// Tasks are fire-and-forget: Submit never blocks on execution, and a full
// queue drops the task with an error the caller is free to ignore.
type Runner struct {
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewRunner creates a new Runner.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultRunnerConfig().WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultRunnerConfig().QueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "task_runner")),
	}
}

// Submit adds a new task to the queue.
// Returns an error if the queue is full; the task is then dropped.
func (r *Runner) Submit(task Task) error {
	select {
	case r.taskChan <- task:
		r.logger.Debug("task queued",
			"task_id", task.ID(),
			"task_type", task.Type())
		return nil
	default:
		return fmt.Errorf("task queue is full, dropping task %s", task.ID())
	}
}

// Start initializes the worker pool and begins processing tasks.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true

	r.logger.Info("starting task runner",
		"worker_count", r.config.WorkerCount,
		"queue_size", r.config.QueueSize)

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
}

// Stop signals the workers to finish and waits for in-flight tasks to
// complete. Queued but unstarted tasks are dropped.
func (r *Runner) Stop() {
	r.logger.Info("stopping task runner")
	r.cancelFunc()
	r.wg.Wait()
	r.logger.Info("task runner stopped")
}

// worker consumes tasks from the queue until the runner is stopped.
func (r *Runner) worker(index int) {
	defer r.wg.Done()

	log := r.logger.With(slog.Int("worker", index))
	for {
		select {
		case <-r.ctx.Done():
			return
		case task := <-r.taskChan:
			log.Debug("executing task",
				"task_id", task.ID(),
				"task_type", task.Type())
			if err := task.Execute(r.ctx); err != nil {
				// Best-effort: log and move on.
				log.Error("task execution failed",
					"task_id", task.ID(),
					"task_type", task.Type(),
					"error", err)
			}
		}
	}
}
