package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/CommunityEconomy_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Name() string
	Process(ctx context.Context) error
}

// Pool runs queued jobs on a fixed set of goroutines. Stop cancels the
// context handed to running jobs and waits for them to return.
type Pool struct {
	workers    int
	jobQueue   chan Job
	jobTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, queueSize),
		jobTimeout: DefaultJobTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(job)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) run(job Job) {
	ctx, cancel := context.WithTimeout(logger.WithRequestID(p.ctx, logger.GenerateRequestID()), p.jobTimeout)
	defer cancel()
	log := logger.FromContext(ctx)

	start := time.Now()
	err := safeProcess(ctx, job)
	if err != nil {
		log.Error(LogMsgWorkerJobFailed, "job", job.Name(), "error", err)
		return
	}
	log.Debug(LogMsgWorkerJobCompleted, "job", job.Name(), "duration", time.Since(start).Round(time.Millisecond))
}

// safeProcess keeps a panicking job from taking its worker down
func safeProcess(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name(), r)
		}
	}()
	return job.Process(ctx)
}

// Enqueue queues job without blocking. It returns false when the queue is
// full or the pool is stopped.
func (p *Pool) Enqueue(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.FromContext(p.ctx).Warn(LogMsgQueueFull, "job", job.Name())
		return false
	}
}

// Stop stops the workers and waits for them to finish
func (p *Pool) Stop() {
	p.once.Do(func() {
		logger.FromContext(p.ctx).Info(LogMsgPoolStopping)
		p.cancel()
		p.wg.Wait()
	})
}
