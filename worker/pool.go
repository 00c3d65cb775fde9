package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	hl7 "github.com/gohl7/hl7v2"
)

// ErrPoolClosed is returned by Submit after the pool has been closed.
var ErrPoolClosed = errors.New("worker: pool closed")

// Parser parses one raw ER7 message. It is satisfied by ParserFunc and
// kept minimal so callers can wrap the core parser with their own
// options or metrics.
type Parser interface {
	Parse(ctx context.Context, raw []byte) (*hl7.Message, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(ctx context.Context, raw []byte) (*hl7.Message, error)

// Parse implements Parser.
func (f ParserFunc) Parse(ctx context.Context, raw []byte) (*hl7.Message, error) {
	return f(ctx, raw)
}

// defaultParser parses with the codec defaults.
var defaultParser = ParserFunc(func(_ context.Context, raw []byte) (*hl7.Message, error) {
	return hl7.ParseMessage(string(raw))
})

// Pool manages a pool of worker goroutines that parse messages in
// parallel.
type Pool struct {
	workers    int
	jobsChan   chan Job
	resultChan chan *JobResult
	parser     Parser
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	closed     atomic.Bool

	// Metrics
	jobsSubmitted atomic.Uint64
	jobsCompleted atomic.Uint64
	totalDuration atomic.Uint64
}

// NewPool creates a worker pool with the specified number of workers.
// A nil parser uses hl7v2.ParseMessage with default options; workers <= 0
// defaults to runtime.NumCPU().
func NewPool(parser Parser, workers int) *Pool {
	if parser == nil {
		parser = defaultParser
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		workers:    workers,
		jobsChan:   make(chan Job, workers*2),
		resultChan: make(chan *JobResult, workers*2),
		parser:     parser,
		ctx:        ctx,
		cancel:     cancel,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// Submit queues a job for parsing, blocking while the queue is full.
// It reports false once the pool is closed.
func (p *Pool) Submit(job Job) bool {
	if p.closed.Load() {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobsChan <- job:
		p.jobsSubmitted.Add(1)
		return true
	}
}

// SubmitAsync queues a job without blocking. It reports false when the
// queue is full or the pool is closed.
func (p *Pool) SubmitAsync(job Job) bool {
	if p.closed.Load() {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobsChan <- job:
		p.jobsSubmitted.Add(1)
		return true
	default:
		return false
	}
}

// Results returns the channel job results arrive on.
func (p *Pool) Results() <-chan *JobResult {
	return p.resultChan
}

// Close shuts down the pool and waits for workers to finish, discarding
// any undelivered results. Use CloseAndWait to collect them instead.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return // Already closed
	}

	p.cancel()
	close(p.jobsChan)

	// Drain results in the background so workers never block on send
	done := make(chan struct{})
	go func() {
		for range p.resultChan {
		}
		close(done)
	}()

	p.wg.Wait()
	close(p.resultChan)
	<-done
}

// CloseAndWait stops accepting jobs, lets queued work finish, and
// collects every pending result.
func (p *Pool) CloseAndWait() *BatchResult {
	if p.closed.Swap(true) {
		return &BatchResult{}
	}

	close(p.jobsChan)

	go func() {
		p.wg.Wait()
		close(p.resultChan)
	}()

	results := make([]*JobResult, 0)
	failed := 0
	for result := range p.resultChan {
		results = append(results, result)
		if result.Error != nil {
			failed++
		}
	}
	p.cancel()

	return &BatchResult{
		Results:       results,
		TotalJobs:     int(p.jobsSubmitted.Load()),
		CompletedJobs: int(p.jobsCompleted.Load()),
		FailedJobs:    failed,
		TotalDuration: int64(p.totalDuration.Load()),
	}
}

// Stats returns current pool statistics.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Workers:       p.workers,
		JobsSubmitted: p.jobsSubmitted.Load(),
		JobsCompleted: p.jobsCompleted.Load(),
		AvgDuration:   p.averageDuration(),
	}
}

// PoolStats contains pool statistics.
type PoolStats struct {
	Workers       int
	JobsSubmitted uint64
	JobsCompleted uint64
	AvgDuration   time.Duration
}

func (p *Pool) averageDuration() time.Duration {
	completed := p.jobsCompleted.Load()
	if completed == 0 {
		return 0
	}
	return time.Duration(p.totalDuration.Load() / completed)
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobsChan {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		result := p.processJob(job)
		p.jobsCompleted.Add(1)
		p.totalDuration.Add(uint64(result.Duration))

		select {
		case <-p.ctx.Done():
			return
		case p.resultChan <- result:
		}
	}
}

func (p *Pool) processJob(job Job) *JobResult {
	start := time.Now()

	result := &JobResult{ID: job.ID}
	result.Message, result.Error = p.parser.Parse(p.ctx, job.Raw)
	result.Duration = time.Since(start).Nanoseconds()
	return result
}
