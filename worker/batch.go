package worker

// BatchParser parses a set of messages in parallel and collects every
// result before returning.
type BatchParser struct {
	parser  Parser
	workers int
}

// NewBatchParser creates a batch parser. A nil parser and workers <= 0
// take the same defaults as NewPool.
func NewBatchParser(parser Parser, workers int) *BatchParser {
	return &BatchParser{parser: parser, workers: workers}
}

// ParseAll submits every job to a fresh pool and waits for completion.
// The order of Results matches completion order, not submission order;
// use JobResult.ID to correlate.
func (b *BatchParser) ParseAll(jobs []Job) *BatchResult {
	pool := NewPool(b.parser, b.workers)

	go func() {
		for _, job := range jobs {
			pool.Submit(job)
		}
	}()

	// Submission happens on its own goroutine so a full queue cannot
	// deadlock against result collection.
	collected := make([]*JobResult, 0, len(jobs))
	failed := 0
	var total int64
	for range jobs {
		result := <-pool.Results()
		collected = append(collected, result)
		if result.Error != nil {
			failed++
		}
		total += result.Duration
	}
	pool.Close()

	return &BatchResult{
		Results:       collected,
		TotalJobs:     len(jobs),
		CompletedJobs: len(collected),
		FailedJobs:    failed,
		TotalDuration: total,
	}
}
