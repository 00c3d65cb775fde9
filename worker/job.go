package worker

import (
	hl7 "github.com/gohl7/hl7v2"
)

// Job is one raw ER7 message to parse.
type Job struct {
	// ID correlates the job with its result.
	ID string

	// Raw is the ER7 message text.
	Raw []byte
}

// JobResult is the outcome of parsing one job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Message is the parsed message, nil when Error is set.
	Message *hl7.Message

	// Error is the parse error, if any.
	Error error

	// Duration is the time taken to parse, in nanoseconds.
	Duration int64
}

// BatchResult aggregates the results of multiple jobs.
type BatchResult struct {
	// Results contains all job results.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs processed (including errors).
	CompletedJobs int

	// FailedJobs is the number of jobs that failed to parse.
	FailedJobs int

	// TotalDuration is the summed parse time across jobs, in
	// nanoseconds.
	TotalDuration int64
}

// HasErrors reports whether any job failed to parse.
func (br *BatchResult) HasErrors() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return true
		}
	}
	return false
}

// Messages returns the successfully parsed messages, skipping failed
// jobs.
func (br *BatchResult) Messages() []*hl7.Message {
	out := make([]*hl7.Message, 0, len(br.Results))
	for _, r := range br.Results {
		if r != nil && r.Message != nil {
			out = append(out, r.Message)
		}
	}
	return out
}
