package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	hl7 "github.com/gohl7/hl7v2"
)

const sampleMessage = "MSH|^~\\&|SENDER|FAC|RECEIVER|FAC|20240101120000||ADT^A01|MSG001|P|2.5\rPID|1||12345^^^MRN||Doe^John||19800101|M"

func TestPoolParsesMessages(t *testing.T) {
	pool := NewPool(nil, 4)

	const n = 20
	go func() {
		for i := 0; i < n; i++ {
			pool.Submit(Job{ID: fmt.Sprintf("job-%d", i), Raw: []byte(sampleMessage)})
		}
	}()

	for i := 0; i < n; i++ {
		result := <-pool.Results()
		if result.Error != nil {
			t.Fatalf("job %s: unexpected error: %v", result.ID, result.Error)
		}
		if result.Message == nil {
			t.Fatalf("job %s: nil message", result.ID)
		}
		if got := result.Message.ControlID(); got != "MSG001" {
			t.Errorf("job %s: ControlID = %q, want %q", result.ID, got, "MSG001")
		}
	}
	pool.Close()
}

func TestPoolRecordsFailures(t *testing.T) {
	pool := NewPool(nil, 2)

	pool.Submit(Job{ID: "good", Raw: []byte(sampleMessage)})
	pool.Submit(Job{ID: "bad", Raw: []byte("not an hl7 message")})

	batch := pool.CloseAndWait()

	if batch.TotalJobs != 2 {
		t.Errorf("TotalJobs = %d, want 2", batch.TotalJobs)
	}
	if batch.FailedJobs != 1 {
		t.Errorf("FailedJobs = %d, want 1", batch.FailedJobs)
	}
	if !batch.HasErrors() {
		t.Error("HasErrors() = false, want true")
	}
	if got := len(batch.Messages()); got != 1 {
		t.Errorf("len(Messages()) = %d, want 1", got)
	}
}

func TestPoolSubmitAfterClose(t *testing.T) {
	pool := NewPool(nil, 1)
	pool.Close()

	if pool.Submit(Job{ID: "late", Raw: []byte(sampleMessage)}) {
		t.Error("Submit after Close returned true")
	}
	if pool.SubmitAsync(Job{ID: "late", Raw: []byte(sampleMessage)}) {
		t.Error("SubmitAsync after Close returned true")
	}
}

func TestPoolDoubleClose(t *testing.T) {
	pool := NewPool(nil, 1)
	pool.Close()
	pool.Close() // must not panic

	if batch := pool.CloseAndWait(); len(batch.Results) != 0 {
		t.Errorf("CloseAndWait after Close returned %d results, want 0", len(batch.Results))
	}
}

func TestPoolCustomParser(t *testing.T) {
	sentinel := errors.New("refused")
	parser := ParserFunc(func(_ context.Context, _ []byte) (*hl7.Message, error) {
		return nil, sentinel
	})

	pool := NewPool(parser, 1)
	pool.Submit(Job{ID: "x", Raw: []byte(sampleMessage)})

	result := <-pool.Results()
	if !errors.Is(result.Error, sentinel) {
		t.Errorf("Error = %v, want %v", result.Error, sentinel)
	}
	pool.Close()
}

func TestPoolStats(t *testing.T) {
	pool := NewPool(nil, 3)

	pool.Submit(Job{ID: "a", Raw: []byte(sampleMessage)})
	pool.Submit(Job{ID: "b", Raw: []byte(sampleMessage)})
	batch := pool.CloseAndWait()

	if batch.CompletedJobs != 2 {
		t.Errorf("CompletedJobs = %d, want 2", batch.CompletedJobs)
	}

	stats := pool.Stats()
	if stats.Workers != 3 {
		t.Errorf("Workers = %d, want 3", stats.Workers)
	}
	if stats.JobsSubmitted != 2 {
		t.Errorf("JobsSubmitted = %d, want 2", stats.JobsSubmitted)
	}
	if stats.JobsCompleted != 2 {
		t.Errorf("JobsCompleted = %d, want 2", stats.JobsCompleted)
	}
}

func TestBatchParserParseAll(t *testing.T) {
	jobs := make([]Job, 10)
	for i := range jobs {
		jobs[i] = Job{ID: fmt.Sprintf("msg-%d", i), Raw: []byte(sampleMessage)}
	}
	jobs[7].Raw = []byte("garbage")

	batch := NewBatchParser(nil, 4).ParseAll(jobs)

	if batch.TotalJobs != 10 {
		t.Errorf("TotalJobs = %d, want 10", batch.TotalJobs)
	}
	if batch.CompletedJobs != 10 {
		t.Errorf("CompletedJobs = %d, want 10", batch.CompletedJobs)
	}
	if batch.FailedJobs != 1 {
		t.Errorf("FailedJobs = %d, want 1", batch.FailedJobs)
	}

	seen := make(map[string]bool, len(batch.Results))
	for _, r := range batch.Results {
		seen[r.ID] = true
	}
	for _, job := range jobs {
		if !seen[job.ID] {
			t.Errorf("missing result for job %s", job.ID)
		}
	}
}

func BenchmarkPoolParse(b *testing.B) {
	pool := NewPool(nil, 4)
	defer pool.Close()

	go func() {
		for i := 0; i < b.N; i++ {
			pool.Submit(Job{ID: "bench", Raw: []byte(sampleMessage)})
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		<-pool.Results()
	}
}
