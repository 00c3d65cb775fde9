package hl7v2

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsRecordParse(t *testing.T) {
	m := NewMetrics()

	m.RecordParse(100*time.Millisecond, 500, true)
	m.RecordParse(50*time.Millisecond, 300, true)
	m.RecordParse(10*time.Millisecond, 0, false)

	s := m.Snapshot()
	if s.MessagesParsed != 2 {
		t.Errorf("MessagesParsed = %d; want 2", s.MessagesParsed)
	}
	if s.ParseFailures != 1 {
		t.Errorf("ParseFailures = %d; want 1", s.ParseFailures)
	}
	if s.BytesParsed != 800 {
		t.Errorf("BytesParsed = %d; want 800", s.BytesParsed)
	}
	if s.ParseTimeMin != 50*time.Millisecond {
		t.Errorf("ParseTimeMin = %v; want 50ms", s.ParseTimeMin)
	}
	if s.ParseTimeMax != 100*time.Millisecond {
		t.Errorf("ParseTimeMax = %v; want 100ms", s.ParseTimeMax)
	}
	if s.ParseTimeTotal != 150*time.Millisecond {
		t.Errorf("ParseTimeTotal = %v; want 150ms", s.ParseTimeTotal)
	}
	if s.ParseTimeAvg != 75*time.Millisecond {
		t.Errorf("ParseTimeAvg = %v; want 75ms", s.ParseTimeAvg)
	}
}

func TestMetricsEmptySnapshot(t *testing.T) {
	s := NewMetrics().Snapshot()
	if s.ParseTimeMin != 0 {
		t.Errorf("ParseTimeMin on fresh metrics = %v; want 0", s.ParseTimeMin)
	}
	if s.ParseTimeAvg != 0 {
		t.Errorf("ParseTimeAvg on fresh metrics = %v; want 0", s.ParseTimeAvg)
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordBatch()
	m.RecordFile()
	m.RecordFile()
	m.RecordEncode(256)

	s := m.Snapshot()
	if s.BatchesParsed != 1 {
		t.Errorf("BatchesParsed = %d; want 1", s.BatchesParsed)
	}
	if s.FilesParsed != 2 {
		t.Errorf("FilesParsed = %d; want 2", s.FilesParsed)
	}
	if s.EncodesTotal != 1 || s.BytesEncoded != 256 {
		t.Errorf("encodes = (%d, %d); want (1, 256)", s.EncodesTotal, s.BytesEncoded)
	}
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	// Must not panic
	m.RecordParse(time.Millisecond, 10, true)
	m.RecordBatch()
	m.RecordFile()
	m.RecordEncode(1)
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.RecordParse(time.Millisecond, 10, true)
	m.RecordBatch()
	m.Reset()

	s := m.Snapshot()
	if s.MessagesParsed != 0 || s.BatchesParsed != 0 || s.BytesParsed != 0 {
		t.Errorf("Snapshot after Reset = %+v; want zeroes", s)
	}
	if s.ParseTimeMin != 0 {
		t.Errorf("ParseTimeMin after Reset = %v; want 0", s.ParseTimeMin)
	}
}

func TestMetricsThroughParser(t *testing.T) {
	m := NewMetrics()

	if _, err := ParseMessage(adtMessage, WithMetrics(m)); err != nil {
		t.Fatalf("ParseMessage() error: %v", err)
	}
	if _, err := ParseMessage("garbage", WithMetrics(m)); err == nil {
		t.Fatal("ParseMessage(garbage) error = nil; want non-nil")
	}
	if _, err := ParseBatch(twoMessageBatch, WithMetrics(m)); err != nil {
		t.Fatalf("ParseBatch() error: %v", err)
	}
	if _, err := ParseFile(oneBatchFile, WithMetrics(m)); err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}

	s := m.Snapshot()
	if s.MessagesParsed != 1 {
		t.Errorf("MessagesParsed = %d; want 1", s.MessagesParsed)
	}
	if s.ParseFailures != 1 {
		t.Errorf("ParseFailures = %d; want 1", s.ParseFailures)
	}
	if s.BatchesParsed != 1 {
		t.Errorf("BatchesParsed = %d; want 1", s.BatchesParsed)
	}
	if s.FilesParsed != 1 {
		t.Errorf("FilesParsed = %d; want 1", s.FilesParsed)
	}
	if s.BytesParsed != uint64(len(adtMessage)) {
		t.Errorf("BytesParsed = %d; want %d", s.BytesParsed, len(adtMessage))
	}
}

func TestMetricsConcurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordParse(time.Duration(j+1)*time.Microsecond, 10, true)
			}
		}()
	}
	wg.Wait()

	s := m.Snapshot()
	if s.MessagesParsed != 800 {
		t.Errorf("MessagesParsed = %d; want 800", s.MessagesParsed)
	}
	if s.ParseTimeMin != time.Microsecond {
		t.Errorf("ParseTimeMin = %v; want 1µs", s.ParseTimeMin)
	}
	if s.ParseTimeMax != 100*time.Microsecond {
		t.Errorf("ParseTimeMax = %v; want 100µs", s.ParseTimeMax)
	}
}
