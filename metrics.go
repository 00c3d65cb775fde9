package hl7v2

import (
	"sync/atomic"
	"time"
)

// Metrics tracks codec performance using lock-free atomic operations.
// All methods are safe for concurrent use. Attach a Metrics to parse
// calls with WithMetrics.
type Metrics struct {
	// Parse counts
	messagesParsed atomic.Uint64
	batchesParsed  atomic.Uint64
	filesParsed    atomic.Uint64
	parseFailures  atomic.Uint64

	// Encode counts
	encodesTotal atomic.Uint64

	// Volume
	bytesParsed  atomic.Uint64
	bytesEncoded atomic.Uint64

	// Timing (stored as nanoseconds)
	parseTimeTotal atomic.Uint64
	parseTimeMin   atomic.Uint64
	parseTimeMax   atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so the first sample becomes the minimum
	m.parseTimeMin.Store(^uint64(0))
	return m
}

// RecordParse records one completed message parse.
func (m *Metrics) RecordParse(duration time.Duration, size int, ok bool) {
	if m == nil {
		return
	}
	if !ok {
		m.parseFailures.Add(1)
		return
	}
	m.messagesParsed.Add(1)
	m.bytesParsed.Add(uint64(size))

	ns := uint64(duration.Nanoseconds())
	m.parseTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.parseTimeMin.Load()
		if ns >= old {
			break
		}
		if m.parseTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.parseTimeMax.Load()
		if ns <= old {
			break
		}
		if m.parseTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordBatch records one completed batch parse.
func (m *Metrics) RecordBatch() {
	if m != nil {
		m.batchesParsed.Add(1)
	}
}

// RecordFile records one completed file parse.
func (m *Metrics) RecordFile() {
	if m != nil {
		m.filesParsed.Add(1)
	}
}

// RecordEncode records one encode operation producing size bytes.
func (m *Metrics) RecordEncode(size int) {
	if m == nil {
		return
	}
	m.encodesTotal.Add(1)
	m.bytesEncoded.Add(uint64(size))
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	MessagesParsed uint64 `json:"messagesParsed"`
	BatchesParsed  uint64 `json:"batchesParsed"`
	FilesParsed    uint64 `json:"filesParsed"`
	ParseFailures  uint64 `json:"parseFailures"`
	EncodesTotal   uint64 `json:"encodesTotal"`
	BytesParsed    uint64 `json:"bytesParsed"`
	BytesEncoded   uint64 `json:"bytesEncoded"`

	ParseTimeTotal time.Duration `json:"parseTimeTotal"`
	ParseTimeMin   time.Duration `json:"parseTimeMin"`
	ParseTimeMax   time.Duration `json:"parseTimeMax"`
	ParseTimeAvg   time.Duration `json:"parseTimeAvg"`
}

// Snapshot returns a consistent-enough copy of the current counters for
// reporting.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		MessagesParsed: m.messagesParsed.Load(),
		BatchesParsed:  m.batchesParsed.Load(),
		FilesParsed:    m.filesParsed.Load(),
		ParseFailures:  m.parseFailures.Load(),
		EncodesTotal:   m.encodesTotal.Load(),
		BytesParsed:    m.bytesParsed.Load(),
		BytesEncoded:   m.bytesEncoded.Load(),
		ParseTimeTotal: time.Duration(m.parseTimeTotal.Load()),
	}
	if min := m.parseTimeMin.Load(); min != ^uint64(0) {
		s.ParseTimeMin = time.Duration(min)
	}
	s.ParseTimeMax = time.Duration(m.parseTimeMax.Load())
	if s.MessagesParsed > 0 {
		s.ParseTimeAvg = s.ParseTimeTotal / time.Duration(s.MessagesParsed)
	}
	return s
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	m.messagesParsed.Store(0)
	m.batchesParsed.Store(0)
	m.filesParsed.Store(0)
	m.parseFailures.Store(0)
	m.encodesTotal.Store(0)
	m.bytesParsed.Store(0)
	m.bytesEncoded.Store(0)
	m.parseTimeTotal.Store(0)
	m.parseTimeMin.Store(^uint64(0))
	m.parseTimeMax.Store(0)
}
