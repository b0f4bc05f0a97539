package ert

import (
	"sync/atomic"
	"time"

	"github.com/lattice-rt/ert/internal/core"
)

// LatencyBuckets defines the dispatch-latency histogram buckets in
// nanoseconds, covering 1us to 10s with logarithmic spacing.
var LatencyBuckets = []uint64{
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
	10_000_000_000,
}

const numLatencyBuckets = 8

// Metrics tracks operational statistics for a Runtime: trigger activity,
// MsgQueue throughput, dispatch outcomes and signal events.
type Metrics struct {
	// Trigger activity
	TriggerFires atomic.Uint64
	TriggerWaits atomic.Uint64

	// MsgQueue throughput
	QueueBytesWritten atomic.Uint64
	QueueBytesRead    atomic.Uint64
	QueueFreeSpaceMin atomic.Uint64 // smallest free_space ever observed

	// Dispatch outcomes
	DispatchOps    atomic.Uint64
	DispatchErrors atomic.Uint64

	// Signal events delivered to the host
	SignalEvents atomic.Uint64

	// Performance tracking (dispatch latency)
	TotalLatencyNs atomic.Uint64
	OpCount        atomic.Uint64
	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	StartTime atomic.Int64
	StopTime  atomic.Int64
}

// NewMetrics creates a new metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	m.QueueFreeSpaceMin.Store(^uint64(0))
	return m
}

// RecordTriggerFire records a single Trigger.Fire call.
func (m *Metrics) RecordTriggerFire() { m.TriggerFires.Add(1) }

// RecordTriggerWait records a single Trigger.Wait call returning.
func (m *Metrics) RecordTriggerWait() { m.TriggerWaits.Add(1) }

// RecordQueueWrite records bytes committed by a MsgQueue FinishWrite.
func (m *Metrics) RecordQueueWrite(bytes uint64, freeSpaceAfter uint64) {
	m.QueueBytesWritten.Add(bytes)
	for {
		cur := m.QueueFreeSpaceMin.Load()
		if freeSpaceAfter >= cur {
			break
		}
		if m.QueueFreeSpaceMin.CompareAndSwap(cur, freeSpaceAfter) {
			break
		}
	}
}

// RecordQueueRead records bytes consumed by a MsgQueue FinishRead.
func (m *Metrics) RecordQueueRead(bytes uint64) {
	m.QueueBytesRead.Add(bytes)
}

// RecordDispatch records a worker dispatch outcome and its latency.
func (m *Metrics) RecordDispatch(latencyNs uint64, success bool) {
	m.DispatchOps.Add(1)
	if !success {
		m.DispatchErrors.Add(1)
	}
	m.recordLatency(latencyNs)
}

// RecordSignalEvent records a single signal event published to the host.
func (m *Metrics) RecordSignalEvent() { m.SignalEvents.Add(1) }

func (m *Metrics) recordLatency(latencyNs uint64) {
	m.TotalLatencyNs.Add(latencyNs)
	m.OpCount.Add(1)
	for i, bucket := range LatencyBuckets {
		if latencyNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// Stop marks the runtime as stopped for uptime accounting.
func (m *Metrics) Stop() { m.StopTime.Store(time.Now().UnixNano()) }

// MetricsSnapshot is a point-in-time copy of Metrics plus derived stats.
type MetricsSnapshot struct {
	TriggerFires      uint64
	TriggerWaits      uint64
	QueueBytesWritten uint64
	QueueBytesRead    uint64
	QueueFreeSpaceMin uint64
	DispatchOps       uint64
	DispatchErrors    uint64
	SignalEvents      uint64

	AvgLatencyNs uint64
	UptimeNs     uint64

	LatencyP50Ns  uint64
	LatencyP99Ns  uint64
	LatencyP999Ns uint64

	LatencyHistogram [numLatencyBuckets]uint64

	DispatchErrorRate float64
}

// Snapshot captures current counters and computed statistics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		TriggerFires:      m.TriggerFires.Load(),
		TriggerWaits:      m.TriggerWaits.Load(),
		QueueBytesWritten: m.QueueBytesWritten.Load(),
		QueueBytesRead:    m.QueueBytesRead.Load(),
		DispatchOps:       m.DispatchOps.Load(),
		DispatchErrors:    m.DispatchErrors.Load(),
		SignalEvents:      m.SignalEvents.Load(),
	}

	if fsm := m.QueueFreeSpaceMin.Load(); fsm != ^uint64(0) {
		snap.QueueFreeSpaceMin = fsm
	}

	totalLatencyNs := m.TotalLatencyNs.Load()
	opCount := m.OpCount.Load()
	if opCount > 0 {
		snap.AvgLatencyNs = totalLatencyNs / opCount
	}

	startTime := m.StartTime.Load()
	stopTime := m.StopTime.Load()
	if stopTime > 0 {
		snap.UptimeNs = uint64(stopTime - startTime)
	} else {
		snap.UptimeNs = uint64(time.Now().UnixNano() - startTime)
	}

	if snap.DispatchOps > 0 {
		snap.DispatchErrorRate = float64(snap.DispatchErrors) / float64(snap.DispatchOps) * 100.0
	}

	for i := 0; i < numLatencyBuckets; i++ {
		snap.LatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}

	if opCount > 0 {
		snap.LatencyP50Ns = m.calculatePercentile(0.50)
		snap.LatencyP99Ns = m.calculatePercentile(0.99)
		snap.LatencyP999Ns = m.calculatePercentile(0.999)
	}

	return snap
}

// calculatePercentile estimates the latency at the given percentile
// (0.0-1.0) using linear interpolation between histogram buckets.
func (m *Metrics) calculatePercentile(percentile float64) uint64 {
	totalOps := m.OpCount.Load()
	if totalOps == 0 {
		return 0
	}

	targetCount := uint64(float64(totalOps) * percentile)

	prevBucket := uint64(0)
	for i, bucket := range LatencyBuckets {
		bucketCount := m.LatencyBuckets[i].Load()
		if bucketCount >= targetCount {
			prevCount := uint64(0)
			if i > 0 {
				prevCount = m.LatencyBuckets[i-1].Load()
			}
			if bucketCount == prevCount {
				return bucket
			}
			fraction := float64(targetCount-prevCount) / float64(bucketCount-prevCount)
			return prevBucket + uint64(fraction*float64(bucket-prevBucket))
		}
		prevBucket = bucket
	}

	return LatencyBuckets[numLatencyBuckets-1]
}

// Reset zeroes all counters; useful in tests.
func (m *Metrics) Reset() {
	m.TriggerFires.Store(0)
	m.TriggerWaits.Store(0)
	m.QueueBytesWritten.Store(0)
	m.QueueBytesRead.Store(0)
	m.QueueFreeSpaceMin.Store(^uint64(0))
	m.DispatchOps.Store(0)
	m.DispatchErrors.Store(0)
	m.SignalEvents.Store(0)
	m.TotalLatencyNs.Store(0)
	m.OpCount.Store(0)
	for i := 0; i < numLatencyBuckets; i++ {
		m.LatencyBuckets[i].Store(0)
	}
	m.StartTime.Store(time.Now().UnixNano())
	m.StopTime.Store(0)
}

// Observer and NoOpObserver live in internal/core so the internal packages
// can depend on the contract without importing this root package; aliased
// here under their original names.
type Observer = core.Observer
type NoOpObserver = core.NoOpObserver

// MetricsObserver implements Observer by recording into a Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveTriggerFire() { o.metrics.RecordTriggerFire() }
func (o *MetricsObserver) ObserveTriggerWait() { o.metrics.RecordTriggerWait() }
func (o *MetricsObserver) ObserveQueueWrite(bytes uint64, freeSpaceAfter uint64) {
	o.metrics.RecordQueueWrite(bytes, freeSpaceAfter)
}
func (o *MetricsObserver) ObserveQueueRead(bytes uint64) { o.metrics.RecordQueueRead(bytes) }
func (o *MetricsObserver) ObserveDispatch(latencyNs uint64, success bool) {
	o.metrics.RecordDispatch(latencyNs, success)
}
func (o *MetricsObserver) ObserveSignalEvent() { o.metrics.RecordSignalEvent() }

var _ Observer = (*MetricsObserver)(nil)
var _ Observer = (*NoOpObserver)(nil)
