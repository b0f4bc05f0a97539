package ert

import (
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	snap := m.Snapshot()
	if snap.DispatchOps != 0 {
		t.Errorf("Expected 0 initial dispatch ops, got %d", snap.DispatchOps)
	}

	m.RecordTriggerFire()
	m.RecordTriggerFire()
	m.RecordTriggerWait()
	m.RecordQueueWrite(1024, 3072)
	m.RecordQueueRead(512)
	m.RecordDispatch(1_000_000, true)
	m.RecordDispatch(500_000, false)
	m.RecordSignalEvent()

	snap = m.Snapshot()
	if snap.TriggerFires != 2 {
		t.Errorf("Expected 2 trigger fires, got %d", snap.TriggerFires)
	}
	if snap.TriggerWaits != 1 {
		t.Errorf("Expected 1 trigger wait, got %d", snap.TriggerWaits)
	}
	if snap.QueueBytesWritten != 1024 {
		t.Errorf("Expected 1024 bytes written, got %d", snap.QueueBytesWritten)
	}
	if snap.QueueBytesRead != 512 {
		t.Errorf("Expected 512 bytes read, got %d", snap.QueueBytesRead)
	}
	if snap.DispatchOps != 2 {
		t.Errorf("Expected 2 dispatch ops, got %d", snap.DispatchOps)
	}
	if snap.DispatchErrors != 1 {
		t.Errorf("Expected 1 dispatch error, got %d", snap.DispatchErrors)
	}
	if snap.SignalEvents != 1 {
		t.Errorf("Expected 1 signal event, got %d", snap.SignalEvents)
	}

	expectedErrorRate := float64(1) / float64(2) * 100.0
	if snap.DispatchErrorRate < expectedErrorRate-0.1 || snap.DispatchErrorRate > expectedErrorRate+0.1 {
		t.Errorf("Expected error rate ~%.1f%%, got %.1f%%", expectedErrorRate, snap.DispatchErrorRate)
	}
}

func TestMetricsQueueFreeSpaceMin(t *testing.T) {
	m := NewMetrics()

	m.RecordQueueWrite(10, 4000)
	m.RecordQueueWrite(10, 1000)
	m.RecordQueueWrite(10, 2000)

	snap := m.Snapshot()
	if snap.QueueFreeSpaceMin != 1000 {
		t.Errorf("Expected min free space 1000, got %d", snap.QueueFreeSpaceMin)
	}
}

func TestMetricsLatency(t *testing.T) {
	m := NewMetrics()

	m.RecordDispatch(1_000_000, true)
	m.RecordDispatch(2_000_000, true)

	snap := m.Snapshot()
	expectedAvgNs := uint64(1_500_000)
	if snap.AvgLatencyNs != expectedAvgNs {
		t.Errorf("Expected avg latency %d ns, got %d ns", expectedAvgNs, snap.AvgLatencyNs)
	}
}

func TestMetricsUptime(t *testing.T) {
	m := NewMetrics()

	time.Sleep(10 * time.Millisecond)

	snap := m.Snapshot()
	if snap.UptimeNs < 10*1000000 {
		t.Errorf("Expected uptime >= 10ms, got %d ns", snap.UptimeNs)
	}

	m.Stop()
	time.Sleep(5 * time.Millisecond)

	snap2 := m.Snapshot()
	if snap2.UptimeNs > snap.UptimeNs+2*1000000 {
		t.Errorf("Uptime increased too much after stop: %d -> %d", snap.UptimeNs, snap2.UptimeNs)
	}
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()

	m.RecordTriggerFire()
	m.RecordQueueWrite(1024, 100)
	m.RecordDispatch(1_000_000, true)

	snap := m.Snapshot()
	if snap.DispatchOps == 0 {
		t.Error("Expected some operations before reset")
	}

	m.Reset()

	snap = m.Snapshot()
	if snap.DispatchOps != 0 {
		t.Errorf("Expected 0 dispatch ops after reset, got %d", snap.DispatchOps)
	}
	if snap.QueueBytesWritten != 0 {
		t.Errorf("Expected 0 bytes written after reset, got %d", snap.QueueBytesWritten)
	}
	if snap.QueueFreeSpaceMin != 0 {
		t.Errorf("Expected 0 free space min after reset, got %d", snap.QueueFreeSpaceMin)
	}
}

func TestObserver(t *testing.T) {
	observer := &NoOpObserver{}
	observer.ObserveTriggerFire()
	observer.ObserveTriggerWait()
	observer.ObserveQueueWrite(1024, 1000)
	observer.ObserveQueueRead(1024)
	observer.ObserveDispatch(1_000_000, true)
	observer.ObserveSignalEvent()

	m := NewMetrics()
	metricsObserver := NewMetricsObserver(m)

	metricsObserver.ObserveTriggerFire()
	metricsObserver.ObserveQueueWrite(2048, 1000)
	metricsObserver.ObserveDispatch(1_000_000, true)

	snap := m.Snapshot()
	if snap.TriggerFires != 1 {
		t.Errorf("Expected 1 trigger fire from observer, got %d", snap.TriggerFires)
	}
	if snap.QueueBytesWritten != 2048 {
		t.Errorf("Expected 2048 bytes written from observer, got %d", snap.QueueBytesWritten)
	}
	if snap.DispatchOps != 1 {
		t.Errorf("Expected 1 dispatch op from observer, got %d", snap.DispatchOps)
	}
}

func TestMetricsHistogram(t *testing.T) {
	m := NewMetrics()

	for i := 0; i < 50; i++ {
		m.RecordDispatch(500_000, true) // 500us
	}
	for i := 0; i < 49; i++ {
		m.RecordDispatch(5_000_000, true) // 5ms
	}
	m.RecordDispatch(50_000_000, true) // 50ms, the P99

	snap := m.Snapshot()

	if snap.DispatchOps != 100 {
		t.Errorf("Expected 100 total ops, got %d", snap.DispatchOps)
	}

	if snap.LatencyP50Ns < 100_000 || snap.LatencyP50Ns > 1_000_000 {
		t.Errorf("Expected P50 in 100us-1ms range, got %d ns", snap.LatencyP50Ns)
	}

	if snap.LatencyP99Ns < 5_000_000 || snap.LatencyP99Ns > 100_000_000 {
		t.Errorf("Expected P99 in 5ms-100ms range, got %d ns", snap.LatencyP99Ns)
	}

	totalInBuckets := uint64(0)
	for i := 0; i < len(snap.LatencyHistogram); i++ {
		totalInBuckets += snap.LatencyHistogram[i]
	}
	if totalInBuckets == 0 {
		t.Error("Expected histogram buckets to be populated")
	}
}
