package ert

import "sync"

// MockObserver is a call-tracking Observer double for tests, the
// counterpart of the teacher's MockBackend: it never discards what it
// observes, so a test can assert on exactly what happened.
type MockObserver struct {
	mu sync.RWMutex

	triggerFires int
	triggerWaits int
	queueWrites  int
	queueReads   int
	dispatches   int
	dispatchErrs int
	signalEvents int
}

// NewMockObserver creates an empty MockObserver.
func NewMockObserver() *MockObserver {
	return &MockObserver{}
}

func (m *MockObserver) ObserveTriggerFire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggerFires++
}

func (m *MockObserver) ObserveTriggerWait() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggerWaits++
}

func (m *MockObserver) ObserveQueueWrite(bytes uint64, freeSpaceAfter uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueWrites++
}

func (m *MockObserver) ObserveQueueRead(bytes uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueReads++
}

func (m *MockObserver) ObserveDispatch(latencyNs uint64, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatches++
	if !success {
		m.dispatchErrs++
	}
}

func (m *MockObserver) ObserveSignalEvent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signalEvents++
}

// CallCounts returns a snapshot of every counter, keyed the way
// MockBackend.CallCounts is.
func (m *MockObserver) CallCounts() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]int{
		"trigger_fires": m.triggerFires,
		"trigger_waits": m.triggerWaits,
		"queue_writes":  m.queueWrites,
		"queue_reads":   m.queueReads,
		"dispatches":    m.dispatches,
		"dispatch_errs": m.dispatchErrs,
		"signal_events": m.signalEvents,
	}
}

var _ Observer = (*MockObserver)(nil)
