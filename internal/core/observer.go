package core

// Observer allows pluggable metrics collection. Every layer that can
// observe an event (Trigger fires/waits, MsgQueue writes/reads, worker
// dispatch outcomes, signal events) takes one of these rather than
// reaching for a concrete Metrics type, mirroring the teacher's
// Observer/NoOpObserver/MetricsObserver trio.
type Observer interface {
	ObserveTriggerFire()
	ObserveTriggerWait()
	ObserveQueueWrite(bytes uint64, freeSpaceAfter uint64)
	ObserveQueueRead(bytes uint64)
	ObserveDispatch(latencyNs uint64, success bool)
	ObserveSignalEvent()
}

// NoOpObserver discards every observation.
type NoOpObserver struct{}

func (NoOpObserver) ObserveTriggerFire()              {}
func (NoOpObserver) ObserveTriggerWait()              {}
func (NoOpObserver) ObserveQueueWrite(uint64, uint64) {}
func (NoOpObserver) ObserveQueueRead(uint64)          {}
func (NoOpObserver) ObserveDispatch(uint64, bool)     {}
func (NoOpObserver) ObserveSignalEvent()              {}

var _ Observer = (*NoOpObserver)(nil)
