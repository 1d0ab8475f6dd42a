package pcmrate

import "sync/atomic"

// Metrics counts engine lifecycle events across all streams it is
// attached to. All methods are safe for concurrent use; a nil *Metrics
// discards every event.
type Metrics struct {
	opened   atomic.Int64
	closed   atomic.Int64
	failures atomic.Int64
}

func (m *Metrics) engineOpened() {
	if m != nil {
		m.opened.Add(1)
	}
}

func (m *Metrics) engineClosed() {
	if m != nil {
		m.closed.Add(1)
	}
}

func (m *Metrics) openFailed() {
	if m != nil {
		m.failures.Add(1)
	}
}

// EnginesOpened returns the number of engine instances created.
func (m *Metrics) EnginesOpened() int64 {
	if m == nil {
		return 0
	}
	return m.opened.Load()
}

// EnginesClosed returns the number of engine instances destroyed.
func (m *Metrics) EnginesClosed() int64 {
	if m == nil {
		return 0
	}
	return m.closed.Load()
}

// OpenFailures returns the number of rejected engine constructions.
func (m *Metrics) OpenFailures() int64 {
	if m == nil {
		return 0
	}
	return m.failures.Load()
}

// EnginesLive returns the number of engine instances currently alive.
func (m *Metrics) EnginesLive() int64 {
	if m == nil {
		return 0
	}
	return m.opened.Load() - m.closed.Load()
}
