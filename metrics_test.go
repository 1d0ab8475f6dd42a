package pcmrate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMetrics_Counters exercises the zero value directly.
func TestMetrics_Counters(t *testing.T) {
	var m Metrics

	m.engineOpened()
	m.engineOpened()
	m.engineClosed()
	m.openFailed()

	assert.Equal(t, int64(2), m.EnginesOpened())
	assert.Equal(t, int64(1), m.EnginesClosed())
	assert.Equal(t, int64(1), m.OpenFailures())
	assert.Equal(t, int64(1), m.EnginesLive())
}

// TestMetrics_NilReceiver verifies instrumentation points are safe when
// no collector was installed.
func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.engineOpened()
		m.engineClosed()
		m.openFailed()
	})
}

// TestMetrics_ConcurrentStreams verifies counters stay consistent when
// independent streams share one collector.
func TestMetrics_ConcurrentStreams(t *testing.T) {
	const streams = 16

	var m Metrics
	profile, err := Resolve(Settings{"quality": "quick"})
	assert.NoError(t, err)

	factory := &fakeFactory{}
	var wg sync.WaitGroup
	for i := 0; i < streams; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := NewStream(profile, WithEngineFactory(factory), WithMetrics(&m))
			if err := s.Open(RateCD, RateDAT, 2); err != nil {
				t.Error(err)
				return
			}
			if err := s.Close(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(streams), m.EnginesOpened())
	assert.Equal(t, int64(streams), m.EnginesClosed())
	assert.Zero(t, m.EnginesLive())
	assert.Zero(t, m.OpenFailures())
}
