package metrics

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelsString(t *testing.T) {
	assert.Equal(t, "", Labels(nil).String())
	assert.Equal(t, `{a="1",b="2"}`, Labels{"b": "2", "a": "1"}.String())
	assert.Equal(t, `{a="1",le="0.5"}`, Labels{"a": "1"}.with("le", "0.5"))
}

func TestCounterAndGauge(t *testing.T) {
	r := NewRegistry("test")

	c := r.Counter("events_total", "Events.", nil)
	c.Inc()
	c.Add(2)
	assert.Equal(t, uint64(3), c.Value())
	assert.Same(t, c, r.Counter("events_total", "Events.", nil))

	g := r.Gauge("live", "Live.", nil)
	g.Inc()
	g.Inc()
	g.Dec()
	assert.Equal(t, int64(1), g.Value())
	g.Set(7)
	assert.Equal(t, int64(7), g.Value())
}

func TestCountersWithDifferentLabelsAreDistinct(t *testing.T) {
	r := NewRegistry("")
	a := r.Counter("keys_total", "Keys.", Labels{"result": "a"})
	b := r.Counter("keys_total", "Keys.", Labels{"result": "b"})
	a.Inc()
	assert.Equal(t, uint64(0), b.Value())
}

func TestHistogram(t *testing.T) {
	r := NewRegistry("")
	h := r.Histogram("latency", "Latency.", nil, []float64{1, 0.1})

	h.Observe(0.05)
	h.Observe(0.1)
	h.Observe(0.5)
	h.Observe(3)

	assert.Equal(t, uint64(4), h.Count())
	assert.InDelta(t, 3.65, h.Sum(), 1e-9)
	assert.InDelta(t, 0.9125, h.Mean(), 1e-9)
	assert.Equal(t, []float64{0.1, 1}, h.buckets)
	assert.Equal(t, []uint64{2, 1, 1}, h.counts)
}

func TestHistogramEmptyMean(t *testing.T) {
	h := newHistogram("h", "", nil, nil)
	assert.Equal(t, 0.0, h.Mean())
	assert.Equal(t, LatencyBuckets, h.buckets)
}

func TestWritePrometheus(t *testing.T) {
	r := NewRegistry("emojikbd")
	r.Counter("keys_total", "Keys.", Labels{"result": "passed"}).Inc()
	r.Counter("keys_total", "Keys.", Labels{"result": "captured"}).Add(2)
	r.Gauge("engines", "Engines.", nil).Set(1)
	r.Histogram("key_duration_seconds", "Latency.", nil, []float64{0.5}).Observe(0.25)

	var buf bytes.Buffer
	require.NoError(t, r.WritePrometheus(&buf))

	want := `# HELP emojikbd_keys_total Keys.
# TYPE emojikbd_keys_total counter
emojikbd_keys_total{result="captured"} 2
emojikbd_keys_total{result="passed"} 1
# HELP emojikbd_engines Engines.
# TYPE emojikbd_engines gauge
emojikbd_engines 1
# HELP emojikbd_key_duration_seconds Latency.
# TYPE emojikbd_key_duration_seconds histogram
emojikbd_key_duration_seconds_bucket{le="0.5"} 1
emojikbd_key_duration_seconds_bucket{le="+Inf"} 1
emojikbd_key_duration_seconds_sum 0.25
emojikbd_key_duration_seconds_count 1
`
	assert.Equal(t, want, buf.String())
}

func TestSnapshot(t *testing.T) {
	r := NewRegistry("x")
	r.Counter("c", "", nil).Inc()
	r.Gauge("g", "", Labels{"k": "v"}).Set(-2)
	r.Histogram("h", "", nil, nil).Observe(0.001)

	s := r.Snapshot()
	assert.Equal(t, uint64(1), s["x_c"])
	assert.Equal(t, int64(-2), s[`x_g{k="v"}`])
	assert.Equal(t, uint64(1), s["x_h_count"])
}

func TestIMEMetrics(t *testing.T) {
	r := NewRegistry("emojikbd")
	m := NewIME(r)

	m.Key(true, time.Now())
	m.Key(false, time.Now())
	m.Key(true, time.Now())
	m.Press()
	m.Edit()
	m.Reset()
	m.EngineStarted()
	m.EngineStarted()
	m.EngineStopped()

	assert.Equal(t, uint64(2), r.Counter("keys_total", "", Labels{"result": "captured"}).Value())
	assert.Equal(t, uint64(1), r.Counter("keys_total", "", Labels{"result": "passed"}).Value())
	assert.Equal(t, uint64(1), r.Counter("presses_total", "", nil).Value())
	assert.Equal(t, int64(1), r.Gauge("engines", "", nil).Value())
	assert.Equal(t, uint64(3), r.Histogram("key_duration_seconds", "", nil, nil).Count())
	assert.Same(t, r, m.Registry())
}

func TestNilIMEIsNoop(t *testing.T) {
	var m *IME
	m.Key(true, time.Now())
	m.Press()
	m.Edit()
	m.Reset()
	m.EngineStarted()
	m.EngineStopped()
	assert.Nil(t, m.Registry())
}

func TestConcurrentUpdates(t *testing.T) {
	r := NewRegistry("")
	c := r.Counter("c", "", nil)
	h := r.Histogram("h", "", nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc()
				h.Observe(0.001)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(800), c.Value())
	assert.Equal(t, uint64(800), h.Count())
}
