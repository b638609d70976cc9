package metrics

import "time"

// IME groups the metrics recorded by input method engines. A nil *IME
// records nothing.
type IME struct {
	registry *Registry

	keysCaptured *Counter
	keysPassed   *Counter
	presses      *Counter
	edits        *Counter
	resets       *Counter
	engines      *Gauge
	keyLatency   *Histogram
}

// NewIME registers the engine metrics in r.
func NewIME(r *Registry) *IME {
	return &IME{
		registry:     r,
		keysCaptured: r.Counter("keys_total", "Physical key-downs seen by the engine.", Labels{"result": "captured"}),
		keysPassed:   r.Counter("keys_total", "Physical key-downs seen by the engine.", Labels{"result": "passed"}),
		presses:      r.Counter("presses_total", "On-screen key presses.", nil),
		edits:        r.Counter("edits_total", "Field edits that rebuilt the source text.", nil),
		resets:       r.Counter("resets_total", "Engine resets.", nil),
		engines:      r.Gauge("engines", "Live engine instances.", nil),
		keyLatency:   r.Histogram("key_duration_seconds", "Time to handle a physical key-down.", nil, LatencyBuckets),
	}
}

// Registry returns the registry the metrics live in.
func (m *IME) Registry() *Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Key records a physical key-down that started at start.
func (m *IME) Key(captured bool, start time.Time) {
	if m == nil {
		return
	}
	if captured {
		m.keysCaptured.Inc()
	} else {
		m.keysPassed.Inc()
	}
	m.keyLatency.Since(start)
}

// Press records an on-screen key press.
func (m *IME) Press() {
	if m != nil {
		m.presses.Inc()
	}
}

// Edit records a field edit.
func (m *IME) Edit() {
	if m != nil {
		m.edits.Inc()
	}
}

// Reset records an engine reset.
func (m *IME) Reset() {
	if m != nil {
		m.resets.Inc()
	}
}

// EngineStarted records a new live engine.
func (m *IME) EngineStarted() {
	if m != nil {
		m.engines.Inc()
	}
}

// EngineStopped records that a live engine went away.
func (m *IME) EngineStopped() {
	if m != nil {
		m.engines.Dec()
	}
}
