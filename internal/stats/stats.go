// Package stats keeps rolling-window latency aggregates for engine
// operations.
package stats

import (
	"math"
	"slices"
	"sync"
	"time"
)

// Snapshot is a point-in-time aggregate of latency samples. Engine calls
// usually finish well under a millisecond, so times are fractional
// milliseconds.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

type observation struct {
	at time.Time
	d  time.Duration
}

// Latency tracks recent durations of one operation within a rolling window.
type Latency struct {
	mu     sync.Mutex
	obs    []observation
	window time.Duration
	now    func() time.Time
}

// NewLatency returns a Latency that forgets observations older than window.
// A non-positive window defaults to one hour.
func NewLatency(window time.Duration) *Latency {
	if window <= 0 {
		window = time.Hour
	}
	return &Latency{window: window, now: time.Now}
}

// Observe records one duration. Negative durations count as zero.
func (l *Latency) Observe(d time.Duration) {
	d = max(d, 0)
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.expireLocked(now)
	l.obs = append(l.obs, observation{at: now, d: d})
}

// Snapshot aggregates the observations still inside the window.
func (l *Latency) Snapshot() Snapshot {
	l.mu.Lock()
	l.expireLocked(l.now())
	ds := make([]time.Duration, len(l.obs))
	for i, o := range l.obs {
		ds[i] = o.d
	}
	l.mu.Unlock()

	if len(ds) == 0 {
		return Snapshot{}
	}
	slices.Sort(ds)

	var total time.Duration
	for _, d := range ds {
		total += d
	}
	return Snapshot{
		Count: len(ds),
		MinMs: ms(ds[0]),
		MaxMs: ms(ds[len(ds)-1]),
		AvgMs: ms(total / time.Duration(len(ds))),
		P50Ms: ms(quantile(ds, 0.50)),
		P95Ms: ms(quantile(ds, 0.95)),
		P99Ms: ms(quantile(ds, 0.99)),
	}
}

// expireLocked drops observations from the front; they are appended in
// time order.
func (l *Latency) expireLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.obs) && l.obs[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		l.obs = slices.Delete(l.obs, 0, i)
	}
}

// quantile linearly interpolates between the two ranks around q in sorted.
func quantile(sorted []time.Duration, q float64) time.Duration {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + time.Duration(math.Round(frac*float64(sorted[lo+1]-sorted[lo])))
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Registry holds one Latency per named operation.
type Registry struct {
	mu     sync.Mutex
	ops    map[string]*Latency
	window time.Duration
}

func NewRegistry(window time.Duration) *Registry {
	return &Registry{ops: make(map[string]*Latency), window: window}
}

func (r *Registry) latency(op string) *Latency {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.ops[op]
	if !ok {
		l = NewLatency(r.window)
		r.ops[op] = l
	}
	return l
}

// Record adds one duration for op.
func (r *Registry) Record(op string, d time.Duration) {
	r.latency(op).Observe(d)
}

// Time starts timing op; call the returned func when it finishes.
func (r *Registry) Time(op string) func() {
	start := time.Now()
	return func() { r.Record(op, time.Since(start)) }
}

// Snapshot aggregates every operation seen so far.
func (r *Registry) Snapshot() map[string]Snapshot {
	r.mu.Lock()
	ops := make(map[string]*Latency, len(r.ops))
	for name, l := range r.ops {
		ops[name] = l
	}
	r.mu.Unlock()

	out := make(map[string]Snapshot, len(ops))
	for name, l := range ops {
		out[name] = l.Snapshot()
	}
	return out
}
