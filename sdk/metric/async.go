package metric

import (
	"context"
	"sync"
	"time"

	"github.com/dartastic/otelcore-go/attribute"
)

// Observable identifies an asynchronous instrument a callback may report
// measurements against via an Observer.
type Observable interface {
	asyncID() int64
}

// Observer is handed to a registered callback; each Observe* call writes
// into a temporary result set that replaces the instrument's stored
// values only if the callback returns without error (spec.md §4.6).
type Observer interface {
	ObserveInt64(obs Int64Observable, value int64, opts ...MeasurementOption)
	ObserveFloat64(obs Float64Observable, value float64, opts ...MeasurementOption)
}

// Callback is invoked once per collection cycle for every asynchronous
// instrument it was registered against.
type Callback func(ctx context.Context, o Observer) error

// Registration is returned by Meter.RegisterCallback; Unregister stops
// the callback from being invoked on subsequent collections.
type Registration interface {
	Unregister() error
}

var asyncIDCounter int64
var asyncIDMu sync.Mutex

func nextAsyncID() int64 {
	asyncIDMu.Lock()
	defer asyncIDMu.Unlock()
	asyncIDCounter++
	return asyncIDCounter
}

// asyncInstrument is the shared implementation behind every typed
// observable instrument handle.
type asyncInstrument struct {
	id          int64
	name        string
	description string
	unit        string
	kind        Kind
	monotonic   bool

	mu     sync.Mutex
	points map[string]DataPoint // last-good observation set, keyed by attribute.Set.Equivalent()
}

func newAsyncInstrument(owner *Meter, name string, kind Kind, monotonic bool, cfg instrumentConfig) *asyncInstrument {
	inst := &asyncInstrument{
		id:          nextAsyncID(),
		name:        name,
		description: cfg.description,
		unit:        cfg.unit,
		kind:        kind,
		monotonic:   monotonic,
		points:      map[string]DataPoint{},
	}
	owner.registerAsyncInstrument(inst)
	return inst
}

func (a *asyncInstrument) asyncID() int64 { return a.id }

// applyObservation writes one observed value into this collection cycle's
// fresh point map; the map replaces the stored values only when the
// callback returns without error (spec.md §4.6).
func (a *asyncInstrument) applyObservation(attrs attribute.Set, value float64, now time.Time, fresh map[int64]map[string]DataPoint) {
	set, ok := fresh[a.id]
	if !ok {
		set = map[string]DataPoint{}
		fresh[a.id] = set
	}
	key := attrs.Equivalent()
	var dp DataPoint
	switch a.kind {
	case SumKind:
		v := value
		dp = DataPoint{Attributes: attrs, Time: now, SumValue: &SumValue{Value: v, IsMonotonic: a.monotonic, Temporality: CumulativeTemporality}}
	case LastValueKind:
		v := value
		dp = DataPoint{Attributes: attrs, Time: now, GaugeValue: &v}
	}
	set[key] = dp
}

func (a *asyncInstrument) commit(points map[string]DataPoint) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.points = points
}

func (a *asyncInstrument) collectScopeMetrics() []Metric {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.points) == 0 {
		return nil
	}
	m := Metric{Name: a.name, Description: a.description, Unit: a.unit}
	for _, dp := range a.points {
		m.DataPoints = append(m.DataPoints, dp)
	}
	return []Metric{m}
}

// Int64Observable is the handle passed to Observer.ObserveInt64.
type Int64Observable struct{ inst *asyncInstrument }

func (o Int64Observable) asyncID() int64 { return o.inst.asyncID() }

// Float64Observable is the handle passed to Observer.ObserveFloat64.
type Float64Observable struct{ inst *asyncInstrument }

func (o Float64Observable) asyncID() int64 { return o.inst.asyncID() }

// callbackRegistration pairs a Callback with the Observables it is
// allowed to report against.
type callbackRegistration struct {
	meter       *Meter
	fn          Callback
	instruments []Observable
}

func (r *callbackRegistration) Unregister() error {
	r.meter.unregisterCallback(r)
	return nil
}

// observerImpl implements Observer for exactly one callback invocation,
// restricting ObserveInt64/ObserveFloat64 to the Observables the
// callback was registered with.
type observerImpl struct {
	allowed map[int64]struct{}
	now     time.Time
	fresh   map[int64]map[string]DataPoint
}

func (o *observerImpl) ObserveInt64(obs Int64Observable, value int64, opts ...MeasurementOption) {
	if _, ok := o.allowed[obs.asyncID()]; !ok {
		return
	}
	cfg := newMeasurementConfig(opts)
	obs.inst.applyObservation(cfg.attrs, float64(value), o.now, o.fresh)
}

func (o *observerImpl) ObserveFloat64(obs Float64Observable, value float64, opts ...MeasurementOption) {
	if _, ok := o.allowed[obs.asyncID()]; !ok {
		return
	}
	cfg := newMeasurementConfig(opts)
	obs.inst.applyObservation(cfg.attrs, value, o.now, o.fresh)
}
