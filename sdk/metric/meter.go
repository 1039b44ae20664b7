package metric

import (
	"context"
	"sync"
	"time"

	ilog "github.com/dartastic/otelcore-go/internal/log"
	"github.com/dartastic/otelcore-go/sdk/instrumentation"
)

// Meter is the entry point for creating instruments under one
// instrumentation scope (spec.md §4.6).
type Meter struct {
	scope            instrumentation.Scope
	views            []View
	cardinalityLimit int

	mu               sync.Mutex
	syncInstruments  []*syncInstrument
	asyncInstruments map[int64]*asyncInstrument
	callbacks        []*callbackRegistration
}

func newMeter(scope instrumentation.Scope, views []View, cardinalityLimit int) *Meter {
	return &Meter{
		scope:            scope,
		views:            views,
		cardinalityLimit: cardinalityLimit,
		asyncInstruments: map[int64]*asyncInstrument{},
	}
}

func (m *Meter) registerSyncInstrument(i *syncInstrument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncInstruments = append(m.syncInstruments, i)
}

func (m *Meter) registerAsyncInstrument(i *asyncInstrument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asyncInstruments[i.id] = i
}

func (m *Meter) unregisterCallback(target *callbackRegistration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for idx, cb := range m.callbacks {
		if cb == target {
			m.callbacks = append(m.callbacks[:idx], m.callbacks[idx+1:]...)
			return
		}
	}
}

// RegisterCallback registers fn to be invoked once per collection cycle
// for every Observable listed in instruments.
func (m *Meter) RegisterCallback(fn Callback, instruments ...Observable) (Registration, error) {
	reg := &callbackRegistration{meter: m, fn: fn, instruments: instruments}
	m.mu.Lock()
	m.callbacks = append(m.callbacks, reg)
	m.mu.Unlock()
	return reg, nil
}

// Int64Counter creates a new monotonic Sum instrument recording int64
// values.
func (m *Meter) Int64Counter(name string, opts ...InstrumentOption) (Int64Counter, error) {
	return Int64Counter{inst: newSyncInstrument(m, name, SumKind, true, newInstrumentConfig(opts))}, nil
}

// Float64Counter creates a new monotonic Sum instrument recording
// float64 values.
func (m *Meter) Float64Counter(name string, opts ...InstrumentOption) (Float64Counter, error) {
	return Float64Counter{inst: newSyncInstrument(m, name, SumKind, true, newInstrumentConfig(opts))}, nil
}

// Int64UpDownCounter creates a new non-monotonic Sum instrument.
func (m *Meter) Int64UpDownCounter(name string, opts ...InstrumentOption) (Int64UpDownCounter, error) {
	return Int64UpDownCounter{inst: newSyncInstrument(m, name, SumKind, false, newInstrumentConfig(opts))}, nil
}

// Float64UpDownCounter creates a new non-monotonic Sum instrument.
func (m *Meter) Float64UpDownCounter(name string, opts ...InstrumentOption) (Float64UpDownCounter, error) {
	return Float64UpDownCounter{inst: newSyncInstrument(m, name, SumKind, false, newInstrumentConfig(opts))}, nil
}

// Int64Histogram creates a new ExplicitBucketHistogram instrument.
func (m *Meter) Int64Histogram(name string, opts ...InstrumentOption) (Int64Histogram, error) {
	return Int64Histogram{inst: newSyncInstrument(m, name, ExplicitBucketHistogramKind, false, newInstrumentConfig(opts))}, nil
}

// Float64Histogram creates a new ExplicitBucketHistogram instrument.
func (m *Meter) Float64Histogram(name string, opts ...InstrumentOption) (Float64Histogram, error) {
	return Float64Histogram{inst: newSyncInstrument(m, name, ExplicitBucketHistogramKind, false, newInstrumentConfig(opts))}, nil
}

// Int64Gauge creates a new synchronous LastValue instrument.
func (m *Meter) Int64Gauge(name string, opts ...InstrumentOption) (Int64Gauge, error) {
	return Int64Gauge{inst: newSyncInstrument(m, name, LastValueKind, false, newInstrumentConfig(opts))}, nil
}

// Float64Gauge creates a new synchronous LastValue instrument.
func (m *Meter) Float64Gauge(name string, opts ...InstrumentOption) (Float64Gauge, error) {
	return Float64Gauge{inst: newSyncInstrument(m, name, LastValueKind, false, newInstrumentConfig(opts))}, nil
}

// Int64ObservableCounter creates an asynchronous monotonic Sum
// instrument; values are reported from a registered Callback.
func (m *Meter) Int64ObservableCounter(name string, opts ...InstrumentOption) (Int64Observable, error) {
	inst := newAsyncInstrument(m, name, SumKind, true, newInstrumentConfig(opts))
	return Int64Observable{inst: inst}, nil
}

// Float64ObservableCounter creates an asynchronous monotonic Sum
// instrument; values are reported from a registered Callback.
func (m *Meter) Float64ObservableCounter(name string, opts ...InstrumentOption) (Float64Observable, error) {
	inst := newAsyncInstrument(m, name, SumKind, true, newInstrumentConfig(opts))
	return Float64Observable{inst: inst}, nil
}

// Int64ObservableUpDownCounter creates an asynchronous non-monotonic Sum
// instrument; values are reported from a registered Callback.
func (m *Meter) Int64ObservableUpDownCounter(name string, opts ...InstrumentOption) (Int64Observable, error) {
	inst := newAsyncInstrument(m, name, SumKind, false, newInstrumentConfig(opts))
	return Int64Observable{inst: inst}, nil
}

// Float64ObservableUpDownCounter creates an asynchronous non-monotonic
// Sum instrument; values are reported from a registered Callback.
func (m *Meter) Float64ObservableUpDownCounter(name string, opts ...InstrumentOption) (Float64Observable, error) {
	inst := newAsyncInstrument(m, name, SumKind, false, newInstrumentConfig(opts))
	return Float64Observable{inst: inst}, nil
}

// Int64ObservableGauge creates an asynchronous LastValue instrument.
func (m *Meter) Int64ObservableGauge(name string, opts ...InstrumentOption) (Int64Observable, error) {
	inst := newAsyncInstrument(m, name, LastValueKind, false, newInstrumentConfig(opts))
	return Int64Observable{inst: inst}, nil
}

// Float64ObservableGauge creates an asynchronous LastValue instrument.
func (m *Meter) Float64ObservableGauge(name string, opts ...InstrumentOption) (Float64Observable, error) {
	inst := newAsyncInstrument(m, name, LastValueKind, false, newInstrumentConfig(opts))
	return Float64Observable{inst: inst}, nil
}

// collect runs every registered callback, then materializes every
// instrument's current point set into a ScopeMetrics (spec.md §4.6).
func (m *Meter) collect(ctx context.Context, start, now time.Time, temporality Temporality) ScopeMetrics {
	m.mu.Lock()
	callbacks := append([]*callbackRegistration(nil), m.callbacks...)
	syncInstruments := append([]*syncInstrument(nil), m.syncInstruments...)
	asyncInstruments := make([]*asyncInstrument, 0, len(m.asyncInstruments))
	for _, a := range m.asyncInstruments {
		asyncInstruments = append(asyncInstruments, a)
	}
	m.mu.Unlock()

	for _, cb := range callbacks {
		allowed := make(map[int64]struct{}, len(cb.instruments))
		for _, obs := range cb.instruments {
			allowed[obs.asyncID()] = struct{}{}
		}
		fresh := map[int64]map[string]DataPoint{}
		obs := &observerImpl{allowed: allowed, now: now, fresh: fresh}
		if err := cb.fn(ctx, obs); err != nil {
			ilog.Error("metric: observable callback failed: %v", err)
			continue
		}
		for id, points := range fresh {
			if inst, ok := m.asyncInstrumentByID(id); ok {
				inst.commit(points)
			}
		}
	}

	sm := ScopeMetrics{Scope: m.scope}
	for _, inst := range syncInstruments {
		sm.Metrics = append(sm.Metrics, inst.collectScopeMetrics(start, now, temporality)...)
	}
	for _, inst := range asyncInstruments {
		sm.Metrics = append(sm.Metrics, inst.collectScopeMetrics()...)
	}
	return sm
}

func (m *Meter) asyncInstrumentByID(id int64) (*asyncInstrument, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.asyncInstruments[id]
	return inst, ok
}
