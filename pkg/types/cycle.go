package types

import "encoding/json"

// Region tags attached to resolved state points.
const (
	RegionSinglePhase      = "single-phase"
	RegionSaturatedLiquid  = "saturated-liquid"
	RegionSaturatedVapor   = "saturated-vapor"
	RegionSaturatedMixture = "saturated-mixture"
	RegionCompressedLiquid = "compressed-liquid-approx"
	RegionSuperheated      = "superheated"
	RegionFallbackPT       = "fallback-PT"
)

// StatePoint is one resolved thermodynamic state of a cycle.
type StatePoint struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	T      float64  `json:"T"`
	P      float64  `json:"P"`
	H      float64  `json:"h"`
	S      float64  `json:"s"`
	U      *float64 `json:"u,omitempty"`
	V      *float64 `json:"v,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Region string   `json:"region,omitempty"`
}

// Quality returns the vapor quality and whether it is known.
func (p StatePoint) Quality() (float64, bool) {
	if p.X == nil || !IsFinite(*p.X) {
		return 0, false
	}
	return *p.X, true
}

// MarshalJSON writes non-finite T, P, h, and s as null.
func (p StatePoint) MarshalJSON() ([]byte, error) {
	type plain StatePoint
	return json.Marshal(struct {
		plain
		T *float64 `json:"T"`
		P *float64 `json:"P"`
		H *float64 `json:"h"`
		S *float64 `json:"s"`
	}{plain(p), finitePtr(p.T), finitePtr(p.P), finitePtr(p.H), finitePtr(p.S)})
}

func finitePtr(v float64) *float64 {
	if !IsFinite(v) {
		return nil
	}
	return &v
}

// Metric is one computed cycle metric.
type Metric struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Unit  string  `json:"unit,omitempty"`
	Value float64 `json:"value"`
}

// MarshalJSON writes a non-finite value as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	type plain Metric
	return json.Marshal(struct {
		plain
		Value *float64 `json:"value"`
	}{plain(m), finitePtr(m.Value)})
}

// Cycle is the result of evaluating a cycle template. Each build produces a
// new Cycle with its own ID.
type Cycle struct {
	ID       string             `json:"id"`
	Template string             `json:"template"`
	Label    string             `json:"label"`
	Fluid    string             `json:"fluid"`
	Inputs   map[string]float64 `json:"inputs"`
	Points   []StatePoint       `json:"points"`
	Metrics  []Metric           `json:"metrics"`
	Warnings []string           `json:"warnings"`
}

// Metric returns the value of the metric with the given key and whether it
// exists with a finite value.
func (c *Cycle) Metric(key string) (float64, bool) {
	for _, m := range c.Metrics {
		if m.Key == key {
			return m.Value, IsFinite(m.Value)
		}
	}
	return 0, false
}

// MetricValues returns the finite metrics keyed by metric key.
func (c *Cycle) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(c.Metrics))
	for _, m := range c.Metrics {
		if IsFinite(m.Value) {
			out[m.Key] = m.Value
		}
	}
	return out
}

// Point returns the state point with the given ID.
func (c *Cycle) Point(id string) (StatePoint, bool) {
	for _, p := range c.Points {
		if p.ID == id {
			return p, true
		}
	}
	return StatePoint{}, false
}
