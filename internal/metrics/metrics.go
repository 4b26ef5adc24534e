// Package metrics provides run-level diagnostics computed from the
// engine's per-collision samples.
package metrics

import (
	"math"

	"github.com/nzakhir/brownian-motion-simulation/internal/gas"
)

// EnergyDrift tracks the maximum relative drift of total kinetic
// energy over a run. For perfectly elastic collisions this should stay
// at numerical-noise level; anything larger flags broken physics.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(s gas.Sample) {
	if e.samples == 0 {
		e.initial = s.Kinetic
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(s.Kinetic-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// MeanPressure averages the running pressure estimate across samples.
type MeanPressure struct {
	total   float64
	samples int
}

func NewMeanPressure() *MeanPressure { return &MeanPressure{} }

func (m *MeanPressure) Name() string { return "mean_pressure" }

func (m *MeanPressure) Observe(s gas.Sample) {
	m.total += s.Pressure
	m.samples++
}

func (m *MeanPressure) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanPressure) Reset() {
	m.total = 0
	m.samples = 0
}

// WallRate reports wall collisions per unit of simulation time.
type WallRate struct {
	wall  int
	clock float64
}

func NewWallRate() *WallRate { return &WallRate{} }

func (w *WallRate) Name() string { return "wall_rate" }

func (w *WallRate) Observe(s gas.Sample) {
	if s.Wall {
		w.wall++
	}
	w.clock = s.Clock
}

func (w *WallRate) Value() float64 {
	if w.clock == 0 {
		return 0
	}
	return float64(w.wall) / w.clock
}

func (w *WallRate) Reset() {
	w.wall = 0
	w.clock = 0
}
