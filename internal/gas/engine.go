package gas

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

// maxPlacementAttempts bounds the reject-and-resample loop per
// particle before the configuration is reported infeasible.
const maxPlacementAttempts = 1000

// Config holds the externally supplied simulation parameters.
type Config struct {
	N               int     // particle count
	Mass            float64 // per-particle mass
	Radius          float64 // per-particle radius
	ContainerRadius float64 // bounding radius magnitude; stored negated on the container
	VelocitySigma   float64 // per-axis stddev of the initial Gaussian velocities
	Seed            int64   // seed for the injected random source
	Workers         int     // pair-sweep workers; <=1 runs serially
}

func (c Config) validate() error {
	if c.N <= 0 {
		return fmt.Errorf("%w: particle count %d, want > 0", ErrInvalidConfig, c.N)
	}
	if c.Mass <= 0 {
		return fmt.Errorf("%w: mass %g, want > 0", ErrInvalidConfig, c.Mass)
	}
	if c.Radius <= 0 {
		return fmt.Errorf("%w: radius %g, want > 0", ErrInvalidConfig, c.Radius)
	}
	if c.ContainerRadius <= c.Radius {
		return fmt.Errorf("%w: container radius %g must exceed particle radius %g",
			ErrInvalidConfig, c.ContainerRadius, c.Radius)
	}
	if c.VelocitySigma <= 0 {
		return fmt.Errorf("%w: velocity sigma %g, want > 0", ErrInvalidConfig, c.VelocitySigma)
	}
	return nil
}

// Sample is the per-collision diagnostic record: total kinetic energy
// and momentum immediately after resolution, for invariant
// verification and pressure tracking.
type Sample struct {
	Clock    float64 `json:"clock"`
	Kinetic  float64 `json:"kinetic_energy"`
	Momentum Vec2    `json:"momentum"`
	Pressure float64 `json:"pressure"`
	Wall     bool    `json:"wall"`
}

// Metric accumulates a scalar over per-collision samples.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Observer is notified after every resolved collision.
type Observer interface {
	OnCollision(s Sample)
}

// Geometry is a positioned disc for rendering. The radius keeps the
// signed convention: positive for particles, negative for the
// container outline.
type Geometry struct {
	Center Vec2
	Radius float64
}

// Diagnostics summarizes the engine's global observables.
type Diagnostics struct {
	Clock          float64
	KineticEnergy  float64
	Momentum       Vec2
	Pressure       float64
	Collisions     int
	WallCollisions int
}

type runState int

const (
	stateUninitialized runState = iota
	stateReady
	stateStepping
	stateFinished
)

// event identifies the pending collision of one sweep: the pair index
// is the position in the fixed sweep order and doubles as the
// deterministic tie-break key. j < 0 means the container.
type event struct {
	dt   float64
	i, j int
	pair int
}

// Engine owns the particle population and the container and drives the
// event-driven simulation clock: find the globally earliest collision,
// advance every particle to that instant, resolve the pair, repeat.
type Engine struct {
	cfg            Config
	particles      []*Particle
	container      Particle
	clock          float64
	wallImpulse    float64
	collisions     int
	wallCollisions int
	state          runState
	rng            *rand.Rand
	samples        []Sample
	metrics        []Metric
	observers      []Observer
}

// New validates the configuration and builds an uninitialised engine.
// Particles start at the origin with zero velocity until Initialise
// places them.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:       cfg,
		container: Particle{Mass: math.Inf(1), Radius: -cfg.ContainerRadius},
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		particles: make([]*Particle, cfg.N),
	}
	for i := range e.particles {
		e.particles[i] = &Particle{Mass: cfg.Mass, Radius: cfg.Radius}
	}
	return e, nil
}

func (e *Engine) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// Initialise places every particle uniformly inside the container,
// keeping the particle radius as margin, and draws per-axis Gaussian
// velocities from the injected seeded source. Placements overlapping
// an already accepted particle are rejected and resampled up to
// maxPlacementAttempts times each.
func (e *Engine) Initialise() error {
	if e.state != stateUninitialized {
		return fmt.Errorf("%w: initialise called twice", ErrInvalidConfig)
	}

	bound := e.cfg.ContainerRadius - e.cfg.Radius
	for i, p := range e.particles {
		placed := false
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			// sqrt keeps the distribution uniform over the disc area
			r := bound * math.Sqrt(e.rng.Float64())
			theta := 2 * math.Pi * e.rng.Float64()
			p.Pos = Vec2{r * math.Cos(theta), r * math.Sin(theta)}
			if e.overlapsPlaced(i) {
				continue
			}
			placed = true
			break
		}
		if !placed {
			return fmt.Errorf("%w: %d discs of radius %g in container of radius %g",
				ErrPlacement, e.cfg.N, e.cfg.Radius, e.cfg.ContainerRadius)
		}
		p.Vel = Vec2{
			e.rng.NormFloat64() * e.cfg.VelocitySigma,
			e.rng.NormFloat64() * e.cfg.VelocitySigma,
		}
	}

	e.state = stateReady
	return nil
}

func (e *Engine) overlapsPlaced(i int) bool {
	for j := 0; j < i; j++ {
		if e.particles[i].Overlaps(e.particles[j]) {
			return true
		}
	}
	return false
}

// AdvanceOneCollision finds the globally earliest pending collision,
// advances every particle to that shared instant, resolves the pair
// and records a diagnostic sample. If no pair reports a future
// collision the engine transitions to the terminal finished state,
// which is not an error.
func (e *Engine) AdvanceOneCollision() error {
	switch e.state {
	case stateUninitialized:
		return ErrNotInitialised
	case stateFinished:
		return ErrFinished
	}

	ev, ok := e.nextCollision()
	if !ok {
		e.state = stateFinished
		return nil
	}

	// Every particle moves, not just the colliding pair: all geometric
	// state must be consistent at the collision instant.
	for _, p := range e.particles {
		p.Move(ev.dt)
	}
	e.clock += ev.dt
	e.collisions++

	var err error
	wall := ev.j < 0
	if wall {
		var impulse float64
		impulse, err = ResolveWall(e.particles[ev.i], &e.container)
		if err == nil {
			e.wallImpulse += impulse
			e.wallCollisions++
		}
	} else {
		err = Resolve(e.particles[ev.i], e.particles[ev.j])
	}
	if err == nil && !e.stateValid() {
		err = ErrInvalidState
	}
	if err != nil {
		e.state = stateFinished
		return &StepError{Collision: e.collisions, Clock: e.clock, Wrapped: err}
	}

	s := Sample{
		Clock:    e.clock,
		Kinetic:  e.totalKinetic(),
		Momentum: e.totalMomentum(),
		Pressure: e.Pressure(),
		Wall:     wall,
	}
	e.samples = append(e.samples, s)
	for _, m := range e.metrics {
		m.Observe(s)
	}
	for _, o := range e.observers {
		o.OnCollision(s)
	}

	e.state = stateStepping
	return nil
}

// Run resolves up to steps collisions, stopping early when the engine
// reaches the terminal finished state or the context is canceled.
func (e *Engine) Run(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("%w: steps %d, want > 0", ErrInvalidConfig, steps)
	}
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if e.state == stateFinished {
			return nil
		}
		if err := e.AdvanceOneCollision(); err != nil {
			return err
		}
	}
	return nil
}

// nextCollision scans every particle-particle and particle-container
// pair and returns the earliest predicted event.
func (e *Engine) nextCollision() (event, bool) {
	if e.cfg.Workers > 1 {
		return e.nextCollisionParallel()
	}
	return e.sweep(0, e.pairCount())
}

func (e *Engine) pairCount() int {
	n := len(e.particles)
	return n + n*(n-1)/2
}

// pairAt maps a flat sweep index to a pair: the first n indices pair
// each particle with the container, the remainder enumerate i<j in
// lexicographic order.
func (e *Engine) pairAt(k int) (int, int) {
	n := len(e.particles)
	if k < n {
		return k, -1
	}
	k -= n
	for i := 0; i < n; i++ {
		rest := n - i - 1
		if k < rest {
			return i, i + 1 + k
		}
		k -= rest
	}
	return -1, -1
}

// sweep scans pair indices [lo, hi) in order. The strict comparison
// makes the lowest pair index win exact ties, which keeps resolution
// order deterministic in both the serial and parallel paths.
func (e *Engine) sweep(lo, hi int) (event, bool) {
	best := event{dt: math.Inf(1)}
	found := false
	for k := lo; k < hi; k++ {
		i, j := e.pairAt(k)
		other := &e.container
		if j >= 0 {
			other = e.particles[j]
		}
		t, ok := TimeToCollision(e.particles[i], other)
		if !ok || t >= best.dt {
			continue
		}
		best = event{dt: t, i: i, j: j, pair: k}
		found = true
	}
	return best, found
}

func (e *Engine) stateValid() bool {
	for _, p := range e.particles {
		if !p.Pos.IsValid() || !p.Vel.IsValid() {
			return false
		}
	}
	return true
}

func (e *Engine) totalKinetic() float64 {
	sum := 0.0
	for _, p := range e.particles {
		sum += p.KineticEnergy()
	}
	return sum
}

func (e *Engine) totalMomentum() Vec2 {
	var sum Vec2
	for _, p := range e.particles {
		sum = sum.Add(p.Momentum())
	}
	return sum
}

// Clock returns the simulation time, advanced only by confirmed
// collision times.
func (e *Engine) Clock() float64 { return e.clock }

// Finished reports whether the terminal no-further-collisions state
// was reached.
func (e *Engine) Finished() bool { return e.state == stateFinished }

// Pressure derives the wall pressure from the accumulated normal
// impulse: impulse per unit time per unit container perimeter. Zero
// until the clock has advanced.
func (e *Engine) Pressure() float64 {
	if e.clock == 0 {
		return 0
	}
	perimeter := 2 * math.Pi * e.cfg.ContainerRadius
	return e.wallImpulse / (e.clock * perimeter)
}

// Snapshot returns the container and particle geometry for rendering.
// The particle slice is a copy; consumers cannot mutate engine state
// through it.
func (e *Engine) Snapshot() (Geometry, []Geometry) {
	ps := make([]Geometry, len(e.particles))
	for i, p := range e.particles {
		ps[i] = Geometry{Center: p.Pos, Radius: p.Radius}
	}
	return Geometry{Center: e.container.Pos, Radius: e.container.Radius}, ps
}

// Diagnostics returns the current global observables.
func (e *Engine) Diagnostics() Diagnostics {
	return Diagnostics{
		Clock:          e.clock,
		KineticEnergy:  e.totalKinetic(),
		Momentum:       e.totalMomentum(),
		Pressure:       e.Pressure(),
		Collisions:     e.collisions,
		WallCollisions: e.wallCollisions,
	}
}

// Samples returns a copy of the per-collision diagnostic records.
func (e *Engine) Samples() []Sample {
	out := make([]Sample, len(e.samples))
	copy(out, e.samples)
	return out
}

// CheckInvariants verifies non-penetration: every disc inside the
// container and pairwise separated. A violation indicates a scheduling
// or precision failure, not a recoverable condition.
func (e *Engine) CheckInvariants() error {
	const tol = 1e-9
	for i, p := range e.particles {
		if p.Pos.Sub(e.container.Pos).Norm() > e.cfg.ContainerRadius-p.Radius+tol {
			return fmt.Errorf("%w: particle %d outside container", ErrInvalidState, i)
		}
		for j := i + 1; j < len(e.particles); j++ {
			q := e.particles[j]
			if p.Pos.Sub(q.Pos).Norm() < p.Radius+q.Radius-tol {
				return fmt.Errorf("%w: particles %d and %d overlap", ErrInvalidState, i, j)
			}
		}
	}
	return nil
}
