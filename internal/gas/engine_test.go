package gas

import (
	"context"
	"errors"
	"math"
	"testing"
)

func testConfig() Config {
	return Config{
		N:               25,
		Mass:            1.0,
		Radius:          0.2,
		ContainerRadius: 10.0,
		VelocitySigma:   1.5,
		Seed:            42,
	}
}

func TestNewInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero particles", func(c *Config) { c.N = 0 }},
		{"negative mass", func(c *Config) { c.Mass = -1 }},
		{"zero radius", func(c *Config) { c.Radius = 0 }},
		{"container smaller than particle", func(c *Config) { c.ContainerRadius = 0.1 }},
		{"zero sigma", func(c *Config) { c.VelocitySigma = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestInitialiseInvariants(t *testing.T) {
	e, err := New(testConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if err := e.Initialise(); err != nil {
		t.Fatalf("initialise failed: %v", err)
	}
	if err := e.CheckInvariants(); err != nil {
		t.Errorf("invariants violated after initialise: %v", err)
	}
	if err := e.Initialise(); err == nil {
		t.Error("expected error on second initialise")
	}
}

func TestInitialiseInfeasiblePlacement(t *testing.T) {
	cfg := testConfig()
	cfg.N = 500
	cfg.Radius = 1.0
	cfg.ContainerRadius = 3.0

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if err := e.Initialise(); !errors.Is(err, ErrPlacement) {
		t.Errorf("expected ErrPlacement, got %v", err)
	}
}

func TestAdvanceBeforeInitialise(t *testing.T) {
	e, _ := New(testConfig())
	if err := e.AdvanceOneCollision(); !errors.Is(err, ErrNotInitialised) {
		t.Errorf("expected ErrNotInitialised, got %v", err)
	}
}

func TestEnergyConservationOverRun(t *testing.T) {
	e, _ := New(testConfig())
	if err := e.Initialise(); err != nil {
		t.Fatalf("initialise failed: %v", err)
	}

	initial := e.totalKinetic()
	if err := e.Run(context.Background(), 300); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	samples := e.Samples()
	if len(samples) != 300 {
		t.Fatalf("expected 300 samples, got %d", len(samples))
	}
	for i, s := range samples {
		if math.Abs(s.Kinetic-initial) > 1e-9*initial {
			t.Fatalf("energy drifted at collision %d: %g -> %g", i+1, initial, s.Kinetic)
		}
	}
	if err := e.CheckInvariants(); err != nil {
		t.Errorf("invariants violated after run: %v", err)
	}
}

func TestClockMonotone(t *testing.T) {
	e, _ := New(testConfig())
	if err := e.Initialise(); err != nil {
		t.Fatalf("initialise failed: %v", err)
	}

	prev := 0.0
	for i := 0; i < 100; i++ {
		if err := e.AdvanceOneCollision(); err != nil {
			t.Fatalf("advance failed: %v", err)
		}
		if e.Clock() <= prev {
			t.Fatalf("clock not strictly increasing at collision %d: %g <= %g", i, e.Clock(), prev)
		}
		prev = e.Clock()
	}
}

func TestDeterministicRuns(t *testing.T) {
	run := func() []Geometry {
		e, _ := New(testConfig())
		if err := e.Initialise(); err != nil {
			t.Fatalf("initialise failed: %v", err)
		}
		if err := e.Run(context.Background(), 100); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		_, ps := e.Snapshot()
		return ps
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed diverged at particle %d", i)
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	run := func(workers int) []Geometry {
		cfg := testConfig()
		cfg.Workers = workers
		e, _ := New(cfg)
		if err := e.Initialise(); err != nil {
			t.Fatalf("initialise failed: %v", err)
		}
		if err := e.Run(context.Background(), 100); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		_, ps := e.Snapshot()
		return ps
	}

	serial, parallel := run(1), run(4)
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("parallel sweep diverged from serial at particle %d", i)
		}
	}
}

func TestWallPressureSingleParticle(t *testing.T) {
	cfg := testConfig()
	cfg.N = 1
	cfg.Mass = 2.0
	cfg.Radius = 1.0

	e, _ := New(cfg)
	e.state = stateReady
	e.particles[0].Pos = Vec2{}
	e.particles[0].Vel = Vec2{3, 0}

	if err := e.AdvanceOneCollision(); err != nil {
		t.Fatalf("advance failed: %v", err)
	}

	// Wall at distance 10-1=9, speed 3: contact at t=3 with impulse
	// 2*m*v = 12.
	if math.Abs(e.Clock()-3) > 1e-12 {
		t.Errorf("expected clock 3, got %g", e.Clock())
	}
	if math.Abs(e.particles[0].Vel.X+3) > 1e-12 {
		t.Errorf("expected reflected velocity -3, got %g", e.particles[0].Vel.X)
	}
	expected := 12.0 / (3 * 2 * math.Pi * 10)
	if math.Abs(e.Pressure()-expected) > 1e-12 {
		t.Errorf("expected pressure %g, got %g", expected, e.Pressure())
	}

	d := e.Diagnostics()
	if d.WallCollisions != 1 || d.Collisions != 1 {
		t.Errorf("expected 1 wall collision, got %+v", d)
	}
}

func TestFinishedState(t *testing.T) {
	e, _ := New(testConfig())
	e.state = stateReady // all particles at rest at the origin region

	if err := e.AdvanceOneCollision(); err != nil {
		t.Fatalf("expected clean transition to finished, got %v", err)
	}
	if !e.Finished() {
		t.Fatal("expected finished state when no collision is reachable")
	}
	if err := e.AdvanceOneCollision(); !errors.Is(err, ErrFinished) {
		t.Errorf("expected ErrFinished, got %v", err)
	}
	if err := e.Run(context.Background(), 10); err != nil {
		t.Errorf("run on finished engine should be a no-op, got %v", err)
	}
}

func TestSnapshotIdempotent(t *testing.T) {
	e, _ := New(testConfig())
	if err := e.Initialise(); err != nil {
		t.Fatalf("initialise failed: %v", err)
	}
	if err := e.Run(context.Background(), 10); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	c1, p1 := e.Snapshot()
	c2, p2 := e.Snapshot()

	if c1 != c2 {
		t.Error("container geometry changed between snapshots")
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("particle %d geometry changed between snapshots", i)
		}
	}

	// Mutating the returned slice must not leak into the engine.
	p1[0].Center = Vec2{999, 999}
	_, p3 := e.Snapshot()
	if p3[0] == p1[0] {
		t.Error("snapshot must be a copy")
	}
}

func TestRunContextCancel(t *testing.T) {
	e, _ := New(testConfig())
	if err := e.Initialise(); err != nil {
		t.Fatalf("initialise failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx, 100); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type countingObserver struct {
	collisions int
	wall       int
}

func (o *countingObserver) OnCollision(s Sample) {
	o.collisions++
	if s.Wall {
		o.wall++
	}
}

func TestObserverNotified(t *testing.T) {
	e, _ := New(testConfig())
	obs := &countingObserver{}
	e.AddObserver(obs)

	if err := e.Initialise(); err != nil {
		t.Fatalf("initialise failed: %v", err)
	}
	if err := e.Run(context.Background(), 50); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if obs.collisions != 50 {
		t.Errorf("expected 50 notifications, got %d", obs.collisions)
	}
	d := e.Diagnostics()
	if obs.wall != d.WallCollisions {
		t.Errorf("observer saw %d wall hits, diagnostics report %d", obs.wall, d.WallCollisions)
	}
}
