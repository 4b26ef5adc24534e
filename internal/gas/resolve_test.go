package gas

import (
	"errors"
	"math"
	"testing"
)

func TestResolveEqualMassHeadOn(t *testing.T) {
	// Equal masses on a head-on line exchange normal velocities.
	a := &Particle{Mass: 1, Radius: 1, Pos: Vec2{-1, 0}, Vel: Vec2{1, 0}}
	b := &Particle{Mass: 1, Radius: 1, Pos: Vec2{1, 0}, Vel: Vec2{-1, 0}}

	if err := Resolve(a, b); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if math.Abs(a.Vel.X+1) > 1e-12 || math.Abs(a.Vel.Y) > 1e-12 {
		t.Errorf("expected a velocity (-1, 0), got (%g, %g)", a.Vel.X, a.Vel.Y)
	}
	if math.Abs(b.Vel.X-1) > 1e-12 || math.Abs(b.Vel.Y) > 1e-12 {
		t.Errorf("expected b velocity (1, 0), got (%g, %g)", b.Vel.X, b.Vel.Y)
	}
}

func TestResolveConservation(t *testing.T) {
	// Oblique contact, unequal masses: kinetic energy and total
	// momentum of the pair must survive the exchange.
	a := &Particle{Mass: 2, Radius: 0.7, Pos: Vec2{0, 0}, Vel: Vec2{1.5, 0.5}}
	b := &Particle{Mass: 3, Radius: 0.8, Pos: Vec2{1.2, 0.9}, Vel: Vec2{-0.3, -1.1}}

	keBefore := a.KineticEnergy() + b.KineticEnergy()
	pBefore := a.Momentum().Add(b.Momentum())

	if err := Resolve(a, b); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	keAfter := a.KineticEnergy() + b.KineticEnergy()
	pAfter := a.Momentum().Add(b.Momentum())

	if math.Abs(keAfter-keBefore) > 1e-9*keBefore {
		t.Errorf("kinetic energy not conserved: %g -> %g", keBefore, keAfter)
	}
	if pAfter.Sub(pBefore).Norm() > 1e-9 {
		t.Errorf("momentum not conserved: (%g, %g) -> (%g, %g)",
			pBefore.X, pBefore.Y, pAfter.X, pAfter.Y)
	}
}

func TestResolveTangentialUnchanged(t *testing.T) {
	// Contact along x: the y components are tangential and must pass
	// through untouched.
	a := &Particle{Mass: 1, Radius: 1, Pos: Vec2{-1, 0}, Vel: Vec2{2, 0.7}}
	b := &Particle{Mass: 1, Radius: 1, Pos: Vec2{1, 0}, Vel: Vec2{-2, -0.3}}

	if err := Resolve(a, b); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if math.Abs(a.Vel.Y-0.7) > 1e-12 {
		t.Errorf("tangential component of a changed: %g", a.Vel.Y)
	}
	if math.Abs(b.Vel.Y+0.3) > 1e-12 {
		t.Errorf("tangential component of b changed: %g", b.Vel.Y)
	}
}

func TestResolveDegenerate(t *testing.T) {
	a := &Particle{Mass: 1, Radius: 1, Pos: Vec2{1, 1}}
	b := &Particle{Mass: 1, Radius: 1, Pos: Vec2{1, 1}}

	if err := Resolve(a, b); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("expected ErrDegenerateGeometry, got %v", err)
	}
}

func TestResolveWallRadial(t *testing.T) {
	container := &Particle{Radius: -10}
	p := &Particle{Mass: 1.5, Radius: 1, Pos: Vec2{9, 0}, Vel: Vec2{2, 0}}

	impulse, err := ResolveWall(p, container)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if math.Abs(p.Vel.X+2) > 1e-12 || math.Abs(p.Vel.Y) > 1e-12 {
		t.Errorf("expected velocity (-2, 0), got (%g, %g)", p.Vel.X, p.Vel.Y)
	}
	if math.Abs(impulse-6) > 1e-12 {
		t.Errorf("expected impulse 2*m*v = 6, got %g", impulse)
	}
}

func TestResolveWallOblique(t *testing.T) {
	// Contact at the top of the container: y is normal, x tangential.
	container := &Particle{Radius: -10}
	p := &Particle{Mass: 1, Radius: 1, Pos: Vec2{0, 9}, Vel: Vec2{1, 2}}

	speedBefore := p.Vel.Norm()
	impulse, err := ResolveWall(p, container)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if math.Abs(p.Vel.X-1) > 1e-12 || math.Abs(p.Vel.Y+2) > 1e-12 {
		t.Errorf("expected velocity (1, -2), got (%g, %g)", p.Vel.X, p.Vel.Y)
	}
	if math.Abs(p.Vel.Norm()-speedBefore) > 1e-12 {
		t.Error("wall reflection must preserve speed")
	}
	if math.Abs(impulse-4) > 1e-12 {
		t.Errorf("expected impulse 4, got %g", impulse)
	}
}

func TestResolveWallDegenerate(t *testing.T) {
	container := &Particle{Radius: -10}
	p := &Particle{Mass: 1, Radius: 1}

	if _, err := ResolveWall(p, container); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("expected ErrDegenerateGeometry, got %v", err)
	}
}
