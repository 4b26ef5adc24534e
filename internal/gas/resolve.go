package gas

import "math"

// Resolve applies the 2D elastic collision law to two discs in
// contact, mutating both velocities in place. Each velocity is split
// into components along the line of centers (normal) and perpendicular
// to it (tangential); the tangential components pass through unchanged
// and the normal components exchange per the 1D elastic formula.
// Positions are untouched: callers invoke this only at the instant the
// surfaces meet.
func Resolve(a, b *Particle) error {
	n := a.Pos.Sub(b.Pos)
	dist := n.Norm()
	if dist == 0 {
		return ErrDegenerateGeometry
	}
	n = n.Scale(1 / dist)
	t := n.Perp()

	van, vat := a.Vel.Dot(n), a.Vel.Dot(t)
	vbn, vbt := b.Vel.Dot(n), b.Vel.Dot(t)

	ma, mb := a.Mass, b.Mass
	vanAfter := (van*(ma-mb) + 2*mb*vbn) / (ma + mb)
	vbnAfter := (vbn*(mb-ma) + 2*ma*van) / (ma + mb)

	a.Vel = n.Scale(vanAfter).Add(t.Scale(vat))
	b.Vel = n.Scale(vbnAfter).Add(t.Scale(vbt))
	return nil
}

// ResolveWall reflects the particle's normal velocity component off
// the container boundary and returns the impulse magnitude transferred
// to the wall (2*m*|v_n|). The container is infinite-mass in effect:
// the explicit reflection keeps its velocity untouched and conserves
// the particle's speed exactly, where a huge-mass literal in the pair
// formula would only approximate both.
func ResolveWall(p, container *Particle) (float64, error) {
	n := p.Pos.Sub(container.Pos)
	dist := n.Norm()
	if dist == 0 {
		return 0, ErrDegenerateGeometry
	}
	n = n.Scale(1 / dist)
	t := n.Perp()

	vn, vt := p.Vel.Dot(n), p.Vel.Dot(t)
	p.Vel = n.Scale(-vn).Add(t.Scale(vt))
	return 2 * p.Mass * math.Abs(vn), nil
}
