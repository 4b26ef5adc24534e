package gas

import "math"

// timeEpsilon is the threshold below which a predicted contact is
// discarded. A pair resolved at the current instant still touches
// exactly, so the quadratic yields a root at t~0; accepting it would
// re-trigger the same collision forever.
const timeEpsilon = 1e-9

// TimeToCollision returns the earliest future instant at which the
// surfaces of a and b touch, and whether such an instant exists on the
// current trajectories. The combined radius keeps its sign: a positive
// sum expresses disc-disc contact, while pairing a disc with the
// negative-radius container expresses contact with the inside of the
// wall. Roots in the past or within timeEpsilon are rejected.
func TimeToCollision(a, b *Particle) (float64, bool) {
	dr := a.Pos.Sub(b.Pos)
	dv := a.Vel.Sub(b.Vel)
	sum := a.Radius + b.Radius

	qa := dv.NormSquared()
	if qa == 0 {
		// No relative motion, no contact ever.
		return 0, false
	}
	qb := 2 * dr.Dot(dv)
	qc := dr.NormSquared() - sum*sum

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return 0, false
	}

	sq := math.Sqrt(disc)
	if t := (-qb - sq) / (2 * qa); t > timeEpsilon {
		return t, true
	}
	if t := (-qb + sq) / (2 * qa); t > timeEpsilon {
		return t, true
	}
	return 0, false
}
