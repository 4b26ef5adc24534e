package gas

// Particle is a disc moving ballistically between collisions. A
// positive radius marks a gas particle; the container carries a
// negative radius whose magnitude is the bounding radius.
type Particle struct {
	Mass   float64
	Radius float64
	Pos    Vec2
	Vel    Vec2
}

// Move advances the position by Vel*dt. No forces act between
// collisions, so this is pure linear extrapolation.
func (p *Particle) Move(dt float64) {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
}

func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Vel.NormSquared()
}

func (p *Particle) Momentum() Vec2 {
	return p.Vel.Scale(p.Mass)
}

// Overlaps reports strict interpenetration with another disc. It is a
// placement and diagnostic guard only; correctly scheduled collisions
// never let two discs interpenetrate during stepping.
func (p *Particle) Overlaps(o *Particle) bool {
	return p.Pos.Sub(o.Pos).Norm() < p.Radius+o.Radius
}
