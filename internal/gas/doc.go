// Package gas implements an event-driven hard-disc gas simulation.
//
// Circular particles move ballistically inside a circular container,
// colliding elastically with each other and with the wall:
//
//   - [Particle]: disc state and pure kinematic queries
//   - [TimeToCollision]: closed-form prediction of the next contact
//   - [Resolve] / [ResolveWall]: elastic collision resolution
//   - [Engine]: event loop, wall-impulse bookkeeping, snapshots
//
// The container is itself a [Particle] with negative radius. The sign
// flips the combined-radius quadratic in [TimeToCollision] from "stay
// apart" to "stay inside", so one formula covers both contact cases.
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. The pairwise collision search
// may fan out across workers internally, but all mutation is serialized
// inside [Engine.AdvanceOneCollision]; consumers read snapshots between
// calls only.
package gas
