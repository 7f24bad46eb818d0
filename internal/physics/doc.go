// Package physics provides the point-mass body model for the gravity core.
//
// A [Body] carries mass, geometry and kinematic state:
//
//   - [Body.Init]: place the body and start its recorded path
//   - [Body.Integrate]: one semi-implicit Euler step under a given net force
//   - [Body.CollisionVelocity]: post-collision velocity against another body
//   - [Pairs]: each unordered index pair of a collection, visited once
//
// Bodies do not compute forces themselves; the world package accumulates
// pairwise forces and hands each body its net force for the step.
//
// # Collisions
//
// CollisionVelocity is pure. Both bodies of a colliding pair must be
// resolved from their pre-collision state before either is updated:
//
//	va := a.CollisionVelocity(b)
//	vb := b.CollisionVelocity(a)
//	a.Velocity, b.Velocity = va, vb
package physics
