// Package world owns an ordered set of bodies and advances them one fixed
// step at a time under mutual inverse-linear gravity and elastic
// collisions.
//
// The World is the only entry point drivers use:
//
//   - [World.Step]: advance simulated time by exactly Config.DT
//   - [World.Snapshot]: deep copy of every body, paths included, for renderers
//   - [World.Reset]: atomically replace the body set
//
// A step resolves every unordered pair once, in insertion order. Forces
// are accumulated into a scratch slice owned by the step and collision
// outcomes are computed from pre-step state before any velocity changes,
// so results do not depend on which body of a pair is visited first.
//
// # Thread Safety
//
// Step, Reset and Snapshot may be called from different goroutines. A
// single lock covers the whole body set; a snapshot never observes a
// partially applied step.
//
// # Faults
//
// Coincident bodies produce NaN or Inf. The step that produces them returns
// a [*FaultError] wrapping [ErrDiverged], and the World refuses to advance
// until Reset.
package world
