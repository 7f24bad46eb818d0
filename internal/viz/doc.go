// Package viz is the terminal driver for a World.
//
// [Model] is a Bubble Tea program that steps the World once per tick and
// draws bodies and their paths on a braille [Canvas], next to a panel with
// the step count, an energy chart and per-body positions.
//
// # Key Bindings
//
//	Space - Pause/Resume stepping
//	R     - Reset to the initial scenario
//	+/-   - Faster/slower playback
//	Q     - Quit
//
// A World that faults pauses the model and shows the error until reset.
package viz
