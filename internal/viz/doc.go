// Package viz provides the terminal visualization of the gas.
//
// The live view is a Bubble Tea program that resolves one collision
// per frame and renders the container outline and particle discs on a
// Braille pixel canvas, next to a stats panel with the engine's
// diagnostics and a kinetic-energy strip chart.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Resolve a single collision while paused
//	Q     - Quit
//
// The view only reads engine snapshots between steps; it never mutates
// simulation state directly.
package viz
