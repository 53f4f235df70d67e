// Package viz is the terminal front end: a Bubble Tea program that draws the
// solar system on a braille canvas next to a control panel.
//
// # Key Bindings
//
//	Tab/Shift+Tab - Select planet
//	Up/K, Down/J  - Raise or lower the selected speed by one step
//	R             - Reset speeds
//	S             - Save a screenshot
//	V             - Export the canvas as SVG
//	Space         - Pause/Resume
//	T             - Cycle color themes
//	?             - Show help overlay
//	Q             - Quit
//
// Screenshots are rendered off screen by the software rasterizer at the
// configured window size, not at terminal resolution.
package viz
