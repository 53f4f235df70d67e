// Package orrery holds the simulation state of the solar-system view.
//
// The package owns everything that changes while the program runs:
//
//   - [PlanetState]: per-planet orbit radius, angular speed and angle
//   - [SpeedTable]: the immutable default speeds used at start and on reset
//   - [CameraOrbit]: the camera circling the origin
//   - [System]: the single owner of all of the above
//
// Front ends never mutate a System directly. They translate host events
// (slider drags, button clicks, key presses, window resizes) into a
// [Command] and hand it to [System.Dispatch]. The render loop calls
// [System.Advance] once per frame and reads positions back.
//
// # Example
//
//	sys, _ := orrery.New(orrery.Options{Viewport: orrery.Viewport{Width: 1280, Height: 720}})
//	_ = sys.Dispatch(orrery.SetSpeed{Planet: "earth", Value: 0.05})
//	sys.Advance(1)
//	pos, _ := sys.PlanetPosition("earth")
//
// # Thread Safety
//
// A System is NOT safe for concurrent use. Every front end drives it from
// a single loop.
package orrery
