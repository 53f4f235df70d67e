// Package scene builds the renderer-independent scene graph.
//
// [Build] populates a [Graph] once from an orrery.System: the starfield,
// the lights, the sun, one sphere and one orbit ring per planet, and the
// ring of the ringed planet. After that the graph only changes through
// [Graph.Sync], which copies planet positions and the camera pose out of
// the system. No node is added or removed after Build.
package scene
