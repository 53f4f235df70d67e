package orrery

import "errors"

var (
	// ErrUnknownPlanet indicates a command or table entry naming no planet.
	ErrUnknownPlanet = errors.New("orrery: unknown planet")

	// ErrSpeedOutOfBounds indicates a speed outside [SpeedMin, SpeedMax] or not a number.
	ErrSpeedOutOfBounds = errors.New("orrery: speed out of bounds")

	// ErrInvalidViewport indicates a non-positive viewport dimension.
	ErrInvalidViewport = errors.New("orrery: invalid viewport")

	// ErrNeedsSurface indicates a screenshot was requested with no surface attached.
	ErrNeedsSurface = errors.New("orrery: no rendering surface attached")
)
