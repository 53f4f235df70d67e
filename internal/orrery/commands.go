package orrery

import (
	"fmt"
	"math"
)

// Command is one discrete state mutation produced by a UI action.
type Command interface {
	apply(s *System) error
}

// SetSpeed moves one planet's slider. Values are clamped into
// [SpeedMin, SpeedMax] the way a range input clamps.
type SetSpeed struct {
	Planet string
	Value  float64
}

// ResetSpeeds restores every speed from the default table. Angles are kept.
type ResetSpeeds struct{}

// Resize follows a viewport change.
type Resize struct {
	Width, Height int
}

// Screenshot asks the attached surface to export the current frame.
type Screenshot struct{}

func (c SetSpeed) apply(s *System) error {
	i, ok := s.index[c.Planet]
	if !ok {
		return fmt.Errorf("set speed %q: %w", c.Planet, ErrUnknownPlanet)
	}
	if math.IsNaN(c.Value) {
		return fmt.Errorf("set speed %q: %w", c.Planet, ErrSpeedOutOfBounds)
	}
	s.planets[i].Speed = Clamp(c.Value)
	return nil
}

func (ResetSpeeds) apply(s *System) error {
	for i := range s.planets {
		s.planets[i].Speed = s.defaults[s.planets[i].Name]
	}
	return nil
}

func (c Resize) apply(s *System) error {
	vp := Viewport{Width: c.Width, Height: c.Height}
	if !vp.valid() {
		return fmt.Errorf("resize %dx%d: %w", c.Width, c.Height, ErrInvalidViewport)
	}
	s.viewport = vp
	s.proj.Aspect = vp.Aspect()
	return nil
}

func (Screenshot) apply(s *System) error {
	if s.screenshot == nil {
		return ErrNeedsSurface
	}
	return s.screenshot()
}

// Dispatch applies cmd synchronously.
func (s *System) Dispatch(cmd Command) error {
	return cmd.apply(s)
}

// AttachSurface registers the function that exports the current frame.
// Passing nil detaches it.
func (s *System) AttachSurface(capture func() error) {
	s.screenshot = capture
}

// Clamp bounds v to the slider range.
func Clamp(v float64) float64 {
	return math.Max(SpeedMin, math.Min(SpeedMax, v))
}

// Snap rounds v to the nearest slider step and clamps it.
func Snap(v float64) float64 {
	// Dividing by the integer step count keeps values like 0.037 exact.
	const perUnit = 1 / SpeedStep
	return Clamp(math.Round(v*perUnit) / perUnit)
}

// Slider is the displayed state of one speed control.
type Slider struct {
	Planet string
	Label  string
	Min    float64
	Max    float64
	Step   float64
	Value  float64
}

// Fraction is the knob position along the track, in [0, 1].
func (sl Slider) Fraction() float64 {
	return (sl.Value - sl.Min) / (sl.Max - sl.Min)
}

// ValueAt maps a knob position to a snapped slider value.
func (sl Slider) ValueAt(fraction float64) float64 {
	fraction = math.Max(0, math.Min(1, fraction))
	return Snap(sl.Min + fraction*(sl.Max-sl.Min))
}

// Sliders returns the control panel, one slider per planet in orbit order.
func (s *System) Sliders() []Slider {
	out := make([]Slider, len(s.planets))
	for i, p := range s.planets {
		out[i] = Slider{
			Planet: p.Name,
			Label:  p.Name + " speed",
			Min:    SpeedMin,
			Max:    SpeedMax,
			Step:   SpeedStep,
			Value:  p.Speed,
		}
	}
	return out
}
