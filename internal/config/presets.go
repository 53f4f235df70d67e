package config

import (
	"sort"

	"github.com/san-kum/solarsim/internal/orrery"
)

type Preset struct {
	Description string
	Speeds      orrery.SpeedTable
	Elevation   float64
}

var Presets = map[string]*Preset{
	"classic": {
		Description: "the original demo speeds",
		Speeds:      orrery.DefaultSpeeds(),
	},
	"realistic": {
		Description: "speeds proportional to real orbital angular velocity",
		Speeds: orrery.SpeedTable{
			"mercury": 0.076, "venus": 0.044, "earth": 0.03, "mars": 0.022,
			"jupiter": 0.015, "saturn": 0.011, "uranus": 0.009, "neptune": 0.007,
		},
	},
	"leisurely": {
		Description: "slow orbits for screenshots",
		Speeds: orrery.SpeedTable{
			"mercury": 0.01, "venus": 0.009, "earth": 0.008, "mars": 0.006,
			"jupiter": 0.005, "saturn": 0.004, "uranus": 0.003, "neptune": 0.002,
		},
	},
	"tilted": {
		Description: "classic speeds seen from above the orbital plane",
		Speeds:      orrery.DefaultSpeeds(),
		Elevation:   0.35,
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
