// Package automation replays scripted command sequences against a system
// without a display.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/solarsim/internal/headless"
	"github.com/san-kum/solarsim/internal/orrery"
)

// Scenario is a scripted sequence of control panel actions.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep applies its actions in field order (reset, speeds, resize,
// screenshot) and then advances Ticks.
type ScenarioStep struct {
	Reset      bool               `yaml:"reset"`
	Speeds     map[string]float64 `yaml:"speeds"`
	Resize     *Size              `yaml:"resize"`
	Screenshot bool               `yaml:"screenshot"`
	Ticks      int                `yaml:"ticks"`
}

type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return ErrEmptyScenario
	}
	for i, step := range s.Steps {
		if step.Ticks < 0 {
			return fmt.Errorf("step %d: negative ticks", i+1)
		}
	}
	return nil
}

// TotalTicks is the number of ticks the scenario advances.
func (s *Scenario) TotalTicks() int {
	n := 0
	for _, step := range s.Steps {
		n += step.Ticks
	}
	return n
}

// Commands lists the step's actions. Speeds are applied in name order.
func (st ScenarioStep) Commands() []orrery.Command {
	var cmds []orrery.Command
	if st.Reset {
		cmds = append(cmds, orrery.ResetSpeeds{})
	}
	names := make([]string, 0, len(st.Speeds))
	for name := range st.Speeds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmds = append(cmds, orrery.SetSpeed{Planet: name, Value: st.Speeds[name]})
	}
	if st.Resize != nil {
		cmds = append(cmds, orrery.Resize{Width: st.Resize.Width, Height: st.Resize.Height})
	}
	if st.Screenshot {
		cmds = append(cmds, orrery.Screenshot{})
	}
	return cmds
}

// RunScenario executes every step against sys. A failed screenshot is
// logged and the scenario continues; any other command error stops it.
func RunScenario(ctx context.Context, sys *orrery.System, scenario *Scenario, cfg headless.Config, observe headless.Observer) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = log.With(logger, "scenario", scenario.Name)

	for i, step := range scenario.Steps {
		level.Debug(logger).Log("msg", "step", "n", i+1, "of", len(scenario.Steps), "ticks", step.Ticks)

		for _, cmd := range step.Commands() {
			err := sys.Dispatch(cmd)
			if err == nil {
				continue
			}
			if _, ok := cmd.(orrery.Screenshot); ok {
				level.Error(logger).Log("msg", "screenshot failed", "step", i+1, "err", err)
				continue
			}
			return fmt.Errorf("step %d: %w", i+1, err)
		}

		if step.Ticks == 0 {
			continue
		}
		stepCfg := cfg
		stepCfg.Ticks = uint64(step.Ticks)
		if err := headless.Run(ctx, sys, stepCfg, observe); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}
