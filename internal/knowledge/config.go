package knowledge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Band is an inclusive difficulty range. The shipped bands intentionally
// overlap so a concept can belong to more than one of them.
type Band struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func (b Band) Contains(difficulty int) bool {
	return difficulty >= b.Min && difficulty <= b.Max
}

// BalancedWeights tunes the balanced strategy's ranking score:
// importance*Importance + applicationCount*Applications + (10-difficulty)*Ease.
type BalancedWeights struct {
	Importance   float64 `yaml:"importance"`
	Applications float64 `yaml:"applications"`
	Ease         float64 `yaml:"ease"`
}

// SynthesisConfig carries the tunable knobs of path synthesis. Deployments
// can override the defaults with a YAML file (SYNTHESIS_CONFIG_PATH).
type SynthesisConfig struct {
	Bands              map[string]Band `yaml:"bands"`
	Balanced           BalancedWeights `yaml:"balanced"`
	CheckpointInterval int             `yaml:"checkpoint_interval"`
	RequiredMastery    float64         `yaml:"required_mastery"`
	DefaultAssessment  string          `yaml:"default_assessment"`
}

func DefaultSynthesisConfig() SynthesisConfig {
	return SynthesisConfig{
		Bands: map[string]Band{
			"beginner":     {Min: 1, Max: 4},
			"intermediate": {Min: 3, Max: 7},
			"advanced":     {Min: 6, Max: 10},
		},
		Balanced:           BalancedWeights{Importance: 0.4, Applications: 0.3, Ease: 0.3},
		CheckpointInterval: 3,
		RequiredMastery:    0.7,
		DefaultAssessment:  "quiz",
	}
}

// LoadSynthesisConfig reads a YAML override file on top of the defaults.
func LoadSynthesisConfig(path string) (SynthesisConfig, error) {
	cfg := DefaultSynthesisConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read synthesis config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse synthesis config: %w", err)
	}
	if cfg.CheckpointInterval <= 0 {
		cfg.CheckpointInterval = 3
	}
	return cfg, nil
}
