// Package catalog loads the exercise library and planning rules from YAML.
// Rep ranges, slot defaults, weight ratios, and bodyweight multipliers are
// configuration data, not code; a default catalog ships embedded.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/claude/liftplan/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Catalog bundles the exercise library with the plan rules that govern
// prescription building.
type Catalog struct {
	Exercises []models.Exercise `yaml:"exercises"`
	Rules     models.PlanRules  `yaml:"rules"`
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return parse(data)
}

// Default returns the embedded catalog. The embedded data is validated at
// first use, so a broken build fails on startup rather than mid-session.
func Default() (*Catalog, error) {
	return parse(defaultsYAML)
}

func parse(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog validation: %w", err)
	}
	return c, nil
}

// ByGroupSlot returns the catalog entries for one muscle-group/slot pair.
func (c *Catalog) ByGroupSlot(group models.MuscleGroup, slot models.Slot) []models.Exercise {
	var out []models.Exercise
	for _, ex := range c.Exercises {
		if ex.MuscleGroup == group && ex.Slot == slot {
			out = append(out, ex)
		}
	}
	return out
}

// Get returns the exercise with the given id.
func (c *Catalog) Get(id string) (models.Exercise, bool) {
	for _, ex := range c.Exercises {
		if ex.ID == id {
			return ex, true
		}
	}
	return models.Exercise{}, false
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Exercises))
	for _, ex := range c.Exercises {
		if ex.ID == "" || ex.Name == "" {
			return fmt.Errorf("exercise %q: id and name are required", ex.ID)
		}
		if seen[ex.ID] {
			return fmt.Errorf("exercise %s: duplicate id", ex.ID)
		}
		seen[ex.ID] = true
		if !ex.MuscleGroup.Valid() {
			return fmt.Errorf("exercise %s: unknown muscle group %q", ex.ID, ex.MuscleGroup)
		}
		if ex.Slot < models.SlotHeavy || ex.Slot > models.SlotIsolation {
			return fmt.Errorf("exercise %s: slot must be 1-3, got %d", ex.ID, ex.Slot)
		}
		if ex.RepRange.Min <= 0 || ex.RepRange.Max < ex.RepRange.Min {
			return fmt.Errorf("exercise %s: invalid rep range [%d,%d]", ex.ID, ex.RepRange.Min, ex.RepRange.Max)
		}
		// Pattern and primary muscle are mutually exclusive by type.
		switch ex.Type {
		case models.TypeCompound:
			if ex.MovementPattern == "" || ex.PrimaryMuscle != "" {
				return fmt.Errorf("exercise %s: compounds need a movement pattern and no primary muscle", ex.ID)
			}
		case models.TypeIsolation:
			if ex.PrimaryMuscle == "" || ex.MovementPattern != "" {
				return fmt.Errorf("exercise %s: isolations need a primary muscle and no movement pattern", ex.ID)
			}
		default:
			return fmt.Errorf("exercise %s: unknown type %q", ex.ID, ex.Type)
		}
		if ex.Equipment == models.EquipBodyweight {
			if m, ok := c.Rules.BodyweightMultipliers[ex.ID]; !ok || m <= 0 {
				return fmt.Errorf("exercise %s: bodyweight exercise needs a positive multiplier", ex.ID)
			}
		}
	}

	for _, slot := range models.Slots {
		r, ok := c.Rules.SlotRepRanges[slot]
		if !ok || r.Min <= 0 || r.Max < r.Min {
			return fmt.Errorf("rules: slot %d rep range missing or invalid", slot)
		}
		if w, ok := c.Rules.SlotDefaultWeights[slot]; !ok || w <= 0 {
			return fmt.Errorf("rules: slot %d default weight missing or invalid", slot)
		}
	}
	for _, r := range c.Rules.WeightRatios {
		if r.TargetID == "" || r.BaseID == "" || r.Ratio <= 0 {
			return fmt.Errorf("rules: invalid weight ratio %+v", r)
		}
	}
	return nil
}
