package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/liftplan/internal/models"
)

// TestDefaultCatalog verifies the embedded catalog parses, validates, and
// covers every muscle-group/slot pair so a session can always be generated.
func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("embedded catalog failed to load: %v", err)
	}
	for _, group := range models.MuscleGroups {
		for _, slot := range models.Slots {
			if len(c.ByGroupSlot(group, slot)) == 0 {
				t.Errorf("no exercises for %s slot %d", group, slot)
			}
		}
	}
}

// TestDefaultRules verifies the embedded plan rules carry the slot rep
// ranges and the conservative 135/95/45 fallback weights.
func TestDefaultRules(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if r := c.Rules.SlotRepRanges[models.SlotHeavy]; r.Min != 5 || r.Max != 8 {
		t.Errorf("slot 1 rep range = [%d,%d], want [5,8]", r.Min, r.Max)
	}
	wants := map[models.Slot]float64{models.SlotHeavy: 135, models.SlotModerate: 95, models.SlotIsolation: 45}
	for slot, want := range wants {
		if got := c.Rules.SlotDefaultWeights[slot]; got != want {
			t.Errorf("slot %d default weight = %v, want %v", slot, got, want)
		}
	}
}

// TestGet verifies lookup by id.
func TestGet(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	ex, ok := c.Get("barbell-back-squat")
	if !ok {
		t.Fatal("barbell-back-squat not found")
	}
	if ex.MuscleGroup != models.GroupLegs || ex.Slot != models.SlotHeavy {
		t.Errorf("unexpected entry: %+v", ex)
	}
	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected miss for unknown id")
	}
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalRules = `
rules:
  slot_rep_ranges:
    1: { min: 5, max: 8 }
    2: { min: 8, max: 12 }
    3: { min: 12, max: 20 }
  slot_default_weights: { 1: 135, 2: 95, 3: 45 }
`

// TestValidateTypeExclusivity verifies compounds must carry a movement
// pattern and isolations a primary muscle, never both.
func TestValidateTypeExclusivity(t *testing.T) {
	cases := []struct {
		name    string
		entry   string
		wantErr string
	}{
		{
			"compound without pattern",
			`  - { id: x, name: X, muscle_group: push, slot: 1, type: compound, equipment: barbell, load_type: bilateral, rep_range: { min: 5, max: 8 } }`,
			"movement pattern",
		},
		{
			"isolation with pattern",
			`  - { id: x, name: X, muscle_group: push, slot: 3, type: isolation, equipment: cable, load_type: bilateral, rep_range: { min: 12, max: 20 }, movement_pattern: press, primary_muscle: chest }`,
			"primary muscle",
		},
		{
			"inverted rep range",
			`  - { id: x, name: X, muscle_group: push, slot: 1, type: compound, equipment: barbell, load_type: bilateral, rep_range: { min: 8, max: 5 }, movement_pattern: press }`,
			"rep range",
		},
		{
			"bodyweight without multiplier",
			`  - { id: x, name: X, muscle_group: pull, slot: 2, type: compound, equipment: bodyweight, load_type: bilateral, rep_range: { min: 8, max: 12 }, movement_pattern: vertical-pull }`,
			"multiplier",
		},
	}
	for _, tc := range cases {
		path := writeCatalog(t, minimalRules+"exercises:\n"+tc.entry+"\n")
		_, err := Load(path)
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%s: error = %v, want mention of %q", tc.name, err, tc.wantErr)
		}
	}
}

// TestLoadMissingFile verifies a missing catalog path surfaces as an error.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/catalog.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
