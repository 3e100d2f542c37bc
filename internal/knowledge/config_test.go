package knowledge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSynthesisConfigBandsOverlap(t *testing.T) {
	cfg := DefaultSynthesisConfig()
	cases := []struct {
		difficulty int
		bands      []string
	}{
		{difficulty: 1, bands: []string{"beginner"}},
		{difficulty: 3, bands: []string{"beginner", "intermediate"}},
		{difficulty: 6, bands: []string{"intermediate", "advanced"}},
		{difficulty: 10, bands: []string{"advanced"}},
	}
	for _, tc := range cases {
		got := []string{}
		for _, name := range []string{"beginner", "intermediate", "advanced"} {
			if cfg.Bands[name].Contains(tc.difficulty) {
				got = append(got, name)
			}
		}
		if len(got) != len(tc.bands) {
			t.Fatalf("difficulty %d in bands %v, want %v", tc.difficulty, got, tc.bands)
		}
		for i := range got {
			if got[i] != tc.bands[i] {
				t.Fatalf("difficulty %d in bands %v, want %v", tc.difficulty, got, tc.bands)
			}
		}
	}
}

func TestLoadSynthesisConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synthesis.yaml")
	raw := []byte("checkpoint_interval: 5\nrequired_mastery: 0.8\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadSynthesisConfig(path)
	if err != nil {
		t.Fatalf("LoadSynthesisConfig: %v", err)
	}
	if cfg.CheckpointInterval != 5 {
		t.Fatalf("CheckpointInterval = %d, want 5", cfg.CheckpointInterval)
	}
	if cfg.RequiredMastery != 0.8 {
		t.Fatalf("RequiredMastery = %v, want 0.8", cfg.RequiredMastery)
	}
	// Untouched keys keep their defaults.
	if !cfg.Bands["beginner"].Contains(4) {
		t.Fatalf("default bands lost on partial override")
	}
	if cfg.DefaultAssessment != "quiz" {
		t.Fatalf("DefaultAssessment = %q, want quiz", cfg.DefaultAssessment)
	}
}

func TestLoadSynthesisConfigMissingFile(t *testing.T) {
	if _, err := LoadSynthesisConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
