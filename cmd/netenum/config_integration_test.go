package main

import (
	"testing"

	"netenum/internal/config"
)

// helper: full config for testing
func fullTestConfig() *config.Config {
	return &config.Config{
		Targets: config.TargetsConfig{
			Include: []string{"10.0.0.0/24"},
			Exclude: []string{"10.0.0.1"},
		},
		Enum: config.EnumConfig{
			Order: config.OrderShuffle,
			Seed:  1337,
		},
		Output: config.OutputConfig{
			File:   "addrs.jsonl",
			Format: "jsonl",
			Quiet:  true,
			NoTUI:  true,
		},
	}
}

func TestApplyConfig_AllFieldsApplied(t *testing.T) {
	cfg := fullTestConfig()
	set := map[string]bool{} // nothing set on CLI

	// Initialize with flag defaults
	seed := int64(0)
	shuffle := false
	linear := false
	outputFile := "-"
	jsonOut := false
	quiet := false
	noTUI := false

	applyConfig(cfg, set, &seed, &shuffle, &linear,
		&outputFile, &jsonOut, &quiet, &noTUI)

	if seed != 1337 {
		t.Errorf("seed: want 1337, got %d", seed)
	}
	if !shuffle {
		t.Error("shuffle: want true (order=shuffle)")
	}
	if linear {
		t.Error("linear: want false (order=shuffle)")
	}
	if outputFile != "addrs.jsonl" {
		t.Errorf("outputFile: want 'addrs.jsonl', got %q", outputFile)
	}
	if !jsonOut {
		t.Error("json: want true (format=jsonl)")
	}
	if !quiet {
		t.Error("quiet: want true")
	}
	if !noTUI {
		t.Error("noTUI: want true")
	}
}

func TestApplyConfig_CLIOverridesConfig(t *testing.T) {
	cfg := fullTestConfig()

	// Simulate CLI flags that were explicitly set
	set := map[string]bool{
		"seed":   true,
		"linear": true,
		"o":      true,
		"json":   true,
		"q":      true,
		"no-tui": true,
	}

	// CLI values (should be preserved)
	seed := int64(42)
	shuffle := false
	linear := true
	outputFile := "cli-output.txt"
	jsonOut := false
	quiet := false
	noTUI := false

	applyConfig(cfg, set, &seed, &shuffle, &linear,
		&outputFile, &jsonOut, &quiet, &noTUI)

	if seed != 42 {
		t.Errorf("seed: CLI override lost, got %d", seed)
	}
	// -linear was set, so order from config shouldn't apply
	if shuffle {
		t.Error("shuffle: config order applied despite explicit -linear")
	}
	if !linear {
		t.Error("linear: CLI override lost")
	}
	if outputFile != "cli-output.txt" {
		t.Errorf("outputFile: CLI override lost, got %q", outputFile)
	}
	if jsonOut {
		t.Error("json: CLI override lost, got true")
	}
	if quiet {
		t.Error("quiet: CLI override lost, got true")
	}
	if noTUI {
		t.Error("noTUI: CLI override lost, got true")
	}
}

func TestApplyConfig_PartialConfig(t *testing.T) {
	// Only order is set; everything else keeps flag defaults.
	cfg := &config.Config{
		Enum: config.EnumConfig{Order: config.OrderLinear},
	}
	set := map[string]bool{}

	seed := int64(0)
	shuffle := false
	linear := false
	outputFile := "-"
	jsonOut := false
	quiet := false
	noTUI := false

	applyConfig(cfg, set, &seed, &shuffle, &linear,
		&outputFile, &jsonOut, &quiet, &noTUI)

	if seed != 0 {
		t.Errorf("seed: want default 0, got %d", seed)
	}
	if shuffle {
		t.Error("shuffle: want false (order=linear)")
	}
	if !linear {
		t.Error("linear: want true (order=linear)")
	}
	if outputFile != "-" {
		t.Errorf("outputFile: want default '-', got %q", outputFile)
	}
	if jsonOut || quiet || noTUI {
		t.Errorf("output flags: want defaults, got json=%v quiet=%v noTUI=%v", jsonOut, quiet, noTUI)
	}
}

func TestApplyConfig_OrderMapping(t *testing.T) {
	tests := []struct {
		order       string
		wantShuffle bool
		wantLinear  bool
	}{
		{config.OrderInterleave, false, false},
		{config.OrderShuffle, true, false},
		{config.OrderLinear, false, true},
		{"", false, false},
	}
	for _, tt := range tests {
		cfg := &config.Config{Enum: config.EnumConfig{Order: tt.order}}
		seed := int64(0)
		shuffle := false
		linear := false
		outputFile := "-"
		jsonOut := false
		quiet := false
		noTUI := false

		applyConfig(cfg, map[string]bool{}, &seed, &shuffle, &linear,
			&outputFile, &jsonOut, &quiet, &noTUI)

		if shuffle != tt.wantShuffle || linear != tt.wantLinear {
			t.Errorf("order %q: shuffle=%v linear=%v, want %v/%v",
				tt.order, shuffle, linear, tt.wantShuffle, tt.wantLinear)
		}
	}
}
