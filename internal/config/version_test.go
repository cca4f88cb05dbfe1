package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestMigrateSettings_LegacyConfig(t *testing.T) {
	// Legacy config without version field
	legacy := map[string]interface{}{
		"cascade":     []interface{}{"hero"},
		"sequence":    []interface{}{"hero", "contact"},
		"typespeedms": 20,
	}

	data, err := MigrateSettings(legacy)
	if err != nil {
		t.Fatalf("Failed to migrate legacy config: %v", err)
	}

	if data["version"] != 1 {
		t.Errorf("Expected version 1, got %v", data["version"])
	}
	if _, ok := data["sequence"]; ok {
		t.Error("Expected legacy 'sequence' key to be removed")
	}
	seq, ok := data["typingsequence"].([]interface{})
	if !ok || len(seq) != 2 {
		t.Errorf("Expected typingsequence with 2 entries, got %v", data["typingsequence"])
	}
	timings, ok := data["timings"].(map[string]interface{})
	if !ok || timings["typeintervalms"] != 20 {
		t.Errorf("Expected timings.typeintervalms 20, got %v", data["timings"])
	}
}

func TestMigrateSettings_KeepsNewerKeys(t *testing.T) {
	legacy := map[string]interface{}{
		"sequence":       []interface{}{"problem"},
		"typingsequence": []interface{}{"hero"},
	}

	data, err := MigrateSettings(legacy)
	if err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	seq := data["typingsequence"].([]interface{})
	if len(seq) != 1 || seq[0] != "hero" {
		t.Errorf("Expected explicit typingsequence to win, got %v", seq)
	}
}

func TestMigrateSettings_Version1(t *testing.T) {
	v1 := map[string]interface{}{
		"version":        1,
		"typingsequence": []interface{}{"hero"},
	}

	data, err := MigrateSettings(v1)
	if err != nil {
		t.Fatalf("Failed to parse v1 config: %v", err)
	}
	if len(data) != 2 {
		t.Errorf("Expected v1 settings untouched, got %v", data)
	}
}

func TestMigrateSettings_FutureVersion(t *testing.T) {
	_, err := MigrateSettings(map[string]interface{}{"version": 999})
	if err == nil {
		t.Fatal("Expected error for future version, got nil")
	}
	if !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestMigrateSettings_JSONNumbers(t *testing.T) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(`{"version": 1}`), &data); err != nil {
		t.Fatal(err)
	}
	if _, err := MigrateSettings(data); err != nil {
		t.Errorf("Expected float64 versions to be accepted: %v", err)
	}

	if _, err := MigrateSettings(map[string]interface{}{"version": "one"}); err == nil {
		t.Error("Expected error for a non-numeric version")
	}
}

func TestApplyMigrations_NoPath(t *testing.T) {
	_, err := ApplyMigrations(map[string]interface{}{}, -1)
	if err == nil {
		t.Fatal("Expected error when no migration path exists")
	}
}

func TestLoadConfig_MigratesLegacyFile(t *testing.T) {
	tmpDir := t.TempDir()
	legacy := "cascade: [problem, hero]\nsequence: [hero, packages]\ntypeSpeedMs: 25\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".retrodesk.yaml"), []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(tmpDir, "")
	if err != nil {
		t.Fatalf("Failed to load legacy config: %v", err)
	}

	if len(cfg.CascadeOrder) != 2 || cfg.CascadeOrder[1] != "hero" {
		t.Errorf("Expected migrated cascade order, got %v", cfg.CascadeOrder)
	}
	if len(cfg.TypingSequence) != 2 || cfg.TypingSequence[1] != "packages" {
		t.Errorf("Expected migrated typing sequence, got %v", cfg.TypingSequence)
	}
	if cfg.Timings.TypeIntervalMs != 25 {
		t.Errorf("Expected type interval 25, got %d", cfg.Timings.TypeIntervalMs)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("Expected version %d, got %d", CurrentVersion, cfg.Version)
	}
}

func TestMarshalVersionedConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = 0

	data, err := MarshalVersionedConfig(cfg, ".yaml")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	var out map[string]interface{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("Failed to parse output: %v", err)
	}
	if out["version"] != CurrentVersion {
		t.Errorf("Expected version %d in output, got %v", CurrentVersion, out["version"])
	}
	if _, ok := out["typingSequence"]; !ok {
		t.Error("Expected typingSequence in output")
	}
	if cfg.Version != 0 {
		t.Error("Marshalling must not modify the input config")
	}

	data, err = MarshalVersionedConfig(cfg, ".JSON")
	if err != nil {
		t.Fatalf("Failed to marshal JSON config: %v", err)
	}
	if !json.Valid(data) {
		t.Errorf("Expected valid JSON, got %s", data)
	}
}
