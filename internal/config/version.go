package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the current config schema version
const CurrentVersion = 1

// Migration represents a config migration function. Keys in data are
// lowercased, the way viper reports them.
type Migration struct {
	FromVersion int
	ToVersion   int
	Migrate     func(data map[string]interface{}) (map[string]interface{}, error)
}

// migrations is the list of migrations in order
var migrations = []Migration{
	// Migration 0 -> 1: legacy flat files named the orderings "cascade" and
	// "sequence" and kept the typing speed at the top level
	{
		FromVersion: 0,
		ToVersion:   1,
		Migrate: func(data map[string]interface{}) (map[string]interface{}, error) {
			rename(data, "cascade", "cascadeorder")
			rename(data, "sequence", "typingsequence")

			if speed, ok := data["typespeedms"]; ok {
				timings, _ := data["timings"].(map[string]interface{})
				if timings == nil {
					timings = make(map[string]interface{})
				}
				if _, set := timings["typeintervalms"]; !set {
					timings["typeintervalms"] = speed
				}
				data["timings"] = timings
				delete(data, "typespeedms")
			}

			data["version"] = 1
			return data, nil
		},
	},
}

func rename(data map[string]interface{}, from, to string) {
	old, ok := data[from]
	if !ok {
		return
	}
	if _, exists := data[to]; !exists {
		data[to] = old
	}
	delete(data, from)
}

// MigrateSettings brings raw settings up to CurrentVersion
func MigrateSettings(data map[string]interface{}) (map[string]interface{}, error) {
	version, err := detectVersion(data)
	if err != nil {
		return nil, err
	}

	if version > CurrentVersion {
		return nil, fmt.Errorf("config version %d is newer than supported version %d", version, CurrentVersion)
	}

	if version < CurrentVersion {
		data, err = ApplyMigrations(data, version)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate config: %w", err)
		}
	}
	return data, nil
}

// detectVersion returns 0 for legacy configs without a version field
func detectVersion(data map[string]interface{}) (int, error) {
	raw, ok := data["version"]
	if !ok {
		return 0, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case uint64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("config version has unexpected type %T", raw)
	}
}

// ApplyMigrations applies all migrations from the given version to CurrentVersion
func ApplyMigrations(data map[string]interface{}, fromVersion int) (map[string]interface{}, error) {
	for _, migration := range migrations {
		if migration.FromVersion == fromVersion {
			var err error
			data, err = migration.Migrate(data)
			if err != nil {
				return nil, fmt.Errorf("migration %d -> %d failed: %w",
					migration.FromVersion, migration.ToVersion, err)
			}
			fromVersion = migration.ToVersion
		}
	}

	if fromVersion < CurrentVersion {
		return nil, fmt.Errorf("no migration path from version %d to %d", fromVersion, CurrentVersion)
	}

	return data, nil
}

// MarshalVersionedConfig serializes a config with version information. ext
// selects the format: ".json" writes JSON, anything else YAML.
func MarshalVersionedConfig(cfg *Config, ext string) ([]byte, error) {
	out := *cfg
	out.Version = CurrentVersion

	if strings.EqualFold(ext, ".json") {
		return json.MarshalIndent(&out, "", "  ")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
