package coordinator

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the coordinator's compile-time-acceptable parameters (spec
// §6: "compile-time constants acceptable"). An optional YAML file can
// override them at startup (SPEC_FULL §2.1) — there is no HTTP path that
// mutates Config afterward.
type Config struct {
	APIAddr        string
	BroadcastPort  int
	Tick           time.Duration
	ConnectTimeout time.Duration
	PersistentMACs map[string]string
}

// DefaultConfig returns the spec's default ports and timings (spec §6,
// §4.3): portal on 8091, broadcast/register port 8092, a 1-second tick,
// a 5-second connect timeout.
func DefaultConfig() Config {
	return Config{
		APIAddr:        ":8091",
		BroadcastPort:  8092,
		Tick:           1 * time.Second,
		ConnectTimeout: 5 * time.Second,
	}
}

// rawConfig is the YAML shape of a config overlay. Durations are strings
// in time.ParseDuration form ("2s", "500ms") since yaml.v3 has no native
// time.Duration decoding.
type rawConfig struct {
	APIAddr        string            `yaml:"apiAddr"`
	BroadcastPort  int               `yaml:"broadcastPort"`
	Tick           string            `yaml:"tick"`
	ConnectTimeout string            `yaml:"connectTimeout"`
	PersistentMACs map[string]string `yaml:"persistentWorkers"`
}

// LoadConfig reads a YAML file and overlays any set fields onto
// DefaultConfig. Callers pass "" to skip loading entirely.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var overlay rawConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, err
	}

	if overlay.APIAddr != "" {
		cfg.APIAddr = overlay.APIAddr
	}
	if overlay.BroadcastPort != 0 {
		cfg.BroadcastPort = overlay.BroadcastPort
	}
	if overlay.Tick != "" {
		d, err := time.ParseDuration(overlay.Tick)
		if err != nil {
			return cfg, fmt.Errorf("config: bad tick: %w", err)
		}
		cfg.Tick = d
	}
	if overlay.ConnectTimeout != "" {
		d, err := time.ParseDuration(overlay.ConnectTimeout)
		if err != nil {
			return cfg, fmt.Errorf("config: bad connectTimeout: %w", err)
		}
		cfg.ConnectTimeout = d
	}
	if len(overlay.PersistentMACs) > 0 {
		cfg.PersistentMACs = overlay.PersistentMACs
	}

	return cfg, nil
}
