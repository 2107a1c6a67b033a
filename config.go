package dam

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the kernel's ambient configuration: the knobs a simulation's
// entry point typically wants to set from a file rather than hardcode,
// layered on top of whatever a Builder caller wires up in code.
type Config struct {
	// RunFlavorInference toggles the builder's SCC-based acyclic/cyclic
	// channel flavor selection. Disabling it is mostly useful for
	// comparing against the conservative cyclic-everywhere baseline.
	RunFlavorInference bool `toml:"run_flavor_inference"`

	// RunMode selects the scheduling discipline passed to Initialized.Run:
	// "simple" or "fifo".
	RunMode string `toml:"run_mode"`

	// LogLevel names a capitan severity: "info", "warn", or "error". It is
	// carried through DecodeConfig and Encode only; nothing in this package
	// reads it, and signals are emitted regardless of its value.
	LogLevel string `toml:"log_level"`

	// DeadlockStallThresholdMillis is how long the runner's stall watchdog
	// waits with no recorded time advancement before emitting a
	// DeadlockEvent. Zero disables the watchdog.
	DeadlockStallThresholdMillis int64 `toml:"deadlock_stall_threshold_millis"`
}

// DefaultConfig returns the configuration a caller gets without loading a
// file: flavor inference on, simple scheduling, info-level logging, and
// the stall watchdog disabled.
func DefaultConfig() Config {
	return Config{
		RunFlavorInference:           true,
		RunMode:                      "simple",
		LogLevel:                     "info",
		DeadlockStallThresholdMillis: 0,
	}
}

// LoadConfig reads and decodes a TOML configuration file, starting from
// DefaultConfig so an omitted field keeps its default rather than
// zeroing out.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("dam: open config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig reads TOML from r into a Config seeded with DefaultConfig.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeReader(r, &cfg); err != nil {
		return Config{}, fmt.Errorf("dam: decode config: %w", err)
	}
	return cfg, nil
}

// Encode writes cfg back out as TOML, the inverse of DecodeConfig.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("dam: encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// RunModeValue resolves the configured RunMode string to a RunMode,
// defaulting to RunModeSimple for anything it doesn't recognize.
func (c Config) RunModeValue() RunMode {
	if c.RunMode == "fifo" {
		return RunModeFIFO
	}
	return RunModeSimple
}

// Options derives Builder.Initialize options from the configuration.
func (c Config) Options() Options {
	return Options{
		RunFlavorInference:     c.RunFlavorInference,
		DeadlockStallThreshold: time.Duration(c.DeadlockStallThresholdMillis) * time.Millisecond,
	}
}
