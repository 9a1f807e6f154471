// Package config manages gospeedwire configuration using koanf/v2.
//
// Supports YAML files and environment variables; it reads no CLI flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete gospeedwire configuration.
type Config struct {
	Metrics MetricsConfig  `koanf:"metrics"`
	Log     LogConfig      `koanf:"log"`
	Device  DeviceConfig   `koanf:"device"`
	Devices []DeviceConfig `koanf:"devices"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9622").
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// DeviceConfig describes a single SMA device (or the multicast energy-meter
// group) to talk to. Each entry drives one client.Client on daemon startup.
type DeviceConfig struct {
	// Name is a human-readable label used in logs and metrics.
	Name string `koanf:"name"`

	// Address is the device's IP address for unicast inverter traffic, or
	// the local interface address to bind when Multicast is true.
	Address string `koanf:"address"`

	// Multicast selects the energy-meter broadcast group (239.12.255.254)
	// instead of unicast to Address.
	Multicast bool `koanf:"multicast"`

	// Password is the installer/user password used for Login requests.
	// Empty for devices that are only ever read passively (energy meters).
	Password string `koanf:"password"`

	// PollInterval is how often to request GetDayData or re-Login.
	PollInterval time.Duration `koanf:"poll_interval"`

	// MeterSusyID and MeterSerial identify the energy meter whose
	// broadcasts this entry reads, when Multicast is true. A device
	// sharing the group with other SMA traffic is otherwise
	// indistinguishable on the wire.
	MeterSusyID uint16 `koanf:"meter_susy_id"`
	MeterSerial uint32 `koanf:"meter_serial"`
}

// AddressAddr parses Address as a netip.Addr.
func (dc DeviceConfig) AddressAddr() (netip.Addr, error) {
	if dc.Address == "" {
		return netip.Addr{}, fmt.Errorf("device %q address: %w", dc.Name, ErrInvalidDeviceAddress)
	}
	addr, err := netip.ParseAddr(dc.Address)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("parse device %q address %q: %w: %w", dc.Name, dc.Address, ErrInvalidDeviceAddress, err)
	}
	return addr, nil
}

// DeviceKey returns a unique identifier for the device based on
// (name, address). Validate uses it to reject duplicate device entries.
func (dc DeviceConfig) DeviceKey() string {
	return dc.Name + "|" + dc.Address
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Metrics: MetricsConfig{
			Addr: ":9622",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Device: DeviceConfig{
			PollInterval: 5 * time.Second,
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for gospeedwire configuration.
// Variables are named GOSPEEDWIRE_<section>_<key>, e.g., GOSPEEDWIRE_LOG_LEVEL.
const envPrefix = "GOSPEEDWIRE_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (GOSPEEDWIRE_ prefix), and merges on top of
// DefaultConfig(). Missing fields inherit defaults.
//
// Environment variable mapping:
//
//	GOSPEEDWIRE_METRICS_ADDR  -> metrics.addr
//	GOSPEEDWIRE_METRICS_PATH  -> metrics.path
//	GOSPEEDWIRE_LOG_LEVEL     -> log.level
//	GOSPEEDWIRE_LOG_FORMAT    -> log.format
//
// Uses koanf/v2 with file + env providers and YAML parser.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load defaults first.
	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	// Load YAML file on top of defaults.
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}

	// Load environment variable overrides on top of YAML.
	// GOSPEEDWIRE_LOG_LEVEL -> log.level (strip prefix, lowercase, _ -> .).
	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms GOSPEEDWIRE_LOG_LEVEL -> log.level.
// Strips the GOSPEEDWIRE_ prefix, lowercases, and replaces _ with .
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "_", ".")
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"metrics.addr":         defaults.Metrics.Addr,
		"metrics.path":         defaults.Metrics.Path,
		"log.level":            defaults.Log.Level,
		"log.format":           defaults.Log.Format,
		"device.poll_interval": defaults.Device.PollInterval.String(),
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Validation
// -------------------------------------------------------------------------

// Validation errors.
var (
	// ErrEmptyMetricsAddr indicates the metrics listen address is empty.
	ErrEmptyMetricsAddr = errors.New("metrics.addr must not be empty")

	// ErrInvalidDeviceAddress indicates a device address is empty or is not
	// a valid IP address.
	ErrInvalidDeviceAddress = errors.New("device address must be a non-empty IP address")

	// ErrInvalidPollInterval indicates a device poll interval is non-positive.
	ErrInvalidPollInterval = errors.New("device poll_interval must be > 0")

	// ErrDuplicateDeviceKey indicates two devices share the same (name, address) key.
	ErrDuplicateDeviceKey = errors.New("duplicate device key")
)

// Validate checks the configuration for logical errors.
// Returns the first validation error encountered.
func Validate(cfg *Config) error {
	if cfg.Metrics.Addr == "" {
		return ErrEmptyMetricsAddr
	}

	if cfg.Device.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}

	if err := validateDevices(cfg.Devices); err != nil {
		return err
	}

	return nil
}

// validateDevices checks each declarative device entry for correctness.
func validateDevices(devices []DeviceConfig) error {
	seen := make(map[string]struct{}, len(devices))

	for i, dc := range devices {
		if !dc.Multicast {
			if _, err := dc.AddressAddr(); err != nil {
				return fmt.Errorf("devices[%d]: %w", i, err)
			}
		}

		if dc.PollInterval < 0 {
			return fmt.Errorf("devices[%d]: %w", i, ErrInvalidPollInterval)
		}

		key := dc.DeviceKey()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("devices[%d] key %q: %w", i, key, ErrDuplicateDeviceKey)
		}
		seen[key] = struct{}{}
	}

	return nil
}

// -------------------------------------------------------------------------
// Log Level Parsing
// -------------------------------------------------------------------------

// ParseLogLevel maps a configuration log level string to the corresponding
// slog.Level. Unknown values default to slog.LevelInfo.
//
// Recognized values: "debug", "info", "warn", "error" (case-insensitive).
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
