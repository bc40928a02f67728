package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Log     LogConfig     `yaml:"log"`
	Tracker TrackerConfig `yaml:"tracker"`
	Store   StoreConfig   `yaml:"store"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Mock    MockConfig    `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// TrackerConfig contains report aggregation parameters.
type TrackerConfig struct {
	History     int           `yaml:"history"`      // Number of report gaps used to estimate the device interval
	TraceWindow time.Duration `yaml:"trace_window"` // Time span shown in the history trace
}

// StoreConfig contains report history database configuration.
type StoreConfig struct {
	Path          string        `yaml:"path"` // Empty disables the store
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// MQTTConfig contains report publishing configuration.
type MQTTConfig struct {
	URL      string `yaml:"url"` // mqtt://host:port/prefix, empty disables publishing
	ClientID string `yaml:"client_id"`
	QoS      byte   `yaml:"qos"`
}

// MockConfig contains simulated device configuration.
type MockConfig struct {
	TickPeriod time.Duration `yaml:"tick_period"` // Real time per simulated 1 s tick
	LDR1       LightConfig   `yaml:"ldr1"`
	LDR2       LightConfig   `yaml:"ldr2"`
}

// LightConfig describes the simulated light level on one sensor.
type LightConfig struct {
	Mean      float32       `yaml:"mean"`      // Raw counts (0-1023)
	Amplitude float32       `yaml:"amplitude"` // Raw counts
	Period    time.Duration `yaml:"period"`    // Simulated time
	Phase     float32       `yaml:"phase"`     // Radians
	Noise     float32       `yaml:"noise"`     // Raw counts peak
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyUSB0", // Arduino clones enumerate as ttyUSB*, "COM3" on Windows
			BaudRate: 9600,
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracker: TrackerConfig{
			History:     8,
			TraceWindow: 5 * time.Minute,
		},
		Store: StoreConfig{
			Path:          "",
			BatchSize:     10,
			FlushInterval: 30 * time.Second,
		},
		MQTT: MQTTConfig{
			URL:      "",
			ClientID: "ldrmon",
			QoS:      0,
		},
		Mock: MockConfig{
			TickPeriod: 100 * time.Millisecond, // 10x faster than the device
			LDR1: LightConfig{
				Mean:      600,
				Amplitude: 300,
				Period:    2 * time.Minute,
				Phase:     0,
				Noise:     8,
			},
			LDR2: LightConfig{
				Mean:      550,
				Amplitude: 400,
				Period:    3 * time.Minute,
				Phase:     1.5,
				Noise:     8,
			},
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}

	if c.Tracker.History <= 0 {
		c.Tracker.History = def.Tracker.History
	}
	if c.Tracker.TraceWindow <= 0 {
		c.Tracker.TraceWindow = def.Tracker.TraceWindow
	}

	if c.Store.BatchSize <= 0 {
		c.Store.BatchSize = def.Store.BatchSize
	}
	if c.Store.FlushInterval <= 0 {
		c.Store.FlushInterval = def.Store.FlushInterval
	}

	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = def.MQTT.ClientID
	}
	if c.MQTT.QoS > 2 {
		c.MQTT.QoS = def.MQTT.QoS
	}

	if c.Mock.TickPeriod <= 0 {
		c.Mock.TickPeriod = def.Mock.TickPeriod
	}
	if c.Mock.LDR1.Period <= 0 {
		c.Mock.LDR1.Period = def.Mock.LDR1.Period
	}
	if c.Mock.LDR2.Period <= 0 {
		c.Mock.LDR2.Period = def.Mock.LDR2.Period
	}
}
