// Package config loads the optional fluid.yaml that tunes animation
// defaults, logging, navigation transitions and the MQTT bridge.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/xanimation"
)

// FileName is the configuration file looked up in a project directory.
const FileName = "fluid.yaml"

// Config represents fluid.yaml. Fields missing from the file keep the values
// of [Default].
type Config struct {
	App        AppConfig        `yaml:"app"`
	Animation  AnimationConfig  `yaml:"animation"`
	Log        LogConfig        `yaml:"log"`
	Navigation NavigationConfig `yaml:"navigation"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
}

// AppConfig contains application metadata. Empty values are derived from
// go.mod by [Resolve].
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
	ID   string `yaml:"id,omitempty"`
}

// AnimationConfig sets package defaults.
type AnimationConfig struct {
	Duration  time.Duration `yaml:"duration"`
	Easing    string        `yaml:"easing,omitempty"`
	FrameRate int           `yaml:"frameRate"`
}

// FrameInterval returns the time between frames at FrameRate.
func (a AnimationConfig) FrameInterval() time.Duration {
	if a.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(a.FrameRate)
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format,omitempty"` // text or json
	Verbose bool   `yaml:"verbose"`
}

// NavigationConfig tunes page transitions and the swipe-back gesture.
type NavigationConfig struct {
	Width         float64       `yaml:"width"`
	Height        float64       `yaml:"height"`
	Duration      time.Duration `yaml:"duration"`
	SnapThreshold float64       `yaml:"snapThreshold"`
	Parallax      float64       `yaml:"parallax"`
	MinSnap       time.Duration `yaml:"minSnap"`
}

// MQTTConfig configures the broker bridge.
type MQTTConfig struct {
	URL         string        `yaml:"url,omitempty"`
	ClientID    string        `yaml:"clientID,omitempty"`
	Username    string        `yaml:"username,omitempty"`
	Password    string        `yaml:"password,omitempty"`
	QoS         byte          `yaml:"qos"`
	TopicPrefix string        `yaml:"topicPrefix,omitempty"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Enabled reports whether a broker URL is configured.
func (m MQTTConfig) Enabled() bool { return m.URL != "" }

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Animation: AnimationConfig{
			Duration:  xanimation.DefaultDuration,
			Easing:    "linear",
			FrameRate: 60,
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Navigation: NavigationConfig{
			Width:         375,
			Height:        667,
			Duration:      300 * time.Millisecond,
			SnapThreshold: 0.33,
			Parallax:      0.25,
			MinSnap:       200 * time.Millisecond,
		},
		MQTT: MQTTConfig{
			TopicPrefix: "fluid/",
			Timeout:     5 * time.Second,
		},
	}
}

// LoadOptional reads fluid.yaml from dir if present, otherwise returns
// [Default].
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fluiderrors.New("config.Load", fluiderrors.KindConfig,
			fmt.Errorf("failed to read %s: %w", filepath.Base(path), err))
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fluiderrors.New("config.Load", fluiderrors.KindConfig,
			fmt.Errorf("%s: %w", filepath.Base(path), err))
	}
	return cfg, nil
}

// Parse decodes YAML over [Default] and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Animation.Duration < 0 {
		errs = append(errs, fmt.Errorf("animation.duration must not be negative (got %v)", c.Animation.Duration))
	}
	if c.Animation.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("animation.frameRate must be positive (got %d)", c.Animation.FrameRate))
	}
	if _, err := xanimation.ParseEasing(c.Animation.Easing); err != nil {
		errs = append(errs, fmt.Errorf("animation.easing: %w", err))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "" && c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format))
	}
	if c.Navigation.Width <= 0 || c.Navigation.Height <= 0 {
		errs = append(errs, fmt.Errorf("navigation size must be positive (got %vx%v)", c.Navigation.Width, c.Navigation.Height))
	}
	if c.Navigation.Duration < 0 || c.Navigation.MinSnap < 0 {
		errs = append(errs, errors.New("navigation durations must not be negative"))
	}
	if t := c.Navigation.SnapThreshold; t <= 0 || t >= 1 {
		errs = append(errs, fmt.Errorf("navigation.snapThreshold must be in (0, 1) (got %v)", t))
	}
	if p := c.Navigation.Parallax; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("navigation.parallax must be in [0, 1] (got %v)", p))
	}
	if c.MQTT.QoS > 2 {
		errs = append(errs, fmt.Errorf("mqtt.qos must be 0, 1 or 2 (got %d)", c.MQTT.QoS))
	}
	if c.MQTT.Timeout < 0 {
		errs = append(errs, fmt.Errorf("mqtt.timeout must not be negative (got %v)", c.MQTT.Timeout))
	}
	if len(errs) == 0 {
		return nil
	}
	return fluiderrors.New("config.Validate", fluiderrors.KindConfig, errors.Join(errs...))
}

// ParsedEasing returns the default easing; nil means linear.
func (a AnimationConfig) ParsedEasing() (*xanimation.Easing, error) {
	return xanimation.ParseEasing(a.Easing)
}
