// Package config loads the memorylane configuration file and applies
// environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultFileName = ".memorylane.yaml"

const (
	EnvBackendURL   = "MEMORYLANE_BACKEND_URL"
	EnvDeepgramKey  = "DEEPGRAM_API_KEY"
	EnvLogLevel     = "MEMORYLANE_LOG_LEVEL"
	EnvSpeechVoice  = "MEMORYLANE_VOICE"
	EnvAudioBackend = "MEMORYLANE_AUDIO_BACKEND"
)

const (
	AudioBackendMiniaudio = "miniaudio"
	AudioBackendPortaudio = "portaudio"
	AudioBackendNone      = "none"
)

type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Pacing  PacingConfig  `yaml:"pacing"`
	Speech  SpeechConfig  `yaml:"speech"`
	Audio   AudioConfig   `yaml:"audio"`
	Logging LoggingConfig `yaml:"logging"`
}

type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout bounds every backend request. Zero leaves requests unbounded.
	Timeout time.Duration `yaml:"timeout"`
}

type PacingConfig struct {
	Search    StepPacing `yaml:"search"`
	Narration StepPacing `yaml:"narration"`
}

type StepPacing struct {
	Lead  time.Duration `yaml:"lead"`
	Trail time.Duration `yaml:"trail"`
}

type SpeechConfig struct {
	Enabled bool   `yaml:"enabled"`
	Voice   string `yaml:"voice"`
	APIKey  string `yaml:"api_key"`
	// Announce enables the spoken welcome and result announcements.
	Announce bool `yaml:"announce"`
}

type AudioConfig struct {
	// Backend is the microphone source: miniaudio, portaudio or none.
	Backend             string        `yaml:"backend"`
	CacheTTL            time.Duration `yaml:"cache_ttl"`
	PrefetchConcurrency int           `yaml:"prefetch_concurrency"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"` // debug, info, warn, error
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{BaseURL: "http://localhost:5000"},
		Pacing: PacingConfig{
			Search:    StepPacing{Lead: 800 * time.Millisecond, Trail: 300 * time.Millisecond},
			Narration: StepPacing{Lead: 1500 * time.Millisecond, Trail: 300 * time.Millisecond},
		},
		Speech: SpeechConfig{Enabled: true, Voice: "aura-2-thalia-en", Announce: true},
		Audio: AudioConfig{
			Backend:             AudioBackendMiniaudio,
			CacheTTL:            5 * time.Minute,
			PrefetchConcurrency: 4,
		},
		Logging: LoggingConfig{Level: "info", File: defaultLogFile(), MaxSizeMB: 10, MaxFiles: 3},
	}
}

// DefaultPath is the configuration file in the user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(home, DefaultFileName)
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "memorylane.log"
	}
	return filepath.Join(dir, "memorylane", "memorylane.log")
}

// Load reads the configuration at path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv(EnvBackendURL); url != "" {
		c.Backend.BaseURL = url
	}
	if key := os.Getenv(EnvDeepgramKey); key != "" {
		c.Speech.APIKey = key
	}
	if voice := os.Getenv(EnvSpeechVoice); voice != "" {
		c.Speech.Voice = voice
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if backend := os.Getenv(EnvAudioBackend); backend != "" {
		c.Audio.Backend = backend
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("backend.base_url is required")
	}
	if c.Backend.Timeout < 0 {
		return errors.New("backend.timeout must not be negative")
	}

	switch c.Audio.Backend {
	case AudioBackendMiniaudio, AudioBackendPortaudio, AudioBackendNone:
	default:
		return fmt.Errorf("unknown audio.backend %q", c.Audio.Backend)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}

	return nil
}
