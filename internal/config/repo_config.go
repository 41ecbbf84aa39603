package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

const configFileName = ".branchforest_config"

// Config keys accepted by GetValue and SetValue
const (
	KeyWorkers               = "workers"
	KeyTieBreak              = "tieBreak"
	KeyBackend               = "backend"
	KeyCommandTimeoutSeconds = "commandTimeoutSeconds"
)

// Backends that can answer ancestry queries
const (
	BackendCLI   = "cli"
	BackendGoGit = "gogit"
)

// Environment variables overriding the repository configuration
const (
	EnvWorkers  = "BRANCHFOREST_WORKERS"
	EnvTieBreak = "BRANCHFOREST_TIE_BREAK"
	EnvBackend  = "BRANCHFOREST_BACKEND"
)

// DefaultCommandTimeout matches the git runner's default
const DefaultCommandTimeout = 5 * time.Minute

// RepoConfig represents the repository configuration
type RepoConfig struct {
	Workers               *int    `json:"workers,omitempty"`
	TieBreak              *string `json:"tieBreak,omitempty"`
	Backend               *string `json:"backend,omitempty"`
	CommandTimeoutSeconds *int    `json:"commandTimeoutSeconds,omitempty"`
}

// Settings are the effective resolver settings after defaults and overrides
type Settings struct {
	Workers        int
	TieBreak       string
	Backend        string
	CommandTimeout time.Duration
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		Workers:        1,
		TieBreak:       "native",
		Backend:        BackendCLI,
		CommandTimeout: DefaultCommandTimeout,
	}
}

// ConfigPath returns the location of the configuration file for a repository
func ConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", configFileName)
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(ConfigPath(repoRoot))
	if err != nil {
		// Config doesn't exist - return default
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

func saveRepoConfig(repoRoot string, config *RepoConfig) error {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(repoRoot), configJSON, 0600)
}

// Load returns the effective settings for a repository: defaults, then the
// config file, then environment overrides.
func Load(repoRoot string) (Settings, error) {
	settings := DefaultSettings()

	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return settings, err
	}

	if config.Workers != nil {
		settings.Workers = *config.Workers
	}
	if config.TieBreak != nil {
		settings.TieBreak = *config.TieBreak
	}
	if config.Backend != nil {
		settings.Backend = *config.Backend
	}
	if config.CommandTimeoutSeconds != nil {
		settings.CommandTimeout = time.Duration(*config.CommandTimeoutSeconds) * time.Second
	}

	for _, override := range []struct {
		env string
		key string
	}{
		{EnvWorkers, KeyWorkers},
		{EnvTieBreak, KeyTieBreak},
		{EnvBackend, KeyBackend},
	} {
		value := os.Getenv(override.env)
		if value == "" {
			continue
		}
		if err := settings.Set(override.key, value); err != nil {
			return settings, fmt.Errorf("invalid %s: %w", override.env, err)
		}
	}

	return settings, nil
}

// Set validates value and stores it under key
func (s *Settings) Set(key, value string) error {
	switch key {
	case KeyWorkers:
		n, err := parsePositive(value)
		if err != nil {
			return err
		}
		s.Workers = n
	case KeyTieBreak:
		if value != "native" && value != "lexical" {
			return fmt.Errorf("tie-break must be native or lexical, got %q", value)
		}
		s.TieBreak = value
	case KeyBackend:
		if value != BackendCLI && value != BackendGoGit {
			return fmt.Errorf("backend must be %s or %s, got %q", BackendCLI, BackendGoGit, value)
		}
		s.Backend = value
	case KeyCommandTimeoutSeconds:
		n, err := parsePositive(value)
		if err != nil {
			return err
		}
		s.CommandTimeout = time.Duration(n) * time.Second
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, Keys())
	}
	return nil
}

// Get returns the setting stored under key as text
func (s Settings) Get(key string) (string, error) {
	switch key {
	case KeyWorkers:
		return strconv.Itoa(s.Workers), nil
	case KeyTieBreak:
		return s.TieBreak, nil
	case KeyBackend:
		return s.Backend, nil
	case KeyCommandTimeoutSeconds:
		return strconv.Itoa(int(s.CommandTimeout / time.Second)), nil
	default:
		return "", fmt.Errorf("unknown config key %q (valid keys: %v)", key, Keys())
	}
}

func parsePositive(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a positive integer, got %q", value)
	}
	return n, nil
}

// Keys returns the supported configuration keys
func Keys() []string {
	keys := []string{KeyWorkers, KeyTieBreak, KeyBackend, KeyCommandTimeoutSeconds}
	sort.Strings(keys)
	return keys
}

// GetValue returns the configured value for key, or "" when it is unset
func GetValue(repoRoot, key string) (string, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return "", err
	}

	switch key {
	case KeyWorkers:
		return intString(config.Workers), nil
	case KeyTieBreak:
		return stringValue(config.TieBreak), nil
	case KeyBackend:
		return stringValue(config.Backend), nil
	case KeyCommandTimeoutSeconds:
		return intString(config.CommandTimeoutSeconds), nil
	default:
		return "", fmt.Errorf("unknown config key %q (valid keys: %v)", key, Keys())
	}
}

// SetValue validates value and writes it to the repository configuration
func SetValue(repoRoot, key, value string) error {
	// Validate repo root exists
	if _, err := os.Stat(repoRoot); err != nil {
		return fmt.Errorf("repository root does not exist: %w", err)
	}

	var settings Settings
	if err := settings.Set(key, value); err != nil {
		return err
	}

	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}

	switch key {
	case KeyWorkers:
		config.Workers = &settings.Workers
	case KeyTieBreak:
		config.TieBreak = &settings.TieBreak
	case KeyBackend:
		config.Backend = &settings.Backend
	case KeyCommandTimeoutSeconds:
		seconds := int(settings.CommandTimeout / time.Second)
		config.CommandTimeoutSeconds = &seconds
	}

	return saveRepoConfig(repoRoot, config)
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
