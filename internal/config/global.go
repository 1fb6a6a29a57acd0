package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalConfig is stored in ~/.config/bip/orcid.yml.
type GlobalConfig struct {
	NexusPath           string `yaml:"nexus_path,omitempty" json:"nexus_path,omitempty"`
	DefaultType         string `yaml:"default_type,omitempty" json:"default_type,omitempty"`
	CitationStyle       string `yaml:"citation_style,omitempty" json:"citation_style,omitempty"`
	FormatOutput        *bool  `yaml:"format_output,omitempty" json:"format_output,omitempty"`
	PreserveWhitespace  bool   `yaml:"preserve_whitespace,omitempty" json:"preserve_whitespace,omitempty"`
	LogLevel            string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	ContributorSequence bool   `yaml:"contributor_sequence,omitempty" json:"contributor_sequence,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "bip"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "orcid.yml"

	// EnvDefaultType overrides default_type.
	EnvDefaultType = "BIP_ORCID_DEFAULT_TYPE"
	// EnvNexusPath overrides nexus_path.
	EnvNexusPath = "BIP_ORCID_NEXUS_PATH"
)

// ErrInvalidConfig wraps every problem found in the global config.
var ErrInvalidConfig = errors.New("invalid global config")

var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bip/orcid.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file and applies
// environment overrides. A missing file yields an empty config.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	var cfg GlobalConfig
	if path := GlobalConfigPath(); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing global config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	if v := os.Getenv(EnvDefaultType); v != "" {
		cfg.DefaultType = v
	}
	if v := os.Getenv(EnvNexusPath); v != "" {
		cfg.NexusPath = v
	}
	cfg.NexusPath = ExpandPath(cfg.NexusPath)

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetNexusPath returns the configured nexus path from global config.
func GetNexusPath() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.NexusPath
}

// FormatOutputOrDefault reports whether output is indented; unset means yes.
func (c *GlobalConfig) FormatOutputOrDefault() bool {
	return c.FormatOutput == nil || *c.FormatOutput
}

// Validate checks values against the accepted sets. isWorkType decides
// default_type so this package stays independent of the work vocabulary.
func (c *GlobalConfig) Validate(isWorkType func(string) bool) error {
	var problems []string
	if c.DefaultType != "" && !isWorkType(c.DefaultType) {
		problems = append(problems, fmt.Sprintf("default_type %q is not a work type", c.DefaultType))
	}
	switch c.CitationStyle {
	case "", "bibtex", "none":
	default:
		problems = append(problems, fmt.Sprintf("citation_style %q (valid: bibtex, none)", c.CitationStyle))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "off", "disabled", "none":
	default:
		problems = append(problems, fmt.Sprintf("log_level %q", c.LogLevel))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// HelpfulConfigMessage returns a helpful message when no repository is found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No bipartite repository found.

Tip: Create %s to set a default nexus:
  mkdir -p %s
  echo 'nexus_path: /path/to/your/nexus' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
