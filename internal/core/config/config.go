package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = "tubegrab"

	DefaultLanguage     = "en"
	DefaultMaxRetries   = 3
	DefaultRetryBackoff = 5 * time.Second
)

// ErrUnknownKey is returned by Set and Get for keys not in Keys
var ErrUnknownKey = errors.New("unknown config key")

// ConfigDir returns the standard config directory for tubegrab.
// Windows: %APPDATA%\tubegrab\
// macOS/Linux: ~/.config/tubegrab/
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, AppDirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
// e.g., ~/.config/tubegrab/config.yml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

type Config struct {
	// Language for messages ("en", "zh")
	Language string `yaml:"language,omitempty"`

	// Default output directory, empty means the current directory
	OutputDir string `yaml:"output_dir,omitempty"`

	// Attempts made when YouTube rate limits a download. 0 disables downloads.
	MaxRetries int `yaml:"max_retries"`

	// Fixed wait between rate-limited attempts (e.g., "5s")
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// HTTP client timeout, 0 means none
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Plain disables the interactive progress display
	Plain bool `yaml:"plain,omitempty"`
}

// Keys lists the keys accepted by Set and Get
var Keys = []string{"language", "output_dir", "max_retries", "retry_backoff", "timeout", "plain"}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Language:     DefaultLanguage,
		MaxRetries:   DefaultMaxRetries,
		RetryBackoff: DefaultRetryBackoff,
	}
}

// Exists checks if config file exists
func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config from ~/.config/tubegrab/config.yml
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Keys missing from the file keep their
// default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	// Expand tilde in OutputDir
	cfg.OutputDir = ExpandPath(cfg.OutputDir)

	return cfg, nil
}

// Validate reports values the downloader cannot use
func (c *Config) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry_backoff must be >= 0, got %s", c.RetryBackoff)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %s", c.Timeout)
	}
	return nil
}

// ExpandPath expands the tilde (~) in the path to the user's home directory.
// It handles both forward and backward slashes to ensure cross-platform compatibility
// for configuration files.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		// Only expand if it's explicitly "~", "~/", or "~\"
		if len(path) == 1 || path[1] == '/' || path[1] == '\\' {
			home, err := os.UserHomeDir()
			if err == nil {
				subPath := path[1:]
				// Handle the separator manually so "~\Videos" also works on macOS/Linux
				if len(subPath) > 0 && (subPath[0] == '/' || subPath[0] == '\\') {
					subPath = subPath[1:]
				}
				return filepath.Join(home, subPath)
			}
		}
	}

	return path
}

// Save writes the config to ~/.config/tubegrab/config.yml
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(cfg, configPath)
}

// SaveTo writes the config to path, creating its directory
func SaveTo(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Add a header comment
	header := "# tubegrab configuration file\n# Run 'tubegrab init' to regenerate with defaults\n\n"
	content := header + string(data)

	return os.WriteFile(path, []byte(content), 0644)
}

// SavePath returns the path where config will be saved
func SavePath() string {
	if path, err := ConfigPath(); err == nil {
		return path
	}
	return ConfigFileName
}

// Init creates a new config.yml with default values
func Init() error {
	if Exists() {
		path, _ := ConfigPath()
		return fmt.Errorf("%s already exists", path)
	}
	return Save(DefaultConfig())
}

// LoadOrDefault loads config if it exists, otherwise returns defaults
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		cfg = DefaultConfig()
	}
	return cfg
}

// Set parses value and assigns it to key
func (c *Config) Set(key, value string) error {
	switch key {
	case "language":
		c.Language = value
	case "output_dir":
		c.OutputDir = ExpandPath(value)
	case "max_retries":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid max_retries %q: want a number >= 0", value)
		}
		c.MaxRetries = n
	case "retry_backoff", "timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid %s %q: want a duration such as 5s", key, value)
		}
		if key == "timeout" {
			c.Timeout = d
		} else {
			c.RetryBackoff = d
		}
	case "plain":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid plain %q: want true or false", value)
		}
		c.Plain = b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Get returns the value of key formatted the way Set accepts it
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "language":
		return c.Language, nil
	case "output_dir":
		return c.OutputDir, nil
	case "max_retries":
		return strconv.Itoa(c.MaxRetries), nil
	case "retry_backoff":
		return c.RetryBackoff.String(), nil
	case "timeout":
		return c.Timeout.String(), nil
	case "plain":
		return strconv.FormatBool(c.Plain), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}
