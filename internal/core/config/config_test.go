package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Empty path",
			input:    "",
			expected: "",
		},
		{
			name:     "Absolute path",
			input:    "/absolute/path",
			expected: "/absolute/path",
		},
		{
			name:     "Relative path",
			input:    "relative/path",
			expected: "relative/path",
		},
		{
			name:     "Home directory only",
			input:    "~",
			expected: home,
		},
		{
			name:     "Home directory with forward slash",
			input:    "~/Downloads",
			expected: filepath.Join(home, "Downloads"),
		},
		{
			name:     "Home directory with backslash (simulated)",
			input:    `~\Downloads`,
			expected: filepath.Join(home, "Downloads"),
		},
		{
			name:     "Invalid tilde use (middle)",
			input:    "/path/~/test",
			expected: "/path/~/test",
		},
		{
			name:     "Invalid tilde use (no separator)",
			input:    "~user",
			expected: "~user", // We don't support ~user expansion currently
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandPath(tt.input)
			if got != tt.expected {
				t.Errorf("ExpandPath(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadFromKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("language: zh\nmax_retries: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Language != "zh" {
		t.Errorf("Language = %q, want zh", cfg.Language)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.MaxRetries)
	}
	if cfg.RetryBackoff != DefaultRetryBackoff {
		t.Errorf("RetryBackoff = %s, want %s", cfg.RetryBackoff, DefaultRetryBackoff)
	}
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative retries", "max_retries: -2\n"},
		{"bad duration", "retry_backoff: soon\n"},
		{"not yaml", "language: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Errorf("LoadFrom(%q) succeeded, want error", tt.content)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	cfg := DefaultConfig()
	cfg.OutputDir = "/videos"
	cfg.RetryBackoff = 10 * time.Second
	cfg.Timeout = time.Minute
	cfg.Plain = true

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# tubegrab configuration file") {
		t.Errorf("saved config is missing the header:\n%s", data)
	}
	if !strings.Contains(string(data), "retry_backoff: 10s") {
		t.Errorf("retry_backoff not saved as a duration string:\n%s", data)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if *got != *cfg {
		t.Errorf("LoadFrom() = %+v, want %+v", got, cfg)
	}
}

func TestSetGet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"language", "zh", "zh"},
		{"output_dir", "/tmp/videos", "/tmp/videos"},
		{"max_retries", "5", "5"},
		{"max_retries", "0", "0"},
		{"retry_backoff", "1m30s", "1m30s"},
		{"timeout", "30s", "30s"},
		{"plain", "true", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%q, %q) error = %v", tt.key, tt.value, err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSetRejects(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"max_retries", "-1"},
		{"max_retries", "three"},
		{"retry_backoff", "5"},
		{"timeout", "-1s"},
		{"plain", "maybe"},
		{"format", "mp4"},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		if err := cfg.Set(tt.key, tt.value); err == nil {
			t.Errorf("Set(%q, %q) succeeded, want error", tt.key, tt.value)
		}
	}

	if _, err := DefaultConfig().Get("format"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get(format) error = %v, want ErrUnknownKey", err)
	}
}

func TestConfigPathUsesHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses APPDATA on windows")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := ConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(home, ".config", "tubegrab", "config.yml")
	if path != want {
		t.Errorf("ConfigPath() = %q, want %q", path, want)
	}

	if Exists() {
		t.Error("Exists() = true before Init")
	}
	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if !Exists() {
		t.Error("Exists() = false after Init")
	}
	if err := Init(); err == nil {
		t.Error("second Init() succeeded, want error")
	}
	if cfg := LoadOrDefault(); cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("LoadOrDefault().MaxRetries = %d", cfg.MaxRetries)
	}
}
