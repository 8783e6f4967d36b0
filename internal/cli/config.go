package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Timeout   time.Duration

	// fileErr is reported once a command runs, so --help still works with a broken file
	fileErr error
}

// FileConfig is the optional TOML file at ~/.watchlist/config.toml (env: WATCHLIST_CONFIG)
type FileConfig struct {
	Server    string        `toml:"server"`
	TokenFile string        `toml:"token_file"`
	Output    string        `toml:"output"`
	Timeout   time.Duration `toml:"timeout"`
}

// DefaultConfig returns a Config with default values.
// Precedence is flag, then env, then config file, then built-in default.
func DefaultConfig() *Config {
	c := &Config{
		ServerURL: "http://localhost:8080",
		TokenFile: defaultTokenFile(),
		Output:    "text",
		Timeout:   30 * time.Second,
	}

	fc, err := LoadFileConfig(getEnvOrDefault("WATCHLIST_CONFIG", defaultConfigFile()))
	if err != nil {
		c.fileErr = err
	} else {
		c.applyFile(fc)
	}

	c.ServerURL = getEnvOrDefault("WATCHLIST_SERVER", c.ServerURL)
	c.Token = os.Getenv("WATCHLIST_TOKEN")
	c.TokenFile = getEnvOrDefault("WATCHLIST_TOKEN_FILE", c.TokenFile)
	return c
}

// LoadFileConfig reads a TOML config file. A missing file yields an empty config.
func LoadFileConfig(path string) (*FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &fc, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}

func (c *Config) applyFile(fc *FileConfig) {
	if fc.Server != "" {
		c.ServerURL = fc.Server
	}
	if fc.TokenFile != "" {
		c.TokenFile = fc.TokenFile
	}
	if fc.Output != "" {
		c.Output = fc.Output
	}
	if fc.Timeout > 0 {
		c.Timeout = fc.Timeout
	}
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.fileErr != nil {
		return c.fileErr
	}
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No token file is fine
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken saves the token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token

	dir := filepath.Dir(c.TokenFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.TokenFile, []byte(token), 0600)
}

// ClearToken removes the saved token
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultTokenFile() string {
	return filepath.Join(configDir(), "token")
}

func defaultConfigFile() string {
	return filepath.Join(configDir(), "config.toml")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".watchlist"
	}
	return filepath.Join(home, ".watchlist")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
