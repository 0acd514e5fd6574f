package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	PlayerToken string
	PlayerFile  string
	Output      string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("DRAWGUESS_SERVER", "http://localhost:8080"),
		PlayerToken: os.Getenv("DRAWGUESS_PLAYER"),
		PlayerFile:  getEnvOrDefault("DRAWGUESS_PLAYER_FILE", defaultPlayerFile()),
		Output:      "text",
	}
}

// LoadPlayer loads the player token from file if not already set
func (c *Config) LoadPlayer() error {
	if c.PlayerToken != "" {
		return nil
	}

	data, err := os.ReadFile(c.PlayerFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No player file is fine
		}
		return err
	}

	c.PlayerToken = strings.TrimSpace(string(data))
	return nil
}

// SavePlayer saves the player token to the player file
func (c *Config) SavePlayer(token string) error {
	c.PlayerToken = token

	dir := filepath.Dir(c.PlayerFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.PlayerFile, []byte(token), 0600)
}

// ClearPlayer forgets the saved player token
func (c *Config) ClearPlayer() error {
	c.PlayerToken = ""
	if err := os.Remove(c.PlayerFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultPlayerFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".drawguess/player"
	}
	return filepath.Join(home, ".drawguess", "player")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
