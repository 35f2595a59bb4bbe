package cli

import (
	"fmt"
	"os"
	"time"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the CLI's global flags
type Config struct {
	ServerURL string
	Output    string
	// Timeout bounds each API call. Answers judged by the model can take tens of seconds.
	Timeout time.Duration
	Verbose bool
}

// DefaultConfig reads defaults from ACADEMY_SERVER, ACADEMY_OUTPUT and ACADEMY_TIMEOUT
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("ACADEMY_SERVER", "http://localhost:8080"),
		Output:    getEnvOrDefault("ACADEMY_OUTPUT", FormatText),
		Timeout:   durationEnvOrDefault("ACADEMY_TIMEOUT", 90*time.Second),
	}
}

// Validate rejects flag combinations the commands cannot honour
func (c *Config) Validate() error {
	switch c.Output {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", c.Output, FormatText, FormatJSON)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func durationEnvOrDefault(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultVal
}
