package internal

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// APIConfig is the server connection section of the config file.
type APIConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

// GenerateConfig holds defaults for the generate command.
type GenerateConfig struct {
	TypeName string `toml:"type-name"`
	Legacy   bool   `toml:"legacy"`
	Out      string `toml:"out"`
}

// Config is the optional typegen.toml config file. Flags and environment
// variables take precedence over anything set here.
type Config struct {
	API      APIConfig         `toml:"api"`
	Generate GenerateConfig    `toml:"generate"`
	Types    map[string]string `toml:"types"`
}

// LoadConfig reads and parses a typegen.toml file.
func LoadConfig(filename string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(filename, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", filename, err)
	}
	return &config, nil
}
