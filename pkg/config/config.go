package config

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

const (
	configDir  string = ".crashpad"
	configFile string = "config.yml"
)

// Config defines all configuration options available to be set through the
// config file. The memory access engine itself is policy-free; these values
// are applied by the diagnostics tool that embeds it.
type Config struct {
	// MaxStringLen is the maximum number of bytes, terminator included,
	// that string extraction from a target process will consume when the
	// caller has no better bound.
	MaxStringLen *int `yaml:"max-string-len,omitempty"`

	// StringReadChunk is the scan increment, in bytes, used while looking
	// for a string terminator in target memory.
	StringReadChunk *int `yaml:"string-read-chunk,omitempty"`

	// Log enables logging.
	Log bool `yaml:"log"`
	// LogOutput is a comma separated list of layers to log (procmem, native).
	LogOutput string `yaml:"log-output"`
}

// LoadConfig attempts to populate a Config object from the config.yml file.
func LoadConfig() (*Config, error) {
	err := createConfigPath()
	if err != nil {
		return &Config{}, fmt.Errorf("could not create config directory: %v", err)
	}
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		return &Config{}, fmt.Errorf("unable to get config file path: %v", err)
	}

	hasFile, err := hasConfigFile(fullConfigFile)
	if err != nil {
		return &Config{}, fmt.Errorf("unable to stat config file: %v", err)
	}
	if !hasFile {
		if err := writeDefaultConfig(fullConfigFile); err != nil {
			return &Config{}, fmt.Errorf("error creating default config file: %v", err)
		}
	}

	return LoadConfigAt(fullConfigFile)
}

// LoadConfigAt reads and unmarshals the config file at path.
func LoadConfigAt(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Config{}, fmt.Errorf("unable to read config data: %v", err)
	}

	var c Config
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return &Config{}, fmt.Errorf("unable to decode config file: %v", err)
	}
	return &c, nil
}

// SaveConfig will marshal and save the config struct to disk.
func SaveConfig(conf *Config) error {
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		return err
	}
	return SaveConfigAt(fullConfigFile, conf)
}

// SaveConfigAt will marshal and save the config struct to path.
func SaveConfigAt(path string, conf *Config) error {
	out, err := yaml.Marshal(*conf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}

func hasConfigFile(path string) (bool, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func writeDefaultConfig(path string) error {
	return os.WriteFile(path, []byte(
		`# Configuration file for crashpad diagnostics tools.

# This is the default configuration file. Available options are provided, but disabled.
# Delete the leading hash mark to enable an item.

# Maximum number of bytes, terminator included, consumed when extracting a
# string from a target process without a caller-supplied bound.
# max-string-len: 1024

# Scan increment, in bytes, used while looking for a string terminator.
# string-read-chunk: 256

# Enable logging and select which layers log.
log: false
log-output: ""
`), 0644)
}

// GetConfigFilePath gets the full path to the given config file name.
func GetConfigFilePath(file string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return path.Join(home, configDir, file), nil
}

// createConfigPath creates the directory structure at which all config files
// are saved.
func createConfigPath() error {
	path, err := GetConfigFilePath("")
	if err != nil {
		return err
	}
	return os.MkdirAll(path, 0700)
}
