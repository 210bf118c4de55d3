package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFilename is the name of the config file
const ConfigFilename = "config"

// ConfigType is the type of config file (yaml, json, toml)
const ConfigType = "yaml"

// InitViper initializes Viper with proper search paths and defaults
// Priority (highest to lowest):
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (LBANNCTL_*)
// 3. User config file (~/.config/lbannctl/config.yaml)
// 4. System config file (/etc/lbannctl/config.yaml)
// 5. Defaults
func InitViper() error {
	viper.SetConfigName(ConfigFilename)
	viper.SetConfigType(ConfigType)

	// User config (highest priority)
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(userConfigDir, "lbannctl"))
	}

	// Home directory fallback
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".lbannctl"))
	}

	// System-wide config (lower priority)
	viper.AddConfigPath("/etc/lbannctl")

	// Current directory (for development)
	viper.AddConfigPath(".")

	// Environment variables
	viper.SetEnvPrefix("LBANNCTL")
	viper.AutomaticEnv()

	// Set defaults (lowest priority)
	setDefaults()

	// Read config file (non-fatal if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults apply
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for all config keys
func setDefaults() {
	viper.SetDefault("cluster", "")
	viper.SetDefault("executable", "")
	viper.SetDefault("dir_name", "")
	viper.SetDefault("weekly", false)
	viper.SetDefault("output_file", "")
	viper.SetDefault("error_file", "")
	viper.SetDefault("min_version", "")
}

// LoadFromViper copies resolved Viper values into the Global config
func LoadFromViper() {
	Global.Cluster = viper.GetString("cluster")
	Global.Executable = viper.GetString("executable")
	Global.DirName = viper.GetString("dir_name")
	Global.Weekly = viper.GetBool("weekly")
	Global.OutputFile = viper.GetString("output_file")
	Global.ErrorFile = viper.GetString("error_file")
	Global.MinVersion = viper.GetString("min_version")
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".lbannctl", ConfigFilename+"."+ConfigType), nil
	}
	return filepath.Join(userConfigDir, "lbannctl", ConfigFilename+"."+ConfigType), nil
}
