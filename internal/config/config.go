package config

const VERSION = "0.1.0"

// Config holds global application settings
type Config struct {
	Debug   bool
	Quiet   bool
	Version string

	// Request defaults, overridable per invocation
	Cluster    string
	Executable string
	DirName    string
	Weekly     bool
	OutputFile string
	ErrorFile  string

	// MinVersion is the tool version the site config requires
	MinVersion string
}

// Global holds the singleton configuration instance
var Global Config

// LoadDefaults resets Global to built-in defaults
func LoadDefaults() {
	Global = Config{
		Debug:   false,
		Quiet:   false,
		Version: VERSION,
	}
}
