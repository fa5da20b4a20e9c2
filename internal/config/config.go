// Package config defines the CLI surface: global flags plus the command
// tree. Values load from config files (JSON/YAML/TOML) with flags and
// environment variables taking precedence.
package config

import "github.com/agentpad/agentpad/internal/cmd"

// LogOptions are the global logging flags.
type LogOptions struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"AGENTPAD_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" env:"AGENTPAD_LOG_FILE"`
	RawFile string `help:"Write raw HID report hex dumps to this file" env:"AGENTPAD_LOG_RAW_FILE"`
}

// CLI is the root command structure parsed by Kong.
type CLI struct {
	Log    LogOptions `embed:"" prefix:"log."`
	Config string     `help:"Path to a configuration file" env:"AGENTPAD_CONFIG"`

	Run      cmd.Run           `cmd:"" default:"withargs" help:"Run the controller daemon"`
	Sessions cmd.Sessions      `cmd:"" help:"List recent agent session transitions"`
	Conf     cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration utilities"`
}
