package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// shell settings, overridable from $XDG_CONFIG_HOME/gotclsh/config.yaml (or
// ~/.config/gotclsh/config.yaml) and GOTCLSH_* environment variables.
type shellConfig struct {
	Prompt      string
	Prompt2     string
	HistoryFile string
	InitScript  string
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gotclsh")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gotclsh")
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gotclsh_history")
}

// loadConfig reads the shell configuration through v. A missing config file
// is not an error; a malformed one is.
func loadConfig(v *viper.Viper) (shellConfig, error) {
	v.SetDefault("prompt", "% ")
	v.SetDefault("prompt2", "> ")
	v.SetDefault("history_file", defaultHistoryFile())
	v.SetDefault("init_script", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir := configDir(); dir != "" {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix("gotclsh")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return shellConfig{}, err
		}
	}
	return shellConfig{
		Prompt:      v.GetString("prompt"),
		Prompt2:     v.GetString("prompt2"),
		HistoryFile: v.GetString("history_file"),
		InitScript:  v.GetString("init_script"),
	}, nil
}
