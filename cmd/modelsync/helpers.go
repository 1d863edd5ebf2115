package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// defaultConfigFile is used when -config is not given and the file exists.
const defaultConfigFile = "modelsync.yaml"

// loadDotEnv loads environment variables from path. A missing file is not an
// error. Variables already set in the environment win.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// resolveConfigPath picks the config file: the explicit flag, then
// modelsync.yaml in the working directory, then none (built-in defaults).
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}

	return ""
}
