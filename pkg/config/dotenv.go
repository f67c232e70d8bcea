package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from a .env file into the process environment.
// The path comes from ENV_PATH, falling back to defaultPath. A missing file is
// not an error; variables already set in the environment win.
func LoadDotEnv(defaultPath string) error {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		envPath = defaultPath
	}

	if err := godotenv.Load(envPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no .env file, using process environment", slog.String("path", envPath))
			return nil
		}
		return err
	}
	slog.Info("loaded environment file", slog.String("path", envPath))
	return nil
}
