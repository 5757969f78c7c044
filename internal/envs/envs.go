// Package envs loads environment files before flags are parsed
package envs

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultFiles lists the env files checked at startup, in load order.
func DefaultFiles() []string {
	files := []string{".env", "imagegen.env"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".config/imagegen.env"))
	}
	return files
}

// Load reads every existing file in files. Variables already set in the
// environment win over the files, and earlier files win over later ones.
// It returns the files that were loaded.
func Load(files []string) []string {
	var loaded []string
	for _, envFile := range files {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		log.Debug().Str("envFile", envFile).Msg("env file found, loading environment variables from file")
		if err := godotenv.Load(envFile); err != nil {
			log.Error().Err(err).Str("envFile", envFile).Msg("failed to load environment variables from file")
			continue
		}
		loaded = append(loaded, envFile)
	}
	return loaded
}
