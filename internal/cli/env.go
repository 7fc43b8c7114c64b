package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that provide flag defaults.
const (
	EnvExercises = "KAREL_EXERCISES"
	EnvLogLevel  = "KAREL_LOG_LEVEL"
	EnvLogFormat = "KAREL_LOG_FORMAT"
	EnvBudget    = "KAREL_BUDGET"
	EnvWorkers   = "KAREL_WORKERS"
	EnvAddr      = "KAREL_ADDR"
)

var envKeys = []string{EnvExercises, EnvLogLevel, EnvLogFormat, EnvBudget, EnvWorkers, EnvAddr}

// Env holds flag defaults read from the environment.
type Env map[string]string

// LoadEnv reads the KAREL_* variables from the process environment and
// then from the given dotenv files. Files that do not exist are skipped.
// The process environment wins over files, and earlier files win over
// later ones.
func LoadEnv(files ...string) (Env, error) {
	env := Env{}
	for _, key := range envKeys {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}

	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for _, key := range envKeys {
			if _, set := env[key]; set {
				continue
			}
			if v, ok := values[key]; ok {
				env[key] = v
			}
		}
	}
	return env, nil
}

func (e Env) get(key, fallback string) string {
	if v, ok := e[key]; ok && v != "" {
		return v
	}
	return fallback
}
