package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// LoadDotenvOnce loads variables from .env (or ENV_FILE) into the environment.
// Variables already set win unless DOTENV_OVERLOAD=1. NO_DOTENV=1 skips loading.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}

	path := ".env"
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		path = envFile
	}

	if os.Getenv("DOTENV_OVERLOAD") == "1" {
		_ = godotenv.Overload(path)
		return
	}
	_ = godotenv.Load(path)
}
