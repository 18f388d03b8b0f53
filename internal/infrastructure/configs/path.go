package configs

import (
	"flag"
	"os"

	"github.com/computebench/backend/internal/infrastructure/env"
)

// DetermineConfigPath resolves an optional config file. The service runs on
// defaults plus environment overrides when no file is found.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("BACKEND_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/compute-backend/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
