package env

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/DjordjeVuckovic/relecov-tools/pkg/utils"
)

// LoadDotEnv loads .env files into the process environment. ENV_PATH, a
// comma separated list, overrides defaultPaths. Variables already set are
// kept. A missing file is an error only when env is "local" or unset.
func LoadDotEnv(env string, defaultPaths ...string) error {
	paths := utils.SplitNonEmpty(os.Getenv("ENV_PATH"), ",")
	if len(paths) == 0 {
		slog.Info("ENV_PATH is not set, using default paths", "defaultPaths", defaultPaths)
		paths = defaultPaths
	}
	if len(paths) == 0 {
		return nil
	}

	if err := godotenv.Load(paths...); err != nil {
		if env == "local" || env == "" {
			slog.Error("Failed to load environment variables in local mode", "error", err, "paths", paths)
			return err
		}
		slog.Debug("Skipping .env ...", "paths", paths)
	}

	return nil
}
