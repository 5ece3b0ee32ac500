// Package env layers optional defaults from the process environment or a
// .env file under the CLI's flags.
package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Environment carries the optional CLI defaults. Unset variables leave
// zero values; flags win over everything here.
type Environment struct {
	Input string
	Mode  string
	Speed float64
	Seed  int64
}

// LoadEnv reads a .env file when present and the PETRISIM_* variables.
// Nothing here is required; malformed numbers are logged and skipped.
func LoadEnv(logger *zap.Logger) *Environment {
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env file")
	}
	e := &Environment{}
	e.Input = os.Getenv("PETRISIM_INPUT")
	e.Mode = os.Getenv("PETRISIM_MODE")
	if v, ok := os.LookupEnv("PETRISIM_SPEED"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			logger.Warn("ignoring PETRISIM_SPEED", zap.String("value", v), zap.Error(err))
		} else {
			e.Speed = f
		}
	}
	if v, ok := os.LookupEnv("PETRISIM_SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			logger.Warn("ignoring PETRISIM_SEED", zap.String("value", v), zap.Error(err))
		} else {
			e.Seed = n
		}
	}
	return e
}
