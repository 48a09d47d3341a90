package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
)

// New builds the process-wide zap logger. GIN_MODE doubles as the
// environment switch, matching how the rest of the stack is configured.
func New() *zap.Logger {
	var cfg zap.Config
	if os.Getenv("GIN_MODE") == "release" {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return l
}
