package logger

import "go.uber.org/zap"

// Lg is a no-op until InitLogger runs, so packages can log from tests.
var Lg = zap.NewNop()

func InitLogger(level string) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger, err := cfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	Lg = logger
}
