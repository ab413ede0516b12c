package bootstrap

import (
	"strings"

	"omnifetch/internal/config"

	"go.uber.org/zap"
)

func newLogger(config *config.Config) (*zap.Logger, error) {
	logger, err := loggerConfig(config.AppConfig).Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// loggerConfig starts from zap's development or production preset. An
// unknown LOG_LEVEL keeps the preset's level.
func loggerConfig(app *config.AppConfig) zap.Config {
	var zapConfig zap.Config

	if app.Debug {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	zapConfig.DisableStacktrace = true
	zapConfig.InitialFields = map[string]interface{}{"service": serviceName}

	if level, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(app.LogLevel))); err == nil {
		zapConfig.Level = level
	}

	return zapConfig
}
