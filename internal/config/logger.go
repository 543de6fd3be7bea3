package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogger configures the standard logrus logger and returns it.
func SetupLogger(cfg *Config) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)

	if cfg.LogFormat == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		log.WithField("value", cfg.LogLevel).Warn("invalid LOG_LEVEL, using info")
	}
	log.SetLevel(level)

	return log
}
