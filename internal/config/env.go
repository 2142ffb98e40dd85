package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file if one exists in the
// current or parent directory. Safe to call more than once.
func LoadEnv(log *logrus.Logger) {
	once.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}

		if err := godotenv.Load(envFile); err != nil {
			log.Warnf("Error loading .env file: %v", err)
			return
		}
		log.Debugf("Loaded environment variables from %s", envFile)
	})
}

// ConfigureLoggingFromConfig configures a logger based on the Config struct.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
