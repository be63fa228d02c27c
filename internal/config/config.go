package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Environment string
	Port        string
	LogLevel    string
	Upload      UploadConfig
	Processing  ProcessingConfig
}

type UploadConfig struct {
	Dir           string
	MaxFiles      int
	MaxFileSizeMB int64
}

type ProcessingConfig struct {
	Concurrency    int
	RequestTimeout time.Duration
}

func Load() *Config {
	maxFiles, _ := strconv.Atoi(getEnv("MAX_FILES", "10"))
	maxFileSizeMB, _ := strconv.ParseInt(getEnv("MAX_FILE_SIZE_MB", "50"), 10, 64)
	concurrency, _ := strconv.Atoi(getEnv("PROCESSING_CONCURRENCY", "5"))
	timeoutSeconds, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "120"))

	return &Config{
		Environment: getEnv("ENV", "development"),
		Port:        getEnv("PORT", "3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Upload: UploadConfig{
			Dir:           getEnv("UPLOAD_DIR", "./uploads"),
			MaxFiles:      maxFiles,
			MaxFileSizeMB: maxFileSizeMB,
		},
		Processing: ProcessingConfig{
			Concurrency:    concurrency,
			RequestTimeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
