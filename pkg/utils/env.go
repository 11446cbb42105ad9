package utils

import (
	"os"
)

const (
	LogLevel  = "MLDEPLOY_LOG_LEVEL"
	LogFormat = "MLDEPLOY_LOG_FORMAT"
	ConfPath  = "MLDEPLOY_CONFIG"
)

func getFromEnv(varName string) string {
	return os.Getenv(varName)
}

func GetLogLevel() string {
	return getFromEnv(LogLevel)
}

func GetLogFormat() string {
	return getFromEnv(LogFormat)
}

func GetConfigPath() string {
	return getFromEnv(ConfPath)
}
