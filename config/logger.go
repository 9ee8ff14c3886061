package config

import (
	"github.com/MonkyMars/gecho"
)

var logger gecho.Logger

// InitializeLogger sets up the process-wide logger. Called once from main's
// init; packages that run before the router exists (database bootstrap,
// schema evolution) reach it through GetLogger.
func InitializeLogger() *gecho.Logger {
	logger = *gecho.NewDefaultLogger()
	return &logger
}

func GetLogger() *gecho.Logger {
	return &logger
}
