package app

import (
	"strings"

	"github.com/hirementis/hirementis/pkg/logger"
)

// ConfigureLogging initialises the process logger from server.log_level.
// An empty level means info.
func ConfigureLogging(level string) error {
	if level = strings.TrimSpace(level); level == "" {
		level = "info"
	}
	return logger.Init(level)
}
