package main

import (
	"github.com/OFFIS-RIT/umlreview/internal/server"
	"github.com/OFFIS-RIT/umlreview/internal/util"
	"github.com/OFFIS-RIT/umlreview/pkg/logger"
	"github.com/OFFIS-RIT/umlreview/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	format, formatErr := console.ParseFormat(util.GetEnv("LOG_FORMAT"))

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  debug,
		Format: format,
	})
	logger.Init(consoleLogger)
	if formatErr != nil {
		logger.Warn("Falling back to text logs", "err", formatErr)
	}

	server.Init()
}
