package main

import (
	"schedbot/core/logger"
	"schedbot/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
