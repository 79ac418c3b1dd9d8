package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/svmahh/25Jun-API-medical-classwork/mcp"
)

func main() {
	if err := mcp.RunMCPServer(); err != nil {
		log.Error().Err(err).Msg("MCP server exited with error")
		os.Exit(1)
	}
}
