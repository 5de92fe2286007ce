package main

import (
	"os"

	"github.com/MaaXYZ/maa-framework-go/v4"
	"github.com/rs/zerolog/log"
)

func main() {
	logFile, err := initLogger()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	defer logFile.Close()

	log.Info().Str("version", Version).Msg("MaaEnd game video agent")

	if len(os.Args) < 2 {
		log.Fatal().Msg("Usage: game-video <identifier>")
	}

	identifier := os.Args[1]
	log.Info().Str("identifier", identifier).Msg("Starting agent server")

	registerAll()

	if !maa.AgentServerStartUp(identifier) {
		log.Fatal().Msg("Failed to start agent server")
	}
	log.Info().Msg("Agent server started")

	maa.AgentServerJoin()

	maa.AgentServerShutDown()
	log.Info().Msg("Agent server shutdown")
}
