package main

import (
	"github.com/MaaXYZ/MaaEnd/agent/game-video/herorecog"
	"github.com/rs/zerolog/log"
)

func registerAll() {
	herorecog.Register()

	log.Info().
		Msg("All custom components and sinks registered successfully")
}
