package herorecog

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// recoLog is the sub-logger of the hero recognition module, with module=herorecog.
var recoLog zerolog.Logger = log.With().Str("module", "herorecog").Logger()
