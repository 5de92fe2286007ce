package herorecog

import (
	"github.com/MaaXYZ/maa-framework-go/v4"
)

// Register registers the hero telemetry recognitions and the task start sink.
func Register() {
	maa.AgentServerRegisterCustomRecognition("HeroLevelTrack", &HeroLevelTrackRecognition{})
	maa.AgentServerRegisterCustomRecognition("CooldownRead", &CooldownReadRecognition{})
	maa.AgentServerRegisterCustomRecognition("MoneyRead", &MoneyReadRecognition{})
	maa.AgentServerAddTaskerSink(&TaskStartSink{})
}
