package herorecog

import (
	"github.com/MaaXYZ/maa-framework-go/v4"
)

var _ maa.TaskerEventSink = &TaskStartSink{}

// TaskStartSink forgets the tracked heroes whenever a task starts, since hero identities
// only hold within one continuous capture.
type TaskStartSink struct{}

// OnTaskerTask handles tasker task events
func (s *TaskStartSink) OnTaskerTask(tasker *maa.Tasker, event maa.EventStatus, detail maa.TaskerTaskDetail) {
	if event != maa.EventStatusStarting {
		return
	}
	heroFocus.Reset()
	if err := shared.restart(); err != nil {
		recoLog.Warn().Err(err).Str("entry", detail.Entry).Msg("hero tracker not reset")
		return
	}
	recoLog.Debug().
		Uint64("task_id", detail.TaskID).
		Str("entry", detail.Entry).
		Msg("hero tracker reset for new task")
}
