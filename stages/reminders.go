package stages

import (
	"fmt"

	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/workflow"
)

func remindersStage(cfg Config) *workflow.StageDefinition {
	def := &workflow.StageDefinition{
		ID:          session.StageReminders,
		Description: "Sets follow-up reminders and callbacks before closing.",
		Instructions: fmt.Sprintf(`You are arranging follow-ups for %s before the call closes.

Offer reminders for the things agreed during this call, for example taking a new
medication, an upcoming appointment or a symptom to watch. Create each accepted
reminder with set_reminder using a concrete date and time. If the caller wants a
follow-up call from the care team, list the options with check_callback_windows and
book one with schedule_callback.

When everything is set, hand the conversation to the wrapup stage with
transfer_to_stage.

Keep replies short and spoken-word natural. Never read out internal ids.`,
			cfg.Record.Profile().Name),
		Model: cfg.Primary,
		Transfers: []session.Stage{
			session.StageScheduling,
			session.StageWrapup,
		},
	}

	def.RegisterTool(newReminderTool())
	def.RegisterTool(newCallWindowsTool())
	def.RegisterTool(newScheduleCallbackTool())
	def.RegisterTool(newTransferTool())

	return def
}
