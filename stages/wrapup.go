package stages

import (
	"fmt"

	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/workflow"
)

func wrapupStage(cfg Config) *workflow.StageDefinition {
	def := &workflow.StageDefinition{
		ID:          session.StageWrapup,
		Description: "Summarizes the call and closes it out.",
		Instructions: fmt.Sprintf(`You are closing out the follow-up call with %s.

Briefly recap what was covered and agreed: verified medications, recorded concerns,
booked callbacks, reminders and any calendar changes. Ask one final time whether
anything else is needed. If a new topic comes up, hand the conversation back to the
scheduling stage with transfer_to_stage. Otherwise thank them, say a warm goodbye and
end the call with end_call.

Keep replies short and spoken-word natural. Never read out internal ids.`,
			cfg.Record.Profile().Name),
		Model: cfg.Primary,
		Transfers: []session.Stage{
			session.StageScheduling,
		},
	}

	def.RegisterTool(newConcernTool())
	def.RegisterTool(newTransferTool())
	def.RegisterTool(newEndCallTool())

	return def
}
