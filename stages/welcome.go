package stages

import (
	"fmt"

	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/tool"
	"github.com/hupe1980/careline/workflow"
)

type consentParams struct {
	Consented bool `json:"consented" description:"True when the caller agrees to continue with the follow-up call"`
}

func newConsentTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"record_consent",
		"Record whether the caller agrees to proceed with the follow-up call.",
		consentParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			consented := boolArg(args, "consented")
			tc.Record().RecordConsent(consented)
			if !consented {
				return "Consent declined. Offer to end the call or arrange a better time.", nil
			}
			return "Consent recorded. Continue with the follow-up.", nil
		},
	)
}

func welcomeStage(cfg Config) *workflow.StageDefinition {
	profile := cfg.Record.Profile()

	def := &workflow.StageDefinition{
		ID:          session.StageWelcome,
		Description: "Greets the caller, confirms identity and collects consent.",
		Instructions: fmt.Sprintf(`You are a friendly care coordinator making a scheduled follow-up call.
You are speaking with %s. Greet them warmly, confirm you are speaking with the right
person, explain this is a routine follow-up after their recent visit and ask whether
now is a good time to talk.

Record their answer with record_consent. If they agree, hand the conversation to the
scheduling stage with transfer_to_stage. If they decline, offer to call back another
time and end the call politely with end_call. If they mention a symptom or worry,
capture it with report_concern before moving on.

Keep replies short and spoken-word natural. Never read out internal ids.`, profile.Name),
		Model: cfg.Primary,
		Transfers: []session.Stage{
			session.StageScheduling,
			session.StageVerification,
		},
	}

	def.RegisterTool(newConsentTool())
	def.RegisterTool(newConcernTool())
	def.RegisterTool(newTransferTool())
	def.RegisterTool(newEndCallTool())

	return def
}
