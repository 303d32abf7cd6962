package stages

import (
	"fmt"

	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/tool"
	"github.com/hupe1980/careline/workflow"
)

func newListMedicationsTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"list_medications",
		"Read back the caller's current medication list.",
		struct{}{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			return formatMedications(tc.Record().Medications()), nil
		},
	)
}

func newConfirmMedicationsTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"confirm_medications",
		"Mark the whole medication list as verified after the caller confirms every entry is accurate.",
		struct{}{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			tc.Record().ConfirmMedications()
			return "Medication list confirmed and marked verified.", nil
		},
	)
}

func verificationStage(cfg Config) *workflow.StageDefinition {
	def := &workflow.StageDefinition{
		ID:          session.StageVerification,
		Description: "Walks the caller through their medication list.",
		Instructions: fmt.Sprintf(`You are verifying the medication list with %s after their recent visit.

Their medications on file:
%s

Read each entry back in plain language (name, dose, how often) and ask whether it
matches what they are actually taking. Only after the caller confirms every entry
call confirm_medications. If anything is off, do not confirm; record the discrepancy
with report_concern and reassure them the care team will follow up. If a dose sounds
dangerous or they report side effects, use transfer_to_human.

When verification is done, hand the conversation back with transfer_to_stage, usually
to the confidence stage or back to scheduling.

Keep replies short and spoken-word natural. Never read out internal ids.`,
			cfg.Record.Profile().Name,
			formatMedications(cfg.Record.Medications())),
		Model: cfg.Primary,
		Transfers: []session.Stage{
			session.StageScheduling,
			session.StageConfidence,
		},
	}

	def.RegisterTool(newListMedicationsTool())
	def.RegisterTool(newConfirmMedicationsTool())
	def.RegisterTool(newConcernTool())
	def.RegisterTool(newHumanTransferTool(cfg))
	def.RegisterTool(newTransferTool())

	return def
}
