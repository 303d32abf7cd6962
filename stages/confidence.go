package stages

import (
	"fmt"

	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/tool"
	"github.com/hupe1980/careline/workflow"
)

type confidenceParams struct {
	Score int `json:"score" description:"Self-reported confidence from 0 (not at all) to 10 (fully confident)"`
}

func newConfidenceScoreTool() tool.Tool {
	const name = "record_confidence_score"
	return tool.NewFunctionToolFromStruct(
		name,
		"Record the caller's self-reported confidence in managing their care, on a 0 to 10 scale.",
		confidenceParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			score, ok := intArg(args, "score")
			if !ok || score < 0 || score > 10 {
				return "", tool.NewToolError(name, "score must be an integer between 0 and 10", tool.CodeValidation)
			}
			tc.Record().RecordConfidenceScore(score)
			if score <= 4 {
				return fmt.Sprintf("Score %d recorded. The caller is not feeling confident; acknowledge that and suggest the education stage or a human care coordinator.", score), nil
			}
			return fmt.Sprintf("Score %d recorded.", score), nil
		},
	)
}

func confidenceStage(cfg Config) *workflow.StageDefinition {
	def := &workflow.StageDefinition{
		ID:          session.StageConfidence,
		Description: "Captures the caller's self-reported confidence score.",
		Instructions: fmt.Sprintf(`You are checking in on how confident %s feels about managing their
care at home. Ask one open question first, listen, then ask them to put it on a scale
from 0 to 10 and record the answer with record_confidence_score.

A low score is not a problem to fix in this stage. Acknowledge it, capture anything
specific they are unsure about with report_concern, and offer the education stage
through transfer_to_stage. Once the score is recorded, hand the conversation onward.

Be warm and unhurried. Keep replies short and spoken-word natural.`,
			cfg.Record.Profile().Name),
		Model: cfg.Reflective,
		Transfers: []session.Stage{
			session.StageScheduling,
			session.StageEducation,
		},
	}

	def.RegisterTool(newConfidenceScoreTool())
	def.RegisterTool(newConcernTool())
	def.RegisterTool(newTransferTool())

	return def
}
