package stages

import (
	"fmt"

	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/tool"
)

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// intArg tolerates the float64 produced by JSON decoding.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

type transferParams struct {
	Stage  string `json:"stage" description:"Destination stage identifier"`
	Reason string `json:"reason,omitempty" description:"Short reason for the hand-off"`
}

// newTransferTool hands control to another stage. Whether the destination is
// reachable from the current stage is enforced by the workflow; a disallowed
// target comes back as a recoverable result.
func newTransferTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"transfer_to_stage",
		"Hand the conversation to another part of the call, for example scheduling, verification, confidence, education, reminders or wrapup.",
		transferParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			target := session.Stage(stringArg(args, "stage"))
			tc.RequestTransfer(target)
			return fmt.Sprintf("Handing the conversation to the %s stage.", target), nil
		},
	)
}

// newEndCallTool requests the terminal transition.
func newEndCallTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"end_call",
		"End the call once the caller has said goodbye and nothing remains open.",
		struct{}{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			tc.RequestEndCall()
			return "Ending the call.", nil
		},
	)
}

type concernParams struct {
	Concern string `json:"concern" description:"The caller's concern in their own words"`
}

// newConcernTool records a caller concern. Concerns accumulate for the whole
// call and feed the warm-transfer summary.
func newConcernTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"report_concern",
		"Record a concern, symptom or question the caller raised so it is not lost.",
		concernParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			concern := stringArg(args, "concern")
			tc.Record().AppendConcern(concern)
			return "Noted. The care team will see this concern.", nil
		},
	)
}

type reminderParams struct {
	Label    string `json:"label" description:"What to remind the caller about"`
	RemindAt string `json:"remind_at" description:"When to remind, for example 2026-05-21 09:00"`
}

func newReminderTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"set_reminder",
		"Set a follow-up reminder for the caller.",
		reminderParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			rem := tc.Record().AppendReminder(stringArg(args, "label"), stringArg(args, "remind_at"))
			return fmt.Sprintf("Reminder set: %s at %s.", rem.Label, rem.RemindAt), nil
		},
	)
}
