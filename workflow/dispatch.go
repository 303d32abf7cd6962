package workflow

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hupe1980/careline/chat"
	"github.com/hupe1980/careline/escalate"
	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/tool"
)

// Spoken-equivalent results for recoverable dispatch failures. Raw internal
// error text never reaches the conversation.
const (
	msgUnknownTool        = "That capability is not available in this part of the call."
	msgInvalidArguments   = "Some of those details were missing or invalid. Could you try that again?"
	msgInternalError      = "Sorry, something went wrong handling that request. Let's try again."
	msgTransferNotAllowed = "I can't move to that part of the call from here."
	msgTransitionPending  = "A stage change is already underway for this turn."
	msgCallEnded          = "The call has already ended."
)

// DispatchResult reports the outcome of one capability invocation.
type DispatchResult struct {
	// Output is the natural-language result fed back to the model.
	Output string
	// Mutated reports whether the session record changed.
	Mutated bool
	// Transition is non-nil when the call caused a stage change.
	Transition *TransitionResult
}

// Dispatch locates the named capability in the current stage only, validates
// and executes it, resyncs the UI after any mutation, then applies a
// requested transition (mutation first, transition after its resync).
//
// Recoverable conditions (unknown tool, invalid arguments, domain not-found,
// bot failures) come back as ordinary result text. The only error returned is
// a failed human transfer, which the caller must convert into a spoken
// apology rather than silently continuing.
func (o *Orchestrator) Dispatch(ctx context.Context, call chat.FunctionCall) (DispatchResult, error) {
	stage := o.record.Stage()
	if stage == session.StageCompleted {
		return DispatchResult{Output: msgCallEnded}, nil
	}

	def, ok := o.stages[stage]
	if !ok {
		return DispatchResult{Output: msgUnknownTool}, nil
	}

	t, ok := def.Tools[call.Name]
	if !ok {
		// Tools are stage-scoped. No mutation, no publish.
		o.logger.Warn("dispatch.unknown_tool", "tool", call.Name, "stage", string(stage))
		return DispatchResult{Output: msgUnknownTool}, nil
	}

	versionBefore := o.record.Version()

	// A lingering bot escalation spans playback of the bot's answer; the next
	// interaction clears it. The clear counts as a mutation so the UI sees it.
	o.record.ClearEscalation()

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			o.logger.Warn("dispatch.malformed_arguments", "tool", call.Name, "error", err.Error())
			if o.record.Version() != versionBefore {
				o.publisher.Publish(ctx, o.record.Snapshot())
			}
			return DispatchResult{Output: msgInvalidArguments}, nil
		}
	}

	toolCtx := tool.NewContext(ctx, o.record, stage, call.ID, o.logger)

	output, err := t.Call(toolCtx, args)
	mutated := o.record.Version() != versionBefore

	if mutated {
		o.publisher.Publish(ctx, o.record.Snapshot())
	}

	if err != nil {
		return o.dispatchError(call.Name, mutated, err)
	}

	res := DispatchResult{Output: output, Mutated: mutated}
	o.applyActions(ctx, toolCtx.Actions(), &res)
	return res, nil
}

// dispatchError classifies a failed call: human-transfer failures propagate
// as distinguishable errors, everything else degrades to result text.
func (o *Orchestrator) dispatchError(toolName string, mutated bool, err error) (DispatchResult, error) {
	var transferErr *escalate.TransferError
	if errors.As(err, &transferErr) {
		return DispatchResult{Mutated: mutated}, transferErr
	}

	var toolErr *tool.ToolError
	if errors.As(err, &toolErr) && toolErr.Code == tool.CodeValidation {
		return DispatchResult{Output: msgInvalidArguments, Mutated: mutated}, nil
	}

	o.logger.Error("dispatch.tool_failed", "tool", toolName, "error", err.Error())
	return DispatchResult{Output: msgInternalError, Mutated: mutated}, nil
}

// applyActions interprets the orchestration signals accumulated by the tool.
// Mutations were already published, so a transition's snapshot follows the
// mutation's snapshot. Only one hand-off may be in flight per turn; the
// terminal transition is exempt because nothing dispatches after it.
func (o *Orchestrator) applyActions(ctx context.Context, actions *tool.Actions, res *DispatchResult) {
	if actions.EndCall {
		tr := o.Complete(ctx)
		res.Transition = &tr
		return
	}

	if actions.TransferTo == nil {
		return
	}
	if o.turnTransitioned {
		res.Output = msgTransitionPending
		return
	}

	tr, err := o.Transition(ctx, *actions.TransferTo)
	if err != nil {
		o.logger.Warn("dispatch.transfer_rejected", "target", string(*actions.TransferTo), "error", err.Error())
		res.Output = msgTransferNotAllowed
		return
	}
	o.turnTransitioned = true
	res.Transition = &tr
}
