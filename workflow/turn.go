package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/careline/chat"
	"github.com/hupe1980/careline/escalate"
	"github.com/hupe1980/careline/model"
	"github.com/hupe1980/careline/session"
)

const msgTransferFailed = "I'm sorry, I wasn't able to connect you to a care coordinator just now. Let's continue and I can try again in a moment."

// TurnResult reports the outcome of one user turn: the spoken reply, every
// stage transition that occurred while producing it and whether the call
// reached its terminal state.
type TurnResult struct {
	Reply       string
	Transitions []TransitionResult
	Ended       bool
}

// HandleTurn processes one user utterance: it appends the utterance to the
// conversation history, then alternates model generation and capability
// dispatch until the model produces a plain spoken reply, the call ends or
// the round budget is exhausted. A transition mid-turn switches the remaining
// rounds to the new stage's model and instructions.
func (o *Orchestrator) HandleTurn(ctx context.Context, userText string) (TurnResult, error) {
	if o.Completed() {
		return TurnResult{}, fmt.Errorf("workflow: call already completed")
	}

	o.turnTransitioned = false
	o.history = append(o.history, chat.NewUserText(userText))

	return o.runTurn(ctx)
}

func (o *Orchestrator) runTurn(ctx context.Context) (TurnResult, error) {
	var result TurnResult

	for round := 0; round < o.maxToolRounds; round++ {
		def, ok := o.stages[o.record.Stage()]
		if !ok {
			return result, fmt.Errorf("workflow: no stage registered for %q", o.record.Stage())
		}

		resp, err := def.Model.Generate(ctx, model.Request{
			Instructions: def.Instructions,
			Contents:     o.History(),
			Tools:        def.ToolDefinitions(),
		})
		if err != nil {
			return result, fmt.Errorf("workflow: model generation in stage %q: %w", def.ID, err)
		}

		o.history = append(o.history, resp.Content)

		calls := resp.Content.FunctionCalls()
		if len(calls) == 0 {
			result.Reply = resp.Content.Text()
			return result, nil
		}

		ended, failText := o.dispatchRound(ctx, calls, &result)
		if ended {
			result.Ended = true
			result.Reply = strings.TrimSpace(resp.Content.Text())
			return result, nil
		}
		if failText != "" {
			result.Reply = failText
			return result, nil
		}

		// The loop continues so the model can verbalize the tool results; after
		// an auto-prompting transition the next round already runs under the
		// incoming stage's model and instructions.
	}

	o.logger.Warn("turn.round_budget_exhausted", "stage", string(o.record.Stage()), "max_rounds", o.maxToolRounds)
	result.Reply = msgInternalError
	return result, nil
}

// dispatchRound executes one batch of function calls in emission order,
// appending a tool response for each. It reports whether the call ended and a
// non-empty failText when the turn must stop early with a spoken apology.
func (o *Orchestrator) dispatchRound(ctx context.Context, calls []chat.FunctionCall, result *TurnResult) (ended bool, failText string) {
	for _, call := range calls {
		if o.Completed() {
			// A prior call in this batch ended the conversation.
			o.history = append(o.history, chat.NewToolResponse(call.ID, call.Name, msgCallEnded))
			continue
		}

		dr, err := o.Dispatch(ctx, call)
		if err != nil {
			var transferErr *escalate.TransferError
			if errors.As(err, &transferErr) {
				o.logger.Error("turn.transfer_failed", "destination", transferErr.Destination, "error", err.Error())
				o.history = append(o.history, chat.NewToolResponse(call.ID, call.Name, msgTransferFailed))
				failText = msgTransferFailed
				continue
			}
			o.history = append(o.history, chat.NewToolResponse(call.ID, call.Name, msgInternalError))
			continue
		}

		output := dr.Output
		if output == "" {
			output = "done"
		}
		o.history = append(o.history, chat.NewToolResponse(call.ID, call.Name, output))

		if dr.Transition != nil {
			result.Transitions = append(result.Transitions, *dr.Transition)
			if dr.Transition.To == session.StageCompleted {
				ended = true
			}
		}
	}

	return ended, failText
}
