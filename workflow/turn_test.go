package workflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/careline/chat"
	"github.com/hupe1980/careline/escalate"
	"github.com/hupe1980/careline/model"
	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/tool"
)

// -------------------- Plain turns --------------------

func TestHandleTurn_PlainTextReply(t *testing.T) {
	wm := &scriptModel{responses: []model.Response{textResponse("Good morning, Morgan!")}}
	o, _, _, err := newTestOrchestrator(wm, &scriptModel{}, nil)
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))

	result, err := o.HandleTurn(context.Background(), "hello?")

	require.NoError(t, err)
	assert.Equal(t, "Good morning, Morgan!", result.Reply)
	assert.Empty(t, result.Transitions)
	assert.False(t, result.Ended)

	// History: user turn plus assistant reply.
	history := o.History()
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
}

func TestHandleTurn_ToolCallThenVerbalization(t *testing.T) {
	wm := &scriptModel{responses: []model.Response{
		callResponse(chat.FunctionCall{ID: "fc-1", Name: "record_consent", Arguments: `{"consented":true}`}),
		textResponse("Great, thanks for confirming."),
	}}
	o, _, record, err := newTestOrchestrator(wm, &scriptModel{}, nil)
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))

	result, err := o.HandleTurn(context.Background(), "yes, now works")

	require.NoError(t, err)
	assert.Equal(t, "Great, thanks for confirming.", result.Reply)
	assert.True(t, record.Consented())

	// History interleaves user, assistant tool call, tool response, final text.
	history := o.History()
	require.Len(t, history, 4)
	assert.Equal(t, "tool", history[2].Role)

	// The second model request carried the stage's tool definitions again.
	require.Len(t, wm.requests, 2)
	assert.Equal(t, "welcome instructions", wm.requests[1].Instructions)
	assert.NotEmpty(t, wm.requests[1].Tools)
}

// -------------------- Transitions --------------------

func TestHandleTurn_TransferSwitchesModelMidTurn(t *testing.T) {
	wm := &scriptModel{name: "wm", responses: []model.Response{
		callResponse(chat.FunctionCall{ID: "fc-1", Name: "transfer_to_stage", Arguments: `{"stage":"scheduling"}`}),
	}}
	sm := &scriptModel{name: "sm", responses: []model.Response{
		textResponse("Let's look at your calendar."),
	}}
	o, _, record, err := newTestOrchestrator(wm, sm, nil)
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))

	result, err := o.HandleTurn(context.Background(), "let's schedule")

	require.NoError(t, err)
	assert.Equal(t, "Let's look at your calendar.", result.Reply)
	require.Len(t, result.Transitions, 1)
	assert.Equal(t, session.StageScheduling, result.Transitions[0].To)
	assert.True(t, result.Transitions[0].AutoPrompt)

	assert.Equal(t, session.StageScheduling, record.Stage())
	assert.Equal(t, "test/sm", record.ModelLabel())

	// One request to each model, the second under scheduling instructions.
	require.Len(t, wm.requests, 1)
	require.Len(t, sm.requests, 1)
	assert.Equal(t, "scheduling instructions", sm.requests[0].Instructions)
}

func TestHandleTurn_EndCall(t *testing.T) {
	wm := &scriptModel{responses: []model.Response{
		callResponse(chat.FunctionCall{ID: "fc-1", Name: "transfer_to_stage", Arguments: `{"stage":"scheduling"}`}),
	}}
	sm := &scriptModel{responses: []model.Response{
		callResponse(chat.FunctionCall{ID: "fc-2", Name: "end_call", Arguments: `{}`}),
	}}
	o, _, _, err := newTestOrchestrator(wm, sm, nil)
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))

	result, err := o.HandleTurn(context.Background(), "that's all, bye")

	require.NoError(t, err)
	assert.True(t, result.Ended)
	assert.True(t, o.Completed())
	require.Len(t, result.Transitions, 2)
	assert.Equal(t, session.StageCompleted, result.Transitions[1].To)

	// No further turns after completion.
	_, err = o.HandleTurn(context.Background(), "hello?")
	require.Error(t, err)
}

// -------------------- Failure paths --------------------

func TestHandleTurn_TransferFailureSpeaksApology(t *testing.T) {
	failing := tool.NewFunctionToolFromStruct(
		"transfer_to_human", "Warm transfer.", struct{}{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			return "", &escalate.TransferError{Destination: "+15550199", Err: fmt.Errorf("trunk busy")}
		})
	wm := &scriptModel{responses: []model.Response{
		callResponse(chat.FunctionCall{ID: "fc-1", Name: "transfer_to_human", Arguments: `{}`}),
	}}
	o, _, record, err := newTestOrchestrator(wm, &scriptModel{}, failing)
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))

	result, err := o.HandleTurn(context.Background(), "I want a person")

	// The failed hand-off surfaces as a spoken apology, not a fatal error.
	require.NoError(t, err)
	assert.Contains(t, result.Reply, "wasn't able to connect")
	assert.False(t, result.Ended)
	assert.Equal(t, session.StageWelcome, record.Stage())
}

func TestHandleTurn_RoundBudgetExhausted(t *testing.T) {
	var responses []model.Response
	for i := 0; i < 10; i++ {
		responses = append(responses, callResponse(chat.FunctionCall{
			ID: fmt.Sprintf("fc-%d", i), Name: "record_consent", Arguments: `{"consented":true}`,
		}))
	}
	wm := &scriptModel{responses: responses}
	o, _, _, err := newTestOrchestrator(wm, &scriptModel{}, nil)
	require.NoError(t, err)
	require.NoError(t, o.Start(context.Background()))

	result, err := o.HandleTurn(context.Background(), "loop forever")

	require.NoError(t, err)
	assert.Contains(t, result.Reply, "something went wrong")
	assert.Len(t, wm.requests, 8)
}
