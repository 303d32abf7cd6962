package careline

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/careline/chat"
	"github.com/hupe1980/careline/model"
	"github.com/hupe1980/careline/session"
)

type scriptModel struct {
	mu        sync.Mutex
	responses []model.Response
	name      string
}

func (m *scriptModel) Generate(context.Context, model.Request) (model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.responses) == 0 {
		return model.Response{Content: chat.NewAssistantText("okay"), FinishReason: "stop"}, nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *scriptModel) Info() model.Info {
	return model.Info{Name: m.name, Provider: "test", SupportsTools: true}
}

type memorySink struct {
	mu    sync.Mutex
	blobs [][]byte
}

func (s *memorySink) Publish(_ context.Context, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs = append(s.blobs, append([]byte(nil), blob...))
	return nil
}

func (s *memorySink) lastState(t *testing.T) map[string]any {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.blobs)
	var env struct {
		State map[string]any `json:"state"`
	}
	require.NoError(t, json.Unmarshal(s.blobs[len(s.blobs)-1], &env))
	return env.State
}

func TestNew_DefaultsToDemoData(t *testing.T) {
	call, err := New(context.Background(), &scriptModel{name: "p"}, &scriptModel{name: "r"})
	require.NoError(t, err)

	assert.Equal(t, "Morgan Avery", call.Record().Profile().Name)
	assert.Equal(t, session.StageWelcome, call.Stage())
	assert.False(t, call.Completed())
}

func TestCall_StartAndGreeting(t *testing.T) {
	sink := &memorySink{}
	call, err := New(context.Background(), &scriptModel{name: "p"}, &scriptModel{name: "r"}, func(o *Options) {
		o.Sink = sink
		o.SessionID = "sess-facade"
	})
	require.NoError(t, err)

	require.NoError(t, call.Start(context.Background()))

	state := sink.lastState(t)
	assert.Equal(t, "welcome", state["stage"])
	assert.Equal(t, "test/p", state["modelLabel"])

	greeting := call.Greeting()
	assert.Contains(t, greeting, "Morgan Avery")
}

func TestCall_ConsentTurnFlowsThroughStages(t *testing.T) {
	primary := &scriptModel{name: "p", responses: []model.Response{
		{
			Content: chat.Content{Role: "assistant", Parts: []chat.Part{
				chat.FunctionCallPart{FunctionCall: chat.FunctionCall{
					ID: "fc-1", Name: "record_consent", Arguments: `{"consented":true}`,
				}},
			}},
			FinishReason: "tool_calls",
		},
		{Content: chat.NewAssistantText("Thanks! Let's get started."), FinishReason: "stop"},
	}}

	sink := &memorySink{}
	call, err := New(context.Background(), primary, &scriptModel{name: "r"}, func(o *Options) {
		o.Sink = sink
	})
	require.NoError(t, err)
	require.NoError(t, call.Start(context.Background()))
	call.Greeting()

	result, err := call.HandleTurn(context.Background(), "sure, now is fine")
	require.NoError(t, err)

	assert.Equal(t, "Thanks! Let's get started.", result.Reply)
	assert.True(t, call.Record().Consented())

	state := sink.lastState(t)
	assert.Equal(t, true, state["consented"])
}
