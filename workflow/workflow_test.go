package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/careline/chat"
	"github.com/hupe1980/careline/model"
	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/tool"
	"github.com/hupe1980/careline/uisync"
)

// scriptModel replays a fixed sequence of responses and records the requests
// it received.
type scriptModel struct {
	mu        sync.Mutex
	responses []model.Response
	requests  []model.Request
	name      string
}

func (m *scriptModel) Generate(_ context.Context, req model.Request) (model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if len(m.responses) == 0 {
		return textResponse("okay"), nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *scriptModel) Info() model.Info {
	name := m.name
	if name == "" {
		name = "script"
	}
	return model.Info{Name: name, Provider: "test", SupportsTools: true}
}

func textResponse(text string) model.Response {
	return model.Response{Content: chat.NewAssistantText(text), FinishReason: "stop"}
}

func callResponse(calls ...chat.FunctionCall) model.Response {
	parts := make([]chat.Part, 0, len(calls))
	for _, c := range calls {
		parts = append(parts, chat.FunctionCallPart{FunctionCall: c})
	}
	return model.Response{
		Content:      chat.Content{Role: "assistant", Parts: parts},
		FinishReason: "tool_calls",
	}
}

// countingSink counts publishes and keeps the last blob.
type countingSink struct {
	mu    sync.Mutex
	count int
	last  []byte
}

func (s *countingSink) Publish(_ context.Context, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	s.last = append([]byte(nil), blob...)
	return nil
}

func (s *countingSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func newTestRecord() *session.Record {
	return session.NewRecord("sess-w", session.DataSet{
		Profile: session.Profile{Name: "Morgan Avery"},
		CallWindows: []session.CallWindow{
			{ID: "slot-1", Date: "2026-05-21", Day: "Thursday", StartTime: "14:00", EndTime: "15:00"},
		},
	})
}

type consentArgs struct {
	Consented bool `json:"consented" description:"Caller consent"`
}

type windowArgs struct {
	WindowID string `json:"window_id" description:"Availability window id"`
}

type transferArgs struct {
	Stage string `json:"stage" description:"Destination stage"`
}

// newTestStages builds a two-stage registry exercising mutation, lookup,
// transfer, end-call and failure paths.
func newTestStages(welcomeModel, schedulingModel model.Model, failingTool tool.Tool) []*StageDefinition {
	welcome := &StageDefinition{
		ID:           session.StageWelcome,
		Description:  "test welcome",
		Instructions: "welcome instructions",
		Model:        welcomeModel,
		Transfers:    []session.Stage{session.StageScheduling},
	}
	welcome.RegisterTool(tool.NewFunctionToolFromStruct(
		"record_consent", "Record consent.", consentArgs{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			consented, _ := args["consented"].(bool)
			tc.Record().RecordConsent(consented)
			return "consent recorded", nil
		}))
	welcome.RegisterTool(tool.NewFunctionToolFromStruct(
		"transfer_to_stage", "Transfer.", transferArgs{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			target, _ := args["stage"].(string)
			tc.RequestTransfer(session.Stage(target))
			return "transferring", nil
		}))
	if failingTool != nil {
		welcome.RegisterTool(failingTool)
	}

	scheduling := &StageDefinition{
		ID:           session.StageScheduling,
		Description:  "test scheduling",
		Instructions: "scheduling instructions",
		Model:        schedulingModel,
		Transfers:    []session.Stage{session.StageWelcome},
	}
	scheduling.RegisterTool(tool.NewFunctionToolFromStruct(
		"schedule_callback", "Book a callback.", windowArgs{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			id, _ := args["window_id"].(string)
			w, ok := tc.Record().FindCallWindow(id)
			if !ok {
				return fmt.Sprintf("No availability window %q exists.", id), nil
			}
			call := tc.Record().AppendScheduledCall(w)
			return "booked " + call.Date, nil
		}))
	scheduling.RegisterTool(tool.NewFunctionToolFromStruct(
		"end_call", "End the call.", struct{}{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			tc.RequestEndCall()
			return "ending", nil
		}))
	scheduling.RegisterTool(tool.NewFunctionToolFromStruct(
		"transfer_to_stage", "Transfer.", transferArgs{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			target, _ := args["stage"].(string)
			tc.RequestTransfer(session.Stage(target))
			return "transferring", nil
		}))

	return []*StageDefinition{welcome, scheduling}
}

func newTestOrchestrator(welcomeModel, schedulingModel model.Model, failingTool tool.Tool) (*Orchestrator, *countingSink, *session.Record, error) {
	record := newTestRecord()
	sink := &countingSink{}
	publisher := uisync.NewPublisher(sink)
	o, err := New(record, publisher, newTestStages(welcomeModel, schedulingModel, failingTool))
	return o, sink, record, err
}
