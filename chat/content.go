// Package chat defines the role-based content primitives exchanged between
// the workflow orchestrator and model providers: text segments, function
// (tool) invocation requests and their responses. The Part set is closed via
// an unexported marker method.
package chat

// Part represents a polymorphic segment of role-based content.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text string
}

func (TextPart) isPart() {}

// FunctionCall describes a tool invocation request emitted by a model.
type FunctionCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"` // serialized JSON payload
}

// FunctionCallPart wraps a FunctionCall as a content part.
type FunctionCallPart struct {
	FunctionCall FunctionCall
}

func (FunctionCallPart) isPart() {}

// FunctionResponse describes the outcome of a previously emitted function call.
type FunctionResponse struct {
	ID       string `json:"id,omitempty"` // matches originating FunctionCall ID
	Name     string `json:"name"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// FunctionResponsePart wraps a FunctionResponse as a content part.
type FunctionResponsePart struct {
	FunctionResponse FunctionResponse
}

func (FunctionResponsePart) isPart() {}

// Content holds a conversation role plus ordered parts.
type Content struct {
	Role  string `json:"role,omitempty"` // user, assistant, tool, system
	Parts []Part `json:"parts"`
}

// NewUserText builds user-authored text content.
func NewUserText(text string) Content {
	return Content{Role: "user", Parts: []Part{TextPart{Text: text}}}
}

// NewAssistantText builds assistant-authored text content.
func NewAssistantText(text string) Content {
	return Content{Role: "assistant", Parts: []Part{TextPart{Text: text}}}
}

// NewToolResponse builds tool-role content carrying a single function response.
func NewToolResponse(id, name, response string) Content {
	return Content{Role: "tool", Parts: []Part{
		FunctionResponsePart{FunctionResponse: FunctionResponse{ID: id, Name: name, Response: response}},
	}}
}

// Text concatenates all text parts of the content.
func (c Content) Text() string {
	var out string
	for _, p := range c.Parts {
		if tp, ok := p.(TextPart); ok {
			out += tp.Text
		}
	}
	return out
}

// FunctionCalls returns any function call parts preserving emission order.
func (c Content) FunctionCalls() []FunctionCall {
	var calls []FunctionCall
	for _, p := range c.Parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc.FunctionCall)
		}
	}
	return calls
}
