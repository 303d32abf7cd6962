// Package workflow implements the conversational state machine: a registry of
// workflow stages (one specialized agent per stage), the stage-scoped
// capability dispatcher and the transition protocol. Transitions are
// triggered by tool calls emitted during conversation turns, never by
// external events.
package workflow

import (
	"fmt"
	"sort"

	"github.com/hupe1980/careline/model"
	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/tool"
)

// StageDefinition statically describes one workflow stage: its identifier,
// the capability set it exposes, the model backing it and the stages it may
// hand off to. Immutable after orchestrator construction; safe to share.
type StageDefinition struct {
	// ID names the stage.
	ID session.Stage
	// Description is a short human-readable purpose line.
	Description string
	// Instructions is the system prompt while the stage is active.
	Instructions string
	// Model backs conversation turns in this stage.
	Model model.Model
	// Tools is the capability set, looked up by name. Tools are stage-scoped:
	// calling a tool not listed here is a recoverable dispatch error.
	Tools map[string]tool.Tool
	// Transfers lists the stages this stage may hand off to. Every stage must
	// name at least one target so no stage is a dead end.
	Transfers []session.Stage
}

// RegisterTool adds a capability to the stage's set. Intended for use during
// construction only.
func (d *StageDefinition) RegisterTool(t tool.Tool) {
	if d.Tools == nil {
		d.Tools = make(map[string]tool.Tool)
	}
	d.Tools[t.Name()] = t
}

// ToolDefinitions returns the stage's capabilities as normalized model tool
// definitions, sorted by name for deterministic request shapes.
func (d *StageDefinition) ToolDefinitions() []model.ToolDefinition {
	names := make([]string, 0, len(d.Tools))
	for name := range d.Tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]model.ToolDefinition, 0, len(names))
	for _, name := range names {
		t := d.Tools[name]
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// AllowsTransfer reports whether the stage may hand off to target.
func (d *StageDefinition) AllowsTransfer(target session.Stage) bool {
	for _, t := range d.Transfers {
		if t == target {
			return true
		}
	}
	return false
}

// validateStages checks the static stage registry invariants: the welcome
// stage exists as sole initial state, ids are unique, every stage declares at
// least one outgoing transfer and all transfer targets are registered.
func validateStages(stages []*StageDefinition) (map[session.Stage]*StageDefinition, error) {
	byID := make(map[session.Stage]*StageDefinition, len(stages))
	for _, def := range stages {
		if def.ID == session.StageCompleted {
			return nil, fmt.Errorf("workflow: %q is the terminal marker, not a registrable stage", def.ID)
		}
		if _, exists := byID[def.ID]; exists {
			return nil, fmt.Errorf("workflow: duplicate stage %q", def.ID)
		}
		byID[def.ID] = def
	}

	if _, ok := byID[session.StageWelcome]; !ok {
		return nil, fmt.Errorf("workflow: initial stage %q is not registered", session.StageWelcome)
	}

	for _, def := range stages {
		if len(def.Transfers) == 0 {
			return nil, fmt.Errorf("workflow: stage %q declares no outgoing transfers", def.ID)
		}
		for _, target := range def.Transfers {
			if _, ok := byID[target]; !ok {
				return nil, fmt.Errorf("workflow: stage %q transfers to unregistered stage %q", def.ID, target)
			}
		}
		if def.Model == nil {
			return nil, fmt.Errorf("workflow: stage %q has no model", def.ID)
		}
	}

	return byID, nil
}
