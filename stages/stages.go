// Package stages assembles the concrete workflow: seven stage definitions
// with their capability sets, system instructions and hand-off targets. The
// scheduling stage is the routing hub every specialized stage can fall back
// to.
package stages

import (
	"fmt"

	"github.com/hupe1980/careline/escalate"
	"github.com/hupe1980/careline/logging"
	"github.com/hupe1980/careline/model"
	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/workflow"
)

// Config carries the shared collaborators every stage builder needs.
type Config struct {
	// Record is the session state the capabilities read and mutate.
	Record *session.Record
	// Gateway fields the external escalation calls (bots, human transfer).
	Gateway *escalate.Gateway
	// Primary backs the welcome, scheduling, verification, reminders and
	// wrap-up stages.
	Primary model.Model
	// Reflective backs the confidence and education stages, which lean on
	// longer-form empathetic answers.
	Reflective model.Model
	// Logger receives stage construction events.
	Logger logging.Logger
}

// Build returns the full stage registry for one call. The returned slice is
// ready to hand to workflow.New.
func Build(cfg Config) ([]*workflow.StageDefinition, error) {
	if cfg.Record == nil {
		return nil, fmt.Errorf("stages: record is required")
	}
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("stages: escalation gateway is required")
	}
	if cfg.Primary == nil || cfg.Reflective == nil {
		return nil, fmt.Errorf("stages: both models are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NoOpLogger{}
	}

	defs := []*workflow.StageDefinition{
		welcomeStage(cfg),
		schedulingStage(cfg),
		verificationStage(cfg),
		confidenceStage(cfg),
		educationStage(cfg),
		remindersStage(cfg),
		wrapupStage(cfg),
	}

	for _, def := range defs {
		cfg.Logger.Debug("stages.built", "stage", string(def.ID), "tools", len(def.Tools))
	}

	return defs, nil
}
