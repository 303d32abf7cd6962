package stages

import (
	"fmt"

	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/tool"
	"github.com/hupe1980/careline/workflow"
)

func newListTopicsTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"list_education_topics",
		"List the educational topics available to discuss with the caller.",
		struct{}{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			return formatTopics(tc.Record().EducationTopics()), nil
		},
	)
}

type topicParams struct {
	TopicID string `json:"topic_id" description:"Id of the education topic to retrieve"`
}

func newGetTopicTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"get_education_topic",
		"Retrieve the summary of one educational topic to explain to the caller.",
		topicParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			id := stringArg(args, "topic_id")
			t, ok := tc.Record().FindEducationTopic(id)
			if !ok {
				return fmt.Sprintf("No education topic %q exists. Use list_education_topics and pick a listed id.", id), nil
			}
			return fmt.Sprintf("%s: %s", t.Title, t.Summary), nil
		},
	)
}

func educationStage(cfg Config) *workflow.StageDefinition {
	def := &workflow.StageDefinition{
		ID:          session.StageEducation,
		Description: "Answers questions from the reference content catalog.",
		Instructions: fmt.Sprintf(`You are answering care questions for %s using the approved content catalog.

Available topics:
%s

Answer only from topic summaries retrieved with get_education_topic, rephrased into
plain spoken language. Never improvise medical guidance beyond the catalog; if a
question falls outside it, say so, capture it with report_concern and offer the care
team follow-up. Insurance and billing questions go to ask_benefits_question instead.

When the caller has no more questions, hand the conversation onward with
transfer_to_stage, usually to the reminders stage.

Keep replies short and spoken-word natural. Never read out internal ids.`,
			cfg.Record.Profile().Name,
			formatTopics(cfg.Record.EducationTopics())),
		Model: cfg.Reflective,
		Transfers: []session.Stage{
			session.StageScheduling,
			session.StageReminders,
		},
	}

	def.RegisterTool(newListTopicsTool())
	def.RegisterTool(newGetTopicTool())
	def.RegisterTool(newBenefitsBotTool(cfg))
	def.RegisterTool(newConcernTool())
	def.RegisterTool(newTransferTool())

	return def
}
