package stages

import (
	"fmt"

	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/tool"
	"github.com/hupe1980/careline/workflow"
)

type eventsParams struct {
	StartDate string `json:"start_date,omitempty" description:"Inclusive range start, YYYY-MM-DD"`
	EndDate   string `json:"end_date,omitempty" description:"Inclusive range end, YYYY-MM-DD"`
}

func newCalendarTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"get_calendar_events",
		"Look up the caller's calendar, optionally restricted to a date range.",
		eventsParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			start, end := stringArg(args, "start_date"), stringArg(args, "end_date")
			if start != "" && end != "" {
				return formatEvents(tc.Record().EventsBetween(start, end)), nil
			}
			return formatEvents(tc.Record().CalendarEvents()), nil
		},
	)
}

func newCallWindowsTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"check_callback_windows",
		"List the availability windows a follow-up call can be scheduled into.",
		struct{}{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			return formatCallWindows(tc.Record().CallWindows()), nil
		},
	)
}

type scheduleParams struct {
	WindowID string `json:"window_id" description:"Id of the availability window to book"`
}

func newScheduleCallbackTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"schedule_callback",
		"Book a follow-up call into one of the listed availability windows.",
		scheduleParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			id := stringArg(args, "window_id")
			w, ok := tc.Record().FindCallWindow(id)
			if !ok {
				return fmt.Sprintf("No availability window %q exists. Use check_callback_windows and pick a listed id.", id), nil
			}
			call := tc.Record().AppendScheduledCall(w)
			return fmt.Sprintf("Callback booked for %s (%s) %s-%s.", call.Date, w.Day, call.StartTime, call.EndTime), nil
		},
	)
}

type flightSearchParams struct {
	Origin      string `json:"origin" description:"Departure city"`
	Destination string `json:"destination" description:"Arrival city"`
}

func newFlightSearchTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"search_flights",
		"Search the flight catalog for options between two cities.",
		flightSearchParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			flights := tc.Record().FlightsMatching(stringArg(args, "origin"), stringArg(args, "destination"))
			return formatFlights(flights), nil
		},
	)
}

type bookFlightParams struct {
	FlightID string `json:"flight_id" description:"Id of the flight option to book"`
}

func newBookFlightTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"book_flight",
		"Book a flight from the catalog and block the travel time on the calendar.",
		bookFlightParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			id := stringArg(args, "flight_id")
			f, ok := tc.Record().FindFlightOption(id)
			if !ok {
				return fmt.Sprintf("No flight option %q exists. Use search_flights first.", id), nil
			}
			tc.Record().BookFlight(f)
			return fmt.Sprintf("Booked %s %s departing %s at %s for %s. The travel time is blocked on the calendar.",
				f.Airline, f.Route, f.DepartureDate, f.DepartureTime, f.Price), nil
		},
	)
}

type moveMeetingParams struct {
	EventID      string `json:"event_id" description:"Id of the calendar event to move"`
	NewDate      string `json:"new_date" description:"New date, YYYY-MM-DD"`
	NewStartTime string `json:"new_start_time" description:"New start time, HH:MM"`
	NewEndTime   string `json:"new_end_time" description:"New end time, HH:MM"`
}

func newMoveMeetingTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"move_meeting",
		"Reschedule a calendar event to a new date and time.",
		moveMeetingParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			id := stringArg(args, "event_id")
			moved, ok := tc.Record().MoveMeeting(id,
				stringArg(args, "new_date"),
				stringArg(args, "new_start_time"),
				stringArg(args, "new_end_time"))
			if !ok {
				return fmt.Sprintf("No calendar event %q exists. Use get_calendar_events and pick a listed id.", id), nil
			}
			return fmt.Sprintf("Moved %s to %s. It previously ran %s.", moved.Title, moved.New, moved.Old), nil
		},
	)
}

type botQueryParams struct {
	Question string `json:"question" description:"The caller's question, verbatim"`
}

func newHoursBotTool(cfg Config) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"get_call_center_hours",
		"Ask the call-center-hours service when the front desk or clinic lines are staffed.",
		botQueryParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			return cfg.Gateway.QueryHoursBot(tc.Context(), stringArg(args, "question")), nil
		},
	)
}

func newBenefitsBotTool(cfg Config) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"ask_benefits_question",
		"Ask the benefits service about insurance coverage or billing questions.",
		botQueryParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			return cfg.Gateway.QueryBenefitsBot(tc.Context(), stringArg(args, "question")), nil
		},
	)
}

type humanTransferParams struct {
	Reason string `json:"reason" description:"Why the caller needs a human care coordinator"`
}

func newHumanTransferTool(cfg Config) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"transfer_to_human",
		"Warm-transfer the caller to a human care coordinator. Use only when the caller asks for a person or the situation needs one.",
		humanTransferParams{},
		func(tc *tool.Context, args map[string]any) (string, error) {
			participantID, err := cfg.Gateway.TransferToHuman(tc.Context(), stringArg(args, "reason"))
			if err != nil {
				return "", err
			}
			tc.RequestEndCall()
			return fmt.Sprintf("Connected to care coordinator (%s). Say a brief warm hand-off goodbye.", participantID), nil
		},
	)
}

func schedulingStage(cfg Config) *workflow.StageDefinition {
	def := &workflow.StageDefinition{
		ID:          session.StageScheduling,
		Description: "Routing hub: calendar, callbacks, travel and escalations.",
		Instructions: fmt.Sprintf(`You are the scheduling hub of a care follow-up call with %s.
You can review and reschedule their calendar, book follow-up callbacks into the listed
availability windows, search and book flights for upcoming travel, and field questions
that belong to external services.

Their calendar:
%s

Availability windows for callbacks:
%s

Route the conversation onward when a specialized topic comes up: medication questions
go to the verification stage, how-confident-do-you-feel check-ins to the confidence
stage, condition questions to the education stage, follow-up reminders to the
reminders stage and closing the call to the wrapup stage, all via transfer_to_stage.
Use get_call_center_hours for staffing-hours questions, ask_benefits_question for
insurance or billing, and transfer_to_human only when a person is genuinely needed.

Keep replies short and spoken-word natural. Never read out internal ids.`,
			cfg.Record.Profile().Name,
			formatEvents(cfg.Record.CalendarEvents()),
			formatCallWindows(cfg.Record.CallWindows())),
		Model: cfg.Primary,
		Transfers: []session.Stage{
			session.StageVerification,
			session.StageConfidence,
			session.StageEducation,
			session.StageReminders,
			session.StageWrapup,
		},
	}

	def.RegisterTool(newCalendarTool())
	def.RegisterTool(newCallWindowsTool())
	def.RegisterTool(newScheduleCallbackTool())
	def.RegisterTool(newFlightSearchTool())
	def.RegisterTool(newBookFlightTool())
	def.RegisterTool(newMoveMeetingTool())
	def.RegisterTool(newHoursBotTool(cfg))
	def.RegisterTool(newBenefitsBotTool(cfg))
	def.RegisterTool(newHumanTransferTool(cfg))
	def.RegisterTool(newConcernTool())
	def.RegisterTool(newTransferTool())
	def.RegisterTool(newEndCallTool())

	return def
}
