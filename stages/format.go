package stages

import (
	"fmt"
	"strings"

	"github.com/hupe1980/careline/session"
)

// The formatters render domain data into the compact line-per-entry form the
// stage instructions and tool results use.

func formatEvents(events []session.CalendarEvent) string {
	if len(events) == 0 {
		return "No calendar events."
	}
	var b strings.Builder
	for _, evt := range events {
		fmt.Fprintf(&b, "- [%s] %s on %s (%s) %s-%s", evt.ID, evt.Title, evt.Date, evt.Day, evt.StartTime, evt.EndTime)
		if len(evt.Attendees) > 0 {
			fmt.Fprintf(&b, " with %s", strings.Join(evt.Attendees, ", "))
		}
		if evt.Type == "travel" {
			b.WriteString(" [travel]")
		}
		if evt.Moved {
			fmt.Fprintf(&b, " (moved from %s %s-%s)", evt.OriginalDate, evt.OriginalStartTime, evt.OriginalEndTime)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatFlights(flights []session.FlightOption) string {
	if len(flights) == 0 {
		return "No matching flights."
	}
	var b strings.Builder
	for _, f := range flights {
		fmt.Fprintf(&b, "- [%s] %s %s, departs %s %s, arrives %s, %s\n",
			f.ID, f.Airline, f.Route, f.DepartureDate, f.DepartureTime, f.ArrivalTime, f.Price)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCallWindows(windows []session.CallWindow) string {
	if len(windows) == 0 {
		return "No availability windows."
	}
	var b strings.Builder
	for _, w := range windows {
		fmt.Fprintf(&b, "- [%s] %s (%s) %s-%s\n", w.ID, w.Date, w.Day, w.StartTime, w.EndTime)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatMedications(meds []session.Medication) string {
	if len(meds) == 0 {
		return "No medications on file."
	}
	var b strings.Builder
	for _, m := range meds {
		fmt.Fprintf(&b, "- [%s] %s %s, %s", m.ID, m.Name, m.Dosage, m.Schedule)
		if m.Verified {
			b.WriteString(" (verified)")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTopics(topics []session.EducationTopic) string {
	if len(topics) == 0 {
		return "No topics available."
	}
	var b strings.Builder
	for _, t := range topics {
		fmt.Fprintf(&b, "- [%s] %s\n", t.ID, t.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}
