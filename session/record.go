// Package session holds the single mutable source of truth for one live
// conversation: caller profile and calendar-style domain data, consent and
// verification flags, append-only collections accumulated over the call, the
// active workflow stage and the escalation indicator.
//
// Contract:
//   - All mutations go through named, single-purpose methods; each is
//     individually atomic and bumps an internal version counter.
//   - Collections are append-only; an appended record is never mutated.
//   - Snapshot returns a deep copy safe to serialize concurrently with
//     further mutation.
package session

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DataSet is the initial domain payload a Record is populated from.
type DataSet struct {
	Profile         Profile
	CalendarEvents  []CalendarEvent
	FlightOptions   []FlightOption
	Medications     []Medication
	EducationTopics []EducationTopic
	CallWindows     []CallWindow
}

// Record is the per-session state shared by all workflow stages.
type Record struct {
	mu sync.RWMutex

	id string

	// Read-mostly domain data loaded at session start.
	profile         Profile
	calendarEvents  []CalendarEvent
	flightOptions   []FlightOption
	medications     []Medication
	educationTopics []EducationTopic
	callWindows     []CallWindow

	// Facts accumulated over the conversation.
	consented           bool
	medicationsVerified bool
	confidenceScore     *int

	// Append-only collections.
	concerns       []string
	reminders      []Reminder
	scheduledCalls []ScheduledCall
	bookedFlights  []FlightOption
	movedMeetings  []MovedMeeting

	stage         Stage
	previousStage *Stage
	escalation    Escalation
	modelLabel    string

	version uint64
}

// NewRecord creates a record for one live conversation populated from the
// provided domain data. The initial stage is welcome with no escalation.
func NewRecord(id string, data DataSet) *Record {
	events := copyEvents(data.CalendarEvents)
	sortEvents(events)
	return &Record{
		id:              id,
		profile:         data.Profile,
		calendarEvents:  events,
		flightOptions:   append([]FlightOption(nil), data.FlightOptions...),
		medications:     append([]Medication(nil), data.Medications...),
		educationTopics: append([]EducationTopic(nil), data.EducationTopics...),
		callWindows:     append([]CallWindow(nil), data.CallWindows...),
		stage:           StageWelcome,
		escalation:      EscalationNone,
	}
}

// ID returns the session identifier.
func (r *Record) ID() string { return r.id }

// Version returns the mutation counter. It increases by exactly one for every
// applied mutation, letting callers detect whether a tool call changed state.
func (r *Record) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Stage returns the currently active workflow stage.
func (r *Record) Stage() Stage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stage
}

// PreviousStage returns the stage active before the most recent transition,
// or nil before the first transition.
func (r *Record) PreviousStage() *Stage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.previousStage == nil {
		return nil
	}
	s := *r.previousStage
	return &s
}

// Escalation returns the external channel currently fielding the turn.
func (r *Record) Escalation() Escalation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.escalation
}

// ModelLabel returns the provider label of the active stage, kept for
// observability only.
func (r *Record) ModelLabel() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.modelLabel
}

// Profile returns the caller profile.
func (r *Record) Profile() Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profile
}

// Consented reports whether the caller agreed to proceed.
func (r *Record) Consented() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.consented
}

// MedicationsVerified reports whether the medication list was confirmed.
func (r *Record) MedicationsVerified() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.medicationsVerified
}

// ConfidenceScore returns the recorded score or nil when not yet captured.
func (r *Record) ConfidenceScore() *int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.confidenceScore == nil {
		return nil
	}
	v := *r.confidenceScore
	return &v
}

// CalendarEvents returns a copy of the calendar, ordered by date then start time.
func (r *Record) CalendarEvents() []CalendarEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyEvents(r.calendarEvents)
}

// EventsBetween returns calendar events whose date falls in [start, end]
// (YYYY-MM-DD, inclusive).
func (r *Record) EventsBetween(start, end string) []CalendarEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []CalendarEvent
	for _, evt := range r.calendarEvents {
		if start <= evt.Date && evt.Date <= end {
			out = append(out, copyEvent(evt))
		}
	}
	return out
}

// FlightsMatching returns catalog flights routed from origin to destination.
// Matching is case-insensitive on the route description with origin appearing
// before destination.
func (r *Record) FlightsMatching(origin, destination string) []FlightOption {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, d := strings.ToLower(origin), strings.ToLower(destination)
	var out []FlightOption
	for _, f := range r.flightOptions {
		route := strings.ToLower(f.Route)
		oi, di := strings.Index(route, o), strings.Index(route, d)
		if oi >= 0 && di >= 0 && oi < di {
			out = append(out, f)
		}
	}
	return out
}

// FindFlightOption looks up a catalog flight by id.
func (r *Record) FindFlightOption(id string) (FlightOption, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.flightOptions {
		if f.ID == id {
			return f, true
		}
	}
	return FlightOption{}, false
}

// FindCallWindow looks up an availability slot by id.
func (r *Record) FindCallWindow(id string) (CallWindow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.callWindows {
		if w.ID == id {
			return w, true
		}
	}
	return CallWindow{}, false
}

// CallWindows returns a copy of the availability slots.
func (r *Record) CallWindows() []CallWindow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]CallWindow(nil), r.callWindows...)
}

// Medications returns a copy of the medication list.
func (r *Record) Medications() []Medication {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Medication(nil), r.medications...)
}

// EducationTopics returns a copy of the reference content catalog.
func (r *Record) EducationTopics() []EducationTopic {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]EducationTopic(nil), r.educationTopics...)
}

// FindEducationTopic looks up a reference topic by id.
func (r *Record) FindEducationTopic(id string) (EducationTopic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.educationTopics {
		if t.ID == id {
			return t, true
		}
	}
	return EducationTopic{}, false
}

// Concerns returns a copy of the accumulated caller concerns.
func (r *Record) Concerns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.concerns...)
}

// Reminders returns a copy of the accepted reminders.
func (r *Record) Reminders() []Reminder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Reminder(nil), r.reminders...)
}

// ScheduledCalls returns a copy of the accepted callback bookings.
func (r *Record) ScheduledCalls() []ScheduledCall {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ScheduledCall(nil), r.scheduledCalls...)
}

// BookedFlights returns a copy of the flights booked during the session.
func (r *Record) BookedFlights() []FlightOption {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]FlightOption(nil), r.bookedFlights...)
}

// MovedMeetings returns a copy of the rescheduled meeting records.
func (r *Record) MovedMeetings() []MovedMeeting {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]MovedMeeting(nil), r.movedMeetings...)
}

// RecordConsent stores the caller's consent decision.
func (r *Record) RecordConsent(consented bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consented = consented
	r.version++
}

// ConfirmMedications marks the medication list as verified. The flag is only
// ever set together with the per-item annotation applied to every entry.
func (r *Record) ConfirmMedications() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.medications {
		r.medications[i].Verified = true
	}
	r.medicationsVerified = true
	r.version++
}

// RecordConfidenceScore stores the caller's self-reported score.
func (r *Record) RecordConfidenceScore(score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := score
	r.confidenceScore = &s
	r.version++
}

// AppendConcern adds a caller concern. Concerns are never removed.
func (r *Record) AppendConcern(concern string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.concerns = append(r.concerns, concern)
	r.version++
}

// AppendReminder adds a reminder and returns the stored record.
func (r *Record) AppendReminder(label, remindAt string) Reminder {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem := Reminder{ID: uuid.NewString(), Label: label, RemindAt: remindAt}
	r.reminders = append(r.reminders, rem)
	r.version++
	return rem
}

// AppendScheduledCall books a callback into the given availability window and
// returns the stored record.
func (r *Record) AppendScheduledCall(w CallWindow) ScheduledCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	call := ScheduledCall{
		ID:        uuid.NewString(),
		WindowID:  w.ID,
		Date:      w.Date,
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
	}
	r.scheduledCalls = append(r.scheduledCalls, call)
	r.version++
	return call
}

// BookFlight records a booked flight and inserts a matching travel block into
// the calendar, keeping events ordered by date then start time.
func (r *Record) BookFlight(f FlightOption) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookedFlights = append(r.bookedFlights, f)

	day := ""
	if t, err := time.Parse("2006-01-02", f.DepartureDate); err == nil {
		day = t.Weekday().String()
	}
	r.calendarEvents = append(r.calendarEvents, CalendarEvent{
		ID:        "travel-" + f.ID,
		Title:     "Flight: " + f.Airline + " " + f.Route,
		Date:      f.DepartureDate,
		Day:       day,
		StartTime: f.DepartureTime,
		EndTime:   f.ArrivalTime,
		Attendees: []string{},
		Type:      "travel",
	})
	sortEvents(r.calendarEvents)
	r.version++
}

// MoveMeeting reschedules a calendar event, annotating it with its original
// timing, and appends an immutable MovedMeeting record. Returns false when no
// event with the given id exists; nothing is mutated in that case.
func (r *Record) MoveMeeting(eventID, newDate, newStart, newEnd string) (MovedMeeting, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evt *CalendarEvent
	for i := range r.calendarEvents {
		if r.calendarEvents[i].ID == eventID {
			evt = &r.calendarEvents[i]
			break
		}
	}
	if evt == nil {
		return MovedMeeting{}, false
	}

	moved := MovedMeeting{
		EventID:           eventID,
		Title:             evt.Title,
		Old:               evt.Title + " on " + evt.Date + " from " + evt.StartTime + " to " + evt.EndTime,
		New:               newDate + " from " + newStart + " to " + newEnd,
		Attendees:         append([]string(nil), evt.Attendees...),
		OriginalDate:      evt.Date,
		OriginalStartTime: evt.StartTime,
		OriginalEndTime:   evt.EndTime,
	}

	// First move wins the original timing; a later move keeps it.
	if !evt.Moved {
		evt.OriginalDate = evt.Date
		evt.OriginalStartTime = evt.StartTime
		evt.OriginalEndTime = evt.EndTime
		evt.Moved = true
	}
	evt.Date = newDate
	evt.StartTime = newStart
	evt.EndTime = newEnd
	sortEvents(r.calendarEvents)

	r.movedMeetings = append(r.movedMeetings, moved)
	r.version++
	return moved, true
}

// EnterStage applies a stage transition: previousStage tracks the stage being
// left and the escalation indicator resets to none.
func (r *Record) EnterStage(target Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.stage
	r.previousStage = &prev
	r.stage = target
	r.escalation = EscalationNone
	r.version++
}

// SetEscalation marks an external channel as fielding the current turn.
func (r *Record) SetEscalation(e Escalation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.escalation = e
	r.version++
}

// ClearEscalation resets the escalation indicator to none. It is a no-op
// (no version bump) when already clear.
func (r *Record) ClearEscalation() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.escalation == EscalationNone {
		return
	}
	r.escalation = EscalationNone
	r.version++
}

// SetModelLabel records the active provider label for observability.
func (r *Record) SetModelLabel(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.modelLabel == label {
		return
	}
	r.modelLabel = label
	r.version++
}

func copyEvent(evt CalendarEvent) CalendarEvent {
	c := evt
	c.Attendees = append([]string(nil), evt.Attendees...)
	return c
}

func copyEvents(events []CalendarEvent) []CalendarEvent {
	out := make([]CalendarEvent, 0, len(events))
	for _, evt := range events {
		out = append(out, copyEvent(evt))
	}
	return out
}

func sortEvents(events []CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].StartTime < events[j].StartTime
	})
}
