package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *Record {
	return NewRecord("sess-1", DataSet{
		Profile: Profile{Name: "Morgan Avery", CallbackNumber: "+15550123", PreferredClinicLine: "+15550199"},
		CalendarEvents: []CalendarEvent{
			{ID: "evt-2", Title: "Team sync", Date: "2026-05-20", Day: "Wednesday", StartTime: "10:00", EndTime: "11:00", Attendees: []string{"Alex"}},
			{ID: "evt-1", Title: "Physio", Date: "2026-05-18", Day: "Monday", StartTime: "09:00", EndTime: "09:30", Attendees: []string{}},
		},
		FlightOptions: []FlightOption{
			{ID: "flight-1", Airline: "Cascade Air", Route: "Seattle to Denver", DepartureDate: "2026-05-22", DepartureTime: "08:15", ArrivalTime: "11:45", Price: "$240"},
		},
		Medications: []Medication{
			{ID: "med-1", Name: "Lisinopril", Dosage: "10mg", Schedule: "daily"},
			{ID: "med-2", Name: "Metformin", Dosage: "500mg", Schedule: "twice daily"},
		},
		EducationTopics: []EducationTopic{
			{ID: "topic-1", Title: "Wound care", Summary: "Keep the incision dry."},
		},
		CallWindows: []CallWindow{
			{ID: "slot-1", Date: "2026-05-21", Day: "Thursday", StartTime: "14:00", EndTime: "15:00"},
		},
	})
}

// -------------------- Initial State --------------------

func TestNewRecord_InitialState(t *testing.T) {
	r := testRecord()

	assert.Equal(t, StageWelcome, r.Stage())
	assert.Nil(t, r.PreviousStage())
	assert.Equal(t, EscalationNone, r.Escalation())
	assert.False(t, r.Consented())
	assert.False(t, r.MedicationsVerified())
	assert.Nil(t, r.ConfidenceScore())
	assert.Equal(t, uint64(0), r.Version())
}

// -------------------- Versioning --------------------

func TestRecord_VersionBumpsPerMutation(t *testing.T) {
	r := testRecord()

	r.RecordConsent(true)
	assert.Equal(t, uint64(1), r.Version())

	r.AppendConcern("dizzy in the mornings")
	assert.Equal(t, uint64(2), r.Version())

	// Clearing an already clear escalation is a no-op.
	r.ClearEscalation()
	assert.Equal(t, uint64(2), r.Version())

	r.SetEscalation(EscalationHoursBot)
	r.ClearEscalation()
	assert.Equal(t, uint64(4), r.Version())

	// Re-applying the same model label is a no-op.
	r.SetModelLabel("openai/gpt-4o-mini")
	r.SetModelLabel("openai/gpt-4o-mini")
	assert.Equal(t, uint64(5), r.Version())
}

// -------------------- Medications --------------------

func TestRecord_ConfirmMedicationsAnnotatesEveryEntry(t *testing.T) {
	r := testRecord()

	r.ConfirmMedications()

	assert.True(t, r.MedicationsVerified())
	for _, m := range r.Medications() {
		assert.True(t, m.Verified, "medication %s should be verified", m.ID)
	}
}

// -------------------- Calendar --------------------

func TestRecord_CalendarEventsSorted(t *testing.T) {
	r := testRecord()

	events := r.CalendarEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "evt-2", events[1].ID)
}

func TestRecord_BookFlightAddsTravelBlock(t *testing.T) {
	r := testRecord()

	f, ok := r.FindFlightOption("flight-1")
	require.True(t, ok)
	r.BookFlight(f)

	booked := r.BookedFlights()
	require.Len(t, booked, 1)
	assert.Equal(t, "flight-1", booked[0].ID)

	events := r.CalendarEvents()
	require.Len(t, events, 3)
	travel := events[len(events)-1]
	assert.Equal(t, "travel-flight-1", travel.ID)
	assert.Equal(t, "travel", travel.Type)
	assert.Equal(t, "2026-05-22", travel.Date)
	assert.Equal(t, "Friday", travel.Day)
	assert.Equal(t, "08:15", travel.StartTime)
	assert.Equal(t, "11:45", travel.EndTime)
}

func TestRecord_MoveMeeting(t *testing.T) {
	r := testRecord()

	moved, ok := r.MoveMeeting("evt-1", "2026-05-19", "13:00", "13:30")
	require.True(t, ok)
	assert.Equal(t, "2026-05-18", moved.OriginalDate)
	assert.Equal(t, "09:00", moved.OriginalStartTime)

	events := r.CalendarEvents()
	var evt CalendarEvent
	for _, e := range events {
		if e.ID == "evt-1" {
			evt = e
		}
	}
	assert.True(t, evt.Moved)
	assert.Equal(t, "2026-05-19", evt.Date)
	assert.Equal(t, "2026-05-18", evt.OriginalDate)

	// A second move keeps the original timing from before the first move.
	_, ok = r.MoveMeeting("evt-1", "2026-05-25", "08:00", "08:30")
	require.True(t, ok)
	for _, e := range r.CalendarEvents() {
		if e.ID == "evt-1" {
			assert.Equal(t, "2026-05-18", e.OriginalDate)
			assert.Equal(t, "2026-05-25", e.Date)
		}
	}

	require.Len(t, r.MovedMeetings(), 2)
}

func TestRecord_MoveMeetingUnknownEvent(t *testing.T) {
	r := testRecord()
	before := r.Version()

	_, ok := r.MoveMeeting("evt-999", "2026-05-19", "13:00", "13:30")

	assert.False(t, ok)
	assert.Equal(t, before, r.Version())
	assert.Empty(t, r.MovedMeetings())
}

// -------------------- Queries --------------------

func TestRecord_EventsBetween(t *testing.T) {
	r := testRecord()

	events := r.EventsBetween("2026-05-18", "2026-05-18")
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].ID)

	assert.Empty(t, r.EventsBetween("2026-06-01", "2026-06-30"))
}

func TestRecord_FlightsMatching(t *testing.T) {
	r := testRecord()

	assert.Len(t, r.FlightsMatching("seattle", "denver"), 1)
	// Route order matters: origin must precede destination.
	assert.Empty(t, r.FlightsMatching("denver", "seattle"))
	assert.Empty(t, r.FlightsMatching("boston", "denver"))
}

// -------------------- Stage & Escalation --------------------

func TestRecord_EnterStageResetsEscalation(t *testing.T) {
	r := testRecord()

	r.SetEscalation(EscalationBenefitsBot)
	r.EnterStage(StageScheduling)

	assert.Equal(t, StageScheduling, r.Stage())
	require.NotNil(t, r.PreviousStage())
	assert.Equal(t, StageWelcome, *r.PreviousStage())
	assert.Equal(t, EscalationNone, r.Escalation())
}

// -------------------- Snapshot --------------------

func TestRecord_SnapshotIsolation(t *testing.T) {
	r := testRecord()
	r.AppendConcern("first concern")

	snap := r.Snapshot()
	require.Len(t, snap.Concerns, 1)

	// Later mutations do not leak into an earlier snapshot.
	r.AppendConcern("second concern")
	assert.Len(t, snap.Concerns, 1)

	// Mutating snapshot slices does not affect the record.
	snap.CalendarEvents[0].Title = "tampered"
	assert.NotEqual(t, "tampered", r.CalendarEvents()[0].Title)
}

func TestRecord_SnapshotCarriesStateFields(t *testing.T) {
	r := testRecord()
	r.RecordConsent(true)
	r.RecordConfidenceScore(7)
	r.SetEscalation(EscalationHuman)
	r.SetModelLabel("anthropic/claude")

	snap := r.Snapshot()
	assert.True(t, snap.Consented)
	require.NotNil(t, snap.ConfidenceScore)
	assert.Equal(t, 7, *snap.ConfidenceScore)
	assert.Equal(t, EscalationHuman, snap.Escalation)
	assert.Equal(t, "anthropic/claude", snap.ModelLabel)
	assert.Equal(t, r.Version(), snap.Version)
}

// -------------------- Append-only collections --------------------

func TestRecord_AppendOnlyCollections(t *testing.T) {
	r := testRecord()

	rem := r.AppendReminder("take lisinopril", "2026-05-19 08:00")
	assert.NotEmpty(t, rem.ID)

	w, ok := r.FindCallWindow("slot-1")
	require.True(t, ok)
	call := r.AppendScheduledCall(w)
	assert.NotEmpty(t, call.ID)
	assert.Equal(t, "slot-1", call.WindowID)
	assert.Equal(t, w.Date, call.Date)

	assert.Len(t, r.Reminders(), 1)
	assert.Len(t, r.ScheduledCalls(), 1)
}
