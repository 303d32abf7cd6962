package session

// Stage identifies a workflow stage. The value "completed" doubles as the
// terminal marker once the call has ended.
type Stage string

const (
	// StageWelcome greets the caller and collects consent. Sole initial stage.
	StageWelcome Stage = "welcome"
	// StageScheduling is the generic scheduling/escalation routing hub.
	StageScheduling Stage = "scheduling"
	// StageVerification walks the caller through their medication list.
	StageVerification Stage = "verification"
	// StageConfidence captures the caller's self-reported confidence score.
	StageConfidence Stage = "confidence"
	// StageEducation answers questions from the reference content catalog.
	StageEducation Stage = "education"
	// StageReminders sets follow-up reminders.
	StageReminders Stage = "reminders"
	// StageWrapup closes out the conversation.
	StageWrapup Stage = "wrapup"
	// StageCompleted is the terminal marker; no agent is bound to it.
	StageCompleted Stage = "completed"
)

// Escalation marks which external channel is currently fielding the turn.
type Escalation string

const (
	// EscalationNone means the active stage agent is answering.
	EscalationNone Escalation = "none"
	// EscalationHoursBot marks delegation to the call-center-hours intent bot.
	EscalationHoursBot Escalation = "hours_bot"
	// EscalationBenefitsBot marks delegation to the benefits intent bot.
	EscalationBenefitsBot Escalation = "benefits_bot"
	// EscalationHuman marks a warm transfer to a human operator.
	EscalationHuman Escalation = "human"
)

// Profile holds caller identity and routing metadata supplied at session start.
type Profile struct {
	Name                string `json:"name"`
	CallbackNumber      string `json:"callbackNumber"`
	PreferredClinicLine string `json:"preferredClinicLine,omitempty"`
}

// CalendarEvent is one entry in the caller's calendar. Events of type
// "travel" are added when a flight is booked.
type CalendarEvent struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Date              string   `json:"date"` // YYYY-MM-DD
	Day               string   `json:"day"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	Attendees         []string `json:"attendees"`
	Type              string   `json:"type,omitempty"` // meeting (default) or travel
	Moved             bool     `json:"moved,omitempty"`
	OriginalDate      string   `json:"original_date,omitempty"`
	OriginalStartTime string   `json:"original_start_time,omitempty"`
	OriginalEndTime   string   `json:"original_end_time,omitempty"`
}

// FlightOption is one bookable flight from the catalog.
type FlightOption struct {
	ID            string `json:"id"`
	Airline       string `json:"airline"`
	Route         string `json:"route"`
	DepartureDate string `json:"departure_date"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Price         string `json:"price"`
}

// Medication is one prescription entry. Verified is annotated uniformly when
// the caller confirms the whole list.
type Medication struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Dosage   string `json:"dosage"`
	Schedule string `json:"schedule"`
	Verified bool   `json:"verified"`
}

// EducationTopic is one entry of the reference/educational content catalog.
type EducationTopic struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// CallWindow is an availability slot a follow-up call can be scheduled into.
type CallWindow struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Reminder is an accepted follow-up reminder. Immutable once appended.
type Reminder struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	RemindAt string `json:"remind_at"`
}

// ScheduledCall is an accepted callback booking. Immutable once appended.
type ScheduledCall struct {
	ID        string `json:"id"`
	WindowID  string `json:"window_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// MovedMeeting records a rescheduled calendar event together with its
// original timing so the UI can render the change.
type MovedMeeting struct {
	EventID           string   `json:"event_id"`
	Title             string   `json:"title"`
	Old               string   `json:"old"`
	New               string   `json:"new"`
	Attendees         []string `json:"attendees"`
	OriginalDate      string   `json:"original_date"`
	OriginalStartTime string   `json:"original_start_time"`
	OriginalEndTime   string   `json:"original_end_time"`
}
