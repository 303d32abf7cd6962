package session

// Snapshot is an immutable serialized view of the record plus orchestrator
// status. JSON keys are camelCase to match the frontend SessionState shape.
type Snapshot struct {
	Profile             Profile          `json:"profile"`
	CalendarEvents      []CalendarEvent  `json:"calendarEvents"`
	BookedFlights       []FlightOption   `json:"bookedFlights"`
	MovedMeetings       []MovedMeeting   `json:"movedMeetings"`
	Medications         []Medication     `json:"medications"`
	CallWindows         []CallWindow     `json:"callWindows"`
	EducationTopics     []EducationTopic `json:"educationTopics"`
	Concerns            []string         `json:"concerns"`
	Reminders           []Reminder       `json:"reminders"`
	ScheduledCalls      []ScheduledCall  `json:"scheduledCalls"`
	Consented           bool             `json:"consented"`
	MedicationsVerified bool             `json:"medicationsVerified"`
	ConfidenceScore     *int             `json:"confidenceScore"`
	Stage               Stage            `json:"stage"`
	PreviousStage       *Stage           `json:"previousStage"`
	Escalation          Escalation       `json:"escalation"`
	ModelLabel          string           `json:"modelLabel"`
	Version             uint64           `json:"version"`
}

// Snapshot returns a deep-copied view of the record. It is pure: later
// mutations of the record never change an already-taken snapshot.
func (r *Record) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var score *int
	if r.confidenceScore != nil {
		v := *r.confidenceScore
		score = &v
	}
	var prev *Stage
	if r.previousStage != nil {
		p := *r.previousStage
		prev = &p
	}

	moved := make([]MovedMeeting, 0, len(r.movedMeetings))
	for _, m := range r.movedMeetings {
		c := m
		c.Attendees = append([]string(nil), m.Attendees...)
		moved = append(moved, c)
	}

	return Snapshot{
		Profile:             r.profile,
		CalendarEvents:      copyEvents(r.calendarEvents),
		BookedFlights:       append([]FlightOption{}, r.bookedFlights...),
		MovedMeetings:       moved,
		Medications:         append([]Medication{}, r.medications...),
		CallWindows:         append([]CallWindow{}, r.callWindows...),
		EducationTopics:     append([]EducationTopic{}, r.educationTopics...),
		Concerns:            append([]string{}, r.concerns...),
		Reminders:           append([]Reminder{}, r.reminders...),
		ScheduledCalls:      append([]ScheduledCall{}, r.scheduledCalls...),
		Consented:           r.consented,
		MedicationsVerified: r.medicationsVerified,
		ConfidenceScore:     score,
		Stage:               r.stage,
		PreviousStage:       prev,
		Escalation:          r.escalation,
		ModelLabel:          r.modelLabel,
		Version:             r.version,
	}
}
