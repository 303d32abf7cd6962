package session

// DemoDataSet returns the built-in demo domain data used by the console
// runner and tests: one caller, a week of calendar events, a small flight
// catalog, a medication list, reference topics and callback windows.
func DemoDataSet() DataSet {
	return DataSet{
		Profile: Profile{
			Name:                "Morgan Avery",
			CallbackNumber:      "+1-403-555-0188",
			PreferredClinicLine: "+1-403-555-0142",
		},
		CalendarEvents: []CalendarEvent{
			{ID: "evt-001", Title: "Sprint Planning", Date: "2026-02-23", Day: "Monday", StartTime: "9:00 AM", EndTime: "10:00 AM", Attendees: []string{"Jordan Lee", "Priya Patel"}},
			{ID: "evt-002", Title: "1:1 with Manager", Date: "2026-02-23", Day: "Monday", StartTime: "2:00 PM", EndTime: "2:30 PM", Attendees: []string{"Alex Chen"}},
			{ID: "evt-003", Title: "Design Review", Date: "2026-02-24", Day: "Tuesday", StartTime: "10:00 AM", EndTime: "11:00 AM", Attendees: []string{"Sam Rivera", "Jordan Lee"}},
			{ID: "evt-004", Title: "Team Standup", Date: "2026-02-24", Day: "Tuesday", StartTime: "9:00 AM", EndTime: "9:15 AM", Attendees: []string{"Full Team"}},
			{ID: "evt-005", Title: "Client Presentation", Date: "2026-02-25", Day: "Wednesday", StartTime: "11:00 AM", EndTime: "12:00 PM", Attendees: []string{"Priya Patel", "External Client"}},
			{ID: "evt-006", Title: "Lunch with VP of Engineering", Date: "2026-02-25", Day: "Wednesday", StartTime: "12:30 PM", EndTime: "1:30 PM", Attendees: []string{"Taylor Kim"}},
			{ID: "evt-007", Title: "Team Standup", Date: "2026-02-26", Day: "Thursday", StartTime: "9:00 AM", EndTime: "9:15 AM", Attendees: []string{"Full Team"}},
			{ID: "evt-008", Title: "Architecture Deep Dive", Date: "2026-02-26", Day: "Thursday", StartTime: "2:00 PM", EndTime: "3:30 PM", Attendees: []string{"Jordan Lee", "Sam Rivera", "Alex Chen"}},
			{ID: "evt-009", Title: "Friday Wrap-up", Date: "2026-02-27", Day: "Friday", StartTime: "4:00 PM", EndTime: "4:30 PM", Attendees: []string{"Full Team"}},
		},
		FlightOptions: []FlightOption{
			{ID: "flight-001", Airline: "WestJet", Route: "Calgary (YYC) to Vancouver (YVR)", DepartureDate: "2026-02-23", DepartureTime: "7:00 AM", ArrivalTime: "8:15 AM", Price: "$289"},
			{ID: "flight-002", Airline: "Air Canada", Route: "Calgary (YYC) to Vancouver (YVR)", DepartureDate: "2026-02-23", DepartureTime: "12:30 PM", ArrivalTime: "1:45 PM", Price: "$345"},
			{ID: "flight-003", Airline: "WestJet", Route: "Calgary (YYC) to Vancouver (YVR)", DepartureDate: "2026-02-24", DepartureTime: "6:00 AM", ArrivalTime: "7:15 AM", Price: "$259"},
			{ID: "flight-004", Airline: "Air Canada", Route: "Vancouver (YVR) to Calgary (YYC)", DepartureDate: "2026-02-27", DepartureTime: "5:00 PM", ArrivalTime: "7:30 PM", Price: "$310"},
			{ID: "flight-005", Airline: "WestJet", Route: "Vancouver (YVR) to Calgary (YYC)", DepartureDate: "2026-02-27", DepartureTime: "8:00 PM", ArrivalTime: "10:30 PM", Price: "$275"},
		},
		Medications: []Medication{
			{ID: "med-001", Name: "Metformin", Dosage: "500 mg", Schedule: "twice daily with meals"},
			{ID: "med-002", Name: "Lisinopril", Dosage: "10 mg", Schedule: "once daily in the morning"},
			{ID: "med-003", Name: "Atorvastatin", Dosage: "20 mg", Schedule: "once daily at bedtime"},
		},
		EducationTopics: []EducationTopic{
			{ID: "topic-001", Title: "Managing blood sugar", Summary: "Check levels before meals, keep a log, and watch for readings outside your target range."},
			{ID: "topic-002", Title: "When to call the clinic", Summary: "Call if you notice swelling, shortness of breath, or a reading far outside your usual range."},
			{ID: "topic-003", Title: "Medication timing", Summary: "Take doses at the same time each day; a missed dose should not be doubled up."},
		},
		CallWindows: []CallWindow{
			{ID: "slot-001", Date: "2026-02-24", Day: "Tuesday", StartTime: "1:00 PM", EndTime: "1:30 PM"},
			{ID: "slot-002", Date: "2026-02-25", Day: "Wednesday", StartTime: "9:30 AM", EndTime: "10:00 AM"},
			{ID: "slot-003", Date: "2026-02-26", Day: "Thursday", StartTime: "4:00 PM", EndTime: "4:30 PM"},
		},
	}
}

// NewDemoProvider wraps DemoDataSet in a StaticProvider.
func NewDemoProvider() *StaticProvider {
	data := DemoDataSet()
	p, err := NewStaticProvider(map[Category]any{
		CategoryProfile:      data.Profile,
		CategoryCalendar:     data.CalendarEvents,
		CategoryFlights:      data.FlightOptions,
		CategoryMedications:  data.Medications,
		CategoryEducation:    data.EducationTopics,
		CategoryAvailability: data.CallWindows,
	})
	if err != nil {
		// Demo data is static and always marshals.
		panic(err)
	}
	return p
}
