package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Category keys the initial domain data a session is populated from.
type Category string

const (
	// CategoryProfile is the caller profile.
	CategoryProfile Category = "profile"
	// CategoryCalendar is the caller's calendar event list.
	CategoryCalendar Category = "calendar"
	// CategoryFlights is the bookable flight catalog.
	CategoryFlights Category = "flights"
	// CategoryMedications is the prescription list.
	CategoryMedications Category = "medications"
	// CategoryEducation is the reference/educational content catalog.
	CategoryEducation Category = "education"
	// CategoryAvailability is the callback availability slot list.
	CategoryAvailability Category = "availability"
)

// ErrCategoryNotFound is returned when a requested data category is absent.
var ErrCategoryNotFound = errors.New("session: data category not found")

// DataProvider supplies initial record contents keyed by category. It is read
// once at session start.
type DataProvider interface {
	Load(ctx context.Context, category Category) (json.RawMessage, error)
}

// LoadDataSet reads every category from the provider and assembles the
// initial DataSet for a new record.
func LoadDataSet(ctx context.Context, provider DataProvider) (DataSet, error) {
	var data DataSet
	for _, load := range []struct {
		category Category
		into     any
	}{
		{CategoryProfile, &data.Profile},
		{CategoryCalendar, &data.CalendarEvents},
		{CategoryFlights, &data.FlightOptions},
		{CategoryMedications, &data.Medications},
		{CategoryEducation, &data.EducationTopics},
		{CategoryAvailability, &data.CallWindows},
	} {
		raw, err := provider.Load(ctx, load.category)
		if err != nil {
			return DataSet{}, fmt.Errorf("load category %q: %w", load.category, err)
		}
		if err := json.Unmarshal(raw, load.into); err != nil {
			return DataSet{}, fmt.Errorf("decode category %q: %w", load.category, err)
		}
	}
	return data, nil
}

// StaticProvider serves data categories from an in-memory map. It backs the
// demo runner and tests.
type StaticProvider struct {
	categories map[Category]json.RawMessage
}

// NewStaticProvider builds a provider from already-typed category values.
// Values are marshaled once up front.
func NewStaticProvider(values map[Category]any) (*StaticProvider, error) {
	categories := make(map[Category]json.RawMessage, len(values))
	for category, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal category %q: %w", category, err)
		}
		categories[category] = raw
	}
	return &StaticProvider{categories: categories}, nil
}

// Load implements DataProvider.
func (p *StaticProvider) Load(_ context.Context, category Category) (json.RawMessage, error) {
	raw, ok := p.categories[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	return raw, nil
}
