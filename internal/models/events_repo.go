package models

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type EventRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, q EventQuery) ([]*Event, error)
	UpdateEvent(ctx context.Context, id string, patch map[string]any) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// SortEvents orders by date then start time, keeping input order on ties.
func SortEvents(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if c := events[i].Date.Compare(events[j].Date); c != 0 {
			return c < 0
		}
		return events[i].StartTime < events[j].StartTime
	})
}

func decodeEvents(data []byte) ([]*Event, error) {
	var events []*Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}
	for _, ev := range events {
		ev.StartTime = TrimSeconds(ev.StartTime)
		ev.EndTime = TrimSeconds(ev.EndTime)
	}
	return events, nil
}

func (su *SupabaseRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	data, count, err := su.supabaseClient.
		From(EventsTable).
		Insert(event, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	created, err := decodeEvents(data)
	if err != nil {
		return nil, err
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("event insert returned no rows")
	}
	return created[0], nil
}

func (su *SupabaseRepo) GetEvent(ctx context.Context, id string) (*Event, error) {
	data, _, err := su.supabaseClient.From(EventsTable).
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	events, err := decodeEvents(data)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrEventNotFound
	}
	return events[0], nil
}

func (su *SupabaseRepo) ListEvents(ctx context.Context, q EventQuery) ([]*Event, error) {
	query := su.supabaseClient.From(EventsTable).Select("*", "exact", false)
	if q.VenueID != "" {
		query = query.Eq("venue_id", q.VenueID)
	}
	if q.Status != "" {
		query = query.Eq("status", string(q.Status))
	}
	if !q.From.IsZero() {
		query = query.Gte("event_date", q.From.String())
	}
	if !q.To.IsZero() {
		query = query.Lte("event_date", q.To.String())
	}

	data, count, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if count == 0 {
		return []*Event{}, nil
	}

	events, err := decodeEvents(data)
	if err != nil {
		return nil, err
	}
	SortEvents(events)
	return events, nil
}

func (su *SupabaseRepo) UpdateEvent(ctx context.Context, id string, patch map[string]any) (*Event, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	data, count, err := su.supabaseClient.From(EventsTable).
		Update(patch, "", "exact").
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if count == 0 {
		return nil, ErrEventNotFound
	}

	events, err := decodeEvents(data)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrEventNotFound
	}
	return events[0], nil
}

func (su *SupabaseRepo) DeleteEvent(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("no event id provided")
	}

	_, count, err := su.supabaseClient.From(EventsTable).
		Delete("", "exact").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if count == 0 {
		return ErrEventNotFound
	}
	return nil
}
