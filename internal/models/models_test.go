package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func validInput() EventInput {
	return EventInput{
		Name:      "Friday Night",
		Date:      NewDate(2026, time.February, 20),
		StartTime: "21:00",
		EndTime:   "23:30",
		VenueID:   "venue-1",
		Amount:    AmountFromMajor(5000),
	}
}

func TestNewEventDefaults(t *testing.T) {
	in := validInput()
	in.Name = "  "
	in.DesiredGenres = []string{"House", "house", "Disco"}

	ev, err := NewEvent(in)
	if err != nil {
		t.Fatalf("NewEvent returned error: %v", err)
	}
	if ev.Name != "Untitled Gig" {
		t.Errorf("expected default name, got %q", ev.Name)
	}
	if ev.Status != EventOpen {
		t.Errorf("expected status open, got %s", ev.Status)
	}
	if ev.Frequency != FrequencySingle {
		t.Errorf("expected frequency single, got %s", ev.Frequency)
	}
	if len(ev.DesiredGenres) != 2 {
		t.Errorf("expected duplicate genres removed, got %v", ev.DesiredGenres)
	}
}

func TestNewEventValidation(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*EventInput)
		field string
	}{
		{"negative amount", func(in *EventInput) { in.Amount = -1 }, "amount_sek"},
		{"bad start time", func(in *EventInput) { in.StartTime = "25:00" }, "start_time"},
		{"bad end time", func(in *EventInput) { in.EndTime = "9pm" }, "end_time"},
		{"end before start", func(in *EventInput) { in.StartTime, in.EndTime = "22:00", "02:00" }, "end_time"},
		{"equal times", func(in *EventInput) { in.EndTime = in.StartTime }, "end_time"},
		{"missing date", func(in *EventInput) { in.Date = Date{} }, "event_date"},
		{"bad frequency", func(in *EventInput) { in.Frequency = "weekly" }, "frequency"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.edit(&in)
			_, err := NewEvent(in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("expected field %s, got %s (%s)", tc.field, ve.Field, ve.Message)
			}
			if !IsValidation(err) {
				t.Error("IsValidation should report true")
			}
		})
	}
}

func TestConfirmedEventNeedsArtist(t *testing.T) {
	ev, err := NewEvent(validInput())
	if err != nil {
		t.Fatalf("NewEvent returned error: %v", err)
	}
	ev.Status = EventConfirmed
	if err := ev.Validate(); err == nil {
		t.Fatal("confirmed event without artist should not validate")
	}
	ev.ArtistID = "artist-9"
	if err := ev.Validate(); err != nil {
		t.Fatalf("confirmed event with artist should validate: %v", err)
	}
}

func TestEventClone(t *testing.T) {
	n := 3
	ev := &Event{ID: "e1", RequestCount: &n, DesiredGenres: []string{"House"}}
	c := ev.Clone()
	*c.RequestCount = 9
	c.DesiredGenres[0] = "Techno"
	if *ev.RequestCount != 3 || ev.DesiredGenres[0] != "House" {
		t.Error("Clone shares state with the original")
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]Amount{
		"5000":     500000,
		"5000.5":   500050,
		"5000.50":  500050,
		"0.07":     7,
		"-12.30":   -1230,
		" 42 ":     4200,
		"":         0,
		".5":       50,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		if err != nil {
			t.Errorf("ParseAmount(%q) returned error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseAmount(%q) = %d, want %d", in, got, want)
		}
	}

	if got, err := ParseAmount("92233720368547758.07"); err != nil || got != Amount(math.MaxInt64) {
		t.Errorf("largest amount = %d, %v", got, err)
	}
	for _, bad := range []string{"12.345", "abc", "1,000", "--5", "5.-1", ".",
		"92233720368547758.08", "92233720368547759", "-100000000000000000"} {
		if _, err := ParseAmount(bad); err == nil {
			t.Errorf("ParseAmount(%q) should fail", bad)
		}
	}
}

func TestAmountJSON(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte(`"7500.50"`), &a); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if a != 750050 {
		t.Errorf("expected 750050, got %d", a)
	}
	if err := json.Unmarshal([]byte(`7500.5`), &a); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if a != 750050 {
		t.Errorf("expected 750050, got %d", a)
	}

	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "7500.50" {
		t.Errorf("expected 7500.50, got %s", out)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-01T23:30:00-05:00")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if d != NewDate(2026, time.March, 1) {
		t.Errorf("timestamp should keep its own date, got %s", d)
	}
	if _, err := ParseDate("01/03/2026"); err == nil {
		t.Error("expected error for non ISO date")
	}
	if NewDate(2026, time.February, 30) != NewDate(2026, time.March, 2) {
		t.Error("NewDate should normalize overflowing days")
	}
	if DaysIn(2024, time.February) != 29 || DaysIn(2026, time.February) != 28 {
		t.Error("DaysIn is wrong for February")
	}
}

func TestNewArtistDedupesGenres(t *testing.T) {
	a, err := NewArtist(Artist{ID: "a1", Name: " DJ Nova ", Genres: []string{"House", "house", "Techno", " ", "HOUSE"}})
	if err != nil {
		t.Fatalf("NewArtist returned error: %v", err)
	}
	if a.Name != "DJ Nova" {
		t.Errorf("expected trimmed name, got %q", a.Name)
	}
	if len(a.Genres) != 2 || a.Genres[0] != "House" || a.Genres[1] != "Techno" {
		t.Errorf("unexpected genres %v", a.Genres)
	}

	bad := 6.0
	if _, err := NewArtist(Artist{ID: "a2", Name: "X", Rating: &bad}); err == nil {
		t.Error("rating above 5 should fail")
	}
}

func TestParsePriceRange(t *testing.T) {
	pr, err := ParsePriceRange("5000-8000")
	if err != nil {
		t.Fatalf("ParsePriceRange returned error: %v", err)
	}
	if pr.Min != AmountFromMajor(5000) || pr.Max != AmountFromMajor(8000) {
		t.Errorf("unexpected range %+v", pr)
	}
	if pr.String() != "5000-8000" {
		t.Errorf("expected 5000-8000, got %s", pr.String())
	}
	if _, err := ParsePriceRange("8000-5000"); err == nil {
		t.Error("reversed bounds should fail")
	}
	fixed, err := ParsePriceRange("3000")
	if err != nil || fixed.Min != fixed.Max {
		t.Errorf("single value should be a fixed price, got %+v %v", fixed, err)
	}
}

func TestFilterArtists(t *testing.T) {
	artists := []*Artist{
		{ID: "1", Name: "DJ Nova", Type: "DJ", Location: "Stockholm", Genres: []string{"House", "Disco"}},
		{ID: "2", Name: "The Brass", Type: "Band", Location: "Malmö", Genres: []string{"Jazz"}},
		{ID: "3", Name: "Kite", Type: "DJ", Location: "Malmö", Genres: []string{"Techno"}},
	}

	if got := FilterArtists(artists, ArtistFilter{Query: "disco"}); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("query on genre failed: %v", got)
	}
	if got := FilterArtists(artists, ArtistFilter{Type: "dj", Location: "malmö"}); len(got) != 1 || got[0].ID != "3" {
		t.Errorf("type+location filter failed: %v", got)
	}
	if got := FilterArtists(artists, ArtistFilter{}); len(got) != 3 {
		t.Errorf("empty filter should keep all, got %d", len(got))
	}
}

func TestBuildConversations(t *testing.T) {
	base := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	msgs := []Message{
		{ConversationID: "c1", SenderID: "a1", SenderName: "DJ Nova", ReceiverID: "v1", Text: "hi", SentAt: base},
		{ConversationID: "c1", SenderID: "v1", SenderName: "Club", ReceiverID: "a1", Text: "hello back", SentAt: base.Add(time.Minute)},
		{ConversationID: "c2", SenderID: "a2", SenderName: "Kite", ReceiverID: "v1", Text: "free friday?", SentAt: base.Add(2 * time.Minute), EventID: "e1", EventName: "Friday"},
		{ConversationID: "c2", SenderID: "a2", SenderName: "Kite", ReceiverID: "v1", Text: "ping", SentAt: base.Add(3 * time.Minute), Read: true},
	}

	convs := BuildConversations(msgs, "v1")
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].ID != "c2" {
		t.Errorf("newest conversation should be first, got %s", convs[0].ID)
	}
	if convs[0].Unread != 1 || convs[0].LastMessage != "ping" || convs[0].EventName != "Friday" {
		t.Errorf("unexpected c2 summary %+v", convs[0])
	}
	if convs[1].ArtistID != "a1" || convs[1].ArtistName != "DJ Nova" {
		t.Errorf("counterpart should be the artist, got %+v", convs[1])
	}
	if convs[1].Unread != 1 || convs[1].LastMessage != "hello back" {
		t.Errorf("unexpected c1 summary %+v", convs[1])
	}
}

func TestMessageValidate(t *testing.T) {
	m := &Message{ConversationID: "c", SenderID: "u1", ReceiverID: "u1", Text: "hi"}
	if err := m.Validate(); err == nil {
		t.Error("sending to yourself should fail")
	}
	m.ReceiverID = "u2"
	m.Text = "   "
	if err := m.Validate(); err == nil {
		t.Error("blank text should fail")
	}
}

func TestConversationIDIsSymmetric(t *testing.T) {
	if ConversationID("a", "b") != ConversationID("b", "a") {
		t.Error("conversation id should not depend on argument order")
	}
}

func TestAvailability(t *testing.T) {
	a := Availability{
		UnavailableDates: []Date{NewDate(2026, time.February, 14)},
		UnavailableDateRanges: []DateRange{
			{Start: NewDate(2026, time.February, 24), End: NewDate(2026, time.February, 26)},
			{Start: NewDate(2026, time.February, 10)},
		},
	}

	snap := a.CalendarSnapshot(2026, time.February)
	if len(snap) != 28 {
		t.Fatalf("expected 28 days, got %d", len(snap))
	}
	for _, day := range []int{10, 14, 24, 25, 26} {
		if !snap[day] {
			t.Errorf("day %d should be unavailable", day)
		}
	}
	for _, day := range []int{11, 23, 27} {
		if snap[day] {
			t.Errorf("day %d should be available", day)
		}
	}
}

func TestPoolArtistIDsOrder(t *testing.T) {
	now := time.Now()
	p := &ArtistPool{Items: map[string]PoolEntry{
		"b": {ArtistID: "b", AddedAt: now.Add(time.Minute)},
		"a": {ArtistID: "a", AddedAt: now},
	}}
	ids := p.ArtistIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("unexpected order %v", ids)
	}
}
