package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/joshua-takyi/jocky/internal/config"
	"github.com/joshua-takyi/jocky/internal/container"
	"github.com/joshua-takyi/jocky/internal/helpers"
	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/remote"
	"github.com/joshua-takyi/jocky/internal/session"
)

var errDatabase = errors.New("database unavailable")

type testServer struct {
	router *gin.Engine
	store  *memStore
	signer *helpers.HS256Validator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	store.artists["artist-1"] = &models.Artist{ID: "artist-1", Name: "DJ Nova", Type: "DJ", Genres: []string{"House"}}
	store.artists["artist-2"] = &models.Artist{ID: "artist-2", Name: "Lina Keys", Type: "Live", Genres: []string{"Jazz"}}

	cfg := &config.Config{
		Environment: "test",
		CORSOrigins: []string{"http://localhost:3000"},
		TodayAnchor: models.NewDate(2025, time.June, 1),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	signer := helpers.NewHS256Validator("test-secret")
	c := container.NewContainer(cfg, logger, signer, store.repos(), nil)

	return &testServer{router: SetupRoutes(c), store: store, signer: signer}
}

func (s *testServer) token(t *testing.T, userID string, role models.Role) string {
	t.Helper()
	tok, err := s.signer.Sign(&helpers.CustomClaims{
		Role:         "authenticated",
		Email:        userID + "@example.com",
		UserMetadata: map[string]any{"role": string(role), "name": userID},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

type eventBody struct {
	Event models.Event `json:"event"`
}

func (s *testServer) createEvent(t *testing.T, token string) models.Event {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/events", token, map[string]any{
		"event_name": "Friday Late",
		"event_date": "2025-06-20",
		"start_time": "21:00",
		"end_time":   "23:30",
		"amount_sek": "5000.00",
		"status":     "confirmed",
		"artist_id":  "artist-9",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create event: got %d %s", w.Code, w.Body.String())
	}
	return decode[eventBody](t, w).Event
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)

	t.Run("missing", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/events", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("forged", func(t *testing.T) {
		other := helpers.NewHS256Validator("other-secret")
		tok, _ := other.Sign(&helpers.CustomClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "venue-1"}})
		w := s.do(t, http.MethodGet, "/api/events", tok, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}

func TestCreateEventIsStoredAsCreated(t *testing.T) {
	s := newTestServer(t)
	venue := s.token(t, "venue-1", models.RoleVenue)

	ev := s.createEvent(t, venue)
	if ev.Status != models.EventCreated {
		t.Errorf("expected created, got %s", ev.Status)
	}
	if ev.VenueID != "venue-1" {
		t.Errorf("expected venue-1, got %q", ev.VenueID)
	}
	if ev.ArtistID != "" {
		t.Errorf("artist should not be bound on create, got %q", ev.ArtistID)
	}
	if ev.Amount != models.AmountFromMajor(5000) {
		t.Errorf("expected 5000.00, got %s", ev.Amount)
	}
	if !ev.OpenForRequests {
		t.Error("new events should be open for requests")
	}
}

func TestArtistCannotCreateEvent(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/events", s.token(t, "artist-1", models.RoleArtist), map[string]any{
		"event_date": "2025-06-20", "start_time": "21:00", "end_time": "23:00",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestCreateEventValidation(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/events", s.token(t, "venue-1", models.RoleVenue), map[string]any{
		"event_name": "Backwards",
		"event_date": "2025-06-20",
		"start_time": "23:00",
		"end_time":   "21:00",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", w.Code, w.Body.String())
	}
	if len(s.store.events) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestEventLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	venue := s.token(t, "venue-1", models.RoleVenue)
	ev := s.createEvent(t, venue)
	path := "/api/events/" + ev.ID

	put := func(body map[string]any) *httptest.ResponseRecorder {
		return s.do(t, http.MethodPut, path, venue, body)
	}

	if w := put(map[string]any{"status": "open"}); w.Code != http.StatusOK {
		t.Fatalf("settle to open: %d %s", w.Code, w.Body.String())
	}
	if w := put(map[string]any{"status": "confirmed"}); w.Code != http.StatusConflict {
		t.Fatalf("open to confirmed should conflict, got %d", w.Code)
	}

	w := s.do(t, http.MethodPost, "/api/bookings", venue, map[string]any{"event_id": ev.ID, "artist_id": "artist-1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create booking: %d %s", w.Code, w.Body.String())
	}
	booking := decode[struct {
		Booking models.Booking `json:"booking"`
	}](t, w).Booking
	if booking.Status != models.BookingPending {
		t.Errorf("expected pending booking, got %s", booking.Status)
	}

	w = put(map[string]any{"status": "offered", "artist_id": "artist-1", "artist_name": "DJ Nova"})
	if w.Code != http.StatusOK {
		t.Fatalf("offer: %d %s", w.Code, w.Body.String())
	}
	if got := decode[eventBody](t, w).Event; got.Status != models.EventOffered || got.ArtistName != "DJ Nova" {
		t.Fatalf("unexpected offered event %+v", got)
	}

	if w := put(map[string]any{"status": "confirmed"}); w.Code != http.StatusOK {
		t.Fatalf("confirm: %d %s", w.Code, w.Body.String())
	}
	if b := s.store.bookings[booking.ID]; b.Status != models.BookingConfirmed {
		t.Errorf("booking should follow the event, got %s", b.Status)
	}
	if w := s.do(t, http.MethodDelete, "/api/bookings/"+booking.ID, venue, nil); w.Code != http.StatusConflict {
		t.Errorf("confirmed booking delete should conflict, got %d", w.Code)
	}

	if w := put(map[string]any{"status": "cancelled"}); w.Code != http.StatusOK {
		t.Fatalf("cancel: %d %s", w.Code, w.Body.String())
	}
	if w := s.do(t, http.MethodDelete, path, venue, nil); w.Code != http.StatusConflict {
		t.Errorf("cancelled events are kept, got %d", w.Code)
	}
}

func TestOtherVenueCannotTouchEvent(t *testing.T) {
	s := newTestServer(t)
	ev := s.createEvent(t, s.token(t, "venue-1", models.RoleVenue))
	other := s.token(t, "venue-2", models.RoleVenue)

	if w := s.do(t, http.MethodPut, "/api/events/"+ev.ID, other, map[string]any{"status": "open"}); w.Code != http.StatusForbidden {
		t.Errorf("update: expected 403, got %d", w.Code)
	}
	if w := s.do(t, http.MethodDelete, "/api/events/"+ev.ID, other, nil); w.Code != http.StatusForbidden {
		t.Errorf("delete: expected 403, got %d", w.Code)
	}
}

func TestDeleteBooking(t *testing.T) {
	s := newTestServer(t)
	venue := s.token(t, "venue-1", models.RoleVenue)
	ev := s.createEvent(t, venue)

	w := s.do(t, http.MethodPost, "/api/bookings", venue, map[string]any{"event_id": ev.ID, "artist_id": "artist-1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create booking: %d", w.Code)
	}
	id := decode[struct {
		Booking models.Booking `json:"booking"`
	}](t, w).Booking.ID

	w = s.do(t, http.MethodDelete, "/api/bookings/"+id, venue, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"deleted":true`) {
		t.Fatalf("delete booking: %d %s", w.Code, w.Body.String())
	}
	if len(s.store.bookings) != 0 {
		t.Error("booking should be gone")
	}
	if w := s.do(t, http.MethodDelete, "/api/bookings/"+id, venue, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", w.Code)
	}
}

func TestRequestResolution(t *testing.T) {
	s := newTestServer(t)
	venue := s.token(t, "venue-1", models.RoleVenue)
	nova := s.token(t, "artist-1", models.RoleArtist)
	lina := s.token(t, "artist-2", models.RoleArtist)
	ev := s.createEvent(t, venue)
	reqPath := "/api/events/" + ev.ID + "/requests"

	apply := func(token string) models.ArtistRequest {
		t.Helper()
		w := s.do(t, http.MethodPost, reqPath, token, map[string]any{"message": "I'd love to play"})
		if w.Code != http.StatusCreated {
			t.Fatalf("apply: %d %s", w.Code, w.Body.String())
		}
		return decode[struct {
			Request models.ArtistRequest `json:"request"`
		}](t, w).Request
	}
	r1 := apply(nova)
	if r1.ArtistName != "DJ Nova" || r1.EventName != "Friday Late" {
		t.Errorf("request should copy display names, got %+v", r1)
	}
	// Request times break ties in resolution order.
	time.Sleep(2 * time.Millisecond)
	r2 := apply(lina)

	if w := s.do(t, http.MethodPost, reqPath, nova, map[string]any{}); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate pending request: expected 400, got %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, reqPath+"/"+r1.ID+"/accept", nova, nil); w.Code != http.StatusForbidden {
		t.Errorf("artists cannot accept: expected 403, got %d", w.Code)
	}

	w := s.do(t, http.MethodPost, reqPath+"/"+r1.ID+"/accept", venue, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("accept: %d %s", w.Code, w.Body.String())
	}
	res := decode[struct {
		Event    *models.Event          `json:"event"`
		Requests []models.ArtistRequest `json:"requests"`
		Outcome  struct {
			Accepted string   `json:"accepted"`
			Declined []string `json:"declined"`
		} `json:"outcome"`
	}](t, w)
	if res.Event == nil || res.Event.Status != models.EventOffered || res.Event.ArtistID != "artist-1" {
		t.Fatalf("event should be offered to artist-1, got %+v", res.Event)
	}
	if res.Outcome.Accepted != r1.ID || len(res.Outcome.Declined) != 1 || res.Outcome.Declined[0] != r2.ID {
		t.Errorf("unexpected outcome %+v", res.Outcome)
	}

	accepted := 0
	for _, r := range s.store.requests {
		if r.Status == models.RequestAccepted {
			accepted++
		}
	}
	if accepted != 1 {
		t.Errorf("expected exactly one accepted request, got %d", accepted)
	}
	if len(s.store.bookings) != 1 {
		t.Errorf("expected one booking, got %d", len(s.store.bookings))
	}

	if w := s.do(t, http.MethodPost, reqPath+"/"+r2.ID+"/accept", venue, nil); w.Code != http.StatusConflict {
		t.Errorf("accepting a declined request: expected 409, got %d", w.Code)
	}
}

func TestAcceptRollsBackBookingWhenEventUpdateFails(t *testing.T) {
	s := newTestServer(t)
	venue := s.token(t, "venue-1", models.RoleVenue)
	ev := s.createEvent(t, venue)
	reqPath := "/api/events/" + ev.ID + "/requests"

	w := s.do(t, http.MethodPost, reqPath, s.token(t, "artist-1", models.RoleArtist), map[string]any{})
	if w.Code != http.StatusCreated {
		t.Fatalf("apply: %d", w.Code)
	}
	id := decode[struct {
		Request models.ArtistRequest `json:"request"`
	}](t, w).Request.ID

	s.store.failEventUpdate = true
	w = s.do(t, http.MethodPost, reqPath+"/"+id+"/accept", venue, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if len(s.store.bookings) != 0 {
		t.Error("booking should have been removed")
	}
	if s.store.requests[0].Status != models.RequestPending {
		t.Errorf("request should stay pending, got %s", s.store.requests[0].Status)
	}
}

func TestPool(t *testing.T) {
	s := newTestServer(t)
	venue := s.token(t, "venue-1", models.RoleVenue)

	if w := s.do(t, http.MethodPost, "/api/pool/artist-2", venue, nil); w.Code != http.StatusOK {
		t.Fatalf("add: %d %s", w.Code, w.Body.String())
	}
	if w := s.do(t, http.MethodPost, "/api/pool/artist-1", venue, nil); w.Code != http.StatusOK {
		t.Fatalf("add: %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/api/pool/nobody", venue, nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown artist: expected 404, got %d", w.Code)
	}

	w := s.do(t, http.MethodGet, "/api/pool", venue, nil)
	artists := decode[struct {
		Artists []models.Artist `json:"artists"`
	}](t, w).Artists
	if len(artists) != 2 || artists[0].ID != "artist-2" {
		t.Fatalf("expected pool in insertion order, got %+v", artists)
	}

	if w := s.do(t, http.MethodDelete, "/api/pool/artist-2", venue, nil); w.Code != http.StatusOK {
		t.Fatalf("remove: %d", w.Code)
	}
	w = s.do(t, http.MethodGet, "/api/pool", venue, nil)
	if got := decode[struct {
		Artists []models.Artist `json:"artists"`
	}](t, w).Artists; len(got) != 1 {
		t.Errorf("expected one artist left, got %d", len(got))
	}
}

func TestArtistSearch(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/artists?genre=jazz", s.token(t, "venue-1", models.RoleVenue), nil)
	artists := decode[struct {
		Artists []models.Artist `json:"artists"`
	}](t, w).Artists
	if len(artists) != 1 || artists[0].ID != "artist-2" {
		t.Fatalf("expected only Lina Keys, got %+v", artists)
	}
}

func TestMessaging(t *testing.T) {
	s := newTestServer(t)
	venue := s.token(t, "venue-1", models.RoleVenue)
	nova := s.token(t, "artist-1", models.RoleArtist)

	w := s.do(t, http.MethodPost, "/api/messages", venue, map[string]any{"receiver_id": "artist-1", "text": "  Free on the 20th?  "})
	if w.Code != http.StatusCreated {
		t.Fatalf("send: %d %s", w.Code, w.Body.String())
	}
	msg := decode[struct {
		Message models.Message `json:"message"`
	}](t, w).Message
	if msg.Text != "Free on the 20th?" {
		t.Errorf("text should be trimmed, got %q", msg.Text)
	}

	w = s.do(t, http.MethodGet, "/api/messages/conversations", nova, nil)
	convs := decode[struct {
		Conversations []models.Conversation `json:"conversations"`
	}](t, w).Conversations
	if len(convs) != 1 || convs[0].Unread != 1 {
		t.Fatalf("expected one unread conversation, got %+v", convs)
	}

	convPath := "/api/messages/" + msg.ConversationID
	if w := s.do(t, http.MethodGet, convPath, s.token(t, "venue-2", models.RoleVenue), nil); w.Code != http.StatusForbidden {
		t.Errorf("outsider read: expected 403, got %d", w.Code)
	}
	w = s.do(t, http.MethodPost, convPath+"/read", nova, nil)
	if got := decode[struct {
		Updated int `json:"updated"`
	}](t, w).Updated; got != 1 {
		t.Errorf("expected 1 message marked read, got %d", got)
	}

	if w := s.do(t, http.MethodPost, "/api/messages", venue, map[string]any{"receiver_id": "venue-1", "text": "me"}); w.Code != http.StatusBadRequest {
		t.Errorf("self message: expected 400, got %d", w.Code)
	}
}

func TestCalendarViews(t *testing.T) {
	s := newTestServer(t)
	venue := s.token(t, "venue-1", models.RoleVenue)
	s.createEvent(t, venue)

	t.Run("month uses today anchor", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/calendar/month", venue, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("month: %d %s", w.Code, w.Body.String())
		}
		m := decode[struct {
			Month struct {
				Year    int `json:"year"`
				Month   int `json:"month"`
				Leading int `json:"leading"`
				Days    []struct {
					Events []models.Event `json:"events"`
				} `json:"days"`
			} `json:"month"`
		}](t, w).Month
		if m.Year != 2025 || m.Month != 6 || len(m.Days) != 30 {
			t.Fatalf("unexpected month %d-%d with %d days", m.Year, m.Month, len(m.Days))
		}
		// June 2025 starts on a Sunday.
		if m.Leading != 6 {
			t.Errorf("expected 6 leading blanks, got %d", m.Leading)
		}
		if len(m.Days[19].Events) != 1 {
			t.Errorf("expected the event on June 20")
		}
	})

	t.Run("bad date", func(t *testing.T) {
		if w := s.do(t, http.MethodGet, "/api/calendar/week?date=20-06-2025", venue, nil); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("ics", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/calendar.ics", venue, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("ics: %d", w.Code)
		}
		if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar") {
			t.Errorf("unexpected content type %q", w.Header().Get("Content-Type"))
		}
		if !strings.Contains(w.Body.String(), "BEGIN:VCALENDAR") {
			t.Error("expected a calendar body")
		}
	})
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "new@example.com", "password": "password", "name": "New",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRemoteClientAgainstServer(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	sess := session.New()
	sess.Set(s.token(t, "venue-1", models.RoleVenue), &models.User{ID: "venue-1", Role: models.RoleVenue})
	client := remote.NewClient(srv.URL+"/api", sess, remote.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ctx := context.Background()

	ev, err := client.CreateEvent(ctx, models.EventInput{
		Name:      "Saturday Main Room",
		Date:      models.NewDate(2025, time.June, 21),
		StartTime: "22:00",
		EndTime:   "23:59",
		Amount:    models.AmountFromMajor(7500),
	}, remote.Invite{Method: remote.InviteDirect, ArtistID: "artist-1", ArtistName: "DJ Nova"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev.Status != models.EventOffered || ev.ArtistID != "artist-1" {
		t.Fatalf("expected an offered event, got %s / %q", ev.Status, ev.ArtistID)
	}
	if len(s.store.bookings) != 1 {
		t.Fatalf("expected one booking, got %d", len(s.store.bookings))
	}

	ev, err = client.AcceptOffer(ctx, ev)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if ev.Status != models.EventConfirmed {
		t.Fatalf("expected confirmed, got %s", ev.Status)
	}

	if _, err := client.SendOffer(ctx, ev, "artist-2", "Lina Keys"); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("offering a confirmed event should fail locally, got %v", err)
	}

	if err := client.DeleteEvent(ctx, ev, remote.Assume(true)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.GetEvent(ctx, ev.ID); !remote.IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404 after delete, got %v", err)
	}
}

func TestSaveArtistProfile(t *testing.T) {
	s := newTestServer(t)
	rating := 4.5
	s.store.artists["artist-1"].Rating = &rating
	nova := s.token(t, "artist-1", models.RoleArtist)

	w := s.do(t, http.MethodPut, "/api/artist", nova, map[string]any{
		"name":   " DJ Nova ",
		"type":   "DJ",
		"genres": []string{"House", "house", "Disco"},
		"rating": 5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("save: %d %s", w.Code, w.Body.String())
	}
	got := decode[struct {
		Artist models.Artist `json:"artist"`
	}](t, w).Artist
	if got.ID != "artist-1" || got.Name != "DJ Nova" {
		t.Errorf("unexpected profile %+v", got)
	}
	if len(got.Genres) != 2 || got.Genres[0] != "House" || got.Genres[1] != "Disco" {
		t.Errorf("expected deduplicated genres, got %v", got.Genres)
	}
	if got.Rating == nil || *got.Rating != 4.5 {
		t.Errorf("rating should be kept from the stored profile, got %v", got.Rating)
	}

	if w := s.do(t, http.MethodPut, "/api/artist", s.token(t, "venue-1", models.RoleVenue), map[string]any{"name": "X"}); w.Code != http.StatusForbidden {
		t.Errorf("venues cannot save artist profiles, got %d", w.Code)
	}
}
