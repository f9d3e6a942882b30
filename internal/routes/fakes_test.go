package routes

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/jocky/internal/container"
	"github.com/joshua-takyi/jocky/internal/models"
)

// memStore implements every repository in memory.
type memStore struct {
	mu       sync.Mutex
	events   map[string]*models.Event
	bookings map[string]*models.Booking
	requests []models.ArtistRequest
	artists  map[string]*models.Artist
	pools    map[string]*models.ArtistPool
	messages []models.Message
	venues   map[string]*models.Venue
	users    map[string]*models.User

	failEventUpdate bool
}

func newMemStore() *memStore {
	return &memStore{
		events:   map[string]*models.Event{},
		bookings: map[string]*models.Booking{},
		artists:  map[string]*models.Artist{},
		pools:    map[string]*models.ArtistPool{},
		venues:   map[string]*models.Venue{},
		users:    map[string]*models.User{},
	}
}

func (m *memStore) repos() container.Repos {
	return container.Repos{
		Users:    m,
		Venues:   m,
		Events:   m,
		Bookings: m,
		Requests: m,
		Artists:  m,
		Pool:     m,
		Messages: m,
	}
}

// events

func (m *memStore) CreateEvent(ctx context.Context, ev *models.Event) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[ev.ID] = ev.Clone()
	return ev.Clone(), nil
}

func (m *memStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	return ev.Clone(), nil
}

func (m *memStore) ListEvents(ctx context.Context, q models.EventQuery) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Event
	for _, ev := range m.events {
		if q.Matches(ev) {
			out = append(out, ev.Clone())
		}
	}
	return out, nil
}

// UpdateEvent merges the column patch through JSON, the way PostgREST
// applies it to a row.
func (m *memStore) UpdateEvent(ctx context.Context, id string, patch map[string]any) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEventUpdate {
		return nil, errDatabase
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	row := map[string]any{}
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	for k, v := range patch {
		if v == nil {
			v = ""
		}
		row[k] = v
	}
	raw, err = json.Marshal(row)
	if err != nil {
		return nil, err
	}
	var next models.Event
	if err := json.Unmarshal(raw, &next); err != nil {
		return nil, err
	}
	m.events[id] = &next
	return next.Clone(), nil
}

func (m *memStore) DeleteEvent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

// bookings

func (m *memStore) CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.bookings[b.ID] = &cp
	return &cp, nil
}

func (m *memStore) ListBookings(ctx context.Context, eventID string) ([]*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Booking
	for _, b := range m.bookings {
		if b.EventID == eventID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) UpdateBookingStatus(ctx context.Context, eventID string, status models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.EventID == eventID {
			b.Status = status
		}
	}
	return nil
}

func (m *memStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) DeleteBooking(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return models.ErrBookingNotFound
	}
	delete(m.bookings, id)
	return nil
}

// requests

func (m *memStore) CreateRequest(ctx context.Context, req *models.ArtistRequest) (*models.ArtistRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, *req)
	cp := *req
	return &cp, nil
}

func (m *memStore) ListRequests(ctx context.Context, eventID string) ([]models.ArtistRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ArtistRequest
	for _, r := range m.requests {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) SetRequestStatus(ctx context.Context, ids []string, status models.RequestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.requests {
		for _, id := range ids {
			if m.requests[i].ID == id {
				m.requests[i].Status = status
			}
		}
	}
	return nil
}

// artists and pools

func (m *memStore) ListArtists(ctx context.Context) ([]*models.Artist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Artist, 0, len(m.artists))
	for _, a := range m.artists {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artists[id]
	if !ok {
		return nil, models.ErrArtistNotFound
	}
	return a, nil
}

func (m *memStore) SaveArtist(ctx context.Context, a *models.Artist) (*models.Artist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artists[a.ID] = a
	return a, nil
}

func (m *memStore) AddToPool(ctx context.Context, venueID, artistID string) (*models.ArtistPool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pools[venueID]
	if !ok {
		p = &models.ArtistPool{VenueID: venueID, Items: map[string]models.PoolEntry{}}
		m.pools[venueID] = p
	}
	if _, ok := p.Items[artistID]; !ok {
		p.Items[artistID] = models.PoolEntry{ArtistID: artistID, AddedAt: time.Now().Add(time.Duration(len(p.Items)) * time.Second)}
	}
	return p, nil
}

func (m *memStore) RemoveFromPool(ctx context.Context, venueID, artistID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pools[venueID]; ok {
		delete(p.Items, artistID)
	}
	return nil
}

func (m *memStore) GetPool(ctx context.Context, venueID string) (*models.ArtistPool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pools[venueID]; ok {
		return p, nil
	}
	return &models.ArtistPool{VenueID: venueID, Items: map[string]models.PoolEntry{}}, nil
}

// messages

func (m *memStore) CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, *msg)
	cp := *msg
	return &cp, nil
}

func (m *memStore) ListMessagesFor(ctx context.Context, userID string) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Message
	for _, msg := range m.messages {
		if msg.SenderID == userID || msg.ReceiverID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memStore) ListConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memStore) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.messages {
		msg := &m.messages[i]
		if msg.ConversationID == conversationID && msg.ReceiverID == readerID && !msg.Read {
			msg.Read = true
			n++
		}
	}
	return n, nil
}

// venues and users

func (m *memStore) GetVenue(ctx context.Context, id string) (*models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.venues[id]
	if !ok {
		return nil, models.ErrVenueNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memStore) SaveVenue(ctx context.Context, v *models.Venue) (*models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.venues[v.ID] = &cp
	return v, nil
}

func (m *memStore) CreateUser(ctx context.Context, user *models.User, password string) (*models.AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = "user-" + strings.ToLower(user.Name)
	m.users[user.Email] = user
	return &models.AuthResult{Token: "token-" + user.ID, User: user}, nil
}

func (m *memStore) AuthenticateUser(ctx context.Context, email, password string) (*models.AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, errDatabase
	}
	return &models.AuthResult{Token: "token-" + u.ID, User: u}, nil
}

func (m *memStore) GetUser(ctx context.Context, id string, accessToken string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errDatabase
}
