package remote

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/resolver"
)

type requestsEnvelope struct {
	Requests []wireRequest `json:"requests"`
}

type resolutionEnvelope struct {
	Event    *wireEvent       `json:"event,omitempty"`
	Requests []wireRequest    `json:"requests"`
	Outcome  resolver.Outcome `json:"outcome"`
}

// Resolution is the server's answer to an accept or decline.
type Resolution struct {
	Event    *models.Event
	Requests []models.ArtistRequest
	Outcome  resolver.Outcome
}

func requestsPath(eventID string) string {
	return eventPath(eventID) + "/requests"
}

// ListRequests returns an event's requests in request-time order.
func (c *Client) ListRequests(ctx context.Context, eventID string) ([]models.ArtistRequest, error) {
	var res requestsEnvelope
	if err := c.do(ctx, http.MethodGet, requestsPath(eventID), nil, &res); err != nil {
		return nil, err
	}
	return resolver.Sorted(requestsFromWire(res.Requests)), nil
}

// ApplyToEvent files the signed-in artist's request for an open event.
func (c *Client) ApplyToEvent(ctx context.Context, eventID, message string) (*models.ArtistRequest, error) {
	var res struct {
		Request wireRequest `json:"request"`
	}
	body := map[string]string{"message": strings.TrimSpace(message)}
	if err := c.do(ctx, http.MethodPost, requestsPath(eventID), body, &res); err != nil {
		return nil, err
	}
	r := requestFromWire(res.Request)
	return &r, nil
}

func (c *Client) AcceptRequest(ctx context.Context, eventID, requestID string) (*Resolution, error) {
	return c.resolve(ctx, eventID, requestID, "accept")
}

func (c *Client) DeclineRequest(ctx context.Context, eventID, requestID string) (*Resolution, error) {
	return c.resolve(ctx, eventID, requestID, "decline")
}

// resolve is keyed on the event, since accepting one request also changes
// its siblings.
func (c *Client) resolve(ctx context.Context, eventID, requestID, verb string) (*Resolution, error) {
	release, err := c.guard.Acquire(eventID)
	if err != nil {
		return nil, err
	}
	defer release()

	path := requestsPath(eventID) + "/" + url.PathEscape(requestID) + "/" + verb
	var res resolutionEnvelope
	if err := c.do(ctx, http.MethodPost, path, nil, &res); err != nil {
		return nil, err
	}

	out := &Resolution{
		Requests: resolver.Sorted(requestsFromWire(res.Requests)),
		Outcome:  res.Outcome,
	}
	if res.Event != nil {
		ev, err := fromWire(*res.Event)
		if err != nil {
			return nil, err
		}
		out.Event = normalized(ev)
	}
	return out, nil
}
