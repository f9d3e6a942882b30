package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/remote"
	"github.com/joshua-takyi/jocky/internal/resolver"
	"github.com/joshua-takyi/jocky/internal/scheduling"
)

// agendaDays is the default agenda horizon.
const agendaDays = 30

func sortedCommands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// dateFlag parses an optional YYYY-MM-DD flag value.
func dateFlag(name, raw string) (models.Date, error) {
	if raw == "" {
		return models.Date{}, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, &models.ValidationError{Field: name, Message: "expected YYYY-MM-DD"}
	}
	return d, nil
}

// positional returns exactly n positional arguments.
func positional(args []string, n int, what string) ([]string, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %s", what)
	}
	return args, nil
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("JOCKY_PASSWORD"), "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		*password = strings.TrimSpace(line)
	}

	user, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	name := *email
	if user != nil && user.Name != "" {
		name = user.Name
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", name)
	return nil
}

func runLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.client.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func runEvents(ctx context.Context, a *app, args []string) error {
	fs := newFlags("events")
	status := fs.String("status", "", "only events in this status")
	from := fs.String("from", "", "first date")
	to := fs.String("to", "", "last date")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q := remote.Query{Status: models.EventStatus(*status)}
	var err error
	if q.From, err = dateFlag("from", *from); err != nil {
		return err
	}
	if q.To, err = dateFlag("to", *to); err != nil {
		return err
	}

	events, err := a.client.ListEvents(ctx, q)
	if err != nil {
		return err
	}
	renderEvents(a.out, events)
	return nil
}

func runCreate(ctx context.Context, a *app, args []string) error {
	fs := newFlags("create")
	name := fs.String("name", "", "event name")
	date := fs.String("date", "", "event date")
	start := fs.String("start", "", "start time HH:MM")
	end := fs.String("end", "", "end time HH:MM")
	amount := fs.String("amount", "0", "fee in SEK")
	notes := fs.String("notes", "", "notes for the artist")
	genres := fs.String("genres", "", "comma separated desired genres")
	floor := fs.String("floor", "", "dance floor id")
	artist := fs.String("artist", "", "offer directly to this artist")
	artistName := fs.String("artist-name", "", "display name of the artist")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := dateFlag("event_date", *date)
	if err != nil {
		return err
	}
	amt, err := models.ParseAmount(*amount)
	if err != nil {
		return &models.ValidationError{Field: "amount_sek", Message: err.Error()}
	}
	in := models.EventInput{
		Name:          *name,
		Date:          d,
		StartTime:     *start,
		EndTime:       *end,
		DanceFloorID:  *floor,
		Amount:        amt,
		Notes:         *notes,
		DesiredGenres: splitList(*genres),
	}
	inv := remote.Invite{Method: remote.InviteOpen}
	if *artist != "" {
		inv = remote.Invite{Method: remote.InviteDirect, ArtistID: *artist, ArtistName: *artistName}
	}

	ev, err := a.client.CreateEvent(ctx, in, inv)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s (%s)\n", ev.ID, ev.Status)
	return nil
}

func runMonth(ctx context.Context, a *app, args []string) error {
	fs := newFlags("month")
	date := fs.String("date", "", "any day of the month")
	next := fs.Bool("next", false, "show the following month")
	prev := fs.Bool("prev", false, "show the previous month")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ref, err := dateFlag("date", *date)
	if err != nil {
		return err
	}
	today := a.nav.Today()
	if ref.IsZero() {
		ref = today
	}
	switch {
	case *next:
		ref = a.nav.NextMonth(ref)
	case *prev:
		ref = a.nav.PrevMonth(ref)
	}

	first := models.NewDate(ref.Year, ref.Month, 1)
	last := models.NewDate(ref.Year, ref.Month, models.DaysIn(ref.Year, ref.Month))
	events, err := a.client.ListEvents(ctx, remote.Query{From: first, To: last})
	if err != nil {
		return err
	}
	renderMonth(a.out, scheduling.MonthGrid(ref, events, scheduling.WithToday(today)))
	return nil
}

func runWeek(ctx context.Context, a *app, args []string) error {
	fs := newFlags("week")
	date := fs.String("date", "", "any day of the week")
	next := fs.Bool("next", false, "show the following week")
	prev := fs.Bool("prev", false, "show the previous week")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ref, err := dateFlag("date", *date)
	if err != nil {
		return err
	}
	if ref.IsZero() {
		ref = a.nav.Today()
	}
	switch {
	case *next:
		ref = a.nav.NextWeek(ref)
	case *prev:
		ref = a.nav.PrevWeek(ref)
	}

	start := scheduling.WeekStart(ref)
	events, err := a.client.ListEvents(ctx, remote.Query{From: start, To: start.AddDays(6)})
	if err != nil {
		return err
	}
	renderWeek(a.out, scheduling.WeekGrid(ref, events, a.cfg.Week))
	return nil
}

func runAgenda(ctx context.Context, a *app, args []string) error {
	fs := newFlags("agenda")
	from := fs.String("from", "", "first date (default today)")
	to := fs.String("to", "", "last date")
	if err := fs.Parse(args); err != nil {
		return err
	}
	start, err := dateFlag("from", *from)
	if err != nil {
		return err
	}
	end, err := dateFlag("to", *to)
	if err != nil {
		return err
	}
	if start.IsZero() {
		start = a.nav.Today()
	}
	if end.IsZero() {
		end = start.AddDays(agendaDays)
	}

	events, err := a.client.ListEvents(ctx, remote.Query{From: start, To: end})
	if err != nil {
		return err
	}
	renderEvents(a.out, scheduling.Agenda(events, start, end))
	return nil
}

func runHistory(ctx context.Context, a *app, _ []string) error {
	events, err := a.client.ListEvents(ctx, remote.Query{})
	if err != nil {
		return err
	}
	renderHistory(a.out, scheduling.HistoryByMonth(events, a.nav.Today()))
	return nil
}

func runOffer(ctx context.Context, a *app, args []string) error {
	fs := newFlags("offer")
	eventID := fs.String("event", "", "event id")
	artist := fs.String("artist", "", "artist id")
	artistName := fs.String("artist-name", "", "artist display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ev, err := a.client.GetEvent(ctx, *eventID)
	if err != nil {
		return err
	}
	name := *artistName
	if name == "" && *artist != "" {
		if profile, err := a.client.GetArtist(ctx, *artist); err == nil {
			name = profile.Name
		}
	}

	updated, err := a.client.SendOffer(ctx, ev, *artist, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Offered %s to %s\n", updated.Name, updated.ArtistName)
	return nil
}

type transitionFunc func(c *remote.Client, ctx context.Context, ev *models.Event) (*models.Event, error)

func transitionCommand(step transitionFunc) func(context.Context, *app, []string) error {
	return func(ctx context.Context, a *app, args []string) error {
		args, err := positional(args, 1, "an event id")
		if err != nil {
			return err
		}
		ev, err := a.client.GetEvent(ctx, args[0])
		if err != nil {
			return err
		}
		updated, err := step(a.client, ctx, ev)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s is now %s\n", updated.Name, updated.Status)
		return nil
	}
}

// runEdit changes the fields given as flags and saves the whole event, the
// way the create form does.
func runEdit(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("expected an event id")
	}
	eventID := args[0]
	fs := newFlags("edit")
	name := fs.String("name", "", "event name")
	date := fs.String("date", "", "event date (YYYY-MM-DD)")
	start := fs.String("start", "", "start time (HH:MM)")
	end := fs.String("end", "", "end time (HH:MM)")
	amount := fs.String("amount", "", "fee")
	notes := fs.String("notes", "", "notes for the artist")
	genres := fs.String("genres", "", "comma-separated desired genres")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if fs.NFlag() == 0 {
		return errors.New("nothing to change")
	}

	ev, err := a.client.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	next := ev.Clone()
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		if flagErr != nil {
			return
		}
		switch f.Name {
		case "name":
			next.Name = *name
		case "date":
			next.Date, flagErr = dateFlag("date", *date)
		case "start":
			next.StartTime = *start
		case "end":
			next.EndTime = *end
		case "amount":
			next.Amount, flagErr = models.ParseAmount(*amount)
		case "notes":
			next.Notes = *notes
		case "genres":
			next.DesiredGenres = models.RemoveDuplicates(splitList(*genres))
		}
	})
	if flagErr != nil {
		return flagErr
	}

	updated, err := a.client.UpdateEvent(ctx, ev, models.FullPatch(next))
	if err != nil {
		return err
	}
	renderEvents(a.out, []*models.Event{updated})
	return nil
}

func runDelete(ctx context.Context, a *app, args []string) error {
	args, err := positional(args, 1, "an event id")
	if err != nil {
		return err
	}
	ev, err := a.client.GetEvent(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.client.DeleteEvent(ctx, ev, a.confirm); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", ev.Name)
	return nil
}

func runRequests(ctx context.Context, a *app, args []string) error {
	args, err := positional(args, 1, "an event id")
	if err != nil {
		return err
	}
	reqs, err := a.client.ListRequests(ctx, args[0])
	if err != nil {
		return err
	}
	renderRequests(a.out, reqs)
	return nil
}

func runApply(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("expected an event id")
	}
	eventID := args[0]
	fs := newFlags("apply")
	message := fs.String("message", "", "note to the venue")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	req, err := a.client.ApplyToEvent(ctx, eventID, *message)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Request %s sent for %s\n", req.ID, req.EventName)
	return nil
}

// resolveCommand accepts or declines one request. Without a request id,
// accept takes the earliest pending request and decline rejects every
// pending one.
func resolveCommand(accept bool) func(context.Context, *app, []string) error {
	return func(ctx context.Context, a *app, args []string) error {
		if len(args) != 1 && len(args) != 2 {
			return errors.New("expected an event id and an optional request id")
		}
		eventID := args[0]
		ids := args[1:]
		if len(ids) == 0 {
			picked, err := pickPending(ctx, a, eventID, accept)
			if err != nil {
				return err
			}
			ids = picked
		}

		resolve := a.client.DeclineRequest
		if accept {
			resolve = a.client.AcceptRequest
		}
		var res *remote.Resolution
		for _, id := range ids {
			r, err := resolve(ctx, eventID, id)
			if err != nil {
				return err
			}
			res = r
		}
		if res == nil {
			fmt.Fprintln(a.out, "No pending requests")
			return nil
		}
		if res.Event != nil {
			fmt.Fprintf(a.out, "%s is now %s with %s\n", res.Event.Name, res.Event.Status, res.Event.ArtistName)
		}
		renderRequests(a.out, res.Requests)
		return nil
	}
}

// pickPending runs the resolver on a local copy to choose which requests
// to send to the API.
func pickPending(ctx context.Context, a *app, eventID string, accept bool) ([]string, error) {
	reqs, err := a.client.ListRequests(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !accept {
		return resolver.DeclineAllPending(reqs), nil
	}
	ev, err := a.client.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out, err := resolver.AcceptEarliest(ev, reqs)
	if err != nil {
		return nil, err
	}
	return []string{out.Accepted}, nil
}

func runArtists(ctx context.Context, a *app, args []string) error {
	fs := newFlags("artists")
	var f models.ArtistFilter
	fs.StringVar(&f.Query, "q", "", "name or genre contains")
	fs.StringVar(&f.Type, "type", "", "artist type")
	fs.StringVar(&f.Genre, "genre", "", "genre")
	fs.StringVar(&f.Location, "location", "", "location")
	if err := fs.Parse(args); err != nil {
		return err
	}
	artists, err := a.client.ListArtists(ctx, f)
	if err != nil {
		return err
	}
	renderArtists(a.out, artists)
	return nil
}

func runPool(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		artists, err := a.client.ListPool(ctx)
		if err != nil {
			return err
		}
		renderArtists(a.out, artists)
		return nil
	}
	args, err := positional(args, 2, "add|remove and an artist id")
	if err != nil {
		return err
	}
	switch args[0] {
	case "add":
		err = a.client.AddToPool(ctx, args[1])
	case "remove":
		err = a.client.RemoveFromPool(ctx, args[1])
	default:
		return fmt.Errorf("unknown pool action %q", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Pool updated")
	return nil
}

func runMessages(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		convs, err := a.client.ListConversations(ctx)
		if err != nil {
			return err
		}
		renderConversations(a.out, convs)
		return nil
	}
	msgs, err := a.client.ListMessages(ctx, args[0])
	if err != nil {
		return err
	}
	renderMessages(a.out, msgs)
	if _, err := a.client.MarkRead(ctx, args[0]); err != nil {
		return err
	}
	return nil
}

func runSend(ctx context.Context, a *app, args []string) error {
	fs := newFlags("send")
	var in remote.SendMessageInput
	fs.StringVar(&in.ReceiverID, "to", "", "recipient user id")
	fs.StringVar(&in.Text, "text", "", "message text")
	fs.StringVar(&in.EventID, "event", "", "related event id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	msg, err := a.client.SendMessage(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Sent at %s\n", msg.SentAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func runICS(ctx context.Context, a *app, args []string) error {
	fs := newFlags("ics")
	path := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	events, err := a.client.ListEvents(ctx, remote.Query{})
	if err != nil {
		return err
	}

	out := a.out
	if *path != "" {
		f, err := os.Create(*path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return scheduling.WriteICS(out, events, scheduling.ICSOptions{Name: "Jocky", Domain: a.cfg.ICSDomain})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
