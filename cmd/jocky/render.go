package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/joshua-takyi/jocky/internal/models"
	"github.com/joshua-takyi/jocky/internal/resolver"
	"github.com/joshua-takyi/jocky/internal/scheduling"
)

var weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func renderEvents(w io.Writer, events []*models.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "DATE\tTIME\tNAME\tSTATUS\tARTIST\tFEE\tID")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s-%s\t%s\t%s\t%s\t%s\t%s\n",
			ev.Date, ev.StartTime, ev.EndTime, ev.Name, ev.Status, ev.ArtistName, ev.Amount, ev.ID)
	}
	tw.Flush()
}

// renderMonth prints a Monday-first grid. Each day shows its number and the
// count of events; today is bracketed.
func renderMonth(w io.Writer, m scheduling.Month) {
	fmt.Fprintf(w, "%s %d\n", m.Month, m.Year)
	fmt.Fprintln(w, strings.Join(weekdays[:], "   "))
	for i, cell := range m.Cells() {
		fmt.Fprint(w, monthCell(cell))
		if i%7 == 6 {
			fmt.Fprintln(w)
		} else {
			fmt.Fprint(w, " ")
		}
	}
	if len(m.Cells())%7 != 0 {
		fmt.Fprintln(w)
	}
}

func monthCell(c scheduling.Cell) string {
	if c.IsPlaceholder() {
		return "     "
	}
	day := fmt.Sprintf("%2d", c.Date.Day)
	if c.Today {
		day = "[" + day + "]"
	} else {
		day = " " + day + " "
	}
	mark := " "
	switch {
	case c.Unavailable:
		mark = "x"
	case len(c.Events) > 9:
		mark = "+"
	case len(c.Events) > 0:
		mark = fmt.Sprint(len(c.Events))
	}
	return day + mark
}

func renderWeek(w io.Writer, wk scheduling.Week) {
	fmt.Fprintf(w, "Week %d, %d (%s to %s)\n", wk.Number, wk.ISOYear, wk.Start(), wk.End())
	tw := table(w)
	header := []string{"HOUR"}
	for i, d := range wk.Days {
		header = append(header, fmt.Sprintf("%s %02d", weekdays[i], d.Day))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range wk.Rows {
		cols := []string{fmt.Sprintf("%02d:00", row.Hour)}
		for _, cell := range row.Cells {
			names := make([]string, 0, len(cell))
			for _, ev := range cell {
				names = append(names, ev.Name)
			}
			cols = append(cols, strings.Join(names, ", "))
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	tw.Flush()
	if len(wk.Outside) > 0 {
		fmt.Fprintf(w, "%d event(s) outside %02d:00-%02d:00\n", len(wk.Outside), wk.Window.StartHour, wk.Window.EndHour)
	}
}

func renderHistory(w io.Writer, groups []scheduling.HistoryGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No past events")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(w, "%s %d\n", g.Month, g.Year)
		tw := table(w)
		for _, e := range g.Entries {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", e.Event.Date, e.Event.Name, e.Event.ArtistName, e.Outcome)
		}
		tw.Flush()
	}
}

func renderRequests(w io.Writer, reqs []models.ArtistRequest) {
	if len(reqs) == 0 {
		fmt.Fprintln(w, "No requests")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "REQUESTED\tARTIST\tGENRES\tSTATUS\tID")
	for _, r := range reqs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.RequestedAt.Local().Format("2006-01-02 15:04"), r.ArtistName, strings.Join(r.ArtistGenres, ", "), r.Status, r.ID)
	}
	tw.Flush()
	n := resolver.Counts(reqs)
	fmt.Fprintf(w, "%d pending, %d accepted, %d declined\n",
		n[models.RequestPending], n[models.RequestAccepted], n[models.RequestDeclined])
}

func renderArtists(w io.Writer, artists []*models.Artist) {
	if len(artists) == 0 {
		fmt.Fprintln(w, "No artists")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "NAME\tTYPE\tLOCATION\tGENRES\tPRICE\tID")
	for _, a := range artists {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", a.Name, a.Type, a.Location, strings.Join(a.Genres, ", "), a.PriceRange, a.ID)
	}
	tw.Flush()
}

func renderConversations(w io.Writer, convs []models.Conversation) {
	if len(convs) == 0 {
		fmt.Fprintln(w, "No conversations")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "WITH\tLAST\tUNREAD\tEVENT\tID")
	for _, c := range convs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", c.ArtistName, c.LastMessageAt.Local().Format("2006-01-02 15:04"), c.Unread, c.EventName, c.ID)
	}
	tw.Flush()
}

func renderMessages(w io.Writer, msgs []models.Message) {
	for _, m := range msgs {
		fmt.Fprintf(w, "[%s] %s: %s\n", m.SentAt.Local().Format("2006-01-02 15:04"), m.SenderName, m.Text)
	}
}
