package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"crewboard/internal/domain"
	"crewboard/internal/seatsync"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
)

func statusColor(st domain.SeatStatus) *color.Color {
	switch st {
	case domain.StatusAvailable, domain.StatusConfirmed:
		return okColor
	case domain.StatusMaybeAvailable, domain.StatusProvisional, domain.StatusReserved:
		return warnColor
	case domain.StatusNotAvailable, domain.StatusCancelled:
		return failColor
	default:
		return dimColor
	}
}

func memberLabel(id uuid.NullUUID, names map[uuid.UUID]string) string {
	if !id.Valid {
		return "-"
	}
	if name, ok := names[id.UUID]; ok {
		return name
	}
	return id.UUID.String()
}

func formatWindow(o domain.Outing, loc *time.Location) string {
	start := o.StartTime.In(loc)
	out := start.Format("Mon 02 Jan 15:04")
	if o.EndTime != nil {
		out += "-" + o.EndTime.In(loc).Format("15:04")
	}
	return out
}

func printOuting(w io.Writer, o domain.Outing, names map[uuid.UUID]string, loc *time.Location) {
	fmt.Fprintf(w, "%s (%s)\n", o.Name, o.ID)
	fmt.Fprintf(w, "  When:   %s\n", formatWindow(o, loc))
	fmt.Fprintf(w, "  Type:   %s\n", o.Type)
	if o.Shell != "" {
		fmt.Fprintf(w, "  Shell:  %s\n", o.Shell)
	}
	fmt.Fprintf(w, "  Status: %s\n\n", statusColor(o.Status).Sprint(o.Status))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEAT\tMEMBER\tSTATUS")
	for _, role := range domain.AllSeatRoles() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", role.Label(), memberLabel(o.Seats[role].Member, names), seatStatusLabel(o.Seats, role))
	}
	_ = tw.Flush()
}

func seatStatusLabel(reg domain.SeatRegistry, role domain.SeatRole) string {
	st, ok := reg.DisplayStatus(role)
	if ok {
		return statusColor(st).Sprint(st)
	}
	a, _ := reg.Get(role)
	if a.Inconsistent() {
		return warnColor.Sprintf("open (stale %s)", a.Status)
	}
	return dimColor.Sprint("open")
}

func printSeat(w io.Writer, a domain.SeatAssignment) {
	status := dimColor.Sprint("open")
	if a.Member.Valid {
		status = statusColor(a.Status).Sprint(a.Status)
	}
	fmt.Fprintf(w, "%s: %s [%s]\n", a.Role.Label(), memberLabel(a.Member, nil), status)
}

func printWarnings(w io.Writer, warnings []seatsync.Warning) {
	for _, warning := range warnings {
		warnColor.Fprintf(w, "warning: %s\n", warning.String())
	}
}

// PrintError writes a command failure in red.
func PrintError(w io.Writer, err error) {
	failColor.Fprintf(w, "error: %v\n", err)
}

func printUnavailability(w io.Writer, u domain.WeeklyUnavailability) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, wd := range domain.WeekdaysFromMonday {
		ranges := u.RangesFor(wd)
		label := dimColor.Sprint("free")
		if len(ranges) > 0 {
			parts := make([]string, 0, len(ranges))
			for _, r := range ranges {
				parts = append(parts, r.String())
			}
			label = strings.Join(parts, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s\n", wd, label)
	}
	_ = tw.Flush()
}
