package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"crewboard/internal/domain"
)

// NewCoxingCommand manages per-date cox sign-ups.
func NewCoxingCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coxing",
		Short: "Show and edit cox sign-ups by date and slot",
		Long: `Coxes sign up for slots on specific dates. When anyone has signed up on an
outing's date, only coxes signed up for the outing's slot are offered the cox seat.

Slots: early-am (06-08), mid-am (08-12), mid-pm (12-17), late-pm (17-20).`,
	}

	cmd.AddCommand(newCoxingShowCommand(opts))
	cmd.AddCommand(newCoxingUpdateCommand(opts, domain.CoxingAdd))
	cmd.AddCommand(newCoxingUpdateCommand(opts, domain.CoxingRemove))

	return cmd
}

func newCoxingShowCommand(opts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show sign-ups for the week containing a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := opts.parseDateFlag(date)
			if err != nil {
				return err
			}
			start := domain.CivilDate(domain.WeekStart(day, opts.Location), opts.Location)
			end := start.AddDate(0, 0, 6)

			ctx, cancel := opts.context(cmd)
			defer cancel()

			days, err := opts.Client.GetCoxingAvailability(ctx, start, end)
			if err != nil {
				return err
			}
			members, err := opts.Client.ListMembers(ctx)
			if err != nil {
				return err
			}
			names := make(map[uuid.UUID]string, len(members))
			for _, m := range members {
				names[m.ID] = m.Name
			}

			byDate := make(map[string]domain.CoxingAvailability, len(days))
			for _, d := range days {
				byDate[d.Date.Format(time.DateOnly)] = d
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			header := []string{"DATE"}
			for _, slot := range domain.CoxingSlots {
				header = append(header, strings.ToUpper(slot.Label()))
			}
			fmt.Fprintln(tw, strings.Join(header, "\t"))
			for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
				row := []string{d.Format("Mon 02 Jan")}
				a, ok := byDate[d.Format(time.DateOnly)]
				for _, slot := range domain.CoxingSlots {
					row = append(row, coxingCell(a.Members(slot), names, ok))
				}
				fmt.Fprintln(tw, strings.Join(row, "\t"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "any day in the week (YYYY-MM-DD, defaults to today)")

	return cmd
}

func coxingCell(ids []uuid.UUID, names map[uuid.UUID]string, signedUp bool) string {
	if !signedUp {
		return dimColor.Sprint("any")
	}
	if len(ids) == 0 {
		return dimColor.Sprint("-")
	}
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		labels = append(labels, memberLabel(uuid.NullUUID{UUID: id, Valid: true}, names))
	}
	return strings.Join(labels, ", ")
}

func newCoxingUpdateCommand(opts *RootOptions, action domain.CoxingAction) *cobra.Command {
	short := "Sign a member up to cox in a slot"
	verb := "Signed up"
	if action == domain.CoxingRemove {
		short = "Remove a member's cox sign-up"
		verb = "Removed"
	}

	return &cobra.Command{
		Use:   string(action) + " <member-id> <date> <slot>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := parseUUIDArg("member id", args[0])
			if err != nil {
				return err
			}
			date, err := domain.ParseCivilDate(args[1])
			if err != nil {
				return err
			}
			slot, err := domain.ParseCoxingSlot(args[2])
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			a, err := opts.Client.UpdateCoxingAvailability(ctx, memberID, date, slot, action)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			okColor.Fprintf(w, "%s for %s on %s\n", verb, slot.Label(), date.Format(time.DateOnly))
			fmt.Fprintf(w, "%s now has %d cox(es) signed up\n", slot.Label(), len(a.Members(slot)))
			return nil
		},
	}
}
