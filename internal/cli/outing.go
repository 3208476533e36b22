package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"crewboard/internal/domain"
	"crewboard/internal/seatsync"
)

// NewOutingCommand groups the outing-level commands.
func NewOutingCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outing",
		Short: "Inspect and update outings",
	}

	cmd.AddCommand(newOutingCreateCommand(opts))
	cmd.AddCommand(newOutingShowCommand(opts))
	cmd.AddCommand(newOutingWeekCommand(opts))
	cmd.AddCommand(newOutingStatusCommand(opts))
	cmd.AddCommand(newCancelForFlagCommand(opts))

	return cmd
}

const outingTimeLayout = "2006-01-02 15:04"

func newOutingCreateCommand(opts *RootOptions) *cobra.Command {
	var (
		start     string
		end       string
		typ       string
		shell     string
		division  string
		published bool
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an outing with every seat open",
		Long: `Create an outing. Times are club local time.

Examples:
  crewctl outing create "Monday squad" --start "2026-01-05 07:00" --end "2026-01-05 08:30"
  crewctl outing create "Erg test" --type erg --start "2026-01-07 18:00"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime, err := time.ParseInLocation(outingTimeLayout, start, opts.Location)
			if err != nil {
				return domain.NewValidationError("invalid --start, want YYYY-MM-DD HH:MM: " + start)
			}
			o := domain.Outing{
				Name:      args[0],
				Type:      domain.OutingType(typ),
				Division:  division,
				Shell:     shell,
				StartTime: startTime,
				Published: published,
			}
			if end != "" {
				endTime, err := time.ParseInLocation(outingTimeLayout, end, opts.Location)
				if err != nil {
					return domain.NewValidationError("invalid --end, want YYYY-MM-DD HH:MM: " + end)
				}
				o.EndTime = &endTime
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			created, err := opts.Client.CreateOuting(ctx, o)
			if err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "Created %s\n", created.Name)
			printOuting(cmd.OutOrStdout(), created, nil, opts.Location)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start time (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "end time (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&typ, "type", string(domain.OutingTypeWater), "outing type: water, erg, gym or tank")
	cmd.Flags().StringVar(&shell, "shell", "", "boat name")
	cmd.Flags().StringVar(&division, "division", "", "squad or division")
	cmd.Flags().BoolVar(&published, "published", false, "publish the outing immediately")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newOutingShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <outing-id>",
		Short: "Show one outing and its seats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outingID, err := parseUUIDArg("outing id", args[0])
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			o, err := opts.Client.GetOuting(ctx, outingID)
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

			printOuting(cmd.OutOrStdout(), o, names, opts.Location)
			return nil
		},
	}
}

func newOutingWeekCommand(opts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "List outings in the calendar week containing a date",
		Long: `List outings from Monday 00:00 to the following Monday in the club time zone.

Examples:
  crewctl outing week
  crewctl outing week --date 2026-01-07`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day := opts.Now().In(opts.Location)
			if date != "" {
				parsed, err := time.ParseInLocation(time.DateOnly, date, opts.Location)
				if err != nil {
					return domain.NewValidationError("invalid --date, want YYYY-MM-DD: " + date)
				}
				day = parsed
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			outings, err := opts.Client.ListOutingsForWeek(ctx, day)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(outings) == 0 {
				fmt.Fprintf(w, "No outings in the week of %s\n", domain.WeekStart(day, opts.Location).Format(time.DateOnly))
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tNAME\tSTATUS\tOPEN SEATS\tID")
			for _, o := range outings {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					formatWindow(o, opts.Location),
					o.Name,
					statusColor(o.Status).Sprint(o.Status),
					len(o.AvailableSeats()),
					o.ID,
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "any day in the week (YYYY-MM-DD, defaults to today)")

	return cmd
}

func newOutingStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <outing-id> <status>",
		Short: "Set the outing-level status (Provisional, Confirmed, Cancelled, Reserved)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := domain.ParseSeatStatus(args[1])
			if err != nil {
				return err
			}
			res, err := runMutation(cmd, opts, args[0], seatsync.SetOutingStatus(st))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Outing status: %s\n", statusColor(res.OutingStatus).Sprint(res.OutingStatus))
			return nil
		},
	}
}

func newCancelForFlagCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-for-flag <flag>",
		Short: "Cancel upcoming water outings for a river flag",
		Long: `Cancel every upcoming water outing when the river flag keeps crews off the water.

Examples:
  crewctl outing cancel-for-flag red
  crewctl outing cancel-for-flag "Dark Blue"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flag, err := domain.ParseRiverFlag(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			ids, err := opts.Client.CancelForFlag(ctx, flag)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintf(w, "No outings changed for %s flag\n", flag)
				return nil
			}
			failColor.Fprintf(w, "Cancelled %d outing(s) for %s flag\n", len(ids), flag)
			for _, id := range ids {
				fmt.Fprintf(w, "  %s\n", id)
			}
			return nil
		},
	}
}
