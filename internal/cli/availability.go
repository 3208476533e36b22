package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"crewboard/internal/domain"
)

// NewAvailabilityCommand manages a member's weekly unavailability.
func NewAvailabilityCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "availability",
		Aliases: []string{"avail"},
		Short:   "Show and edit weekly unavailability",
	}

	cmd.AddCommand(newAvailabilityShowCommand(opts))
	cmd.AddCommand(newAvailabilitySetCommand(opts))
	cmd.AddCommand(newAvailabilitySetWeekCommand(opts))

	return cmd
}

func newAvailabilityShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <member-id>",
		Short: "Show the ranges a member cannot row, Monday first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := parseUUIDArg("member id", args[0])
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			u, err := opts.Client.GetUnavailability(ctx, memberID)
			if err != nil {
				return err
			}
			printUnavailability(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

func newAvailabilitySetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <member-id> <day> [HH:MM-HH:MM ...]",
		Short: "Replace one day's unavailable ranges",
		Long: fmt.Sprintf(`Replace every unavailable range on one day. At most %d ranges, none overlapping.
Passing no ranges clears the day.

Examples:
  crewctl availability set <member-id> monday 06:00-08:00 17:30-19:00
  crewctl availability set <member-id> sat`, domain.MaxRangesPerDay),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := parseUUIDArg("member id", args[0])
			if err != nil {
				return err
			}
			day, err := domain.ParseWeekday(args[1])
			if err != nil {
				return err
			}
			ranges, err := parseRangeArgs(args[2:])
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			u, err := opts.Client.ReplaceUnavailabilityDay(ctx, memberID, day, ranges)
			if err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "Updated %s\n", day)
			printUnavailability(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

func newAvailabilitySetWeekCommand(opts *RootOptions) *cobra.Command {
	var days []string

	cmd := &cobra.Command{
		Use:   "set-week <member-id>",
		Short: "Replace the whole week's unavailable ranges",
		Long: `Replace every day at once. Days without a --day flag are cleared.
Nothing is written if any day is invalid.

Examples:
  crewctl availability set-week <member-id> --day mon=06:00-08:00,17:30-19:00 --day sat=09:00-12:00
  crewctl availability set-week <member-id>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := parseUUIDArg("member id", args[0])
			if err != nil {
				return err
			}
			u := domain.NewWeeklyUnavailability(memberID)
			for _, spec := range days {
				name, list, ok := strings.Cut(spec, "=")
				if !ok {
					return domain.NewValidationError("invalid --day, want DAY=HH:MM-HH:MM[,...]: " + spec)
				}
				day, err := domain.ParseWeekday(name)
				if err != nil {
					return err
				}
				if len(u.Days[day]) > 0 {
					return domain.NewValidationError("day given twice: " + day.String())
				}
				var raw []string
				if strings.TrimSpace(list) != "" {
					raw = strings.Split(list, ",")
				}
				ranges, err := parseRangeArgs(raw)
				if err != nil {
					return fmt.Errorf("%s: %w", day, err)
				}
				if err := u.ReplaceDay(day, ranges); err != nil {
					return err
				}
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			got, err := opts.Client.ReplaceUnavailabilityWeek(ctx, u)
			if err != nil {
				return err
			}
			okColor.Fprintln(cmd.OutOrStdout(), "Updated week")
			printUnavailability(cmd.OutOrStdout(), got)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&days, "day", nil, "DAY=HH:MM-HH:MM[,HH:MM-HH:MM...], repeatable")

	return cmd
}

func parseRangeArgs(raw []string) ([]domain.TimeRange, error) {
	ranges := make([]domain.TimeRange, 0, len(raw))
	for _, s := range raw {
		r, err := domain.ParseTimeRange(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	if err := domain.ValidateDayRanges(ranges); err != nil {
		return nil, err
	}
	return ranges, nil
}
