package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"crewboard/internal/domain"
	"crewboard/internal/seatsync"
)

// NewSeatCommand groups the seat mutations. Each one loads the outing, runs
// the mutation through a sync controller and prints the local result.
func NewSeatCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seat",
		Short: "Fill, clear and update seats",
		Long: `Fill, clear and update seats on an outing.

Seats: cox, stroke, bow, seat2..seat7, coach_bank_rider, sub1..sub4.
Display labels such as "2 Seat" or "Coach/Bank Rider" also work.`,
	}

	cmd.AddCommand(newSeatAssignCommand(opts))
	cmd.AddCommand(newSeatClearCommand(opts))
	cmd.AddCommand(newSeatStatusCommand(opts))
	cmd.AddCommand(newSeatNormalizeCommand(opts))

	return cmd
}

func newSeatAssignCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <outing-id> <seat> <member-id>",
		Short: "Put a member in a seat",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseSeatRole(args[1])
			if err != nil {
				return err
			}
			member, err := parseUUIDArg("member id", args[2])
			if err != nil {
				return err
			}
			res, err := runMutation(cmd, opts, args[0], seatsync.AssignMember(role, member))
			if err != nil {
				return err
			}
			printSeatResult(cmd, res)
			return nil
		},
	}
}

func newSeatClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <outing-id> <seat>",
		Short: "Remove the member from a seat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseSeatRole(args[1])
			if err != nil {
				return err
			}
			res, err := runMutation(cmd, opts, args[0], seatsync.ClearMember(role))
			if err != nil {
				return err
			}
			printSeatResult(cmd, res)
			return nil
		},
	}
}

func newSeatStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <outing-id> <seat> <status>",
		Short: "Set a rower status (Available, Maybe Available, Not Available)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseSeatRole(args[1])
			if err != nil {
				return err
			}
			st, err := domain.ParseSeatStatus(args[2])
			if err != nil {
				return err
			}
			res, err := runMutation(cmd, opts, args[0], seatsync.SetSeatStatus(role, st))
			if err != nil {
				return err
			}
			printSeatResult(cmd, res)
			return nil
		},
	}
}

func newSeatNormalizeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <outing-id>",
		Short: "Reset stale statuses left on empty seats",
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
			c := newController(opts, o)
			results, err := c.NormalizeAll(ctx)

			w := cmd.OutOrStdout()
			if len(results) == 0 && err == nil {
				fmt.Fprintln(w, "All seats consistent")
				return nil
			}
			for _, res := range results {
				if !res.NoOp {
					printSeat(w, res.Seat)
				}
			}
			return err
		},
	}
}

// runMutation loads the outing, applies m through a fresh controller and
// reports warnings. On failure the rolled-back local seat is printed before
// the error is returned.
func runMutation(cmd *cobra.Command, opts *RootOptions, rawOutingID string, m seatsync.Mutation) (seatsync.Result, error) {
	outingID, err := parseUUIDArg("outing id", rawOutingID)
	if err != nil {
		return seatsync.Result{}, err
	}
	ctx, cancel := opts.context(cmd)
	defer cancel()

	o, err := opts.Client.GetOuting(ctx, outingID)
	if err != nil {
		return seatsync.Result{}, err
	}

	c := newController(opts, o)
	res, err := c.Apply(ctx, m)
	if err != nil {
		if role, ok := m.Seat(); ok {
			a, _ := c.Snapshot().Seats.Get(role)
			dimColor.Fprint(cmd.ErrOrStderr(), "rolled back: ")
			printSeat(cmd.ErrOrStderr(), a)
		}
		return seatsync.Result{}, err
	}
	printWarnings(cmd.ErrOrStderr(), res.Warnings)
	return res, nil
}

func newController(opts *RootOptions, o domain.Outing) *seatsync.Controller {
	return seatsync.NewController(o, opts.Client,
		seatsync.WithLocation(opts.Location),
		seatsync.WithQuiescenceWindow(opts.QuiescenceWindow),
		seatsync.WithLogger(opts.Logger),
	)
}

func printSeatResult(cmd *cobra.Command, res seatsync.Result) {
	w := cmd.OutOrStdout()
	if res.NoOp {
		dimColor.Fprint(w, "unchanged: ")
	}
	printSeat(w, res.Seat)
}
