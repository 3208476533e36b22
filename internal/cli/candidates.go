package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"crewboard/internal/domain"
)

// NewCandidatesCommand lists who can fill a seat on an outing.
func NewCandidatesCommand(opts *RootOptions) *cobra.Command {
	var flag string

	cmd := &cobra.Command{
		Use:   "candidates <outing-id> <seat>",
		Short: "List members free for an outing's time slot",
		Long: `List members split by whether their weekly unavailability overlaps the outing.

With --flag, the cox seat only lists coxes experienced enough for that river flag.

Examples:
  crewctl candidates <outing-id> stroke
  crewctl candidates <outing-id> cox --flag "dark blue"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outingID, err := parseUUIDArg("outing id", args[0])
			if err != nil {
				return err
			}
			role, err := domain.ParseSeatRole(args[1])
			if err != nil {
				return err
			}
			var riverFlag domain.RiverFlag
			if flag != "" {
				if riverFlag, err = domain.ParseRiverFlag(flag); err != nil {
					return err
				}
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			p, err := opts.Client.EligibleMembers(ctx, outingID, role, riverFlag)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s candidates\n", role.Label())
			printMembers(w, "Available", p.Available, okColor.Sprint("+"))
			printMembers(w, "Unavailable", p.Unavailable, failColor.Sprint("-"))
			return nil
		},
	}

	cmd.Flags().StringVar(&flag, "flag", "", "river flag, filters coxes by experience")

	return cmd
}

func printMembers(w io.Writer, heading string, members []domain.Member, marker string) {
	fmt.Fprintf(w, "%s (%d):\n", heading, len(members))
	for _, m := range members {
		line := fmt.Sprintf("  %s %s", marker, m.Name)
		if m.CoxExperience != "" {
			line += dimColor.Sprintf(" (%s)", m.CoxExperience)
		}
		fmt.Fprintln(w, line)
	}
}
