package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"crewboard/internal/domain"
)

// NewMemberCommand manages the club roster.
func NewMemberCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "List and add club members",
	}

	cmd.AddCommand(newMemberListCommand(opts))
	cmd.AddCommand(newMemberAddCommand(opts))

	return cmd
}

func newMemberListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List members with their ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			members, err := opts.Client.ListMembers(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tROLE\tCOX\tID")
			for _, m := range members {
				cox := string(m.CoxExperience)
				if cox == "" {
					cox = dimColor.Sprint("-")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, m.Role, cox, m.ID)
			}
			return tw.Flush()
		},
	}
}

func newMemberAddCommand(opts *RootOptions) *cobra.Command {
	var (
		role       string
		experience string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a club member",
		Long: `Add a club member. Coxes need --cox-experience, one of
"first-term", "novice", "experienced" or "senior".

Examples:
  crewctl member add "Ada Lovelace" --role rower
  crewctl member add "Grace Hopper" --cox-experience senior`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := domain.ParseCoxExperience(experience)
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			m, err := opts.Client.AddMember(ctx, args[0], role, exp)
			if err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "Added %s\n", m.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", m.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "member role, e.g. rower or coach")
	cmd.Flags().StringVar(&experience, "cox-experience", "", "cox experience level")

	return cmd
}
