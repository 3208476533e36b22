package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"crewboard/internal/domain"
	"crewboard/internal/seatsync"
)

// Client is the server surface crewctl needs. The gRPC CrewClient
// satisfies it.
type Client interface {
	seatsync.RemoteWriter

	CreateOuting(ctx context.Context, o domain.Outing) (domain.Outing, error)
	GetOuting(ctx context.Context, outingID uuid.UUID) (domain.Outing, error)
	ListOutingsForWeek(ctx context.Context, date time.Time) ([]domain.Outing, error)
	CancelForFlag(ctx context.Context, flag domain.RiverFlag) ([]uuid.UUID, error)
	GetUnavailability(ctx context.Context, memberID uuid.UUID) (domain.WeeklyUnavailability, error)
	ReplaceUnavailabilityDay(ctx context.Context, memberID uuid.UUID, day time.Weekday, ranges []domain.TimeRange) (domain.WeeklyUnavailability, error)
	ReplaceUnavailabilityWeek(ctx context.Context, u domain.WeeklyUnavailability) (domain.WeeklyUnavailability, error)
	AddMember(ctx context.Context, name, role string, experience domain.CoxExperience) (domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	EligibleMembers(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, flag domain.RiverFlag) (domain.Partition, error)
	GetCoxingAvailability(ctx context.Context, from, to time.Time) ([]domain.CoxingAvailability, error)
	UpdateCoxingAvailability(ctx context.Context, memberID uuid.UUID, date time.Time, slot domain.CoxingSlot, action domain.CoxingAction) (domain.CoxingAvailability, error)
}

// RootOptions holds global flags and the wiring shared by every command.
type RootOptions struct {
	Client           Client
	Location         *time.Location
	QuiescenceWindow time.Duration
	Logger           *slog.Logger

	Timeout time.Duration
	NoColor bool
	Now     func() time.Time
}

// NewRootCommand creates the crewctl root command.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.QuiescenceWindow <= 0 {
		opts.QuiescenceWindow = seatsync.DefaultQuiescenceWindow
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cmd := &cobra.Command{
		Use:   "crewctl",
		Short: "crewctl - crew board client",
		Long:  "Inspect outings, fill seats, and manage members, weekly unavailability and cox sign-ups on a crewboard server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.NoColor {
				color.NoColor = true
			}
			if opts.Timeout <= 0 {
				return fmt.Errorf("invalid timeout %s: must be positive", opts.Timeout)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "per-command deadline")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable coloured output")

	cmd.AddCommand(NewOutingCommand(opts))
	cmd.AddCommand(NewSeatCommand(opts))
	cmd.AddCommand(NewAvailabilityCommand(opts))
	cmd.AddCommand(NewCandidatesCommand(opts))
	cmd.AddCommand(NewMemberCommand(opts))
	cmd.AddCommand(NewCoxingCommand(opts))

	return cmd
}

func (o *RootOptions) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, o.Timeout)
}

func parseUUIDArg(name, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("invalid " + name + ": " + s)
	}
	return id, nil
}

// parseDateFlag parses YYYY-MM-DD in the club zone, defaulting to today.
func (o *RootOptions) parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return o.Now().In(o.Location), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, value, o.Location)
	if err != nil {
		return time.Time{}, domain.NewValidationError("invalid date, want YYYY-MM-DD: " + value)
	}
	return d, nil
}
