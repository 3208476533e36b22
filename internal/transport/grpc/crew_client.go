package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"crewboard/internal/domain"
	"crewboard/internal/store"
)

// CrewClient talks to the crewboard server. It satisfies the sync
// controller's RemoteWriter.
type CrewClient struct {
	cc grpc.ClientConnInterface
}

func NewCrewClient(cc grpc.ClientConnInterface) *CrewClient {
	return &CrewClient{cc: cc}
}

// Dial opens a plaintext connection that speaks the JSON codec by default.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}
	return grpc.NewClient(addr, append(base, opts...)...)
}

func (c *CrewClient) invoke(ctx context.Context, method string, in, out any) error {
	err := c.cc.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(codecName))
	return fromStatus(err)
}

// fromStatus turns gRPC codes back into the error types the domain and the
// sync controller understand.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return domain.NewValidationError(st.Message())
	case codes.FailedPrecondition:
		return domain.NewPreconditionError(st.Message())
	case codes.NotFound:
		return fmt.Errorf("%s: %w", st.Message(), store.ErrNotFound)
	default:
		return err
	}
}

func (c *CrewClient) GetOuting(ctx context.Context, outingID uuid.UUID) (domain.Outing, error) {
	var resp GetOutingResponse
	if err := c.invoke(ctx, "GetOuting", &GetOutingRequest{OutingID: outingID.String()}, &resp); err != nil {
		return domain.Outing{}, err
	}
	return fromWireOuting(resp.Outing)
}

func (c *CrewClient) ListOutingsForWeek(ctx context.Context, date time.Time) ([]domain.Outing, error) {
	var resp ListOutingsResponse
	if err := c.invoke(ctx, "ListOutings", &ListOutingsRequest{WeekOf: &date}, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Outing, 0, len(resp.Outings))
	for _, w := range resp.Outings {
		o, err := fromWireOuting(w)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (c *CrewClient) WriteSeatAssignment(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, member uuid.NullUUID) error {
	req := &WriteSeatAssignmentRequest{OutingID: outingID.String(), Seat: role.String()}
	if member.Valid {
		req.MemberID = member.UUID.String()
	}
	return c.invoke(ctx, "WriteSeatAssignment", req, &Empty{})
}

func (c *CrewClient) WriteSeatStatus(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, status domain.SeatStatus) error {
	req := &WriteSeatStatusRequest{OutingID: outingID.String(), Seat: role.String(), Status: string(status)}
	return c.invoke(ctx, "WriteSeatStatus", req, &Empty{})
}

func (c *CrewClient) WriteOutingStatus(ctx context.Context, outingID uuid.UUID, status domain.SeatStatus) error {
	req := &SetOutingStatusRequest{OutingID: outingID.String(), Status: string(status)}
	return c.invoke(ctx, "SetOutingStatus", req, &Empty{})
}

func (c *CrewClient) CancelForFlag(ctx context.Context, flag domain.RiverFlag) ([]uuid.UUID, error) {
	var resp CancelForFlagResponse
	if err := c.invoke(ctx, "CancelForFlag", &CancelForFlagRequest{Flag: string(flag)}, &resp); err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(resp.OutingIDs))
	for _, s := range resp.OutingIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (c *CrewClient) GetUnavailability(ctx context.Context, memberID uuid.UUID) (domain.WeeklyUnavailability, error) {
	var resp UnavailabilityResponse
	if err := c.invoke(ctx, "GetUnavailability", &GetUnavailabilityRequest{MemberID: memberID.String()}, &resp); err != nil {
		return domain.WeeklyUnavailability{}, err
	}
	return fromWireUnavailability(resp.Unavailability)
}

func (c *CrewClient) ReplaceUnavailabilityDay(ctx context.Context, memberID uuid.UUID, day time.Weekday, ranges []domain.TimeRange) (domain.WeeklyUnavailability, error) {
	req := &ReplaceUnavailabilityDayRequest{
		MemberID: memberID.String(),
		Weekday:  day.String(),
		Ranges:   make([]string, 0, len(ranges)),
	}
	for _, r := range ranges {
		req.Ranges = append(req.Ranges, r.String())
	}

	var resp UnavailabilityResponse
	if err := c.invoke(ctx, "ReplaceUnavailabilityDay", req, &resp); err != nil {
		return domain.WeeklyUnavailability{}, err
	}
	return fromWireUnavailability(resp.Unavailability)
}

func (c *CrewClient) ListMembers(ctx context.Context) ([]domain.Member, error) {
	var resp ListMembersResponse
	if err := c.invoke(ctx, "ListMembers", &Empty{}, &resp); err != nil {
		return nil, err
	}
	return fromWireMembers(resp.Members)
}

func (c *CrewClient) EligibleMembers(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, flag domain.RiverFlag) (domain.Partition, error) {
	req := &EligibleMembersRequest{OutingID: outingID.String(), Seat: role.String(), Flag: string(flag)}
	var resp EligibleMembersResponse
	if err := c.invoke(ctx, "EligibleMembers", req, &resp); err != nil {
		return domain.Partition{}, err
	}
	available, err := fromWireMembers(resp.Available)
	if err != nil {
		return domain.Partition{}, err
	}
	unavailable, err := fromWireMembers(resp.Unavailable)
	if err != nil {
		return domain.Partition{}, err
	}
	return domain.Partition{Available: available, Unavailable: unavailable}, nil
}

// CreateOuting creates an outing from o's descriptive fields. ID, status
// and seats are assigned by the server.
func (c *CrewClient) CreateOuting(ctx context.Context, o domain.Outing) (domain.Outing, error) {
	req := &CreateOutingRequest{
		Name:      o.Name,
		Type:      string(o.Type),
		Division:  o.Division,
		Shell:     o.Shell,
		StartTime: o.StartTime,
		EndTime:   o.EndTime,
		Published: o.Published,
	}
	var resp GetOutingResponse
	if err := c.invoke(ctx, "CreateOuting", req, &resp); err != nil {
		return domain.Outing{}, err
	}
	return fromWireOuting(resp.Outing)
}

func (c *CrewClient) AddMember(ctx context.Context, name, role string, experience domain.CoxExperience) (domain.Member, error) {
	req := &AddMemberRequest{Name: name, Role: role, CoxExperience: string(experience)}
	var resp MemberResponse
	if err := c.invoke(ctx, "AddMember", req, &resp); err != nil {
		return domain.Member{}, err
	}
	return fromWireMember(resp.Member)
}

func (c *CrewClient) ReplaceUnavailabilityWeek(ctx context.Context, u domain.WeeklyUnavailability) (domain.WeeklyUnavailability, error) {
	req := &ReplaceUnavailabilityWeekRequest{Unavailability: toWireUnavailability(u)}
	var resp UnavailabilityResponse
	if err := c.invoke(ctx, "ReplaceUnavailabilityWeek", req, &resp); err != nil {
		return domain.WeeklyUnavailability{}, err
	}
	return fromWireUnavailability(resp.Unavailability)
}

func (c *CrewClient) GetCoxingAvailability(ctx context.Context, from, to time.Time) ([]domain.CoxingAvailability, error) {
	req := &GetCoxingAvailabilityRequest{StartDate: from.Format(time.DateOnly), EndDate: to.Format(time.DateOnly)}
	var resp GetCoxingAvailabilityResponse
	if err := c.invoke(ctx, "GetCoxingAvailability", req, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.CoxingAvailability, 0, len(resp.Availability))
	for _, w := range resp.Availability {
		a, err := fromWireCoxingDay(w)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (c *CrewClient) UpdateCoxingAvailability(ctx context.Context, memberID uuid.UUID, date time.Time, slot domain.CoxingSlot, action domain.CoxingAction) (domain.CoxingAvailability, error) {
	req := &UpdateCoxingAvailabilityRequest{
		MemberID: memberID.String(),
		Date:     date.Format(time.DateOnly),
		Slot:     string(slot),
		Action:   string(action),
	}
	var resp UpdateCoxingAvailabilityResponse
	if err := c.invoke(ctx, "UpdateCoxingAvailability", req, &resp); err != nil {
		return domain.CoxingAvailability{}, err
	}
	return fromWireCoxingDay(resp.Availability)
}
