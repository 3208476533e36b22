package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"crewboard/internal/domain"
	"crewboard/internal/service/crew"
	"crewboard/internal/store"
)

type CrewServer struct {
	svc crewService
	log *slog.Logger
	now func() time.Time
}

type crewService interface {
	CreateOuting(ctx context.Context, in crew.CreateOutingInput) (domain.Outing, error)
	GetOuting(ctx context.Context, outingID uuid.UUID) (domain.Outing, error)
	ListOutings(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Outing, error)
	ListOutingsForWeek(ctx context.Context, date time.Time) ([]domain.Outing, error)
	WriteSeatAssignment(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, member uuid.NullUUID) error
	WriteSeatStatus(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, status domain.SeatStatus) error
	SetOutingStatus(ctx context.Context, outingID uuid.UUID, status domain.SeatStatus) error
	CancelForFlag(ctx context.Context, flag domain.RiverFlag, now time.Time) ([]uuid.UUID, error)
	GetUnavailability(ctx context.Context, memberID uuid.UUID) (domain.WeeklyUnavailability, error)
	ReplaceUnavailabilityDay(ctx context.Context, memberID uuid.UUID, day time.Weekday, ranges []domain.TimeRange) (domain.WeeklyUnavailability, error)
	ReplaceUnavailabilityWeek(ctx context.Context, u domain.WeeklyUnavailability) (domain.WeeklyUnavailability, error)
	CreateMember(ctx context.Context, name string, role string, experience domain.CoxExperience) (domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	EligibleMembers(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, flag domain.RiverFlag) (domain.Partition, error)
	GetCoxingAvailability(ctx context.Context, from, to time.Time) ([]domain.CoxingAvailability, error)
	UpdateCoxingAvailability(ctx context.Context, memberID uuid.UUID, date time.Time, slot domain.CoxingSlot, action domain.CoxingAction) (domain.CoxingAvailability, error)
}

func NewCrewServer(svc crewService, log *slog.Logger) *CrewServer {
	if log == nil {
		log = slog.Default()
	}
	return &CrewServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.crew")),
		now: time.Now,
	}
}

// statusError maps service errors onto gRPC codes. Unexpected errors are
// logged and hidden behind codes.Internal.
func statusError(log *slog.Logger, err error, msg string, args ...any) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		log.Warn("invalid request", append([]any{slog.Any("err", err)}, args...)...)
		return status.Error(codes.InvalidArgument, vErr.Error())
	}
	var pErr *domain.PreconditionError
	if errors.As(err, &pErr) {
		log.Info("precondition failed", append([]any{slog.Any("err", err)}, args...)...)
		return status.Error(codes.FailedPrecondition, pErr.Error())
	}
	if errors.Is(err, store.ErrSeatVacant) {
		log.Info("seat vacant", args...)
		return status.Error(codes.FailedPrecondition, "The seat no longer has a member. Reload the outing and try again.")
	}
	if errors.Is(err, store.ErrConflict) {
		log.Info("conflict", args...)
		return status.Error(codes.FailedPrecondition, "The outing changed while saving. Reload and try again.")
	}
	if errors.Is(err, store.ErrNotFound) {
		log.Info("not found", args...)
		return status.Error(codes.NotFound, "not found")
	}
	log.Error(msg, append([]any{slog.Any("err", err)}, args...)...)
	return status.Error(codes.Internal, "internal error")
}

func parseID(log *slog.Logger, field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", field))
		return uuid.Nil, status.Error(codes.InvalidArgument, field+" must be a UUID")
	}
	return id, nil
}

func parseSeat(log *slog.Logger, value string) (domain.SeatRole, error) {
	role, err := domain.ParseSeatRole(value)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "unknown_seat"), slog.String("seat", value))
		return 0, status.Error(codes.InvalidArgument, err.Error())
	}
	return role, nil
}

func (s *CrewServer) CreateOuting(ctx context.Context, req *CreateOutingRequest) (*GetOutingResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateOuting"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	outing, err := s.svc.CreateOuting(ctx, crew.CreateOutingInput{
		Name:      req.Name,
		Type:      domain.OutingType(req.Type),
		Division:  req.Division,
		Shell:     req.Shell,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Published: req.Published,
	})
	if err != nil {
		return nil, statusError(log, err, "outing create failed")
	}

	log.Info("outing created", slog.String("outing_id", outing.ID.String()), slog.Time("start_time", outing.StartTime))
	return &GetOutingResponse{Outing: toWireOuting(outing)}, nil
}

func (s *CrewServer) GetOuting(ctx context.Context, req *GetOutingRequest) (*GetOutingResponse, error) {
	log := s.log.With(slog.String("rpc", "GetOuting"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := parseID(log, "outing_id", req.OutingID)
	if err != nil {
		return nil, err
	}
	outing, err := s.svc.GetOuting(ctx, id)
	if err != nil {
		return nil, statusError(log, err, "outing get failed", slog.String("outing_id", id.String()))
	}

	log.Debug("outing loaded", slog.String("outing_id", id.String()))
	return &GetOutingResponse{Outing: toWireOuting(outing)}, nil
}

func (s *CrewServer) ListOutings(ctx context.Context, req *ListOutingsRequest) (*ListOutingsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListOutings"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var (
		outings []domain.Outing
		err     error
	)
	switch {
	case req.WeekOf != nil:
		outings, err = s.svc.ListOutingsForWeek(ctx, *req.WeekOf)
	case req.WindowStart != nil && req.WindowEnd != nil:
		outings, err = s.svc.ListOutings(ctx, *req.WindowStart, *req.WindowEnd)
	default:
		log.Warn("invalid request", slog.String("reason", "missing_window"))
		return nil, status.Error(codes.InvalidArgument, "week_of or window_start and window_end are required")
	}
	if err != nil {
		return nil, statusError(log, err, "outings list failed")
	}

	out := make([]Outing, 0, len(outings))
	for _, o := range outings {
		out = append(out, toWireOuting(o))
	}

	log.Debug("outings listed", slog.Int("count", len(out)))
	return &ListOutingsResponse{Outings: out}, nil
}

func (s *CrewServer) WriteSeatAssignment(ctx context.Context, req *WriteSeatAssignmentRequest) (*Empty, error) {
	log := s.log.With(slog.String("rpc", "WriteSeatAssignment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := parseID(log, "outing_id", req.OutingID)
	if err != nil {
		return nil, err
	}
	role, err := parseSeat(log, req.Seat)
	if err != nil {
		return nil, err
	}
	member, err := parseOptionalUUID(req.MemberID)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "member_id"))
		return nil, status.Error(codes.InvalidArgument, "member_id must be a UUID")
	}

	if err := s.svc.WriteSeatAssignment(ctx, id, role, member); err != nil {
		return nil, statusError(log, err, "seat assignment write failed", slog.String("outing_id", id.String()), slog.String("seat", role.String()))
	}

	log.Info(
		"seat assignment written",
		slog.String("outing_id", id.String()),
		slog.String("seat", role.String()),
		slog.Bool("cleared", !member.Valid),
	)
	return &Empty{}, nil
}

func (s *CrewServer) WriteSeatStatus(ctx context.Context, req *WriteSeatStatusRequest) (*Empty, error) {
	log := s.log.With(slog.String("rpc", "WriteSeatStatus"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := parseID(log, "outing_id", req.OutingID)
	if err != nil {
		return nil, err
	}
	role, err := parseSeat(log, req.Seat)
	if err != nil {
		return nil, err
	}
	st, err := domain.ParseSeatStatus(req.Status)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "unknown_status"), slog.String("status", req.Status))
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := s.svc.WriteSeatStatus(ctx, id, role, st); err != nil {
		return nil, statusError(log, err, "seat status write failed", slog.String("outing_id", id.String()), slog.String("seat", role.String()))
	}

	log.Info("seat status written", slog.String("outing_id", id.String()), slog.String("seat", role.String()), slog.String("status", string(st)))
	return &Empty{}, nil
}

func (s *CrewServer) SetOutingStatus(ctx context.Context, req *SetOutingStatusRequest) (*Empty, error) {
	log := s.log.With(slog.String("rpc", "SetOutingStatus"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := parseID(log, "outing_id", req.OutingID)
	if err != nil {
		return nil, err
	}
	st, err := domain.ParseSeatStatus(req.Status)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "unknown_status"), slog.String("status", req.Status))
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := s.svc.SetOutingStatus(ctx, id, st); err != nil {
		return nil, statusError(log, err, "outing status write failed", slog.String("outing_id", id.String()))
	}

	log.Info("outing status written", slog.String("outing_id", id.String()), slog.String("status", string(st)))
	return &Empty{}, nil
}

func (s *CrewServer) CancelForFlag(ctx context.Context, req *CancelForFlagRequest) (*CancelForFlagResponse, error) {
	log := s.log.With(slog.String("rpc", "CancelForFlag"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	flag, err := domain.ParseRiverFlag(req.Flag)
	if err != nil {
		return nil, statusError(log, err, "flag parse failed")
	}

	ids, err := s.svc.CancelForFlag(ctx, flag, s.now())
	if err != nil {
		return nil, statusError(log, err, "flag cancellation failed", slog.String("flag", string(flag)))
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return &CancelForFlagResponse{OutingIDs: out}, nil
}

func (s *CrewServer) GetUnavailability(ctx context.Context, req *GetUnavailabilityRequest) (*UnavailabilityResponse, error) {
	log := s.log.With(slog.String("rpc", "GetUnavailability"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := parseID(log, "member_id", req.MemberID)
	if err != nil {
		return nil, err
	}
	u, err := s.svc.GetUnavailability(ctx, id)
	if err != nil {
		return nil, statusError(log, err, "unavailability get failed", slog.String("member_id", id.String()))
	}
	return &UnavailabilityResponse{Unavailability: toWireUnavailability(u)}, nil
}

func (s *CrewServer) ReplaceUnavailabilityDay(ctx context.Context, req *ReplaceUnavailabilityDayRequest) (*UnavailabilityResponse, error) {
	log := s.log.With(slog.String("rpc", "ReplaceUnavailabilityDay"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := parseID(log, "member_id", req.MemberID)
	if err != nil {
		return nil, err
	}
	day, err := domain.ParseWeekday(req.Weekday)
	if err != nil {
		return nil, statusError(log, err, "weekday parse failed")
	}
	ranges, err := parseRanges(req.Ranges)
	if err != nil {
		return nil, statusError(log, err, "range parse failed", slog.String("member_id", id.String()))
	}

	u, err := s.svc.ReplaceUnavailabilityDay(ctx, id, day, ranges)
	if err != nil {
		return nil, statusError(log, err, "unavailability replace failed", slog.String("member_id", id.String()), slog.String("weekday", day.String()))
	}

	log.Info("unavailability day replaced", slog.String("member_id", id.String()), slog.String("weekday", day.String()), slog.Int("ranges", len(ranges)))
	return &UnavailabilityResponse{Unavailability: toWireUnavailability(u)}, nil
}

func (s *CrewServer) ReplaceUnavailabilityWeek(ctx context.Context, req *ReplaceUnavailabilityWeekRequest) (*UnavailabilityResponse, error) {
	log := s.log.With(slog.String("rpc", "ReplaceUnavailabilityWeek"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := parseID(log, "member_id", req.Unavailability.MemberID)
	if err != nil {
		return nil, err
	}
	week, err := fromWireUnavailability(req.Unavailability)
	if err != nil {
		return nil, statusError(log, err, "week parse failed", slog.String("member_id", id.String()))
	}

	u, err := s.svc.ReplaceUnavailabilityWeek(ctx, week)
	if err != nil {
		return nil, statusError(log, err, "unavailability week replace failed", slog.String("member_id", id.String()))
	}

	log.Info("unavailability week replaced", slog.String("member_id", id.String()))
	return &UnavailabilityResponse{Unavailability: toWireUnavailability(u)}, nil
}

func (s *CrewServer) AddMember(ctx context.Context, req *AddMemberRequest) (*MemberResponse, error) {
	log := s.log.With(slog.String("rpc", "AddMember"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	experience, err := domain.ParseCoxExperience(req.CoxExperience)
	if err != nil {
		return nil, statusError(log, err, "cox experience parse failed")
	}
	m, err := s.svc.CreateMember(ctx, req.Name, req.Role, experience)
	if err != nil {
		return nil, statusError(log, err, "member create failed")
	}

	log.Info("member added", slog.String("member_id", m.ID.String()))
	return &MemberResponse{Member: toWireMember(m)}, nil
}

func (s *CrewServer) ListMembers(ctx context.Context, _ *Empty) (*ListMembersResponse, error) {
	log := s.log.With(slog.String("rpc", "ListMembers"))

	members, err := s.svc.ListMembers(ctx)
	if err != nil {
		return nil, statusError(log, err, "members list failed")
	}
	return &ListMembersResponse{Members: toWireMembers(members)}, nil
}

func (s *CrewServer) EligibleMembers(ctx context.Context, req *EligibleMembersRequest) (*EligibleMembersResponse, error) {
	log := s.log.With(slog.String("rpc", "EligibleMembers"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := parseID(log, "outing_id", req.OutingID)
	if err != nil {
		return nil, err
	}
	role, err := parseSeat(log, req.Seat)
	if err != nil {
		return nil, err
	}
	var flag domain.RiverFlag
	if req.Flag != "" {
		if flag, err = domain.ParseRiverFlag(req.Flag); err != nil {
			return nil, statusError(log, err, "flag parse failed")
		}
	}

	p, err := s.svc.EligibleMembers(ctx, id, role, flag)
	if err != nil {
		return nil, statusError(log, err, "eligible members failed", slog.String("outing_id", id.String()))
	}
	return &EligibleMembersResponse{
		Available:   toWireMembers(p.Available),
		Unavailable: toWireMembers(p.Unavailable),
	}, nil
}

func (s *CrewServer) GetCoxingAvailability(ctx context.Context, req *GetCoxingAvailabilityRequest) (*GetCoxingAvailabilityResponse, error) {
	log := s.log.With(slog.String("rpc", "GetCoxingAvailability"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	from, err := domain.ParseCivilDate(req.StartDate)
	if err != nil {
		return nil, statusError(log, err, "date parse failed")
	}
	to, err := domain.ParseCivilDate(req.EndDate)
	if err != nil {
		return nil, statusError(log, err, "date parse failed")
	}

	days, err := s.svc.GetCoxingAvailability(ctx, from, to)
	if err != nil {
		return nil, statusError(log, err, "coxing availability get failed", slog.String("start_date", req.StartDate), slog.String("end_date", req.EndDate))
	}

	out := make([]CoxingDay, 0, len(days))
	for _, d := range days {
		out = append(out, toWireCoxingDay(d))
	}
	return &GetCoxingAvailabilityResponse{Availability: out}, nil
}

func (s *CrewServer) UpdateCoxingAvailability(ctx context.Context, req *UpdateCoxingAvailabilityRequest) (*UpdateCoxingAvailabilityResponse, error) {
	log := s.log.With(slog.String("rpc", "UpdateCoxingAvailability"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := parseID(log, "member_id", req.MemberID)
	if err != nil {
		return nil, err
	}
	date, err := domain.ParseCivilDate(req.Date)
	if err != nil {
		return nil, statusError(log, err, "date parse failed")
	}
	slot, err := domain.ParseCoxingSlot(req.Slot)
	if err != nil {
		return nil, statusError(log, err, "slot parse failed")
	}

	action, err := domain.ParseCoxingAction(req.Action)
	if err != nil {
		return nil, statusError(log, err, "action parse failed")
	}

	day, err := s.svc.UpdateCoxingAvailability(ctx, id, date, slot, action)
	if err != nil {
		return nil, statusError(log, err, "coxing availability update failed", slog.String("member_id", id.String()), slog.String("date", req.Date))
	}
	return &UpdateCoxingAvailabilityResponse{Availability: toWireCoxingDay(day)}, nil
}
