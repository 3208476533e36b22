package crew

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"crewboard/internal/domain"
	"crewboard/internal/store"
)

const maxOutingDuration = 24 * time.Hour

type Service struct {
	outings        store.OutingRepository
	unavailability store.UnavailabilityRepository
	members        store.MemberRepository
	coxing         store.CoxingRepository
	loc            *time.Location
	log            *slog.Logger
}

// NewService wires the repositories. loc is the club's time zone, used for
// every weekday and wall-clock decision.
func NewService(
	outings store.OutingRepository,
	unavailability store.UnavailabilityRepository,
	members store.MemberRepository,
	coxing store.CoxingRepository,
	loc *time.Location,
	log *slog.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		outings:        outings,
		unavailability: unavailability,
		members:        members,
		coxing:         coxing,
		loc:            loc,
		log:            log.With(slog.String("component", "service.crew")),
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

type CreateOutingInput struct {
	Name      string
	Type      domain.OutingType
	Division  string
	Shell     string
	StartTime time.Time
	EndTime   *time.Time
	Published bool
}

func (s *Service) CreateOuting(ctx context.Context, in CreateOutingInput) (domain.Outing, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Outing{}, domain.NewValidationError("name is required")
	}
	typ := in.Type
	if typ == "" {
		typ = domain.OutingTypeWater
	}
	if !typ.Valid() {
		return domain.Outing{}, domain.NewValidationError("invalid outing type")
	}
	if in.StartTime.IsZero() {
		return domain.Outing{}, domain.NewValidationError("start_time is required")
	}

	start := in.StartTime.UTC()
	var end *time.Time
	if in.EndTime != nil {
		e := in.EndTime.UTC()
		if !e.After(start) {
			return domain.Outing{}, domain.NewValidationError("end_time must be after start_time")
		}
		if e.Sub(start) > maxOutingDuration {
			return domain.Outing{}, domain.NewValidationError("duration too long")
		}
		end = &e
	}

	return s.outings.CreateOuting(ctx, domain.Outing{
		Name:      name,
		Type:      typ,
		Division:  strings.TrimSpace(in.Division),
		Shell:     strings.TrimSpace(in.Shell),
		StartTime: start,
		EndTime:   end,
		Published: in.Published,
		Seats:     domain.NewSeatRegistry(),
	})
}

func (s *Service) GetOuting(ctx context.Context, outingID uuid.UUID) (domain.Outing, error) {
	if outingID == uuid.Nil {
		return domain.Outing{}, domain.NewValidationError("outing_id is required")
	}
	return s.outings.GetOuting(ctx, outingID)
}

func (s *Service) ListOutings(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Outing, error) {
	start := windowStart.UTC()
	end := windowEnd.UTC()
	if !end.After(start) {
		return nil, domain.NewValidationError("window_end must be after window_start")
	}
	return s.outings.ListOutings(ctx, start, end)
}

// ListOutingsForWeek lists outings in the Monday-to-Sunday club week
// containing date.
func (s *Service) ListOutingsForWeek(ctx context.Context, date time.Time) ([]domain.Outing, error) {
	start := domain.WeekStart(date, s.loc)
	return s.ListOutings(ctx, start, start.AddDate(0, 0, 7))
}

func (s *Service) WriteSeatAssignment(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, member uuid.NullUUID) error {
	if outingID == uuid.Nil {
		return domain.NewValidationError("outing_id is required")
	}
	if !role.Valid() {
		return domain.NewValidationError("seat is required")
	}
	if member.Valid && member.UUID == uuid.Nil {
		return domain.NewValidationError("member_id must not be the nil UUID")
	}
	return s.outings.WriteSeatAssignment(ctx, outingID, role, member)
}

func (s *Service) WriteSeatStatus(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, status domain.SeatStatus) error {
	if outingID == uuid.Nil {
		return domain.NewValidationError("outing_id is required")
	}
	if !role.Valid() {
		return domain.NewValidationError("seat is required")
	}
	if !status.IsRowerStatus() {
		return domain.NewValidationError("status is not a seat status")
	}
	return s.outings.WriteSeatStatus(ctx, outingID, role, status)
}

func (s *Service) SetOutingStatus(ctx context.Context, outingID uuid.UUID, status domain.SeatStatus) error {
	if outingID == uuid.Nil {
		return domain.NewValidationError("outing_id is required")
	}
	if !status.IsOutingStatus() {
		return domain.NewValidationError("status is not an outing status")
	}
	return s.outings.SetOutingStatus(ctx, outingID, status)
}

// CancelForFlag cancels every upcoming water outing when flag keeps crews
// off the river. Seats are left as they are. Outings that fail to update
// are logged and skipped.
func (s *Service) CancelForFlag(ctx context.Context, flag domain.RiverFlag, now time.Time) ([]uuid.UUID, error) {
	target, ok := domain.OutingStatusForFlag(flag)
	if !ok {
		return nil, nil
	}

	now = now.UTC()
	outings, err := s.outings.ListOutings(ctx, now, now.Add(store.UpcomingLookahead))
	if err != nil {
		return nil, err
	}

	var updated []uuid.UUID
	for _, o := range outings {
		if o.Type != domain.OutingTypeWater || !o.StartTime.After(now) || o.Status == target {
			continue
		}
		if err := s.outings.SetOutingStatus(ctx, o.ID, target); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return updated, ctxErr
			}
			s.log.Warn(
				"flag cancellation skipped outing",
				slog.Any("err", err),
				slog.String("outing_id", o.ID.String()),
				slog.String("flag", string(flag)),
			)
			continue
		}
		updated = append(updated, o.ID)
	}

	s.log.Info("flag cancellation applied", slog.String("flag", string(flag)), slog.Int("count", len(updated)))
	return updated, nil
}

func (s *Service) GetUnavailability(ctx context.Context, memberID uuid.UUID) (domain.WeeklyUnavailability, error) {
	if memberID == uuid.Nil {
		return domain.WeeklyUnavailability{}, domain.NewValidationError("member_id is required")
	}
	return s.unavailability.GetUnavailability(ctx, memberID)
}

func (s *Service) ListUnavailability(ctx context.Context, memberIDs []uuid.UUID) (map[uuid.UUID]domain.WeeklyUnavailability, error) {
	if len(memberIDs) == 0 {
		return map[uuid.UUID]domain.WeeklyUnavailability{}, nil
	}
	return s.unavailability.ListUnavailability(ctx, memberIDs)
}

// ReplaceUnavailabilityDay overwrites one weekday. Invalid input leaves the
// stored week untouched.
func (s *Service) ReplaceUnavailabilityDay(ctx context.Context, memberID uuid.UUID, day time.Weekday, ranges []domain.TimeRange) (domain.WeeklyUnavailability, error) {
	if memberID == uuid.Nil {
		return domain.WeeklyUnavailability{}, domain.NewValidationError("member_id is required")
	}
	if day < time.Sunday || day > time.Saturday {
		return domain.WeeklyUnavailability{}, domain.NewValidationError("invalid weekday")
	}

	staged := domain.NewWeeklyUnavailability(memberID)
	if err := staged.ReplaceDay(day, ranges); err != nil {
		return domain.WeeklyUnavailability{}, err
	}

	days := map[time.Weekday][]domain.TimeRange{day: staged.RangesFor(day)}
	if err := s.unavailability.ReplaceDays(ctx, memberID, days); err != nil {
		return domain.WeeklyUnavailability{}, err
	}
	return s.unavailability.GetUnavailability(ctx, memberID)
}

// ReplaceUnavailabilityWeek validates all seven days before writing any,
// then overwrites the whole week.
func (s *Service) ReplaceUnavailabilityWeek(ctx context.Context, u domain.WeeklyUnavailability) (domain.WeeklyUnavailability, error) {
	if u.MemberID == uuid.Nil {
		return domain.WeeklyUnavailability{}, domain.NewValidationError("member_id is required")
	}
	if err := u.Validate(); err != nil {
		return domain.WeeklyUnavailability{}, err
	}

	days := make(map[time.Weekday][]domain.TimeRange, len(u.Days))
	for _, wd := range domain.WeekdaysFromMonday {
		days[wd] = u.RangesFor(wd)
	}
	if err := s.unavailability.ReplaceDays(ctx, u.MemberID, days); err != nil {
		return domain.WeeklyUnavailability{}, err
	}
	return s.unavailability.GetUnavailability(ctx, u.MemberID)
}

// CreateMember adds a club member. An empty experience means the member
// does not cox.
func (s *Service) CreateMember(ctx context.Context, name string, role string, experience domain.CoxExperience) (domain.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Member{}, domain.NewValidationError("name is required")
	}
	if experience != "" && !experience.Valid() {
		return domain.Member{}, domain.NewValidationError("invalid cox experience: " + string(experience))
	}
	return s.members.CreateMember(ctx, domain.Member{
		Name:          name,
		Role:          strings.TrimSpace(role),
		CoxExperience: experience,
	})
}

func (s *Service) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return s.members.ListMembers(ctx)
}

// EligibleMembers splits the club's members into those free for the outing
// and those who are not. For the cox seat a member must also pass the river
// flag's experience check (skipped for an empty flag) and, when anyone
// signed up to cox on the outing's date, be signed up for its slot. Members
// failing either check are listed as unavailable.
func (s *Service) EligibleMembers(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, flag domain.RiverFlag) (domain.Partition, error) {
	if !role.Valid() {
		return domain.Partition{}, domain.NewValidationError("seat is required")
	}
	outing, err := s.GetOuting(ctx, outingID)
	if err != nil {
		return domain.Partition{}, err
	}

	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return domain.Partition{}, err
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	byMember, err := s.ListUnavailability(ctx, ids)
	if err != nil {
		return domain.Partition{}, err
	}

	var keep func(domain.Member) bool
	if role == domain.SeatCox {
		day, found, err := s.coxing.GetCoxingDay(ctx, domain.CivilDate(outing.StartTime, s.loc))
		if err != nil {
			return domain.Partition{}, err
		}
		var signups *domain.CoxingAvailability
		if found {
			signups = &day
		}
		keep = domain.CoxCandidate(flag, signups, domain.CoxingSlotFor(outing.StartTime, s.loc))
	}

	date, start, end := domain.SessionWindow(outing, s.loc)
	return domain.PartitionEligible(members, byMember, date, start, end, keep), nil
}

// GetCoxingAvailability lists the dates in [from, to] that have sign-ups.
func (s *Service) GetCoxingAvailability(ctx context.Context, from, to time.Time) ([]domain.CoxingAvailability, error) {
	from = domain.CivilDate(from, nil)
	to = domain.CivilDate(to, nil)
	if to.Before(from) {
		return nil, domain.NewValidationError("end date must not be before start date")
	}
	if to.Sub(from) > store.MaxCoxingSpan {
		return nil, domain.NewValidationError("date range too long")
	}
	return s.coxing.ListCoxing(ctx, from, to)
}

// UpdateCoxingAvailability adds or removes one member from one slot of a
// date and returns the date's sign-ups afterwards. Adding twice or removing
// an absent member changes nothing.
func (s *Service) UpdateCoxingAvailability(ctx context.Context, memberID uuid.UUID, date time.Time, slot domain.CoxingSlot, action domain.CoxingAction) (domain.CoxingAvailability, error) {
	if memberID == uuid.Nil {
		return domain.CoxingAvailability{}, domain.NewValidationError("member_id is required")
	}
	if date.IsZero() {
		return domain.CoxingAvailability{}, domain.NewValidationError("date is required")
	}
	if !slot.Valid() {
		return domain.CoxingAvailability{}, domain.NewValidationError("invalid slot")
	}
	day := domain.CivilDate(date, nil)

	var err error
	switch action {
	case domain.CoxingAdd:
		if _, err = s.members.GetMember(ctx, memberID); err != nil {
			return domain.CoxingAvailability{}, err
		}
		err = s.coxing.AddCoxingSignup(ctx, day, slot, memberID)
	case domain.CoxingRemove:
		err = s.coxing.RemoveCoxingSignup(ctx, day, slot, memberID)
	default:
		return domain.CoxingAvailability{}, domain.NewValidationError(`action must be "add" or "remove"`)
	}
	if err != nil {
		return domain.CoxingAvailability{}, err
	}

	s.log.Info(
		"coxing availability updated",
		slog.String("member_id", memberID.String()),
		slog.String("date", day.Format(time.DateOnly)),
		slog.String("slot", string(slot)),
		slog.String("action", string(action)),
	)
	out, _, err := s.coxing.GetCoxingDay(ctx, day)
	return out, err
}
