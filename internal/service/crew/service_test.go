package crew

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"crewboard/internal/domain"
	"crewboard/internal/store"
)

type fakeOutings struct {
	createFn      func(ctx context.Context, outing domain.Outing) (domain.Outing, error)
	getFn         func(ctx context.Context, outingID uuid.UUID) (domain.Outing, error)
	listFn        func(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Outing, error)
	writeMemberFn func(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, member uuid.NullUUID) error
	writeStatusFn func(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, status domain.SeatStatus) error
	setStatusFn   func(ctx context.Context, outingID uuid.UUID, status domain.SeatStatus) error
}

func (f *fakeOutings) CreateOuting(ctx context.Context, outing domain.Outing) (domain.Outing, error) {
	if f.createFn == nil {
		panic("CreateOuting not configured")
	}
	return f.createFn(ctx, outing)
}

func (f *fakeOutings) GetOuting(ctx context.Context, outingID uuid.UUID) (domain.Outing, error) {
	if f.getFn == nil {
		panic("GetOuting not configured")
	}
	return f.getFn(ctx, outingID)
}

func (f *fakeOutings) ListOutings(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Outing, error) {
	if f.listFn == nil {
		panic("ListOutings not configured")
	}
	return f.listFn(ctx, windowStart, windowEnd)
}

func (f *fakeOutings) WriteSeatAssignment(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, member uuid.NullUUID) error {
	if f.writeMemberFn == nil {
		panic("WriteSeatAssignment not configured")
	}
	return f.writeMemberFn(ctx, outingID, role, member)
}

func (f *fakeOutings) WriteSeatStatus(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, status domain.SeatStatus) error {
	if f.writeStatusFn == nil {
		panic("WriteSeatStatus not configured")
	}
	return f.writeStatusFn(ctx, outingID, role, status)
}

func (f *fakeOutings) SetOutingStatus(ctx context.Context, outingID uuid.UUID, status domain.SeatStatus) error {
	if f.setStatusFn == nil {
		panic("SetOutingStatus not configured")
	}
	return f.setStatusFn(ctx, outingID, status)
}

type fakeUnavailability struct {
	getFn     func(ctx context.Context, memberID uuid.UUID) (domain.WeeklyUnavailability, error)
	listFn    func(ctx context.Context, memberIDs []uuid.UUID) (map[uuid.UUID]domain.WeeklyUnavailability, error)
	replaceFn func(ctx context.Context, memberID uuid.UUID, days map[time.Weekday][]domain.TimeRange) error
}

func (f *fakeUnavailability) GetUnavailability(ctx context.Context, memberID uuid.UUID) (domain.WeeklyUnavailability, error) {
	if f.getFn == nil {
		panic("GetUnavailability not configured")
	}
	return f.getFn(ctx, memberID)
}

func (f *fakeUnavailability) ListUnavailability(ctx context.Context, memberIDs []uuid.UUID) (map[uuid.UUID]domain.WeeklyUnavailability, error) {
	if f.listFn == nil {
		panic("ListUnavailability not configured")
	}
	return f.listFn(ctx, memberIDs)
}

func (f *fakeUnavailability) ReplaceDays(ctx context.Context, memberID uuid.UUID, days map[time.Weekday][]domain.TimeRange) error {
	if f.replaceFn == nil {
		panic("ReplaceDays not configured")
	}
	return f.replaceFn(ctx, memberID, days)
}

type fakeMembers struct {
	createFn func(ctx context.Context, member domain.Member) (domain.Member, error)
	listFn   func(ctx context.Context) ([]domain.Member, error)
	getFn    func(ctx context.Context, memberID uuid.UUID) (domain.Member, error)
}

func (f *fakeMembers) CreateMember(ctx context.Context, member domain.Member) (domain.Member, error) {
	if f.createFn == nil {
		panic("CreateMember not configured")
	}
	return f.createFn(ctx, member)
}

func (f *fakeMembers) ListMembers(ctx context.Context) ([]domain.Member, error) {
	if f.listFn == nil {
		panic("ListMembers not configured")
	}
	return f.listFn(ctx)
}

func (f *fakeMembers) GetMember(ctx context.Context, memberID uuid.UUID) (domain.Member, error) {
	if f.getFn == nil {
		panic("GetMember not configured")
	}
	return f.getFn(ctx, memberID)
}

type fakeCoxing struct {
	listFn   func(ctx context.Context, from, to time.Time) ([]domain.CoxingAvailability, error)
	getDayFn func(ctx context.Context, date time.Time) (domain.CoxingAvailability, bool, error)
	addFn    func(ctx context.Context, date time.Time, slot domain.CoxingSlot, memberID uuid.UUID) error
	removeFn func(ctx context.Context, date time.Time, slot domain.CoxingSlot, memberID uuid.UUID) error
}

func (f *fakeCoxing) ListCoxing(ctx context.Context, from, to time.Time) ([]domain.CoxingAvailability, error) {
	if f.listFn == nil {
		panic("ListCoxing not configured")
	}
	return f.listFn(ctx, from, to)
}

func (f *fakeCoxing) GetCoxingDay(ctx context.Context, date time.Time) (domain.CoxingAvailability, bool, error) {
	if f.getDayFn == nil {
		panic("GetCoxingDay not configured")
	}
	return f.getDayFn(ctx, date)
}

func (f *fakeCoxing) AddCoxingSignup(ctx context.Context, date time.Time, slot domain.CoxingSlot, memberID uuid.UUID) error {
	if f.addFn == nil {
		panic("AddCoxingSignup not configured")
	}
	return f.addFn(ctx, date, slot, memberID)
}

func (f *fakeCoxing) RemoveCoxingSignup(ctx context.Context, date time.Time, slot domain.CoxingSlot, memberID uuid.UUID) error {
	if f.removeFn == nil {
		panic("RemoveCoxingSignup not configured")
	}
	return f.removeFn(ctx, date, slot, memberID)
}

var (
	outingID = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	memberA  = domain.Member{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000a"), Name: "A", CoxExperience: domain.CoxNovice}
	memberB  = domain.Member{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000b"), Name: "B", CoxExperience: domain.CoxSenior}
	memberC  = domain.Member{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000c"), Name: "C", CoxExperience: domain.CoxExperienced}
)

func newTestService(o *fakeOutings, u *fakeUnavailability, m *fakeMembers) *Service {
	if o == nil {
		o = &fakeOutings{}
	}
	if u == nil {
		u = &fakeUnavailability{}
	}
	if m == nil {
		m = &fakeMembers{}
	}
	return NewService(o, u, m, &fakeCoxing{}, time.UTC, slog.Default())
}

func TestServiceCreateOuting_Validation(t *testing.T) {
	start := time.Date(2026, 1, 5, 7, 0, 0, 0, time.UTC)
	before := start.Add(-time.Minute)
	tooLong := start.Add(25 * time.Hour)

	tests := []struct {
		name string
		in   CreateOutingInput
		want string
	}{
		{name: "missing name", in: CreateOutingInput{Name: "  ", StartTime: start}, want: "name is required"},
		{name: "bad type", in: CreateOutingInput{Name: "x", Type: "canoe", StartTime: start}, want: "invalid outing type"},
		{name: "missing start", in: CreateOutingInput{Name: "x"}, want: "start_time is required"},
		{name: "end before start", in: CreateOutingInput{Name: "x", StartTime: start, EndTime: &before}, want: "end_time must be after start_time"},
		{name: "too long", in: CreateOutingInput{Name: "x", StartTime: start, EndTime: &tooLong}, want: "duration too long"},
	}

	svc := newTestService(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOuting(context.Background(), tt.in)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error type = %T, want *domain.ValidationError", err)
			}
			if vErr.Error() != tt.want {
				t.Fatalf("error = %q, want %q", vErr.Error(), tt.want)
			}
		})
	}
}

func TestServiceCreateOuting_DefaultsAndNormalizes(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	var got domain.Outing
	svc := newTestService(&fakeOutings{
		createFn: func(ctx context.Context, outing domain.Outing) (domain.Outing, error) {
			got = outing
			return outing, nil
		},
	}, nil, nil)

	start := time.Date(2026, 6, 1, 7, 0, 0, 0, loc)
	end := start.Add(90 * time.Minute)
	if _, err := svc.CreateOuting(context.Background(), CreateOutingInput{Name: " Novice squad ", StartTime: start, EndTime: &end}); err != nil {
		t.Fatalf("CreateOuting error: %v", err)
	}
	if got.Name != "Novice squad" || got.Type != domain.OutingTypeWater {
		t.Fatalf("outing = %+v", got)
	}
	if got.StartTime.Location() != time.UTC || got.EndTime.Location() != time.UTC {
		t.Fatalf("expected UTC times, got start=%v end=%v", got.StartTime, got.EndTime)
	}
	if len(got.Seats.AvailableSeats()) != domain.SeatCount {
		t.Fatalf("new outing should have every seat open")
	}
}

func TestServiceWriteSeatStatus_RejectsOutingStatus(t *testing.T) {
	svc := newTestService(nil, nil, nil)
	err := svc.WriteSeatStatus(context.Background(), outingID, domain.SeatBow, domain.StatusCancelled)
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *domain.ValidationError", err)
	}
}

func TestServiceWriteSeatStatus_AllowsStatusReset(t *testing.T) {
	var got domain.SeatStatus
	svc := newTestService(&fakeOutings{
		writeStatusFn: func(ctx context.Context, id uuid.UUID, role domain.SeatRole, status domain.SeatStatus) error {
			got = status
			return nil
		},
	}, nil, nil)

	if err := svc.WriteSeatStatus(context.Background(), outingID, domain.SeatBow, domain.StatusAwaitingApproval); err != nil {
		t.Fatalf("WriteSeatStatus error: %v", err)
	}
	if got != domain.StatusAwaitingApproval {
		t.Fatalf("status = %s", got)
	}
}

func TestServiceSetOutingStatus_RejectsRowerStatus(t *testing.T) {
	svc := newTestService(nil, nil, nil)
	err := svc.SetOutingStatus(context.Background(), outingID, domain.StatusAvailable)
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *domain.ValidationError", err)
	}
}

func TestServiceCancelForFlag(t *testing.T) {
	now := time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC)
	water := domain.Outing{ID: uuid.MustParse("00000000-0000-0000-0000-000000000201"), Type: domain.OutingTypeWater, StartTime: now.Add(2 * time.Hour), Status: domain.StatusConfirmed}
	erg := domain.Outing{ID: uuid.MustParse("00000000-0000-0000-0000-000000000202"), Type: domain.OutingTypeErg, StartTime: now.Add(2 * time.Hour)}
	started := domain.Outing{ID: uuid.MustParse("00000000-0000-0000-0000-000000000203"), Type: domain.OutingTypeWater, StartTime: now.Add(-time.Hour)}
	failing := domain.Outing{ID: uuid.MustParse("00000000-0000-0000-0000-000000000204"), Type: domain.OutingTypeWater, StartTime: now.Add(3 * time.Hour)}

	var gotWindowEnd time.Time
	var set []uuid.UUID
	svc := newTestService(&fakeOutings{
		listFn: func(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Outing, error) {
			gotWindowEnd = windowEnd
			return []domain.Outing{water, erg, started, failing}, nil
		},
		setStatusFn: func(ctx context.Context, id uuid.UUID, status domain.SeatStatus) error {
			if status != domain.StatusCancelled {
				t.Fatalf("status = %s, want Cancelled", status)
			}
			if id == failing.ID {
				return store.ErrNotFound
			}
			set = append(set, id)
			return nil
		},
	}, nil, nil)

	updated, err := svc.CancelForFlag(context.Background(), domain.FlagRed, now)
	if err != nil {
		t.Fatalf("CancelForFlag error: %v", err)
	}
	if len(updated) != 1 || updated[0] != water.ID || len(set) != 1 {
		t.Fatalf("updated = %v, want [%s]", updated, water.ID)
	}
	if !gotWindowEnd.Equal(now.Add(store.UpcomingLookahead)) {
		t.Fatalf("window end = %v", gotWindowEnd)
	}
}

func TestServiceCancelForFlag_SafeFlagChangesNothing(t *testing.T) {
	svc := newTestService(nil, nil, nil)
	updated, err := svc.CancelForFlag(context.Background(), domain.FlagDarkBlue, time.Now())
	if err != nil || updated != nil {
		t.Fatalf("CancelForFlag = %v, %v; want nil, nil", updated, err)
	}
}

func TestServiceReplaceUnavailabilityDay_InvalidInputNeverWrites(t *testing.T) {
	svc := newTestService(nil, &fakeUnavailability{}, nil)

	ranges := []domain.TimeRange{
		domain.MustTimeRange("06:00", "07:00"),
		domain.MustTimeRange("08:00", "09:00"),
		domain.MustTimeRange("10:00", "11:00"),
		domain.MustTimeRange("12:00", "13:00"),
	}
	_, err := svc.ReplaceUnavailabilityDay(context.Background(), memberA.ID, time.Monday, ranges)
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want *domain.ValidationError", err)
	}
}

func TestServiceReplaceUnavailabilityDay_WritesOneDay(t *testing.T) {
	var gotDays map[time.Weekday][]domain.TimeRange
	stored := domain.NewWeeklyUnavailability(memberA.ID)

	svc := newTestService(nil, &fakeUnavailability{
		replaceFn: func(ctx context.Context, memberID uuid.UUID, days map[time.Weekday][]domain.TimeRange) error {
			gotDays = days
			for d, r := range days {
				stored.Days[d] = r
			}
			return nil
		},
		getFn: func(ctx context.Context, memberID uuid.UUID) (domain.WeeklyUnavailability, error) {
			return stored, nil
		},
	}, nil)

	week, err := svc.ReplaceUnavailabilityDay(context.Background(), memberA.ID, time.Wednesday, []domain.TimeRange{domain.MustTimeRange("17:00", "19:00")})
	if err != nil {
		t.Fatalf("ReplaceUnavailabilityDay error: %v", err)
	}
	if len(gotDays) != 1 || len(gotDays[time.Wednesday]) != 1 {
		t.Fatalf("days = %v, want only wednesday", gotDays)
	}
	if got := week.RangesFor(time.Wednesday); len(got) != 1 || got[0].String() != "17:00-19:00" {
		t.Fatalf("wednesday = %v", got)
	}
}

func TestServiceReplaceUnavailabilityWeek_ValidatesAllDaysFirst(t *testing.T) {
	svc := newTestService(nil, &fakeUnavailability{}, nil)

	u := domain.NewWeeklyUnavailability(memberA.ID)
	u.Days[time.Monday] = []domain.TimeRange{domain.MustTimeRange("06:00", "07:00")}
	u.Days[time.Friday] = []domain.TimeRange{domain.MustTimeRange("06:00", "08:00"), domain.MustTimeRange("07:00", "09:00")}

	if _, err := svc.ReplaceUnavailabilityWeek(context.Background(), u); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestServiceEligibleMembers(t *testing.T) {
	// 2026-01-05 is a Monday.
	start := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	end := time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC)
	outing := domain.Outing{ID: outingID, Type: domain.OutingTypeWater, StartTime: start, EndTime: &end, Seats: domain.NewSeatRegistry()}

	blockedB := domain.NewWeeklyUnavailability(memberB.ID)
	blockedB.Days[time.Monday] = []domain.TimeRange{domain.MustTimeRange("09:00", "10:00")}

	svc := newTestService(
		&fakeOutings{getFn: func(ctx context.Context, id uuid.UUID) (domain.Outing, error) { return outing, nil }},
		&fakeUnavailability{listFn: func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.WeeklyUnavailability, error) {
			if len(ids) != 3 {
				t.Fatalf("ids = %v, want 3", ids)
			}
			return map[uuid.UUID]domain.WeeklyUnavailability{memberB.ID: blockedB}, nil
		}},
		&fakeMembers{listFn: func(ctx context.Context) ([]domain.Member, error) {
			return []domain.Member{memberA, memberB, memberC}, nil
		}},
	)

	t.Run("rower seat", func(t *testing.T) {
		p, err := svc.EligibleMembers(context.Background(), outingID, domain.SeatStroke, domain.FlagDarkBlue)
		if err != nil {
			t.Fatalf("EligibleMembers error: %v", err)
		}
		if len(p.Available) != 2 || p.Available[0].ID != memberA.ID || p.Available[1].ID != memberC.ID {
			t.Fatalf("available = %v, want [A C]", p.Available)
		}
		if len(p.Unavailable) != 1 || p.Unavailable[0].ID != memberB.ID {
			t.Fatalf("unavailable = %v, want [B]", p.Unavailable)
		}
	})

	noSignups := func(ctx context.Context, date time.Time) (domain.CoxingAvailability, bool, error) {
		if !date.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("coxing date = %v", date)
		}
		return domain.NewCoxingAvailability(date), false, nil
	}

	t.Run("cox seat filters by flag", func(t *testing.T) {
		svc.coxing = &fakeCoxing{getDayFn: noSignups}
		p, err := svc.EligibleMembers(context.Background(), outingID, domain.SeatCox, domain.FlagDarkBlue)
		if err != nil {
			t.Fatalf("EligibleMembers error: %v", err)
		}
		if len(p.Available) != 1 || p.Available[0].ID != memberC.ID {
			t.Fatalf("available = %v, want [C]", p.Available)
		}
		// The novice fails the flag check but is still listed.
		if len(p.Unavailable) != 2 || p.Unavailable[0].ID != memberA.ID || p.Unavailable[1].ID != memberB.ID {
			t.Fatalf("unavailable = %v, want [A B]", p.Unavailable)
		}
	})

	t.Run("cox seat without flag or sign-ups lists everyone free", func(t *testing.T) {
		svc.coxing = &fakeCoxing{getDayFn: noSignups}
		p, err := svc.EligibleMembers(context.Background(), outingID, domain.SeatCox, "")
		if err != nil {
			t.Fatalf("EligibleMembers error: %v", err)
		}
		if len(p.Available) != 2 || len(p.Unavailable) != 1 {
			t.Fatalf("partition = %v / %v, want 2 / 1", p.Available, p.Unavailable)
		}
	})

	t.Run("cox seat requires a sign-up for the outing slot", func(t *testing.T) {
		svc.coxing = &fakeCoxing{getDayFn: func(ctx context.Context, date time.Time) (domain.CoxingAvailability, bool, error) {
			day := domain.NewCoxingAvailability(date)
			// 09:30 is Mid AM; C only signed up for the evening.
			day.Slots[domain.SlotMidAM] = []uuid.UUID{memberA.ID}
			day.Slots[domain.SlotLatePM] = []uuid.UUID{memberC.ID}
			return day, true, nil
		}}
		p, err := svc.EligibleMembers(context.Background(), outingID, domain.SeatCox, domain.FlagGreen)
		if err != nil {
			t.Fatalf("EligibleMembers error: %v", err)
		}
		if len(p.Available) != 1 || p.Available[0].ID != memberA.ID {
			t.Fatalf("available = %v, want [A]", p.Available)
		}
		if len(p.Unavailable) != 2 || p.Unavailable[0].ID != memberB.ID || p.Unavailable[1].ID != memberC.ID {
			t.Fatalf("unavailable = %v, want [B C]", p.Unavailable)
		}
	})

	t.Run("rower seat ignores sign-ups", func(t *testing.T) {
		svc.coxing = &fakeCoxing{}
		p, err := svc.EligibleMembers(context.Background(), outingID, domain.Seat2, "")
		if err != nil {
			t.Fatalf("EligibleMembers error: %v", err)
		}
		if len(p.Available)+len(p.Unavailable) != 3 {
			t.Fatalf("partition lost members: %v / %v", p.Available, p.Unavailable)
		}
	})
}

func TestServiceUpdateCoxingAvailability(t *testing.T) {
	date := time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC)
	day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	var added, removed []domain.CoxingSlot
	svc := newTestService(nil, nil, &fakeMembers{getFn: func(ctx context.Context, id uuid.UUID) (domain.Member, error) {
		if id != memberB.ID {
			return domain.Member{}, store.ErrNotFound
		}
		return memberB, nil
	}})
	svc.coxing = &fakeCoxing{
		addFn: func(ctx context.Context, d time.Time, slot domain.CoxingSlot, id uuid.UUID) error {
			if !d.Equal(day) {
				t.Fatalf("date = %v, want %v", d, day)
			}
			added = append(added, slot)
			return nil
		},
		removeFn: func(ctx context.Context, d time.Time, slot domain.CoxingSlot, id uuid.UUID) error {
			removed = append(removed, slot)
			return nil
		},
		getDayFn: func(ctx context.Context, d time.Time) (domain.CoxingAvailability, bool, error) {
			a := domain.NewCoxingAvailability(d)
			a.Slots[domain.SlotLatePM] = []uuid.UUID{memberB.ID}
			return a, true, nil
		},
	}

	got, err := svc.UpdateCoxingAvailability(context.Background(), memberB.ID, date, domain.SlotLatePM, domain.CoxingAdd)
	if err != nil {
		t.Fatalf("add error: %v", err)
	}
	if !got.Has(domain.SlotLatePM, memberB.ID) {
		t.Fatalf("day = %+v", got)
	}
	if _, err := svc.UpdateCoxingAvailability(context.Background(), memberB.ID, date, domain.SlotEarlyAM, domain.CoxingRemove); err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if len(added) != 1 || len(removed) != 1 || removed[0] != domain.SlotEarlyAM {
		t.Fatalf("added = %v removed = %v", added, removed)
	}

	if _, err := svc.UpdateCoxingAvailability(context.Background(), memberA.ID, date, domain.SlotLatePM, domain.CoxingAdd); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown member err = %v, want ErrNotFound", err)
	}

	for name, call := range map[string]func() error{
		"nil member": func() error {
			_, err := svc.UpdateCoxingAvailability(context.Background(), uuid.Nil, date, domain.SlotLatePM, domain.CoxingAdd)
			return err
		},
		"bad slot": func() error {
			_, err := svc.UpdateCoxingAvailability(context.Background(), memberB.ID, date, "brunch", domain.CoxingAdd)
			return err
		},
		"bad action": func() error {
			_, err := svc.UpdateCoxingAvailability(context.Background(), memberB.ID, date, domain.SlotLatePM, "toggle")
			return err
		},
	} {
		var vErr *domain.ValidationError
		if err := call(); !errors.As(err, &vErr) {
			t.Fatalf("%s: err = %v, want validation error", name, err)
		}
	}
	if len(added) != 1 {
		t.Fatalf("invalid input reached the store: %v", added)
	}
}

func TestServiceGetCoxingAvailability_ValidatesRange(t *testing.T) {
	from := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	svc := newTestService(nil, nil, nil)
	svc.coxing = &fakeCoxing{listFn: func(ctx context.Context, f, to time.Time) ([]domain.CoxingAvailability, error) {
		return []domain.CoxingAvailability{domain.NewCoxingAvailability(f)}, nil
	}}

	got, err := svc.GetCoxingAvailability(context.Background(), from, from.AddDate(0, 0, 6))
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v, %v", got, err)
	}
	if _, err := svc.GetCoxingAvailability(context.Background(), from, from.AddDate(0, 0, -1)); err == nil {
		t.Fatalf("expected error for reversed range")
	}
	if _, err := svc.GetCoxingAvailability(context.Background(), from, from.AddDate(1, 0, 0)); err == nil {
		t.Fatalf("expected error for a year-long range")
	}
}

func TestServiceCreateMember(t *testing.T) {
	var got domain.Member
	svc := newTestService(nil, nil, &fakeMembers{createFn: func(ctx context.Context, m domain.Member) (domain.Member, error) {
		got = m
		m.ID = memberA.ID
		return m, nil
	}})

	m, err := svc.CreateMember(context.Background(), "  Ada  ", " captain ", domain.CoxSenior)
	if err != nil {
		t.Fatalf("CreateMember error: %v", err)
	}
	if got.Name != "Ada" || got.Role != "captain" || m.ID != memberA.ID {
		t.Fatalf("member = %+v", got)
	}

	if _, err := svc.CreateMember(context.Background(), " ", "", ""); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if _, err := svc.CreateMember(context.Background(), "Bo", "", "Admiral"); err == nil {
		t.Fatalf("expected error for unknown experience")
	}
}

func TestServiceReplaceUnavailabilityWeek_WritesEveryDay(t *testing.T) {
	var written map[time.Weekday][]domain.TimeRange
	svc := newTestService(nil, &fakeUnavailability{
		replaceFn: func(ctx context.Context, id uuid.UUID, days map[time.Weekday][]domain.TimeRange) error {
			written = days
			return nil
		},
		getFn: func(ctx context.Context, id uuid.UUID) (domain.WeeklyUnavailability, error) {
			u := domain.NewWeeklyUnavailability(id)
			for wd, r := range written {
				u.Days[wd] = r
			}
			return u, nil
		},
	}, nil)

	u := domain.NewWeeklyUnavailability(memberA.ID)
	u.Days[time.Wednesday] = []domain.TimeRange{domain.MustTimeRange("18:00", "20:00")}

	got, err := svc.ReplaceUnavailabilityWeek(context.Background(), u)
	if err != nil {
		t.Fatalf("ReplaceUnavailabilityWeek error: %v", err)
	}
	if len(written) != 7 {
		t.Fatalf("days written = %d, want 7", len(written))
	}
	if r := got.RangesFor(time.Wednesday); len(r) != 1 || r[0].String() != "18:00-20:00" {
		t.Fatalf("wednesday = %v", r)
	}
	if len(got.RangesFor(time.Monday)) != 0 {
		t.Fatalf("monday should be cleared")
	}
}

func TestServiceGetOuting_PassesNotFound(t *testing.T) {
	svc := newTestService(&fakeOutings{
		getFn: func(ctx context.Context, id uuid.UUID) (domain.Outing, error) {
			return domain.Outing{}, store.ErrNotFound
		},
	}, nil, nil)

	if _, err := svc.GetOuting(context.Background(), outingID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetOuting(context.Background(), uuid.Nil); err == nil {
		t.Fatalf("expected validation error for nil id")
	}
}
