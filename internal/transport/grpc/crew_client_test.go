package grpc

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"crewboard/internal/domain"
	"crewboard/internal/seatsync"
	"crewboard/internal/service/crew"
	"crewboard/internal/store"
)

// memoryCrew keeps one outing in memory and behaves like the Postgres
// backed service for seat writes.
type memoryCrew struct {
	fakeCrewService

	mu     sync.Mutex
	outing domain.Outing
}

func newMemoryCrew(o domain.Outing) *memoryCrew {
	m := &memoryCrew{outing: o}
	m.getOutingFn = func(ctx context.Context, id uuid.UUID) (domain.Outing, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if id != m.outing.ID {
			return domain.Outing{}, store.ErrNotFound
		}
		return m.outing.Clone(), nil
	}
	m.writeAssignmentFn = func(ctx context.Context, id uuid.UUID, role domain.SeatRole, member uuid.NullUUID) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.outing.Seats[role].Member = member
		return nil
	}
	m.writeStatusFn = func(ctx context.Context, id uuid.UUID, role domain.SeatRole, st domain.SeatStatus) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if st.IsSettable() && !m.outing.Seats[role].Member.Valid {
			return store.ErrSeatVacant
		}
		m.outing.Seats[role].Status = st
		return nil
	}
	m.setOutingStatusFn = func(ctx context.Context, id uuid.UUID, st domain.SeatStatus) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.outing.Status = st
		return nil
	}
	return m
}

func startBufconn(t *testing.T, svc crewService) *CrewClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterCrewServiceServer(srv, NewCrewServer(svc, slog.Default()))
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewCrewClient(conn)
}

func testOuting() domain.Outing {
	end := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	return domain.Outing{
		ID:        testOutingID,
		Name:      "Monday squad",
		Type:      domain.OutingTypeWater,
		Status:    domain.StatusProvisional,
		StartTime: time.Date(2026, 1, 5, 7, 0, 0, 0, time.UTC),
		EndTime:   &end,
		Seats:     domain.NewSeatRegistry(),
	}
}

func TestCrewClient_GetOuting(t *testing.T) {
	client := startBufconn(t, newMemoryCrew(testOuting()))

	got, err := client.GetOuting(context.Background(), testOutingID)
	require.NoError(t, err)
	assert.Equal(t, "Monday squad", got.Name)
	assert.Len(t, got.AvailableSeats(), domain.SeatCount)

	_, err = client.GetOuting(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCrewClient_MapsStatusCodesToDomainErrors(t *testing.T) {
	client := startBufconn(t, newMemoryCrew(testOuting()))

	err := client.WriteSeatStatus(context.Background(), testOutingID, domain.SeatBow, domain.StatusAvailable)
	var pErr *domain.PreconditionError
	require.ErrorAs(t, err, &pErr)

	_, err = client.EligibleMembers(context.Background(), testOutingID, domain.SeatRole(99), "")
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCrewClient_DrivesSyncController(t *testing.T) {
	crew := newMemoryCrew(testOuting())
	client := startBufconn(t, crew)
	ctx := context.Background()

	outing, err := client.GetOuting(ctx, testOutingID)
	require.NoError(t, err)

	member := uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	c := seatsync.NewController(outing, client, seatsync.WithQuiescenceWindow(20*time.Millisecond))

	_, err = c.Apply(ctx, seatsync.AssignMember(domain.SeatCox, member))
	require.NoError(t, err)
	res, err := c.Apply(ctx, seatsync.SetSeatStatus(domain.SeatCox, domain.StatusAvailable))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, res.Seat.Status)

	remote, err := client.GetOuting(ctx, testOutingID)
	require.NoError(t, err)
	assert.Equal(t, c.Snapshot().Seats, remote.Seats)

	// Another actor clears the seat; a status write now fails on the server
	// and the controller rolls back without asking for a retry.
	crew.mu.Lock()
	crew.outing.Seats[domain.SeatCox].Member = uuid.NullUUID{}
	crew.mu.Unlock()

	_, err = c.Apply(ctx, seatsync.SetSeatStatus(domain.SeatCox, domain.StatusMaybeAvailable))
	var rwErr *seatsync.RemoteWriteError
	require.ErrorAs(t, err, &rwErr)
	assert.False(t, rwErr.Retryable())
	assert.Equal(t, domain.StatusAvailable, c.Snapshot().Seats[domain.SeatCox].Status)

	fresh, err := client.GetOuting(ctx, testOutingID)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return !c.Pending(domain.SeatCox) }, time.Second, 5*time.Millisecond)
	_, err = c.Refresh(fresh)
	require.NoError(t, err)
	assert.False(t, c.Snapshot().Seats[domain.SeatCox].Member.Valid)
}

func TestCrewClient_AddMemberAndCreateOuting(t *testing.T) {
	var gotExperience domain.CoxExperience
	var gotInput crew.CreateOutingInput
	client := startBufconn(t, &fakeCrewService{
		createMemberFn: func(ctx context.Context, name, role string, experience domain.CoxExperience) (domain.Member, error) {
			gotExperience = experience
			return domain.Member{ID: testMemberID, Name: name, Role: role, CoxExperience: experience}, nil
		},
		createOutingFn: func(ctx context.Context, in crew.CreateOutingInput) (domain.Outing, error) {
			gotInput = in
			o := testOuting()
			o.Name = in.Name
			return o, nil
		},
	})
	ctx := context.Background()

	m, err := client.AddMember(ctx, "Ada", "captain", domain.CoxNoviceFirstTerm)
	require.NoError(t, err)
	assert.Equal(t, testMemberID, m.ID)
	assert.Equal(t, domain.CoxNoviceFirstTerm, gotExperience)

	want := testOuting()
	want.Name = "Saturday eight"
	want.Shell = "Isis"
	created, err := client.CreateOuting(ctx, want)
	require.NoError(t, err)
	assert.Equal(t, "Saturday eight", created.Name)
	assert.Equal(t, "Isis", gotInput.Shell)
	assert.True(t, gotInput.StartTime.Equal(want.StartTime))
	require.NotNil(t, gotInput.EndTime)
	assert.True(t, gotInput.EndTime.Equal(*want.EndTime))
}

func TestCrewClient_ReplaceUnavailabilityWeek(t *testing.T) {
	client := startBufconn(t, &fakeCrewService{
		replaceWeekFn: func(ctx context.Context, u domain.WeeklyUnavailability) (domain.WeeklyUnavailability, error) {
			return u, u.Validate()
		},
	})

	u := domain.NewWeeklyUnavailability(testMemberID)
	u.Days[time.Thursday] = []domain.TimeRange{domain.MustTimeRange("06:00", "07:30")}
	got, err := client.ReplaceUnavailabilityWeek(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, u.Days, got.Days)

	u.Days[time.Friday] = []domain.TimeRange{domain.MustTimeRange("06:00", "08:00"), domain.MustTimeRange("07:00", "09:00")}
	_, err = client.ReplaceUnavailabilityWeek(context.Background(), u)
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCrewClient_CoxingAvailability(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	signups := domain.NewCoxingAvailability(day)
	client := startBufconn(t, &fakeCrewService{
		getCoxingFn: func(ctx context.Context, from, to time.Time) ([]domain.CoxingAvailability, error) {
			if !from.Equal(day) || !to.Equal(day.AddDate(0, 0, 6)) {
				return nil, domain.NewValidationError("unexpected range")
			}
			return []domain.CoxingAvailability{signups}, nil
		},
		updateCoxingFn: func(ctx context.Context, memberID uuid.UUID, date time.Time, slot domain.CoxingSlot, action domain.CoxingAction) (domain.CoxingAvailability, error) {
			if action == domain.CoxingAdd {
				signups.Slots[slot] = append(signups.Slots[slot], memberID)
			}
			return signups, nil
		},
	})
	ctx := context.Background()

	updated, err := client.UpdateCoxingAvailability(ctx, testMemberID, day, domain.SlotEarlyAM, domain.CoxingAdd)
	require.NoError(t, err)
	assert.True(t, updated.Has(domain.SlotEarlyAM, testMemberID))
	assert.True(t, updated.Date.Equal(day))

	days, err := client.GetCoxingAvailability(ctx, day, day.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, []uuid.UUID{testMemberID}, days[0].Members(domain.SlotEarlyAM))
	assert.Empty(t, days[0].Members(domain.SlotLatePM))
}
