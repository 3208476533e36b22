package seatsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"crewboard/internal/domain"
)

const (
	DefaultQuiescenceWindow = 1500 * time.Millisecond
	DefaultBatchConcurrency = 4
)

// RemoteWriter is the storage collaborator. Each call is one independent
// last-writer-wins write; none of them are atomic with each other.
type RemoteWriter interface {
	WriteSeatAssignment(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, member uuid.NullUUID) error
	WriteSeatStatus(ctx context.Context, outingID uuid.UUID, role domain.SeatRole, status domain.SeatStatus) error
	WriteOutingStatus(ctx context.Context, outingID uuid.UUID, status domain.SeatStatus) error
}

// Result describes the local state after one mutation was applied.
type Result struct {
	Mutation     Mutation
	Seat         domain.SeatAssignment
	OutingStatus domain.SeatStatus
	NoOp         bool
	Warnings     []Warning
}

// Controller owns the local copy of one outing. Every change goes through
// Apply or ApplyBatch: the local copy is updated first, then the remote
// writes are issued and failures are rolled back.
type Controller struct {
	outingID uuid.UUID
	remote   RemoteWriter
	log      *slog.Logger
	loc      *time.Location

	window     time.Duration
	batchLimit int

	mu       sync.Mutex
	outing   domain.Outing
	inflight map[string]struct{}
	// pending holds keys written recently; background refreshes must not
	// overwrite them until they expire.
	pending *cache.Cache
}

type Option func(*Controller)

// WithQuiescenceWindow sets how long a written seat is shielded from
// background refreshes. Non-positive values keep the default.
func WithQuiescenceWindow(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.window = d
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithLocation sets the club time zone used by IsMemberEligible.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithBatchConcurrency caps the seats ApplyBatch writes at once.
func WithBatchConcurrency(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.batchLimit = n
		}
	}
}

func NewController(outing domain.Outing, remote RemoteWriter, opts ...Option) *Controller {
	c := &Controller{
		outingID:   outing.ID,
		remote:     remote,
		log:        slog.Default(),
		loc:        time.UTC,
		window:     DefaultQuiescenceWindow,
		batchLimit: DefaultBatchConcurrency,
		outing:     outing.Clone(),
		inflight:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pending = cache.New(c.window, 2*c.window)
	c.log = c.log.With(
		slog.String("component", "seatsync"),
		slog.String("outing_id", outing.ID.String()),
	)
	return c
}

// Snapshot returns a copy of the local outing.
func (c *Controller) Snapshot() domain.Outing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outing.Clone()
}

// AvailableSeats is safe to call at any frequency; it has no side effects.
func (c *Controller) AvailableSeats() []domain.SeatRole {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outing.Seats.AvailableSeats()
}

// IsMemberEligible checks u against the local outing's time window. A nil u
// means the member declared nothing.
func (c *Controller) IsMemberEligible(u *domain.WeeklyUnavailability) bool {
	return domain.IsMemberEligible(u, c.Snapshot(), c.loc)
}

// Pending reports whether seat has a write in flight or inside its
// quiescence window.
func (c *Controller) Pending(seat domain.SeatRole) bool {
	_, ok := c.pending.Get(seatKey(seat))
	return ok
}

// Apply applies m locally and then writes it remotely. It blocks until the
// remote writes finish. A returned *RemoteWriteError means the local change
// was rolled back; validation and precondition errors are returned before
// anything changes.
func (c *Controller) Apply(ctx context.Context, m Mutation) (Result, error) {
	c.mu.Lock()
	p, err := c.prepareLocked(m)
	if err != nil {
		c.mu.Unlock()
		return Result{}, err
	}
	if p.noOp() {
		res := c.resultLocked(p)
		res.NoOp = true
		c.mu.Unlock()
		return res, nil
	}
	c.applyLocked(p)
	c.mu.Unlock()

	return c.commit(ctx, p)
}

// ApplyBatch applies mutations targeting distinct seats. All are checked
// before any is applied; if one fails its precondition nothing changes.
// Each seat's writes run concurrently with the others. The returned error
// joins every *RemoteWriteError; results are indexed like ms.
func (c *Controller) ApplyBatch(ctx context.Context, ms []Mutation) ([]Result, error) {
	seen := make(map[string]struct{}, len(ms))
	for _, m := range ms {
		k := m.key()
		if _, dup := seen[k]; dup {
			return nil, domain.NewValidationError(fmt.Sprintf("batch targets the same field twice: %s", m))
		}
		seen[k] = struct{}{}
	}

	c.mu.Lock()
	plans := make([]plan, len(ms))
	for i, m := range ms {
		p, err := c.prepareLocked(m)
		if err != nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("%s: %w", m, err)
		}
		plans[i] = p
	}

	results := make([]Result, len(ms))
	for i, p := range plans {
		if p.noOp() {
			results[i] = c.resultLocked(p)
			results[i].NoOp = true
			continue
		}
		c.applyLocked(p)
	}
	c.mu.Unlock()

	errs := make([]error, len(ms))
	var g errgroup.Group
	g.SetLimit(c.batchLimit)
	for i, p := range plans {
		if p.noOp() {
			continue
		}
		i, p := i, p
		g.Go(func() error {
			results[i], errs[i] = c.commit(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

// NormalizeAll resets every empty seat that still carries a rower status.
func (c *Controller) NormalizeAll(ctx context.Context) ([]Result, error) {
	var ms []Mutation
	for _, role := range c.Snapshot().Seats.InconsistentSeats() {
		ms = append(ms, NormalizeSeat(role))
	}
	if len(ms) == 0 {
		return nil, nil
	}
	return c.ApplyBatch(ctx, ms)
}

// Refresh merges a background read of the outing. Seats with a write in
// flight or inside the quiescence window keep their local value; their roles
// are returned.
func (c *Controller) Refresh(fresh domain.Outing) ([]domain.SeatRole, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fresh.ID != c.outingID {
		return nil, domain.NewValidationError("refresh is for a different outing")
	}

	var skipped []domain.SeatRole
	for _, a := range fresh.Seats {
		if c.isPendingLocked(seatKey(a.Role)) {
			skipped = append(skipped, a.Role)
			continue
		}
		c.outing.Seats.Restore(a)
	}

	status := c.outing.Status
	seats := c.outing.Seats
	c.outing = fresh.Clone()
	c.outing.Seats = seats
	if c.isPendingLocked(outingStatusKey) {
		c.outing.Status = status
	}

	if len(skipped) > 0 {
		c.log.Debug("refresh kept pending seats", slog.Int("skipped", len(skipped)))
	}
	return skipped, nil
}

func (c *Controller) isPendingLocked(key string) bool {
	if _, ok := c.inflight[key]; ok {
		return true
	}
	_, ok := c.pending.Get(key)
	return ok
}

func (c *Controller) prepareLocked(m Mutation) (plan, error) {
	p, err := planMutation(c.outing, m)
	if err != nil {
		return plan{}, err
	}
	if _, busy := c.inflight[m.key()]; busy && !p.noOp() {
		return plan{}, domain.NewPreconditionError(fmt.Sprintf("a write is already in flight: %s", m))
	}
	return p, nil
}

func (c *Controller) applyLocked(p plan) {
	if p.mutation.kind == kindOutingStatus {
		c.outing.Status = p.outing.After
	} else {
		c.outing.Seats.Apply(p.seat)
	}
	key := p.mutation.key()
	c.inflight[key] = struct{}{}
	c.pending.Set(key, struct{}{}, cache.NoExpiration)
}

func (c *Controller) resultLocked(p plan) Result {
	res := Result{Mutation: p.mutation, OutingStatus: c.outing.Status}
	if seat, ok := p.mutation.Seat(); ok {
		res.Seat, _ = c.outing.Seats.Get(seat)
	}
	return res
}

// commit issues the remote writes for an already applied plan and
// reconciles the local copy with their outcome.
func (c *Controller) commit(ctx context.Context, p plan) (Result, error) {
	if p.mutation.kind == kindOutingStatus {
		return c.commitOutingStatus(ctx, p)
	}

	t := p.seat
	log := c.log.With(slog.String("seat", t.Role.String()))

	var warnings []Warning
	if len(t.OtherSeats) > 0 {
		labels := make([]string, 0, len(t.OtherSeats))
		for _, r := range t.OtherSeats {
			labels = append(labels, r.Label())
		}
		warnings = append(warnings, Warning{
			Kind:    WarningSoftConstraint,
			Seat:    t.Role,
			Message: fmt.Sprintf("member also holds %v on this outing", labels),
		})
	}

	if err := c.write(ctx, t.Primary); err != nil {
		c.mu.Lock()
		c.outing.Seats.Restore(t.Before)
		c.finishLocked(p, false)
		res := c.resultLocked(p)
		c.mu.Unlock()

		log.Warn("remote write failed; rolled back", slog.Any("err", err), slog.String("field", t.Primary.Field.String()))
		return res, &RemoteWriteError{Op: t.Primary.Field, Seat: t.Role, Err: err}
	}

	if t.Derived != nil {
		if err := c.write(ctx, *t.Derived); err != nil {
			c.mu.Lock()
			c.outing.Seats.RestoreStatus(t.Role, t.Before.Status)
			c.mu.Unlock()

			log.Warn("derived status write failed; kept member change", slog.Any("err", err))
			warnings = append(warnings, Warning{
				Kind:    WarningDerivedWrite,
				Seat:    t.Role,
				Message: fmt.Sprintf("%s status could not be reset", t.Role.Label()),
				Err:     err,
			})
		}
	}

	c.mu.Lock()
	c.finishLocked(p, true)
	res := c.resultLocked(p)
	c.mu.Unlock()

	res.Warnings = warnings
	return res, nil
}

func (c *Controller) commitOutingStatus(ctx context.Context, p plan) (Result, error) {
	err := c.remote.WriteOutingStatus(ctx, c.outingID, p.outing.After)

	c.mu.Lock()
	if err != nil {
		c.outing.Status = p.outing.Before
	}
	c.finishLocked(p, err == nil)
	res := c.resultLocked(p)
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("remote outing status write failed; rolled back", slog.Any("err", err))
		return res, &RemoteWriteError{Op: domain.FieldOutingStatus, Err: err}
	}
	return res, nil
}

// finishLocked clears the in-flight mark. Successful writes stay pending
// for the quiescence window; rolled back ones are released at once.
func (c *Controller) finishLocked(p plan, ok bool) {
	key := p.mutation.key()
	delete(c.inflight, key)
	if ok {
		c.pending.Set(key, struct{}{}, c.window)
		return
	}
	c.pending.Delete(key)
}

func (c *Controller) write(ctx context.Context, w domain.FieldWrite) error {
	switch w.Field {
	case domain.FieldMember:
		return c.remote.WriteSeatAssignment(ctx, c.outingID, w.Role, w.Member)
	case domain.FieldStatus:
		return c.remote.WriteSeatStatus(ctx, c.outingID, w.Role, w.Status)
	default:
		return fmt.Errorf("unsupported write field %s", w.Field)
	}
}
