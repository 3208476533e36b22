package grpc

import (
	"time"

	"github.com/google/uuid"

	"crewboard/internal/domain"
)

type Seat struct {
	Role     string `json:"role"`
	Label    string `json:"label,omitempty"`
	MemberID string `json:"member_id,omitempty"`
	Status   string `json:"status"`
}

type Outing struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	Division  string     `json:"division,omitempty"`
	Shell     string     `json:"shell,omitempty"`
	Status    string     `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Published bool       `json:"published"`
	Seats     []Seat     `json:"seats"`
}

type Member struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role,omitempty"`
	CoxExperience string `json:"cox_experience,omitempty"`
}

type Day struct {
	Weekday string   `json:"weekday"`
	Ranges  []string `json:"ranges"`
}

type Unavailability struct {
	MemberID string `json:"member_id"`
	Days     []Day  `json:"days"`
}

type CoxingDay struct {
	Date  string              `json:"date"`
	Slots map[string][]string `json:"slots"`
}

type Empty struct{}

type CreateOutingRequest struct {
	Name      string     `json:"name"`
	Type      string     `json:"type,omitempty"`
	Division  string     `json:"division,omitempty"`
	Shell     string     `json:"shell,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Published bool       `json:"published"`
}

type GetOutingRequest struct {
	OutingID string `json:"outing_id"`
}

type GetOutingResponse struct {
	Outing Outing `json:"outing"`
}

// ListOutingsRequest selects by window, or by the club week containing
// WeekOf when it is set.
type ListOutingsRequest struct {
	WindowStart *time.Time `json:"window_start,omitempty"`
	WindowEnd   *time.Time `json:"window_end,omitempty"`
	WeekOf      *time.Time `json:"week_of,omitempty"`
}

type ListOutingsResponse struct {
	Outings []Outing `json:"outings"`
}

// WriteSeatAssignmentRequest clears the seat when MemberID is empty.
type WriteSeatAssignmentRequest struct {
	OutingID string `json:"outing_id"`
	Seat     string `json:"seat"`
	MemberID string `json:"member_id,omitempty"`
}

type WriteSeatStatusRequest struct {
	OutingID string `json:"outing_id"`
	Seat     string `json:"seat"`
	Status   string `json:"status"`
}

type SetOutingStatusRequest struct {
	OutingID string `json:"outing_id"`
	Status   string `json:"status"`
}

type CancelForFlagRequest struct {
	Flag string `json:"flag"`
}

type CancelForFlagResponse struct {
	OutingIDs []string `json:"outing_ids"`
}

type GetUnavailabilityRequest struct {
	MemberID string `json:"member_id"`
}

type UnavailabilityResponse struct {
	Unavailability Unavailability `json:"unavailability"`
}

type ReplaceUnavailabilityDayRequest struct {
	MemberID string   `json:"member_id"`
	Weekday  string   `json:"weekday"`
	Ranges   []string `json:"ranges"`
}

type ReplaceUnavailabilityWeekRequest struct {
	Unavailability Unavailability `json:"unavailability"`
}

type AddMemberRequest struct {
	Name          string `json:"name"`
	Role          string `json:"role,omitempty"`
	CoxExperience string `json:"cox_experience,omitempty"`
}

type MemberResponse struct {
	Member Member `json:"member"`
}

type ListMembersResponse struct {
	Members []Member `json:"members"`
}

type EligibleMembersRequest struct {
	OutingID string `json:"outing_id"`
	Seat     string `json:"seat"`
	Flag     string `json:"flag,omitempty"`
}

type EligibleMembersResponse struct {
	Available   []Member `json:"available"`
	Unavailable []Member `json:"unavailable"`
}

// GetCoxingAvailabilityRequest takes inclusive YYYY-MM-DD bounds.
type GetCoxingAvailabilityRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type GetCoxingAvailabilityResponse struct {
	Availability []CoxingDay `json:"availability"`
}

// UpdateCoxingAvailabilityRequest adds or removes one member from one slot.
// Action is "add" or "remove".
type UpdateCoxingAvailabilityRequest struct {
	MemberID string `json:"member_id"`
	Date     string `json:"date"`
	Slot     string `json:"slot"`
	Action   string `json:"action"`
}

type UpdateCoxingAvailabilityResponse struct {
	Availability CoxingDay `json:"availability"`
}

func toWireOuting(o domain.Outing) Outing {
	seats := make([]Seat, 0, domain.SeatCount)
	for _, a := range o.Seats {
		s := Seat{Role: a.Role.String(), Label: a.Role.Label(), Status: string(a.Status)}
		if a.Member.Valid {
			s.MemberID = a.Member.UUID.String()
		}
		seats = append(seats, s)
	}
	return Outing{
		ID:        o.ID.String(),
		Name:      o.Name,
		Type:      string(o.Type),
		Division:  o.Division,
		Shell:     o.Shell,
		Status:    string(o.Status),
		StartTime: o.StartTime,
		EndTime:   o.EndTime,
		Published: o.Published,
		Seats:     seats,
	}
}

func fromWireOuting(w Outing) (domain.Outing, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return domain.Outing{}, err
	}
	o := domain.Outing{
		ID:        id,
		Name:      w.Name,
		Type:      domain.OutingType(w.Type),
		Division:  w.Division,
		Shell:     w.Shell,
		Status:    domain.SeatStatus(w.Status),
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
		Published: w.Published,
		Seats:     domain.NewSeatRegistry(),
	}
	rows := make([]domain.OutingSeat, 0, len(w.Seats))
	for _, s := range w.Seats {
		member, err := parseOptionalUUID(s.MemberID)
		if err != nil {
			return domain.Outing{}, err
		}
		rows = append(rows, domain.OutingSeat{OutingID: id, SeatRole: s.Role, MemberID: member, Status: domain.SeatStatus(s.Status)})
	}
	o.Seats = domain.SeatRegistryFromRows(rows)
	return o, nil
}

func toWireMember(m domain.Member) Member {
	return Member{
		ID:            m.ID.String(),
		Name:          m.Name,
		Role:          m.Role,
		CoxExperience: string(m.CoxExperience),
	}
}

func toWireMembers(ms []domain.Member) []Member {
	out := make([]Member, 0, len(ms))
	for _, m := range ms {
		out = append(out, toWireMember(m))
	}
	return out
}

func fromWireMember(w Member) (domain.Member, error) {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return domain.Member{}, err
	}
	return domain.Member{ID: id, Name: w.Name, Role: w.Role, CoxExperience: domain.CoxExperience(w.CoxExperience)}, nil
}

func fromWireMembers(ws []Member) ([]domain.Member, error) {
	out := make([]domain.Member, 0, len(ws))
	for _, w := range ws {
		m, err := fromWireMember(w)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func toWireUnavailability(u domain.WeeklyUnavailability) Unavailability {
	days := make([]Day, 0, len(domain.WeekdaysFromMonday))
	for _, wd := range domain.WeekdaysFromMonday {
		ranges := u.RangesFor(wd)
		d := Day{Weekday: wd.String(), Ranges: make([]string, 0, len(ranges))}
		for _, r := range ranges {
			d.Ranges = append(d.Ranges, r.String())
		}
		days = append(days, d)
	}
	return Unavailability{MemberID: u.MemberID.String(), Days: days}
}

func fromWireUnavailability(w Unavailability) (domain.WeeklyUnavailability, error) {
	id, err := uuid.Parse(w.MemberID)
	if err != nil {
		return domain.WeeklyUnavailability{}, err
	}
	u := domain.NewWeeklyUnavailability(id)
	for _, d := range w.Days {
		wd, err := domain.ParseWeekday(d.Weekday)
		if err != nil {
			return domain.WeeklyUnavailability{}, err
		}
		ranges, err := parseRanges(d.Ranges)
		if err != nil {
			return domain.WeeklyUnavailability{}, err
		}
		if len(ranges) > 0 {
			u.Days[wd] = ranges
		}
	}
	return u, nil
}

func toWireCoxingDay(a domain.CoxingAvailability) CoxingDay {
	d := CoxingDay{Date: a.Date.Format(time.DateOnly), Slots: make(map[string][]string, len(domain.CoxingSlots))}
	for _, slot := range domain.CoxingSlots {
		ids := a.Members(slot)
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, id.String())
		}
		d.Slots[string(slot)] = out
	}
	return d
}

func fromWireCoxingDay(w CoxingDay) (domain.CoxingAvailability, error) {
	date, err := domain.ParseCivilDate(w.Date)
	if err != nil {
		return domain.CoxingAvailability{}, err
	}
	a := domain.NewCoxingAvailability(date)
	for key, ids := range w.Slots {
		slot, err := domain.ParseCoxingSlot(key)
		if err != nil {
			return domain.CoxingAvailability{}, err
		}
		for _, raw := range ids {
			id, err := uuid.Parse(raw)
			if err != nil {
				return domain.CoxingAvailability{}, err
			}
			a.Slots[slot] = append(a.Slots[slot], id)
		}
	}
	return a, nil
}

func parseRanges(in []string) ([]domain.TimeRange, error) {
	out := make([]domain.TimeRange, 0, len(in))
	for _, s := range in {
		r, err := domain.ParseTimeRange(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseOptionalUUID(s string) (uuid.NullUUID, error) {
	if s == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.NullUUID{}, err
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}
