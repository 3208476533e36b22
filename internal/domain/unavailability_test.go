package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestReplaceDay_LimitsAndOverlap(t *testing.T) {
	memberID := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	tests := []struct {
		name    string
		ranges  []TimeRange
		wantErr string
	}{
		{
			name: "three non-overlapping ranges",
			ranges: []TimeRange{
				MustTimeRange("06:00", "07:00"),
				MustTimeRange("12:00", "13:00"),
				MustTimeRange("07:00", "08:00"),
			},
		},
		{
			name: "four ranges",
			ranges: []TimeRange{
				MustTimeRange("06:00", "07:00"),
				MustTimeRange("08:00", "09:00"),
				MustTimeRange("10:00", "11:00"),
				MustTimeRange("12:00", "13:00"),
			},
			wantErr: "Maximum 3 time ranges allowed per day",
		},
		{
			name: "overlapping ranges",
			ranges: []TimeRange{
				MustTimeRange("06:00", "08:00"),
				MustTimeRange("07:30", "09:00"),
			},
			wantErr: "Time ranges overlap: 06:00-08:00 and 07:30-09:00",
		},
		{
			name:    "malformed range",
			ranges:  []TimeRange{{Start: LocalTime(600), End: LocalTime(540)}},
			wantErr: "End time must be after start time: 10:00 - 09:00",
		},
		{
			name: "empty clears the day",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewWeeklyUnavailability(memberID)
			prior := []TimeRange{MustTimeRange("18:00", "19:00")}
			if err := u.ReplaceDay(time.Monday, prior); err != nil {
				t.Fatalf("seed ReplaceDay error: %v", err)
			}

			err := u.ReplaceDay(time.Monday, tt.ranges)
			if tt.wantErr != "" {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("err = %v, want *ValidationError", err)
				}
				if vErr.Error() != tt.wantErr {
					t.Fatalf("err = %q, want %q", vErr.Error(), tt.wantErr)
				}
				got := u.RangesFor(time.Monday)
				if len(got) != 1 || got[0] != prior[0] {
					t.Fatalf("day was partially updated: %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReplaceDay error: %v", err)
			}
			if got := u.RangesFor(time.Monday); len(got) != len(tt.ranges) {
				t.Fatalf("len(ranges) = %d, want %d", len(got), len(tt.ranges))
			}
		})
	}
}

func TestRangesFor_ReturnsCopy(t *testing.T) {
	u := NewWeeklyUnavailability(uuid.New())
	if err := u.ReplaceDay(time.Tuesday, []TimeRange{MustTimeRange("09:00", "10:00")}); err != nil {
		t.Fatalf("ReplaceDay error: %v", err)
	}
	got := u.RangesFor(time.Tuesday)
	got[0] = MustTimeRange("11:00", "12:00")

	if u.RangesFor(time.Tuesday)[0].Start != MustParseLocalTime("09:00") {
		t.Fatalf("RangesFor leaked internal slice")
	}
	if u.RangesFor(time.Wednesday) != nil {
		t.Fatalf("empty day should return nil")
	}
}

func TestWeeklyUnavailabilityValidate_ReportsEveryDay(t *testing.T) {
	u := NewWeeklyUnavailability(uuid.New())
	u.Days[time.Monday] = []TimeRange{MustTimeRange("06:00", "08:00"), MustTimeRange("07:00", "09:00")}
	u.Days[time.Sunday] = []TimeRange{{Start: 600, End: 600}}

	err := u.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "monday:") || !strings.Contains(msg, "sunday:") {
		t.Fatalf("error = %q, want both monday and sunday", msg)
	}
	if strings.Index(msg, "monday:") > strings.Index(msg, "sunday:") {
		t.Fatalf("days should be reported Monday first: %q", msg)
	}
}

func TestWeeklyUnavailabilityFromRows(t *testing.T) {
	memberID := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	rows := []UnavailabilityDay{
		{MemberID: memberID, Weekday: int16(time.Friday), Ranges: []TimeRange{MustTimeRange("17:00", "20:00")}},
		{MemberID: uuid.New(), Weekday: int16(time.Friday), Ranges: []TimeRange{MustTimeRange("06:00", "07:00")}},
		{MemberID: memberID, Weekday: 9},
	}

	u := WeeklyUnavailabilityFromRows(memberID, rows)
	if got := u.RangesFor(time.Friday); len(got) != 1 || got[0].String() != "17:00-20:00" {
		t.Fatalf("friday = %v", got)
	}
	if u.IsEmpty() {
		t.Fatalf("expected non-empty week")
	}
}

func TestDayOfWeek_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2026-01-04 is a Sunday in UTC; 20:00Z is already Monday in UTC+10.
	instant := time.Date(2026, 1, 4, 20, 0, 0, 0, time.UTC)

	if got := DayOfWeek(instant, time.UTC); got != time.Sunday {
		t.Fatalf("DayOfWeek UTC = %s, want Sunday", got)
	}
	if got := DayOfWeek(instant, loc); got != time.Monday {
		t.Fatalf("DayOfWeek local = %s, want Monday", got)
	}
}

func TestWeekStart(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{in: time.Date(2026, 1, 7, 15, 0, 0, 0, loc), want: time.Date(2026, 1, 5, 0, 0, 0, 0, loc)},
		{in: time.Date(2026, 1, 11, 23, 0, 0, 0, loc), want: time.Date(2026, 1, 5, 0, 0, 0, 0, loc)},
		{in: time.Date(2026, 1, 5, 0, 0, 0, 0, loc), want: time.Date(2026, 1, 5, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		if got := WeekStart(tt.in, loc); !got.Equal(tt.want) {
			t.Fatalf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{"Monday": time.Monday, "sun": time.Sunday, " SATURDAY ": time.Saturday} {
		got, err := ParseWeekday(in)
		if err != nil {
			t.Fatalf("ParseWeekday(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseWeekday(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseWeekday("funday"); err == nil {
		t.Fatalf("expected error")
	}
}
