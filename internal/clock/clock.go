package clock

import (
	"fmt"
	"time"
)

// resolves wall-clock questions in one fixed IANA timezone.
//
// all day-boundary logic in the credit system (anonymous quota windows,
// daily bonus eligibility) goes through this service so behavior never
// depends on the host timezone.
type Service struct {
	loc *time.Location
	now func() time.Time
}

// creates a clock service for the given IANA zone identifier.
// an invalid zone is a startup failure, not a per-request one.
func New(zone string) (*Service, error) {
	if zone == "" {
		return nil, fmt.Errorf("timezone must not be empty")
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", zone, err)
	}

	return &Service{loc: loc, now: time.Now}, nil
}

// creates a clock service with an injected time source, for tests
func NewWithNow(zone string, now func() time.Time) (*Service, error) {
	s, err := New(zone)
	if err != nil {
		return nil, err
	}

	s.now = now
	return s, nil
}

// returns the current time in the configured zone
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// returns midnight of the calendar day containing t, in the configured zone
func (s *Service) StartOfDay(t time.Time) time.Time {
	local := t.In(s.loc)
	year, month, day := local.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, s.loc)
}

// returns midnight of the current calendar day
func (s *Service) StartOfToday() time.Time {
	return s.StartOfDay(s.Now())
}

// returns midnight of the calendar day after the one containing t.
// this is the reset moment reported to denied callers.
func (s *Service) NextDayStart(t time.Time) time.Time {
	// AddDate handles DST transitions and month/year rollover
	return s.StartOfDay(t).AddDate(0, 0, 1)
}

// reports whether a and b fall on the same calendar day in the configured zone
func (s *Service) SameDay(a, b time.Time) bool {
	al := a.In(s.loc)
	bl := b.In(s.loc)

	ay, am, ad := al.Date()
	by, bm, bd := bl.Date()

	return ay == by && am == bm && ad == bd
}

// reports whether the current moment is on a later calendar day than t
func (s *Service) DayHasPassed(t time.Time) bool {
	return !s.SameDay(t, s.Now()) && s.Now().After(t)
}

// returns the configured location
func (s *Service) Location() *time.Location {
	return s.loc
}
