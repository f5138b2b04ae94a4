package timeclock

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"shiftsync/internal/daterange"
	"shiftsync/internal/employee"
	"shiftsync/internal/ratehistory"
	"shiftsync/internal/session"
	timeclockerrors "shiftsync/internal/timeclock/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// In-memory stores standing in for the gorm repositories.

type memEmployees struct {
	rows []employee.Employee
}

func (m *memEmployees) WithTx(tx *sql.Tx) employee.Repository { return m }
func (m *memEmployees) Create(ctx context.Context, e *employee.Employee) error {
	m.rows = append(m.rows, *e)
	return nil
}
func (m *memEmployees) FindByPin(ctx context.Context, pin string) (*employee.Employee, error) {
	for i := range m.rows {
		if m.rows[i].Pin == pin {
			return &m.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *memEmployees) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return m.rows, nil
}
func (m *memEmployees) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (m *memEmployees) Delete(ctx context.Context, pin string) error           { return nil }

type memSessions struct {
	rows []session.Session
}

func (m *memSessions) WithTx(tx *sql.Tx) session.Repository { return m }
func (m *memSessions) Create(ctx context.Context, s *session.Session) error {
	m.rows = append(m.rows, *s)
	return nil
}
func (m *memSessions) FindByID(ctx context.Context, id string) (*session.Session, error) {
	for i := range m.rows {
		if m.rows[i].ID.String() == id {
			return &m.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *memSessions) FindRange(ctx context.Context, start, end time.Time) ([]session.Session, error) {
	if start.IsZero() && end.IsZero() {
		return m.rows, nil
	}
	var out []session.Session
	for _, r := range m.rows {
		if !r.ClockIn.Before(start) && !r.ClockIn.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}
func (m *memSessions) FindRangeByPin(ctx context.Context, pin string, start, end time.Time) ([]session.Session, error) {
	all, _ := m.FindRange(ctx, start, end)
	var out []session.Session
	for _, r := range all {
		if r.EmployeePin == pin {
			out = append(out, r)
		}
	}
	return out, nil
}
func (m *memSessions) Update(ctx context.Context, s *session.Session) error {
	for i := range m.rows {
		if m.rows[i].ID == s.ID {
			m.rows[i] = *s
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
func (m *memSessions) Delete(ctx context.Context, id string) error {
	for i := range m.rows {
		if m.rows[i].ID.String() == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}
func (m *memSessions) Rename(ctx context.Context, oldPin, newPin string) error { return nil }

type memActive struct {
	rows      []session.ActiveSession
	deleteErr error
}

func (m *memActive) WithTx(tx *sql.Tx) session.ActiveRepository { return m }
func (m *memActive) FindByPin(ctx context.Context, pin string) (*session.ActiveSession, error) {
	for i := range m.rows {
		if m.rows[i].EmployeePin == pin {
			return &m.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *memActive) FindAll(ctx context.Context) ([]session.ActiveSession, error) {
	return m.rows, nil
}
func (m *memActive) Create(ctx context.Context, s *session.ActiveSession) error {
	m.rows = append(m.rows, *s)
	return nil
}
func (m *memActive) DeleteByPin(ctx context.Context, pin string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i := range m.rows {
		if m.rows[i].EmployeePin == pin {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}
func (m *memActive) Rename(ctx context.Context, oldPin, newPin string) error { return nil }

type memRates struct {
	entries map[string][]ratehistory.RateEntry
}

func (m *memRates) WithTx(tx *sql.Tx) ratehistory.Repository { return m }
func (m *memRates) Append(ctx context.Context, e *ratehistory.RateEntry) error {
	m.entries[e.EmployeePin] = append(m.entries[e.EmployeePin], *e)
	return nil
}
func (m *memRates) ReplaceAll(ctx context.Context, pin string, e *ratehistory.RateEntry) error {
	m.entries[pin] = []ratehistory.RateEntry{*e}
	return nil
}
func (m *memRates) ListByPin(ctx context.Context, pin string) ([]ratehistory.RateEntry, error) {
	return m.entries[pin], nil
}
func (m *memRates) RateAt(ctx context.Context, pin string, at time.Time) (decimal.Decimal, error) {
	return ratehistory.Resolve(m.entries[pin], at), nil
}
func (m *memRates) Rename(ctx context.Context, oldPin, newPin string) error { return nil }
func (m *memRates) DeleteByPin(ctx context.Context, pin string) error       { return nil }

type fixture struct {
	svc       *service
	mock      sqlmock.Sqlmock
	db        *sql.DB
	employees *memEmployees
	sessions  *memSessions
	active    *memActive
	rates     *memRates
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:        db,
		mock:      mock,
		employees: &memEmployees{},
		sessions:  &memSessions{},
		active:    &memActive{},
		rates:     &memRates{entries: make(map[string][]ratehistory.RateEntry)},
		now:       time.Date(2026, time.August, 19, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(db, f.employees, f.sessions, f.active, f.rates, nil).(*service).
		WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) addEmployee(pin, name string, rate int64, from time.Time) {
	f.employees.rows = append(f.employees.rows, employee.Employee{
		ID:   uuid.New(),
		Pin:  pin,
		Name: name,
	})
	f.rates.entries[pin] = append(f.rates.entries[pin], ratehistory.RateEntry{
		EmployeePin:   pin,
		Rate:          decimal.NewFromInt(rate),
		EffectiveFrom: from,
	})
}

func TestService_PunchRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEmployee("1234", "Alice", 10, time.Unix(0, 0).UTC())

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	in, err := f.svc.Toggle(ctx, "1234")
	assert.NoError(t, err)
	assert.Equal(t, ActionClockedIn, in.Action)
	assert.Equal(t, "Alice", in.Name)
	assert.Len(t, f.active.rows, 1)

	f.now = f.now.Add(2 * time.Hour)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	out, err := f.svc.Toggle(ctx, "1234")
	assert.NoError(t, err)
	assert.Equal(t, ActionClockedOut, out.Action)

	assert.Empty(t, f.active.rows)
	assert.Len(t, f.sessions.rows, 1)
	assert.Equal(t, int64(2*60*60*1000), f.sessions.rows[0].DurationMS)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_ClockIn_UnknownPin(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ClockIn(context.Background(), "9999")
	assert.ErrorIs(t, err, timeclockerrors.ErrUnknownPin)
}

func TestService_ClockIn_AlreadyClockedIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEmployee("1234", "Alice", 10, time.Unix(0, 0).UTC())

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.svc.ClockIn(ctx, "1234")
	assert.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.svc.ClockIn(ctx, "1234")
	assert.ErrorIs(t, err, timeclockerrors.ErrAlreadyClockedIn)

	assert.Len(t, f.active.rows, 1)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_ClockOut_NotClockedIn(t *testing.T) {
	f := newFixture(t)
	f.addEmployee("1234", "Alice", 10, time.Unix(0, 0).UTC())

	_, err := f.svc.ClockOut(context.Background(), "1234")
	assert.ErrorIs(t, err, timeclockerrors.ErrNotClockedIn)
	assert.Empty(t, f.sessions.rows)
}

func TestService_ClockOut_SessionSurvivesActiveCleanupFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEmployee("1234", "Alice", 10, time.Unix(0, 0).UTC())

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.svc.ClockIn(ctx, "1234")
	assert.NoError(t, err)

	f.active.deleteErr = errors.New("connection reset")
	f.now = f.now.Add(time.Hour)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	out, err := f.svc.ClockOut(ctx, "1234")

	// The punch succeeds and the session is durable; only the stale
	// active row is left behind.
	assert.NoError(t, err)
	assert.Equal(t, ActionClockedOut, out.Action)
	assert.Len(t, f.sessions.rows, 1)
	assert.Len(t, f.active.rows, 1)
}

func TestEarnings(t *testing.T) {
	rate := decimal.RequireFromString("12.50")
	got := Earnings(2*60*60*1000, rate)
	assert.True(t, decimal.RequireFromString("25.00").Equal(got), got.String())

	assert.True(t, Earnings(0, rate).IsZero())
	assert.True(t, Earnings(123456, decimal.Zero).IsZero())
}

func TestService_Sessions_RatePinnedToClockIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEmployee("1234", "Alice", 10, time.Unix(0, 0).UTC())

	// An 8 hour shift worked before the raise.
	clockIn := time.Date(2026, time.August, 10, 8, 0, 0, 0, time.UTC)
	f.sessions.rows = append(f.sessions.rows, session.Session{
		ID:          uuid.New(),
		EmployeePin: "1234",
		ClockIn:     clockIn,
		ClockOut:    clockIn.Add(8 * time.Hour),
		DurationMS:  8 * 60 * 60 * 1000,
	})

	// Raise effective after the shift.
	f.rates.entries["1234"] = append(f.rates.entries["1234"], ratehistory.RateEntry{
		EmployeePin:   "1234",
		Rate:          decimal.NewFromInt(15),
		EffectiveFrom: time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
	})

	rows, err := f.svc.Sessions(ctx, "1234", daterange.Range{})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.True(t, decimal.NewFromInt(10).Equal(rows[0].HourlyRate))
	assert.True(t, decimal.RequireFromString("80.00").Equal(rows[0].Earnings), rows[0].Earnings.String())
}

func TestService_Totals_ZeroFillsDirectory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEmployee("1111", "Alice", 10, time.Unix(0, 0).UTC())
	f.addEmployee("2222", "Bob", 20, time.Unix(0, 0).UTC())

	clockIn := f.now.Add(-3 * time.Hour)
	f.sessions.rows = append(f.sessions.rows, session.Session{
		ID:          uuid.New(),
		EmployeePin: "1111",
		ClockIn:     clockIn,
		ClockOut:    clockIn.Add(2 * time.Hour),
		DurationMS:  2 * 60 * 60 * 1000,
	})

	totals, err := f.svc.Totals(ctx, daterange.Range{})
	assert.NoError(t, err)
	assert.Len(t, totals, 2)

	byPin := map[string]EmployeeTotals{}
	for _, row := range totals {
		byPin[row.Pin] = row
	}
	assert.Equal(t, int64(2*60*60*1000), byPin["1111"].DurationMS)
	assert.True(t, decimal.RequireFromString("20.00").Equal(byPin["1111"].Earnings))
	assert.Equal(t, int64(0), byPin["2222"].DurationMS)
	assert.True(t, byPin["2222"].Earnings.IsZero())
	assert.False(t, byPin["2222"].Active)
}

func TestService_Totals_LiveElapsedOnlyWhenRangeCoversNow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEmployee("1111", "Alice", 10, time.Unix(0, 0).UTC())

	f.active.rows = append(f.active.rows, session.ActiveSession{
		ID:          uuid.New(),
		EmployeePin: "1111",
		ClockIn:     f.now.Add(-30 * time.Minute),
	})

	current, ok := daterange.Named(daterange.Today, f.now)
	assert.True(t, ok)
	totals, err := f.svc.Totals(ctx, current)
	assert.NoError(t, err)
	assert.Equal(t, int64(30*60*1000), totals[0].DurationMS)
	assert.True(t, decimal.RequireFromString("5.00").Equal(totals[0].Earnings), totals[0].Earnings.String())
	assert.True(t, totals[0].Active)

	past, ok := daterange.Named(daterange.LastWeek, f.now)
	assert.True(t, ok)
	totals, err = f.svc.Totals(ctx, past)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), totals[0].DurationMS)
	assert.True(t, totals[0].Earnings.IsZero())
	// Still flagged as on the clock even though the range predates it.
	assert.True(t, totals[0].Active)
}

func TestService_EditSession_RecomputesDuration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEmployee("1234", "Alice", 10, time.Unix(0, 0).UTC())

	id := uuid.New()
	clockIn := time.Date(2026, time.August, 10, 8, 0, 0, 0, time.UTC)
	f.sessions.rows = append(f.sessions.rows, session.Session{
		ID:          id,
		EmployeePin: "1234",
		ClockIn:     clockIn,
		ClockOut:    clockIn.Add(time.Hour),
		DurationMS:  60 * 60 * 1000,
	})

	resp, err := f.svc.EditSession(ctx, id.String(), EditSessionRequest{
		ClockIn:  clockIn,
		ClockOut: clockIn.Add(4 * time.Hour),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(4*60*60*1000), resp.DurationMS)
	assert.True(t, decimal.RequireFromString("40.00").Equal(resp.Earnings))
}

func TestService_EditSession_RejectsInvertedTimes(t *testing.T) {
	f := newFixture(t)
	clockIn := time.Date(2026, time.August, 10, 8, 0, 0, 0, time.UTC)

	_, err := f.svc.EditSession(context.Background(), uuid.NewString(), EditSessionRequest{
		ClockIn:  clockIn,
		ClockOut: clockIn.Add(-time.Minute),
	})
	assert.ErrorIs(t, err, timeclockerrors.ErrInvalidRange)
}

func TestService_DeleteSession_NotFound(t *testing.T) {
	f := newFixture(t)
	err := f.svc.DeleteSession(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, timeclockerrors.ErrSessionNotFound)
}

func TestService_ActiveSessions_ReportsElapsed(t *testing.T) {
	f := newFixture(t)
	f.addEmployee("1234", "Alice", 10, time.Unix(0, 0).UTC())
	f.active.rows = append(f.active.rows, session.ActiveSession{
		ID:          uuid.New(),
		EmployeePin: "1234",
		ClockIn:     f.now.Add(-45 * time.Minute),
	})

	rows, err := f.svc.ActiveSessions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0].Name)
	assert.Equal(t, int64(45*60*1000), rows[0].ElapsedMS)
}
