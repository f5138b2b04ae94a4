package timeclock

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"shiftsync/internal/daterange"
	"shiftsync/internal/employee"
	"shiftsync/internal/events"
	"shiftsync/internal/messaging/kafka"
	"shiftsync/internal/ratehistory"
	"shiftsync/internal/session"
	"shiftsync/internal/shared/contextutil"
	timeclockerrors "shiftsync/internal/timeclock/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var msPerHour = decimal.NewFromInt(3_600_000)

// Earnings prices a span of worked milliseconds at an hourly rate.
func Earnings(durationMS int64, rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(durationMS)).Div(msPerHour).Round(2)
}

type Service interface {
	// Toggle clocks the PIN in if it has no open session, out otherwise.
	Toggle(ctx context.Context, pin string) (PunchResponse, error)
	ClockIn(ctx context.Context, pin string) (PunchResponse, error)
	ClockOut(ctx context.Context, pin string) (PunchResponse, error)
	ActiveSessions(ctx context.Context) ([]ActiveSessionResponse, error)
	Sessions(ctx context.Context, pin string, rng daterange.Range) ([]SessionResponse, error)
	EditSession(ctx context.Context, id string, req EditSessionRequest) (SessionResponse, error)
	DeleteSession(ctx context.Context, id string) error
	Totals(ctx context.Context, rng daterange.Range) ([]EmployeeTotals, error)
}

type service struct {
	db        *sql.DB
	employees employee.Repository
	sessions  session.Repository
	active    session.ActiveRepository
	rates     ratehistory.Repository
	outbox    kafka.OutboxRepository
	now       func() time.Time
	logger    *zap.Logger

	// pinLocks serializes punches per PIN so a double-tap on the kiosk
	// cannot race the active-session check.
	mu       sync.Mutex
	pinLocks map[string]*sync.Mutex
}

func NewService(
	db *sql.DB,
	employees employee.Repository,
	sessions session.Repository,
	active session.ActiveRepository,
	rates ratehistory.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("timeclock.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeclock.service")
	}
	return &service{
		db:        db,
		employees: employees,
		sessions:  sessions,
		active:    active,
		rates:     rates,
		outbox:    outbox,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    l,
		pinLocks:  make(map[string]*sync.Mutex),
	}
}

func (s *service) WithClock(now func() time.Time) *service {
	s.now = now
	return s
}

func (s *service) lockPin(pin string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.pinLocks[pin]
	if !ok {
		l = &sync.Mutex{}
		s.pinLocks[pin] = l
	}
	return l
}

func (s *service) Toggle(ctx context.Context, pin string) (PunchResponse, error) {
	l := s.lockPin(pin)
	l.Lock()
	defer l.Unlock()

	_, err := s.active.FindByPin(ctx, pin)
	switch {
	case err == nil:
		return s.clockOutLocked(ctx, pin)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.clockInLocked(ctx, pin)
	default:
		return PunchResponse{}, err
	}
}

func (s *service) ClockIn(ctx context.Context, pin string) (PunchResponse, error) {
	l := s.lockPin(pin)
	l.Lock()
	defer l.Unlock()
	return s.clockInLocked(ctx, pin)
}

func (s *service) ClockOut(ctx context.Context, pin string) (PunchResponse, error) {
	l := s.lockPin(pin)
	l.Lock()
	defer l.Unlock()
	return s.clockOutLocked(ctx, pin)
}

func (s *service) clockInLocked(ctx context.Context, pin string) (PunchResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	empl, err := s.employees.FindByPin(ctx, pin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PunchResponse{}, timeclockerrors.ErrUnknownPin
		}
		return PunchResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("clock in begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PunchResponse{}, err
	}
	defer tx.Rollback()

	qactive := s.active.WithTx(tx)
	if _, err := qactive.FindByPin(ctx, pin); err == nil {
		return PunchResponse{}, timeclockerrors.ErrAlreadyClockedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PunchResponse{}, err
	}

	now := s.now()
	if err := qactive.Create(ctx, &session.ActiveSession{
		ID:          uuid.New(),
		EmployeePin: pin,
		ClockIn:     now,
	}); err != nil {
		// The unique index on employee_pin catches the race the check
		// above cannot.
		if isDuplicateActiveSession(err) {
			return PunchResponse{}, timeclockerrors.ErrAlreadyClockedIn
		}
		s.logger.Error("clock in persist failed", zap.String("pin", pin), zap.Error(err))
		return PunchResponse{}, err
	}

	if err := s.queuePunchEvent(ctx, tx, events.PunchEvent{
		EventType:  events.PunchClockIn,
		RequestID:  rid,
		KioskID:    contextutil.GetKioskID(ctx),
		Pin:        pin,
		ClockIn:    now,
		OccurredAt: now,
	}); err != nil {
		return PunchResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("clock in commit failed", zap.String("pin", pin), zap.Error(err))
		return PunchResponse{}, err
	}

	s.logger.Info("clock in",
		zap.String("request_id", rid),
		zap.String("pin", pin),
		zap.Time("clock_in", now),
	)

	return PunchResponse{
		Pin:     pin,
		Name:    empl.Name,
		Action:  ActionClockedIn,
		ClockIn: now.Format(time.RFC3339),
	}, nil
}

// clockOutLocked persists the completed session before touching the
// active row. If the delete then fails, the worst case is a stale open
// session an admin can clear; the worked time is already durable.
func (s *service) clockOutLocked(ctx context.Context, pin string) (PunchResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	empl, err := s.employees.FindByPin(ctx, pin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PunchResponse{}, timeclockerrors.ErrUnknownPin
		}
		return PunchResponse{}, err
	}

	open, err := s.active.FindByPin(ctx, pin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PunchResponse{}, timeclockerrors.ErrNotClockedIn
		}
		return PunchResponse{}, err
	}

	now := s.now()
	row := &session.Session{
		ID:          uuid.New(),
		EmployeePin: pin,
		ClockIn:     open.ClockIn,
		ClockOut:    now,
		DurationMS:  now.Sub(open.ClockIn).Milliseconds(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("clock out begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PunchResponse{}, err
	}
	defer tx.Rollback()

	if err := s.sessions.WithTx(tx).Create(ctx, row); err != nil {
		s.logger.Error("clock out persist failed", zap.String("pin", pin), zap.Error(err))
		return PunchResponse{}, err
	}

	if err := s.queuePunchEvent(ctx, tx, events.PunchEvent{
		EventType:  events.PunchClockOut,
		RequestID:  rid,
		KioskID:    contextutil.GetKioskID(ctx),
		Pin:        pin,
		ClockIn:    row.ClockIn,
		ClockOut:   row.ClockOut,
		DurationMS: row.DurationMS,
		OccurredAt: now,
	}); err != nil {
		return PunchResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("clock out commit failed", zap.String("pin", pin), zap.Error(err))
		return PunchResponse{}, err
	}

	if err := s.active.DeleteByPin(ctx, pin); err != nil {
		// Session is saved. Leave the stale active row for cleanup
		// rather than failing the punch.
		s.logger.Error("clock out active row cleanup failed",
			zap.String("pin", pin),
			zap.Error(err),
		)
	}

	s.logger.Info("clock out",
		zap.String("request_id", rid),
		zap.String("pin", pin),
		zap.Int64("duration_ms", row.DurationMS),
	)

	return PunchResponse{
		Pin:      pin,
		Name:     empl.Name,
		Action:   ActionClockedOut,
		ClockIn:  row.ClockIn.Format(time.RFC3339),
		ClockOut: row.ClockOut.Format(time.RFC3339),
	}, nil
}

func (s *service) ActiveSessions(ctx context.Context) ([]ActiveSessionResponse, error) {
	rows, err := s.active.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	names, err := s.nameIndex(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	res := make([]ActiveSessionResponse, len(rows))
	for i, r := range rows {
		res[i] = ActiveSessionResponse{
			Pin:       r.EmployeePin,
			Name:      names[r.EmployeePin],
			ClockIn:   r.ClockIn.Format(time.RFC3339),
			ElapsedMS: now.Sub(r.ClockIn).Milliseconds(),
		}
	}
	return res, nil
}

func (s *service) Sessions(ctx context.Context, pin string, rng daterange.Range) ([]SessionResponse, error) {
	var (
		rows []session.Session
		err  error
	)
	if pin != "" {
		rows, err = s.sessions.FindRangeByPin(ctx, pin, rng.Start, rng.End)
	} else {
		rows, err = s.sessions.FindRange(ctx, rng.Start, rng.End)
	}
	if err != nil {
		return nil, err
	}

	names, err := s.nameIndex(ctx)
	if err != nil {
		return nil, err
	}

	// One history load per PIN; each session then resolves against the
	// in-memory entries at its own clock-in instant.
	histories := make(map[string][]ratehistory.RateEntry)
	res := make([]SessionResponse, len(rows))
	for i, r := range rows {
		entries, ok := histories[r.EmployeePin]
		if !ok {
			entries, err = s.rates.ListByPin(ctx, r.EmployeePin)
			if err != nil {
				return nil, err
			}
			histories[r.EmployeePin] = entries
		}
		rate := ratehistory.Resolve(entries, r.ClockIn)
		res[i] = SessionResponse{
			ID:         r.ID.String(),
			Pin:        r.EmployeePin,
			Name:       names[r.EmployeePin],
			ClockIn:    r.ClockIn.Format(time.RFC3339),
			ClockOut:   r.ClockOut.Format(time.RFC3339),
			DurationMS: r.DurationMS,
			HourlyRate: rate,
			Earnings:   Earnings(r.DurationMS, rate),
		}
	}
	return res, nil
}

func (s *service) EditSession(ctx context.Context, id string, req EditSessionRequest) (SessionResponse, error) {
	if !req.ClockOut.After(req.ClockIn) {
		return SessionResponse{}, timeclockerrors.ErrInvalidRange
	}

	row, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, timeclockerrors.ErrSessionNotFound
		}
		return SessionResponse{}, err
	}

	row.ClockIn = req.ClockIn.UTC()
	row.ClockOut = req.ClockOut.UTC()
	row.DurationMS = row.ClockOut.Sub(row.ClockIn).Milliseconds()

	if err := s.sessions.Update(ctx, row); err != nil {
		s.logger.Error("edit session persist failed", zap.String("session_id", id), zap.Error(err))
		return SessionResponse{}, err
	}

	s.logger.Info("session edited",
		zap.String("session_id", id),
		zap.String("pin", row.EmployeePin),
		zap.Int64("duration_ms", row.DurationMS),
	)

	// Rate re-resolves against the new clock-in, so moving a session
	// across a rate boundary reprices it.
	rate, err := s.rates.RateAt(ctx, row.EmployeePin, row.ClockIn)
	if err != nil {
		return SessionResponse{}, err
	}

	names, err := s.nameIndex(ctx)
	if err != nil {
		return SessionResponse{}, err
	}

	return SessionResponse{
		ID:         row.ID.String(),
		Pin:        row.EmployeePin,
		Name:       names[row.EmployeePin],
		ClockIn:    row.ClockIn.Format(time.RFC3339),
		ClockOut:   row.ClockOut.Format(time.RFC3339),
		DurationMS: row.DurationMS,
		HourlyRate: rate,
		Earnings:   Earnings(row.DurationMS, rate),
	}, nil
}

func (s *service) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.sessions.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return timeclockerrors.ErrSessionNotFound
		}
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}

func (s *service) Totals(ctx context.Context, rng daterange.Range) ([]EmployeeTotals, error) {
	employees, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.sessions.FindRange(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}

	actives, err := s.active.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	includeLive := rng.IsZero() || rng.Contains(now)

	type acc struct {
		durationMS int64
		earnings   decimal.Decimal
		active     bool
	}
	byPin := make(map[string]*acc, len(employees))
	order := make([]string, 0, len(employees))
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		byPin[e.Pin] = &acc{earnings: decimal.Zero}
		order = append(order, e.Pin)
		names[e.Pin] = e.Name
	}

	histories := make(map[string][]ratehistory.RateEntry)
	loadHistory := func(pin string) ([]ratehistory.RateEntry, error) {
		if entries, ok := histories[pin]; ok {
			return entries, nil
		}
		entries, err := s.rates.ListByPin(ctx, pin)
		if err != nil {
			return nil, err
		}
		histories[pin] = entries
		return entries, nil
	}

	for _, r := range rows {
		a, ok := byPin[r.EmployeePin]
		if !ok {
			// Session under a retired PIN. Not part of the directory,
			// so not part of the report.
			continue
		}
		entries, err := loadHistory(r.EmployeePin)
		if err != nil {
			return nil, err
		}
		rate := ratehistory.Resolve(entries, r.ClockIn)
		a.durationMS += r.DurationMS
		a.earnings = a.earnings.Add(Earnings(r.DurationMS, rate))
	}

	for _, open := range actives {
		a, ok := byPin[open.EmployeePin]
		if !ok {
			continue
		}
		a.active = true
		if !includeLive {
			continue
		}
		entries, err := loadHistory(open.EmployeePin)
		if err != nil {
			return nil, err
		}
		rate := ratehistory.Resolve(entries, open.ClockIn)
		elapsed := now.Sub(open.ClockIn).Milliseconds()
		a.durationMS += elapsed
		a.earnings = a.earnings.Add(Earnings(elapsed, rate))
	}

	res := make([]EmployeeTotals, len(order))
	for i, pin := range order {
		a := byPin[pin]
		res[i] = EmployeeTotals{
			Pin:        pin,
			Name:       names[pin],
			DurationMS: a.durationMS,
			Earnings:   a.earnings.Round(2),
			Active:     a.active,
		}
	}
	return res, nil
}

func (s *service) nameIndex(ctx context.Context) (map[string]string, error) {
	employees, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.Pin] = e.Name
	}
	return names, nil
}

func (s *service) queuePunchEvent(ctx context.Context, tx *sql.Tx, event events.PunchEvent) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal punch event failed", zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "punch",
		AggregateID:   event.Pin,
		EventType:     event.EventType,
		Topic:         events.PunchTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue punch event failed", zap.String("pin", event.Pin), zap.Error(err))
		return err
	}

	return nil
}
