package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "shiftsync/internal/employee/errors"
	"shiftsync/internal/events"
	"shiftsync/internal/messaging/kafka"
	"shiftsync/internal/ratehistory"
	"shiftsync/internal/session"
	"shiftsync/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const OptionsCacheKey = "employees:options"

// epoch is the effective-from used by retroactive rate rewrites: a single
// entry dated at time zero prices every past and future session.
var epoch = time.Unix(0, 0).UTC()

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOption, error)
	GetByPin(ctx context.Context, pin string) (EmployeeResponse, error)
	Update(ctx context.Context, oldPin string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, pin string) error
	// CurrentRate reads the rate in effect right now from the history
	// table, bypassing the cached column on the employee row.
	CurrentRate(ctx context.Context, pin string) (decimal.Decimal, error)
	// RateAt resolves the rate in effect at a past instant.
	RateAt(ctx context.Context, pin string, at time.Time) (decimal.Decimal, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	rates    ratehistory.Repository
	sessions session.Repository
	active   session.ActiveRepository
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	sf       *singleflight.Group
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	rates ratehistory.Repository,
	sessions session.Repository,
	active session.ActiveRepository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		rates:    rates,
		sessions: sessions,
		active:   active,
		outbox:   outbox,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		now:      func() time.Time { return time.Now().UTC() },
		logger:   l,
	}
}

// WithClock replaces the time source; tests pin "now" with it.
func (s *service) WithClock(now func() time.Time) *service {
	s.now = now
	return s
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("pin", req.Pin),
	)

	if req.HourlyRate.IsNegative() {
		return EmployeeResponse{}, employeeerrors.ErrNegativeRate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qrates := s.rates.WithTx(tx)

	if _, err := qtx.FindByPin(ctx, req.Pin); err == nil {
		s.logger.Warn("create employee pin taken", zap.String("pin", req.Pin))
		return EmployeeResponse{}, employeeerrors.ErrDuplicatePin
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	now := s.now()
	empl := &Employee{
		ID:                uuid.New(),
		Pin:               req.Pin,
		Name:              req.Name,
		Role:              req.Role,
		CurrentHourlyRate: req.HourlyRate,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := qrates.Append(ctx, &ratehistory.RateEntry{
		ID:            uuid.New(),
		EmployeePin:   req.Pin,
		Rate:          req.HourlyRate,
		EffectiveFrom: now,
	}); err != nil {
		s.logger.Error("create employee initial rate entry failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := s.queueLifecycleEvent(ctx, tx, events.EmployeeAdded, req.Pin, ""); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("pin", req.Pin),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(rows), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, OptionsCacheKey).Result(); err == nil {
			var resp []EmployeeOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight so a burst of kiosks refreshing at once hits the
	// database only once.
	v, err, _ := s.sf.Do(OptionsCacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOption, len(rows))
		for i, e := range rows {
			resp[i] = EmployeeOption{Pin: e.Pin, Name: e.Name}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, OptionsCacheKey, jsonData, time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) GetByPin(ctx context.Context, pin string) (EmployeeResponse, error) {
	empl, err := s.repo.FindByPin(ctx, pin)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, oldPin string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.String("old_pin", oldPin),
		zap.String("pin", req.Pin),
		zap.Bool("apply_rate_to_all_entries", req.ApplyRateToAllEntries),
	)

	if req.HourlyRate.IsNegative() {
		return EmployeeResponse{}, employeeerrors.ErrNegativeRate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qrates := s.rates.WithTx(tx)

	var updated *Employee
	if oldPin == req.Pin {
		updated, err = s.updateSamePin(ctx, qtx, qrates, req)
	} else {
		updated, err = s.updateWithPinChange(ctx, tx, qtx, qrates, oldPin, req)
	}
	if err != nil {
		return EmployeeResponse{}, err
	}

	oldPinForEvent := ""
	if oldPin != req.Pin {
		oldPinForEvent = oldPin
	}
	if err := s.queueLifecycleEvent(ctx, tx, events.EmployeeUpdated, req.Pin, oldPinForEvent); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("update employee success",
		zap.String("request_id", rid),
		zap.String("pin", req.Pin),
	)

	return mapToResponse(*updated), nil
}

// updateSamePin keeps the identity and either appends a rate entry dated
// now (future work reprices, past sessions keep their rate) or, with
// ApplyRateToAllEntries, replaces the whole history with one epoch-dated
// entry so every past session reprices too.
func (s *service) updateSamePin(
	ctx context.Context,
	qtx Repository,
	qrates ratehistory.Repository,
	req UpdateEmployeeRequest,
) (*Employee, error) {
	empl, err := qtx.FindByPin(ctx, req.Pin)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if !empl.CurrentHourlyRate.Equal(req.HourlyRate) {
		entry := &ratehistory.RateEntry{
			ID:          uuid.New(),
			EmployeePin: req.Pin,
			Rate:        req.HourlyRate,
		}
		if req.ApplyRateToAllEntries {
			entry.EffectiveFrom = epoch
			err = qrates.ReplaceAll(ctx, req.Pin, entry)
		} else {
			entry.EffectiveFrom = s.now()
			err = qrates.Append(ctx, entry)
		}
		if err != nil {
			s.logger.Error("update employee rate history failed", zap.Error(err))
			return nil, err
		}
	}

	empl.Name = req.Name
	empl.Role = req.Role
	empl.CurrentHourlyRate = req.HourlyRate

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return empl, nil
}

// updateWithPinChange handles the two PIN-change policies. With
// ApplyRateToAllEntries the identity migrates: sessions and any open
// session are re-pointed at the new PIN and the rate history is rewritten
// under it. Without the flag this is an identity fork, not a rename: a
// brand-new employee is created under the new PIN and the old record is
// removed, leaving prior sessions attached to the retired PIN as a
// historical snapshot.
func (s *service) updateWithPinChange(
	ctx context.Context,
	tx *sql.Tx,
	qtx Repository,
	qrates ratehistory.Repository,
	oldPin string,
	req UpdateEmployeeRequest,
) (*Employee, error) {
	if _, err := qtx.FindByPin(ctx, req.Pin); err == nil {
		s.logger.Warn("update employee new pin taken", zap.String("pin", req.Pin))
		return nil, employeeerrors.ErrDuplicatePin
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapRepositoryError(err)
	}

	if req.ApplyRateToAllEntries {
		empl, err := qtx.FindByPin(ctx, oldPin)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		empl.Pin = req.Pin
		empl.Name = req.Name
		empl.Role = req.Role
		empl.CurrentHourlyRate = req.HourlyRate
		if err := qtx.Update(ctx, empl); err != nil {
			return nil, mapRepositoryError(err)
		}

		if err := s.sessions.WithTx(tx).Rename(ctx, oldPin, req.Pin); err != nil {
			s.logger.Error("update employee session rename failed", zap.Error(err))
			return nil, err
		}
		if err := s.active.WithTx(tx).Rename(ctx, oldPin, req.Pin); err != nil {
			s.logger.Error("update employee active session rename failed", zap.Error(err))
			return nil, err
		}

		if err := qrates.DeleteByPin(ctx, oldPin); err != nil {
			return nil, err
		}
		if err := qrates.Append(ctx, &ratehistory.RateEntry{
			ID:            uuid.New(),
			EmployeePin:   req.Pin,
			Rate:          req.HourlyRate,
			EffectiveFrom: epoch,
		}); err != nil {
			return nil, err
		}

		return empl, nil
	}

	empl := &Employee{
		ID:                uuid.New(),
		Pin:               req.Pin,
		Name:              req.Name,
		Role:              req.Role,
		CurrentHourlyRate: req.HourlyRate,
	}
	if err := qtx.Create(ctx, empl); err != nil {
		return nil, mapRepositoryError(err)
	}

	if err := qrates.Append(ctx, &ratehistory.RateEntry{
		ID:            uuid.New(),
		EmployeePin:   req.Pin,
		Rate:          req.HourlyRate,
		EffectiveFrom: s.now(),
	}); err != nil {
		return nil, err
	}

	if err := qtx.Delete(ctx, oldPin); err != nil {
		return nil, mapRepositoryError(err)
	}

	return empl, nil
}

func (s *service) Delete(ctx context.Context, pin string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested",
		zap.String("request_id", rid),
		zap.String("pin", pin),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByPin(ctx, pin); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already gone: deleting is a no-op, not a failure.
			s.logger.Debug("delete employee pin not found", zap.String("pin", pin))
			return nil
		}
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, pin); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	// Rate history goes with the employee. Sessions stay: they record
	// that work happened and remain queryable under the retired PIN.
	if err := s.rates.WithTx(tx).DeleteByPin(ctx, pin); err != nil {
		s.logger.Error("delete employee rate history failed", zap.Error(err))
		return err
	}

	if err := s.queueLifecycleEvent(ctx, tx, events.EmployeeDeleted, pin, ""); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("delete employee success", zap.String("pin", pin))
	return nil
}

func (s *service) CurrentRate(ctx context.Context, pin string) (decimal.Decimal, error) {
	return s.rates.RateAt(ctx, pin, s.now())
}

func (s *service) RateAt(ctx context.Context, pin string, at time.Time) (decimal.Decimal, error) {
	return s.rates.RateAt(ctx, pin, at)
}

func (s *service) queueLifecycleEvent(ctx context.Context, tx *sql.Tx, eventType, pin, oldPin string) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.EmployeeLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		Pin:        pin,
		OldPin:     oldPin,
		OccurredAt: s.now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal lifecycle event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "employee",
		AggregateID:   pin,
		EventType:     eventType,
		Topic:         events.EmployeeLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue lifecycle event failed",
			zap.String("pin", pin),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, OptionsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", OptionsCacheKey),
		)
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		Pin:        empl.Pin,
		Name:       empl.Name,
		Role:       empl.Role,
		HourlyRate: empl.CurrentHourlyRate,
	}
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		res[i] = mapToResponse(e)
	}
	return res
}
