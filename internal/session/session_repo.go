package session

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	// FindRange returns sessions whose clock-in falls in [start, end],
	// newest first. Zero start/end means unbounded.
	FindRange(ctx context.Context, start, end time.Time) ([]Session, error)
	FindRangeByPin(ctx context.Context, pin string, start, end time.Time) ([]Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Rename(ctx context.Context, oldPin, newPin string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) FindRange(ctx context.Context, start, end time.Time) ([]Session, error) {
	var rows []Session
	q := r.db.WithContext(ctx)
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("clock_in >= ? AND clock_in <= ?", start, end)
	}
	err := q.Order("clock_in DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindRangeByPin(ctx context.Context, pin string, start, end time.Time) ([]Session, error) {
	var rows []Session
	q := r.db.WithContext(ctx).Where("employee_pin = ?", pin)
	if !start.IsZero() && !end.IsZero() {
		q = q.Where("clock_in >= ? AND clock_in <= ?", start, end)
	}
	err := q.Order("clock_in DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Session{}, "id = ?", id).Error
}

func (r *repository) Rename(ctx context.Context, oldPin, newPin string) error {
	return r.db.WithContext(ctx).
		Model(&Session{}).
		Where("employee_pin = ?", oldPin).
		Update("employee_pin", newPin).Error
}
