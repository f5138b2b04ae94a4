package ratehistory

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Append(ctx context.Context, entry *RateEntry) error
	// ReplaceAll drops every entry for the pin and inserts the given one.
	// Used by the retroactive "apply to all entries" edit.
	ReplaceAll(ctx context.Context, pin string, entry *RateEntry) error
	ListByPin(ctx context.Context, pin string) ([]RateEntry, error)
	RateAt(ctx context.Context, pin string, at time.Time) (decimal.Decimal, error)
	Rename(ctx context.Context, oldPin, newPin string) error
	DeleteByPin(ctx context.Context, pin string) error
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

func (r *repository) Append(ctx context.Context, entry *RateEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ReplaceAll(ctx context.Context, pin string, entry *RateEntry) error {
	if err := r.db.WithContext(ctx).
		Where("employee_pin = ?", pin).
		Delete(&RateEntry{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByPin(ctx context.Context, pin string) ([]RateEntry, error) {
	var entries []RateEntry
	err := r.db.WithContext(ctx).
		Where("employee_pin = ?", pin).
		Order("effective_from ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) RateAt(ctx context.Context, pin string, at time.Time) (decimal.Decimal, error) {
	entries, err := r.ListByPin(ctx, pin)
	if err != nil {
		return decimal.Zero, err
	}
	return Resolve(entries, at), nil
}

func (r *repository) Rename(ctx context.Context, oldPin, newPin string) error {
	return r.db.WithContext(ctx).
		Model(&RateEntry{}).
		Where("employee_pin = ?", oldPin).
		Update("employee_pin", newPin).Error
}

func (r *repository) DeleteByPin(ctx context.Context, pin string) error {
	return r.db.WithContext(ctx).
		Where("employee_pin = ?", pin).
		Delete(&RateEntry{}).Error
}
