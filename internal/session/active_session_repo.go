package session

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type ActiveRepository interface {
	WithTx(tx *sql.Tx) ActiveRepository
	FindByPin(ctx context.Context, pin string) (*ActiveSession, error)
	FindAll(ctx context.Context) ([]ActiveSession, error)
	Create(ctx context.Context, s *ActiveSession) error
	DeleteByPin(ctx context.Context, pin string) error
	Rename(ctx context.Context, oldPin, newPin string) error
}

type activeRepository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewActiveRepository(db *gorm.DB) ActiveRepository {
	return &activeRepository{db: db}
}

func (r *activeRepository) WithTx(tx *sql.Tx) ActiveRepository {
	return &activeRepository{db: r.db, tx: tx}
}

func (r *activeRepository) FindByPin(ctx context.Context, pin string) (*ActiveSession, error) {
	var s ActiveSession
	err := r.db.WithContext(ctx).
		First(&s, "employee_pin = ?", pin).Error
	return &s, err
}

func (r *activeRepository) FindAll(ctx context.Context) ([]ActiveSession, error) {
	var rows []ActiveSession
	err := r.db.WithContext(ctx).
		Order("clock_in ASC").
		Find(&rows).Error
	return rows, err
}

func (r *activeRepository) Create(ctx context.Context, s *ActiveSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *activeRepository) DeleteByPin(ctx context.Context, pin string) error {
	return r.db.WithContext(ctx).
		Delete(&ActiveSession{}, "employee_pin = ?", pin).Error
}

func (r *activeRepository) Rename(ctx context.Context, oldPin, newPin string) error {
	return r.db.WithContext(ctx).
		Model(&ActiveSession{}).
		Where("employee_pin = ?", oldPin).
		Update("employee_pin", newPin).Error
}
