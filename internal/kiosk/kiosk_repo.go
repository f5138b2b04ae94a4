package kiosk

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, k *Kiosk) error
	FindByKioskID(ctx context.Context, kioskID string) (*Kiosk, error)
	FindAll(ctx context.Context) ([]Kiosk, error)
	Update(ctx context.Context, k *Kiosk) error
	Delete(ctx context.Context, kioskID string) error
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

func (r *repository) Create(ctx context.Context, k *Kiosk) error {
	return r.db.WithContext(ctx).Create(k).Error
}

func (r *repository) FindByKioskID(ctx context.Context, kioskID string) (*Kiosk, error) {
	var k Kiosk
	err := r.db.WithContext(ctx).First(&k, "kiosk_id = ?", kioskID).Error
	return &k, err
}

func (r *repository) FindAll(ctx context.Context) ([]Kiosk, error) {
	var rows []Kiosk
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, k *Kiosk) error {
	return r.db.WithContext(ctx).Save(k).Error
}

func (r *repository) Delete(ctx context.Context, kioskID string) error {
	return r.db.WithContext(ctx).Delete(&Kiosk{}, "kiosk_id = ?", kioskID).Error
}
