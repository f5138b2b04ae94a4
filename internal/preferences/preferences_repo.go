package preferences

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByUserID(ctx context.Context, userID string) (*Preference, error)
	Upsert(ctx context.Context, p *Preference) error
	Delete(ctx context.Context, userID string) error
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

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Preference, error) {
	var p Preference
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	return &p, err
}

func (r *repository) Upsert(ctx context.Context, p *Preference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"time_format", "date_format", "timezone", "color_mode", "updated_at",
			}),
		}).
		Create(p).Error
}

func (r *repository) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Delete(&Preference{}, "user_id = ?", userID).Error
}
