package kiosk

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"math/big"
	"time"

	kioskerrors "shiftsync/internal/kiosk/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// No 0/O or 1/I, the code gets read off a screen and typed.
const kioskIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const kioskIDLength = 6
const kioskIDAttempts = 5

type Service interface {
	Register(ctx context.Context, req RegisterKioskRequest) (KioskResponse, error)
	GetAll(ctx context.Context) ([]KioskResponse, error)
	GetByKioskID(ctx context.Context, kioskID string) (KioskResponse, error)
	Update(ctx context.Context, kioskID string, req UpdateKioskRequest) (KioskResponse, error)
	Delete(ctx context.Context, kioskID string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("kiosk.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kiosk.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func generateKioskID() (string, error) {
	buf := make([]byte, kioskIDLength)
	max := big.NewInt(int64(len(kioskIDAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = kioskIDAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func (s *service) Register(ctx context.Context, req RegisterKioskRequest) (KioskResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return KioskResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	var kioskID string
	for attempt := 0; attempt < kioskIDAttempts; attempt++ {
		candidate, err := generateKioskID()
		if err != nil {
			return KioskResponse{}, err
		}
		_, err = qtx.FindByKioskID(ctx, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			kioskID = candidate
			break
		}
		if err != nil {
			return KioskResponse{}, err
		}
	}
	if kioskID == "" {
		s.logger.Error("kiosk id allocation exhausted", zap.Int("attempts", kioskIDAttempts))
		return KioskResponse{}, kioskerrors.ErrKioskIDExhausted
	}

	row := &Kiosk{
		ID:        uuid.New(),
		KioskID:   kioskID,
		Name:      req.Name,
		Location:  req.Location,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("register kiosk persist failed", zap.Error(err))
		return KioskResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return KioskResponse{}, err
	}

	s.logger.Info("kiosk registered",
		zap.String("kiosk_id", kioskID),
		zap.String("name", req.Name),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context) ([]KioskResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]KioskResponse, len(rows))
	for i, k := range rows {
		res[i] = mapToResponse(k)
	}
	return res, nil
}

func (s *service) GetByKioskID(ctx context.Context, kioskID string) (KioskResponse, error) {
	row, err := s.repo.FindByKioskID(ctx, kioskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return KioskResponse{}, kioskerrors.ErrKioskNotFound
		}
		return KioskResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, kioskID string, req UpdateKioskRequest) (KioskResponse, error) {
	row, err := s.repo.FindByKioskID(ctx, kioskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return KioskResponse{}, kioskerrors.ErrKioskNotFound
		}
		return KioskResponse{}, err
	}

	row.Name = req.Name
	row.Location = req.Location
	if req.Active != nil {
		row.Active = *req.Active
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("update kiosk persist failed", zap.String("kiosk_id", kioskID), zap.Error(err))
		return KioskResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, kioskID string) error {
	if _, err := s.repo.FindByKioskID(ctx, kioskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kioskerrors.ErrKioskNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, kioskID); err != nil {
		return err
	}
	s.logger.Info("kiosk deleted", zap.String("kiosk_id", kioskID))
	return nil
}

func mapToResponse(k Kiosk) KioskResponse {
	return KioskResponse{
		KioskID:  k.KioskID,
		Name:     k.Name,
		Location: k.Location,
		Active:   k.Active,
	}
}
