package preferences

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultTimeFormat = "12h"
	defaultDateFormat = "MM/DD/YYYY"
	defaultTimezone   = "UTC"
	defaultColorMode  = "light"
)

type Service interface {
	// Get returns stored preferences or the defaults when none exist.
	Get(ctx context.Context, userID string) (PreferencesResponse, error)
	Upsert(ctx context.Context, userID string, req UpsertPreferencesRequest) (PreferencesResponse, error)
	Reset(ctx context.Context, userID string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("preferences.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("preferences.service")
	}
	return &service{repo: repo, logger: l}
}

func defaults(userID string) PreferencesResponse {
	return PreferencesResponse{
		UserID:     userID,
		TimeFormat: defaultTimeFormat,
		DateFormat: defaultDateFormat,
		Timezone:   defaultTimezone,
		ColorMode:  defaultColorMode,
	}
}

func (s *service) Get(ctx context.Context, userID string) (PreferencesResponse, error) {
	row, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaults(userID), nil
		}
		return PreferencesResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Upsert(ctx context.Context, userID string, req UpsertPreferencesRequest) (PreferencesResponse, error) {
	row := &Preference{
		ID:         uuid.New(),
		UserID:     userID,
		TimeFormat: req.TimeFormat,
		DateFormat: req.DateFormat,
		Timezone:   req.Timezone,
		ColorMode:  req.ColorMode,
		UpdatedAt:  time.Now().UTC(),
	}
	if row.TimeFormat == "" {
		row.TimeFormat = defaultTimeFormat
	}
	if row.DateFormat == "" {
		row.DateFormat = defaultDateFormat
	}
	if row.Timezone == "" {
		row.Timezone = defaultTimezone
	} else if _, err := time.LoadLocation(row.Timezone); err != nil {
		s.logger.Warn("unknown timezone, keeping UTC",
			zap.String("user_id", userID),
			zap.String("timezone", row.Timezone),
		)
		row.Timezone = defaultTimezone
	}
	if row.ColorMode == "" {
		row.ColorMode = defaultColorMode
	}

	if err := s.repo.Upsert(ctx, row); err != nil {
		s.logger.Error("upsert preferences failed", zap.String("user_id", userID), zap.Error(err))
		return PreferencesResponse{}, err
	}

	return mapToResponse(*row), nil
}

func (s *service) Reset(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

func mapToResponse(p Preference) PreferencesResponse {
	return PreferencesResponse{
		UserID:     p.UserID,
		TimeFormat: p.TimeFormat,
		DateFormat: p.DateFormat,
		Timezone:   p.Timezone,
		ColorMode:  p.ColorMode,
	}
}
