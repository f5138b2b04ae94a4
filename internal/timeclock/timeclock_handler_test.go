package timeclock_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shiftsync/internal/daterange"
	"shiftsync/internal/shared/apperror"
	"shiftsync/internal/timeclock"
	timeclockerrors "shiftsync/internal/timeclock/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeTimeclockService struct {
	ToggleFn         func(ctx context.Context, pin string) (timeclock.PunchResponse, error)
	ClockInFn        func(ctx context.Context, pin string) (timeclock.PunchResponse, error)
	ClockOutFn       func(ctx context.Context, pin string) (timeclock.PunchResponse, error)
	ActiveSessionsFn func(ctx context.Context) ([]timeclock.ActiveSessionResponse, error)
	SessionsFn       func(ctx context.Context, pin string, rng daterange.Range) ([]timeclock.SessionResponse, error)
	EditSessionFn    func(ctx context.Context, id string, req timeclock.EditSessionRequest) (timeclock.SessionResponse, error)
	DeleteSessionFn  func(ctx context.Context, id string) error
	TotalsFn         func(ctx context.Context, rng daterange.Range) ([]timeclock.EmployeeTotals, error)
}

func (f *fakeTimeclockService) Toggle(ctx context.Context, pin string) (timeclock.PunchResponse, error) {
	return f.ToggleFn(ctx, pin)
}
func (f *fakeTimeclockService) ClockIn(ctx context.Context, pin string) (timeclock.PunchResponse, error) {
	return f.ClockInFn(ctx, pin)
}
func (f *fakeTimeclockService) ClockOut(ctx context.Context, pin string) (timeclock.PunchResponse, error) {
	return f.ClockOutFn(ctx, pin)
}
func (f *fakeTimeclockService) ActiveSessions(ctx context.Context) ([]timeclock.ActiveSessionResponse, error) {
	return f.ActiveSessionsFn(ctx)
}
func (f *fakeTimeclockService) Sessions(ctx context.Context, pin string, rng daterange.Range) ([]timeclock.SessionResponse, error) {
	return f.SessionsFn(ctx, pin, rng)
}
func (f *fakeTimeclockService) EditSession(ctx context.Context, id string, req timeclock.EditSessionRequest) (timeclock.SessionResponse, error) {
	return f.EditSessionFn(ctx, id, req)
}
func (f *fakeTimeclockService) DeleteSession(ctx context.Context, id string) error {
	return f.DeleteSessionFn(ctx, id)
}
func (f *fakeTimeclockService) Totals(ctx context.Context, rng daterange.Range) ([]timeclock.EmployeeTotals, error) {
	return f.TotalsFn(ctx, rng)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestTimeclockHandler_Punch(t *testing.T) {
	apperror.Init()

	t.Run("toggles", func(t *testing.T) {
		svc := &fakeTimeclockService{
			ToggleFn: func(ctx context.Context, pin string) (timeclock.PunchResponse, error) {
				assert.Equal(t, "1234", pin)
				return timeclock.PunchResponse{Pin: pin, Name: "Alice", Action: timeclock.ActionClockedIn}, nil
			},
		}
		h := timeclock.NewHandler(svc)
		r := setupRouter()
		r.POST("/punch", h.Punch)

		req := httptest.NewRequest(http.MethodPost, "/punch", strings.NewReader(`{"pin":"1234"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), timeclock.ActionClockedIn)
	})

	t.Run("unknown pin", func(t *testing.T) {
		svc := &fakeTimeclockService{
			ToggleFn: func(ctx context.Context, pin string) (timeclock.PunchResponse, error) {
				return timeclock.PunchResponse{}, timeclockerrors.ErrUnknownPin
			},
		}
		h := timeclock.NewHandler(svc)
		r := setupRouter()
		r.POST("/punch", h.Punch)

		req := httptest.NewRequest(http.MethodPost, "/punch", strings.NewReader(`{"pin":"9999"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric pin rejected before the service", func(t *testing.T) {
		svc := &fakeTimeclockService{}
		h := timeclock.NewHandler(svc)
		r := setupRouter()
		r.POST("/punch", h.Punch)

		req := httptest.NewRequest(http.MethodPost, "/punch", strings.NewReader(`{"pin":"abcd"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTimeclockHandler_GetSessions_RangeParsing(t *testing.T) {
	t.Run("named range", func(t *testing.T) {
		var got daterange.Range
		svc := &fakeTimeclockService{
			SessionsFn: func(ctx context.Context, pin string, rng daterange.Range) ([]timeclock.SessionResponse, error) {
				got = rng
				return nil, nil
			},
		}
		h := timeclock.NewHandler(svc)
		r := setupRouter()
		r.GET("/sessions", h.GetSessions)

		req := httptest.NewRequest(http.MethodGet, "/sessions?range=thisWeek", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, got.IsZero())
	})

	t.Run("unknown keyword", func(t *testing.T) {
		svc := &fakeTimeclockService{}
		h := timeclock.NewHandler(svc)
		r := setupRouter()
		r.GET("/sessions", h.GetSessions)

		req := httptest.NewRequest(http.MethodGet, "/sessions?range=fortnight", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("explicit dates", func(t *testing.T) {
		var got daterange.Range
		svc := &fakeTimeclockService{
			SessionsFn: func(ctx context.Context, pin string, rng daterange.Range) ([]timeclock.SessionResponse, error) {
				got = rng
				return nil, nil
			},
		}
		h := timeclock.NewHandler(svc)
		r := setupRouter()
		r.GET("/sessions", h.GetSessions)

		req := httptest.NewRequest(http.MethodGet, "/sessions?start=2026-08-01&end=2026-08-15", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, got.Start.Day())
		assert.Equal(t, 15, got.End.Day())
	})

	t.Run("no params means all time", func(t *testing.T) {
		var got daterange.Range
		svc := &fakeTimeclockService{
			SessionsFn: func(ctx context.Context, pin string, rng daterange.Range) ([]timeclock.SessionResponse, error) {
				got = rng
				return nil, nil
			},
		}
		h := timeclock.NewHandler(svc)
		r := setupRouter()
		r.GET("/sessions", h.GetSessions)

		req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, got.IsZero())
	})
}

func TestTimeclockHandler_GetTotals(t *testing.T) {
	svc := &fakeTimeclockService{
		TotalsFn: func(ctx context.Context, rng daterange.Range) ([]timeclock.EmployeeTotals, error) {
			return []timeclock.EmployeeTotals{
				{Pin: "1234", Name: "Alice", DurationMS: 3_600_000, Active: true},
			}, nil
		},
	}
	h := timeclock.NewHandler(svc)
	r := setupRouter()
	r.GET("/totals", h.GetTotals)

	req := httptest.NewRequest(http.MethodGet, "/totals?range=today", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Ok   bool
		Data []timeclock.EmployeeTotals
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Ok)
	assert.Len(t, envelope.Data, 1)
	assert.True(t, envelope.Data[0].Active)
}

func TestTimeclockHandler_EditSession_InvalidRange(t *testing.T) {
	svc := &fakeTimeclockService{
		EditSessionFn: func(ctx context.Context, id string, req timeclock.EditSessionRequest) (timeclock.SessionResponse, error) {
			return timeclock.SessionResponse{}, timeclockerrors.ErrInvalidRange
		},
	}
	h := timeclock.NewHandler(svc)
	r := setupRouter()
	r.PUT("/sessions/:id", h.EditSession)

	body := `{"clock_in":"2026-08-10T10:00:00Z","clock_out":"2026-08-10T08:00:00Z"}`
	req := httptest.NewRequest(http.MethodPut, "/sessions/abc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
}
