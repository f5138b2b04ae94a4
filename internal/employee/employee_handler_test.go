package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shiftsync/internal/employee"
	employeeerrors "shiftsync/internal/employee/errors"
	"shiftsync/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeService struct {
	CreateFn      func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetAllFn      func(ctx context.Context) ([]employee.EmployeeResponse, error)
	GetOptionsFn  func(ctx context.Context) ([]employee.EmployeeOption, error)
	GetByPinFn    func(ctx context.Context, pin string) (employee.EmployeeResponse, error)
	UpdateFn      func(ctx context.Context, oldPin string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	DeleteFn      func(ctx context.Context, pin string) error
	CurrentRateFn func(ctx context.Context, pin string) (decimal.Decimal, error)
	RateAtFn      func(ctx context.Context, pin string, at time.Time) (decimal.Decimal, error)
}

func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeEmployeeService) GetAll(ctx context.Context) ([]employee.EmployeeResponse, error) {
	return f.GetAllFn(ctx)
}
func (f *fakeEmployeeService) GetOptions(ctx context.Context) ([]employee.EmployeeOption, error) {
	return f.GetOptionsFn(ctx)
}
func (f *fakeEmployeeService) GetByPin(ctx context.Context, pin string) (employee.EmployeeResponse, error) {
	return f.GetByPinFn(ctx, pin)
}
func (f *fakeEmployeeService) Update(ctx context.Context, oldPin string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.UpdateFn(ctx, oldPin, req)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, pin string) error {
	return f.DeleteFn(ctx, pin)
}
func (f *fakeEmployeeService) CurrentRate(ctx context.Context, pin string) (decimal.Decimal, error) {
	return f.CurrentRateFn(ctx, pin)
}
func (f *fakeEmployeeService) RateAt(ctx context.Context, pin string, at time.Time) (decimal.Decimal, error) {
	return f.RateAtFn(ctx, pin, at)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestEmployeeHandler_Create(t *testing.T) {
	apperror.Init()

	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "1234", req.Pin)
				assert.Equal(t, "Alice", req.Name)
				return employee.EmployeeResponse{
					Pin:        req.Pin,
					Name:       req.Name,
					HourlyRate: req.HourlyRate,
				}, nil
			},
		}

		h := employee.NewHandler(svc)
		r := setupRouter()
		r.POST("/employees", h.Create)

		body := `{"pin":"1234","name":"Alice","hourly_rate":"10.50"}`
		req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":true`)
		assert.Contains(t, w.Body.String(), `"1234"`)
	})

	t.Run("missing pin rejected", func(t *testing.T) {
		svc := &fakeEmployeeService{}
		h := employee.NewHandler(svc)
		r := setupRouter()
		r.POST("/employees", h.Create)

		req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"name":"Alice"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("duplicate pin maps to conflict", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrDuplicatePin
			},
		}
		h := employee.NewHandler(svc)
		r := setupRouter()
		r.POST("/employees", h.Create)

		body := `{"pin":"1234","name":"Alice"}`
		req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
	})
}

func TestEmployeeHandler_GetAll_FilterSortPaginate(t *testing.T) {
	svc := &fakeEmployeeService{
		GetAllFn: func(ctx context.Context) ([]employee.EmployeeResponse, error) {
			return []employee.EmployeeResponse{
				{Pin: "1111", Name: "Charlie"},
				{Pin: "2222", Name: "Alice"},
				{Pin: "3333", Name: "Bob"},
			}, nil
		},
	}
	h := employee.NewHandler(svc)
	r := setupRouter()
	r.GET("/employees", h.GetAll)

	req := httptest.NewRequest(http.MethodGet, "/employees?sort_by=name&sort_dir=asc&page=1&page_size=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Ok   bool `json:"ok"`
		Data []employee.EmployeeResponse
		Meta struct {
			Total int64 `json:"total"`
		}
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Ok)
	assert.Len(t, envelope.Data, 2)
	assert.Equal(t, "Alice", envelope.Data[0].Name)
	assert.Equal(t, "Bob", envelope.Data[1].Name)
	assert.Equal(t, int64(3), envelope.Meta.Total)
}

func TestEmployeeHandler_GetByPin_NotFound(t *testing.T) {
	svc := &fakeEmployeeService{
		GetByPinFn: func(ctx context.Context, pin string) (employee.EmployeeResponse, error) {
			return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		},
	}
	h := employee.NewHandler(svc)
	r := setupRouter()
	r.GET("/employees/:pin", h.GetByPin)

	req := httptest.NewRequest(http.MethodGet, "/employees/9999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestEmployeeHandler_Delete(t *testing.T) {
	var deleted string
	svc := &fakeEmployeeService{
		DeleteFn: func(ctx context.Context, pin string) error {
			deleted = pin
			return nil
		},
	}
	h := employee.NewHandler(svc)
	r := setupRouter()
	r.DELETE("/employees/:pin", h.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/employees/1234", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1234", deleted)
}
