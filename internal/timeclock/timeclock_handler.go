package timeclock

import (
	"net/http"
	"time"

	"shiftsync/internal/daterange"
	"shiftsync/internal/shared/apperror"
	"shiftsync/internal/shared/response"
	timeclockerrors "shiftsync/internal/timeclock/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("timeclock.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeclock.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("timeclock request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// parseRange reads either ?range=<keyword> or ?start=YYYY-MM-DD&end=YYYY-MM-DD.
// Neither present means all time.
func parseRange(c *gin.Context) (daterange.Range, error) {
	if keyword := c.Query("range"); keyword != "" {
		rng, ok := daterange.Named(keyword, time.Now().UTC())
		if !ok {
			return daterange.Range{}, timeclockerrors.ErrUnknownRangeKeyword
		}
		return rng, nil
	}

	startStr, endStr := c.Query("start"), c.Query("end")
	if startStr == "" && endStr == "" {
		return daterange.Range{}, nil
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return daterange.Range{}, apperror.InvalidField("start")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return daterange.Range{}, apperror.InvalidField("end")
	}

	return daterange.Custom(start, end), nil
}

func (h *Handler) Punch(c *gin.Context) {
	var req PunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http punch validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", apperror.MapValidationError(err).Error())
		return
	}

	resp, err := h.service.Toggle(c.Request.Context(), req.Pin)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ClockIn(c *gin.Context) {
	var req PunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", apperror.MapValidationError(err).Error())
		return
	}

	resp, err := h.service.ClockIn(c.Request.Context(), req.Pin)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ClockOut(c *gin.Context) {
	var req PunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", apperror.MapValidationError(err).Error())
		return
	}

	resp, err := h.service.ClockOut(c.Request.Context(), req.Pin)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetActiveSessions(c *gin.Context) {
	resp, err := h.service.ActiveSessions(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetSessions(c *gin.Context) {
	rng, err := parseRange(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Sessions(c.Request.Context(), c.Query("pin"), rng)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) EditSession(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http edit session", zap.String("session_id", id))
	var req EditSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http edit session validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", apperror.MapValidationError(err).Error())
		return
	}

	resp, err := h.service.EditSession(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http delete session", zap.String("session_id", id))

	if err := h.service.DeleteSession(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) GetTotals(c *gin.Context) {
	rng, err := parseRange(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Totals(c.Request.Context(), rng)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
