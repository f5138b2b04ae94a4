package timeclock

import (
	"time"

	"github.com/shopspring/decimal"
)

type PunchRequest struct {
	Pin string `json:"pin" binding:"required,numeric"`
}

// PunchResponse reports which way the toggle went.
type PunchResponse struct {
	Pin      string `json:"pin"`
	Name     string `json:"name"`
	Action   string `json:"action"`
	ClockIn  string `json:"clock_in"`
	ClockOut string `json:"clock_out,omitempty"`
}

const (
	ActionClockedIn  = "clocked_in"
	ActionClockedOut = "clocked_out"
)

type SessionResponse struct {
	ID          string          `json:"id"`
	Pin         string          `json:"pin"`
	Name        string          `json:"name"`
	ClockIn     string          `json:"clock_in"`
	ClockOut    string          `json:"clock_out"`
	DurationMS  int64           `json:"duration_ms"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	Earnings    decimal.Decimal `json:"earnings"`
}

type ActiveSessionResponse struct {
	Pin       string `json:"pin"`
	Name      string `json:"name"`
	ClockIn   string `json:"clock_in"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

type EditSessionRequest struct {
	ClockIn  time.Time `json:"clock_in" binding:"required"`
	ClockOut time.Time `json:"clock_out" binding:"required"`
}

// EmployeeTotals is one row of the totals report. Every directory
// employee gets a row even with no time in range.
type EmployeeTotals struct {
	Pin        string          `json:"pin"`
	Name       string          `json:"name"`
	DurationMS int64           `json:"duration_ms"`
	Earnings   decimal.Decimal `json:"earnings"`
	Active     bool            `json:"active"`
}
