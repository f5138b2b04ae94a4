package employee

import "github.com/shopspring/decimal"

type CreateEmployeeRequest struct {
	Pin        string          `json:"pin" binding:"required,numeric"`
	Name       string          `json:"name" binding:"required"`
	Role       string          `json:"role"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
}

type UpdateEmployeeRequest struct {
	Pin        string          `json:"pin" binding:"required,numeric"`
	Name       string          `json:"name" binding:"required"`
	Role       string          `json:"role"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	// ApplyRateToAllEntries rewrites the rate history so the new rate
	// applies to every past session, not just future work.
	ApplyRateToAllEntries bool `json:"apply_rate_to_all_entries"`
}

type EmployeeResponse struct {
	Pin        string          `json:"pin"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
}

// EmployeeOption is the slim shape the kiosk and dashboard dropdowns use.
type EmployeeOption struct {
	Pin  string `json:"pin"`
	Name string `json:"name"`
}
