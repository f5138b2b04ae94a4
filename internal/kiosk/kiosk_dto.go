package kiosk

type RegisterKioskRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
}

type UpdateKioskRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Active   *bool  `json:"active"`
}

type KioskResponse struct {
	KioskID  string `json:"kiosk_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Active   bool   `json:"active"`
}
