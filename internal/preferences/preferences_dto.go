package preferences

type UpsertPreferencesRequest struct {
	TimeFormat string `json:"time_format" binding:"omitempty,oneof=12h 24h"`
	DateFormat string `json:"date_format"`
	Timezone   string `json:"timezone"`
	ColorMode  string `json:"color_mode" binding:"omitempty,oneof=light dark"`
}

type PreferencesResponse struct {
	UserID     string `json:"user_id"`
	TimeFormat string `json:"time_format"`
	DateFormat string `json:"date_format"`
	Timezone   string `json:"timezone"`
	ColorMode  string `json:"color_mode"`
}
