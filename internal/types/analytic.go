package types

import "time"

// ClickEvent is a raw redirect observed by the HTTP layer.
type ClickEvent struct {
	ShortCode string    `json:"short_code" db:"short_code"`
	Owner     string    `json:"owner" db:"owner"`
	IP        string    `json:"ip" db:"ip"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	Referer   string    `json:"referer" db:"referer"`
	ClickedAt time.Time `json:"clicked_at" db:"clicked_at"`
}

// Analytic is a ClickEvent enriched with geo data, as stored in ClickHouse.
type Analytic struct {
	ShortCode string    `json:"short_code" db:"short_code"`
	Owner     string    `json:"owner" db:"owner"`
	Country   string    `json:"country" db:"country"`
	City      string    `json:"city" db:"city"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	Referer   string    `json:"referer" db:"referer"`
	ClickedAt time.Time `json:"clicked_at" db:"clicked_at"`
}
