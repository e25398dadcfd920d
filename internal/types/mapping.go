package types

import "time"

// Mapping binds a short code to the URL it redirects to.
type Mapping struct {
	ID          string     `json:"id" db:"id"`
	OriginalURL string     `json:"original_url" db:"original_url"`
	ShortCode   string     `json:"short_code" db:"short_code"`
	ClickCount  int64      `json:"click_count" db:"click_count"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	Owner       string     `json:"owner" db:"owner"`
}

// Clone returns a deep copy so callers can mutate the result freely.
func (m *Mapping) Clone() *Mapping {
	if m == nil {
		return nil
	}
	c := *m
	if m.ExpiresAt != nil {
		exp := *m.ExpiresAt
		c.ExpiresAt = &exp
	}
	return &c
}

// ClickLog is the per-day click counter of a mapping.
type ClickLog struct {
	MappingID string `json:"mapping_id" db:"mapping_id"`
	Date      Date   `json:"date" db:"day"`
	Count     int64  `json:"count" db:"count"`
}

// ClickStat is one row of the stats report.
type ClickStat struct {
	ShortCode  string `json:"shortCode"`
	ClickCount int64  `json:"clickCount"`
	Date       Date   `json:"date"`
}

type Account struct {
	Username  string    `json:"username" db:"username"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
