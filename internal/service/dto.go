package service

import (
	"time"

	"urlshortener/internal/types"
)

type CreateRequest struct {
	OriginalURL string `json:"originalUrl"`
	CustomCode  string `json:"customCode,omitempty"`
}

type MappingResponse struct {
	OriginalURL string     `json:"originalUrl"`
	ShortCode   string     `json:"shortCode"`
	ShortURL    string     `json:"shortUrl"`
	ClickCount  int64      `json:"clickCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiredAt   *time.Time `json:"expiredAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func newMappingResponse(m *types.Mapping, baseURL string) MappingResponse {
	return MappingResponse{
		OriginalURL: m.OriginalURL,
		ShortCode:   m.ShortCode,
		ShortURL:    baseURL + "/" + m.ShortCode,
		ClickCount:  m.ClickCount,
		CreatedAt:   m.CreatedAt,
		ExpiredAt:   m.ExpiresAt,
	}
}
