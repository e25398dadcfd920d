package service

import (
	"fmt"
	"net/url"

	"urlshortener/internal/types"
)

const maxURLLength = 2048

func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("original url is required: %w", types.ErrInvalidInput)
	}

	if len(rawURL) > maxURLLength {
		return fmt.Errorf("original url exceeds %d characters: %w", maxURLLength, types.ErrInvalidInput)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url format: %w", types.ErrInvalidInput)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https: %w", types.ErrInvalidInput)
	}

	if parsed.Host == "" {
		return fmt.Errorf("url must have a host: %w", types.ErrInvalidInput)
	}

	return nil
}
