package commerce

import "time"

// Config represents the configuration for the commerce backend client
type Config struct {
	// BaseURL is the commerce backend API base URL, including the version prefix
	BaseURL string

	// ServiceKey authenticates the storefront itself against the backend
	ServiceKey string

	// Timeout bounds each request round trip; zero means 30 seconds
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	return nil
}
