package discussion

import "fmt"

type Config struct {
	// Listing configuration
	PageSize int // Rows per listing page

	// Input limits
	MaxSubjectLength int
	MaxBodyLength    int

	// Contact tracking can be switched off by hosts that keep their own
	// social graph.
	EnableContacts bool
}

func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive")
	}
	if c.PageSize > 200 {
		return fmt.Errorf("page_size cannot exceed 200")
	}
	if c.MaxSubjectLength <= 0 {
		return fmt.Errorf("max_subject_length must be positive")
	}
	if c.MaxBodyLength <= 0 {
		return fmt.Errorf("max_body_length must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		PageSize:         20,
		MaxSubjectLength: 255,
		MaxBodyLength:    20000,
		EnableContacts:   true,
	}
}
