package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform represents a social platform a strategy or post targets
type Platform string

const (
	PlatformInstagram Platform = "Instagram"
	PlatformYouTube   Platform = "YouTube"
	PlatformTikTok    Platform = "TikTok"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformTwitter   Platform = "Twitter"
	PlatformFacebook  Platform = "Facebook"
)

// Valid returns true if the platform is one of the supported platforms
func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformYouTube, PlatformTikTok,
		PlatformLinkedIn, PlatformTwitter, PlatformFacebook:
		return true
	}
	return false
}

// Strategy represents the AI-generated marketing strategy for a client
type Strategy struct {
	ID             uuid.UUID         `json:"id" db:"id"`
	ClientID       uuid.UUID         `json:"client_id" db:"client_id"`
	Platforms      []Platform        `json:"platforms" db:"platforms"`
	ContentPillars []string          `json:"content_pillars" db:"content_pillars"`
	KPIs           []string          `json:"kpis" db:"kpis"`
	MonthlyThemes  map[string]string `json:"monthly_themes" db:"monthly_themes"` // month name -> theme
	CompanyOSURL   string            `json:"company_os_url,omitempty" db:"company_os_url"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Strategy model
func (Strategy) TableName() string {
	return "strategies"
}

// NewStrategy creates a new Strategy instance for a client
func NewStrategy(clientID uuid.UUID, companyOSURL string) *Strategy {
	now := time.Now()
	return &Strategy{
		ID:           uuid.New(),
		ClientID:     clientID,
		CompanyOSURL: companyOSURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
