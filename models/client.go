package models

import (
	"time"

	"github.com/google/uuid"
)

// Client represents an onboarded client company (a tenant of the planning workflow)
type Client struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	CompanyName string    `json:"company_name" db:"company_name"`
	Industry    string    `json:"industry" db:"industry"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new Client instance
func NewClient(name, companyName, industry string) *Client {
	now := time.Now()
	return &Client{
		ID:          uuid.New(),
		Name:        name,
		CompanyName: companyName,
		Industry:    industry,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
