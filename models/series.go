package models

import (
	"time"

	"github.com/google/uuid"
)

// Series represents a recurring content theme belonging to a strategy
type Series struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	StrategyID  uuid.UUID         `json:"strategy_id" db:"strategy_id"`
	Name        string            `json:"name" db:"name"`
	Description string            `json:"description" db:"description"`
	Goal        string            `json:"goal" db:"goal"`
	Cadence     string            `json:"cadence" db:"cadence"` // e.g. "2x per month"
	Platforms   []Platform        `json:"platforms" db:"platforms"`
	Tone        string            `json:"tone" db:"tone"`
	Examples    map[string]string `json:"examples" db:"examples"` // example concept name -> description
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Series model
func (Series) TableName() string {
	return "series"
}

// NewSeries creates a new Series instance under a strategy
func NewSeries(strategyID uuid.UUID, name string) *Series {
	now := time.Now()
	return &Series{
		ID:         uuid.New(),
		StrategyID: strategyID,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
