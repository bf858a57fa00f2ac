package model

import "time"

// ChecklistState holds the manual checklist overrides.
type ChecklistState struct {
	Overrides map[FactorID]bool `json:"overrides"`
	LastTier  BiasTier          `json:"last_tier,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}
