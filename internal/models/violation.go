package models

import "time"

// Defaults applied to every new record.
const (
	DefaultRuleViolation = "3(1)(b) (ii, v)"
	StatusNotTakenDown   = "Not Taken Down"
	StatusTakenDown      = "Taken Down"
)

// ViolationRecord is a reported social-media link stored by the backend.
type ViolationRecord struct {
	ID uint `gorm:"primaryKey" json:"-"`

	// URL is unique: the same link cannot be reported twice
	URL string `gorm:"uniqueIndex;not null" json:"url"`

	Platform      string `gorm:"size:20;index" json:"platform"`
	Comments      string `gorm:"type:text" json:"comments"`
	RuleViolation string `gorm:"size:100" json:"rule_violation"`
	ActionStatus  string `gorm:"size:50" json:"action_status"`

	// Timestamp is indexed for range queries
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}
