package models

import "time"

// DownloadLog is an audit entry recording that a report was exported.
type DownloadLog struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	FromDate  string    `gorm:"size:40" json:"from_date"`
	ToDate    string    `gorm:"size:40" json:"to_date"`
	Count     int       `json:"count"`
	User      string    `gorm:"size:100" json:"user"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}
