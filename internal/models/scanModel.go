package models

import (
	"strings"
	"time"
)

// ScanRecord is one persisted interval result of a report.
type ScanRecord struct {
	ID         uint      `gorm:"primaryKey"`
	Trigger    string    `gorm:"not null"`
	Interval   string    `gorm:"column:scan_interval;index;not null"`
	Matches    string    `gorm:"type:text"`
	MatchCount int       `gorm:"not null"`
	Scanned    int       `gorm:"not null"`
	Skipped    int       `gorm:"not null"`
	Failed     int       `gorm:"not null"`
	Error      string    `gorm:"type:text"`
	DurationMs int64     `gorm:"not null"`
	StartedAt  time.Time `gorm:"index;not null"`
	FinishedAt time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName sets the table name for ScanRecord model
func (ScanRecord) TableName() string {
	return "scan_records"
}

// MatchList splits the stored comma separated matches.
func (r ScanRecord) MatchList() []string {
	if r.Matches == "" {
		return []string{}
	}
	return strings.Split(r.Matches, ",")
}
