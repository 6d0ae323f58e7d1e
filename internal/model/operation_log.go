package model

import "time"

// OperationLog is one admin action recorded in the side table.
type OperationLog struct {
	ID       int64     `gorm:"primaryKey" json:"id"`
	Time     time.Time `gorm:"not null;index" json:"time"`
	User     string    `gorm:"size:64;not null" json:"user"`
	Action   string    `gorm:"size:32;not null" json:"action"`
	Kind     string    `gorm:"size:32;not null" json:"kind"`
	RecordID string    `gorm:"size:64" json:"recordId"`
}
