package model

// Alert statuses.
const (
	AlertPending   = "pending"
	AlertProcessed = "processed"
)

// Task priorities and statuses.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityNormal = "normal"

	TaskPending    = "pending"
	TaskInProgress = "in-progress"
	TaskCompleted  = "completed"
)

// Alert is an AI-detected anomaly on a device.
type Alert struct {
	ID          string `json:"id" yaml:"id"`
	Type        string `json:"type" yaml:"type"`
	DeviceID    string `json:"deviceId" yaml:"deviceId"`
	DeviceName  string `json:"deviceName" yaml:"deviceName"`
	Timestamp   string `json:"timestamp" yaml:"timestamp"`
	Description string `json:"description" yaml:"description"`
	Suggestion  string `json:"suggestion" yaml:"suggestion"`
	Severity    string `json:"severity" yaml:"severity"`
	Status      string `json:"status" yaml:"status"`
}

func (a Alert) RecordID() string { return a.ID }

func (a Alert) WithRecordID(id string) Alert {
	a.ID = id
	return a
}

// Task is a work order for field staff.
type Task struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	DeviceID string `json:"deviceId" yaml:"deviceId"`
	Priority string `json:"priority" yaml:"priority"`
	Status   string `json:"status" yaml:"status"`
}

func (t Task) RecordID() string { return t.ID }

func (t Task) WithRecordID(id string) Task {
	t.ID = id
	return t
}

// MaintenanceItem is a scheduled maintenance visit.
type MaintenanceItem struct {
	ID         string `json:"id" yaml:"id"`
	DeviceID   string `json:"deviceId" yaml:"deviceId"`
	Date       string `json:"date" yaml:"date"`
	Type       string `json:"type" yaml:"type"`
	Technician string `json:"technician" yaml:"technician"`
}

func (m MaintenanceItem) RecordID() string { return m.ID }

func (m MaintenanceItem) WithRecordID(id string) MaintenanceItem {
	m.ID = id
	return m
}
