package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"recycling-admin-backend/internal/model"
)

// OpLog records admin actions in the operation log table.
type OpLog interface {
	Record(ctx context.Context, entry model.OperationLog) error
	Recent(ctx context.Context, limit int) ([]model.OperationLog, error)
}

// gormOpLog implements OpLog using GORM.
type gormOpLog struct {
	db *gorm.DB
}

// NewGormOpLog creates a new GORM-backed operation log.
func NewGormOpLog(db *gorm.DB) OpLog {
	return &gormOpLog{db: db}
}

// Record appends one entry, stamping it with the current time when unset.
func (l *gormOpLog) Record(ctx context.Context, entry model.OperationLog) error {
	if entry.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}
	if err := l.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record operation %s %s/%s: %w", entry.Action, entry.Kind, entry.RecordID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *gormOpLog) Recent(ctx context.Context, limit int) ([]model.OperationLog, error) {
	var entries []model.OperationLog
	if err := l.db.WithContext(ctx).Order("time DESC").Order("id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list operation log: %w", err)
	}
	return entries, nil
}

// ActionFor maps a store mutation to the operation log's action label.
func ActionFor(m Mutation) string {
	verb := map[Op]string{OpCreate: "新增", OpUpdate: "编辑", OpDelete: "删除"}[m.Op]
	noun := map[model.Kind]string{
		model.KindCategories:  "分类",
		model.KindRewards:     "奖励",
		model.KindActivities:  "活动",
		model.KindNews:        "资讯",
		model.KindUsers:       "用户",
		model.KindDevices:     "设备",
		model.KindAlerts:      "告警",
		model.KindTasks:       "任务",
		model.KindMaintenance: "维护计划",
	}[m.Kind]
	return verb + noun
}
