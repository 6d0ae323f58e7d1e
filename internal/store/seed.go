package store

import (
	"strconv"
	"strings"

	"recycling-admin-backend/internal/model"
)

// Seed is the initial content of every collection.
type Seed struct {
	Categories  []model.Category        `yaml:"categories"`
	Rewards     []model.Reward          `yaml:"rewards"`
	Activities  []model.Activity        `yaml:"activities"`
	News        []model.News            `yaml:"news"`
	Users       []model.User            `yaml:"users"`
	Devices     []model.Device          `yaml:"devices"`
	Alerts      []model.Alert           `yaml:"alerts"`
	Tasks       []model.Task            `yaml:"tasks"`
	Maintenance []model.MaintenanceItem `yaml:"maintenance"`
}

// DefaultSeed returns the built-in catalogue, content and user records.
// Devices, alerts, tasks and maintenance items are left empty; they are
// generated by the fixture package.
func DefaultSeed() Seed {
	return Seed{
		Categories: []model.Category{
			{ID: "1", Name: "可回收物", Icon: "recycle", Points: 10},
			{ID: "2", Name: "厨余垃圾", Icon: "apple", Points: 5},
			{ID: "3", Name: "有害垃圾", Icon: "shield-alert", Points: 15},
			{ID: "4", Name: "其他垃圾", Icon: "trash-2", Points: 2},
		},
		Rewards: []model.Reward{
			{ID: "1", Name: "铅笔", Points: 50, Stock: 100},
			{ID: "2", Name: "笔记本", Points: 100, Stock: 50},
			{ID: "3", Name: "环保袋", Points: 150, Stock: 30},
		},
		Activities: []model.Activity{
			{ID: "1", Name: "地球日活动", Start: "2024-04-22", End: "2024-04-28", Status: "进行中"},
			{ID: "2", Name: "垃圾分类知识竞赛", Start: "2024-05-01", End: "2024-05-07", Status: "即将开始"},
		},
		News: []model.News{
			{ID: "1", Title: "新版垃圾分类指南发布", Date: "2024-04-20", Content: "..."},
			{ID: "2", Title: "垃圾分类，从我做起", Date: "2024-04-15", Content: "..."},
		},
		Users: []model.User{
			{ID: "1", Username: "admin", Email: "admin@example.com", Registered: "2024-01-01", Status: "活跃"},
			{ID: "2", Username: "user1", Email: "user1@example.com", Registered: "2024-02-01", Status: "活跃"},
		},
	}
}

// highestSeq returns the largest number found after prefix among ids.
func highestSeq[T model.Record[T]](prefix string, seed []T) int64 {
	var max int64
	for _, rec := range seed {
		rest, ok := strings.CutPrefix(strings.TrimSpace(rec.RecordID()), prefix)
		if !ok {
			continue
		}
		if n, err := strconv.ParseInt(rest, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return max
}
