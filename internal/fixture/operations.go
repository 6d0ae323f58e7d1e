package fixture

import (
	"fmt"
	"math/rand"
	"time"

	"recycling-admin-backend/internal/model"
)

// AlertTemplate describes one kind of anomaly the AI monitor can raise.
type AlertTemplate struct {
	Type        string
	Severity    string
	Description string
	Suggestion  string
}

var alertTemplates = []AlertTemplate{
	{Type: "满溢预警", Severity: "high", Description: "设备容量已超过 %d%%，预计 2 小时内溢出", Suggestion: "建议优先安排清运车辆"},
	{Type: "温度异常", Severity: "urgent", Description: "箱体温度达到 %d°C，存在自燃风险", Suggestion: "建议立即派员现场检查并隔离有害垃圾"},
	{Type: "投放错误激增", Severity: "normal", Description: "过去一小时错误投放 %d 次，高于平均水平", Suggestion: "建议在该站点增加分类引导员"},
	{Type: "电量不足", Severity: "high", Description: "设备电量仅剩 %d%%", Suggestion: "建议更换电池或检查太阳能板"},
}

// NewAlert builds a pending alert for device from a random template.
func NewAlert(rng *rand.Rand, d model.Device, now time.Time) model.Alert {
	tpl := alertTemplates[rng.Intn(len(alertTemplates))]
	var figure int
	switch tpl.Type {
	case "满溢预警":
		figure = max(d.Capacity.Current, 80)
	case "温度异常":
		figure = max(int(d.Temperature), 55)
	case "电量不足":
		figure = min(d.Battery, 20)
	default:
		figure = rng.Intn(30) + 10
	}
	return model.Alert{
		Type:        tpl.Type,
		DeviceID:    d.ID,
		DeviceName:  d.Name,
		Timestamp:   now.Format(TimeLayout),
		Description: fmt.Sprintf(tpl.Description, figure),
		Suggestion:  tpl.Suggestion,
		Severity:    tpl.Severity,
		Status:      model.AlertPending,
	}
}

// Alerts generates n alerts with ids 1..n spread over the last few hours.
// Roughly a third start out processed.
func Alerts(rng *rand.Rand, devices []model.Device, n int, now time.Time) []model.Alert {
	if len(devices) == 0 {
		return nil
	}
	alerts := make([]model.Alert, 0, n)
	for i := 1; i <= n; i++ {
		d := devices[rng.Intn(len(devices))]
		a := NewAlert(rng, d, now.Add(-time.Duration(rng.Intn(360))*time.Minute))
		a.ID = fmt.Sprintf("%d", i)
		if rng.Intn(3) == 0 {
			a.Status = model.AlertProcessed
		}
		alerts = append(alerts, a)
	}
	return alerts
}

var taskTitles = []string{"清运满溢垃圾箱", "更换设备电池", "清洁投放口", "检修称重模块", "更新分类标识"}

// Tasks generates n work orders against random devices.
func Tasks(rng *rand.Rand, devices []model.Device, n int) []model.Task {
	if len(devices) == 0 {
		return nil
	}
	priorities := []string{model.PriorityUrgent, model.PriorityHigh, model.PriorityNormal}
	statuses := []string{model.TaskPending, model.TaskInProgress, model.TaskCompleted}

	tasks := make([]model.Task, 0, n)
	for i := 1; i <= n; i++ {
		tasks = append(tasks, model.Task{
			ID:       fmt.Sprintf("%d", i),
			Title:    taskTitles[rng.Intn(len(taskTitles))],
			DeviceID: devices[rng.Intn(len(devices))].ID,
			Priority: priorities[rng.Intn(len(priorities))],
			Status:   statuses[rng.Intn(len(statuses))],
		})
	}
	return tasks
}

var (
	maintenanceTypes = []string{"例行保养", "传感器校准", "电池更换", "箱体消毒"}
	technicians      = []string{"张师傅", "李师傅", "王师傅", "赵师傅"}
)

// Maintenance generates n maintenance visits scheduled over the coming two weeks.
func Maintenance(rng *rand.Rand, devices []model.Device, n int, now time.Time) []model.MaintenanceItem {
	if len(devices) == 0 {
		return nil
	}
	items := make([]model.MaintenanceItem, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, model.MaintenanceItem{
			ID:         fmt.Sprintf("%d", i),
			DeviceID:   devices[rng.Intn(len(devices))].ID,
			Date:       now.AddDate(0, 0, rng.Intn(14)+1).Format("2006-01-02"),
			Type:       maintenanceTypes[rng.Intn(len(maintenanceTypes))],
			Technician: technicians[rng.Intn(len(technicians))],
		})
	}
	return items
}
