package fixture

import (
	"fmt"
	"math/rand"
	"sort"

	"recycling-admin-backend/internal/model"
	"recycling-admin-backend/internal/parse"
)

// DashboardData is the headline panel of the dashboard.
type DashboardData struct {
	TotalDeliveries int            `json:"totalDeliveries"`
	ActiveUsers     int            `json:"activeUsers"`
	TotalPoints     int            `json:"totalPoints"`
	WrongDeliveries int            `json:"wrongDeliveries"`
	Trend           []int          `json:"trend"`
	Categories      []int          `json:"categories"`
	DeviceStatus    map[string]int `json:"deviceStatus"`
	PendingAlerts   int            `json:"pendingAlerts"`
}

// Dashboard returns the fixed headline figures plus live device and alert
// counts.
func Dashboard(devices []model.Device, alerts []model.Alert) DashboardData {
	data := DashboardData{
		TotalDeliveries: 12345,
		ActiveUsers:     5678,
		TotalPoints:     89012,
		WrongDeliveries: 123,
		Trend:           []int{120, 190, 300, 500, 200, 300, 450},
		Categories:      []int{300, 50, 100, 80},
		DeviceStatus:    make(map[string]int),
	}
	for _, d := range devices {
		data.DeviceStatus[d.Status]++
	}
	for _, a := range alerts {
		if a.Status == model.AlertPending {
			data.PendingAlerts++
		}
	}
	return data
}

// LeaderboardEntry is one ranked resident.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	User       string `json:"user"`
	Deliveries int    `json:"deliveries"`
	Points     int    `json:"points"`
}

// Leaderboard returns the top residents by points.
func Leaderboard() []LeaderboardEntry {
	return []LeaderboardEntry{
		{Rank: 1, User: "小明", Deliveries: 120, Points: 1200},
		{Rank: 2, User: "小红", Deliveries: 100, Points: 1000},
		{Rank: 3, User: "小李", Deliveries: 90, Points: 900},
	}
}

// DeviceEfficiency is the utilisation of one device in percent.
type DeviceEfficiency struct {
	ID         string  `json:"id"`
	Efficiency float64 `json:"efficiency"`
}

// AnalyticsData feeds the analytics screen charts.
type AnalyticsData struct {
	MonthlyTrend     []int              `json:"monthlyTrend"`
	Accuracy         []float64          `json:"accuracy"`
	UserActivity     []int              `json:"userActivity"`
	DeviceEfficiency []DeviceEfficiency `json:"deviceEfficiency"`
}

// Analytics generates chart series. DeviceEfficiency holds at most the ten
// most efficient devices, highest first.
func Analytics(rng *rand.Rand, devices []model.Device) AnalyticsData {
	data := AnalyticsData{
		MonthlyTrend: make([]int, 12),
		Accuracy:     make([]float64, 6),
		UserActivity: make([]int, 7),
	}
	for i := range data.MonthlyTrend {
		data.MonthlyTrend[i] = 800 + rng.Intn(1200)
	}
	for i := range data.Accuracy {
		data.Accuracy[i] = round(90+rng.Float64()*10, 1)
	}
	for i := range data.UserActivity {
		data.UserActivity[i] = 200 + rng.Intn(600)
	}

	eff := make([]DeviceEfficiency, 0, len(devices))
	for _, d := range devices {
		eff = append(eff, DeviceEfficiency{ID: d.ID, Efficiency: round(rng.Float64()*100, 1)})
	}
	sort.SliceStable(eff, func(i, j int) bool { return eff[i].Efficiency > eff[j].Efficiency })
	if len(eff) > 10 {
		eff = eff[:10]
	}
	data.DeviceEfficiency = eff
	return data
}

// Route is a suggested collection run through one service area.
type Route struct {
	Name          string   `json:"name"`
	Priority      string   `json:"priority"`
	EstimatedTime string   `json:"estimatedTime"`
	Reason        string   `json:"reason"`
	Devices       []string `json:"devices"`
}

// Schedule is the smart collection plan.
type Schedule struct {
	Routes []Route `json:"routes"`
}

// SmartSchedule groups devices that need service into one route per area.
// Routes with a faulty or nearly full device come first.
func SmartSchedule(devices []model.Device) Schedule {
	type bucket struct {
		area    string
		devices []model.Device
	}
	var order []string
	buckets := make(map[string]*bucket)
	for _, d := range devices {
		if !d.NeedsService() {
			continue
		}
		area := d.Name
		if parsed, err := parse.DeviceName(d.Name); err == nil {
			area = parsed.Area
		}
		b, ok := buckets[area]
		if !ok {
			b = &bucket{area: area}
			buckets[area] = b
			order = append(order, area)
		}
		b.devices = append(b.devices, d)
	}

	routes := make([]Route, 0, len(order))
	for _, area := range order {
		b := buckets[area]
		r := Route{
			Name:          b.area + "清运路线",
			Priority:      "low",
			EstimatedTime: fmt.Sprintf("%d分钟", 10+15*len(b.devices)),
		}
		var full, faulty int
		for _, d := range b.devices {
			r.Devices = append(r.Devices, d.ID)
			if d.Status == model.DeviceError {
				faulty++
			}
			if d.Capacity.Current >= 80 {
				full++
			}
		}
		switch {
		case faulty > 0 || len(b.devices) >= 3:
			r.Priority = "high"
		case full > 0:
			r.Priority = "medium"
		}
		r.Reason = fmt.Sprintf("%d 台设备接近满载，%d 台设备故障", full, faulty)
		routes = append(routes, r)
	}

	rank := map[string]int{"high": 0, "medium": 1, "low": 2}
	sort.SliceStable(routes, func(i, j int) bool { return rank[routes[i].Priority] < rank[routes[j].Priority] })
	return Schedule{Routes: routes}
}
