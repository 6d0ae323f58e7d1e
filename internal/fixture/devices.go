// Package fixture generates the decorative data shown on the device map,
// AI monitoring and analytics screens. Every generator takes its randomness
// from the caller so output is reproducible under a fixed seed.
package fixture

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"recycling-admin-backend/internal/model"
	"recycling-admin-backend/internal/store"
)

// TimeLayout is the timestamp format used in generated records.
const TimeLayout = "2006-01-02 15:04:05"

// Map bounds; the dashboard projects lng/lat onto its SVG using these.
const (
	MinLat = 39.85
	MaxLat = 39.95
	MinLng = 116.35
	MaxLng = 116.45
)

var areas = []string{"朝阳区望京", "海淀区中关村", "东城区和平里", "西城区金融街", "丰台区方庄"}

var streets = []string{"花园路", "科技路", "建设路", "人民路", "友谊路", "光明路"}

// Devices generates n devices with ids DEV001..DEVn. Each device gets one
// bin per category.
func Devices(rng *rand.Rand, n int, categories []model.Category, now time.Time) []model.Device {
	devices := make([]model.Device, 0, n)
	for i := 1; i <= n; i++ {
		area := areas[(i-1)%len(areas)]
		d := model.Device{
			ID:   fmt.Sprintf("DEV%03d", i),
			Name: fmt.Sprintf("%s-%d", area, (i-1)/len(areas)+1),
			Location: model.Location{
				Lat:     round(MinLat+rng.Float64()*(MaxLat-MinLat), 5),
				Lng:     round(MinLng+rng.Float64()*(MaxLng-MinLng), 5),
				Address: fmt.Sprintf("%s%s%d号", area, streets[rng.Intn(len(streets))], rng.Intn(200)+1),
			},
			Capacity:    model.Capacity{Current: rng.Intn(100), Max: 100},
			Temperature: round(15+rng.Float64()*30, 1),
			Battery:     rng.Intn(91) + 10,
			LastSeen:    now,
		}
		for _, c := range categories {
			d.Bins = append(d.Bins, model.DeviceBin{CategoryID: c.ID, Name: c.Name, Fill: rng.Intn(100)})
		}
		d.Status = DeriveStatus(d)
		// a few stations start out unreachable
		if rng.Float64() < 0.05 {
			d.Status = model.DeviceOffline
		}
		devices = append(devices, d)
	}
	return devices
}

// DeriveStatus computes a device's map status from its telemetry.
func DeriveStatus(d model.Device) string {
	switch {
	case d.Temperature >= 60:
		return model.DeviceError
	case d.Battery <= 5:
		return model.DeviceOffline
	case d.Capacity.Current >= 80:
		return model.DeviceWarning
	default:
		return model.DeviceNormal
	}
}

// Populate fills the device-side collections of seed with generated data.
func Populate(seed *store.Seed, rng *rand.Rand, deviceCount int, now time.Time) {
	seed.Devices = Devices(rng, deviceCount, seed.Categories, now)
	seed.Alerts = Alerts(rng, seed.Devices, 5, now)
	seed.Tasks = Tasks(rng, seed.Devices, 6)
	seed.Maintenance = Maintenance(rng, seed.Devices, 4, now)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
