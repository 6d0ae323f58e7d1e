package model

import "time"

// Device statuses shown on the device map.
const (
	DeviceNormal     = "normal"
	DeviceWarning    = "warning"
	DeviceError      = "error"
	DeviceOffline    = "offline"
	DeviceRestarting = "restarting"
)

// Location places a device on the map.
type Location struct {
	Lat     float64 `json:"lat" yaml:"lat"`
	Lng     float64 `json:"lng" yaml:"lng"`
	Address string  `json:"address" yaml:"address"`
}

// Capacity is the fill level of a device in percent.
type Capacity struct {
	Current int `json:"current" yaml:"current"`
	Max     int `json:"max" yaml:"max"`
}

// DeviceBin is one category compartment of a smart bin.
type DeviceBin struct {
	CategoryID string `json:"categoryId" yaml:"categoryId"`
	Name       string `json:"name" yaml:"name"`
	Fill       int    `json:"fill" yaml:"fill"`
}

// Device is a smart recycling station.
type Device struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Location    Location    `json:"location" yaml:"location"`
	Status      string      `json:"status" yaml:"status"`
	Capacity    Capacity    `json:"capacity" yaml:"capacity"`
	Temperature float64     `json:"temperature" yaml:"temperature"`
	Battery     int         `json:"battery" yaml:"battery"`
	Bins        []DeviceBin `json:"bins" yaml:"bins"`
	LastSeen    time.Time   `json:"lastSeen" yaml:"lastSeen"`
}

func (d Device) RecordID() string { return d.ID }

// WithRecordID also detaches the bins slice so callers never share it with the store.
func (d Device) WithRecordID(id string) Device {
	d.ID = id
	if d.Bins != nil {
		d.Bins = append([]DeviceBin(nil), d.Bins...)
	}
	return d
}

// NeedsService reports whether the device should be on a collection route.
func (d Device) NeedsService() bool {
	return d.Status == DeviceWarning || d.Status == DeviceError || d.Capacity.Current >= 80
}
