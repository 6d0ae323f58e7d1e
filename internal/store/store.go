package store

import (
	"fmt"
	"sync"

	"recycling-admin-backend/internal/model"
)

// Store holds one collection per entity kind. It is constructed explicitly
// from a Seed and shared by reference; there is no package-level state.
type Store struct {
	Categories  *Collection[model.Category]
	Rewards     *Collection[model.Reward]
	Activities  *Collection[model.Activity]
	News        *Collection[model.News]
	Users       *Collection[model.User]
	Devices     *Collection[model.Device]
	Alerts      *Collection[model.Alert]
	Tasks       *Collection[model.Task]
	Maintenance *Collection[model.MaintenanceItem]

	mu        sync.RWMutex
	listeners []func(Mutation)
}

// Option customises a Store at construction.
type Option func(*options)

type options struct {
	alertIDs IDGenerator
}

// WithAlertIDs overrides the UUID generator used for alerts.
func WithAlertIDs(ids IDGenerator) Option {
	return func(o *options) { o.alertIDs = ids }
}

// New builds a Store populated with seed.
func New(seed Seed, opts ...Option) *Store {
	o := options{alertIDs: UUIDs{}}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{}
	numeric := func(n int64) IDGenerator { return NewSequence("", 0, n) }

	s.Categories = newCollection(model.KindCategories, seed.Categories,
		numeric(highestSeq("", seed.Categories)),
		func(c model.Category) []string { return []string{c.Name} }, s.emit)
	s.Rewards = newCollection(model.KindRewards, seed.Rewards,
		numeric(highestSeq("", seed.Rewards)),
		func(r model.Reward) []string { return []string{r.Name} }, s.emit)
	s.Activities = newCollection(model.KindActivities, seed.Activities,
		numeric(highestSeq("", seed.Activities)),
		func(a model.Activity) []string { return []string{a.Name} }, s.emit)
	s.News = newCollection(model.KindNews, seed.News,
		numeric(highestSeq("", seed.News)),
		func(n model.News) []string { return []string{n.Title} }, s.emit)
	s.Users = newCollection(model.KindUsers, seed.Users,
		numeric(highestSeq("", seed.Users)),
		func(u model.User) []string { return []string{u.Username, u.Email} }, s.emit)
	s.Devices = newCollection(model.KindDevices, seed.Devices,
		NewSequence("DEV", 3, highestSeq("DEV", seed.Devices)),
		func(d model.Device) []string { return []string{d.ID, d.Name, d.Location.Address} }, s.emit)
	s.Alerts = newCollection(model.KindAlerts, seed.Alerts, o.alertIDs,
		func(a model.Alert) []string { return []string{a.Type, a.DeviceName} }, s.emit)
	s.Tasks = newCollection(model.KindTasks, seed.Tasks,
		numeric(highestSeq("", seed.Tasks)),
		func(t model.Task) []string { return []string{t.Title, t.DeviceID} }, s.emit)
	s.Maintenance = newCollection(model.KindMaintenance, seed.Maintenance,
		numeric(highestSeq("", seed.Maintenance)),
		func(m model.MaintenanceItem) []string { return []string{m.DeviceID, m.Type, m.Technician} }, s.emit)

	return s
}

// OnMutation registers fn to run after every successful create, update or delete.
// Listeners run synchronously on the mutating goroutine, outside collection locks.
func (s *Store) OnMutation(fn func(Mutation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) emit(m Mutation) {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(m)
	}
}

// Counts returns the number of records per kind.
func (s *Store) Counts() map[model.Kind]int {
	counts := make(map[model.Kind]int, len(model.Kinds))
	for _, k := range model.Kinds {
		if c, err := s.collection(k); err == nil {
			counts[k] = c.Len()
		}
	}
	return counts
}

// BatchDelete removes the listed records of one kind and returns how many existed.
func (s *Store) BatchDelete(kind model.Kind, ids []string) (int, error) {
	c, err := s.collection(kind)
	if err != nil {
		return 0, err
	}
	return c.DeleteMany(ids), nil
}

// SetDeviceStatus changes a device's status.
func (s *Store) SetDeviceStatus(id, status string) (model.Device, error) {
	return s.Devices.Update(id, map[string]any{"status": status})
}

// StartTask moves a task to in-progress.
func (s *Store) StartTask(id string) (model.Task, error) {
	return s.Tasks.Update(id, map[string]any{"status": model.TaskInProgress})
}

// CompleteTask moves a task to completed.
func (s *Store) CompleteTask(id string) (model.Task, error) {
	return s.Tasks.Update(id, map[string]any{"status": model.TaskCompleted})
}

// ProcessAlert marks an alert as handled.
func (s *Store) ProcessAlert(id string) (model.Alert, error) {
	return s.Alerts.Update(id, map[string]any{"status": model.AlertProcessed})
}

type collection interface {
	Len() int
	DeleteMany(ids []string) int
}

func (s *Store) collection(kind model.Kind) (collection, error) {
	switch kind {
	case model.KindCategories:
		return s.Categories, nil
	case model.KindRewards:
		return s.Rewards, nil
	case model.KindActivities:
		return s.Activities, nil
	case model.KindNews:
		return s.News, nil
	case model.KindUsers:
		return s.Users, nil
	case model.KindDevices:
		return s.Devices, nil
	case model.KindAlerts:
		return s.Alerts, nil
	case model.KindTasks:
		return s.Tasks, nil
	case model.KindMaintenance:
		return s.Maintenance, nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}
