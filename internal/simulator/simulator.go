package simulator

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"recycling-admin-backend/config"
	"recycling-admin-backend/internal/fixture"
	"recycling-admin-backend/internal/model"
	"recycling-admin-backend/internal/store"
)

// Service drives the simulated device telemetry. Each tick nudges every
// device's fill level, battery and temperature and may raise AI alerts for
// unhealthy devices.
type Service struct {
	cfg   *config.SimulatorConfig
	store *store.Store
	log   *zap.Logger
	now   func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	// ctx outlives individual requests so restart timers survive them.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates a simulator over s.
func NewService(cfg *config.SimulatorConfig, s *store.Store, log *zap.Logger) *Service {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		cfg:    cfg,
		store:  s,
		log:    log.Named("simulator"),
		now:    time.Now,
		rng:    rand.New(rand.NewSource(seed)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Close abandons pending restart timers.
func (s *Service) Close() {
	s.cancel()
}

// Run ticks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.log.Info("simulator is disabled, not starting")
		return
	}
	s.log.Info("starting simulator", zap.Duration("interval", s.cfg.Interval))

	s.TickOnce(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("simulator shutting down")
			return
		case <-timer.C:
			s.TickOnce(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

// TickOnce advances every device by one step and returns the alerts raised.
func (s *Service) TickOnce(ctx context.Context) []model.Alert {
	now := s.now().UTC()
	var unhealthy []model.Device

	for _, d := range s.store.Devices.List() {
		if ctx.Err() != nil {
			return nil
		}
		updated, err := s.store.Devices.Apply(d.ID, func(cur model.Device) (model.Device, bool) {
			if cur.Status == model.DeviceRestarting {
				return cur, false
			}
			return s.step(cur, now), true
		})
		if errors.Is(err, store.ErrNotFound) {
			// deleted since List
			continue
		}
		if err != nil {
			s.log.Warn("failed to advance device", zap.String("device", d.ID), zap.Error(err))
			continue
		}
		if updated.Status == model.DeviceWarning || updated.Status == model.DeviceError {
			unhealthy = append(unhealthy, updated)
		}
	}

	var raised []model.Alert
	for _, d := range unhealthy {
		if !s.chance(s.cfg.AlertProbability) {
			continue
		}
		s.rngMu.Lock()
		alert := fixture.NewAlert(s.rng, d, now)
		s.rngMu.Unlock()

		created := s.store.Alerts.Create(alert)
		s.log.Info("raised alert", zap.String("alert", created.ID), zap.String("device", d.ID), zap.String("type", created.Type))
		raised = append(raised, created)
	}

	s.log.Debug("simulator tick finished", zap.Int("unhealthy", len(unhealthy)), zap.Int("alerts", len(raised)))
	return raised
}

// step produces the next telemetry sample for d.
func (s *Service) step(d model.Device, now time.Time) model.Device {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	d.LastSeen = now
	if d.Status == model.DeviceOffline {
		// an offline station occasionally comes back on a fresh battery
		if s.rng.Float64() < 0.1 {
			d.Battery = 100
			d.Status = fixture.DeriveStatus(d)
		}
		return d
	}

	d.Capacity.Current = clamp(d.Capacity.Current+s.rng.Intn(6), 0, 100)
	for i := range d.Bins {
		d.Bins[i].Fill = clamp(d.Bins[i].Fill+s.rng.Intn(6), 0, 100)
	}
	d.Battery = clamp(d.Battery-s.rng.Intn(3), 0, 100)
	d.Temperature = float64(int((d.Temperature+(s.rng.Float64()*4-2))*10)) / 10
	d.Status = fixture.DeriveStatus(d)
	return d
}

func (s *Service) chance(p float64) bool {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64() < p
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
