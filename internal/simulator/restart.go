package simulator

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"recycling-admin-backend/internal/model"
	"recycling-admin-backend/internal/store"
)

// ErrAlreadyRestarting is returned when a restart is requested for a device
// that is still restarting.
var ErrAlreadyRestarting = errors.New("device is already restarting")

// Restart puts the device into the restarting state and schedules its return
// to normal after the configured delay. The returned channel is closed once
// the timer has run or been abandoned. A device has at most one pending
// restart.
func (s *Service) Restart(id string) (model.Device, <-chan struct{}, error) {
	busy := false
	d, err := s.store.Devices.Apply(id, func(cur model.Device) (model.Device, bool) {
		if cur.Status == model.DeviceRestarting {
			busy = true
			return cur, false
		}
		cur.Status = model.DeviceRestarting
		return cur, true
	})
	if err != nil {
		return model.Device{}, nil, err
	}
	if busy {
		return d, nil, ErrAlreadyRestarting
	}

	done := make(chan struct{})
	timer := time.AfterFunc(s.cfg.RestartDelay, func() {
		defer close(done)
		if s.ctx.Err() != nil {
			return
		}
		s.finishRestart(d.ID)
	})
	go func() {
		select {
		case <-s.ctx.Done():
			if timer.Stop() {
				close(done)
			}
		case <-done:
		}
	}()

	s.log.Info("device restarting", zap.String("device", d.ID), zap.Duration("delay", s.cfg.RestartDelay))
	return d, done, nil
}

func (s *Service) finishRestart(id string) {
	_, err := s.store.Devices.Apply(id, func(d model.Device) (model.Device, bool) {
		if d.Status != model.DeviceRestarting {
			return d, false
		}
		d.Status = model.DeviceNormal
		d.LastSeen = s.now().UTC()
		return d, true
	})
	if errors.Is(err, store.ErrNotFound) {
		s.log.Info("device removed before restart completed", zap.String("device", id))
		return
	}
	if err != nil {
		s.log.Warn("failed to finish restart", zap.String("device", id), zap.Error(err))
		return
	}
	s.log.Info("device restarted", zap.String("device", id))
}
