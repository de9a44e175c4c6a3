// internal/demoac/motion.go

package demoac

import (
	"math/rand"
	"time"

	"airwise/internal/logger"
)

// MotionSimulator flips the motion flag of a random unit at randomized
// intervals, so clients polling the registry see something happen. Demo
// behavior only.
type MotionSimulator struct {
	store    *Store
	minDelay time.Duration
	maxDelay time.Duration
	stopChan chan struct{}
}

func NewMotionSimulator(store *Store) *MotionSimulator {
	return &MotionSimulator{
		store:    store,
		minDelay: 10 * time.Second,
		maxDelay: 45 * time.Second,
		stopChan: make(chan struct{}),
	}
}

func (m *MotionSimulator) Start() {
	go m.run()
	logger.Info("Motion simulator started")
}

func (m *MotionSimulator) Stop() {
	close(m.stopChan)
	logger.Info("Motion simulator stopped")
}

func (m *MotionSimulator) run() {
	for {
		delay := m.minDelay + time.Duration(rand.Int63n(int64(m.maxDelay-m.minDelay)))
		select {
		case <-time.After(delay):
			m.toggleOne()
		case <-m.stopChan:
			return
		}
	}
}

func (m *MotionSimulator) toggleOne() {
	serials := m.store.Serials()
	if len(serials) == 0 {
		return
	}
	serial := serials[rand.Intn(len(serials))]
	unit, err := m.store.Update(serial, func(u *DeviceState) {
		u.Motion = !u.Motion
	})
	if err != nil {
		logger.Warn("motion toggle for %s failed: %v", serial, err)
		return
	}
	logger.Debug("motion on %s is now %v", serial, unit.Motion)
}
