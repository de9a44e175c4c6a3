// Package demoac is the stand-in AC registry: a handful of simulated
// units kept in a flat JSON file. It exists so the main system has a
// physical-device API to verify serials against and push state to during
// development.
package demoac

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"airwise/internal/logger"
)

// ErrUnknownSerial is returned for serials the registry has no unit for.
var ErrUnknownSerial = errors.New("unknown serial")

// DeviceState is one simulated unit. The mode and fanSpeed vocabularies
// are lowercase here, unlike the main system's uppercase enums; the two
// surfaces are deliberately kept apart.
type DeviceState struct {
	Serial       string  `json:"serial"`
	Manufacturer string  `json:"manufacturer"`
	Power        bool    `json:"power"`
	Temperature  float64 `json:"temperature"`
	Mode         string  `json:"mode"`
	FanSpeed     string  `json:"fanSpeed"`
	Motion       bool    `json:"motion"`
}

// Store keeps all units in memory and mirrors every change to the JSON
// file, whole list at a time. One mutex serializes everything; the demo
// never has enough traffic to care.
type Store struct {
	path  string
	mu    sync.Mutex
	units []DeviceState
}

// defaultUnits seed the registry the first time the file does not exist.
var defaultUnits = []DeviceState{
	{Serial: "2489R7", Manufacturer: "Tadiran", Power: false, Temperature: 24, Mode: "cool", FanSpeed: "auto"},
	{Serial: "9X51B2", Manufacturer: "Electra", Power: false, Temperature: 22, Mode: "auto", FanSpeed: "low"},
	{Serial: "K3M8D4", Manufacturer: "LG", Power: true, Temperature: 20, Mode: "heat", FanSpeed: "medium"},
	{Serial: "7PL0Q9", Manufacturer: "Samsung", Power: false, Temperature: 25, Mode: "fan", FanSpeed: "high"},
}

// NewStore loads the unit list from path, seeding and writing the default
// units when the file is missing.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.units = append([]DeviceState(nil), defaultUnits...)
		if err := s.persist(); err != nil {
			return nil, err
		}
		logger.Info("seeded %d demo units into %s", len(s.units), path)
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(raw, &s.units); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Get returns a copy of one unit's state.
func (s *Store) Get(serial string) (*DeviceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.units {
		if s.units[i].Serial == serial {
			unit := s.units[i]
			return &unit, nil
		}
	}
	return nil, ErrUnknownSerial
}

// Update applies fn to one unit under the lock and writes the whole list
// back to disk.
func (s *Store) Update(serial string, fn func(*DeviceState)) (*DeviceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.units {
		if s.units[i].Serial == serial {
			fn(&s.units[i])
			if err := s.persist(); err != nil {
				return nil, err
			}
			unit := s.units[i]
			return &unit, nil
		}
	}
	return nil, ErrUnknownSerial
}

// Serials lists the known serials; the motion simulator picks from it.
func (s *Store) Serials() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.units))
	for i := range s.units {
		out[i] = s.units[i].Serial
	}
	return out
}

func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.units, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}
