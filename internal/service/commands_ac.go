package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"airwise/internal/acclient"
	"airwise/internal/boundary"
	"airwise/internal/db"
	"airwise/internal/logger"
)

// handleUpdateACState applies a partial state update to one unit. Only the
// attributes present in the payload are touched; a power flip also flips
// the object status, and turning a running unit off books its consumption
// onto the owning site.
func (s *CommandsService) handleUpdateACState(cmd *boundary.CommandBoundary) (any, error) {
	if err := s.validator.CheckACStateAttrs(cmd.CommandAttributes, true); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	entity, err := s.loadActiveTarget(cmd, boundary.TypeAirConditioner)
	if err != nil {
		return nil, err
	}

	if err := s.applyACState(entity, cmd.CommandAttributes); err != nil {
		return nil, err
	}

	if raw, ok := cmd.CommandAttributes["power"]; ok {
		verb := "turned off"
		if raw.(bool) {
			verb = "turned on"
		}
		s.notify(cmd.InvokedBy.UserID.Email, fmt.Sprintf("%s was %s", entity.Alias, verb))
	}
	return s.entityToBoundary(entity), nil
}

// handleRoomACsControl fans one state out over every active unit in a
// room, strictly one unit after another. The payload may carry the state
// under an "acState" key or flat; either way it must be complete.
func (s *CommandsService) handleRoomACsControl(cmd *boundary.CommandBoundary) (any, error) {
	attrs := cmd.CommandAttributes
	if nested, ok := attrs["acState"].(map[string]any); ok {
		attrs = nested
	}
	if err := s.validator.CheckACStateAttrs(attrs, false); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	room, err := s.loadActiveTarget(cmd, boundary.TypeRoom)
	if err != nil {
		return nil, err
	}

	children, err := s.objects.FindChildrenAll(room.ID)
	if err != nil {
		return nil, err
	}
	var units []*db.ObjectEntity
	for i := range children {
		if children[i].Active && children[i].Type == boundary.TypeAirConditioner {
			units = append(units, &children[i])
		}
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: no ACs in this room", ErrInvalidInput)
	}

	updated := make([]boundary.ObjectBoundary, 0, len(units))
	for _, unit := range units {
		if err := s.applyACState(unit, attrs); err != nil {
			return nil, err
		}
		updated = append(updated, *s.entityToBoundary(unit))
	}

	s.notify(cmd.InvokedBy.UserID.Email, fmt.Sprintf("All ACs in %s were updated", room.Alias))
	logger.Info("room %s: applied state to %d units", room.Alias, len(updated))
	return updated, nil
}

// handleVerifyACBySerialAdd checks a serial against the external registry
// and, when the registry knows it, creates an AirConditioner under the
// target room carrying the registry's current state. The created object is
// owned by the internal system operator, not the invoking end user.
func (s *CommandsService) handleVerifyACBySerialAdd(cmd *boundary.CommandBoundary) (any, error) {
	serial := boundary.ToString(cmd.CommandAttributes["serial"])
	if serial == "" {
		return nil, fmt.Errorf("%w: serial is required", ErrInvalidInput)
	}
	manufacturer := boundary.ToString(cmd.CommandAttributes["manufacturer"])
	if manufacturer == "" {
		return nil, fmt.Errorf("%w: manufacturer is required", ErrInvalidInput)
	}
	watts := boundary.ToFloat(cmd.CommandAttributes["wattsOfDevice"])
	if watts <= 0 {
		return nil, fmt.Errorf("%w: wattsOfDevice must be positive", ErrInvalidInput)
	}

	room, err := s.loadActiveTarget(cmd, boundary.TypeRoom)
	if err != nil {
		return nil, err
	}

	existing, err := s.objects.FindAllByType(boundary.TypeAirConditioner)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		var d boundary.AirConditionerDetails
		if decodeErr := boundary.DecodeDetails(existing[i].ObjectDetails, &d); decodeErr != nil {
			continue
		}
		if existing[i].Active && d.Serial == serial {
			return nil, fmt.Errorf("%w: an AC with serial %s is already registered", ErrInvalidInput, serial)
		}
	}

	state, err := s.registry.GetStateBySerial(serial)
	if err != nil {
		if errors.Is(err, acclient.ErrNotFound) {
			return nil, fmt.Errorf("%w: serial %s is not a known unit", ErrNotFound, serial)
		}
		return nil, fmt.Errorf("%w: %v", ErrExternalAPI, err)
	}

	if err := s.ensureSystemOperator(); err != nil {
		return nil, err
	}

	var prefs boundary.RoomDetails
	if err := boundary.DecodeDetails(room.ObjectDetails, &prefs); err != nil {
		return nil, fmt.Errorf("%w: room %s has malformed preferences: %v", ErrInvalidInput, room.Alias, err)
	}

	details := boundary.AirConditionerDetails{
		Serial:       serial,
		Manufacturer: manufacturer,
		Watts:        watts,
		Temperature:  prefs.Temperature,
		Mode:         prefs.Mode,
		FanSpeed:     prefs.FanSpeed,
	}

	// the registry's record wins over the room preferences
	if state.ACState != nil {
		if state.ACState.Manufacturer != "" {
			details.Manufacturer = state.ACState.Manufacturer
		}
		if state.ACState.Power != nil {
			details.Power = *state.ACState.Power
		}
		if state.ACState.Temperature != nil {
			details.Temperature = *state.ACState.Temperature
		}
		if state.ACState.Mode != nil {
			details.Mode = strings.ToUpper(*state.ACState.Mode)
		}
		if state.ACState.FanSpeed != nil {
			details.FanSpeed = strings.ToUpper(*state.ACState.FanSpeed)
		}
		if state.ACState.Motion != nil {
			details.Motion = *state.ACState.Motion
		}
	}

	status := boundary.StatusOff
	if details.Power {
		status = boundary.StatusOn
		details.StartDateTime = boundary.FormatTimestamp(s.now())
	}

	alias := boundary.ToString(cmd.CommandAttributes["alias"])
	if alias == "" {
		alias = "AC-" + serial
	}

	encoded, err := boundary.EncodeDetails(details)
	if err != nil {
		return nil, err
	}

	entity := &db.ObjectEntity{
		ID:                s.systemID + s.sep + uuid.NewString(),
		Type:              boundary.TypeAirConditioner,
		Alias:             alias,
		Status:            status,
		Active:            true,
		CreationTimestamp: boundary.FormatTimestamp(s.now()),
		CreatedBy:         boundary.CreatedBy{UserID: boundary.UserID{SystemID: s.systemID, Email: SystemOperatorEmail}},
		ObjectDetails:     encoded,
		ParentID:          room.ID,
	}
	if err := s.objects.Save(entity); err != nil {
		return nil, err
	}

	s.notify(cmd.InvokedBy.UserID.Email, fmt.Sprintf("%s was verified and added to %s", alias, room.Alias))
	logger.Info("verified serial %s, added %s under room %s", serial, alias, room.Alias)
	return s.entityToBoundary(entity), nil
}

// applyACState merges a validated attribute map onto one unit, persists it
// and mirrors the change to the external registry. Registry and bookkeeping
// failures are logged, never propagated: the local store is authoritative.
func (s *CommandsService) applyACState(entity *db.ObjectEntity, attrs map[string]any) error {
	var details boundary.AirConditionerDetails
	if err := boundary.DecodeDetails(entity.ObjectDetails, &details); err != nil {
		return fmt.Errorf("%w: %s carries malformed details: %v", ErrInvalidInput, entity.Alias, err)
	}

	if raw, ok := attrs["power"]; ok {
		power := raw.(bool)
		if power && !details.Power {
			details.StartDateTime = boundary.FormatTimestamp(s.now())
		}
		if !power && details.Power {
			s.bookPowerConsumption(entity, &details)
			details.StartDateTime = ""
		}
		details.Power = power
		if power {
			entity.Status = boundary.StatusOn
		} else {
			entity.Status = boundary.StatusOff
		}
	}
	if raw, ok := attrs["temperature"]; ok {
		details.Temperature = boundary.ToFloat(raw)
	}
	if raw, ok := attrs["mode"]; ok {
		details.Mode = raw.(string)
	}
	if raw, ok := attrs["fanSpeed"]; ok {
		details.FanSpeed = raw.(string)
	}

	encoded, err := boundary.EncodeDetails(details)
	if err != nil {
		return err
	}
	entity.ObjectDetails = encoded
	if err := s.objects.Save(entity); err != nil {
		return err
	}

	s.pushToRegistry(details.Serial, attrs)
	return nil
}

// pushToRegistry mirrors a state change onto the physical unit. The
// registry speaks lowercase mode and fan speed values, so the enums are
// lowered at this boundary only.
func (s *CommandsService) pushToRegistry(serial string, attrs map[string]any) {
	if serial == "" || s.registry == nil {
		return
	}
	push := map[string]any{}
	if v, ok := attrs["power"]; ok {
		push["power"] = v
	}
	if v, ok := attrs["temperature"]; ok {
		push["temperature"] = v
	}
	if v, ok := attrs["mode"]; ok {
		push["mode"] = strings.ToLower(boundary.ToString(v))
	}
	if v, ok := attrs["fanSpeed"]; ok {
		push["fanSpeed"] = strings.ToLower(boundary.ToString(v))
	}
	if len(push) == 0 {
		return
	}
	if _, err := s.registry.SetState(serial, push); err != nil {
		logger.Warn("registry push for serial %s failed: %v", serial, err)
	}
}

func (s *CommandsService) ensureSystemOperator() error {
	return EnsureSystemOperator(s.users, s.systemID, s.sep)
}

// EnsureSystemOperator provisions the internal operator account if a
// previous wipe removed it.
func EnsureSystemOperator(users *db.UserRepository, systemID, sep string) error {
	id := systemID + sep + SystemOperatorEmail
	_, err := users.FindByID(id)
	if err == nil {
		return nil
	}
	if !db.IsNotFound(err) {
		return err
	}
	return users.Save(&db.UserEntity{
		ID:       id,
		Role:     boundary.RoleOperator,
		Username: "InternalSystemOperator",
		Avatar:   "InternalSystemOperator",
	})
}
