package validation

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"airwise/internal/boundary"
)

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// Validator checks request inputs against the deployment's systemID and the
// closed enums of the domain. It reports what is wrong; the services decide
// which error class that maps to.
type Validator struct {
	systemID string
}

func New(systemID string) *Validator {
	return &Validator{systemID: systemID}
}

func (v *Validator) ValidSystemID(systemID string) bool {
	return systemID != "" && systemID == v.systemID
}

func (v *Validator) ValidObjectID(id boundary.ObjectID) bool {
	return v.ValidSystemID(id.SystemID) && id.ObjectID != ""
}

func (v *Validator) ValidUserID(id boundary.UserID) bool {
	return v.ValidSystemID(id.SystemID) && v.ValidEmail(id.Email)
}

func (v *Validator) ValidEmail(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

func (v *Validator) ValidRole(role string) bool {
	return role == boundary.RoleAdmin || role == boundary.RoleOperator || role == boundary.RoleEndUser
}

func (v *Validator) CheckPagination(size, page int) error {
	if size <= 0 {
		return errors.New("invalid input - size param is invalid")
	}
	if page < 0 {
		return errors.New("invalid input - page param is invalid")
	}
	return nil
}

// CheckObjectBoundary validates a create/update payload: alias, status and a
// type from the closed tag set, plus a well-formed owner.
func (v *Validator) CheckObjectBoundary(obj *boundary.ObjectBoundary) error {
	if obj == nil {
		return errors.New("invalid input - object boundary cannot be nil")
	}
	if obj.Alias == "" {
		return errors.New("invalid input - object alias cannot be empty")
	}
	if obj.Status == "" {
		return errors.New("invalid input - object status cannot be empty")
	}
	if !boundary.ValidType(obj.Type) {
		return fmt.Errorf("invalid input - unknown object type: %q", obj.Type)
	}
	if obj.CreatedBy == nil || !v.ValidUserID(obj.CreatedBy.UserID) {
		return errors.New("invalid input - object createdBy is invalid")
	}
	return nil
}

// CheckCommandBoundary validates the command envelope, not the attributes;
// those are checked per command by the dispatcher.
func (v *Validator) CheckCommandBoundary(cmd *boundary.CommandBoundary) error {
	if cmd == nil {
		return errors.New("invalid input - command boundary cannot be nil")
	}
	if !v.ValidObjectID(cmd.TargetObject.ID) {
		return errors.New("invalid input - targetObject is invalid")
	}
	if !v.ValidUserID(cmd.InvokedBy.UserID) {
		return errors.New("invalid input - invokedBy is invalid")
	}
	if cmd.Command == "" {
		return errors.New("invalid input - command is invalid")
	}
	return nil
}

// CheckACStateAttrs validates an AC state payload. When partial is true only
// the attributes present in the map are checked; absent fields are simply
// left untouched by the update. When partial is false all four fields must
// be present and valid.
func (v *Validator) CheckACStateAttrs(attrs map[string]any, partial bool) error {
	if !partial {
		for _, key := range []string{"power", "temperature", "mode", "fanSpeed"} {
			if _, ok := attrs[key]; !ok {
				return errors.New("fields required: [power, temperature, mode, fanSpeed] must be provided")
			}
		}
	}

	if raw, ok := attrs["power"]; ok {
		if _, isBool := raw.(bool); !isBool {
			return errors.New("invalid value for 'power': expected boolean")
		}
	}
	if raw, ok := attrs["temperature"]; ok {
		if _, isNum := raw.(float64); !isNum {
			return errors.New("invalid value for 'temperature': expected number")
		}
		t := boundary.ToFloat(raw)
		if t < boundary.MinTemperature || t > boundary.MaxTemperature {
			return fmt.Errorf("temperature must be between %.0f and %.0f", boundary.MinTemperature, boundary.MaxTemperature)
		}
	}
	if raw, ok := attrs["mode"]; ok {
		mode, isStr := raw.(string)
		if !isStr || !boundary.ValidMode(mode) {
			return fmt.Errorf("invalid AC mode: %v", raw)
		}
	}
	if raw, ok := attrs["fanSpeed"]; ok {
		fanSpeed, isStr := raw.(string)
		if !isStr || !boundary.ValidFanSpeed(fanSpeed) {
			return fmt.Errorf("invalid fan speed: %v", raw)
		}
	}
	return nil
}

// CheckScheduleTaskAttrs validates the SCHEDULE_TASK attributes: base
// fields, HH:mm times, and custom preferences when the task does not reuse
// the AC's current ones. TURN_ON tasks need an end of window.
func (v *Validator) CheckScheduleTaskAttrs(attrs map[string]any) error {
	for _, key := range []string{"taskName", "action", "startTime", "repeat"} {
		if attrs[key] == nil {
			return errors.New("missing required fields: taskName, action, startTime, repeat")
		}
	}

	action := boundary.ToString(attrs["action"])
	if !boundary.ValidAction(action) {
		return fmt.Errorf("invalid action: %q, must be TURN_ON or TURN_OFF", action)
	}

	repeat := boundary.ToString(attrs["repeat"])
	if !boundary.ValidRepeat(repeat) {
		return fmt.Errorf("invalid repeat pattern: %q", repeat)
	}

	startTime, err := time.Parse(boundary.ClockLayout, boundary.ToString(attrs["startTime"]))
	if err != nil {
		return errors.New("invalid format for startTime, expected HH:mm")
	}

	if action == boundary.ActionTurnOn {
		endTime, err := time.Parse(boundary.ClockLayout, boundary.ToString(attrs["endTime"]))
		if err != nil {
			return errors.New("invalid format for endTime, expected HH:mm")
		}
		if !endTime.After(startTime) {
			return errors.New("end time must be after start time")
		}
	}

	useCurrent := true
	if raw, ok := attrs["useCurrentPreferences"]; ok {
		useCurrent = boundary.ToBool(raw)
	}
	if !useCurrent {
		if attrs["temperature"] == nil || attrs["mode"] == nil || attrs["fanSpeed"] == nil {
			return errors.New("missing custom preferences: temperature, mode, fanSpeed")
		}
		prefs := map[string]any{
			"power":       action == boundary.ActionTurnOn,
			"temperature": attrs["temperature"],
			"mode":        attrs["mode"],
			"fanSpeed":    attrs["fanSpeed"],
		}
		if err := v.CheckACStateAttrs(prefs, false); err != nil {
			return err
		}
	}
	return nil
}
