package boundary

import "time"

// Object type tags. The set is closed; anything else is rejected on create.
const (
	TypeTenant         = "Tenant"
	TypeSite           = "Site"
	TypeRoom           = "Room"
	TypeAirConditioner = "AirConditioner"
	TypeTask           = "Task"
	TypeSettings       = "Settings"
	TypeNotification   = "Notification"
	TypeUser           = "User"
)

// User roles.
const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
	RoleEndUser  = "END_USER"
)

// Actions and the AC status values derived from them. An AC whose status is
// StatusOn counts as active for the aggregate counters.
const (
	ActionTurnOn  = "TURN_ON"
	ActionTurnOff = "TURN_OFF"

	StatusOn  = ActionTurnOn
	StatusOff = ActionTurnOff
)

// Task lifecycle statuses.
const (
	TaskStatusActive    = "ACTIVE"
	TaskStatusInactive  = "INACTIVE"
	TaskStatusExecuted  = "EXECUTED"
	TaskStatusScheduled = "SCHEDULED"
	TaskStatusFailed    = "FAILED"
)

// Task repeat patterns.
const (
	RepeatOnce         = "ONCE"
	RepeatEveryDay     = "EVERY_DAY"
	RepeatEveryWeekday = "EVERY_WEEKDAY"
	RepeatWeekends     = "WEEKENDS"
)

// AC temperature bounds, inclusive.
const (
	MinTemperature = 16.0
	MaxTemperature = 30.0
)

// ValidMode reports whether mode is one of the uppercase AC modes used by
// the main system. The demo AC registry validates its own lowercase set; the
// two are intentionally not unified.
func ValidMode(mode string) bool {
	switch mode {
	case "COOL", "HEAT", "FAN", "DRY", "AUTO":
		return true
	}
	return false
}

// ValidFanSpeed reports whether fanSpeed is one of the uppercase fan speeds.
func ValidFanSpeed(fanSpeed string) bool {
	switch fanSpeed {
	case "AUTO", "LOW", "MEDIUM", "HIGH":
		return true
	}
	return false
}

// ValidAction reports whether action is a known schedule action.
func ValidAction(action string) bool {
	return action == ActionTurnOn || action == ActionTurnOff
}

// ValidRepeat reports whether repeat is a known repeat pattern.
func ValidRepeat(repeat string) bool {
	switch repeat {
	case RepeatOnce, RepeatEveryDay, RepeatEveryWeekday, RepeatWeekends:
		return true
	}
	return false
}

// ValidType reports whether t belongs to the closed object type set.
func ValidType(t string) bool {
	switch t {
	case TypeTenant, TypeSite, TypeRoom, TypeAirConditioner, TypeTask,
		TypeSettings, TypeNotification, TypeUser:
		return true
	}
	return false
}

// TimestampLayout is the wire format of creation and invocation timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000-0700"

// ClockLayout is the HH:mm format of task start and end times.
const ClockLayout = "15:04"

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
