package boundary

import (
	"encoding/json"
	"fmt"
)

// The objectDetails bag is dynamically shaped on the wire, but its meaning
// is fixed by the type tag. Each entity kind gets its own detail struct and
// callers pattern-match on the tag instead of digging through untyped maps.

// ACState is the externally visible state of one air conditioner unit.
// Pointer fields distinguish "absent" from zero values: a partial update
// only touches the fields that are present.
type ACState struct {
	Serial       string   `json:"serial,omitempty"`
	Power        *bool    `json:"power,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	Mode         *string  `json:"mode,omitempty"`
	FanSpeed     *string  `json:"fanSpeed,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Motion       *bool    `json:"motion,omitempty"`
}

// AirConditionerDetails is the objectDetails shape of an AirConditioner.
type AirConditionerDetails struct {
	Serial        string  `json:"serial"`
	Manufacturer  string  `json:"manufacturer"`
	Watts         float64 `json:"watts"`
	Power         bool    `json:"power"`
	Temperature   float64 `json:"temperature"`
	Mode          string  `json:"mode"`
	FanSpeed      string  `json:"fanSpeed"`
	Motion        bool    `json:"motion,omitempty"`
	StartDateTime string  `json:"startDateTime,omitempty"`
}

// RoomDetails carries the room-level AC preferences every unit added to the
// room inherits.
type RoomDetails struct {
	Temperature float64 `json:"temperature"`
	Mode        string  `json:"mode"`
	FanSpeed    string  `json:"fanSpeed"`
}

// PowerConsumptionLog is one day of accumulated runtime for a site.
type PowerConsumptionLog struct {
	Date    string  `json:"date"`
	Runtime float64 `json:"runtime"`
	KWh     float64 `json:"kwh"`
	Cost    float64 `json:"cost"`
}

// SiteDetails is the objectDetails shape of a Site. InSite marks the
// tenant as present; a site whose tenant is away is watched by the
// security monitor.
type SiteDetails struct {
	Location             string                `json:"location,omitempty"`
	InSite               bool                  `json:"inSite,omitempty"`
	PowerConsumptionLogs []PowerConsumptionLog `json:"powerConsumptionLogs,omitempty"`
}

// TaskDetails is the canonical server-side shape of a scheduled task after
// SCHEDULE_TASK has confirmed it.
type TaskDetails struct {
	TaskName      string  `json:"taskName"`
	Action        string  `json:"action"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime,omitempty"`
	Repeat        string  `json:"repeat"`
	Temperature   float64 `json:"temperature"`
	Mode          string  `json:"mode"`
	FanSpeed      string  `json:"fanSpeed"`
	LastExecution string  `json:"lastExecution,omitempty"`
}

// SettingsDetails is the per-tenant settings object, looked up via the
// "Settings-<tenantId>" alias.
type SettingsDetails struct {
	CostPerKwh float64 `json:"costPerKwh"`
	VATRate    float64 `json:"vatRate"`
}

// NotificationDetails is the payload of a Notification object.
type NotificationDetails struct {
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// DecodeDetails maps the untyped bag into one of the typed detail structs.
func DecodeDetails(details map[string]any, out any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// EncodeDetails turns a typed detail struct back into the wire-level bag.
func EncodeDetails(in any) (map[string]any, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AirConditioner decodes the boundary's details as an AirConditioner.
func (b *ObjectBoundary) AirConditioner() (*AirConditionerDetails, error) {
	if b.Type != TypeAirConditioner {
		return nil, fmt.Errorf("object %s is a %s, not an AirConditioner", b.Alias, b.Type)
	}
	var d AirConditionerDetails
	if err := DecodeDetails(b.ObjectDetails, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Room decodes the boundary's details as a Room.
func (b *ObjectBoundary) Room() (*RoomDetails, error) {
	if b.Type != TypeRoom {
		return nil, fmt.Errorf("object %s is a %s, not a Room", b.Alias, b.Type)
	}
	var d RoomDetails
	if err := DecodeDetails(b.ObjectDetails, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Task decodes the boundary's details as a Task.
func (b *ObjectBoundary) Task() (*TaskDetails, error) {
	if b.Type != TypeTask {
		return nil, fmt.Errorf("object %s is a %s, not a Task", b.Alias, b.Type)
	}
	var d TaskDetails
	if err := DecodeDetails(b.ObjectDetails, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Settings decodes the boundary's details as Settings.
func (b *ObjectBoundary) Settings() (*SettingsDetails, error) {
	if b.Type != TypeSettings {
		return nil, fmt.Errorf("object %s is a %s, not Settings", b.Alias, b.Type)
	}
	var d SettingsDetails
	if err := DecodeDetails(b.ObjectDetails, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
