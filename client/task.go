// client/task.go

package client

import (
	"fmt"

	"airwise/internal/boundary"
)

// TaskSpec is the client-side description of a schedule before it is
// submitted. Preferences matter only when the task turns the unit on; a
// TURN_OFF task carries none.
type TaskSpec struct {
	Name        string
	Action      string
	StartTime   string
	EndTime     string
	Repeat      string
	Temperature float64
	Mode        string
	FanSpeed    string

	// UseCurrentPreferences tells the server to snapshot the unit's own
	// state instead of the values above.
	UseCurrentPreferences bool
}

// Attributes builds the SCHEDULE_TASK command attributes. The preference
// fields are attached only for TURN_ON tasks that do not reuse the unit's
// current state.
func (t *TaskSpec) Attributes() map[string]any {
	attrs := map[string]any{
		"taskName":              t.Name,
		"action":                t.Action,
		"startTime":             t.StartTime,
		"repeat":                t.Repeat,
		"useCurrentPreferences": t.UseCurrentPreferences,
	}
	if t.Action == boundary.ActionTurnOn {
		attrs["endTime"] = t.EndTime
	}
	if t.Action != boundary.ActionTurnOff && !t.UseCurrentPreferences {
		attrs["temperature"] = t.Temperature
		attrs["mode"] = t.Mode
		attrs["fanSpeed"] = t.FanSpeed
	}
	return attrs
}

// ToggleTask flips a task between ACTIVE and INACTIVE via fetch-then-put.
// Tasks in any other lifecycle state (SCHEDULED, EXECUTED, FAILED) belong to
// the scheduler and are left alone. Returns the status after the flip.
func (c *Client) ToggleTask(taskID, userEmail string) (string, error) {
	task, err := c.GetObject(taskID, userEmail)
	if err != nil {
		return "", err
	}
	switch task.Status {
	case boundary.TaskStatusActive:
		task.Status = boundary.TaskStatusInactive
	case boundary.TaskStatusInactive:
		task.Status = boundary.TaskStatusActive
	default:
		return "", fmt.Errorf("task %s is %s and cannot be toggled", taskID, task.Status)
	}
	if err := c.UpdateObject(taskID, task, userEmail); err != nil {
		return "", err
	}
	return task.Status, nil
}

// pendingTaskBoundary builds the object created before the task is
// confirmed: an ACTIVE Task carrying the schedule details, which the
// SCHEDULE_TASK command later replaces with the canonical server-side
// shape. The target unit's state rides along only when the task turns
// the unit on.
func (c *Client) pendingTaskBoundary(acObjectID string, spec *TaskSpec, operatorEmail string) *boundary.ObjectBoundary {
	details := map[string]any{
		"name":                  spec.Name,
		"action":                spec.Action,
		"startTime":             spec.StartTime,
		"endTime":               spec.EndTime,
		"repeat":                spec.Repeat,
		"useCurrentPreferences": spec.UseCurrentPreferences,
		"targetAC": map[string]any{
			"systemID": c.systemID,
			"objectId": acObjectID,
		},
	}
	if spec.Action != boundary.ActionTurnOff {
		details["acState"] = map[string]any{
			"power":       true,
			"temperature": spec.Temperature,
			"mode":        spec.Mode,
			"fanSpeed":    spec.FanSpeed,
		}
	}
	return &boundary.ObjectBoundary{
		Type:   boundary.TypeTask,
		Alias:  spec.Name,
		Status: boundary.TaskStatusActive,
		Active: true,
		CreatedBy: &boundary.CreatedBy{
			UserID: boundary.UserID{SystemID: c.systemID, Email: operatorEmail},
		},
		ObjectDetails: details,
	}
}
