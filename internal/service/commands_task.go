package service

import (
	"fmt"

	"airwise/internal/boundary"
	"airwise/internal/db"
	"airwise/internal/logger"
)

// handleScheduleTask confirms a pending task. The target of the command is
// the Task object itself; the unit it controls is the task's structural
// parent. The task must therefore already exist and be bound under an
// AirConditioner before the command arrives.
func (s *CommandsService) handleScheduleTask(cmd *boundary.CommandBoundary) (any, error) {
	if err := s.validator.CheckScheduleTaskAttrs(cmd.CommandAttributes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	task, err := s.loadActiveTarget(cmd, boundary.TypeTask)
	if err != nil {
		return nil, err
	}
	if task.ParentID == "" {
		return nil, fmt.Errorf("%w: task %s is not bound to a unit", ErrInvalidInput, task.Alias)
	}

	unit, err := s.objects.FindByID(task.ParentID)
	if err != nil {
		return nil, err
	}
	if unit.Type != boundary.TypeAirConditioner {
		return nil, fmt.Errorf("%w: task %s is bound to a %s, expected an AirConditioner", ErrInvalidInput, task.Alias, unit.Type)
	}

	attrs := cmd.CommandAttributes
	details := boundary.TaskDetails{
		TaskName:  boundary.ToString(attrs["taskName"]),
		Action:    boundary.ToString(attrs["action"]),
		StartTime: boundary.ToString(attrs["startTime"]),
		EndTime:   boundary.ToString(attrs["endTime"]),
		Repeat:    boundary.ToString(attrs["repeat"]),
	}

	useCurrent := true
	if raw, ok := attrs["useCurrentPreferences"]; ok {
		useCurrent = boundary.ToBool(raw)
	}
	if useCurrent {
		var unitDetails boundary.AirConditionerDetails
		if err := boundary.DecodeDetails(unit.ObjectDetails, &unitDetails); err != nil {
			return nil, fmt.Errorf("%w: unit %s carries malformed details: %v", ErrInvalidInput, unit.Alias, err)
		}
		details.Temperature = unitDetails.Temperature
		details.Mode = unitDetails.Mode
		details.FanSpeed = unitDetails.FanSpeed
	} else {
		details.Temperature = boundary.ToFloat(attrs["temperature"])
		details.Mode = boundary.ToString(attrs["mode"])
		details.FanSpeed = boundary.ToString(attrs["fanSpeed"])
	}

	encoded, err := boundary.EncodeDetails(details)
	if err != nil {
		return nil, err
	}
	task.ObjectDetails = encoded
	task.Status = boundary.TaskStatusScheduled
	if err := s.objects.Save(task); err != nil {
		return nil, err
	}

	s.notify(cmd.InvokedBy.UserID.Email, fmt.Sprintf("Task %q was scheduled for %s at %s", details.TaskName, unit.Alias, details.StartTime))
	logger.Info("scheduled task %s (%s %s) on %s", details.TaskName, details.Action, details.StartTime, unit.Alias)
	return s.entityToBoundary(task), nil
}

// ExecuteTask applies one confirmed task to its unit. turnOn overrides the
// task's own action so the scheduler can close a TURN_ON window with the
// opposite state. The task's saved preferences ride along only when the
// unit is being turned on.
func (s *CommandsService) ExecuteTask(task *db.ObjectEntity, turnOn bool) error {
	if task.ParentID == "" {
		return fmt.Errorf("%w: task %s is not bound to a unit", ErrInvalidInput, task.Alias)
	}
	unit, err := s.objects.FindByID(task.ParentID)
	if err != nil {
		return err
	}

	var details boundary.TaskDetails
	if err := boundary.DecodeDetails(task.ObjectDetails, &details); err != nil {
		return fmt.Errorf("%w: task %s carries malformed details: %v", ErrInvalidInput, task.Alias, err)
	}

	attrs := map[string]any{"power": turnOn}
	if turnOn {
		attrs["temperature"] = details.Temperature
		attrs["mode"] = details.Mode
		attrs["fanSpeed"] = details.FanSpeed
	}
	return s.applyACState(unit, attrs)
}
