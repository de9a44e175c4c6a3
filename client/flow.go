// client/flow.go

package client

import (
	"fmt"

	"airwise/internal/boundary"
	"airwise/internal/logger"
)

// CreateScheduledTask runs the three-step schedule flow: create the Task
// object, bind it under its unit, then confirm it with SCHEDULE_TASK. The
// steps are not atomic; when a later step fails the already-created task
// is compensated away with a cascade delete. Compensation is best effort,
// its own failures are logged and swallowed.
func (c *Client) CreateScheduledTask(acObjectID string, spec *TaskSpec, operatorEmail, userEmail string) (*boundary.ObjectBoundary, error) {
	task, err := c.CreateObject(c.pendingTaskBoundary(acObjectID, spec, operatorEmail))
	if err != nil {
		return nil, fmt.Errorf("creating task object: %w", err)
	}
	if task.ID == nil {
		return nil, fmt.Errorf("server returned a task without an id")
	}
	taskID := task.ID.ObjectID

	if err := c.BindChild(acObjectID, taskID, operatorEmail); err != nil {
		c.compensate(taskID, userEmail)
		return nil, fmt.Errorf("binding task under unit: %w", err)
	}

	cmd := c.NewCommand(boundary.CommandScheduleTask, taskID, userEmail, spec.Attributes())
	if _, err := c.InvokeCommand(cmd); err != nil {
		c.compensate(taskID, userEmail)
		return nil, fmt.Errorf("scheduling task: %w", err)
	}

	scheduled, err := c.GetObject(taskID, userEmail)
	if err != nil {
		// the schedule went through; return what we already have
		logger.Warn("re-fetching scheduled task %s failed: %v", taskID, err)
		return task, nil
	}
	return scheduled, nil
}

// compensate removes an orphaned task left behind by a failed flow step.
func (c *Client) compensate(taskID, userEmail string) {
	cmd := c.NewCommand(boundary.CommandDeleteEntityWithChilds, taskID, userEmail, map[string]any{})
	if _, err := c.InvokeCommand(cmd); err != nil {
		logger.Warn("cleanup of orphaned task %s failed: %v", taskID, err)
	}
}
