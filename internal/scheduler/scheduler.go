// internal/scheduler/scheduler.go

package scheduler

import (
	"time"

	"airwise/internal/boundary"
	"airwise/internal/db"
	"airwise/internal/logger"
	"airwise/internal/service"
)

// Scheduler drives the confirmed tasks. Once a minute it fires every task
// whose start time matches the wall clock, closes TURN_ON windows whose
// end time has come, and at midnight re-arms recurring tasks that already
// ran. All clock comparisons are minute-granular.
type Scheduler struct {
	objects  *db.ObjectRepository
	commands *service.CommandsService
	interval time.Duration
	now      func() time.Time
	stopChan chan struct{}
}

func New(objects *db.ObjectRepository, commands *service.CommandsService) *Scheduler {
	return &Scheduler{
		objects:  objects,
		commands: commands,
		interval: time.Minute,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	go s.run()
	logger.Info("Task scheduler started with interval: %v", s.interval)
}

func (s *Scheduler) Stop() {
	close(s.stopChan)
	logger.Info("Task scheduler stopped")
}

func (s *Scheduler) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := s.now()
			s.Tick(now)
		case <-s.stopChan:
			return
		}
	}
}

// Tick is one scheduler pass for the given instant. Exposed so tests can
// drive the clock directly.
func (s *Scheduler) Tick(now time.Time) {
	clock := now.Format(boundary.ClockLayout)
	if clock == "00:00" {
		s.ResetRecurring(now)
	}
	s.RunDue(now)
	s.CloseWindows(now)
}

// RunDue fires every scheduled task whose start time matches this minute
// and whose repeat pattern covers today. A task that runs moves to
// EXECUTED; a task whose unit could not be driven moves to FAILED.
func (s *Scheduler) RunDue(now time.Time) {
	tasks, err := s.objects.FindActiveByTypeAndStatus(boundary.TypeTask, boundary.TaskStatusScheduled)
	if err != nil {
		logger.Error("scheduler sweep failed: %v", err)
		return
	}
	clock := now.Format(boundary.ClockLayout)

	for i := range tasks {
		task := &tasks[i]
		var details boundary.TaskDetails
		if err := boundary.DecodeDetails(task.ObjectDetails, &details); err != nil {
			logger.Warn("task %s carries malformed details, skipping: %v", task.Alias, err)
			continue
		}
		if details.StartTime != clock || !runsToday(details.Repeat, now.Weekday()) {
			continue
		}

		turnOn := details.Action == boundary.ActionTurnOn
		execErr := s.commands.ExecuteTask(task, turnOn)

		details.LastExecution = boundary.FormatTimestamp(now)
		if execErr != nil {
			logger.Error("task %s failed: %v", details.TaskName, execErr)
			task.Status = boundary.TaskStatusFailed
		} else {
			logger.Info("task %s executed (%s)", details.TaskName, details.Action)
			task.Status = boundary.TaskStatusExecuted
		}
		if encoded, err := boundary.EncodeDetails(details); err == nil {
			task.ObjectDetails = encoded
		}
		if err := s.objects.Save(task); err != nil {
			logger.Error("saving task %s after execution failed: %v", details.TaskName, err)
		}
	}
}

// CloseWindows turns units back off when a TURN_ON task's end time
// arrives. The task keeps its EXECUTED status; only the unit changes.
// A window closes only on the day the task ran: an EXECUTED one-shot
// must not force the unit off again on later days.
func (s *Scheduler) CloseWindows(now time.Time) {
	tasks, err := s.objects.FindActiveByTypeAndStatus(boundary.TypeTask, boundary.TaskStatusExecuted)
	if err != nil {
		logger.Error("scheduler window sweep failed: %v", err)
		return
	}
	clock := now.Format(boundary.ClockLayout)

	for i := range tasks {
		task := &tasks[i]
		var details boundary.TaskDetails
		if err := boundary.DecodeDetails(task.ObjectDetails, &details); err != nil {
			continue
		}
		if details.Action != boundary.ActionTurnOn || details.EndTime != clock {
			continue
		}
		last, err := boundary.ParseTimestamp(details.LastExecution)
		if err != nil || !sameDay(last.In(now.Location()), now) {
			continue
		}
		if err := s.commands.ExecuteTask(task, false); err != nil {
			logger.Error("closing window of task %s failed: %v", details.TaskName, err)
		} else {
			logger.Info("task %s window closed", details.TaskName)
		}
	}
}

// ResetRecurring re-arms every recurring task that ran: at the day
// boundary EXECUTED goes back to SCHEDULED. One-shot tasks stay executed.
func (s *Scheduler) ResetRecurring(now time.Time) {
	tasks, err := s.objects.FindActiveByTypeAndStatus(boundary.TypeTask, boundary.TaskStatusExecuted)
	if err != nil {
		logger.Error("scheduler reset sweep failed: %v", err)
		return
	}

	reset := 0
	for i := range tasks {
		task := &tasks[i]
		var details boundary.TaskDetails
		if err := boundary.DecodeDetails(task.ObjectDetails, &details); err != nil {
			continue
		}
		if details.Repeat == boundary.RepeatOnce {
			continue
		}
		task.Status = boundary.TaskStatusScheduled
		if err := s.objects.Save(task); err != nil {
			logger.Error("re-arming task %s failed: %v", details.TaskName, err)
			continue
		}
		reset++
	}
	if reset > 0 {
		logger.Info("re-armed %d recurring tasks at %s", reset, now.Format("2006-01-02"))
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func runsToday(repeat string, day time.Weekday) bool {
	switch repeat {
	case boundary.RepeatOnce, boundary.RepeatEveryDay:
		return true
	case boundary.RepeatEveryWeekday:
		return day != time.Saturday && day != time.Sunday
	case boundary.RepeatWeekends:
		return day == time.Saturday || day == time.Sunday
	}
	return false
}
