// client/flow_test.go

package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"airwise/internal/boundary"
)

// flowServer fakes the three endpoints the schedule flow touches and
// records every command it receives.
type flowServer struct {
	*httptest.Server
	failBind     bool
	failSchedule bool
	commands     []boundary.CommandBoundary
	binds        int
}

func newFlowServer(t *testing.T) *flowServer {
	t.Helper()
	fs := &flowServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/objects":
			created := boundary.ObjectBoundary{
				ID:     &boundary.ObjectID{SystemID: "airwise", ObjectID: "task-1"},
				Type:   boundary.TypeTask,
				Alias:  "morning cool",
				Status: boundary.TaskStatusActive,
				Active: true,
			}
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(created)

		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/children"):
			fs.binds++
			if fs.failBind {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"parent object not found"}`))
				return
			}
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodPost && r.URL.Path == "/commands":
			var cmd boundary.CommandBoundary
			_ = json.NewDecoder(r.Body).Decode(&cmd)
			fs.commands = append(fs.commands, cmd)
			if cmd.Command == boundary.CommandScheduleTask && fs.failSchedule {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"end time must be after start time"}`))
				return
			}
			_, _ = w.Write([]byte(`{"status":"SCHEDULED"}`))

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/objects/"):
			scheduled := boundary.ObjectBoundary{
				ID:     &boundary.ObjectID{SystemID: "airwise", ObjectID: "task-1"},
				Type:   boundary.TypeTask,
				Alias:  "morning cool",
				Status: boundary.TaskStatusScheduled,
				Active: true,
			}
			_ = json.NewEncoder(w).Encode(scheduled)

		default:
			http.NotFound(w, r)
		}
	}))
	return fs
}

func spec() *TaskSpec {
	return &TaskSpec{
		Name: "morning cool", Action: boundary.ActionTurnOn,
		StartTime: "07:00", EndTime: "09:00", Repeat: boundary.RepeatEveryDay,
		UseCurrentPreferences: true,
	}
}

func TestCreateScheduledTask(t *testing.T) {
	t.Run("Happy Path Creates Binds And Schedules", func(t *testing.T) {
		srv := newFlowServer(t)
		defer srv.Close()

		c := New(srv.URL, "airwise")
		task, err := c.CreateScheduledTask("ac-1", spec(), "operator@test.com", "tenant@test.com")
		require.NoError(t, err)
		require.Equal(t, boundary.TaskStatusScheduled, task.Status)
		require.Equal(t, 1, srv.binds)
		require.Len(t, srv.commands, 1)
		require.Equal(t, boundary.CommandScheduleTask, srv.commands[0].Command)
		require.Equal(t, "task-1", srv.commands[0].TargetObject.ID.ObjectID, "the command targets the task, not the unit")
	})

	t.Run("Bind Failure Compensates The Orphan", func(t *testing.T) {
		srv := newFlowServer(t)
		srv.failBind = true
		defer srv.Close()

		c := New(srv.URL, "airwise")
		_, err := c.CreateScheduledTask("ac-1", spec(), "operator@test.com", "tenant@test.com")
		require.Error(t, err)

		require.Len(t, srv.commands, 1)
		require.Equal(t, boundary.CommandDeleteEntityWithChilds, srv.commands[0].Command)
		require.Equal(t, "task-1", srv.commands[0].TargetObject.ID.ObjectID)
	})

	t.Run("Schedule Failure Compensates The Orphan", func(t *testing.T) {
		srv := newFlowServer(t)
		srv.failSchedule = true
		defer srv.Close()

		c := New(srv.URL, "airwise")
		_, err := c.CreateScheduledTask("ac-1", spec(), "operator@test.com", "tenant@test.com")
		require.Error(t, err)

		require.Len(t, srv.commands, 2)
		require.Equal(t, boundary.CommandScheduleTask, srv.commands[0].Command)
		require.Equal(t, boundary.CommandDeleteEntityWithChilds, srv.commands[1].Command)
	})
}
