package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"airwise/internal/acclient"
	"airwise/internal/boundary"
	"airwise/internal/db"
	"airwise/internal/validation"
)

const (
	testSystemID = "airwise"
	testSep      = "#::#"

	operatorEmail = "operator@test.com"
	endUserEmail  = "tenant@test.com"
)

type stubRegistry struct {
	states map[string]*acclient.Response
	pushes []map[string]any
}

func (s *stubRegistry) GetStateBySerial(serial string) (*acclient.Response, error) {
	if r, ok := s.states[serial]; ok {
		return r, nil
	}
	return nil, acclient.ErrNotFound
}

func (s *stubRegistry) SetState(serial string, attrs map[string]any) (*acclient.Response, error) {
	s.pushes = append(s.pushes, attrs)
	return &acclient.Response{Message: "AC state updated"}, nil
}

type testEnv struct {
	objects  *ObjectsService
	commands *CommandsService
	repo     *db.ObjectRepository
	users    *db.UserRepository
	registry *stubRegistry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.Init(":memory:")
	require.NoError(t, err)

	userRepo := db.NewUserRepository(database)
	objectRepo := db.NewObjectRepository(database)
	commandRepo := db.NewCommandRepository(database)

	require.NoError(t, userRepo.Save(&db.UserEntity{
		ID: testSystemID + testSep + operatorEmail, Role: boundary.RoleOperator, Username: "op", Avatar: "op",
	}))
	require.NoError(t, userRepo.Save(&db.UserEntity{
		ID: testSystemID + testSep + endUserEmail, Role: boundary.RoleEndUser, Username: "tenant", Avatar: "tenant",
	}))

	validator := validation.New(testSystemID)
	authz := NewAuthorizer(userRepo, validator, testSystemID, testSep)
	registry := &stubRegistry{states: map[string]*acclient.Response{}}

	return &testEnv{
		objects:  NewObjectsService(objectRepo, validator, authz, testSystemID, testSep),
		commands: NewCommandsService(objectRepo, commandRepo, userRepo, validator, authz, registry, testSystemID, testSep),
		repo:     objectRepo,
		users:    userRepo,
		registry: registry,
	}
}

func (e *testEnv) create(t *testing.T, objType, alias, status string, details map[string]any) *boundary.ObjectBoundary {
	t.Helper()
	created, err := e.objects.Create(&boundary.ObjectBoundary{
		Type:   objType,
		Alias:  alias,
		Status: status,
		Active: true,
		CreatedBy: &boundary.CreatedBy{
			UserID: boundary.UserID{SystemID: testSystemID, Email: operatorEmail},
		},
		ObjectDetails: details,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	return created
}

func (e *testEnv) bind(t *testing.T, parent, child *boundary.ObjectBoundary) {
	t.Helper()
	require.NoError(t, e.objects.Bind(testSystemID, parent.ID.ObjectID, *child.ID, testSystemID, operatorEmail))
}

func (e *testEnv) invoke(command, targetID string, attrs map[string]any) (any, error) {
	return e.commands.Invoke(&boundary.CommandBoundary{
		Command: command,
		TargetObject: boundary.TargetObject{
			ID: boundary.ObjectID{SystemID: testSystemID, ObjectID: targetID},
		},
		InvokedBy: boundary.InvokedBy{
			UserID: boundary.UserID{SystemID: testSystemID, Email: endUserEmail},
		},
		CommandAttributes: attrs,
	})
}

func (e *testEnv) newAC(t *testing.T, alias, serial string, power bool) *boundary.ObjectBoundary {
	t.Helper()
	status := boundary.StatusOff
	if power {
		status = boundary.StatusOn
	}
	return e.create(t, boundary.TypeAirConditioner, alias, status, map[string]any{
		"serial":      serial,
		"watts":       1200.0,
		"power":       power,
		"temperature": 24.0,
		"mode":        "COOL",
		"fanSpeed":    "AUTO",
	})
}

func TestUpdateACStateCommand(t *testing.T) {
	t.Run("Partial Merge By Presence", func(t *testing.T) {
		env := newTestEnv(t)
		ac := env.newAC(t, "living room ac", "S1", false)

		result, err := env.invoke(boundary.CommandUpdateACState, ac.ID.ObjectID, map[string]any{
			"power":       true,
			"temperature": 26.0,
		})
		require.NoError(t, err)

		updated := result.(*boundary.ObjectBoundary)
		require.Equal(t, boundary.StatusOn, updated.Status)

		details, err := updated.AirConditioner()
		require.NoError(t, err)
		require.True(t, details.Power)
		require.Equal(t, 26.0, details.Temperature)
		require.Equal(t, "COOL", details.Mode, "absent mode must stay untouched")
		require.Equal(t, "AUTO", details.FanSpeed, "absent fanSpeed must stay untouched")
		require.NotEmpty(t, details.StartDateTime, "power on must stamp a start time")

		require.Len(t, env.registry.pushes, 1)
		require.Equal(t, true, env.registry.pushes[0]["power"])
	})

	t.Run("Invalid Temperature Leaves No Side Effects", func(t *testing.T) {
		env := newTestEnv(t)
		ac := env.newAC(t, "bedroom ac", "S2", false)

		_, err := env.invoke(boundary.CommandUpdateACState, ac.ID.ObjectID, map[string]any{
			"power":       true,
			"temperature": 35.0,
		})
		require.ErrorIs(t, err, ErrInvalidInput)

		stored, err := env.objects.Get(testSystemID, ac.ID.ObjectID, testSystemID, operatorEmail)
		require.NoError(t, err)
		require.Equal(t, boundary.StatusOff, stored.Status)
		details, err := stored.AirConditioner()
		require.NoError(t, err)
		require.False(t, details.Power)
		require.Equal(t, 24.0, details.Temperature)
		require.Empty(t, env.registry.pushes, "a rejected update must not reach the registry")
	})

	t.Run("Lowercase Mode Is Rejected", func(t *testing.T) {
		env := newTestEnv(t)
		ac := env.newAC(t, "office ac", "S3", false)

		_, err := env.invoke(boundary.CommandUpdateACState, ac.ID.ObjectID, map[string]any{"mode": "cool"})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Registry Push Lowers The Enums", func(t *testing.T) {
		env := newTestEnv(t)
		ac := env.newAC(t, "den ac", "S4", true)

		_, err := env.invoke(boundary.CommandUpdateACState, ac.ID.ObjectID, map[string]any{
			"mode": "HEAT", "fanSpeed": "MEDIUM",
		})
		require.NoError(t, err)
		require.Len(t, env.registry.pushes, 1)
		require.Equal(t, "heat", env.registry.pushes[0]["mode"])
		require.Equal(t, "medium", env.registry.pushes[0]["fanSpeed"])
	})

	t.Run("Only End Users Invoke", func(t *testing.T) {
		env := newTestEnv(t)
		ac := env.newAC(t, "lobby ac", "S5", false)

		_, err := env.commands.Invoke(&boundary.CommandBoundary{
			Command: boundary.CommandUpdateACState,
			TargetObject: boundary.TargetObject{
				ID: boundary.ObjectID{SystemID: testSystemID, ObjectID: ac.ID.ObjectID},
			},
			InvokedBy: boundary.InvokedBy{
				UserID: boundary.UserID{SystemID: testSystemID, Email: operatorEmail},
			},
			CommandAttributes: map[string]any{"power": true},
		})
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("Inactive Target Is Not Found", func(t *testing.T) {
		env := newTestEnv(t)
		ac := env.newAC(t, "attic ac", "S6", false)

		_, err := env.invoke(boundary.CommandDeleteEntityWithChilds, ac.ID.ObjectID, nil)
		require.NoError(t, err)

		_, err = env.invoke(boundary.CommandUpdateACState, ac.ID.ObjectID, map[string]any{"power": true})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUnknownCommand(t *testing.T) {
	env := newTestEnv(t)
	ac := env.newAC(t, "some ac", "S7", false)

	_, err := env.invoke("REBOOT_EVERYTHING", ac.ID.ObjectID, nil)
	require.ErrorIs(t, err, ErrUnsupportedCommand)
}

func TestDeleteEntityWithChildren(t *testing.T) {
	env := newTestEnv(t)

	tenant := env.create(t, boundary.TypeTenant, endUserEmail, "ACTIVE", nil)
	site := env.create(t, boundary.TypeSite, "home", "ACTIVE", map[string]any{"location": "Haifa"})
	room := env.create(t, boundary.TypeRoom, "living room", "ACTIVE", map[string]any{
		"temperature": 23.0, "mode": "COOL", "fanSpeed": "AUTO",
	})
	ac := env.newAC(t, "living room ac", "S8", true)
	env.bind(t, tenant, site)
	env.bind(t, site, room)
	env.bind(t, room, ac)

	t.Run("Cascade Deactivates The Whole Subtree", func(t *testing.T) {
		result, err := env.invoke(boundary.CommandDeleteEntityWithChilds, site.ID.ObjectID, nil)
		require.NoError(t, err)
		require.Equal(t, 3, result.(map[string]any)["deleted"])

		for _, obj := range []*boundary.ObjectBoundary{site, room, ac} {
			stored, err := env.objects.Get(testSystemID, obj.ID.ObjectID, testSystemID, operatorEmail)
			require.NoError(t, err)
			require.False(t, stored.Active, "%s should be inactive", stored.Alias)
		}

		storedTenant, err := env.objects.Get(testSystemID, tenant.ID.ObjectID, testSystemID, operatorEmail)
		require.NoError(t, err)
		require.True(t, storedTenant.Active, "the parent of the target must survive")
	})

	t.Run("Second Invocation Is A No-Op", func(t *testing.T) {
		_, err := env.invoke(boundary.CommandDeleteEntityWithChilds, site.ID.ObjectID, nil)
		require.NoError(t, err)
	})

	t.Run("End Users No Longer See The Subtree", func(t *testing.T) {
		_, err := env.objects.Get(testSystemID, room.ID.ObjectID, testSystemID, endUserEmail)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("A Bind Cycle Terminates", func(t *testing.T) {
		env := newTestEnv(t)
		first := env.create(t, boundary.TypeRoom, "room a", "ACTIVE", nil)
		second := env.create(t, boundary.TypeRoom, "room b", "ACTIVE", nil)
		env.bind(t, first, second)
		env.bind(t, second, first)

		result, err := env.invoke(boundary.CommandDeleteEntityWithChilds, first.ID.ObjectID, nil)
		require.NoError(t, err)
		require.Equal(t, 2, result.(map[string]any)["deleted"], "each object is deactivated exactly once")

		for _, obj := range []*boundary.ObjectBoundary{first, second} {
			stored, err := env.objects.Get(testSystemID, obj.ID.ObjectID, testSystemID, operatorEmail)
			require.NoError(t, err)
			require.False(t, stored.Active)
		}
	})
}

func TestScheduleTaskCommand(t *testing.T) {
	env := newTestEnv(t)
	ac := env.newAC(t, "office ac", "S9", false)
	task := env.create(t, boundary.TypeTask, "morning warm-up", boundary.TaskStatusInactive, nil)
	env.bind(t, ac, task)

	attrs := map[string]any{
		"taskName":              "morning warm-up",
		"action":                "TURN_ON",
		"startTime":             "07:00",
		"endTime":               "09:00",
		"repeat":                "EVERY_WEEKDAY",
		"useCurrentPreferences": true,
	}

	t.Run("Target Is The Task Itself", func(t *testing.T) {
		result, err := env.invoke(boundary.CommandScheduleTask, task.ID.ObjectID, attrs)
		require.NoError(t, err)

		scheduled := result.(*boundary.ObjectBoundary)
		require.Equal(t, boundary.TaskStatusScheduled, scheduled.Status)

		details, err := scheduled.Task()
		require.NoError(t, err)
		require.Equal(t, "07:00", details.StartTime)
		require.Equal(t, 24.0, details.Temperature, "current preferences come from the unit")
		require.Equal(t, "COOL", details.Mode)
	})

	t.Run("Unbound Task Is Rejected", func(t *testing.T) {
		orphan := env.create(t, boundary.TypeTask, "orphan", boundary.TaskStatusInactive, nil)
		_, err := env.invoke(boundary.CommandScheduleTask, orphan.ID.ObjectID, attrs)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Aiming At The Unit Is Rejected", func(t *testing.T) {
		_, err := env.invoke(boundary.CommandScheduleTask, ac.ID.ObjectID, attrs)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestVerifyACBySerialCommand(t *testing.T) {
	env := newTestEnv(t)
	room := env.create(t, boundary.TypeRoom, "study", "ACTIVE", map[string]any{
		"temperature": 22.0, "mode": "COOL", "fanSpeed": "LOW",
	})

	power := true
	temp := 19.0
	mode := "heat"
	env.registry.states["NEW01"] = &acclient.Response{
		Message: "Success",
		ACState: &boundary.ACState{Serial: "NEW01", Power: &power, Temperature: &temp, Mode: &mode},
	}

	t.Run("Known Serial Is Added Under The Room", func(t *testing.T) {
		result, err := env.invoke(boundary.CommandVerifyACBySerialAdd, room.ID.ObjectID, map[string]any{
			"serial": "NEW01", "manufacturer": "Tadiran", "wattsOfDevice": 1100.0,
		})
		require.NoError(t, err)

		added := result.(*boundary.ObjectBoundary)
		require.Equal(t, boundary.TypeAirConditioner, added.Type)
		require.Equal(t, boundary.StatusOn, added.Status)
		require.Equal(t, SystemOperatorEmail, added.CreatedBy.UserID.Email)

		details, err := added.AirConditioner()
		require.NoError(t, err)
		require.Equal(t, "NEW01", details.Serial)
		require.Equal(t, "Tadiran", details.Manufacturer)
		require.Equal(t, 1100.0, details.Watts, "wattsOfDevice must land in the stored details")
		require.Equal(t, 19.0, details.Temperature, "registry state wins over room preferences")
		require.Equal(t, "HEAT", details.Mode, "registry enums are uppercased on import")
		require.Equal(t, "LOW", details.FanSpeed, "room preference fills what the registry omitted")

		children, err := env.objects.GetChildren(testSystemID, room.ID.ObjectID, testSystemID, operatorEmail, 10, 0)
		require.NoError(t, err)
		require.Len(t, children, 1)
	})

	t.Run("Duplicate Serial Is Rejected", func(t *testing.T) {
		_, err := env.invoke(boundary.CommandVerifyACBySerialAdd, room.ID.ObjectID, map[string]any{
			"serial": "NEW01", "manufacturer": "Tadiran", "wattsOfDevice": 1100.0,
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Unknown Serial Is Not Found", func(t *testing.T) {
		_, err := env.invoke(boundary.CommandVerifyACBySerialAdd, room.ID.ObjectID, map[string]any{
			"serial": "NOPE", "manufacturer": "Tadiran", "wattsOfDevice": 1100.0,
		})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Missing Serial Is Invalid", func(t *testing.T) {
		_, err := env.invoke(boundary.CommandVerifyACBySerialAdd, room.ID.ObjectID, map[string]any{
			"manufacturer": "Tadiran", "wattsOfDevice": 1100.0,
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Missing Manufacturer Is Invalid", func(t *testing.T) {
		_, err := env.invoke(boundary.CommandVerifyACBySerialAdd, room.ID.ObjectID, map[string]any{
			"serial": "NEW02", "wattsOfDevice": 1100.0,
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Non-Positive Watts Is Invalid", func(t *testing.T) {
		_, err := env.invoke(boundary.CommandVerifyACBySerialAdd, room.ID.ObjectID, map[string]any{
			"serial": "NEW02", "manufacturer": "Tadiran", "wattsOfDevice": 0.0,
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRoomACsControlCommand(t *testing.T) {
	env := newTestEnv(t)
	room := env.create(t, boundary.TypeRoom, "open space", "ACTIVE", map[string]any{
		"temperature": 23.0, "mode": "COOL", "fanSpeed": "AUTO",
	})
	first := env.newAC(t, "unit a", "RA1", false)
	second := env.newAC(t, "unit b", "RA2", false)
	env.bind(t, room, first)
	env.bind(t, room, second)

	state := map[string]any{"power": true, "temperature": 21.0, "mode": "COOL", "fanSpeed": "HIGH"}

	t.Run("Fans Out Over Every Unit", func(t *testing.T) {
		result, err := env.invoke(boundary.CommandRoomACsControl, room.ID.ObjectID, map[string]any{"acState": state})
		require.NoError(t, err)

		updated := result.([]boundary.ObjectBoundary)
		require.Len(t, updated, 2)
		for _, obj := range updated {
			require.Equal(t, boundary.StatusOn, obj.Status)
		}
		require.Len(t, env.registry.pushes, 2, "one registry push per unit")
	})

	t.Run("Partial State Is Rejected", func(t *testing.T) {
		_, err := env.invoke(boundary.CommandRoomACsControl, room.ID.ObjectID, map[string]any{
			"acState": map[string]any{"power": false},
		})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Empty Room Is Invalid", func(t *testing.T) {
		empty := env.create(t, boundary.TypeRoom, "empty room", "ACTIVE", map[string]any{
			"temperature": 23.0, "mode": "COOL", "fanSpeed": "AUTO",
		})
		_, err := env.invoke(boundary.CommandRoomACsControl, empty.ID.ObjectID, map[string]any{"acState": state})
		require.ErrorIs(t, err, ErrInvalidInput)
		require.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestCommandNotifications(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.create(t, boundary.TypeTenant, endUserEmail, "ACTIVE", nil)
	ac := env.newAC(t, "bedroom ac", "S9", false)

	_, err := env.invoke(boundary.CommandUpdateACState, ac.ID.ObjectID, map[string]any{"power": true})
	require.NoError(t, err)

	notifs, err := env.repo.FindByAliasPrefix("info-notification-", true, 10, 0)
	require.NoError(t, err)
	require.Len(t, notifs, 1)

	notif := notifs[0]
	require.Equal(t, "info-notification-"+tenant.ID.ObjectID, notif.Alias)
	require.Equal(t, "info", notif.Status)
	require.Equal(t, SystemOperatorEmail, notif.CreatedBy.UserID.Email)

	operator, err := env.users.FindByID(testSystemID + testSep + SystemOperatorEmail)
	require.NoError(t, err, "the first notification provisions the system operator")
	require.Equal(t, boundary.RoleOperator, operator.Role)
}
